// Package numdiff approximates action model derivatives by forward finite
// differences, either as a drop-in model wrapper or as a check against
// analytic derivatives.
package numdiff

import (
	"math"
	"sync"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// DefaultStep is the forward-difference step, the square root of the
// float64 machine epsilon.
var DefaultStep = math.Sqrt(2.220446049250313e-16)

type Option func(*NumDiff)

// WithStep overrides the perturbation size.
func WithStep(h float64) Option {
	return func(n *NumDiff) {
		if h > 0 {
			n.step = h
		}
	}
}

// WithGaussNewton toggles the Gauss-Newton Hessians built from the residual
// Jacobians. Enabled by default; it has no effect on models with NR() == 0.
func WithGaussNewton(enabled bool) Option {
	return func(n *NumDiff) { n.gaussNewton = enabled }
}

// NumDiff wraps an action model and replaces its CalcDiff with finite
// differences of its Calc. State perturbations are taken in the tangent
// space.
//
// CalcDiff does not read values left by Calc. Scratch buffers are pooled, so
// a NumDiff may be shared between goroutines as long as each uses its own
// Data.
type NumDiff struct {
	model       action.Model
	step        float64
	gaussNewton bool

	pool sync.Pool
}

func New(m action.Model, opts ...Option) *NumDiff {
	n := &NumDiff{model: m, step: DefaultStep, gaussNewton: true}
	for _, opt := range opts {
		opt(n)
	}
	n.pool.New = func() any { return newScratch(m) }
	return n
}

type scratch struct {
	data *action.Data

	x0, xp *mat.VecDense
	u0, up *mat.VecDense
	dx     *mat.VecDense
	next0  *mat.VecDense
	dnext  *mat.VecDense
	r0     []float64
	zeros  []float64

	rx, ru *mat.Dense
}

func newScratch(m action.Model) *scratch {
	st := m.State()
	return &scratch{
		data:  m.CreateData(),
		x0:    dynamo.NewVec(st.Nx()),
		xp:    dynamo.NewVec(st.Nx()),
		u0:    dynamo.NewVec(m.NU()),
		up:    dynamo.NewVec(m.NU()),
		dx:    dynamo.NewVec(st.Ndx()),
		next0: dynamo.NewVec(st.Nx()),
		dnext: dynamo.NewVec(st.Ndx()),
		r0:    make([]float64, m.NR()),
		zeros: make([]float64, st.Ndx()),
		rx:    dynamo.NewMat(m.NR(), st.Ndx()),
		ru:    dynamo.NewMat(m.NR(), m.NU()),
	}
}

// Model returns the wrapped model.
func (n *NumDiff) Model() action.Model { return n.model }
func (n *NumDiff) Step() float64       { return n.step }

func (n *NumDiff) NU() int                       { return n.model.NU() }
func (n *NumDiff) NR() int                       { return n.model.NR() }
func (n *NumDiff) State() state.Manifold         { return n.model.State() }
func (n *NumDiff) NeutralControl() *mat.VecDense { return n.model.NeutralControl() }
func (n *NumDiff) ULowerBound() *mat.VecDense    { return n.model.ULowerBound() }
func (n *NumDiff) UUpperBound() *mat.VecDense    { return n.model.UUpperBound() }
func (n *NumDiff) HasControlLimits() bool        { return n.model.HasControlLimits() }
func (n *NumDiff) CreateData() *action.Data      { return n.model.CreateData() }

func (n *NumDiff) Calc(data *action.Data, x, u mat.Vector) error {
	return n.model.Calc(data, x, u)
}

// CalcDiff writes Fx, Fu, Lx and Lu, plus Lxx = RxᵀRx, Lxu = RxᵀRu and
// Luu = RuᵀRu when the model has a residual and Gauss-Newton is enabled.
// The Gauss-Newton blocks take the cost to be ½|r|², whatever scaling the
// model applies to it.
func (n *NumDiff) CalcDiff(data *action.Data, x, u mat.Vector) error {
	if err := action.CheckArgs("NumDiff.CalcDiff", n, data, x, u); err != nil {
		return err
	}
	s := n.pool.Get().(*scratch)
	defer n.pool.Put(s)

	m := n.model
	st := m.State()
	ndx, nu, nr := st.Ndx(), m.NU(), m.NR()

	dynamo.CopyInto(s.x0, x)
	dynamo.CopyInto(s.u0, u)
	if err := m.Calc(s.data, s.x0, s.u0); err != nil {
		return err
	}
	dynamo.CopyInto(s.next0, s.data.Xnext)
	copy(s.r0, dynamo.Slice(s.data.R))
	cost0 := s.data.Cost

	var calcErr error
	calc := func(x, u mat.Vector) {
		if err := m.Calc(s.data, x, u); err != nil && calcErr == nil {
			calcErr = err
		}
	}
	atX := func(dx []float64) {
		copy(s.dx.RawVector().Data, dx)
		st.Integrate(s.x0, s.dx, s.xp)
		calc(s.xp, s.u0)
	}
	atU := func(up []float64) {
		copy(s.up.RawVector().Data, up)
		calc(s.x0, s.up)
	}

	gn := n.gaussNewton && nr > 0
	if ndx > 0 {
		n.linearize(s, atX, s.zeros, data.Fx, data.Lx, s.rx, cost0, gn)
	}
	if nu > 0 {
		n.linearize(s, atU, s.u0.RawVector().Data, data.Fu, data.Lu, s.ru, cost0, gn)
	}
	if calcErr != nil {
		return calcErr
	}

	if gn {
		if ndx > 0 {
			data.Lxx.Mul(s.rx.T(), s.rx)
		}
		if ndx > 0 && nu > 0 {
			data.Lxu.Mul(s.rx.T(), s.ru)
		}
		if nu > 0 {
			data.Luu.Mul(s.ru.T(), s.ru)
		}
	}
	return nil
}

// linearize differentiates the next state, the cost and optionally the
// residual along the variable perturbed by eval, around origin.
func (n *NumDiff) linearize(s *scratch, eval func([]float64), origin []float64,
	fout *mat.Dense, gout *mat.VecDense, rout *mat.Dense, cost0 float64, residual bool) {
	st := n.model.State()

	if st.Ndx() > 0 {
		fd.Jacobian(fout, func(y, p []float64) {
			eval(p)
			st.Diff(s.next0, s.data.Xnext, s.dnext)
			copy(y, s.dnext.RawVector().Data)
		}, origin, &fd.JacobianSettings{
			Formula:     fd.Forward,
			OriginValue: s.zeros,
			Step:        n.step,
		})
	}

	fd.Gradient(gout.RawVector().Data, func(p []float64) float64 {
		eval(p)
		return s.data.Cost
	}, origin, &fd.Settings{
		Formula:     fd.Forward,
		Step:        n.step,
		OriginKnown: true,
		OriginValue: cost0,
	})

	if residual {
		fd.Jacobian(rout, func(y, p []float64) {
			eval(p)
			copy(y, s.data.R.RawVector().Data)
		}, origin, &fd.JacobianSettings{
			Formula:     fd.Forward,
			OriginValue: s.r0,
			Step:        n.step,
		})
	}
}

package control

import (
	"fmt"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Feedback is the affine state feedback u = u0 - K(x - target).
type Feedback struct {
	K      *mat.Dense
	Target *mat.VecDense
	U0     *mat.VecDense
}

func NewFeedback(k [][]float64, target []float64) *Feedback {
	nu := len(k)
	nx := len(target)
	gains := dynamo.NewMat(nu, nx)
	for i := range k {
		for j := 0; j < nx && j < len(k[i]); j++ {
			gains.Set(i, j, k[i][j])
		}
	}
	return &Feedback{K: gains, Target: dynamo.VecFrom(target), U0: dynamo.NewVec(nu)}
}

// NewEquilibriumFeedback finds the control that holds m at target by
// quasi-static search and uses it as the feedforward term.
func NewEquilibriumFeedback(m action.Model, k [][]float64, target []float64, opts ...action.QuasiStaticOption) (*Feedback, error) {
	if len(k) != m.NU() {
		return nil, &action.DimensionError{Op: "NewEquilibriumFeedback", Arg: "K rows", Got: len(k), Want: m.NU()}
	}
	f := NewFeedback(k, target)
	res, err := action.QuasiStatic(m, m.CreateData(), f.U0, f.Target, opts...)
	if err != nil {
		return nil, fmt.Errorf("equilibrium control: %w", err)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("equilibrium control: %w", err)
	}
	return f, nil
}

func (f *Feedback) Compute(x mat.Vector, t float64) *mat.VecDense {
	u := dynamo.Clone(f.U0)
	r, c := f.K.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c && j < x.Len(); j++ {
			u.SetVec(i, u.AtVec(i)-f.K.At(i, j)*(x.AtVec(j)-f.Target.AtVec(j)))
		}
	}
	return u
}

// Hand-tuned gains around the upright equilibria.
var (
	pendulumGains = [][]float64{{31.62, 10.0}}
	cartpoleGains = [][]float64{{-1.0, -18.69, -1.66, -3.46}}
)

func copyGains(k [][]float64) [][]float64 {
	out := make([][]float64, len(k))
	for i := range k {
		out[i] = append([]float64(nil), k[i]...)
	}
	return out
}

// PendulumGains are the hand-tuned models.Pendulum gains.
func PendulumGains() [][]float64 { return copyGains(pendulumGains) }

// CartPoleGains are the hand-tuned models.CartPole gains.
func CartPoleGains() [][]float64 { return copyGains(cartpoleGains) }

// NewPendulumFeedback balances models.Pendulum at θ = π.
func NewPendulumFeedback() *Feedback {
	return NewFeedback(pendulumGains, []float64{3.141592653589793, 0})
}

// NewCartPoleFeedback balances models.CartPole at the origin.
func NewCartPoleFeedback() *Feedback {
	return NewFeedback(cartpoleGains, []float64{0, 0, 0, 0})
}

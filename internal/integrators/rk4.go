package integrators

import (
	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/numdiff"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/mat"
)

// RK4 is a fourth-order Runge-Kutta integrated action model. The cost is
// the RK4 quadrature of the cost rate and the residual is the one at (x, u).
//
// CalcDiff takes Fx, Fu, Lx and Lu from forward differences of Calc and
// approximates the cost Hessians by dt times the differential Hessians at
// (x, u). It does not read values left by Calc.
type RK4 struct {
	diff action.DifferentialModel
	dt   float64
	nd   *numdiff.NumDiff
}

func NewRK4(dm action.DifferentialModel, dt float64) (*RK4, error) {
	if err := checkIntegrable(dm, dt); err != nil {
		return nil, err
	}
	r := &RK4{diff: dm, dt: dt}
	r.nd = numdiff.New(r, numdiff.WithGaussNewton(false))
	return r, nil
}

type rk4Data struct {
	diff           *action.DifferentialData
	k1, k2, k3, k4 *mat.VecDense
	scratch        *mat.VecDense
}

func (r *RK4) Differential() action.DifferentialModel { return r.diff }
func (r *RK4) TimeStep() float64                      { return r.dt }

func (r *RK4) NU() int                       { return r.diff.NU() }
func (r *RK4) NR() int                       { return r.diff.NR() }
func (r *RK4) State() state.Manifold         { return r.diff.State() }
func (r *RK4) NeutralControl() *mat.VecDense { return r.diff.NeutralControl() }
func (r *RK4) ULowerBound() *mat.VecDense    { return r.diff.ULowerBound() }
func (r *RK4) UUpperBound() *mat.VecDense    { return r.diff.UUpperBound() }
func (r *RK4) HasControlLimits() bool        { return r.diff.HasControlLimits() }

func (r *RK4) CreateData() *action.Data {
	n := r.State().Ndx()
	data := action.NewData(r)
	data.Ext = &rk4Data{
		diff:    r.diff.CreateData(),
		k1:      dynamo.NewVec(n),
		k2:      dynamo.NewVec(n),
		k3:      dynamo.NewVec(n),
		k4:      dynamo.NewVec(n),
		scratch: dynamo.NewVec(n),
	}
	return data
}

func rk4Scratch(data *action.Data) (*rk4Data, error) {
	rd, ok := data.Ext.(*rk4Data)
	if !ok {
		return nil, action.ErrDataMismatch
	}
	return rd, nil
}

// derive writes k = [v; a(x, u)] and returns the cost rate at x.
func (r *RK4) derive(rd *rk4Data, x, u mat.Vector, k *mat.VecDense) (float64, error) {
	if err := r.diff.Calc(rd.diff, x, u); err != nil {
		return 0, err
	}
	nv := r.State().Nv()
	for i := 0; i < nv; i++ {
		k.SetVec(i, x.AtVec(nv+i))
		k.SetVec(nv+i, rd.diff.Xout.AtVec(i))
	}
	return rd.diff.Cost, nil
}

// advance sets rd.scratch = x + h·k.
func advance(rd *rk4Data, x mat.Vector, h float64, k *mat.VecDense) {
	dynamo.CopyInto(rd.scratch, x)
	dynamo.AddScaledVec(rd.scratch, h, k)
}

func (r *RK4) Calc(data *action.Data, x, u mat.Vector) error {
	if err := action.CheckArgs("RK4.Calc", r, data, x, u); err != nil {
		return err
	}
	rd, err := rk4Scratch(data)
	if err != nil {
		return err
	}
	dt := r.dt

	l1, err := r.derive(rd, x, u, rd.k1)
	if err != nil {
		return err
	}
	dynamo.CopyInto(data.R, rd.diff.R)
	if dt == 0 {
		dynamo.CopyInto(data.Xnext, x)
		data.Cost = l1
		return nil
	}

	advance(rd, x, 0.5*dt, rd.k1)
	l2, err := r.derive(rd, rd.scratch, u, rd.k2)
	if err != nil {
		return err
	}
	advance(rd, x, 0.5*dt, rd.k2)
	l3, err := r.derive(rd, rd.scratch, u, rd.k3)
	if err != nil {
		return err
	}
	advance(rd, x, dt, rd.k3)
	l4, err := r.derive(rd, rd.scratch, u, rd.k4)
	if err != nil {
		return err
	}

	dt6 := dt / 6.0
	n := r.State().Nx()
	for i := 0; i < n; i++ {
		data.Xnext.SetVec(i, x.AtVec(i)+dt6*(rd.k1.AtVec(i)+2*rd.k2.AtVec(i)+2*rd.k3.AtVec(i)+rd.k4.AtVec(i)))
	}
	data.Cost = dt6 * (l1 + 2*l2 + 2*l3 + l4)
	return nil
}

func (r *RK4) CalcDiff(data *action.Data, x, u mat.Vector) error {
	if err := r.nd.CalcDiff(data, x, u); err != nil {
		return err
	}
	rd, err := rk4Scratch(data)
	if err != nil {
		return err
	}
	if err := r.diff.CalcDiff(rd.diff, x, u); err != nil {
		return err
	}

	scale := r.dt
	if scale == 0 {
		scale = 1
	}
	dynamo.ScaleMat(data.Lxx, scale, rd.diff.Lxx)
	dynamo.ScaleMat(data.Lxu, scale, rd.diff.Lxu)
	dynamo.ScaleMat(data.Luu, scale, rd.diff.Luu)
	return nil
}

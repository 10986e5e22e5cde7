package integrators

import (
	"fmt"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/mat"
)

// Euler is a symplectic Euler integrated action model.
type Euler struct {
	diff action.DifferentialModel
	dt   float64
}

func NewEuler(dm action.DifferentialModel, dt float64) (*Euler, error) {
	if err := checkIntegrable(dm, dt); err != nil {
		return nil, err
	}
	return &Euler{diff: dm, dt: dt}, nil
}

func checkIntegrable(dm action.DifferentialModel, dt float64) error {
	if dm == nil {
		return fmt.Errorf("%w: nil differential model", action.ErrParameterBounds)
	}
	if dt < 0 {
		return fmt.Errorf("%w: dt=%g", action.ErrParameterBounds, dt)
	}
	st := dm.State()
	if st.Nq() != st.Nv() || st.Nx() != st.Ndx() {
		return fmt.Errorf("%w: integration needs a Euclidean state with nq == nv (nq=%d, nv=%d)",
			action.ErrParameterBounds, st.Nq(), st.Nv())
	}
	return nil
}

func (e *Euler) Differential() action.DifferentialModel { return e.diff }
func (e *Euler) TimeStep() float64                      { return e.dt }

func (e *Euler) NU() int                       { return e.diff.NU() }
func (e *Euler) NR() int                       { return e.diff.NR() }
func (e *Euler) State() state.Manifold         { return e.diff.State() }
func (e *Euler) NeutralControl() *mat.VecDense { return e.diff.NeutralControl() }
func (e *Euler) ULowerBound() *mat.VecDense    { return e.diff.ULowerBound() }
func (e *Euler) UUpperBound() *mat.VecDense    { return e.diff.UUpperBound() }
func (e *Euler) HasControlLimits() bool        { return e.diff.HasControlLimits() }

// CreateData attaches the differential data as Ext.
func (e *Euler) CreateData() *action.Data {
	data := action.NewData(e)
	data.Ext = e.diff.CreateData()
	return data
}

func differentialData(data *action.Data) (*action.DifferentialData, error) {
	dd, ok := data.Ext.(*action.DifferentialData)
	if !ok {
		return nil, action.ErrDataMismatch
	}
	return dd, nil
}

func (e *Euler) Calc(data *action.Data, x, u mat.Vector) error {
	if err := action.CheckArgs("Euler.Calc", e, data, x, u); err != nil {
		return err
	}
	dd, err := differentialData(data)
	if err != nil {
		return err
	}
	if err := e.diff.Calc(dd, x, u); err != nil {
		return err
	}

	nv := e.State().Nv()
	if e.dt == 0 {
		dynamo.CopyInto(data.Xnext, x)
		data.Cost = dd.Cost
	} else {
		for i := 0; i < nv; i++ {
			v := x.AtVec(nv+i) + dd.Xout.AtVec(i)*e.dt
			data.Xnext.SetVec(nv+i, v)
			data.Xnext.SetVec(i, x.AtVec(i)+v*e.dt)
		}
		data.Cost = e.dt * dd.Cost
	}
	dynamo.CopyInto(data.R, dd.R)
	return nil
}

// CalcDiff chains the differential derivatives through the update. It
// calls the differential CalcDiff and does not read values left by Calc.
func (e *Euler) CalcDiff(data *action.Data, x, u mat.Vector) error {
	if err := action.CheckArgs("Euler.CalcDiff", e, data, x, u); err != nil {
		return err
	}
	dd, err := differentialData(data)
	if err != nil {
		return err
	}
	if err := e.diff.CalcDiff(dd, x, u); err != nil {
		return err
	}

	nv := e.State().Nv()
	ndx := e.State().Ndx()
	nu := e.NU()
	dt := e.dt

	dynamo.ZeroMat(data.Fx)
	dynamo.ZeroMat(data.Fu)
	for i := 0; i < ndx; i++ {
		data.Fx.Set(i, i, 1)
	}

	if dt == 0 {
		dynamo.CopyInto(data.Lx, dd.Lx)
		dynamo.CopyInto(data.Lu, dd.Lu)
		dynamo.CopyMat(data.Lxx, dd.Lxx)
		dynamo.CopyMat(data.Lxu, dd.Lxu)
		dynamo.CopyMat(data.Luu, dd.Luu)
		return nil
	}

	// v' = v + dt·a,  q' = q + dt·v'
	for i := 0; i < nv; i++ {
		for j := 0; j < ndx; j++ {
			da := dd.Fx.At(i, j)
			data.Fx.Set(nv+i, j, data.Fx.At(nv+i, j)+dt*da)
			data.Fx.Set(i, j, data.Fx.At(i, j)+dt*dt*da)
		}
		data.Fx.Set(i, nv+i, data.Fx.At(i, nv+i)+dt)
		for k := 0; k < nu; k++ {
			da := dd.Fu.At(i, k)
			data.Fu.Set(nv+i, k, dt*da)
			data.Fu.Set(i, k, dt*dt*da)
		}
	}

	dynamo.ZeroVec(data.Lx)
	dynamo.ZeroVec(data.Lu)
	dynamo.AddScaledVec(data.Lx, dt, dd.Lx)
	dynamo.AddScaledVec(data.Lu, dt, dd.Lu)
	dynamo.ScaleMat(data.Lxx, dt, dd.Lxx)
	dynamo.ScaleMat(data.Lxu, dt, dd.Lxu)
	dynamo.ScaleMat(data.Luu, dt, dd.Luu)
	return nil
}

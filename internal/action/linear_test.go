package action_test

import (
	"math"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/mat"
)

// linearModel is xnext = A·x + B·u with cost ½|u|².
type linearModel struct {
	action.Base
	a, b *mat.Dense
}

func newLinearModel(st state.Manifold, a, b *mat.Dense) *linearModel {
	_, nu := b.Dims()
	base, err := action.NewBase(st, nu, 0)
	if err != nil {
		panic(err)
	}
	return &linearModel{Base: base, a: a, b: b}
}

func (m *linearModel) Calc(data *action.Data, x, u mat.Vector) error {
	if err := action.CheckArgs("Calc", m, data, x, u); err != nil {
		return err
	}
	dynamo.MulVecTo(data.Xnext, m.a, x)
	dynamo.MulAddVec(data.Xnext, m.b, u)
	data.Cost = 0.5 * dynamo.Dot(u, u)
	return nil
}

func (m *linearModel) CalcDiff(data *action.Data, x, u mat.Vector) error {
	if err := action.CheckArgs("CalcDiff", m, data, x, u); err != nil {
		return err
	}
	dynamo.CopyMat(data.Fx, m.a)
	dynamo.CopyMat(data.Fu, m.b)
	dynamo.CopyInto(data.Lu, u)
	for i := 0; i < m.NU(); i++ {
		data.Luu.Set(i, i, 1)
	}
	return nil
}

func (m *linearModel) CreateData() *action.Data {
	return action.NewData(m)
}

// atanModel is xnext = x + atan(u) on a scalar state, a system on which full
// Gauss-Newton steps overshoot once |u| is large.
type atanModel struct {
	action.Base
}

func newAtanModel() *atanModel {
	base, err := action.NewBase(state.NewVectorN(1), 1, 0)
	if err != nil {
		panic(err)
	}
	return &atanModel{Base: base}
}

func (m *atanModel) Calc(data *action.Data, x, u mat.Vector) error {
	if err := action.CheckArgs("Calc", m, data, x, u); err != nil {
		return err
	}
	data.Xnext.SetVec(0, x.AtVec(0)+math.Atan(u.AtVec(0)))
	return nil
}

func (m *atanModel) CalcDiff(data *action.Data, x, u mat.Vector) error {
	if err := action.CheckArgs("CalcDiff", m, data, x, u); err != nil {
		return err
	}
	v := u.AtVec(0)
	data.Fx.Set(0, 0, 1)
	data.Fu.Set(0, 0, 1/(1+v*v))
	return nil
}

func (m *atanModel) CreateData() *action.Data {
	return action.NewData(m)
}

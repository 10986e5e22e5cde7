package models

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/mat"
)

// DiffLQR is the continuous-time counterpart of LQR: the acceleration is
// a = Fq·q + Fv·v + Fu·u + f0 with Fq, Fv nv×nq and Fu nv×nu, and the cost
// rate has the same quadratic form.
type DiffLQR struct {
	action.Base
	quadraticCost

	fx *mat.Dense
	fu *mat.Dense
	f0 *mat.VecDense
}

// NewDiffLQR draws random constants for nq = nv positions and nu controls.
func NewDiffLQR(nq, nu int, driftFree bool, rng *rand.Rand) (*DiffLQR, error) {
	if nq < 0 || nu < 0 {
		return nil, fmt.Errorf("%w: nq=%d nu=%d", action.ErrParameterBounds, nq, nu)
	}
	st := state.NewVector(nq, nq)
	base, err := action.NewBase(st, nu, 0)
	if err != nil {
		return nil, err
	}
	ndx := st.Ndx()

	m := &DiffLQR{
		Base: base,
		quadraticCost: quadraticCost{
			lxx: randGram(rng, ndx),
			lxu: randDense(rng, ndx, nu),
			luu: randGram(rng, nu),
			lx:  randVec(rng, ndx),
			lu:  randVec(rng, nu),
		},
		fx: stackColumns(randDense(rng, nq, nq), randDense(rng, nq, nq), nq),
		fu: randDense(rng, nq, nu),
		f0: dynamo.NewVec(nq),
	}
	if !driftFree {
		m.f0 = randVec(rng, nq)
	}
	return m, nil
}

func (m *DiffLQR) Calc(data *action.DifferentialData, x, u mat.Vector) error {
	if err := action.CheckDifferentialArgs("DiffLQR.Calc", m, data, x, u); err != nil {
		return err
	}
	dynamo.MulVecTo(data.Xout, m.fx, x)
	dynamo.MulAddVec(data.Xout, m.fu, u)
	dynamo.AddScaledVec(data.Xout, 1, m.f0)
	data.Cost = m.value(x, u)
	return nil
}

// CalcDiff does not depend on a preceding Calc.
func (m *DiffLQR) CalcDiff(data *action.DifferentialData, x, u mat.Vector) error {
	if err := action.CheckDifferentialArgs("DiffLQR.CalcDiff", m, data, x, u); err != nil {
		return err
	}
	dynamo.CopyMat(data.Fx, m.fx)
	dynamo.CopyMat(data.Fu, m.fu)
	m.hessian(data.Lxx, data.Lxu, data.Luu)
	m.gradient(data.Lx, data.Lu, x, u)
	return nil
}

func (m *DiffLQR) CreateData() *action.DifferentialData {
	data := action.NewDifferentialData(m)
	dynamo.CopyMat(data.Fx, m.fx)
	dynamo.CopyMat(data.Fu, m.fu)
	m.hessian(data.Lxx, data.Lxu, data.Luu)
	return data
}

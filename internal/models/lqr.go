package models

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/mat"
)

// LQRParams are the constant blocks of an LQR model. Nil entries are zero.
// Fq is ndx×nq and Fv is ndx×nv, so that Fx = [Fq Fv].
type LQRParams struct {
	Fq  *mat.Dense
	Fv  *mat.Dense
	Fu  *mat.Dense
	F0  *mat.VecDense
	Lxx *mat.Dense
	Lxu *mat.Dense
	Luu *mat.Dense
	Lx  *mat.VecDense
	Lu  *mat.VecDense
}

// LQR is a discrete linear-quadratic node:
//
//	xnext = Fq·q + Fv·v + Fu·u + f0
//	cost  = ½xᵀLxx x + xᵀLxu u + ½uᵀLuu u + lxᵀx + luᵀu
//
// CalcDiff does not depend on a preceding Calc.
type LQR struct {
	action.Base
	quadraticCost

	fq *mat.Dense
	fv *mat.Dense
	fx *mat.Dense
	fu *mat.Dense
	f0 *mat.VecDense

	driftFree bool
}

// NewLQR builds an LQR with nq positions, nq velocities and nu controls and
// random constants drawn from rng. Lxx and Luu are random Gram matrices.
// With driftFree the affine term f0 is zero.
func NewLQR(nq, nu int, driftFree bool, rng *rand.Rand) (*LQR, error) {
	if nq < 0 || nu < 0 {
		return nil, fmt.Errorf("%w: nq=%d nu=%d", action.ErrParameterBounds, nq, nu)
	}
	ndx := 2 * nq

	p := LQRParams{
		Fq:  randDense(rng, ndx, nq),
		Fv:  randDense(rng, ndx, nq),
		Fu:  randDense(rng, ndx, nu),
		Lxx: randGram(rng, ndx),
		Lxu: randDense(rng, ndx, nu),
		Luu: randGram(rng, nu),
		Lx:  randVec(rng, ndx),
		Lu:  randVec(rng, nu),
	}
	if !driftFree {
		p.F0 = randVec(rng, ndx)
	}
	return NewLQRFromParams(nq, nu, p)
}

// NewLQRFromParams builds an LQR from caller-supplied constants, which are
// copied. Lxx and Luu are stored as their symmetric parts ½(A+Aᵀ), which
// leaves the cost unchanged and makes them its true Hessian blocks.
func NewLQRFromParams(nq, nu int, p LQRParams) (*LQR, error) {
	if nq < 0 || nu < 0 {
		return nil, fmt.Errorf("%w: nq=%d nu=%d", action.ErrParameterBounds, nq, nu)
	}
	st := state.NewVector(nq, nq)
	base, err := action.NewBase(st, nu, 0)
	if err != nil {
		return nil, err
	}
	ndx := st.Ndx()

	checks := []struct {
		name string
		m    mat.Matrix
		r, c int
	}{
		{"Fq", p.Fq, ndx, nq},
		{"Fv", p.Fv, ndx, nq},
		{"Fu", p.Fu, ndx, nu},
		{"Lxx", p.Lxx, ndx, ndx},
		{"Lxu", p.Lxu, ndx, nu},
		{"Luu", p.Luu, nu, nu},
	}
	for _, c := range checks {
		if err := checkShape("NewLQR", c.name, c.m, c.r, c.c); err != nil {
			return nil, err
		}
	}
	for _, c := range []struct {
		name string
		v    *mat.VecDense
		n    int
	}{{"f0", p.F0, ndx}, {"lx", p.Lx, ndx}, {"lu", p.Lu, nu}} {
		if c.v != nil && dynamo.Len(c.v) != c.n {
			return nil, &action.DimensionError{Op: "NewLQR", Arg: c.name, Got: dynamo.Len(c.v), Want: c.n}
		}
	}

	m := &LQR{
		Base: base,
		quadraticCost: quadraticCost{
			lxx: symmetricPart(p.Lxx, ndx),
			lxu: cloneDense(p.Lxu, ndx, nu),
			luu: symmetricPart(p.Luu, nu),
			lx:  cloneVec(p.Lx, ndx),
			lu:  cloneVec(p.Lu, nu),
		},
		fq:        cloneDense(p.Fq, ndx, nq),
		fv:        cloneDense(p.Fv, ndx, nq),
		fu:        cloneDense(p.Fu, ndx, nu),
		f0:        cloneVec(p.F0, ndx),
		driftFree: p.F0 == nil || dynamo.Norm(p.F0) == 0,
	}
	m.fx = stackColumns(m.fq, m.fv, ndx)
	return m, nil
}

// checkShape accepts a nil matrix as a zero block of the right shape.
func checkShape(op, name string, m mat.Matrix, r, c int) error {
	if isNilMatrix(m) {
		return nil
	}
	gr, gc := m.Dims()
	if r == 0 || c == 0 {
		if gr*gc != 0 {
			return &action.DimensionError{Op: op, Arg: name, Got: gr * gc, Want: 0}
		}
		return nil
	}
	if gr != r {
		return &action.DimensionError{Op: op, Arg: name + " rows", Got: gr, Want: r}
	}
	if gc != c {
		return &action.DimensionError{Op: op, Arg: name + " cols", Got: gc, Want: c}
	}
	return nil
}

func isNilMatrix(m mat.Matrix) bool {
	d, ok := m.(*mat.Dense)
	return m == nil || (ok && d == nil)
}

// stackColumns returns [a b] with r rows.
func stackColumns(a, b *mat.Dense, r int) *mat.Dense {
	_, ca := a.Dims()
	_, cb := b.Dims()
	out := dynamo.NewMat(r, ca+cb)
	for i := 0; i < r; i++ {
		for j := 0; j < ca; j++ {
			out.Set(i, j, a.At(i, j))
		}
		for j := 0; j < cb; j++ {
			out.Set(i, ca+j, b.At(i, j))
		}
	}
	return out
}

func (m *LQR) DriftFree() bool { return m.driftFree }

func (m *LQR) Fq() *mat.Dense    { return m.fq }
func (m *LQR) Fv() *mat.Dense    { return m.fv }
func (m *LQR) Fu() *mat.Dense    { return m.fu }
func (m *LQR) F0() *mat.VecDense { return m.f0 }
func (m *LQR) Lxx() *mat.Dense   { return m.lxx }
func (m *LQR) Lxu() *mat.Dense   { return m.lxu }
func (m *LQR) Luu() *mat.Dense   { return m.luu }
func (m *LQR) Lx() *mat.VecDense { return m.lx }
func (m *LQR) Lu() *mat.VecDense { return m.lu }

func (m *LQR) Calc(data *action.Data, x, u mat.Vector) error {
	if err := action.CheckArgs("LQR.Calc", m, data, x, u); err != nil {
		return err
	}
	dynamo.MulVecTo(data.Xnext, m.fx, x)
	dynamo.MulAddVec(data.Xnext, m.fu, u)
	dynamo.AddScaledVec(data.Xnext, 1, m.f0)
	data.Cost = m.value(x, u)
	return nil
}

func (m *LQR) CalcDiff(data *action.Data, x, u mat.Vector) error {
	if err := action.CheckArgs("LQR.CalcDiff", m, data, x, u); err != nil {
		return err
	}
	dynamo.CopyMat(data.Fx, m.fx)
	dynamo.CopyMat(data.Fu, m.fu)
	m.hessian(data.Lxx, data.Lxu, data.Luu)
	m.gradient(data.Lx, data.Lu, x, u)
	return nil
}

// CreateData returns a Data with the constant blocks already filled in.
func (m *LQR) CreateData() *action.Data {
	data := action.NewData(m)
	dynamo.CopyMat(data.Fx, m.fx)
	dynamo.CopyMat(data.Fu, m.fu)
	m.hessian(data.Lxx, data.Lxu, data.Luu)
	return data
}

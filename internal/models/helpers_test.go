package models

import (
	"math"
	"testing"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

const fdStep = 1e-6

type fdResult struct {
	fx, fu *mat.Dense
	lx, lu *mat.VecDense
}

// fdAction forward-differences Calc on a Euclidean state.
func fdAction(t *testing.T, m action.Model, x, u *mat.VecDense) fdResult {
	t.Helper()
	ndx, nu := m.State().Ndx(), m.NU()
	data := m.CreateData()
	if err := m.Calc(data, x, u); err != nil {
		t.Fatal(err)
	}
	x0 := dynamo.Clone(data.Xnext)
	c0 := data.Cost

	res := fdResult{
		fx: dynamo.NewMat(ndx, ndx), fu: dynamo.NewMat(ndx, nu),
		lx: dynamo.NewVec(ndx), lu: dynamo.NewVec(nu),
	}
	perturb := func(v *mat.VecDense, j int, fcol *mat.Dense, g *mat.VecDense) {
		old := v.AtVec(j)
		v.SetVec(j, old+fdStep)
		if err := m.Calc(data, x, u); err != nil {
			t.Fatal(err)
		}
		v.SetVec(j, old)
		for i := 0; i < ndx; i++ {
			fcol.Set(i, j, (data.Xnext.AtVec(i)-x0.AtVec(i))/fdStep)
		}
		g.SetVec(j, (data.Cost-c0)/fdStep)
	}
	for j := 0; j < ndx; j++ {
		perturb(x, j, res.fx, res.lx)
	}
	for j := 0; j < nu; j++ {
		perturb(u, j, res.fu, res.lu)
	}
	return res
}

// fdDifferential forward-differences the acceleration and cost rate.
func fdDifferential(t *testing.T, m action.DifferentialModel, x, u *mat.VecDense) fdResult {
	t.Helper()
	ndx, nu, nv := m.State().Ndx(), m.NU(), m.State().Nv()
	data := m.CreateData()
	if err := m.Calc(data, x, u); err != nil {
		t.Fatal(err)
	}
	a0 := dynamo.Clone(data.Xout)
	c0 := data.Cost

	res := fdResult{
		fx: dynamo.NewMat(nv, ndx), fu: dynamo.NewMat(nv, nu),
		lx: dynamo.NewVec(ndx), lu: dynamo.NewVec(nu),
	}
	perturb := func(v *mat.VecDense, j int, fcol *mat.Dense, g *mat.VecDense) {
		old := v.AtVec(j)
		v.SetVec(j, old+fdStep)
		if err := m.Calc(data, x, u); err != nil {
			t.Fatal(err)
		}
		v.SetVec(j, old)
		for i := 0; i < nv; i++ {
			fcol.Set(i, j, (data.Xout.AtVec(i)-a0.AtVec(i))/fdStep)
		}
		g.SetVec(j, (data.Cost-c0)/fdStep)
	}
	for j := 0; j < ndx; j++ {
		perturb(x, j, res.fx, res.lx)
	}
	for j := 0; j < nu; j++ {
		perturb(u, j, res.fu, res.lu)
	}
	return res
}

func assertMatClose(t *testing.T, name string, got, want mat.Matrix, tol float64) {
	t.Helper()
	r, c := want.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if d := math.Abs(got.At(i, j) - want.At(i, j)); d > tol {
				t.Errorf("%s[%d,%d] = %g, want %g (diff %g)", name, i, j, got.At(i, j), want.At(i, j), d)
			}
		}
	}
}

func assertVecClose(t *testing.T, name string, got, want mat.Vector, tol float64) {
	t.Helper()
	for i := 0; i < dynamo.Len(want); i++ {
		if d := math.Abs(got.AtVec(i) - want.AtVec(i)); d > tol {
			t.Errorf("%s[%d] = %g, want %g (diff %g)", name, i, got.AtVec(i), want.AtVec(i), d)
		}
	}
}

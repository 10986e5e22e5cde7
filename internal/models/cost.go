package models

import (
	"math"

	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// quadraticCost is ½xᵀLxx x + xᵀLxu u + ½uᵀLuu u + lxᵀx + luᵀu.
type quadraticCost struct {
	lxx *mat.Dense
	lxu *mat.Dense
	luu *mat.Dense
	lx  *mat.VecDense
	lu  *mat.VecDense
}

func (c *quadraticCost) value(x, u mat.Vector) float64 {
	return 0.5*dynamo.Quad(x, c.lxx, x) +
		dynamo.Quad(x, c.lxu, u) +
		0.5*dynamo.Quad(u, c.luu, u) +
		dynamo.Dot(c.lx, x) +
		dynamo.Dot(c.lu, u)
}

// gradient writes Lxx x + Lxu u + lx and Lxuᵀx + Luu u + lu.
func (c *quadraticCost) gradient(gx, gu *mat.VecDense, x, u mat.Vector) {
	dynamo.MulVecTo(gx, c.lxx, x)
	dynamo.MulAddVec(gx, c.lxu, u)
	dynamo.AddScaledVec(gx, 1, c.lx)

	dynamo.MulVecTo(gu, c.luu, u)
	dynamo.MulTransAddVec(gu, c.lxu, x)
	dynamo.AddScaledVec(gu, 1, c.lu)
}

func (c *quadraticCost) hessian(lxx, lxu, luu *mat.Dense) {
	dynamo.CopyMat(lxx, c.lxx)
	dynamo.CopyMat(lxu, c.lxu)
	dynamo.CopyMat(luu, c.luu)
}

// residualCost is the tracking cost ½|r|² with
// r = [sqrt(wx)∘(x - xref); sqrt(wu)∘u].
type residualCost struct {
	xref []float64
	wx   []float64
	wu   []float64
}

func newResidualCost(xref, wx, wu []float64) residualCost {
	return residualCost{xref: xref, wx: wx, wu: wu}
}

func (c *residualCost) nr() int { return len(c.wx) + len(c.wu) }

// calc writes the residual into r and returns the cost.
func (c *residualCost) calc(r *mat.VecDense, x, u mat.Vector) float64 {
	for i, w := range c.wx {
		r.SetVec(i, math.Sqrt(w)*(x.AtVec(i)-c.xref[i]))
	}
	for i, w := range c.wu {
		r.SetVec(len(c.wx)+i, math.Sqrt(w)*u.AtVec(i))
	}
	return 0.5 * dynamo.Dot(r, r)
}

func (c *residualCost) calcDiff(lx, lu *mat.VecDense, lxx, lxu, luu *mat.Dense, x, u mat.Vector) {
	for i, w := range c.wx {
		lx.SetVec(i, w*(x.AtVec(i)-c.xref[i]))
		lxx.Set(i, i, w)
	}
	for i, w := range c.wu {
		lu.SetVec(i, w*u.AtVec(i))
		luu.Set(i, i, w)
	}
	dynamo.ZeroMat(lxu)
}

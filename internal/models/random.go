package models

import (
	"math/rand"

	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// randDense draws a r×c matrix with entries uniform in [-1, 1).
func randDense(rng *rand.Rand, r, c int) *mat.Dense {
	m := dynamo.NewMat(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, 2*rng.Float64()-1)
		}
	}
	return m
}

func randVec(rng *rand.Rand, n int) *mat.VecDense {
	v := dynamo.NewVec(n)
	for i := 0; i < n; i++ {
		v.SetVec(i, 2*rng.Float64()-1)
	}
	return v
}

// randGram returns A·Aᵀ for a random n×n matrix A, which is symmetric
// positive semi-definite and almost surely definite.
func randGram(rng *rand.Rand, n int) *mat.Dense {
	a := randDense(rng, n, n)
	g := dynamo.NewMat(n, n)
	if n > 0 {
		g.Mul(a, a.T())
	}
	return g
}

// cloneDense copies src into a fresh r×c matrix, or returns zeros when src is nil.
func cloneDense(src *mat.Dense, r, c int) *mat.Dense {
	dst := dynamo.NewMat(r, c)
	if src != nil {
		dynamo.CopyMat(dst, src)
	}
	return dst
}

// symmetricPart returns ½(src+srcᵀ) as a fresh n×n matrix, zeros when src is nil.
func symmetricPart(src *mat.Dense, n int) *mat.Dense {
	dst := cloneDense(src, n, n)
	if n == 0 {
		return dst
	}
	var t mat.Dense
	t.CloneFrom(dst.T())
	dst.Add(dst, &t)
	dst.Scale(0.5, dst)
	return dst
}

func cloneVec(src *mat.VecDense, n int) *mat.VecDense {
	dst := dynamo.NewVec(n)
	if src != nil {
		dynamo.CopyInto(dst, src)
	}
	return dst
}

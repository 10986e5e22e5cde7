package state

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Vector is the Euclidean state space R^(nq+nv).
type Vector struct {
	nq int
	nv int
}

// NewVector returns a Euclidean state split into nq configuration and nv
// velocity coordinates.
func NewVector(nq, nv int) *Vector {
	if nq < 0 || nv < 0 {
		panic(fmt.Sprintf("state: negative dimension (nq=%d, nv=%d)", nq, nv))
	}
	return &Vector{nq: nq, nv: nv}
}

// NewVectorN returns an unsplit Euclidean state of dimension nx.
func NewVectorN(nx int) *Vector {
	return NewVector(nx, 0)
}

func (s *Vector) Nx() int  { return s.nq + s.nv }
func (s *Vector) Ndx() int { return s.nq + s.nv }
func (s *Vector) Nq() int  { return s.nq }
func (s *Vector) Nv() int  { return s.nv }

func (s *Vector) Zero() *mat.VecDense {
	return dynamo.NewVec(s.Nx())
}

// Rand draws every coordinate uniformly from [-1, 1).
func (s *Vector) Rand(rng *rand.Rand) *mat.VecDense {
	x := dynamo.NewVec(s.Nx())
	for i := 0; i < s.Nx(); i++ {
		x.SetVec(i, 2*rng.Float64()-1)
	}
	return x
}

func (s *Vector) Diff(x0, x1 mat.Vector, dx *mat.VecDense) {
	for i := 0; i < s.Nx(); i++ {
		dx.SetVec(i, x1.AtVec(i)-x0.AtVec(i))
	}
}

func (s *Vector) Integrate(x, dx mat.Vector, xout *mat.VecDense) {
	for i := 0; i < s.Nx(); i++ {
		xout.SetVec(i, x.AtVec(i)+dx.AtVec(i))
	}
}

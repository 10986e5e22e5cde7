// Package state describes the state space an action model evolves on.
//
// Derivatives are always expressed in the tangent space, so a model's
// Jacobians are Ndx×Ndx even when the state itself has Nx coordinates. A
// single Manifold is usually shared by every node of a trajectory.
package state

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

type Manifold interface {
	// Nx is the number of coordinates of a state point.
	Nx() int
	// Ndx is the dimension of the tangent space.
	Ndx() int
	// Nq and Nv split the state into configuration and velocity; Nq+Nv == Nx.
	Nq() int
	Nv() int

	Zero() *mat.VecDense
	Rand(rng *rand.Rand) *mat.VecDense

	// Diff writes the tangent vector dx taking x0 to x1.
	Diff(x0, x1 mat.Vector, dx *mat.VecDense)
	// Integrate writes x ⊕ dx into xout.
	Integrate(x, dx mat.Vector, xout *mat.VecDense)
}

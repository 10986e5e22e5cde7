// Package dynamo provides the low-level vector and matrix primitives shared by
// the action models.
//
// Buffers are gonum values ([mat.VecDense], [mat.Dense]). gonum refuses to
// allocate zero-length storage, so [NewVec] and [NewMat] hand back the empty
// value for a zero dimension and the helpers below treat an empty operand as
// a no-op. This lets a model with nu == 0 or nr == 0 share every code path
// with the general case.
//
// The Mul*/Add* helpers write into caller-owned destinations and never
// allocate; they are meant for calc/calcDiff hot loops.
package dynamo

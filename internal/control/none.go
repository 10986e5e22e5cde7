package control

import (
	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// None applies a fixed control, zero by default.
type None struct {
	u *mat.VecDense
}

func NewNone(dim int) *None {
	return &None{u: dynamo.NewVec(dim)}
}

// NewConstant applies u at every step.
func NewConstant(u []float64) *None {
	return &None{u: dynamo.VecFrom(u)}
}

func (n *None) Compute(x mat.Vector, t float64) *mat.VecDense {
	return dynamo.Clone(n.u)
}

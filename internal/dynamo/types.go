package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NewVec returns a zeroed vector of length n.
func NewVec(n int) *mat.VecDense {
	if n == 0 {
		return &mat.VecDense{}
	}
	return mat.NewVecDense(n, nil)
}

// NewMat returns a zeroed r×c matrix.
func NewMat(r, c int) *mat.Dense {
	if r == 0 || c == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(r, c, nil)
}

// VecFrom copies s into a new vector.
func VecFrom(s []float64) *mat.VecDense {
	if len(s) == 0 {
		return &mat.VecDense{}
	}
	return mat.NewVecDense(len(s), append([]float64(nil), s...))
}

// Len is v.Len() with a nil vector counting as empty.
func Len(v mat.Vector) int {
	if v == nil {
		return 0
	}
	return v.Len()
}

func Clone(v mat.Vector) *mat.VecDense {
	c := NewVec(Len(v))
	CopyInto(c, v)
	return c
}

// Slice copies v into a plain slice.
func Slice(v mat.Vector) []float64 {
	n := Len(v)
	s := make([]float64, n)
	if n > 0 {
		mat.Col(s, 0, v)
	}
	return s
}

// CopyInto overwrites dst with the elements of src. The lengths must match.
func CopyInto(dst *mat.VecDense, src mat.Vector) {
	if Len(src) == 0 {
		return
	}
	dst.CopyVec(src)
}

func IsValid(v mat.Vector) bool {
	for i := 0; i < Len(v); i++ {
		x := v.AtVec(i)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func Norm(v mat.Vector) float64 {
	if Len(v) == 0 {
		return 0
	}
	return mat.Norm(v, 2)
}

// Dot returns a·b. The lengths must match.
func Dot(a, b mat.Vector) float64 {
	if Len(a) == 0 {
		return 0
	}
	return mat.Dot(a, b)
}

// Quad returns xᵀ·a·y.
func Quad(x mat.Vector, a mat.Matrix, y mat.Vector) float64 {
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return 0
	}
	return mat.Inner(x, a, y)
}

// MulVecTo sets dst = a·x.
func MulVecTo(dst *mat.VecDense, a mat.Matrix, x mat.Vector) {
	if r, c := a.Dims(); r == 0 || c == 0 {
		ZeroVec(dst)
		return
	}
	dst.MulVec(a, x)
}

// MulAddVec sets dst += a·x.
func MulAddVec(dst *mat.VecDense, a mat.Matrix, x mat.Vector) {
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return
	}
	var ax mat.VecDense
	ax.MulVec(a, x)
	dst.AddVec(dst, &ax)
}

// MulTransAddVec sets dst += aᵀ·x.
func MulTransAddVec(dst *mat.VecDense, a mat.Matrix, x mat.Vector) {
	MulAddVec(dst, a.T(), x)
}

// AddScaledVec sets dst += alpha·x.
func AddScaledVec(dst *mat.VecDense, alpha float64, x mat.Vector) {
	if Len(x) == 0 {
		return
	}
	dst.AddScaledVec(dst, alpha, x)
}

// CopyMat overwrites dst with src over their common shape.
func CopyMat(dst *mat.Dense, src mat.Matrix) {
	r, c := src.Dims()
	if r == 0 || c == 0 || dst.IsEmpty() {
		return
	}
	dst.Copy(src)
}

// ScaleMat sets dst = alpha·src, src and dst having the same shape.
func ScaleMat(dst *mat.Dense, alpha float64, src mat.Matrix) {
	r, c := src.Dims()
	if r == 0 || c == 0 {
		return
	}
	dst.Scale(alpha, src)
}

// ZeroMat clears m, accepting the empty matrix.
func ZeroMat(m *mat.Dense) {
	if m.IsEmpty() {
		return
	}
	m.Zero()
}

// ZeroVec clears v, accepting the empty vector.
func ZeroVec(v *mat.VecDense) {
	if v.IsEmpty() {
		return
	}
	v.Zero()
}

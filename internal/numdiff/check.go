package numdiff

import (
	"math"

	"github.com/san-kum/ddpnode/internal/action"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultTolerance bounds the forward-difference error of Check.
const DefaultTolerance = 1e-4

// Report holds the largest absolute difference between analytic and
// finite-difference derivatives, per block.
type Report struct {
	Fx, Fu    float64
	Lx, Lu    float64
	Tolerance float64
}

func (r Report) Max() float64 {
	return math.Max(math.Max(r.Fx, r.Fu), math.Max(r.Lx, r.Lu))
}

func (r Report) Passed() bool {
	return r.Max() <= r.Tolerance
}

// Check evaluates m.CalcDiff at (x, u) and compares it to forward
// differences of m.Calc.
func Check(m action.Model, x, u mat.Vector, tol float64) (Report, error) {
	analytic := m.CreateData()
	if err := m.Calc(analytic, x, u); err != nil {
		return Report{}, err
	}
	if err := m.CalcDiff(analytic, x, u); err != nil {
		return Report{}, err
	}

	nd := New(m, WithGaussNewton(false))
	numeric := nd.CreateData()
	if err := nd.CalcDiff(numeric, x, u); err != nil {
		return Report{}, err
	}

	return Report{
		Fx:        maxAbsDiff(analytic.Fx, numeric.Fx),
		Fu:        maxAbsDiff(analytic.Fu, numeric.Fu),
		Lx:        maxAbsDiffVec(analytic.Lx, numeric.Lx),
		Lu:        maxAbsDiffVec(analytic.Lu, numeric.Lu),
		Tolerance: tol,
	}, nil
}

func maxAbsDiff(a, b *mat.Dense) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0
	}
	return floats.Distance(a.RawMatrix().Data, b.RawMatrix().Data, math.Inf(1))
}

func maxAbsDiffVec(a, b *mat.VecDense) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0
	}
	return floats.Distance(a.RawVector().Data, b.RawVector().Data, math.Inf(1))
}

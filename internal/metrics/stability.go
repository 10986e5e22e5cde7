package metrics

import (
	"math"

	"github.com/san-kum/ddpnode/internal/sim"
)

// Stability is the fraction of steps whose state stays inside the box
// |x_i| <= threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(step sim.Step) {
	s.samples++
	for i := 0; i < step.X.Len(); i++ {
		if v := step.X.AtVec(i); math.Abs(v) > s.threshold || math.IsNaN(v) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

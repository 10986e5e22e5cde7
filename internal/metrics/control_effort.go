package metrics

import (
	"math"

	"github.com/san-kum/ddpnode/internal/sim"
)

// ControlEffort is the mean L1 norm of the applied controls.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s sim.Step) {
	if s.U != nil {
		for i := 0; i < s.U.Len(); i++ {
			c.sum += math.Abs(s.U.AtVec(i))
		}
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

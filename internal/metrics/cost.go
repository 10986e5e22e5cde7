package metrics

import (
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/sim"
)

// Cost is the running sum of node costs.
type Cost struct {
	total float64
}

func NewCost() *Cost { return &Cost{} }

func (c *Cost) Name() string       { return "cost" }
func (c *Cost) Observe(s sim.Step) { c.total += s.Cost }
func (c *Cost) Value() float64     { return c.total }
func (c *Cost) Reset()             { c.total = 0 }

// Residual is the mean Euclidean norm of the cost residual. Models
// without a residual (nr = 0) report zero.
type Residual struct {
	sum     float64
	samples int
}

func NewResidual() *Residual { return &Residual{} }

func (r *Residual) Name() string { return "residual" }

func (r *Residual) Observe(s sim.Step) {
	r.sum += dynamo.Norm(s.Residual)
	r.samples++
}

func (r *Residual) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.sum / float64(r.samples)
}

func (r *Residual) Reset() {
	r.sum = 0
	r.samples = 0
}

// Standard returns the metrics attached to every rollout.
func Standard() []sim.Metric {
	return []sim.Metric{NewCost(), NewControlEffort(), NewResidual(), NewStability(1e3)}
}

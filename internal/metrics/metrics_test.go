package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/sim"
)

func step(x, u, r []float64, cost float64) sim.Step {
	return sim.Step{X: dynamo.VecFrom(x), U: dynamo.VecFrom(u), Residual: dynamo.VecFrom(r), Cost: cost}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(step([]float64{0}, []float64{1, -2}, nil, 0))
	m.Observe(step([]float64{0}, []float64{-1, 0}, nil, 0))

	if got := m.Value(); got != 2 {
		t.Errorf("expected mean effort 2, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestCostAndResidual(t *testing.T) {
	c := NewCost()
	r := NewResidual()
	for _, s := range []sim.Step{
		step([]float64{0}, nil, []float64{3, 4}, 1.5),
		step([]float64{0}, nil, []float64{0, 1}, 2.5),
	} {
		c.Observe(s)
		r.Observe(s)
	}

	if c.Value() != 4 {
		t.Errorf("expected total cost 4, got %f", c.Value())
	}
	if r.Value() != 3 {
		t.Errorf("expected mean residual 3, got %f", r.Value())
	}
}

func TestResidualEmpty(t *testing.T) {
	r := NewResidual()
	r.Observe(step([]float64{1}, []float64{1}, nil, 0))
	if r.Value() != 0 {
		t.Errorf("expected zero residual for nr=0, got %f", r.Value())
	}
}

func TestStability(t *testing.T) {
	s := NewStability(1)
	if s.Value() != 1 {
		t.Errorf("expected 1 before any sample, got %f", s.Value())
	}

	s.Observe(step([]float64{0.5, -0.5}, nil, nil, 0))
	s.Observe(step([]float64{2, 0}, nil, nil, 0))
	s.Observe(step([]float64{math.NaN(), 0}, nil, nil, 0))
	s.Observe(step([]float64{0, 1}, nil, nil, 0))

	if got := s.Value(); got != 0.5 {
		t.Errorf("expected stability 0.5, got %f", got)
	}
}

func TestStandardNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Standard() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	for _, name := range []string{"cost", "control_effort", "residual", "stability"} {
		if !seen[name] {
			t.Errorf("missing metric %q", name)
		}
	}
}

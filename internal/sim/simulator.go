package sim

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

type Simulator struct {
	model      action.Model
	controller Controller
	metrics    []Metric
	observers  []Observer
	log        logr.Logger
}

func New(model action.Model, controller Controller) *Simulator {
	return &Simulator{
		model:      model,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		log:        logr.Discard(),
	}
}

func (s *Simulator) AddMetric(m Metric)      { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)  { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l logr.Logger) { s.log = l }

// Run evaluates the model cfg.Steps times starting at x0, feeding every
// next state back in. The context is checked between steps.
func (s *Simulator) Run(ctx context.Context, x0 mat.Vector, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps
	result := &Result{
		States:   make([][]float64, 0, steps+1),
		Controls: make([][]float64, 0, steps),
		Costs:    make([]float64, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	data := s.model.CreateData()
	x := dynamo.Clone(x0)
	t := 0.0

	result.States = append(result.States, dynamo.Slice(x))
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		u := s.controller.Compute(x, t)
		if err := s.model.Calc(data, x, u); err != nil {
			return result, fmt.Errorf("step %d: %w", i, err)
		}

		step := Step{
			Index:    i,
			Time:     t,
			X:        dynamo.Clone(x),
			U:        dynamo.Clone(u),
			Cost:     data.Cost,
			Residual: dynamo.Clone(data.R),
		}
		for _, m := range s.metrics {
			m.Observe(step)
		}
		for _, obs := range s.observers {
			obs.OnStep(step)
		}

		if cfg.ValidateState && !dynamo.IsValid(data.Xnext) {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			s.log.Info("rollout stopped", "step", i, "reason", err.Message)
			result.Errors = append(result.Errors, err)
			break
		}

		dynamo.CopyInto(x, data.Xnext)
		t += cfg.Dt
		result.StepsTaken++
		result.TotalCost += data.Cost

		result.States = append(result.States, dynamo.Slice(x))
		result.Controls = append(result.Controls, dynamo.Slice(u))
		result.Costs = append(result.Costs, data.Cost)
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	s.log.V(1).Info("rollout finished", "steps", result.StepsTaken, "cost", result.TotalCost)

	return result, nil
}

func (s *Simulator) validate(x0 mat.Vector, cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.Dt < 0 {
		return fmt.Errorf("dt must not be negative, got %f", cfg.Dt)
	}
	if n := dynamo.Len(x0); n != s.model.State().Nx() {
		return &action.DimensionError{Op: "Run", Arg: "x0", Got: n, Want: s.model.State().Nx()}
	}
	return nil
}

// Package experiment wires a configuration into a model, a controller and
// a rollout.
package experiment

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/config"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/sim"
	"gonum.org/v1/gonum/mat"
)

type Experiment struct {
	cfg        *config.Config
	model      action.Model
	controller sim.Controller
	simulator  *sim.Simulator
}

// New builds the model and controller named in cfg and attaches the
// standard metrics.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := reg.BuildModel(cfg)
	if err != nil {
		return nil, err
	}
	controller, err := reg.GetController(cfg, model)
	if err != nil {
		return nil, fmt.Errorf("controller %s: %w", cfg.Controller, err)
	}

	e := &Experiment{
		cfg:        cfg,
		model:      model,
		controller: controller,
		simulator:  sim.New(model, controller),
	}
	for _, m := range reg.DefaultMetrics() {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) Model() action.Model        { return e.model }
func (e *Experiment) Controller() sim.Controller { return e.controller }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) SetLogger(l logr.Logger) { e.simulator.SetLogger(l) }

// InitState is the configured start state.
func (e *Experiment) InitState() *mat.VecDense {
	return dynamo.VecFrom(e.cfg.GetInitState())
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	simCfg := sim.Config{
		Steps:         e.cfg.Steps,
		Dt:            e.cfg.Dt,
		ValidateState: true,
	}
	return e.simulator.Run(ctx, e.InitState(), simCfg)
}

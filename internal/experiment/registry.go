package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/config"
	"github.com/san-kum/ddpnode/internal/control"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/integrators"
	"github.com/san-kum/ddpnode/internal/metrics"
	"github.com/san-kum/ddpnode/internal/models"
	"github.com/san-kum/ddpnode/internal/sim"
)

// A model factory returns either a discrete action model or a
// differential one that still needs an integrator.
type modelFactory func(cfg *config.Config) (any, error)

type integratorFactory func(dm action.DifferentialModel, dt float64) (action.Model, error)

type controllerFactory func(cfg *config.Config, m action.Model) (sim.Controller, error)

type Registry struct {
	models      map[string]modelFactory
	integrators map[string]integratorFactory
	controllers map[string]controllerFactory
	gains       map[string]func() [][]float64
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]modelFactory),
		integrators: make(map[string]integratorFactory),
		controllers: make(map[string]controllerFactory),
		gains:       make(map[string]func() [][]float64),
	}

	r.models["lqr"] = func(cfg *config.Config) (any, error) {
		rng := rand.New(rand.NewSource(cfg.Seed))
		m, err := models.NewLQR(cfg.LQR.NQ, cfg.LQR.NU, cfg.LQR.DriftFree, rng)
		return built(m, err)
	}
	r.models["difflqr"] = func(cfg *config.Config) (any, error) {
		rng := rand.New(rand.NewSource(cfg.Seed))
		m, err := models.NewDiffLQR(cfg.LQR.NQ, cfg.LQR.NU, cfg.LQR.DriftFree, rng)
		return built(m, err)
	}
	r.models["pendulum"] = func(cfg *config.Config) (any, error) {
		w := models.DefaultPendulumWeights()
		if err := overlay(w.Target[:], cfg.Weights.Target, "target"); err != nil {
			return nil, err
		}
		if err := overlay(w.State[:], cfg.Weights.State, "state"); err != nil {
			return nil, err
		}
		if cfg.Weights.Control != 0 {
			w.Control = cfg.Weights.Control
		}
		m, err := models.NewPendulumWithWeights(w)
		return built(m, err)
	}
	r.models["cartpole"] = func(cfg *config.Config) (any, error) {
		w := models.DefaultCartPoleWeights()
		if err := overlay(w.Target[:], cfg.Weights.Target, "target"); err != nil {
			return nil, err
		}
		if err := overlay(w.State[:], cfg.Weights.State, "state"); err != nil {
			return nil, err
		}
		if cfg.Weights.Control != 0 {
			w.Control = cfg.Weights.Control
		}
		m, err := models.NewCartPoleWithWeights(w)
		return built(m, err)
	}

	r.integrators["euler"] = func(dm action.DifferentialModel, dt float64) (action.Model, error) {
		e, err := integrators.NewEuler(dm, dt)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	r.integrators["rk4"] = func(dm action.DifferentialModel, dt float64) (action.Model, error) {
		rk, err := integrators.NewRK4(dm, dt)
		if err != nil {
			return nil, err
		}
		return rk, nil
	}

	r.gains["pendulum"] = control.PendulumGains
	r.gains["cartpole"] = control.CartPoleGains

	r.controllers["none"] = func(cfg *config.Config, m action.Model) (sim.Controller, error) {
		return control.NewNone(m.NU()), nil
	}
	r.controllers["neutral"] = func(cfg *config.Config, m action.Model) (sim.Controller, error) {
		return control.NewConstant(dynamo.Slice(m.NeutralControl())), nil
	}
	r.controllers["pid"] = func(cfg *config.Config, m action.Model) (sim.Controller, error) {
		if m.NU() != 1 {
			return nil, fmt.Errorf("pid needs a single control, model has %d", m.NU())
		}
		p := cfg.ControllerParams
		pid := control.NewPID(p.Kp, p.Ki, p.Kd, p.Target)
		pid.Index = p.Index
		return pid, nil
	}
	r.controllers["feedback"] = func(cfg *config.Config, m action.Model) (sim.Controller, error) {
		k, err := r.gainsFor(cfg, m)
		if err != nil {
			return nil, err
		}
		return control.NewFeedback(k, cfg.GetReference()), nil
	}
	r.controllers["equilibrium"] = func(cfg *config.Config, m action.Model) (sim.Controller, error) {
		k, err := r.gainsFor(cfg, m)
		if err != nil {
			return nil, err
		}
		f, err := control.NewEquilibriumFeedback(m, k, cfg.GetReference(), cfg.QuasiStaticOptions()...)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	return r
}

// built keeps a failed constructor from yielding a typed nil.
func built[M any](m M, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

func overlay(dst, src []float64, name string) error {
	if len(src) == 0 {
		return nil
	}
	if len(src) != len(dst) {
		return fmt.Errorf("%s weights: got %d values, want %d", name, len(src), len(dst))
	}
	copy(dst, src)
	return nil
}

// gainsFor uses the configured gains, falling back to the model's
// hand-tuned set. Models without one get zero gains.
func (r *Registry) gainsFor(cfg *config.Config, m action.Model) ([][]float64, error) {
	nx := m.State().Nx()
	k := cfg.ControllerParams.Gains
	if len(k) == 0 {
		if fn, ok := r.gains[cfg.Model]; ok {
			k = fn()
		} else {
			k = make([][]float64, m.NU())
			for i := range k {
				k[i] = make([]float64, nx)
			}
		}
	}
	if len(k) != m.NU() {
		return nil, &action.DimensionError{Op: "gains", Arg: "rows", Got: len(k), Want: m.NU()}
	}
	for _, row := range k {
		if len(row) != nx {
			return nil, &action.DimensionError{Op: "gains", Arg: "columns", Got: len(row), Want: nx}
		}
	}
	if ref := cfg.GetReference(); len(ref) != nx {
		return nil, &action.DimensionError{Op: "gains", Arg: "reference", Got: len(ref), Want: nx}
	}
	return k, nil
}

// BuildModel constructs the configured model, integrating differential
// models with cfg.Integrator at time step cfg.Dt.
func (r *Registry) BuildModel(cfg *config.Config) (action.Model, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	raw, err := fn(cfg)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", cfg.Model, err)
	}
	switch m := raw.(type) {
	case action.Model:
		return m, nil
	case action.DifferentialModel:
		integ, ok := r.integrators[cfg.Integrator]
		if !ok {
			return nil, fmt.Errorf("unknown integrator: %s", cfg.Integrator)
		}
		return integ(m, cfg.Dt)
	default:
		return nil, fmt.Errorf("model %s: unsupported type %T", cfg.Model, raw)
	}
}

func (r *Registry) GetController(cfg *config.Config, m action.Model) (sim.Controller, error) {
	fn, ok := r.controllers[cfg.Controller]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", cfg.Controller)
	}
	return fn(cfg, m)
}

func (r *Registry) ListModels() []string      { return sortedKeys(r.models) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListControllers() []string { return sortedKeys(r.controllers) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Standard()
}

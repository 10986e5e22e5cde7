package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/ddpnode/internal/action"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt    = 0.01
	DefaultSteps = 500
	DefaultNQ    = 2
	DefaultNU    = 2
	DefaultTheta = 0.5
	DefaultKp    = 10.0
	DefaultKi    = 0.1
	DefaultKd    = 5.0
)

type Config struct {
	Model            string            `yaml:"model"`
	Integrator       string            `yaml:"integrator"`
	Controller       string            `yaml:"controller"`
	Dt               float64           `yaml:"dt"`
	Steps            int               `yaml:"steps"`
	Seed             int64             `yaml:"seed"`
	LQR              LQRConfig         `yaml:"lqr"`
	InitState        []float64         `yaml:"init_state,omitempty"`
	Weights          WeightsConfig     `yaml:"weights"`
	ControllerParams ControllerConfig  `yaml:"controller_params"`
	QuasiStatic      QuasiStaticConfig `yaml:"quasistatic"`
}

// LQRConfig sizes the random lqr and difflqr models.
type LQRConfig struct {
	NQ        int  `yaml:"nq"`
	NU        int  `yaml:"nu"`
	DriftFree bool `yaml:"drift_free"`
}

// WeightsConfig overrides the tracking cost of pendulum and cartpole.
// Empty fields keep the model defaults.
type WeightsConfig struct {
	Target  []float64 `yaml:"target,omitempty"`
	State   []float64 `yaml:"state,omitempty"`
	Control float64   `yaml:"control,omitempty"`
}

type ControllerConfig struct {
	Kp        float64     `yaml:"kp"`
	Ki        float64     `yaml:"ki"`
	Kd        float64     `yaml:"kd"`
	Target    float64     `yaml:"target"`
	Index     int         `yaml:"index"`
	Gains     [][]float64 `yaml:"gains,omitempty"`
	Reference []float64   `yaml:"reference,omitempty"`
}

type QuasiStaticConfig struct {
	MaxIter   int     `yaml:"max_iter"`
	Tolerance float64 `yaml:"tolerance"`
	Damping   float64 `yaml:"damping"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "pendulum",
		Integrator: "euler",
		Controller: "none",
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		LQR: LQRConfig{
			NQ: DefaultNQ,
			NU: DefaultNU,
		},
		ControllerParams: ControllerConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
		QuasiStatic: QuasiStaticConfig{
			MaxIter:   action.DefaultMaxIter,
			Tolerance: action.DefaultTolerance,
			Damping:   action.DefaultDamping,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no model can be built from.
func (c *Config) Validate() error {
	if c.Dt < 0 {
		return fmt.Errorf("dt must not be negative, got %g", c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	if c.LQR.NQ < 0 || c.LQR.NU < 0 {
		return fmt.Errorf("lqr dimensions must not be negative (nq=%d, nu=%d)", c.LQR.NQ, c.LQR.NU)
	}
	if c.QuasiStatic.Damping <= 0 || c.QuasiStatic.Damping > 1 {
		return fmt.Errorf("quasistatic damping must be in (0, 1], got %g", c.QuasiStatic.Damping)
	}
	return nil
}

// StateDim is the state dimension the configured model expects.
func (c *Config) StateDim() int {
	switch c.Model {
	case "pendulum":
		return 2
	case "cartpole":
		return 4
	default:
		return 2 * c.LQR.NQ
	}
}

// GetInitState returns InitState, or the model's default start when unset.
func (c *Config) GetInitState() []float64 {
	if len(c.InitState) > 0 {
		x := make([]float64, len(c.InitState))
		copy(x, c.InitState)
		return x
	}
	switch c.Model {
	case "pendulum":
		return []float64{DefaultTheta, 0}
	case "cartpole":
		return []float64{0, 0.1, 0, 0}
	default:
		return make([]float64, c.StateDim())
	}
}

// GetReference is the state the feedback controllers regulate around.
func (c *Config) GetReference() []float64 {
	if len(c.ControllerParams.Reference) > 0 {
		r := make([]float64, len(c.ControllerParams.Reference))
		copy(r, c.ControllerParams.Reference)
		return r
	}
	if c.Model == "pendulum" {
		return []float64{math.Pi, 0}
	}
	return make([]float64, c.StateDim())
}

// QuasiStaticOptions turns the quasistatic section into solver options.
// Out-of-range values are ignored by the options themselves.
func (c *Config) QuasiStaticOptions() []action.QuasiStaticOption {
	return []action.QuasiStaticOption{
		action.WithMaxIter(c.QuasiStatic.MaxIter),
		action.WithTolerance(c.QuasiStatic.Tolerance),
		action.WithDamping(c.QuasiStatic.Damping),
	}
}

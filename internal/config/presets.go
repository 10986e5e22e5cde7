package config

import (
	"math"
	"sort"
)

func preset(edit func(c *Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"swing": preset(func(c *Config) {
			c.Model, c.Integrator, c.Steps = "pendulum", "rk4", 2000
			c.InitState = []float64{2.5, 0}
		}),
		"balance": preset(func(c *Config) {
			c.Model, c.Controller = "pendulum", "feedback"
			c.InitState = []float64{math.Pi - 0.3, 0}
		}),
		"hold": preset(func(c *Config) {
			c.Model, c.Controller = "pendulum", "equilibrium"
			c.InitState = []float64{math.Pi/2 + 0.1, 0}
			c.ControllerParams.Reference = []float64{math.Pi / 2, 0}
		}),
		"pid": preset(func(c *Config) {
			c.Model, c.Controller, c.Steps = "pendulum", "pid", 1000
			c.InitState = []float64{0.3, 0}
		}),
	},
	"cartpole": {
		"balance": preset(func(c *Config) {
			c.Model, c.Integrator, c.Controller = "cartpole", "rk4", "feedback"
			c.InitState = []float64{0, 0.1, 0, 0}
		}),
		"freefall": preset(func(c *Config) {
			c.Model, c.Steps = "cartpole", 200
			c.InitState = []float64{0, 0.1, 0, 0}
		}),
	},
	"lqr": {
		"drift": preset(func(c *Config) {
			c.Model, c.Seed = "lqr", 1
		}),
		"drift_free": preset(func(c *Config) {
			c.Model, c.Seed = "lqr", 1
			c.LQR.DriftFree = true
		}),
		"square": preset(func(c *Config) {
			c.Model, c.Seed = "lqr", 7
			c.LQR = LQRConfig{NQ: 1, NU: 2}
		}),
	},
	"difflqr": {
		"euler": preset(func(c *Config) {
			c.Model, c.Seed = "difflqr", 3
		}),
		"rk4": preset(func(c *Config) {
			c.Model, c.Integrator, c.Seed = "difflqr", "rk4", 3
		}),
	},
}

// GetPreset returns a copy of the named preset, nil if unknown.
func GetPreset(model, name string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.InitState = append([]float64(nil), cfg.InitState...)
	c.ControllerParams.Reference = append([]float64(nil), cfg.ControllerParams.Reference...)
	return &c
}

// ListPresets returns the preset names of model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Models lists the models that have presets.
func Models() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

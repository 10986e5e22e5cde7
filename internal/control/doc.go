// Package control provides feedback policies for rollouts.
//
// Controllers implement [sim.Controller] and return the control to apply
// at a state:
//
//   - [None]: constant control, zero unless set
//   - [Feedback]: u = u0 - K(x - target), with u0 optionally found by
//     quasi-static search on an action model
//   - [PID]: single-input PID on one state coordinate
//
// # Usage
//
//	k := control.NewPendulumFeedback()
//	s := sim.New(model, k)
//
// Controllers implementing [Tunable] support live tuning.
//
// [sim.Controller]: github.com/san-kum/ddpnode/internal/sim.Controller
package control

// Tunable exposes named parameters for live adjustment.
type Tunable interface {
	Params() map[string]float64
	SetParam(name string, value float64)
}

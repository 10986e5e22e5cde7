// Package action defines the per-timestep node of a trajectory optimizer.
//
// An action model maps a state x and a control u to the next state, a scalar
// cost and a cost residual, and exposes the first and second order
// derivatives of both:
//
//   - [Model]: the contract every discrete-time node satisfies
//   - [Data]: caller-owned result buffers, one per model instance
//   - [Base]: dimensions and control bounds shared by concrete models
//   - [DifferentialModel]: continuous-time dynamics, turned into a [Model]
//     by an integrator
//   - [QuasiStatic]: Gauss-Newton search for the control that keeps a state
//     at rest
//
// # Usage
//
//	m, _ := models.NewLQR(2, 2, true, rng)
//	data := m.CreateData()
//	if err := m.Calc(data, x, u); err != nil { ... }
//	if err := m.CalcDiff(data, x, u); err != nil { ... }
//	// data.Xnext, data.Cost, data.Fx, ... are now current
//
// # Buffers
//
// Calc and CalcDiff write only into the Data they are given and never
// allocate on the hot path. A Data must be handed back to the model that
// created it; a Data whose dimensions do not match is rejected with
// [ErrDataMismatch].
//
// # Thread Safety
//
// Model constants may be read from any number of goroutines. A Data must not
// be used from two goroutines at once, and the bound setters must not race
// with Calc.
package action

// Package integrators turns continuous-time differential models into
// discrete action models over a fixed time step.
//
// Euler uses the semi-implicit update v' = v + a·dt, q' = q + v'·dt and
// chains the differential derivatives analytically. RK4 uses the classic
// fourth-order scheme on [q; v] and differentiates it numerically.
//
// A time step of zero marks a terminal node: the state is carried over
// unchanged and the cost is the unscaled differential cost.
package integrators

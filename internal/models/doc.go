// Package models provides concrete action models.
//
// LQR is a discrete-time node with closed-form derivatives. DiffLQR,
// Pendulum and CartPole are continuous-time models; wrap them with an
// integrator from package integrators to obtain an action.Model.
//
// All models validate their arguments and write only into the data they
// are given. Pendulum and CartPole carry a residual tracking cost
// ½|r|² with r = [√wx∘(x - xref); √wu∘u], so their NR is Ndx + NU.
package models

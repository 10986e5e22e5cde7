package models

import (
	"fmt"
	"math"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/mat"
)

// Pendulum is a torque-driven damped pendulum with state [θ, ω] and a
// tracking cost towards Target.
type Pendulum struct {
	action.Base

	Mass    float64
	Length  float64
	Damping float64
	Gravity float64

	cost residualCost
}

// PendulumWeights are the tracking weights of the pendulum cost.
type PendulumWeights struct {
	Target  [2]float64
	State   [2]float64
	Control float64
}

func DefaultPendulumWeights() PendulumWeights {
	return PendulumWeights{
		Target:  [2]float64{math.Pi, 0},
		State:   [2]float64{1, 0.1},
		Control: 1e-3,
	}
}

func NewPendulum() *Pendulum {
	p, err := NewPendulumWithWeights(DefaultPendulumWeights())
	if err != nil {
		panic(err)
	}
	return p
}

func NewPendulumWithWeights(w PendulumWeights) (*Pendulum, error) {
	if w.State[0] < 0 || w.State[1] < 0 || w.Control < 0 {
		return nil, fmt.Errorf("%w: negative cost weight", action.ErrParameterBounds)
	}
	cost := newResidualCost(w.Target[:], w.State[:], []float64{w.Control})
	base, err := action.NewBase(state.NewVector(1, 1), 1, cost.nr())
	if err != nil {
		return nil, err
	}
	return &Pendulum{
		Base:    base,
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
		cost:    cost,
	}, nil
}

func (p *Pendulum) inertia() float64 {
	return p.Mass * p.Length * p.Length
}

func (p *Pendulum) Calc(data *action.DifferentialData, x, u mat.Vector) error {
	if err := action.CheckDifferentialArgs("Pendulum.Calc", p, data, x, u); err != nil {
		return err
	}
	theta := x.AtVec(0)
	omega := x.AtVec(1)
	torque := u.AtVec(0)

	alpha := (torque - p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta)) / p.inertia()
	data.Xout.SetVec(0, alpha)
	data.Cost = p.cost.calc(data.R, x, u)
	return nil
}

// CalcDiff is analytic and does not depend on a preceding Calc.
func (p *Pendulum) CalcDiff(data *action.DifferentialData, x, u mat.Vector) error {
	if err := action.CheckDifferentialArgs("Pendulum.CalcDiff", p, data, x, u); err != nil {
		return err
	}
	theta := x.AtVec(0)
	inertia := p.inertia()

	data.Fx.Set(0, 0, -p.Mass*p.Gravity*p.Length*math.Cos(theta)/inertia)
	data.Fx.Set(0, 1, -p.Damping/inertia)
	data.Fu.Set(0, 0, 1/inertia)
	p.cost.calcDiff(data.Lx, data.Lu, data.Lxx, data.Lxu, data.Luu, x, u)
	return nil
}

func (p *Pendulum) CreateData() *action.DifferentialData {
	return action.NewDifferentialData(p)
}

// GravityTorque is the torque that holds the pendulum still at angle theta.
func (p *Pendulum) GravityTorque(theta float64) float64 {
	return p.Mass * p.Gravity * p.Length * math.Sin(theta)
}

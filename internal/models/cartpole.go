package models

import (
	"fmt"
	"math"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/mat"
)

// CartPole is a force-driven cart carrying an inverted pole. The state is
// [pos, θ, vel, ω] with θ = 0 upright.
type CartPole struct {
	action.Base

	CartMass   float64
	PoleMass   float64
	PoleLength float64
	Gravity    float64

	cost residualCost
}

type CartPoleWeights struct {
	Target  [4]float64
	State   [4]float64
	Control float64
}

func DefaultCartPoleWeights() CartPoleWeights {
	return CartPoleWeights{
		State:   [4]float64{1, 10, 0.1, 0.1},
		Control: 1e-2,
	}
}

func NewCartPole() *CartPole {
	c, err := NewCartPoleWithWeights(DefaultCartPoleWeights())
	if err != nil {
		panic(err)
	}
	return c
}

func NewCartPoleWithWeights(w CartPoleWeights) (*CartPole, error) {
	for _, v := range w.State {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative state weight", action.ErrParameterBounds)
		}
	}
	if w.Control < 0 {
		return nil, fmt.Errorf("%w: negative control weight", action.ErrParameterBounds)
	}
	cost := newResidualCost(w.Target[:], w.State[:], []float64{w.Control})
	base, err := action.NewBase(state.NewVector(2, 2), 1, cost.nr())
	if err != nil {
		return nil, err
	}
	return &CartPole{
		Base:       base,
		CartMass:   1.0,
		PoleMass:   0.1,
		PoleLength: 1.0,
		Gravity:    9.81,
		cost:       cost,
	}, nil
}

// cartPoleTerms holds the intermediate quantities of the equations of motion.
type cartPoleTerms struct {
	sin, cos float64
	total    float64 // mc + mp
	temp     float64
	denom    float64
	numer    float64
	thetaAcc float64
	xAcc     float64
}

func (c *CartPole) terms(theta, omega, force float64) cartPoleTerms {
	mp := c.PoleMass
	l := c.PoleLength

	t := cartPoleTerms{sin: math.Sin(theta), cos: math.Cos(theta), total: c.CartMass + mp}
	t.temp = (force + mp*l*omega*omega*t.sin) / t.total
	t.denom = l * (4.0/3.0 - mp*t.cos*t.cos/t.total)
	t.numer = c.Gravity*t.sin - t.cos*t.temp
	t.thetaAcc = t.numer / t.denom
	t.xAcc = t.temp - mp*l*t.thetaAcc*t.cos/t.total
	return t
}

func (c *CartPole) Calc(data *action.DifferentialData, x, u mat.Vector) error {
	if err := action.CheckDifferentialArgs("CartPole.Calc", c, data, x, u); err != nil {
		return err
	}
	t := c.terms(x.AtVec(1), x.AtVec(3), u.AtVec(0))
	data.Xout.SetVec(0, t.xAcc)
	data.Xout.SetVec(1, t.thetaAcc)
	data.Cost = c.cost.calc(data.R, x, u)
	return nil
}

// CalcDiff is analytic and does not depend on a preceding Calc.
func (c *CartPole) CalcDiff(data *action.DifferentialData, x, u mat.Vector) error {
	if err := action.CheckDifferentialArgs("CartPole.CalcDiff", c, data, x, u); err != nil {
		return err
	}
	omega := x.AtVec(3)
	mp := c.PoleMass
	l := c.PoleLength
	t := c.terms(x.AtVec(1), omega, u.AtVec(0))
	k := mp * l / t.total

	dTempTheta := mp * l * omega * omega * t.cos / t.total
	dTempOmega := 2 * mp * l * omega * t.sin / t.total
	dDenomTheta := 2 * l * mp * t.cos * t.sin / t.total
	dNumerTheta := c.Gravity*t.cos + t.sin*t.temp - t.cos*dTempTheta

	thTheta := (dNumerTheta*t.denom - t.numer*dDenomTheta) / (t.denom * t.denom)
	thOmega := -t.cos * dTempOmega / t.denom
	thForce := -t.cos / (t.total * t.denom)

	xTheta := dTempTheta - k*(thTheta*t.cos-t.thetaAcc*t.sin)
	xOmega := dTempOmega - k*t.cos*thOmega
	xForce := 1/t.total - k*t.cos*thForce

	data.Fx.Zero()
	data.Fx.Set(0, 1, xTheta)
	data.Fx.Set(0, 3, xOmega)
	data.Fx.Set(1, 1, thTheta)
	data.Fx.Set(1, 3, thOmega)
	data.Fu.Set(0, 0, xForce)
	data.Fu.Set(1, 0, thForce)

	c.cost.calcDiff(data.Lx, data.Lu, data.Lxx, data.Lxu, data.Luu, x, u)
	return nil
}

func (c *CartPole) CreateData() *action.DifferentialData {
	return action.NewDifferentialData(c)
}

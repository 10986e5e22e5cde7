package control

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/integrators"
	"github.com/san-kum/ddpnode/internal/models"
	"github.com/san-kum/ddpnode/internal/sim"
)

func eulerPendulum(t *testing.T) *integrators.Euler {
	t.Helper()
	e, err := integrators.NewEuler(models.NewPendulum(), 0.01)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestNone(t *testing.T) {
	c := NewNone(3)
	u := c.Compute(dynamo.VecFrom([]float64{1, 2}), 0)
	if u.Len() != 3 {
		t.Fatalf("expected 3 controls, got %d", u.Len())
	}
	for i := 0; i < 3; i++ {
		if u.AtVec(i) != 0 {
			t.Errorf("u[%d] = %f, want 0", i, u.AtVec(i))
		}
	}
}

func TestConstantIsCopied(t *testing.T) {
	c := NewConstant([]float64{1.5})
	u := c.Compute(dynamo.NewVec(1), 0)
	u.SetVec(0, 99)

	if got := c.Compute(dynamo.NewVec(1), 0).AtVec(0); got != 1.5 {
		t.Errorf("controller state leaked through returned vector: %f", got)
	}
}

func TestFeedbackCompute(t *testing.T) {
	f := NewFeedback([][]float64{{2, 1}}, []float64{1, 0})
	f.U0.SetVec(0, 0.5)

	u := f.Compute(dynamo.VecFrom([]float64{2, 1}), 0)
	// 0.5 - (2·1 + 1·1)
	if got := u.AtVec(0); math.Abs(got+2.5) > 1e-12 {
		t.Errorf("u = %f, want -2.5", got)
	}

	u = f.Compute(f.Target, 0)
	if got := u.AtVec(0); got != 0.5 {
		t.Errorf("u at target = %f, want feedforward 0.5", got)
	}
}

func TestEquilibriumFeedback(t *testing.T) {
	e := eulerPendulum(t)
	p := e.Differential().(*models.Pendulum)

	target := []float64{math.Pi / 2, 0}
	f, err := NewEquilibriumFeedback(e, pendulumGains, target)
	if err != nil {
		t.Fatal(err)
	}
	if want := p.GravityTorque(math.Pi / 2); math.Abs(f.U0.AtVec(0)-want) > 1e-6 {
		t.Errorf("feedforward = %f, want %f", f.U0.AtVec(0), want)
	}

	s := sim.New(e, f)
	res, err := s.Run(context.Background(), dynamo.VecFrom([]float64{math.Pi/2 + 0.1, 0}), sim.Config{Steps: 500, Dt: 0.01})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.FinalState()[0]; math.Abs(got-math.Pi/2) > 1e-3 {
		t.Errorf("final angle %f, want %f", got, math.Pi/2)
	}
}

func TestEquilibriumFeedbackGainRows(t *testing.T) {
	_, err := NewEquilibriumFeedback(eulerPendulum(t), [][]float64{{1, 0}, {0, 1}}, []float64{0, 0})
	if !errors.Is(err, action.ErrDimensionMismatch) {
		t.Fatalf("expected dimension mismatch, got %v", err)
	}
}

func TestPendulumFeedbackBalances(t *testing.T) {
	s := sim.New(eulerPendulum(t), NewPendulumFeedback())
	res, err := s.Run(context.Background(), dynamo.VecFrom([]float64{math.Pi - 0.2, 0}), sim.Config{Steps: 500, Dt: 0.01})
	if err != nil {
		t.Fatal(err)
	}
	final := res.FinalState()
	if math.Abs(final[0]-math.Pi) > 0.01 || math.Abs(final[1]) > 0.01 {
		t.Errorf("pendulum did not settle upright: %v", final)
	}
}

func TestPID(t *testing.T) {
	p := NewPID(2, 0, 0, 1)
	u := p.Compute(dynamo.VecFrom([]float64{0.5, 0}), 0)
	if got := u.AtVec(0); got != 1 {
		t.Errorf("first output %f, want 1", got)
	}

	p = NewPID(0, 1, 0, 1)
	p.Compute(dynamo.VecFrom([]float64{0}), 0)
	u = p.Compute(dynamo.VecFrom([]float64{0}), 0.5)
	if got := u.AtVec(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("integral output %f, want 0.5", got)
	}

	p.Reset()
	u = p.Compute(dynamo.VecFrom([]float64{0}), 1)
	if got := u.AtVec(0); got != 0 {
		t.Errorf("after reset %f, want 0", got)
	}
}

func TestPIDIndexOutOfRange(t *testing.T) {
	p := NewPID(1, 0, 0, 0)
	p.Index = 5
	if got := p.Compute(dynamo.VecFrom([]float64{1}), 0).AtVec(0); got != 0 {
		t.Errorf("expected zero control, got %f", got)
	}
}

func TestPIDTunable(t *testing.T) {
	var tun Tunable = NewPID(1, 2, 3, 0)
	tun.SetParam("Kd", 7)
	if got := tun.Params()["Kd"]; got != 7 {
		t.Errorf("Kd = %f, want 7", got)
	}
}

package control

import (
	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// PID drives state coordinate Index towards Target with a single control.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Index    int
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

func (p *PID) Compute(x mat.Vector, t float64) *mat.VecDense {
	if p.Index >= dynamo.Len(x) {
		return dynamo.NewVec(1)
	}

	err := p.Target - x.AtVec(p.Index)

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return dynamo.VecFrom([]float64{p.Kp * err})
	}

	dt := t - p.prevT
	if dt > 0 {
		p.integral += err * dt
		derivative := (err - p.prevErr) / dt

		u := p.Kp*err + p.Ki*p.integral + p.Kd*derivative

		p.prevErr = err
		p.prevT = t

		return dynamo.VecFrom([]float64{u})
	}
	return dynamo.VecFrom([]float64{p.Kp * err})
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

func (p *PID) Params() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	}
}

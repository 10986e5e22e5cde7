// Package sim rolls an action model forward in time under a feedback
// policy. It calls Calc only: there is no backward pass and no derivative
// evaluation.
package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Controller chooses the control applied at state x and time t.
type Controller interface {
	Compute(x mat.Vector, t float64) *mat.VecDense
}

// Step is what a node evaluation produced, passed to metrics and observers.
// Its vectors are copies owned by the receiver and may be kept.
type Step struct {
	Index    int
	Time     float64
	X        mat.Vector
	U        mat.Vector
	Cost     float64
	Residual mat.Vector
}

type Metric interface {
	Name() string
	Observe(s Step)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Step)
}

type Config struct {
	Steps int
	// Dt only labels the time axis; the model carries its own time step.
	Dt            float64
	ValidateState bool
}

type Result struct {
	States     [][]float64
	Controls   [][]float64
	Costs      []float64
	Times      []float64
	TotalCost  float64
	Metrics    map[string]float64
	Errors     []error
	StepsTaken int
}

// FinalState returns the last visited state.
func (r *Result) FinalState() []float64 {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

type SimError struct {
	Step    int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

package action

import (
	"fmt"
	"math"

	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/mat"
)

// Model is a discrete-time action model.
type Model interface {
	Dimensioned

	// Calc writes Xnext, Cost and R for the pair (x, u) into data.
	Calc(data *Data, x, u mat.Vector) error
	// CalcDiff writes Fx, Fu, Lx, Lu, Lxx, Lxu and Luu. Whether it relies on
	// values left by a preceding Calc is documented by each model.
	CalcDiff(data *Data, x, u mat.Vector) error
	// CreateData allocates a Data sized for this model.
	CreateData() *Data

	NeutralControl() *mat.VecDense
	ULowerBound() *mat.VecDense
	UUpperBound() *mat.VecDense
	HasControlLimits() bool
}

// Base carries the attributes every action model shares. Concrete models
// embed it and supply Calc and CalcDiff.
type Base struct {
	nu    int
	nr    int
	state state.Manifold

	unone            *mat.VecDense
	uLB              *mat.VecDense
	uUB              *mat.VecDense
	hasControlLimits bool
}

// NewBase validates the dimensions and returns a Base with unbounded controls.
func NewBase(st state.Manifold, nu, nr int) (Base, error) {
	if st == nil {
		return Base{}, fmt.Errorf("%w: nil state", ErrParameterBounds)
	}
	if nu < 0 {
		return Base{}, fmt.Errorf("%w: nu=%d", ErrParameterBounds, nu)
	}
	if nr < 0 {
		return Base{}, fmt.Errorf("%w: nr=%d", ErrParameterBounds, nr)
	}

	lb := dynamo.NewVec(nu)
	ub := dynamo.NewVec(nu)
	for i := 0; i < nu; i++ {
		lb.SetVec(i, math.Inf(-1))
		ub.SetVec(i, math.Inf(1))
	}

	return Base{
		nu:    nu,
		nr:    nr,
		state: st,
		unone: dynamo.NewVec(nu),
		uLB:   lb,
		uUB:   ub,
	}, nil
}

func (b *Base) NU() int               { return b.nu }
func (b *Base) NR() int               { return b.nr }
func (b *Base) State() state.Manifold { return b.state }

// NeutralControl returns the model's resting control, zero unless a model
// overrides it. Callers must not modify the result.
func (b *Base) NeutralControl() *mat.VecDense { return b.unone }

// ULowerBound returns a copy of the lower control bound. Bounds change only
// through the setters.
func (b *Base) ULowerBound() *mat.VecDense { return dynamo.Clone(b.uLB) }

// UUpperBound returns a copy of the upper control bound.
func (b *Base) UUpperBound() *mat.VecDense { return dynamo.Clone(b.uUB) }

func (b *Base) HasControlLimits() bool { return b.hasControlLimits }

// SetNeutralControl replaces unone.
func (b *Base) SetNeutralControl(u mat.Vector) error {
	if n := dynamo.Len(u); n != b.nu {
		return &DimensionError{Op: "SetNeutralControl", Arg: "u", Got: n, Want: b.nu}
	}
	dynamo.CopyInto(b.unone, u)
	return nil
}

// SetULowerBound replaces the lower control bound. On error the model keeps
// its previous bounds.
func (b *Base) SetULowerBound(lb mat.Vector) error {
	if n := dynamo.Len(lb); n != b.nu {
		return &DimensionError{Op: "SetULowerBound", Arg: "uLB", Got: n, Want: b.nu}
	}
	if err := checkOrdered(lb, b.uUB); err != nil {
		return err
	}
	dynamo.CopyInto(b.uLB, lb)
	b.updateHasControlLimits()
	return nil
}

// SetUUpperBound replaces the upper control bound. On error the model keeps
// its previous bounds.
func (b *Base) SetUUpperBound(ub mat.Vector) error {
	if n := dynamo.Len(ub); n != b.nu {
		return &DimensionError{Op: "SetUUpperBound", Arg: "uUB", Got: n, Want: b.nu}
	}
	if err := checkOrdered(b.uLB, ub); err != nil {
		return err
	}
	dynamo.CopyInto(b.uUB, ub)
	b.updateHasControlLimits()
	return nil
}

// SetControlLimits replaces both bounds at once, which allows moving a box
// past its old position in a single step.
func (b *Base) SetControlLimits(lb, ub mat.Vector) error {
	if n := dynamo.Len(lb); n != b.nu {
		return &DimensionError{Op: "SetControlLimits", Arg: "uLB", Got: n, Want: b.nu}
	}
	if n := dynamo.Len(ub); n != b.nu {
		return &DimensionError{Op: "SetControlLimits", Arg: "uUB", Got: n, Want: b.nu}
	}
	if err := checkOrdered(lb, ub); err != nil {
		return err
	}
	dynamo.CopyInto(b.uLB, lb)
	dynamo.CopyInto(b.uUB, ub)
	b.updateHasControlLimits()
	return nil
}

func checkOrdered(lb, ub mat.Vector) error {
	for i := 0; i < dynamo.Len(lb); i++ {
		if math.IsNaN(lb.AtVec(i)) || math.IsNaN(ub.AtVec(i)) {
			return fmt.Errorf("%w: index %d: NaN bound", ErrInvalidBounds, i)
		}
		if lb.AtVec(i) > ub.AtVec(i) {
			return fmt.Errorf("%w: index %d: %g > %g", ErrInvalidBounds, i, lb.AtVec(i), ub.AtVec(i))
		}
	}
	return nil
}

func (b *Base) updateHasControlLimits() {
	b.hasControlLimits = false
	for i := 0; i < b.nu; i++ {
		if !math.IsInf(b.uLB.AtVec(i), 0) || !math.IsInf(b.uUB.AtVec(i), 0) {
			b.hasControlLimits = true
			return
		}
	}
}

// CalcWithDefaultControl evaluates m at its neutral control.
func CalcWithDefaultControl(m Model, data *Data, x mat.Vector) error {
	return m.Calc(data, x, m.NeutralControl())
}

// CalcDiffWithDefaultControl differentiates m at its neutral control.
func CalcDiffWithDefaultControl(m Model, data *Data, x mat.Vector) error {
	return m.CalcDiff(data, x, m.NeutralControl())
}

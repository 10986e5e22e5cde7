package action

import (
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/mat"
)

// Dimensioned is the part of a model needed to size its buffers.
type Dimensioned interface {
	NU() int
	NR() int
	State() state.Manifold
}

// Dims records the shape a Data was allocated with.
type Dims struct {
	Nx  int
	Ndx int
	NU  int
	NR  int
}

func dimsOf(m Dimensioned) Dims {
	st := m.State()
	return Dims{Nx: st.Nx(), Ndx: st.Ndx(), NU: m.NU(), NR: m.NR()}
}

// Data holds the results of one Calc/CalcDiff pair. Blocks with a zero
// dimension are empty gonum values; Dims still reports their logical shape.
type Data struct {
	Cost  float64
	Xnext *mat.VecDense // nx
	R     *mat.VecDense // nr

	Fx *mat.Dense // ndx×ndx
	Fu *mat.Dense // ndx×nu

	Lx  *mat.VecDense // ndx
	Lu  *mat.VecDense // nu
	Lxx *mat.Dense    // ndx×ndx
	Lxu *mat.Dense    // ndx×nu
	Luu *mat.Dense    // nu×nu

	// Ext carries model-specific scratch attached by CreateData, such as the
	// differential data of an integrated model. Nil for plain models.
	Ext any

	dims Dims
}

// NewData allocates zeroed buffers sized from m.
func NewData(m Dimensioned) *Data {
	d := dimsOf(m)
	return &Data{
		Xnext: dynamo.NewVec(d.Nx),
		R:     dynamo.NewVec(d.NR),
		Fx:    dynamo.NewMat(d.Ndx, d.Ndx),
		Fu:    dynamo.NewMat(d.Ndx, d.NU),
		Lx:    dynamo.NewVec(d.Ndx),
		Lu:    dynamo.NewVec(d.NU),
		Lxx:   dynamo.NewMat(d.Ndx, d.Ndx),
		Lxu:   dynamo.NewMat(d.Ndx, d.NU),
		Luu:   dynamo.NewMat(d.NU, d.NU),
		dims:  d,
	}
}

func (d *Data) Dims() Dims { return d.dims }

// Reset zeroes every buffer. Ext is left alone.
func (d *Data) Reset() {
	d.Cost = 0
	dynamo.ZeroVec(d.Xnext)
	dynamo.ZeroVec(d.R)
	dynamo.ZeroMat(d.Fx)
	dynamo.ZeroMat(d.Fu)
	dynamo.ZeroVec(d.Lx)
	dynamo.ZeroVec(d.Lu)
	dynamo.ZeroMat(d.Lxx)
	dynamo.ZeroMat(d.Lxu)
	dynamo.ZeroMat(d.Luu)
}

// CheckArgs validates the arguments of a Calc or CalcDiff call on m.
func CheckArgs(op string, m Dimensioned, data *Data, x, u mat.Vector) error {
	if data == nil || data.dims != dimsOf(m) {
		return ErrDataMismatch
	}
	return checkVectors(op, m, x, u)
}

func checkVectors(op string, m Dimensioned, x, u mat.Vector) error {
	if n := dynamo.Len(x); n != m.State().Nx() {
		return &DimensionError{Op: op, Arg: "x", Got: n, Want: m.State().Nx()}
	}
	if n := dynamo.Len(u); n != m.NU() {
		return &DimensionError{Op: op, Arg: "u", Got: n, Want: m.NU()}
	}
	return nil
}

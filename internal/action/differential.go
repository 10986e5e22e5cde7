package action

import (
	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// DifferentialModel describes continuous-time dynamics a(q, v, u) together
// with a running cost rate. An integrator turns it into a Model.
type DifferentialModel interface {
	Dimensioned

	// Calc writes the acceleration Xout, the cost rate and the residual.
	Calc(data *DifferentialData, x, u mat.Vector) error
	// CalcDiff writes Fx, Fu and the cost derivatives.
	CalcDiff(data *DifferentialData, x, u mat.Vector) error
	CreateData() *DifferentialData

	NeutralControl() *mat.VecDense
	ULowerBound() *mat.VecDense
	UUpperBound() *mat.VecDense
	HasControlLimits() bool
}

// DifferentialData mirrors Data for continuous time. Xout has Nv entries and
// Fx is Nv×Ndx.
type DifferentialData struct {
	Cost float64
	Xout *mat.VecDense
	R    *mat.VecDense

	Fx *mat.Dense
	Fu *mat.Dense

	Lx  *mat.VecDense
	Lu  *mat.VecDense
	Lxx *mat.Dense
	Lxu *mat.Dense
	Luu *mat.Dense

	dims Dims
}

func NewDifferentialData(m Dimensioned) *DifferentialData {
	d := dimsOf(m)
	nv := m.State().Nv()
	return &DifferentialData{
		Xout: dynamo.NewVec(nv),
		R:    dynamo.NewVec(d.NR),
		Fx:   dynamo.NewMat(nv, d.Ndx),
		Fu:   dynamo.NewMat(nv, d.NU),
		Lx:   dynamo.NewVec(d.Ndx),
		Lu:   dynamo.NewVec(d.NU),
		Lxx:  dynamo.NewMat(d.Ndx, d.Ndx),
		Lxu:  dynamo.NewMat(d.Ndx, d.NU),
		Luu:  dynamo.NewMat(d.NU, d.NU),
		dims: d,
	}
}

func (d *DifferentialData) Dims() Dims { return d.dims }

// CheckDifferentialArgs validates a Calc or CalcDiff call on a differential model.
func CheckDifferentialArgs(op string, m Dimensioned, data *DifferentialData, x, u mat.Vector) error {
	if data == nil || data.dims != dimsOf(m) {
		return ErrDataMismatch
	}
	return checkVectors(op, m, x, u)
}

package action_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/state"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("Base", func() {
	var (
		inf = math.Inf(1)
		st  *state.Vector
		m   *linearModel
	)

	BeforeEach(func() {
		st = state.NewVector(1, 1)
		m = newLinearModel(st,
			mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
			mat.NewDense(2, 2, []float64{1, 0, 0, 1}))
	})

	It("should reject invalid construction parameters", func() {
		_, err := action.NewBase(st, -1, 0)
		Expect(err).To(MatchError(action.ErrParameterBounds))

		_, err = action.NewBase(st, 1, -1)
		Expect(err).To(MatchError(action.ErrParameterBounds))

		_, err = action.NewBase(nil, 1, 0)
		Expect(err).To(MatchError(action.ErrParameterBounds))
	})

	It("should start unbounded with a zero neutral control", func() {
		Expect(m.NU()).To(Equal(2))
		Expect(m.NR()).To(Equal(0))
		Expect(m.State()).To(BeIdenticalTo(st))
		Expect(dynamo.Slice(m.NeutralControl())).To(Equal([]float64{0, 0}))
		Expect(dynamo.Slice(m.ULowerBound())).To(Equal([]float64{-inf, -inf}))
		Expect(dynamo.Slice(m.UUpperBound())).To(Equal([]float64{inf, inf}))
		Expect(m.HasControlLimits()).To(BeFalse())
	})

	It("should detect control limits from finite bounds", func() {
		Expect(m.SetULowerBound(dynamo.VecFrom([]float64{-inf, -1}))).To(Succeed())
		Expect(m.SetUUpperBound(dynamo.VecFrom([]float64{inf, 1}))).To(Succeed())
		Expect(m.HasControlLimits()).To(BeTrue())

		Expect(m.SetULowerBound(dynamo.VecFrom([]float64{-inf, -inf}))).To(Succeed())
		Expect(m.SetUUpperBound(dynamo.VecFrom([]float64{inf, inf}))).To(Succeed())
		Expect(m.HasControlLimits()).To(BeFalse())
	})

	It("should reject crossed bounds and keep the old ones", func() {
		Expect(m.SetUUpperBound(dynamo.VecFrom([]float64{1, 1}))).To(Succeed())

		err := m.SetULowerBound(dynamo.VecFrom([]float64{0, 2}))
		Expect(err).To(MatchError(action.ErrInvalidBounds))
		Expect(dynamo.Slice(m.ULowerBound())).To(Equal([]float64{-inf, -inf}))

		err = m.SetControlLimits(dynamo.VecFrom([]float64{3, 3}), dynamo.VecFrom([]float64{2, 4}))
		Expect(err).To(MatchError(action.ErrInvalidBounds))
		Expect(dynamo.Slice(m.UUpperBound())).To(Equal([]float64{1, 1}))
	})

	It("should reject NaN bounds", func() {
		Expect(m.SetULowerBound(dynamo.VecFrom([]float64{math.NaN(), 0}))).To(MatchError(action.ErrInvalidBounds))
		Expect(m.SetUUpperBound(dynamo.VecFrom([]float64{1, math.NaN()}))).To(MatchError(action.ErrInvalidBounds))
		Expect(m.SetControlLimits(dynamo.VecFrom([]float64{0, 0}), dynamo.VecFrom([]float64{math.NaN(), 1}))).
			To(MatchError(action.ErrInvalidBounds))
		Expect(dynamo.Slice(m.ULowerBound())).To(Equal([]float64{-inf, -inf}))
		Expect(m.HasControlLimits()).To(BeFalse())
	})

	It("should hand out copies of the bounds", func() {
		m.ULowerBound().SetVec(0, 10)
		m.UUpperBound().SetVec(1, -10)
		Expect(dynamo.Slice(m.ULowerBound())).To(Equal([]float64{-inf, -inf}))
		Expect(dynamo.Slice(m.UUpperBound())).To(Equal([]float64{inf, inf}))
		Expect(m.HasControlLimits()).To(BeFalse())
	})

	It("should move the whole box at once", func() {
		Expect(m.SetControlLimits(dynamo.VecFrom([]float64{5, 5}), dynamo.VecFrom([]float64{6, 6}))).To(Succeed())
		Expect(dynamo.Slice(m.ULowerBound())).To(Equal([]float64{5, 5}))
		Expect(m.HasControlLimits()).To(BeTrue())
	})

	It("should report the offending argument on a size mismatch", func() {
		err := m.SetULowerBound(dynamo.VecFrom([]float64{0}))
		Expect(err).To(MatchError(action.ErrDimensionMismatch))

		var dimErr *action.DimensionError
		Expect(errors.As(err, &dimErr)).To(BeTrue())
		Expect(dimErr.Arg).To(Equal("uLB"))
		Expect(dimErr.Got).To(Equal(1))
		Expect(dimErr.Want).To(Equal(2))
	})

	It("should replace the neutral control", func() {
		Expect(m.SetNeutralControl(dynamo.VecFrom([]float64{1, 2}))).To(Succeed())
		Expect(dynamo.Slice(m.NeutralControl())).To(Equal([]float64{1, 2}))
		Expect(m.SetNeutralControl(dynamo.VecFrom([]float64{1}))).To(MatchError(action.ErrDimensionMismatch))
	})

	It("should evaluate with the neutral control", func() {
		Expect(m.SetNeutralControl(dynamo.VecFrom([]float64{1, -1}))).To(Succeed())
		data := m.CreateData()
		x := dynamo.VecFrom([]float64{2, 3})

		Expect(action.CalcWithDefaultControl(m, data, x)).To(Succeed())
		Expect(dynamo.Slice(data.Xnext)).To(Equal([]float64{3, 2}))
		Expect(data.Cost).To(Equal(1.0))

		Expect(action.CalcDiffWithDefaultControl(m, data, x)).To(Succeed())
		Expect(dynamo.Slice(data.Lu)).To(Equal([]float64{1, -1}))
	})
})

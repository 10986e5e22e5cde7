package action_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/state"
	"go.uber.org/mock/gomock"
	"gonum.org/v1/gonum/mat"
)

func matZero(m *mat.Dense) bool {
	if m.IsEmpty() {
		return true
	}
	return mat.Equal(m, mat.NewDense(m.RawMatrix().Rows, m.RawMatrix().Cols, nil))
}

var _ = Describe("Data", func() {
	var (
		mockCtrl *gomock.Controller
		st       *MockManifold
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		st = NewMockManifold(mockCtrl)
		st.EXPECT().Nx().Return(3).AnyTimes()
		st.EXPECT().Ndx().Return(2).AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should size every buffer from the model and start at zero", func() {
		m := newLinearModel(st, mat.NewDense(2, 3, nil), mat.NewDense(2, 4, nil))
		data := m.CreateData()

		Expect(data.Dims()).To(Equal(action.Dims{Nx: 3, Ndx: 2, NU: 4, NR: 0}))
		Expect(data.Cost).To(BeZero())
		Expect(data.Xnext.Len()).To(Equal(3))
		Expect(data.R.IsEmpty()).To(BeTrue())
		Expect(data.Lx.Len()).To(Equal(2))
		Expect(data.Lu.Len()).To(Equal(4))

		for _, blk := range []struct {
			m    *mat.Dense
			r, c int
		}{
			{data.Fx, 2, 2}, {data.Fu, 2, 4},
			{data.Lxx, 2, 2}, {data.Lxu, 2, 4}, {data.Luu, 4, 4},
		} {
			r, c := blk.m.Dims()
			Expect([]int{r, c}).To(Equal([]int{blk.r, blk.c}))
			Expect(matZero(blk.m)).To(BeTrue())
		}
		Expect(dynamo.Norm(data.Xnext)).To(BeZero())
		Expect(dynamo.Norm(data.Lu)).To(BeZero())
	})

	It("should keep empty blocks for a model without controls", func() {
		m := newLinearModel(st, mat.NewDense(2, 3, nil), &mat.Dense{})
		data := m.CreateData()

		Expect(data.Dims().NU).To(Equal(0))
		Expect(data.Fu.IsEmpty()).To(BeTrue())
		Expect(data.Luu.IsEmpty()).To(BeTrue())
		Expect(data.Lu.IsEmpty()).To(BeTrue())
	})

	It("should zero every buffer on reset", func() {
		m := newLinearModel(state.NewVector(1, 1),
			mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			mat.NewDense(2, 1, []float64{1, 1}))
		data := m.CreateData()
		x := dynamo.VecFrom([]float64{1, 1})
		u := dynamo.VecFrom([]float64{2})
		Expect(m.Calc(data, x, u)).To(Succeed())
		Expect(m.CalcDiff(data, x, u)).To(Succeed())

		data.Reset()

		Expect(data.Cost).To(BeZero())
		Expect(dynamo.Norm(data.Xnext)).To(BeZero())
		Expect(matZero(data.Fx)).To(BeTrue())
		Expect(matZero(data.Luu)).To(BeTrue())
	})

	It("should reject data from a model with other dimensions", func() {
		small := newLinearModel(state.NewVector(1, 1), mat.NewDense(2, 2, nil), mat.NewDense(2, 1, nil))
		large := newLinearModel(state.NewVector(2, 2), mat.NewDense(4, 4, nil), mat.NewDense(4, 1, nil))

		err := large.Calc(small.CreateData(), dynamo.NewVec(4), dynamo.NewVec(1))
		Expect(err).To(MatchError(action.ErrDataMismatch))
		Expect(large.Calc(nil, dynamo.NewVec(4), dynamo.NewVec(1))).To(MatchError(action.ErrDataMismatch))
	})

	It("should reject state and control of the wrong size", func() {
		m := newLinearModel(state.NewVector(1, 1), mat.NewDense(2, 2, nil), mat.NewDense(2, 1, nil))
		data := m.CreateData()

		Expect(m.Calc(data, dynamo.NewVec(3), dynamo.NewVec(1))).To(MatchError(action.ErrDimensionMismatch))
		Expect(m.CalcDiff(data, dynamo.NewVec(2), dynamo.NewVec(2))).To(MatchError(action.ErrDimensionMismatch))
	})

	It("should not touch another data when calculating", func() {
		m := newLinearModel(state.NewVector(1, 1),
			mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			mat.NewDense(2, 1, []float64{1, 1}))
		a := m.CreateData()
		b := m.CreateData()

		Expect(m.Calc(a, dynamo.VecFrom([]float64{1, 1}), dynamo.VecFrom([]float64{1}))).To(Succeed())
		Expect(m.CalcDiff(a, dynamo.VecFrom([]float64{1, 1}), dynamo.VecFrom([]float64{1}))).To(Succeed())

		Expect(b.Cost).To(BeZero())
		Expect(dynamo.Norm(b.Xnext)).To(BeZero())
		Expect(matZero(b.Fx)).To(BeTrue())
		Expect(matZero(b.Fu)).To(BeTrue())
	})
})

package action_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/ddpnode/internal/action"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"github.com/san-kum/ddpnode/internal/state"
	"go.uber.org/mock/gomock"
	"gonum.org/v1/gonum/mat"
)

var _ = Describe("QuasiStatic", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(42))
	})

	randomDense := func(r, c int) *mat.Dense {
		m := mat.NewDense(r, c, nil)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				m.Set(i, j, 2*rng.Float64()-1)
			}
		}
		return m
	}

	It("should return at once without controls", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()
		st := NewMockManifold(mockCtrl)
		st.EXPECT().Nx().Return(2).AnyTimes()
		st.EXPECT().Ndx().Return(2).AnyTimes()
		st.EXPECT().Diff(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		m := newLinearModel(st, mat.NewDense(2, 2, nil), &mat.Dense{})
		u := &mat.VecDense{}

		res, err := action.QuasiStatic(m, m.CreateData(), u, dynamo.VecFrom([]float64{5, -5}), action.WithMaxIter(1))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.Iterations).To(Equal(0))
		Expect(u.IsEmpty()).To(BeTrue())
	})

	It("should measure the residual on the state manifold", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()
		st := NewMockManifold(mockCtrl)
		st.EXPECT().Nx().Return(1).AnyTimes()
		st.EXPECT().Ndx().Return(1).AnyTimes()
		st.EXPECT().Diff(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(x0, x1 mat.Vector, dx *mat.VecDense) {
				dx.SetVec(0, x1.AtVec(0)-x0.AtVec(0))
			}).
			MinTimes(1)

		m := newLinearModel(st, mat.NewDense(1, 1, []float64{1}), mat.NewDense(1, 1, []float64{2}))
		u := dynamo.VecFrom([]float64{3})

		res, err := action.QuasiStatic(m, m.CreateData(), u, dynamo.VecFrom([]float64{1}))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(u.AtVec(0)).To(BeNumerically("~", 0, 1e-12))
	})

	It("should solve a square linear system in one step", func() {
		st := state.NewVector(2, 2)
		b := randomDense(4, 4)
		for i := 0; i < 4; i++ {
			b.Set(i, i, b.At(i, i)+4)
		}
		m := newLinearModel(st, randomDense(4, 4), b)
		data := m.CreateData()
		x := st.Rand(rng)
		u := dynamo.NewVec(4)

		res, err := action.QuasiStatic(m, data, u, x, action.WithMaxIter(1))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.Iterations).To(Equal(1))
		Expect(res.ResidualNorm).To(BeNumerically("<=", action.DefaultTolerance))
		Expect(res.Err()).NotTo(HaveOccurred())

		Expect(m.Calc(data, x, u)).To(Succeed())
		r := dynamo.NewVec(4)
		st.Diff(x, data.Xnext, r)
		Expect(dynamo.Norm(r)).To(BeNumerically("<=", 1e-9))
	})

	It("should report a damped search that runs out of iterations", func() {
		st := state.NewVectorN(2)
		m := newLinearModel(st, mat.NewDense(2, 2, []float64{2, 0, 0, 2}), mat.NewDense(2, 2, []float64{1, 0, 0, 1}))
		u := dynamo.NewVec(2)

		var seen []action.Iteration
		res, err := action.QuasiStatic(m, m.CreateData(), u, dynamo.VecFrom([]float64{1, 1}),
			action.WithMaxIter(3),
			action.WithDamping(0.5),
			action.WithObserver(func(it action.Iteration) { seen = append(seen, it) }))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeFalse())
		Expect(res.Iterations).To(Equal(3))
		Expect(res.Err()).To(MatchError(action.ErrNotConverged))
		Expect(res.ResidualNorm).To(BeNumerically("~", 0.125*dynamo.Norm(dynamo.VecFrom([]float64{1, 1})), 1e-12))

		Expect(seen).To(HaveLen(3))
		Expect(seen[0].Index).To(Equal(0))
		Expect(seen[0].Rank).To(Equal(2))
		Expect(seen[2].U).To(HaveLen(2))
		Expect(dynamo.Slice(u)).To(Equal(seen[2].U))
	})

	It("should leave the best iterate when the search diverges", func() {
		m := newAtanModel()
		u := dynamo.VecFrom([]float64{2})
		data := m.CreateData()

		var seen []action.Iteration
		res, err := action.QuasiStatic(m, data, u, dynamo.VecFrom([]float64{0}),
			action.WithMaxIter(4),
			action.WithObserver(func(it action.Iteration) { seen = append(seen, it) }))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeFalse())
		Expect(res.Iterations).To(Equal(4))
		Expect(seen[3].ResidualNorm).To(BeNumerically(">", seen[0].ResidualNorm))
		Expect(u.AtVec(0)).To(Equal(2.0))
		Expect(res.ResidualNorm).To(BeNumerically("~", math.Atan(2), 1e-12))
		Expect(data.Xnext.AtVec(0)).To(BeNumerically("~", math.Atan(2), 1e-12))
	})

	It("should take minimum-norm steps when the control is rank deficient", func() {
		st := state.NewVectorN(2)
		m := newLinearModel(st, mat.NewDense(2, 2, []float64{2, 0, 0, 2}), mat.NewDense(2, 2, []float64{1, 0, 0, 0}))
		u := dynamo.NewVec(2)

		res, err := action.QuasiStatic(m, m.CreateData(), u, dynamo.VecFrom([]float64{1, 1}))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeFalse())
		Expect(res.Iterations).To(Equal(2))
		Expect(res.ResidualNorm).To(BeNumerically("~", 1, 1e-12))
		Expect(u.AtVec(0)).To(BeNumerically("~", -1, 1e-12))
		Expect(u.AtVec(1)).To(BeNumerically("~", 0, 1e-12))
	})

	It("should ignore control bounds", func() {
		st := state.NewVectorN(1)
		m := newLinearModel(st, mat.NewDense(1, 1, []float64{2}), mat.NewDense(1, 1, []float64{1}))
		Expect(m.SetControlLimits(dynamo.VecFrom([]float64{-0.1}), dynamo.VecFrom([]float64{0.1}))).To(Succeed())
		u := dynamo.NewVec(1)

		res, err := action.QuasiStatic(m, m.CreateData(), u, dynamo.VecFrom([]float64{1}))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(u.AtVec(0)).To(BeNumerically("~", -1, 1e-12))
	})

	It("should reject mismatched data", func() {
		m := newLinearModel(state.NewVectorN(1), mat.NewDense(1, 1, []float64{1}), mat.NewDense(1, 1, []float64{1}))
		other := newLinearModel(state.NewVectorN(2), mat.NewDense(2, 2, nil), mat.NewDense(2, 1, nil))

		_, err := action.QuasiStatic(m, other.CreateData(), dynamo.NewVec(1), dynamo.VecFrom([]float64{1}))
		Expect(err).To(MatchError(action.ErrDataMismatch))
	})
})

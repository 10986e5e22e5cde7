package action

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"
	"github.com/san-kum/ddpnode/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultMaxIter   = 100
	DefaultTolerance = 1e-9
	DefaultDamping   = 1.0

	// singular values below rcond·σmax are treated as zero
	defaultRcond = 1e-12
)

// Iteration is a snapshot of one Gauss-Newton step, passed to observers.
type Iteration struct {
	Index        int
	ResidualNorm float64
	StepNorm     float64
	Rank         int
	U            []float64
}

// QuasiStaticResult summarizes a QuasiStatic call.
type QuasiStaticResult struct {
	Converged    bool
	Iterations   int
	ResidualNorm float64
}

// Err returns ErrNotConverged when the search ran out of iterations.
func (r QuasiStaticResult) Err() error {
	if r.Converged {
		return nil
	}
	return fmt.Errorf("%w: residual %.3e after %d iterations", ErrNotConverged, r.ResidualNorm, r.Iterations)
}

type QuasiStaticOption func(*quasiStaticConfig)

type quasiStaticConfig struct {
	maxIter  int
	tol      float64
	damping  float64
	rcond    float64
	log      logr.Logger
	observer func(Iteration)
}

func WithMaxIter(n int) QuasiStaticOption {
	return func(c *quasiStaticConfig) {
		if n > 0 {
			c.maxIter = n
		}
	}
}

func WithTolerance(tol float64) QuasiStaticOption {
	return func(c *quasiStaticConfig) {
		if tol >= 0 {
			c.tol = tol
		}
	}
}

// WithDamping scales every Gauss-Newton step by alpha, 0 < alpha <= 1.
func WithDamping(alpha float64) QuasiStaticOption {
	return func(c *quasiStaticConfig) {
		if alpha > 0 && alpha <= 1 {
			c.damping = alpha
		}
	}
}

// WithRcond sets the relative singular value cutoff used for the rank.
func WithRcond(rcond float64) QuasiStaticOption {
	return func(c *quasiStaticConfig) {
		if rcond > 0 {
			c.rcond = rcond
		}
	}
}

func WithLogger(log logr.Logger) QuasiStaticOption {
	return func(c *quasiStaticConfig) { c.log = log }
}

// WithObserver registers a callback run after every iteration.
func WithObserver(fn func(Iteration)) QuasiStaticOption {
	return func(c *quasiStaticConfig) { c.observer = fn }
}

// QuasiStatic searches, in place on u, for the control that keeps x at rest:
// the residual Diff(x, xnext) is driven to zero by damped Gauss-Newton steps
// du solving Fu·du = -r in the least-squares, minimum-norm sense.
//
// Control bounds are not enforced. Running out of iterations is not an
// error; it is reported through the result and the best iterate is left in
// u. data is overwritten.
func QuasiStatic(m Model, data *Data, u *mat.VecDense, x mat.Vector, opts ...QuasiStaticOption) (QuasiStaticResult, error) {
	cfg := quasiStaticConfig{
		maxIter: DefaultMaxIter,
		tol:     DefaultTolerance,
		damping: DefaultDamping,
		rcond:   defaultRcond,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if m.NU() == 0 {
		return QuasiStaticResult{Converged: true}, nil
	}
	if err := CheckArgs("QuasiStatic", m, data, x, u); err != nil {
		return QuasiStaticResult{}, err
	}

	st := m.State()
	ndx := st.Ndx()
	r := dynamo.NewVec(ndx)
	du := dynamo.NewVec(m.NU())

	residual := func() (float64, error) {
		if err := m.Calc(data, x, u); err != nil {
			return 0, err
		}
		if ndx == 0 {
			return 0, nil
		}
		st.Diff(x, data.Xnext, r)
		return dynamo.Norm(r), nil
	}

	bestU := dynamo.Clone(u)
	bestNorm := math.Inf(1)
	keep := func(rnorm float64) {
		if rnorm < bestNorm {
			bestNorm = rnorm
			dynamo.CopyInto(bestU, u)
		}
	}

	var res QuasiStaticResult
	for i := 0; i < cfg.maxIter; i++ {
		rnorm, err := residual()
		if err != nil {
			return res, err
		}
		keep(rnorm)
		res.ResidualNorm = rnorm
		if rnorm <= cfg.tol {
			res.Converged = true
			break
		}

		if err := m.CalcDiff(data, x, u); err != nil {
			return res, err
		}

		var svd mat.SVD
		if ok := svd.Factorize(data.Fu, mat.SVDThin); !ok {
			return res, fmt.Errorf("quasi-static iteration %d: %w", i, ErrFactorization)
		}
		rank := svd.Rank(cfg.rcond)
		dynamo.ZeroVec(du)
		if rank > 0 {
			svd.SolveVecTo(du, r, rank)
			du.ScaleVec(-1, du)
		}
		u.AddScaledVec(u, cfg.damping, du)
		res.Iterations = i + 1

		stepNorm := dynamo.Norm(du)
		cfg.log.V(1).Info("quasi-static step", "iter", i, "residual", rnorm, "step", stepNorm, "rank", rank)
		if cfg.observer != nil {
			cfg.observer(Iteration{
				Index:        i,
				ResidualNorm: rnorm,
				StepNorm:     stepNorm,
				Rank:         rank,
				U:            dynamo.Slice(u),
			})
		}

		if stepNorm <= cfg.tol {
			break
		}
	}

	if !res.Converged {
		rnorm, err := residual()
		if err != nil {
			return res, err
		}
		keep(rnorm)
		res.ResidualNorm = rnorm
		res.Converged = rnorm <= cfg.tol
	}

	if !res.Converged && bestNorm < res.ResidualNorm {
		dynamo.CopyInto(u, bestU)
		rnorm, err := residual()
		if err != nil {
			return res, err
		}
		res.ResidualNorm = rnorm
	}

	if !res.Converged {
		cfg.log.Info("quasi-static search did not converge",
			"iterations", res.Iterations, "residual", res.ResidualNorm, "tol", cfg.tol)
	}
	return res, nil
}

package lowrank

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/synthbal/matrix"
)

// CompletionMethod selects the completion algorithm.
type CompletionMethod int

const (
	// SoftImpute iterates soft-thresholded SVDs of the filled-in matrix.
	SoftImpute CompletionMethod = iota
	// ALS alternates ridge regressions for the row and column factors.
	ALS
)

// String returns the configuration name of the method.
func (m CompletionMethod) String() string {
	if m == ALS {
		return "als"
	}

	return "soft-impute"
}

// CompletionOptions configures Complete.
//   - Lambda: nuclear-norm (SoftImpute) or ridge (ALS) penalty, ≥ 0.
//   - MaxRank: rank cap; ALS uses exactly this rank.
//   - MaxIters, Tol: stop when the relative Frobenius change of the fit
//     (SoftImpute) or of the loss (ALS) falls below Tol.
//   - Seed: ALS factor initialization.
type CompletionOptions struct {
	Method   CompletionMethod
	Lambda   float64
	MaxRank  int
	MaxIters int
	Tol      float64
	Seed     uint64
}

// DefaultCompletionOptions returns SoftImpute with λ=0.1, rank ≤ 10.
func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{
		Method:   SoftImpute,
		Lambda:   0.1,
		MaxRank:  10,
		MaxIters: 2000,
		Tol:      1e-6,
		Seed:     1,
	}
}

// Completion is the result of Complete.
//   - Completed: observed cells kept, missing cells imputed.
//   - Fitted: the low-rank fit on every cell (column offsets restored).
type Completion struct {
	Completed  *matrix.Dense
	Fitted     *matrix.Dense
	Rank       int
	Iterations int
	Converged  bool
}

// Complete fills the NaN cells of Y with a low-rank fit. Columns are centered
// on the means of the fully observed rows, which keeps the centered matrix in
// the row space of Y; with no such row the data is left uncentered.
//
// Errors:
//   - ErrBadOptions, ErrBadRank for invalid settings.
//   - ErrNoObserved when every cell is NaN; matrix.ErrNaNInf for ±Inf cells.
func Complete(Y matrix.Matrix, opts CompletionOptions) (*Completion, error) {
	if opts.MaxRank < 1 {
		return nil, ErrBadRank
	}
	if opts.MaxIters < 1 || !(opts.Lambda >= 0) || !(opts.Tol >= 0) {
		return nil, ErrBadOptions
	}
	if err := matrix.ValidateNotNil(Y); err != nil {
		return nil, err
	}
	n, p := Y.Rows(), Y.Cols()
	obs := make([]bool, n*p)
	vals := mat.NewDense(n, p, nil)
	var count int
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			v, err := Y.At(i, j)
			if err != nil {
				return nil, err
			}
			if math.IsInf(v, 0) {
				return nil, fmt.Errorf("Complete: (%d,%d): %w", i, j, matrix.ErrNaNInf)
			}
			if !math.IsNaN(v) {
				obs[i*p+j] = true
				vals.Set(i, j, v)
				count++
			}
		}
	}
	if count == 0 {
		return nil, ErrNoObserved
	}
	mu := completeRowMeans(vals, obs)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			if obs[i*p+j] {
				vals.Set(i, j, vals.At(i, j)-mu[j])
			}
		}
	}

	var (
		Z    *mat.Dense
		comp = &Completion{}
		err  error
	)
	switch opts.Method {
	case SoftImpute:
		Z, err = softImpute(vals, obs, opts, comp)
	case ALS:
		Z, err = als(vals, obs, opts, comp)
	default:
		err = fmt.Errorf("method %d: %w", int(opts.Method), ErrBadOptions)
	}
	if err != nil {
		return nil, err
	}

	if comp.Fitted, err = matrix.NewDense(n, p); err != nil {
		return nil, err
	}
	if comp.Completed, err = matrix.NewDense(n, p); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			f := Z.At(i, j) + mu[j]
			_ = comp.Fitted.Set(i, j, f)
			if obs[i*p+j] {
				f, _ = Y.At(i, j)
			}
			_ = comp.Completed.Set(i, j, f)
		}
	}

	return comp, nil
}

// completeRowMeans averages each column over the rows with no missing cell.
// It returns zeros when every row has a gap.
func completeRowMeans(vals *mat.Dense, obs []bool) []float64 {
	n, p := vals.Dims()
	mu := make([]float64, p)
	var full int
	for i := 0; i < n; i++ {
		complete := true
		for j := 0; j < p; j++ {
			if !obs[i*p+j] {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		full++
		for j := 0; j < p; j++ {
			mu[j] += vals.At(i, j)
		}
	}
	if full > 0 {
		for j := range mu {
			mu[j] /= float64(full)
		}
	}

	return mu
}

// softImpute: Z ← S_λ(P_Ω(Y) + P_Ω⊥(Z)) with singular values soft-thresholded
// by λ and truncated to MaxRank (Mazumder, Hastie & Tibshirani, 2010).
func softImpute(vals *mat.Dense, obs []bool, opts CompletionOptions, comp *Completion) (*mat.Dense, error) {
	n, p := vals.Dims()
	Z := mat.NewDense(n, p, nil)
	next := mat.NewDense(n, p, nil)
	for it := 1; it <= opts.MaxIters; it++ {
		rank, err := softSweep(vals, obs, Z, next, opts.Lambda, opts.MaxRank)
		if err != nil {
			return nil, err
		}
		var diff mat.Dense
		diff.Sub(next, Z)
		change := mat.Norm(&diff, 2) / math.Max(mat.Norm(Z, 2), 1e-12)
		Z, next = next, Z
		comp.Rank, comp.Iterations = rank, it
		if change <= opts.Tol {
			comp.Converged = true
			break
		}
	}

	return Z, nil
}

// softSweep writes one soft-impute update of Z into next and returns the
// rank of the update.
func softSweep(vals *mat.Dense, obs []bool, Z, next *mat.Dense, lambda float64, maxRank int) (int, error) {
	n, p := vals.Dims()
	fill := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			if obs[i*p+j] {
				fill.Set(i, j, vals.At(i, j))
			} else {
				fill.Set(i, j, Z.At(i, j))
			}
		}
	}
	var svd mat.SVD
	if ok := svd.Factorize(fill, mat.SVDThin); !ok {
		return 0, fmt.Errorf("softImpute: %w", ErrFactorization)
	}
	s := svd.Values(nil)
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)

	next.Zero()
	rank := 0
	for k := 0; k < len(s) && k < maxRank; k++ {
		sk := s[k] - lambda
		if sk <= 0 {
			break
		}
		rank++
		for i := 0; i < n; i++ {
			ui := U.At(i, k) * sk
			for j := 0; j < p; j++ {
				next.Set(i, j, next.At(i, j)+ui*V.At(j, k))
			}
		}
	}

	return rank, nil
}

// als fits Z = A Bᵀ of rank MaxRank by alternating ridge regressions on the
// observed cells, minimizing Σ_Ω (y − a_iᵀb_j)² + λ(‖A‖² + ‖B‖²).
func als(vals *mat.Dense, obs []bool, opts CompletionOptions, comp *Completion) (*mat.Dense, error) {
	n, p := vals.Dims()
	r := min(opts.MaxRank, n, p)
	A := mat.NewDense(n, r, nil)
	B := mat.NewDense(p, r, nil)
	draw := distuv.Normal{Mu: 0, Sigma: 0.1, Src: rand.NewPCG(opts.Seed, 1)}
	for j := 0; j < p; j++ {
		for k := 0; k < r; k++ {
			B.Set(j, k, draw.Rand())
		}
	}

	ridge := math.Max(opts.Lambda, 1e-9)
	prev := math.Inf(1)
	for it := 1; it <= opts.MaxIters; it++ {
		if err := alsHalf(A, B, vals, obs, ridge, false); err != nil {
			return nil, err
		}
		if err := alsHalf(B, A, vals, obs, ridge, true); err != nil {
			return nil, err
		}
		loss := alsLoss(A, B, vals, obs, opts.Lambda)
		comp.Rank, comp.Iterations = r, it
		if math.Abs(prev-loss) <= opts.Tol*math.Max(loss, 1e-12) {
			comp.Converged = true
			break
		}
		prev = loss
	}

	var Z mat.Dense
	Z.Mul(A, B.T())

	return &Z, nil
}

// alsHalf solves for every row of dst with other fixed. With byCol false dst
// holds row factors (one per unit); otherwise column factors.
func alsHalf(dst, other, vals *mat.Dense, obs []bool, ridge float64, byCol bool) error {
	n, p := vals.Dims()
	m, r := dst.Dims()
	gram := mat.NewDense(r, r, nil)
	rhs := mat.NewVecDense(r, nil)
	sol := mat.NewVecDense(r, nil)
	for a := 0; a < m; a++ {
		gram.Zero()
		rhs.Zero()
		var seen int
		span := p
		if byCol {
			span = n
		}
		for b := 0; b < span; b++ {
			i, j := a, b
			if byCol {
				i, j = b, a
			}
			if !obs[i*p+j] {
				continue
			}
			seen++
			y := vals.At(i, j)
			for k := 0; k < r; k++ {
				ob := other.At(b, k)
				rhs.SetVec(k, rhs.AtVec(k)+ob*y)
				for l := 0; l < r; l++ {
					gram.Set(k, l, gram.At(k, l)+ob*other.At(b, l))
				}
			}
		}
		if seen == 0 {
			for k := 0; k < r; k++ {
				dst.Set(a, k, 0)
			}
			continue
		}
		for k := 0; k < r; k++ {
			gram.Set(k, k, gram.At(k, k)+ridge)
		}
		if err := sol.SolveVec(gram, rhs); err != nil {
			return fmt.Errorf("als: %w: %v", ErrFactorization, err)
		}
		for k := 0; k < r; k++ {
			dst.Set(a, k, sol.AtVec(k))
		}
	}

	return nil
}

func alsLoss(A, B, vals *mat.Dense, obs []bool, lambda float64) float64 {
	n, p := vals.Dims()
	var loss float64
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			if obs[i*p+j] {
				d := vals.At(i, j) - mat.Dot(A.RowView(i), B.RowView(j))
				loss += d * d
			}
		}
	}

	return loss + lambda*(sqFrob(A)+sqFrob(B))
}

func sqFrob(m mat.Matrix) float64 {
	f := mat.Norm(m, 2)

	return f * f
}

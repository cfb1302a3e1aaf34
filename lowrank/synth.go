package lowrank

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/synthbal/matrix"
)

// SynthOptions bounds the simplex fit.
type SynthOptions struct {
	MaxIters int
	Tol      float64 // stop when ‖w_{k+1} − w_k‖₂ ≤ Tol
}

// DefaultSynthOptions returns 5000 iterations and a 1e-10 step tolerance.
func DefaultSynthOptions() SynthOptions {
	return SynthOptions{MaxIters: 5000, Tol: 1e-10}
}

// SynthResult is a simplex-constrained fit of a treated trajectory.
//   - Objective: ‖x_T − Σ w_i x_i‖².
//   - Uniform: the same distance under equal weights.
//   - Scaled: Objective / Uniform (0 when Uniform is 0).
type SynthResult struct {
	Weights    []float64
	Objective  float64
	Uniform    float64
	Scaled     float64
	Iterations int
	Converged  bool
}

// Synth fits the mean treated row of X against its control rows.
func Synth(X matrix.Matrix, trt []bool, opts SynthOptions) (*SynthResult, error) {
	if err := matrix.ValidateNotNil(X); err != nil {
		return nil, err
	}
	if len(trt) != X.Rows() {
		return nil, fmt.Errorf("Synth: len(trt)=%d, rows=%d: %w", len(trt), X.Rows(), matrix.ErrDimensionMismatch)
	}
	var tIdx, cIdx []int
	for i, t := range trt {
		if t {
			tIdx = append(tIdx, i)
		} else {
			cIdx = append(cIdx, i)
		}
	}
	if len(tIdx) == 0 {
		return nil, ErrNoTreated
	}
	if len(cIdx) == 0 {
		return nil, ErrNoControls
	}
	target, err := meanRows(X, tIdx)
	if err != nil {
		return nil, err
	}
	ctrl, err := pickRows(X, cIdx)
	if err != nil {
		return nil, err
	}

	return SynthFit(target, ctrl, opts)
}

// SynthFit finds w on the simplex minimizing ‖target − Cᵀw‖² where the rows of
// controls are C. Accelerated projected gradient with step 1/L,
// L = 2σ_max(C)².
func SynthFit(target []float64, controls matrix.Matrix, opts SynthOptions) (*SynthResult, error) {
	if opts.MaxIters < 1 || !(opts.Tol >= 0) {
		return nil, ErrBadOptions
	}
	if err := matrix.ValidateFinite(controls); err != nil {
		return nil, err
	}
	if err := matrix.ValidateVecLen(target, controls.Cols()); err != nil {
		return nil, err
	}
	C, err := matrix.ToGonum(controls)
	if err != nil {
		return nil, err
	}
	n, _ := C.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(C, mat.SVDNone); !ok {
		return nil, fmt.Errorf("SynthFit: %w", ErrFactorization)
	}
	smax := svd.Values(nil)[0]

	uniform := make([]float64, n)
	for i := range uniform {
		uniform[i] = 1 / float64(n)
	}
	res := &SynthResult{Uniform: sqDistance(C, uniform, target)}
	if smax == 0 {
		res.Weights, res.Objective, res.Converged = uniform, res.Uniform, true
		res.Scaled = scaled(res.Objective, res.Uniform)

		return res, nil
	}
	step := 1 / (2 * smax * smax)

	w := append([]float64(nil), uniform...)
	y := append([]float64(nil), uniform...)
	next := make([]float64, n)
	grad := make([]float64, n)
	tk := 1.0
	for k := 1; k <= opts.MaxIters; k++ {
		gradient(grad, C, y, target)
		floats.AddScaledTo(next, y, -step, grad)
		projectSimplex(next)

		tNext := (1 + math.Sqrt(1+4*tk*tk)) / 2
		moved := floats.Distance(next, w, 2)
		for i := range y {
			y[i] = next[i] + (tk-1)/tNext*(next[i]-w[i])
		}
		w, next = next, w
		tk = tNext
		res.Iterations = k
		if moved <= opts.Tol {
			res.Converged = true
			break
		}
	}
	res.Weights = w
	res.Objective = sqDistance(C, w, target)
	res.Scaled = scaled(res.Objective, res.Uniform)

	return res, nil
}

// gradient writes 2C(Cᵀw − target) into dst.
func gradient(dst []float64, C *mat.Dense, w, target []float64) {
	resid := fitted(C, w)
	floats.Sub(resid, target)
	r := mat.NewVecDense(len(resid), resid)
	out := mat.NewVecDense(len(dst), dst)
	out.MulVec(C, r)
	floats.Scale(2, dst)
}

// fitted returns Cᵀw.
func fitted(C *mat.Dense, w []float64) []float64 {
	_, p := C.Dims()
	out := mat.NewVecDense(p, nil)
	out.MulVec(C.T(), mat.NewVecDense(len(w), w))

	return out.RawVector().Data
}

func sqDistance(C *mat.Dense, w, target []float64) float64 {
	d := floats.Distance(fitted(C, w), target, 2)

	return d * d
}

func scaled(obj, uniform float64) float64 {
	if uniform == 0 {
		return 0
	}

	return obj / uniform
}

// projectSimplex replaces v with its Euclidean projection onto
// {w ≥ 0, Σw = 1}.
func projectSimplex(v []float64) {
	u := append([]float64(nil), v...)
	sort.Sort(sort.Reverse(sort.Float64Slice(u)))
	var cum, tau float64
	for j, x := range u {
		cum += x
		t := (cum - 1) / float64(j+1)
		if x-t > 0 {
			tau = t
		}
	}
	for i, x := range v {
		v[i] = math.Max(x-tau, 0)
	}
}

func meanRows(X matrix.Matrix, idx []int) ([]float64, error) {
	out := make([]float64, X.Cols())
	for _, i := range idx {
		for j := range out {
			v, err := X.At(i, j)
			if err != nil {
				return nil, err
			}
			out[j] += v
		}
	}
	floats.Scale(1/float64(len(idx)), out)

	return out, nil
}

func pickRows(X matrix.Matrix, idx []int) (*matrix.Dense, error) {
	if d, ok := X.(*matrix.Dense); ok {
		return d.SelectRows(idx)
	}
	out, err := matrix.NewDense(len(idx), X.Cols())
	if err != nil {
		return nil, err
	}
	for k, i := range idx {
		for j := 0; j < X.Cols(); j++ {
			v, err := X.At(i, j)
			if err != nil {
				return nil, err
			}
			_ = out.Set(k, j, v)
		}
	}

	return out, nil
}

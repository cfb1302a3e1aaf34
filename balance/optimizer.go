// SPDX-License-Identifier: MIT

// Package balance - Optimizer: validation, solve dispatch and result assembly.
//
// Implementation:
//   - Stage 1: Validate shapes (X, trt, Outcomes, Eps) and finiteness.
//   - Stage 2: Split rows into controls and the treated mean x̄_T.
//   - Stage 3: Minimize the dual with the configured solver.
//   - Stage 4: Map multipliers to weights via the link, clip, normalize.
//   - Stage 5: Measure imbalance, decide feasibility, impute outcomes.
//
// AI-Hints:
//   - Reuse one Optimizer across a search: construction validates options once.
//   - Infeasibility is Result.Feasible=false; errors are for malformed input only.

package balance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/synthbal/matrix"
)

const (
	opSolve       = "Solve"
	opReconstruct = "Reconstruct"
	opNew         = "NewOptimizer"
)

// Problem is one balancing instance.
//   - X: design matrix, rows = units, columns = constraints (pre-periods or ranks).
//   - Treated: treatment indicator aligned to the rows of X.
//   - Outcomes: optional matrix with the same rows; Result.Imputed = wᵀY_controls.
type Problem struct {
	X        matrix.Matrix
	Treated  []bool
	Outcomes matrix.Matrix
}

// Optimizer solves balancing problems for a fixed link, regularizer and
// solver. It holds only immutable configuration and is safe for concurrent use.
type Optimizer struct {
	opts Options
	link Link
	reg  Regularizer
}

// NewOptimizer validates opts and selects the link, regularizer and solver.
//
// Errors:
//   - ErrBadOptions, ErrNegativeTolerance for invalid settings.
//   - ErrUnknownLink, ErrUnknownRegularizer for unsupported kinds.
//   - ErrSolverRegularizer when LBFGS meets a non-smooth regularizer.
func NewOptimizer(opts Options) (*Optimizer, error) {
	if err := opts.validate(); err != nil {
		return nil, balanceErrorf(opNew, err)
	}
	link, err := NewLink(opts.Link)
	if err != nil {
		return nil, balanceErrorf(opNew, err)
	}
	if len(opts.Eps) > 0 && opts.Regularizer != RegL1 {
		return nil, balanceErrorf(opNew, fmt.Errorf("tolerance vector with %s: %w", opts.Regularizer, ErrBadOptions))
	}
	reg, err := NewRegularizer(opts.Regularizer, opts.Lambda, opts.Eps)
	if err != nil {
		return nil, balanceErrorf(opNew, err)
	}
	switch opts.Solver {
	case SolverAPG:
	case SolverLBFGS:
		if !reg.Smooth() {
			return nil, balanceErrorf(opNew, fmt.Errorf("%s with %s: %w", opts.Solver, opts.Regularizer, ErrSolverRegularizer))
		}
	default:
		return nil, balanceErrorf(opNew, fmt.Errorf("solver %d: %w", int(opts.Solver), ErrBadOptions))
	}
	opts.Eps = append([]float64(nil), opts.Eps...)

	return &Optimizer{opts: opts, link: link, reg: reg}, nil
}

// Options returns a copy of the configuration.
func (o *Optimizer) Options() Options {
	out := o.opts
	out.Eps = append([]float64(nil), o.opts.Eps...)

	return out
}

// Link returns the configured link.
func (o *Optimizer) Link() Link { return o.link }

// Fit is the one-shot form of NewOptimizer(opts).Solve(Problem{X, trt}).
func Fit(X matrix.Matrix, trt []bool, opts Options) (*Result, error) {
	opt, err := NewOptimizer(opts)
	if err != nil {
		return nil, err
	}

	return opt.Solve(Problem{X: X, Treated: trt})
}

// Solve computes balancing weights for pr.
//
// Errors:
//   - *DimensionError (errors.Is matrix.ErrDimensionMismatch) for misaligned inputs.
//   - ErrNoTreated, ErrNoControls for a degenerate indicator.
//   - matrix.ErrNaNInf for non-finite design entries.
//
// Complexity: O(iters · n · p).
func (o *Optimizer) Solve(pr Problem) (*Result, error) {
	if err := matrix.ValidateNotNil(pr.X); err != nil {
		return nil, balanceErrorf(opSolve, err)
	}
	n, p := pr.X.Rows(), pr.X.Cols()
	if len(pr.Treated) != n {
		return nil, &DimensionError{Op: opSolve, What: "len(trt)", Want: n, Got: len(pr.Treated)}
	}
	if len(o.opts.Eps) > 0 && len(o.opts.Eps) != p {
		return nil, &DimensionError{Op: opSolve, What: "len(Eps)", Want: p, Got: len(o.opts.Eps)}
	}
	if pr.Outcomes != nil {
		if err := matrix.ValidateNotNil(pr.Outcomes); err != nil {
			return nil, balanceErrorf(opSolve, err)
		}
		if pr.Outcomes.Rows() != n {
			return nil, &DimensionError{Op: opSolve, What: "Outcomes rows", Want: n, Got: pr.Outcomes.Rows()}
		}
	}
	if err := matrix.ValidateFinite(pr.X); err != nil {
		return nil, balanceErrorf(opSolve, err)
	}

	rows, err := rowsOf(pr.X)
	if err != nil {
		return nil, balanceErrorf(opSolve, err)
	}
	var ctrlIdx []int
	var treated [][]float64
	for i, t := range pr.Treated {
		if t {
			treated = append(treated, rows[i])
		} else {
			ctrlIdx = append(ctrlIdx, i)
		}
	}
	if len(treated) == 0 {
		return nil, ErrNoTreated
	}
	if len(ctrlIdx) == 0 {
		return nil, ErrNoControls
	}
	ctrl := make([][]float64, len(ctrlIdx))
	for k, i := range ctrlIdx {
		ctrl[k] = rows[i]
	}
	target := meanOf(treated, p)

	d := newDual(ctrl, target, o.link, o.opts.Normalized)
	var (
		v     []float64
		stats solveStats
	)
	if o.opts.Solver == SolverLBFGS {
		v, stats = solveLBFGS(d, o.reg, o.opts.Opts)
	} else {
		v, stats = solveAPG(d, o.reg, o.opts.Opts)
	}

	raw, intercept := d.weights(v)
	w, ok := o.report(raw)

	imb := make([]float64, p)
	floats.ScaleTo(imb, -1, target)
	for k, x := range ctrl {
		floats.AddScaled(imb, w[k], x)
	}
	slack := o.opts.FeasTol * (1 + floats.Norm(target, math.Inf(1)))

	var obj float64
	for _, wi := range w {
		obj += o.link.Divergence(wi)
	}

	res := &Result{
		Weights:       w,
		ControlRows:   ctrlIdx,
		Dual:          append([]float64(nil), v[:p]...),
		Intercept:     intercept,
		Target:        target,
		Objective:     obj,
		DualObjective: d.eval(v, nil) + o.reg.Penalty(v[:p]),
		Imbalance:     imb,
		L1:            floats.Norm(imb, 1),
		L2:            floats.Norm(imb, 2),
		Linf:          floats.Norm(imb, math.Inf(1)),
		Converged:     stats.converged,
		Iterations:    stats.iters,
	}
	res.Feasible = res.Converged && ok && o.reg.Satisfied(imb, slack)

	if pr.Outcomes != nil {
		Y, err := rowsOf(pr.Outcomes)
		if err != nil {
			return nil, balanceErrorf(opSolve, err)
		}
		res.Imputed = make([]float64, pr.Outcomes.Cols())
		for k, i := range ctrlIdx {
			floats.AddScaled(res.Imputed, w[k], Y[i])
		}
	}

	return res, nil
}

// report clips raw weights with the link and normalizes them when required.
// ok is false when normalization is impossible (all weights clipped to 0);
// the weights then fall back to uniform.
func (o *Optimizer) report(raw []float64) ([]float64, bool) {
	w := make([]float64, len(raw))
	for i, r := range raw {
		w[i] = o.link.Report(r)
	}
	if !o.opts.Normalized {
		return w, true
	}
	s := floats.Sum(w)
	if !(s > 0) || math.IsInf(s, 0) {
		for i := range w {
			w[i] = 1 / float64(len(w))
		}

		return w, false
	}
	floats.Scale(1/s, w)

	return w, true
}

// Reconstruct maps multipliers (dual, intercept) to weights on the rows of X
// using the configured link: w_i = Report(ψ'(intercept + θᵀx_i)), normalized
// over the given rows when the optimizer is normalized. Normalized logit uses
// the softmax form, which does not depend on the intercept.
//
// Errors:
//   - *DimensionError when len(dual) != X.Cols().
func (o *Optimizer) Reconstruct(dual []float64, intercept float64, X matrix.Matrix) ([]float64, error) {
	if err := matrix.ValidateNotNil(X); err != nil {
		return nil, balanceErrorf(opReconstruct, err)
	}
	if len(dual) != X.Cols() {
		return nil, &DimensionError{Op: opReconstruct, What: "len(dual)", Want: X.Cols(), Got: len(dual)}
	}
	rows, err := rowsOf(X)
	if err != nil {
		return nil, balanceErrorf(opReconstruct, err)
	}
	u := make([]float64, len(rows))
	for i, x := range rows {
		u[i] = intercept + floats.Dot(dual, x)
	}
	raw := make([]float64, len(rows))
	if o.opts.Normalized && o.link.Kind() == LinkLogit && len(u) > 0 {
		m := floats.Max(u)
		for i, ui := range u {
			raw[i] = math.Exp(ui - m)
		}
	} else {
		for i, ui := range u {
			raw[i] = o.link.Weight(ui)
		}
	}
	w, _ := o.report(raw)

	return w, nil
}

// TreatedMean returns x̄_T, the mean of the rows of X flagged in trt.
func TreatedMean(X matrix.Matrix, trt []bool) ([]float64, error) {
	if err := matrix.ValidateNotNil(X); err != nil {
		return nil, err
	}
	if len(trt) != X.Rows() {
		return nil, &DimensionError{Op: "TreatedMean", What: "len(trt)", Want: X.Rows(), Got: len(trt)}
	}
	rows, err := rowsOf(X)
	if err != nil {
		return nil, err
	}
	var sel [][]float64
	for i, t := range trt {
		if t {
			sel = append(sel, rows[i])
		}
	}
	if len(sel) == 0 {
		return nil, ErrNoTreated
	}

	return meanOf(sel, X.Cols()), nil
}

func meanOf(rows [][]float64, p int) []float64 {
	m := make([]float64, p)
	for _, r := range rows {
		floats.Add(m, r)
	}
	floats.Scale(1/float64(len(rows)), m)

	return m
}

// rowsOf returns row slices; *matrix.Dense takes the fast copy path.
func rowsOf(m matrix.Matrix) ([][]float64, error) {
	if d, ok := m.(*matrix.Dense); ok {
		return d.ToRows(), nil
	}
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = make([]float64, m.Cols())
		for j := range out[i] {
			v, err := m.At(i, j)
			if err != nil {
				return nil, err
			}
			out[i][j] = v
		}
	}

	return out, nil
}

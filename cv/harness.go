package cv

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/synthbal/balance"
	"github.com/katalvlaran/synthbal/matrix"
)

// design is the validated input shared by every harness.
type design struct {
	X        *matrix.Dense
	treated  []int
	controls []int
	opts     []*balance.Optimizer // one per grid point
}

func newDesign(X *matrix.Dense, trt []bool, grid []float64, base balance.Options) (*design, error) {
	if err := matrix.ValidateNotNil(X); err != nil {
		return nil, err
	}
	if len(trt) != X.Rows() {
		return nil, &balance.DimensionError{Op: "cv", What: "len(trt)", Want: X.Rows(), Got: len(trt)}
	}
	if len(grid) == 0 {
		return nil, ErrEmptyGrid
	}
	d := &design{X: X}
	for i, t := range trt {
		if t {
			d.treated = append(d.treated, i)
		} else {
			d.controls = append(d.controls, i)
		}
	}
	if len(d.treated) == 0 {
		return nil, balance.ErrNoTreated
	}
	d.opts = make([]*balance.Optimizer, len(grid))
	for h, hyper := range grid {
		opt, err := balance.NewOptimizer(base.WithTolerance(hyper))
		if err != nil {
			return nil, fmt.Errorf("grid[%d]=%g: %w", h, hyper, err)
		}
		d.opts[h] = opt
	}

	return d, nil
}

// sqImbalance returns ‖Σ w_i x_i − target‖² / p over the given rows.
func sqImbalance(rows *matrix.Dense, w, target []float64) (float64, error) {
	m, err := matrix.VecMat(w, rows)
	if err != nil {
		return 0, err
	}
	floats.Sub(m, target)

	return floats.Dot(m, m) / float64(len(m)), nil
}

func flagsFirst(n, treated int) []bool {
	f := make([]bool, n)
	for i := 0; i < treated; i++ {
		f[i] = true
	}

	return f
}

// LeaveOneOut scores each hyperparameter by pseudo-treating every control in
// turn: it is balanced against the other controls on all pre-periods but the
// last, and the squared error of the weighted prediction of the last period
// is averaged over controls. The real treated units are not used.
func LeaveOneOut(ctx context.Context, X *matrix.Dense, trt []bool, grid []float64, base balance.Options, opts Options) (*Report, error) {
	d, err := newDesign(X, trt, grid, base)
	if err != nil {
		return nil, err
	}
	nc, p := len(d.controls), X.Cols()
	if nc < 2 {
		return nil, ErrTooFewControls
	}
	if p < 2 {
		return nil, ErrTooFewPeriods
	}
	keep := make([]int, p-1)
	for j := range keep {
		keep[j] = j
	}
	train, err := X.SelectCols(keep)
	if err != nil {
		return nil, err
	}
	held, err := X.Col(p - 1)
	if err != nil {
		return nil, err
	}

	tasks, err := ParallelMap(ctx, len(grid)*nc, opts.Workers, func(_ context.Context, idx int) (task, error) {
		h, k := idx/nc, idx%nc
		rows := make([]int, 0, nc)
		rows = append(rows, d.controls[k])
		for m, c := range d.controls {
			if m != k {
				rows = append(rows, c)
			}
		}
		sub, err := train.SelectRows(rows)
		if err != nil {
			return task{}, err
		}
		res, err := d.opts[h].Solve(balance.Problem{X: sub, Treated: flagsFirst(len(rows), 1)})
		if err != nil {
			return task{}, err
		}
		var pred float64
		for m, ri := range res.ControlRows {
			pred += res.Weights[m] * held[rows[ri]]
		}
		e := held[rows[0]] - pred

		return task{err: e * e, feasible: res.Feasible}, nil
	})
	if err != nil {
		return nil, err
	}

	return finish(opts, aggregate(MethodLOO, grid, nc, tasks)), nil
}

// KFold shuffles controls into K folds (stream index 0 of Seed). For each
// fold, weights are fitted on the treated units plus the other folds, carried
// to the held-out controls with Optimizer.Reconstruct, and scored by the mean
// squared imbalance against the treated mean.
func KFold(ctx context.Context, X *matrix.Dense, trt []bool, grid []float64, base balance.Options, opts Options) (*Report, error) {
	d, err := newDesign(X, trt, grid, base)
	if err != nil {
		return nil, err
	}
	nc, K := len(d.controls), opts.K
	if K < 2 {
		return nil, fmt.Errorf("K=%d: %w", K, ErrBadOptions)
	}
	if nc < K {
		return nil, fmt.Errorf("%d controls for K=%d: %w", nc, K, ErrTooFewControls)
	}
	folds := make([][]int, K)
	for pos, k := range Stream(opts.Seed, 0).Perm(nc) {
		folds[pos%K] = append(folds[pos%K], d.controls[k])
	}

	tasks, err := ParallelMap(ctx, len(grid)*K, opts.Workers, func(_ context.Context, idx int) (task, error) {
		h, f := idx/K, idx%K
		rows := append([]int(nil), d.treated...)
		for g, fold := range folds {
			if g != f {
				rows = append(rows, fold...)
			}
		}
		sub, err := X.SelectRows(rows)
		if err != nil {
			return task{}, err
		}
		opt := d.opts[h]
		res, err := opt.Solve(balance.Problem{X: sub, Treated: flagsFirst(len(rows), len(d.treated))})
		if err != nil {
			return task{}, err
		}
		heldRows, err := X.SelectRows(folds[f])
		if err != nil {
			return task{}, err
		}
		w, err := opt.Reconstruct(res.Dual, res.Intercept, heldRows)
		if err != nil {
			return task{}, err
		}
		e, err := sqImbalance(heldRows, w, res.Target)
		if err != nil {
			return task{}, err
		}

		return task{err: e, feasible: res.Feasible}, nil
	})
	if err != nil {
		return nil, err
	}

	return finish(opts, aggregate(MethodKFold, grid, K, tasks)), nil
}

// Bootstrap fits every hyperparameter once on the full design, then scores
// B resamples of the control rows (drawn with replacement, resample b from
// stream b+1 of Seed and shared across the grid) by the mean squared
// imbalance of the reconstructed weights.
func Bootstrap(ctx context.Context, X *matrix.Dense, trt []bool, grid []float64, base balance.Options, opts Options) (*Report, error) {
	d, err := newDesign(X, trt, grid, base)
	if err != nil {
		return nil, err
	}
	if opts.B < 1 {
		return nil, fmt.Errorf("B=%d: %w", opts.B, ErrBadOptions)
	}
	nc := len(d.controls)
	if nc < 1 {
		return nil, ErrTooFewControls
	}

	fits, err := ParallelMap(ctx, len(grid), opts.Workers, func(_ context.Context, h int) (*balance.Result, error) {
		return d.opts[h].Solve(balance.Problem{X: X, Treated: trt})
	})
	if err != nil {
		return nil, err
	}

	samples := make([]*matrix.Dense, opts.B)
	for b := range samples {
		r := Stream(opts.Seed, b+1)
		idx := make([]int, nc)
		for i := range idx {
			idx[i] = d.controls[r.IntN(nc)]
		}
		if samples[b], err = X.SelectRows(idx); err != nil {
			return nil, err
		}
	}

	tasks, err := ParallelMap(ctx, len(grid)*opts.B, opts.Workers, func(_ context.Context, idx int) (task, error) {
		h, b := idx/opts.B, idx%opts.B
		res := fits[h]
		w, err := d.opts[h].Reconstruct(res.Dual, res.Intercept, samples[b])
		if err != nil {
			return task{}, err
		}
		e, err := sqImbalance(samples[b], w, res.Target)
		if err != nil {
			return task{}, err
		}

		return task{err: e, feasible: res.Feasible}, nil
	})
	if err != nil {
		return nil, err
	}

	return finish(opts, aggregate(MethodBootstrap, grid, opts.B, tasks)), nil
}

// Run dispatches to the harness named by m.
func Run(ctx context.Context, m Method, X *matrix.Dense, trt []bool, grid []float64, base balance.Options, opts Options) (*Report, error) {
	switch m {
	case MethodLOO:
		return LeaveOneOut(ctx, X, trt, grid, base, opts)
	case MethodKFold:
		return KFold(ctx, X, trt, grid, base, opts)
	case MethodBootstrap:
		return Bootstrap(ctx, X, trt, grid, base, opts)
	}

	return nil, fmt.Errorf("method %q: %w", m, ErrBadOptions)
}

func finish(opts Options, rep *Report) *Report {
	log := opts.logger()
	for _, s := range rep.Scores {
		log.Debug("cv score", "method", rep.Method, "hyper", s.Hyper, "mse", s.MSE, "feasible", s.Feasible, "fits", s.Fits)
	}
	log.Info("cv selected", "method", rep.Method, "hyper", rep.BestHyper, "mse", rep.Scores[rep.Best].MSE)

	return rep
}

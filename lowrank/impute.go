package lowrank

import (
	"fmt"
	"math"

	"github.com/katalvlaran/synthbal/matrix"
)

// Imputation is the control-state path of the treated units.
//   - Counterfactual: fitted rows of the treated units over every period.
//   - Synthetic: the mean of Counterfactual rows, one value per period.
type Imputation struct {
	Completion     *Completion
	Counterfactual *matrix.Dense
	Synthetic      []float64
}

// ImputeTreated masks the cells of treated rows at columns ≥ postStart and
// completes Y. postStart must leave at least one pre and one post column.
func ImputeTreated(Y matrix.Matrix, trt []bool, postStart int, opts CompletionOptions) (*Imputation, error) {
	if err := matrix.ValidateFinite(Y); err != nil {
		return nil, err
	}
	n, p := Y.Rows(), Y.Cols()
	if len(trt) != n {
		return nil, fmt.Errorf("ImputeTreated: len(trt)=%d, rows=%d: %w", len(trt), n, matrix.ErrDimensionMismatch)
	}
	if postStart < 1 || postStart >= p {
		return nil, fmt.Errorf("ImputeTreated: postStart=%d of %d: %w", postStart, p, matrix.ErrOutOfRange)
	}

	masked, err := matrix.NewDenseWith(n, p, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, err
	}
	var tIdx []int
	for i := 0; i < n; i++ {
		if trt[i] {
			tIdx = append(tIdx, i)
		}
		for j := 0; j < p; j++ {
			v, _ := Y.At(i, j)
			if trt[i] && j >= postStart {
				v = math.NaN()
			}
			_ = masked.Set(i, j, v)
		}
	}
	if len(tIdx) == 0 {
		return nil, ErrNoTreated
	}
	if len(tIdx) == n {
		return nil, ErrNoControls
	}

	comp, err := Complete(masked, opts)
	if err != nil {
		return nil, err
	}
	cf, err := comp.Fitted.SelectRows(tIdx)
	if err != nil {
		return nil, err
	}
	syn, err := matrix.ColMeans(cf)
	if err != nil {
		return nil, err
	}

	return &Imputation{Completion: comp, Counterfactual: cf, Synthetic: syn}, nil
}

package cv

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Score aggregates the held-out errors of one hyperparameter.
//   - MSE: mean of the per-task squared errors.
//   - Feasible: how many of the underlying fits were feasible.
type Score struct {
	Hyper    float64 `json:"hyper"`
	MSE      float64 `json:"mse"`
	Feasible int     `json:"feasible"`
	Fits     int     `json:"fits"`
}

// Report is the result of one harness run.
type Report struct {
	Method    Method  `json:"method"`
	Scores    []Score `json:"scores"`
	Best      int     `json:"best"`
	BestHyper float64 `json:"best_hyper"`
}

// Argmin returns the index of the smallest MSE; ties go to the first
// occurrence and NaN never wins. It returns -1 for an empty slice.
func Argmin(scores []Score) int {
	best := -1
	bestVal := math.Inf(1)
	for i, s := range scores {
		v := s.MSE
		if math.IsNaN(v) {
			v = math.Inf(1)
		}
		if best < 0 || v < bestVal {
			best, bestVal = i, v
		}
	}

	return best
}

// task is one solve's contribution to a Score.
type task struct {
	err      float64
	feasible bool
}

// aggregate folds per-task results (grid-major: len(grid)·per) into Scores.
func aggregate(method Method, grid []float64, per int, tasks []task) *Report {
	scores := make([]Score, len(grid))
	errs := make([]float64, per)
	for h, hyper := range grid {
		s := Score{Hyper: hyper, Fits: per}
		for k := 0; k < per; k++ {
			t := tasks[h*per+k]
			errs[k] = t.err
			if t.feasible {
				s.Feasible++
			}
		}
		s.MSE = stat.Mean(errs, nil)
		scores[h] = s
	}
	best := Argmin(scores)

	return &Report{Method: method, Scores: scores, Best: best, BestHyper: grid[best]}
}

// SPDX-License-Identifier: MIT

package balance

import "gonum.org/v1/gonum/floats"

// Result is the outcome of one balancing solve. It is created once and never
// mutated; slices are owned by the Result.
//
// Fields:
//   - Weights: one weight per control row, in ControlRows order; nonnegative,
//     summing to 1 when the problem is normalized.
//   - ControlRows: indices of the control rows in the design matrix.
//   - Dual, Intercept: multipliers θ (length p) and α; feed Reconstruct.
//   - Target: treated mean x̄_T the weights were balanced against.
//   - Objective: primal divergence Σ f(w_i) of the reported weights.
//   - DualObjective: final dual value g + h.
//   - Imbalance: Σ w_i x_i − x̄_T; L1, L2, Linf are its norms.
//   - Converged, Iterations: solver diagnostics.
//   - Feasible: Converged and the constraint holds within the slack.
//   - Imputed: Σ w_i Y_i over the outcome matrix, when one was supplied.
type Result struct {
	Weights       []float64
	ControlRows   []int
	Dual          []float64
	Intercept     float64
	Target        []float64
	Objective     float64
	DualObjective float64
	Imbalance     []float64
	L1            float64
	L2            float64
	Linf          float64
	Feasible      bool
	Converged     bool
	Iterations    int
	Imputed       []float64
}

// EffectiveN returns the Kish effective number of controls (Σw)²/Σw².
// Zero weights give 0.
func (r *Result) EffectiveN() float64 {
	s := floats.Sum(r.Weights)
	q := floats.Dot(r.Weights, r.Weights)
	if q == 0 {
		return 0
	}

	return s * s / q
}

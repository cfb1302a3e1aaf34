// SPDX-License-Identifier: MIT

// Package balance computes balancing weights for synthetic controls by
// solving the dual of a constrained convex program.
//
// 🚀 What does it solve?
//
//	Given a design matrix X (units × pre-periods) and a treatment indicator,
//	find nonnegative control weights w minimizing a divergence Σ f(w_i)
//	subject to the weighted control moments matching the treated moments:
//
//	  min_w Σ_i f(w_i)   s.t.   ‖Σ_i w_i x_i − x̄_T‖ ≤ ε   [, Σ_i w_i = 1]
//
//	The dual is a smooth loss of the multipliers θ plus a norm penalty:
//
//	  min_θ Σ_i ψ(α + θᵀx_i) − α − θᵀx̄_T + h(θ),   w_i = ψ'(α + θᵀx_i)
//
// ✨ Building blocks (each selected once, at NewOptimizer):
//   - Link: Logit (entropy, w = exp u), Linear (w = u, reported clipped at 0),
//     PosLinear (w = max(0, u)).
//   - Regularizer: L1 (elementwise tolerances, |imbalance_j| ≤ ε_j),
//     L2 (‖imbalance‖₂ ≤ λ), Linf (‖imbalance‖₁ ≤ λ), Ridge (penalized
//     imbalance), None (exact balance).
//   - Solver: APG (accelerated proximal gradient, any regularizer) or LBFGS
//     (gonum/optimize, smooth regularizers only).
//
// ⚙️ Usage:
//
//	opts := balance.DefaultOptions()
//	opts.Lambda = 0.1
//	res, err := balance.Fit(X, trt, opts)
//	if err != nil {
//	  // DimensionError and friends; infeasibility is res.Feasible == false
//	}
//
// Infeasible programs are not errors: the solver stops at Opts.MaxIters and
// reports Feasible=false with best-effort weights, so feasibility searches can
// branch on the flag. An Optimizer is immutable and safe for concurrent use.
package balance

// SPDX-License-Identifier: MIT

package balance

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

const (
	// lbfgsMemory is the number of curvature pairs kept by L-BFGS.
	lbfgsMemory = 15
	// lbfgsStallGrad accepts a line-search stall as convergence when the
	// final gradient is already this small.
	lbfgsStallGrad = 1e-6
)

// solveLBFGS minimizes g(v) + h(θ) for a smooth h with gonum's L-BFGS.
// A line-search failure is reported as non-convergence, not as an error:
// the caller turns it into Feasible=false like any other stalled solve.
func solveLBFGS(d *dual, reg Regularizer, o SolverOpts) ([]float64, solveStats) {
	p := d.p
	problem := optimize.Problem{
		Func: func(v []float64) float64 {
			return d.eval(v, nil) + reg.Penalty(v[:p])
		},
		Grad: func(grad, v []float64) {
			d.eval(v, grad)
			reg.AddGrad(grad[:p], v[:p])
		},
	}
	stop := o.Eps * (1 + floats.Norm(d.target, math.Inf(1)))
	settings := &optimize.Settings{
		MajorIterations:   o.MaxIters,
		GradientThreshold: stop,
		Converger: &optimize.FunctionConverge{
			Absolute:   o.Eps * o.Eps,
			Iterations: 50,
		},
	}

	x0 := make([]float64, d.dim())
	res, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{Store: lbfgsMemory})
	if res == nil {
		return x0, solveStats{}
	}
	converged := err == nil &&
		(res.Status == optimize.GradientThreshold || res.Status == optimize.FunctionConvergence)
	if !converged && res.Status != optimize.IterationLimit {
		g := make([]float64, len(res.X))
		problem.Grad(g, res.X)
		converged = floats.Norm(g, math.Inf(1)) <= math.Max(lbfgsStallGrad, stop)
	}

	return res.X, solveStats{iters: res.Stats.MajorIterations, converged: converged}
}

// SPDX-License-Identifier: MIT

package balance

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// APG tuning. The step is halved until the quadratic upper bound holds and
// grown by stepGrow after every accepted step.
const (
	apgInitStep     = 1.0
	apgStepGrow     = 1.1
	apgMaxBacktrack = 60
	apgBoundSlack   = 1e-12
)

// solveStats summarizes one solve.
type solveStats struct {
	iters     int
	converged bool
}

// solveAPG minimizes g(v) + h(θ) by accelerated proximal gradient (FISTA)
// with backtracking and function-value restart (O'Donoghue & Candès).
//
// Stage 1 (candidate): z = prox_{s·h}(y − s∇g(y)), halving s until
// g(z) ≤ g(y) + ∇g(y)ᵀ(z−y) + ‖z−y‖²/(2s).
// Stage 2 (restart):   if F(z) > F(x) drop the momentum and retry from x.
// Stage 3 (momentum):  y = z + ((t_k−1)/t_{k+1})(z − x).
// Stage 4 (stop):      ‖(y − z)/s‖ ≤ Eps·(1 + ‖x̄_T‖∞).
//
// The prox-gradient mapping (y − z)/s bounds the imbalance excess over the
// tolerance, so the stop rule is in the units of the data, not of θ.
//
// Complexity: O(MaxIters · n · p) per solve plus backtracking evaluations.
func solveAPG(d *dual, reg Regularizer, o SolverOpts) ([]float64, solveStats) {
	n, p := d.dim(), d.p
	x := make([]float64, n)
	y := make([]float64, n)
	z := make([]float64, n)
	gy := make([]float64, n)
	diff := make([]float64, n)

	prox := func(dst, v []float64, s float64) {
		reg.Prox(dst[:p], v[:p], s)
		if n > p {
			dst[p] = v[p]
		}
	}

	step := apgInitStep
	tk := 1.0
	stop := o.Eps * (1 + floats.Norm(d.target, math.Inf(1)))
	fx := d.eval(x, nil) + reg.Penalty(x[:p])

	for k := 1; k <= o.MaxIters; k++ {
		gyVal := d.eval(y, gy)

		var gz float64
		for bt := 0; bt < apgMaxBacktrack; bt++ {
			floats.AddScaledTo(z, y, -step, gy)
			prox(z, z, step)
			gz = d.eval(z, nil)
			floats.SubTo(diff, z, y)
			bound := gyVal + floats.Dot(gy, diff) + floats.Dot(diff, diff)/(2*step)
			if gz <= bound+apgBoundSlack*math.Max(1, math.Abs(gyVal)) {
				break
			}
			step /= 2
		}

		gmap := floats.Norm(diff, 2) / step
		fz := gz + reg.Penalty(z[:p])
		if fz > fx && tk > 1 {
			tk = 1
			copy(y, x)

			continue
		}

		tNext := (1 + math.Sqrt(1+4*tk*tk)) / 2
		beta := (tk - 1) / tNext
		for i := range y {
			y[i] = z[i] + beta*(z[i]-x[i])
		}
		x, z = z, x
		fx, tk = fz, tNext
		step *= apgStepGrow

		if gmap <= stop {
			return x, solveStats{iters: k, converged: true}
		}
		if math.IsNaN(fx) {
			return x, solveStats{iters: k}
		}
	}

	return x, solveStats{iters: o.MaxIters}
}

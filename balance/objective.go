// SPDX-License-Identifier: MIT

package balance

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// dual is the smooth part of the dual objective for one problem:
//
//	g(θ, α) = Σ_i ψ(α + θᵀx_i) − α·[norm] − θᵀx̄_T
//
// The optimization vector v is θ, followed by α when an explicit intercept
// is needed (normalized linear/pos-linear). Normalized logit profiles α out:
// min_α g = 1 + log Σ exp(θᵀx_i) − θᵀx̄_T, evaluated with the max shift.
type dual struct {
	rows   [][]float64 // control rows, length p each
	target []float64   // x̄_T
	link   Link
	lse    bool // normalized logit
	alpha  bool // explicit intercept in v[p]
	p      int
	u      []float64 // scratch, len(rows)
}

func newDual(rows [][]float64, target []float64, link Link, normalized bool) *dual {
	lse := normalized && link.Kind() == LinkLogit

	return &dual{
		rows:   rows,
		target: target,
		link:   link,
		lse:    lse,
		alpha:  normalized && !lse,
		p:      len(target),
		u:      make([]float64, len(rows)),
	}
}

// dim is the length of the optimization vector.
func (d *dual) dim() int {
	if d.alpha {
		return d.p + 1
	}

	return d.p
}

// intercept extracts α from v (0 when absent or profiled out).
func (d *dual) intercept(v []float64) float64 {
	if d.alpha {
		return v[d.p]
	}

	return 0
}

// scores fills d.u with α + θᵀx_i.
func (d *dual) scores(v []float64) {
	theta := v[:d.p]
	a := d.intercept(v)
	for i, x := range d.rows {
		d.u[i] = a + floats.Dot(theta, x)
	}
}

// eval returns g(v). When grad is non-nil it receives ∇g, whose θ-block is
// the imbalance Σ w_i x_i − x̄_T of the implied weights and whose α-block is
// Σ w_i − 1.
func (d *dual) eval(v, grad []float64) float64 {
	d.scores(v)
	theta := v[:d.p]
	val := -floats.Dot(theta, d.target)

	if d.lse {
		m := floats.Max(d.u)
		var s float64
		for _, ui := range d.u {
			s += math.Exp(ui - m)
		}
		val += 1 + m + math.Log(s)
		if grad != nil {
			d.gradFrom(grad, func(ui float64) float64 { return math.Exp(ui-m) / s })
		}

		return val
	}

	for _, ui := range d.u {
		val += d.link.Loss(ui)
	}
	if d.alpha {
		val -= v[d.p]
	}
	if grad != nil {
		d.gradFrom(grad, d.link.Weight)
	}

	return val
}

// gradFrom assembles ∇g from the weight map applied to the cached scores.
func (d *dual) gradFrom(grad []float64, weight func(float64) float64) {
	g := grad[:d.p]
	floats.ScaleTo(g, -1, d.target)
	var sum float64
	for i, x := range d.rows {
		w := weight(d.u[i])
		sum += w
		if w != 0 {
			floats.AddScaled(g, w, x)
		}
	}
	if d.alpha {
		grad[d.p] = sum - 1
	}
}

// weights returns the raw optimization weights ψ'(u_i) at v and the effective
// intercept. For profiled logit the intercept is −log Σ exp(θᵀx_i).
func (d *dual) weights(v []float64) ([]float64, float64) {
	d.scores(v)
	w := make([]float64, len(d.u))
	if d.lse {
		m := floats.Max(d.u)
		var s float64
		for i, ui := range d.u {
			w[i] = math.Exp(ui - m)
			s += w[i]
		}
		floats.Scale(1/s, w)

		return w, -(m + math.Log(s))
	}
	for i, ui := range d.u {
		w[i] = d.link.Weight(ui)
	}

	return w, d.intercept(v)
}

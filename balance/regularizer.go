// SPDX-License-Identifier: MIT

// Package balance - Regularizers: dual penalties h(θ) and their proximal maps.
//
// Each regularizer is the support function of a primal imbalance set, so the
// dual penalty and the primal constraint come in pairs:
//
//	L1    h(θ) = Σ ε_j|θ_j|   ⇔  |d_j| ≤ ε_j
//	L2    h(θ) = λ‖θ‖₂        ⇔  ‖d‖₂ ≤ λ
//	Linf  h(θ) = λ‖θ‖∞        ⇔  ‖d‖₁ ≤ λ
//	Ridge h(θ) = λ/2‖θ‖²      ⇔  penalty ‖d‖²/(2λ), no constraint
//	None  h(θ) = 0            ⇔  d = 0
//
// where d = Σ_i w_i x_i − x̄_T is the imbalance.

package balance

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Regularizer is a convex dual penalty with a closed-form proximal map.
type Regularizer interface {
	// Kind identifies the regularizer.
	Kind() RegularizerKind
	// Penalty evaluates h(θ).
	Penalty(theta []float64) float64
	// Prox writes prox_{t·h}(v) into dst; dst and v may alias.
	Prox(dst, v []float64, t float64)
	// Smooth reports whether h is differentiable everywhere.
	Smooth() bool
	// AddGrad adds ∇h(θ) into dst; only meaningful when Smooth is true.
	AddGrad(dst, theta []float64)
	// Satisfied reports whether imbalance d meets the primal constraint
	// within slack.
	Satisfied(d []float64, slack float64) bool
}

// NewRegularizer builds the penalty for k with scalar hyperparameter lambda.
// eps, when non-empty, gives per-constraint tolerances and is only accepted
// by RegL1.
func NewRegularizer(k RegularizerKind, lambda float64, eps []float64) (Regularizer, error) {
	if !(lambda >= 0) || math.IsInf(lambda, 0) {
		return nil, ErrNegativeTolerance
	}
	for _, e := range eps {
		if !(e >= 0) || math.IsInf(e, 0) {
			return nil, ErrNegativeTolerance
		}
	}
	switch k {
	case RegL1:
		return l1Reg{lambda: lambda, eps: append([]float64(nil), eps...)}, nil
	case RegL2:
		return l2Reg{lambda: lambda}, nil
	case RegLinf:
		return linfReg{lambda: lambda}, nil
	case RegRidge:
		return ridgeReg{lambda: lambda}, nil
	case RegNone:
		return noneReg{}, nil
	}

	return nil, ErrUnknownRegularizer
}

// ---------- L1 (elementwise tolerances) ----------

type l1Reg struct {
	lambda float64
	eps    []float64 // nil ⇒ lambda broadcast
}

func (r l1Reg) tol(j int) float64 {
	if r.eps != nil {
		return r.eps[j]
	}

	return r.lambda
}

func (l1Reg) Kind() RegularizerKind        { return RegL1 }
func (l1Reg) Smooth() bool                 { return false }
func (l1Reg) AddGrad([]float64, []float64) {}

func (r l1Reg) Penalty(theta []float64) float64 {
	var s float64
	for j, v := range theta {
		s += r.tol(j) * math.Abs(v)
	}

	return s
}

// Prox is the weighted soft threshold.
func (r l1Reg) Prox(dst, v []float64, t float64) {
	for j, x := range v {
		dst[j] = softThreshold(x, t*r.tol(j))
	}
}

func (r l1Reg) Satisfied(d []float64, slack float64) bool {
	for j, x := range d {
		if math.Abs(x) > r.tol(j)+slack {
			return false
		}
	}

	return true
}

// ---------- L2 ----------

type l2Reg struct{ lambda float64 }

func (l2Reg) Kind() RegularizerKind             { return RegL2 }
func (l2Reg) Smooth() bool                      { return false }
func (l2Reg) AddGrad([]float64, []float64)      {}
func (r l2Reg) Penalty(theta []float64) float64 { return r.lambda * floats.Norm(theta, 2) }

// Prox is block soft thresholding.
func (r l2Reg) Prox(dst, v []float64, t float64) {
	n := floats.Norm(v, 2)
	k := t * r.lambda
	if n <= k {
		for j := range dst {
			dst[j] = 0
		}

		return
	}
	floats.ScaleTo(dst, 1-k/n, v)
}

func (r l2Reg) Satisfied(d []float64, slack float64) bool {
	return floats.Norm(d, 2) <= r.lambda+slack
}

// ---------- Linf ----------

type linfReg struct{ lambda float64 }

func (linfReg) Kind() RegularizerKind             { return RegLinf }
func (linfReg) Smooth() bool                      { return false }
func (linfReg) AddGrad([]float64, []float64)      {}
func (r linfReg) Penalty(theta []float64) float64 { return r.lambda * floats.Norm(theta, math.Inf(1)) }

// Prox uses the Moreau decomposition v = prox(v) + P_{B1(tλ)}(v); the
// residual of an ℓ1-ball projection is the componentwise clip at τ.
func (r linfReg) Prox(dst, v []float64, t float64) {
	radius := t * r.lambda
	tau := l1BallThreshold(v, radius)
	for j, x := range v {
		if math.Abs(x) <= tau {
			dst[j] = x
		} else {
			dst[j] = math.Copysign(tau, x)
		}
	}
}

func (r linfReg) Satisfied(d []float64, slack float64) bool {
	return floats.Norm(d, 1) <= r.lambda+slack
}

// l1BallThreshold returns τ such that the projection of v onto the ℓ1 ball of
// the given radius is sign(v)·max(|v|−τ, 0) (Duchi et al., 2008). τ = 0 when
// v already lies inside the ball; a zero radius yields τ = max|v|.
func l1BallThreshold(v []float64, radius float64) float64 {
	if floats.Norm(v, 1) <= radius {
		return 0
	}
	mu := make([]float64, len(v))
	for j, x := range v {
		mu[j] = math.Abs(x)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(mu)))
	if radius <= 0 {
		return mu[0]
	}

	var cum, tau float64
	for j, m := range mu {
		cum += m
		cand := (cum - radius) / float64(j+1)
		if m-cand <= 0 {
			break
		}
		tau = cand
	}

	return tau
}

// ---------- Ridge ----------

type ridgeReg struct{ lambda float64 }

func (ridgeReg) Kind() RegularizerKind { return RegRidge }
func (ridgeReg) Smooth() bool          { return true }

func (r ridgeReg) Penalty(theta []float64) float64 {
	return 0.5 * r.lambda * floats.Dot(theta, theta)
}

func (r ridgeReg) Prox(dst, v []float64, t float64) {
	floats.ScaleTo(dst, 1/(1+t*r.lambda), v)
}

func (r ridgeReg) AddGrad(dst, theta []float64) {
	floats.AddScaled(dst, r.lambda, theta)
}

// Satisfied is always true: ridge prices imbalance instead of bounding it.
func (ridgeReg) Satisfied([]float64, float64) bool { return true }

// ---------- None ----------

type noneReg struct{}

func (noneReg) Kind() RegularizerKind            { return RegNone }
func (noneReg) Smooth() bool                     { return true }
func (noneReg) Penalty([]float64) float64        { return 0 }
func (noneReg) AddGrad([]float64, []float64)     {}
func (noneReg) Prox(dst, v []float64, _ float64) { copy(dst, v) }

func (noneReg) Satisfied(d []float64, slack float64) bool {
	return floats.Norm(d, math.Inf(1)) <= slack
}

func softThreshold(x, k float64) float64 {
	switch {
	case x > k:
		return x - k
	case x < -k:
		return x + k
	default:
		return 0
	}
}

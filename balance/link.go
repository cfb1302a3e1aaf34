// SPDX-License-Identifier: MIT

package balance

import "math"

// maxExp caps the exponent of the unnormalized logit link; exp(700) is finite.
const maxExp = 700.0

// Link couples a dual loss ψ with its weight map ψ' and the primal
// divergence f = ψ*. Implementations are stateless.
type Link interface {
	// Kind identifies the link.
	Kind() LinkKind
	// Loss evaluates ψ(u).
	Loss(u float64) float64
	// Weight evaluates ψ'(u), the weight implied by dual score u.
	Weight(u float64) float64
	// Divergence evaluates f(w) for a reported weight w ≥ 0.
	Divergence(w float64) float64
	// Report maps an optimization weight to the reported nonnegative weight.
	Report(w float64) float64
}

// NewLink returns the Link for k.
func NewLink(k LinkKind) (Link, error) {
	switch k {
	case LinkLogit:
		return Logit{}, nil
	case LinkLinear:
		return Linear{}, nil
	case LinkPosLinear:
		return PosLinear{}, nil
	}

	return nil, ErrUnknownLink
}

// Logit is the entropy link: ψ(u) = exp(u), f(w) = w log w − w.
type Logit struct{}

// Kind implements Link.
func (Logit) Kind() LinkKind { return LinkLogit }

// Loss implements Link.
func (Logit) Loss(u float64) float64 { return math.Exp(math.Min(u, maxExp)) }

// Weight implements Link.
func (Logit) Weight(u float64) float64 { return math.Exp(math.Min(u, maxExp)) }

// Divergence implements Link; 0·log 0 is taken as 0.
func (Logit) Divergence(w float64) float64 {
	if w <= 0 {
		return 0
	}

	return w*math.Log(w) - w
}

// Report implements Link.
func (Logit) Report(w float64) float64 { return w }

// Linear is the quadratic link: ψ(u) = u²/2, w = u. Negative optimization
// weights are clipped to 0 when reported.
type Linear struct{}

// Kind implements Link.
func (Linear) Kind() LinkKind { return LinkLinear }

// Loss implements Link.
func (Linear) Loss(u float64) float64 { return 0.5 * u * u }

// Weight implements Link.
func (Linear) Weight(u float64) float64 { return u }

// Divergence implements Link.
func (Linear) Divergence(w float64) float64 { return 0.5 * w * w }

// Report implements Link.
func (Linear) Report(w float64) float64 { return math.Max(0, w) }

// PosLinear is the truncated quadratic link: ψ(u) = max(0,u)²/2.
type PosLinear struct{}

// Kind implements Link.
func (PosLinear) Kind() LinkKind { return LinkPosLinear }

// Loss implements Link.
func (PosLinear) Loss(u float64) float64 {
	if u <= 0 {
		return 0
	}

	return 0.5 * u * u
}

// Weight implements Link.
func (PosLinear) Weight(u float64) float64 { return math.Max(0, u) }

// Divergence implements Link.
func (PosLinear) Divergence(w float64) float64 { return 0.5 * w * w }

// Report implements Link.
func (PosLinear) Report(w float64) float64 { return math.Max(0, w) }

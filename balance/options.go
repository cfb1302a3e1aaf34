// SPDX-License-Identifier: MIT

// Package balance - Options, kinds and functional overrides.
//
// Purpose:
//   - Describe one balancing problem family: link × regularizer × normalization.
//   - Carry solver limits (Opts.MaxIters, Opts.Eps) and the feasibility tolerance.
//   - Parse the string forms used by configuration files and the command line.

package balance

import (
	"fmt"
	"math"
	"strings"
)

// LinkKind selects the weight link ψ'.
type LinkKind int

const (
	// LinkLogit is the entropy link, w = exp(u).
	LinkLogit LinkKind = iota
	// LinkLinear is the quadratic link, w = u, reported clipped at 0.
	LinkLinear
	// LinkPosLinear is the truncated quadratic link, w = max(0, u).
	LinkPosLinear
)

// String returns the configuration name of the link.
func (k LinkKind) String() string {
	switch k {
	case LinkLogit:
		return "logit"
	case LinkLinear:
		return "linear"
	case LinkPosLinear:
		return "pos-linear"
	default:
		return fmt.Sprintf("LinkKind(%d)", int(k))
	}
}

// ParseLink maps "logit", "linear" or "pos-linear" (case-insensitive;
// "poslinear" and "pos_linear" accepted) to a LinkKind.
func ParseLink(s string) (LinkKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "logit", "entropy", "exp":
		return LinkLogit, nil
	case "linear", "identity":
		return LinkLinear, nil
	case "pos-linear", "poslinear", "pos_linear":
		return LinkPosLinear, nil
	}

	return 0, balanceErrorf(fmt.Sprintf("ParseLink(%q)", s), ErrUnknownLink)
}

// RegularizerKind selects the dual penalty h(θ), i.e. the primal constraint.
type RegularizerKind int

const (
	// RegL1 constrains each imbalance coordinate: |d_j| ≤ ε_j.
	RegL1 RegularizerKind = iota
	// RegL2 constrains the Euclidean imbalance: ‖d‖₂ ≤ λ.
	RegL2
	// RegLinf penalizes λ‖θ‖∞, constraining ‖d‖₁ ≤ λ.
	RegLinf
	// RegRidge penalizes (λ/2)‖θ‖²; imbalance is priced, never constrained.
	RegRidge
	// RegNone demands exact balance.
	RegNone
)

// String returns the configuration name of the regularizer.
func (k RegularizerKind) String() string {
	switch k {
	case RegL1:
		return "l1"
	case RegL2:
		return "l2"
	case RegLinf:
		return "linf"
	case RegRidge:
		return "ridge"
	case RegNone:
		return "none"
	default:
		return fmt.Sprintf("RegularizerKind(%d)", int(k))
	}
}

// ParseRegularizer maps "l1", "l2", "linf", "ridge" or "none" to a kind.
func ParseRegularizer(s string) (RegularizerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l1":
		return RegL1, nil
	case "l2":
		return RegL2, nil
	case "linf", "l-inf", "l_inf":
		return RegLinf, nil
	case "ridge":
		return RegRidge, nil
	case "none", "":
		return RegNone, nil
	}

	return 0, balanceErrorf(fmt.Sprintf("ParseRegularizer(%q)", s), ErrUnknownRegularizer)
}

// SolverKind selects the numerical method.
type SolverKind int

const (
	// SolverAPG is accelerated proximal gradient with backtracking and restart.
	SolverAPG SolverKind = iota
	// SolverLBFGS is gonum/optimize L-BFGS; smooth regularizers only.
	SolverLBFGS
)

// String returns the configuration name of the solver.
func (k SolverKind) String() string {
	if k == SolverLBFGS {
		return "lbfgs"
	}

	return "apg"
}

// ParseSolver maps "apg" (or "") and "lbfgs" to a SolverKind.
func ParseSolver(s string) (SolverKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "apg", "":
		return SolverAPG, nil
	case "lbfgs", "l-bfgs":
		return SolverLBFGS, nil
	}

	return 0, balanceErrorf(fmt.Sprintf("ParseSolver(%q)", s), ErrBadOptions)
}

// Defaults.
const (
	DefaultMaxIters = 10000
	DefaultEps      = 1e-7
	DefaultFeasTol  = 1e-4
	// DefaultLambda is the scalar tolerance used when neither Lambda nor Eps is set.
	DefaultLambda = 0.0
)

// SolverOpts bounds a single solve.
//   - MaxIters: iteration cap (≥ 1). Hitting it means "not converged".
//   - Eps: stationarity tolerance; the prox-gradient (APG) or gradient
//     (L-BFGS) norm must fall to Eps·(1+‖x̄_T‖∞).
type SolverOpts struct {
	MaxIters int
	Eps      float64
}

// Options configures an Optimizer.
//
// Fields:
//   - Link, Regularizer, Solver: numerical family, fixed per Optimizer.
//   - Lambda: scalar hyperparameter (tolerance for L1/L2/Linf, penalty for Ridge).
//   - Eps: optional per-constraint tolerance vector (L1 only); overrides Lambda.
//   - Normalized: add the Σw = 1 constraint.
//   - Opts: solver limits.
//   - FeasTol: slack for the feasibility check, scaled by 1+‖x̄_T‖∞.
type Options struct {
	Link        LinkKind
	Regularizer RegularizerKind
	Solver      SolverKind
	Lambda      float64
	Eps         []float64
	Normalized  bool
	Opts        SolverOpts
	FeasTol     float64
}

// DefaultOptions returns logit link, elementwise (l1) tolerances, normalized
// weights and the APG solver.
func DefaultOptions() Options {
	return Options{
		Link:        LinkLogit,
		Regularizer: RegL1,
		Solver:      SolverAPG,
		Lambda:      DefaultLambda,
		Normalized:  true,
		Opts:        SolverOpts{MaxIters: DefaultMaxIters, Eps: DefaultEps},
		FeasTol:     DefaultFeasTol,
	}
}

// WithTolerance returns a copy of o with the scalar hyperparameter replaced
// and any tolerance vector cleared.
func (o Options) WithTolerance(lambda float64) Options {
	o.Lambda = lambda
	o.Eps = nil

	return o
}

// WithEps returns a copy of o carrying a private copy of the tolerance vector.
func (o Options) WithEps(eps []float64) Options {
	o.Eps = append([]float64(nil), eps...)

	return o
}

// validate checks settings that do not depend on the data.
func (o Options) validate() error {
	if o.Opts.MaxIters < 1 || !(o.Opts.Eps > 0) || math.IsInf(o.Opts.Eps, 0) {
		return fmt.Errorf("MaxIters=%d Eps=%g: %w", o.Opts.MaxIters, o.Opts.Eps, ErrBadOptions)
	}
	if o.FeasTol < 0 || math.IsNaN(o.FeasTol) {
		return fmt.Errorf("FeasTol=%g: %w", o.FeasTol, ErrBadOptions)
	}
	if !(o.Lambda >= 0) || math.IsInf(o.Lambda, 0) {
		return fmt.Errorf("Lambda=%g: %w", o.Lambda, ErrNegativeTolerance)
	}
	for j, e := range o.Eps {
		if !(e >= 0) || math.IsInf(e, 0) {
			return fmt.Errorf("Eps[%d]=%g: %w", j, e, ErrNegativeTolerance)
		}
	}

	return nil
}

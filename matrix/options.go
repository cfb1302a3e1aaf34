// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults and functional options.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Data-dependent failures are returned as errors, never panics.
package matrix

// DefaultValidateNaNInf toggles strict finite-value validation on Set and
// on literal ingestion (NewDenseFrom).
const DefaultValidateNaNInf = true

// Option mutates Options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective numeric policy after applying Option setters.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
}

// WithNoValidateNaNInf disables finite-value validation for matrices built
// with these options. Used by completion routines that carry NaN as a
// "missing cell" marker.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// gatherOptions resolves setters on top of the documented defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{validateNaNInf: DefaultValidateNaNInf}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

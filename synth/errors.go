package synth

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/synthbal/search"
)

// ErrUnknownMethod indicates an unsupported Config.Method.
var ErrUnknownMethod = errors.New("synth: unknown method")

// CalibrationError reports that no candidate tolerance up to Bound produced
// a feasible balance. It matches search.ErrSearchExhausted under errors.Is.
type CalibrationError struct {
	Bound      float64
	Unresolved []string // lexical groups without a tolerance, if any
}

// Error implements error.
func (e *CalibrationError) Error() string {
	return fmt.Sprintf("failed to find a synthetic control with balance better than %g", e.Bound)
}

// Unwrap exposes the search sentinel.
func (e *CalibrationError) Unwrap() error { return search.ErrSearchExhausted }

// SPDX-License-Identifier: MIT

package balance

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/synthbal/matrix"
)

var (
	// ErrNoTreated indicates that the treatment indicator has no true entry.
	ErrNoTreated = errors.New("balance: no treated row")

	// ErrNoControls indicates that the treatment indicator has no false entry.
	ErrNoControls = errors.New("balance: no control row")

	// ErrNegativeTolerance indicates a negative (or non-finite) tolerance/hyperparameter.
	ErrNegativeTolerance = errors.New("balance: tolerance must be finite and non-negative")

	// ErrUnknownLink indicates an unsupported link name or kind.
	ErrUnknownLink = errors.New("balance: unknown link function")

	// ErrUnknownRegularizer indicates an unsupported regularizer name or kind.
	ErrUnknownRegularizer = errors.New("balance: unknown regularizer")

	// ErrSolverRegularizer indicates that LBFGS was requested for a non-smooth regularizer.
	ErrSolverRegularizer = errors.New("balance: solver does not support a non-smooth regularizer")

	// ErrBadOptions indicates nonsensical solver settings (MaxIters < 1, Eps <= 0).
	ErrBadOptions = errors.New("balance: invalid solver options")
)

// DimensionError reports misaligned inputs: the design matrix, the treatment
// indicator, the outcome matrix and the tolerance vector must agree in shape.
// It matches matrix.ErrDimensionMismatch under errors.Is.
type DimensionError struct {
	Op   string // operation tag, e.g. "Solve"
	What string // which input disagreed, e.g. "len(trt)"
	Want int
	Got  int
}

// Error implements error.
func (e *DimensionError) Error() string {
	return fmt.Sprintf("balance: %s: %s: want %d, got %d", e.Op, e.What, e.Want, e.Got)
}

// Unwrap exposes the storage-layer sentinel.
func (e *DimensionError) Unwrap() error { return matrix.ErrDimensionMismatch }

// balanceErrorf wraps err with an operation tag, preserving errors.Is.
func balanceErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

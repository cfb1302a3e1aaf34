package cv

import "errors"

var (
	// ErrEmptyGrid indicates a grid without hyperparameters.
	ErrEmptyGrid = errors.New("cv: empty hyperparameter grid")

	// ErrTooFewControls indicates fewer controls than the method needs.
	ErrTooFewControls = errors.New("cv: not enough control units")

	// ErrTooFewPeriods indicates a design with fewer than two columns (LeaveOneOut).
	ErrTooFewPeriods = errors.New("cv: not enough pre-periods to hold one out")

	// ErrBadOptions indicates K < 2, B < 1 or an unknown method.
	ErrBadOptions = errors.New("cv: invalid options")
)

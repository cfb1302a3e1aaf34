package panel

import "errors"

var (
	// ErrEmptyPanel indicates that no observations were supplied.
	ErrEmptyPanel = errors.New("panel: no observations")

	// ErrDuplicateObservation indicates two rows for the same (unit, time).
	ErrDuplicateObservation = errors.New("panel: duplicate (unit, time) observation")

	// ErrUnbalancedPanel indicates a missing (unit, time) cell.
	ErrUnbalancedPanel = errors.New("panel: unbalanced panel")

	// ErrNoTreated indicates that no unit is ever treated.
	ErrNoTreated = errors.New("panel: no treated unit")

	// ErrNoControls indicates that every unit is treated.
	ErrNoControls = errors.New("panel: no control unit")

	// ErrNoPrePeriod indicates that TInt leaves no pre-treatment period.
	ErrNoPrePeriod = errors.New("panel: no pre-treatment period")

	// ErrNonFinite indicates a NaN or Inf outcome value.
	ErrNonFinite = errors.New("panel: non-finite outcome value")

	// ErrBadSimulation indicates nonsensical simulation sizes.
	ErrBadSimulation = errors.New("panel: invalid simulation options")
)

package lowrank

import "errors"

var (
	// ErrBadRank indicates a non-positive rank.
	ErrBadRank = errors.New("lowrank: rank must be positive")

	// ErrBadOptions indicates inconsistent options (e.g. PrependMeans without
	// RemoveUnitMeans, negative penalty, MaxIters < 1).
	ErrBadOptions = errors.New("lowrank: invalid options")

	// ErrFactorization indicates that gonum failed to factorize a matrix.
	ErrFactorization = errors.New("lowrank: factorization failed")

	// ErrNoObserved indicates a completion input without observed cells.
	ErrNoObserved = errors.New("lowrank: no observed cell")

	// ErrNoTreated indicates a treatment indicator with no treated row.
	ErrNoTreated = errors.New("lowrank: no treated row")

	// ErrNoControls indicates a treatment indicator with no control row.
	ErrNoControls = errors.New("lowrank: no control row")
)

package search

import "errors"

var (
	// ErrSearchExhausted indicates that no grid candidate was feasible.
	ErrSearchExhausted = errors.New("search: no feasible candidate on the grid")

	// ErrBadGrid indicates an empty, unordered or non-finite grid definition.
	ErrBadGrid = errors.New("search: invalid candidate grid")

	// ErrBadGroups indicates empty, overlapping or out-of-range constraint groups.
	ErrBadGroups = errors.New("search: invalid constraint groups")
)

// NotFound is the sentinel tolerance returned when the search is exhausted.
const NotFound = -1.0

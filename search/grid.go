package search

import (
	"fmt"
	"math"
)

// MaxGridLen caps the number of candidates NewGrid will materialize.
const MaxGridLen = 1 << 20

// Grid is an immutable, strictly ascending list of candidate tolerances.
type Grid struct {
	values []float64
}

// NewGrid returns start, start+by, ... up to and including end (within a
// relative 1e-9 of a step). Candidates are computed as start+k·by so the
// grid does not accumulate rounding drift. More than MaxGridLen candidates
// is ErrBadGrid.
func NewGrid(start, end, by float64) (Grid, error) {
	for _, v := range []float64{start, end, by} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Grid{}, fmt.Errorf("NewGrid(%g,%g,%g): %w", start, end, by, ErrBadGrid)
		}
	}
	if !(by > 0) || end < start {
		return Grid{}, fmt.Errorf("NewGrid(%g,%g,%g): %w", start, end, by, ErrBadGrid)
	}
	count := math.Floor((end-start)/by+1e-9) + 1
	if !(count <= MaxGridLen) {
		return Grid{}, fmt.Errorf("NewGrid(%g,%g,%g): %g candidates over %d: %w", start, end, by, count, MaxGridLen, ErrBadGrid)
	}
	n := int(count)
	values := make([]float64, n)
	for k := range values {
		values[k] = start + float64(k)*by
	}

	return Grid{values: values}, nil
}

// GridOf builds a grid from explicit candidates, which must be finite and
// strictly ascending.
func GridOf(values ...float64) (Grid, error) {
	if len(values) == 0 {
		return Grid{}, fmt.Errorf("GridOf: empty: %w", ErrBadGrid)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || (i > 0 && v <= values[i-1]) {
			return Grid{}, fmt.Errorf("GridOf: candidate %d (%g): %w", i, v, ErrBadGrid)
		}
	}

	return Grid{values: append([]float64(nil), values...)}, nil
}

// Len returns the number of candidates.
func (g Grid) Len() int { return len(g.values) }

// At returns candidate i.
func (g Grid) At(i int) float64 { return g.values[i] }

// Values returns a copy of the candidates.
func (g Grid) Values() []float64 { return append([]float64(nil), g.values...) }

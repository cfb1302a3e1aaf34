package search

import "fmt"

// Oracle reports whether the balancing problem is feasible at tolerance tol.
type Oracle func(tol float64) (bool, error)

// Probe is one oracle evaluation.
type Probe struct {
	Tol      float64
	Feasible bool
}

// Outcome is the result of a binary search.
//   - Value: the smallest feasible candidate found, or NotFound.
//   - Index: its position in the grid, or -1.
//   - Trace: oracle evaluations in call order.
type Outcome struct {
	Value float64
	Index int
	Trace []Probe
}

// Found reports whether a feasible candidate was located.
func (o Outcome) Found() bool { return o.Index >= 0 }

// Calls returns the number of oracle evaluations.
func (o Outcome) Calls() int { return len(o.Trace) }

// Binary searches g for the smallest feasible tolerance.
//
// The search keeps an index range [lo, hi]; mid = lo + (hi−lo)/2. A feasible
// midpoint keeps [lo, mid], an infeasible one keeps [mid+1, hi]. The last
// candidate is then tested; a result already observed for it is reused.
// An oracle error aborts the search and is returned with the partial trace.
//
// Errors:
//   - ErrBadGrid for an empty grid.
//   - ErrSearchExhausted (Value = NotFound) when the final candidate is infeasible.
func Binary(g Grid, oracle Oracle) (Outcome, error) {
	out := Outcome{Value: NotFound, Index: -1}
	if g.Len() == 0 {
		return out, ErrBadGrid
	}
	known := make(map[int]bool, 8)
	probe := func(i int) (bool, error) {
		if ok, seen := known[i]; seen {
			return ok, nil
		}
		ok, err := oracle(g.values[i])
		if err != nil {
			return false, fmt.Errorf("search: tol=%g: %w", g.values[i], err)
		}
		known[i] = ok
		out.Trace = append(out.Trace, Probe{Tol: g.values[i], Feasible: ok})

		return ok, nil
	}

	lo, hi := 0, g.Len()-1
	for lo < hi {
		mid := lo + (hi-lo)/2
		ok, err := probe(mid)
		if err != nil {
			return out, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	ok, err := probe(lo)
	if err != nil {
		return out, err
	}
	if !ok {
		return out, ErrSearchExhausted
	}
	out.Value, out.Index = g.values[lo], lo

	return out, nil
}

// BinSearch is the scalar form: it builds the grid start..end by step and
// returns the smallest feasible candidate, or NotFound when the grid is
// invalid, exhausted, or the predicate is never satisfied.
func BinSearch(start, end, by float64, feasible func(tol float64) bool) float64 {
	g, err := NewGrid(start, end, by)
	if err != nil {
		return NotFound
	}
	out, err := Binary(g, func(tol float64) (bool, error) { return feasible(tol), nil })
	if err != nil {
		return NotFound
	}

	return out.Value
}

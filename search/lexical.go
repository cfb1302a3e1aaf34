package search

import (
	"errors"
	"fmt"
)

// DefaultLoose is the tolerance held by groups not yet searched.
const DefaultLoose = 1e10

// VectorOracle reports feasibility for a per-constraint tolerance vector.
type VectorOracle func(eps []float64) (bool, error)

// Group is a named set of constraint indices searched as one tolerance.
type Group struct {
	Name    string
	Indices []int
}

// GroupTolerance is a resolved group with its minimal feasible tolerance.
type GroupTolerance struct {
	Name string
	Tol  float64
}

// LexicalOptions configures Lexical.
//   - Loose: tolerance of later and ungrouped constraints (DefaultLoose when 0).
//   - Grids: per-group candidate grids overriding the shared grid, by name.
type LexicalOptions struct {
	Loose float64
	Grids map[string]Grid
}

// LexicalResult is the (possibly partial) outcome of a lexical search.
//   - Tolerances: every group by name; unresolved groups keep Loose.
//   - Resolved: groups fixed so far, in priority order.
//   - Unresolved: groups without a feasible tolerance, in priority order.
//   - Calls: total oracle evaluations.
type LexicalResult struct {
	Tolerances map[string]float64
	Resolved   []GroupTolerance
	Unresolved []string
	Calls      int

	groups []Group
	n      int
	loose  float64
}

// Complete reports whether every group was resolved.
func (r LexicalResult) Complete() bool { return len(r.Unresolved) == 0 }

// Vector expands the group tolerances into a per-constraint vector; ungrouped
// constraints and unresolved groups get the loose sentinel.
func (r LexicalResult) Vector() []float64 {
	eps := make([]float64, r.n)
	for i := range eps {
		eps[i] = r.loose
	}
	for _, g := range r.groups {
		tol := r.Tolerances[g.Name]
		for _, j := range g.Indices {
			eps[j] = tol
		}
	}

	return eps
}

// Lexical resolves groups in priority order over n constraints, binary
// searching each group's tolerance on grid (or its entry in opts.Grids).
//
// A group whose search is exhausted halts the walk without error; the result
// then reports it and all later groups as Unresolved. Oracle errors abort the
// search and are returned.
//
// Errors:
//   - ErrBadGroups for empty names, duplicates, overlaps or out-of-range indices.
//   - ErrBadGrid for an empty grid.
func Lexical(groups []Group, n int, grid Grid, oracle VectorOracle, opts LexicalOptions) (LexicalResult, error) {
	loose := opts.Loose
	if loose == 0 {
		loose = DefaultLoose
	}
	res := LexicalResult{
		Tolerances: make(map[string]float64, len(groups)),
		groups:     cloneGroups(groups),
		n:          n,
		loose:      loose,
	}
	if err := validateGroups(groups, n); err != nil {
		return res, err
	}
	for _, g := range groups {
		res.Tolerances[g.Name] = loose
	}

	for k, g := range res.groups {
		gGrid := grid
		if custom, ok := opts.Grids[g.Name]; ok {
			gGrid = custom
		}
		if gGrid.Len() == 0 {
			return res, fmt.Errorf("group %q: %w", g.Name, ErrBadGrid)
		}

		out, err := Binary(gGrid, func(tol float64) (bool, error) {
			eps := res.Vector()
			for _, j := range g.Indices {
				eps[j] = tol
			}

			return oracle(eps)
		})
		res.Calls += out.Calls()
		if errors.Is(err, ErrSearchExhausted) {
			for _, rest := range res.groups[k:] {
				res.Unresolved = append(res.Unresolved, rest.Name)
			}

			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("group %q: %w", g.Name, err)
		}
		res.Tolerances[g.Name] = out.Value
		res.Resolved = append(res.Resolved, GroupTolerance{Name: g.Name, Tol: out.Value})
	}

	return res, nil
}

func validateGroups(groups []Group, n int) error {
	if len(groups) == 0 {
		return fmt.Errorf("no groups: %w", ErrBadGroups)
	}
	names := make(map[string]bool, len(groups))
	owner := make([]bool, n)
	for _, g := range groups {
		if g.Name == "" || names[g.Name] || len(g.Indices) == 0 {
			return fmt.Errorf("group %q: %w", g.Name, ErrBadGroups)
		}
		names[g.Name] = true
		for _, j := range g.Indices {
			if j < 0 || j >= n || owner[j] {
				return fmt.Errorf("group %q index %d: %w", g.Name, j, ErrBadGroups)
			}
			owner[j] = true
		}
	}

	return nil
}

func cloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Name: g.Name, Indices: append([]int(nil), g.Indices...)}
	}

	return out
}

// ChunkGroups splits constraints 0..n-1 into consecutive groups of size
// (the last may be shorter) ordered from the most recent constraint backwards,
// so the latest pre-periods get the highest priority. Names are "g1", "g2", ...
func ChunkGroups(n, size int) []Group {
	if n <= 0 || size <= 0 {
		return nil
	}
	var groups []Group
	for hi := n; hi > 0; hi -= size {
		lo := hi - size
		if lo < 0 {
			lo = 0
		}
		idx := make([]int, 0, hi-lo)
		for j := lo; j < hi; j++ {
			idx = append(idx, j)
		}
		groups = append(groups, Group{Name: fmt.Sprintf("g%d", len(groups)+1), Indices: idx})
	}

	return groups
}

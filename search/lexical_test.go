package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthbal/search"
)

// coupled is feasible when the total shortfall Σ max(0, need_j − eps_j)
// is at most budget, so groups interact through the shared budget.
func coupled(need []float64, budget float64) search.VectorOracle {
	return func(eps []float64) (bool, error) {
		var short float64
		for j, e := range eps {
			if d := need[j] - e; d > 0 {
				short += d
			}
		}

		return short <= budget, nil
	}
}

func TestLexical_EarlierGroupMatchesIsolatedSearch(t *testing.T) {
	need := []float64{0.3, 0.9, 1.4, 0.2, 0.6}
	groups := []search.Group{
		{Name: "recent", Indices: []int{3, 4}},
		{Name: "middle", Indices: []int{1, 2}},
		{Name: "early", Indices: []int{0}},
	}
	grid, err := search.NewGrid(0, 2, 0.1)
	require.NoError(t, err)
	oracle := coupled(need, 0.5)

	res, err := search.Lexical(groups, len(need), grid, oracle, search.LexicalOptions{})
	require.NoError(t, err)
	require.True(t, res.Complete())
	require.Len(t, res.Resolved, 3)

	// Isolated search for the first group with everything else loose.
	first, err := search.Binary(grid, func(tol float64) (bool, error) {
		eps := []float64{search.DefaultLoose, search.DefaultLoose, search.DefaultLoose, tol, tol}
		return oracle(eps)
	})
	require.NoError(t, err)
	assert.Equal(t, first.Value, res.Tolerances["recent"])
	assert.Equal(t, "recent", res.Resolved[0].Name)

	// Locked-in earlier tolerances are never loosened: the final vector is feasible.
	ok, err := oracle(res.Vector())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Positive(t, res.Calls)
}

func TestLexical_PartialResult(t *testing.T) {
	need := []float64{5, 0.5, 0.5}
	groups := []search.Group{
		{Name: "a", Indices: []int{1}},
		{Name: "b", Indices: []int{0}},
		{Name: "c", Indices: []int{2}},
	}
	grid, err := search.NewGrid(0, 2, 0.5)
	require.NoError(t, err)

	res, err := search.Lexical(groups, 3, grid, coupled(need, 0), search.LexicalOptions{Loose: 100})
	require.NoError(t, err, "an exhausted group is not an error")
	assert.False(t, res.Complete())
	assert.Equal(t, []string{"b", "c"}, res.Unresolved)
	assert.Equal(t, 0.5, res.Tolerances["a"])
	assert.Equal(t, 100.0, res.Tolerances["b"])
	assert.Equal(t, []float64{100, 0.5, 100}, res.Vector())
}

func TestLexical_ResultOwnsGroups(t *testing.T) {
	groups := []search.Group{
		{Name: "a", Indices: []int{0}},
		{Name: "b", Indices: []int{1}},
	}
	grid, err := search.NewGrid(0, 2, 0.5)
	require.NoError(t, err)
	res, err := search.Lexical(groups, 3, grid, coupled([]float64{1, 0.5, 0}, 0), search.LexicalOptions{Loose: 100})
	require.NoError(t, err)
	want := []float64{1, 0.5, 100}
	require.Equal(t, want, res.Vector())

	groups[0].Indices[0] = 2
	groups[1] = search.Group{Name: "z", Indices: []int{0}}
	assert.Equal(t, want, res.Vector())
}

func TestLexical_PerGroupGrid(t *testing.T) {
	grid, err := search.NewGrid(0, 1, 0.5)
	require.NoError(t, err)
	fine, err := search.NewGrid(0, 1, 0.05)
	require.NoError(t, err)
	groups := []search.Group{{Name: "x", Indices: []int{0}}}

	res, err := search.Lexical(groups, 1, grid, coupled([]float64{0.3}, 0),
		search.LexicalOptions{Grids: map[string]search.Grid{"x": fine}})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, res.Tolerances["x"], 1e-12)
}

func TestLexical_BadGroups(t *testing.T) {
	grid, err := search.NewGrid(0, 1, 0.5)
	require.NoError(t, err)
	oracle := coupled([]float64{0, 0}, 0)
	cases := [][]search.Group{
		nil,
		{{Name: "", Indices: []int{0}}},
		{{Name: "a", Indices: []int{0}}, {Name: "a", Indices: []int{1}}},
		{{Name: "a", Indices: []int{0}}, {Name: "b", Indices: []int{0}}},
		{{Name: "a", Indices: []int{2}}},
		{{Name: "a"}},
	}
	for i, groups := range cases {
		_, err := search.Lexical(groups, 2, grid, oracle, search.LexicalOptions{})
		assert.ErrorIs(t, err, search.ErrBadGroups, "case %d", i)
	}
}

func TestChunkGroups_RecentFirst(t *testing.T) {
	groups := search.ChunkGroups(5, 2)
	require.Len(t, groups, 3)
	assert.Equal(t, search.Group{Name: "g1", Indices: []int{3, 4}}, groups[0])
	assert.Equal(t, search.Group{Name: "g2", Indices: []int{1, 2}}, groups[1])
	assert.Equal(t, search.Group{Name: "g3", Indices: []int{0}}, groups[2])
	assert.Nil(t, search.ChunkGroups(0, 2))
}

package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthbal/balance"
	"github.com/katalvlaran/synthbal/matrix"
	"github.com/katalvlaran/synthbal/search"
)

// farTarget places the treated row at (2.05, 2.05), elementwise distance
// 1.05 from the hull of the unit-square controls.
func farTarget(t *testing.T) balance.Problem {
	t.Helper()
	X, err := matrix.NewDenseFrom([][]float64{{2.05, 2.05}, {0, 0}, {1, 0}, {0, 1}, {1, 1}})
	require.NoError(t, err)

	return balance.Problem{X: X, Treated: []bool{true, false, false, false, false}}
}

func TestBalanceOracle_Binary(t *testing.T) {
	base := balance.DefaultOptions()
	grid, err := search.NewGrid(0.1, 3, 0.1)
	require.NoError(t, err)

	out, err := search.Binary(grid, search.BalanceOracle(base, farTarget(t)))
	require.NoError(t, err)
	assert.InDelta(t, 1.1, out.Value, 1e-9)

	tight, err := search.NewGrid(0.1, 0.9, 0.1)
	require.NoError(t, err)
	out, err = search.Binary(tight, search.BalanceOracle(base, farTarget(t)))
	assert.ErrorIs(t, err, search.ErrSearchExhausted)
	assert.Equal(t, search.NotFound, out.Value)
}

func TestBalanceVectorOracle_Lexical(t *testing.T) {
	base := balance.DefaultOptions()
	grid, err := search.NewGrid(0, 2, 0.25)
	require.NoError(t, err)

	res, err := search.Lexical(search.ChunkGroups(2, 1), 2, grid,
		search.BalanceVectorOracle(base, farTarget(t)), search.LexicalOptions{})
	require.NoError(t, err)
	require.True(t, res.Complete())
	// Each coordinate needs at least 1.05; 1.0 is off by more than FeasTol.
	assert.Equal(t, 1.25, res.Tolerances["g1"])
	assert.Equal(t, 1.25, res.Tolerances["g2"])
}

func TestBalanceOracle_PropagatesInputErrors(t *testing.T) {
	pr := farTarget(t)
	pr.Treated = pr.Treated[:2]
	grid, err := search.NewGrid(0, 1, 0.5)
	require.NoError(t, err)
	_, err = search.Binary(grid, search.BalanceOracle(balance.DefaultOptions(), pr))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

package balance_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthbal/matrix"
)

// square returns a design with one treated row at (tx, ty) followed by the
// four corners of the unit square as controls.
func square(t testing.TB, tx, ty float64) (*matrix.Dense, []bool) {
	t.Helper()
	X, err := matrix.NewDenseFrom([][]float64{
		{tx, ty},
		{0, 0},
		{1, 0},
		{0, 1},
		{1, 1},
	})
	require.NoError(t, err)

	return X, []bool{true, false, false, false, false}
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}

	return s
}

// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/synthbal/matrix"
)

func TestGonumBridge_RoundTrip(t *testing.T) {
	m := dense(t, [][]float64{{1, 2, 3}, {4, 5, 6}})

	for _, in := range []matrix.Matrix{m, hide{m}} {
		g, err := matrix.ToGonum(in)
		require.NoError(t, err)
		r, c := g.Dims()
		assert.Equal(t, 2, r)
		assert.Equal(t, 3, c)
		assert.Equal(t, 6.0, g.At(1, 2))

		back, err := matrix.FromGonum(g)
		require.NoError(t, err)
		assert.Equal(t, m.ToRows(), back.ToRows())
	}

	g, err := matrix.ToGonum(m)
	require.NoError(t, err)
	g.Set(0, 0, 42)
	v, _ := m.At(0, 0)
	assert.Equal(t, 1.0, v, "ToGonum copies the buffer")
}

func TestGonumBridge_Rejects(t *testing.T) {
	_, err := matrix.ToGonum(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)

	_, err = matrix.FromGonum(mat.NewDense(1, 2, []float64{1, math.Inf(-1)}))
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestGonumBridge_Transposed(t *testing.T) {
	g := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	back, err := matrix.FromGonum(g.T())
	require.NoError(t, err)
	assert.Equal(t, rowsOf(t, back), [][]float64{{1, 4}, {2, 5}, {3, 6}})
}

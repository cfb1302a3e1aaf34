package balance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/synthbal/balance"
)

func TestRegularizer_Prox(t *testing.T) {
	v := []float64{3, -0.5, 1}
	dst := make([]float64, 3)

	t.Run("l1 vector", func(t *testing.T) {
		r, err := balance.NewRegularizer(balance.RegL1, 0, []float64{1, 1, 2})
		require.NoError(t, err)
		r.Prox(dst, v, 1)
		assert.Equal(t, []float64{2, 0, 0}, dst)
		assert.Equal(t, 3+0.5+2.0, r.Penalty(v))
		assert.True(t, r.Satisfied([]float64{1, -1, 2}, 0))
		assert.False(t, r.Satisfied([]float64{1.1, 0, 0}, 0.01))
	})

	t.Run("l2", func(t *testing.T) {
		r, err := balance.NewRegularizer(balance.RegL2, 1, nil)
		require.NoError(t, err)
		w := []float64{3, 4}
		out := make([]float64, 2)
		r.Prox(out, w, 1)
		assert.InDeltaSlice(t, []float64{2.4, 3.2}, out, 1e-12)
		r.Prox(out, w, 10)
		assert.Equal(t, []float64{0, 0}, out)
	})

	t.Run("linf moreau", func(t *testing.T) {
		r, err := balance.NewRegularizer(balance.RegLinf, 2, nil)
		require.NoError(t, err)
		r.Prox(dst, v, 1)
		// v − prox(v) is the projection onto the l1 ball of radius 2.
		proj := make([]float64, 3)
		floats.SubTo(proj, v, dst)
		assert.InDelta(t, 2.0, floats.Norm(proj, 1), 1e-12)
		assert.InDeltaSlice(t, []float64{1, -0.5, 1}, dst, 1e-12)

		inside := []float64{0.5, 0.5, 0.5}
		r.Prox(dst, inside, 1)
		assert.Equal(t, []float64{0, 0, 0}, dst)
		assert.True(t, r.Satisfied([]float64{1, -1}, 0))
	})

	t.Run("ridge", func(t *testing.T) {
		r, err := balance.NewRegularizer(balance.RegRidge, 1, nil)
		require.NoError(t, err)
		r.Prox(dst, v, 1)
		assert.InDeltaSlice(t, []float64{1.5, -0.25, 0.5}, dst, 1e-12)
		assert.True(t, r.Smooth())
		assert.True(t, r.Satisfied([]float64{100}, 0))
	})

	t.Run("none", func(t *testing.T) {
		r, err := balance.NewRegularizer(balance.RegNone, 0, nil)
		require.NoError(t, err)
		r.Prox(dst, v, 1)
		assert.Equal(t, v, dst)
		assert.False(t, r.Satisfied([]float64{1e-3}, 1e-4))
	})
}

func TestRegularizer_RejectsNegative(t *testing.T) {
	_, err := balance.NewRegularizer(balance.RegL2, -1, nil)
	assert.ErrorIs(t, err, balance.ErrNegativeTolerance)
	_, err = balance.NewRegularizer(balance.RegL1, 0, []float64{1, -1})
	assert.ErrorIs(t, err, balance.ErrNegativeTolerance)
}

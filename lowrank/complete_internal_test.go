package lowrank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// sparseRank2 is an exact rank-2 matrix with every seventh cell missing.
func sparseRank2(n, p int) (*mat.Dense, []bool) {
	vals := mat.NewDense(n, p, nil)
	obs := make([]bool, n*p)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			if (i*p+j)%7 == 3 {
				continue
			}
			obs[i*p+j] = true
			vals.Set(i, j, (1+0.1*float64(i))*math.Cos(0.3*float64(j))+math.Sin(float64(i))*(1+0.05*float64(j)))
		}
	}

	return vals, obs
}

func TestSoftImpute_StopsAtFixedPoint(t *testing.T) {
	vals, obs := sparseRank2(21, 15)
	opts := DefaultCompletionOptions()
	opts.Lambda = 0.01
	opts.MaxRank = 15
	opts.MaxIters = 50000
	opts.Tol = 1e-8

	comp := &Completion{}
	Z, err := softImpute(vals, obs, opts, comp)
	require.NoError(t, err)
	require.True(t, comp.Converged)
	assert.Greater(t, comp.Iterations, 2, "a handful of moving cells must not stop the solver early")

	next := mat.NewDense(21, 15, nil)
	_, err = softSweep(vals, obs, Z, next, opts.Lambda, opts.MaxRank)
	require.NoError(t, err)
	var diff mat.Dense
	diff.Sub(next, Z)
	assert.LessOrEqual(t, mat.Norm(&diff, 2), 1e-6*mat.Norm(Z, 2))
}

func TestCompleteRowMeans(t *testing.T) {
	vals := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 100, 0})
	obs := []bool{true, true, true, true, true, false}
	assert.Equal(t, []float64{2, 3}, completeRowMeans(vals, obs))

	none := []bool{true, false, false, true, true, false}
	assert.Equal(t, []float64{0, 0}, completeRowMeans(vals, none))
}

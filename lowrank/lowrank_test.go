package lowrank_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthbal/lowrank"
	"github.com/katalvlaran/synthbal/matrix"
)

// wavy is a full-rank deterministic matrix.
func wavy(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = math.Sin(float64(i)*1.3+float64(j)*0.7) + 0.1*float64(i) + 0.05*float64(i*j%5)
		}
	}
	X, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return X
}

// rank2 returns the exact rank-2 rows a_i·b_j.
func rank2(r, c int) [][]float64 {
	rows := make([][]float64, r)
	for i := range rows {
		a := []float64{1 + 0.1*float64(i), math.Sin(float64(i))}
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			b := []float64{math.Cos(0.3 * float64(j)), 1 + 0.05*float64(j)}
			rows[i][j] = a[0]*b[0] + a[1]*b[1]
		}
	}

	return rows
}

func TestProject_RoundTrip(t *testing.T) {
	X := wavy(t, 8, 6)
	for _, opts := range []lowrank.SVDOptions{
		{Rank: 6, CenterColumns: true},
		{Rank: 6},
		{Rank: 10, RemoveUnitMeans: true, CenterColumns: true, PrependMeans: true},
	} {
		p, err := lowrank.Project(X, opts)
		require.NoError(t, err)
		back, err := p.Reconstruct()
		require.NoError(t, err)
		ok, err := matrix.AllClose(X, back, 0, 1e-8)
		require.NoError(t, err)
		assert.True(t, ok, "%+v", opts)
	}
}

func TestProject_ReducedDesign(t *testing.T) {
	X, err := matrix.NewDenseFrom(rank2(10, 7))
	require.NoError(t, err)

	p, err := lowrank.Project(X, lowrank.SVDOptions{Rank: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Rank)
	assert.Equal(t, 10, p.Reduced.Rows())
	assert.Equal(t, 2, p.Reduced.Cols())
	assert.InDelta(t, 1.0, p.Energy(), 1e-12)
	assert.Len(t, p.Values, 7)

	// Scores are U Σ: column norms equal the singular values.
	for k := 0; k < 2; k++ {
		col, err := p.Reduced.Col(k)
		require.NoError(t, err)
		var s float64
		for _, v := range col {
			s += v * v
		}
		assert.InDelta(t, p.Values[k], math.Sqrt(s), 1e-9)
	}

	withMeans, err := lowrank.Project(X, lowrank.SVDOptions{Rank: 2, RemoveUnitMeans: true, PrependMeans: true})
	require.NoError(t, err)
	assert.Equal(t, 3, withMeans.Reduced.Cols())
	m0, err := withMeans.Reduced.Col(0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, withMeans.UnitMeans, m0, 0)
}

func TestProject_Rejects(t *testing.T) {
	X := wavy(t, 3, 3)
	_, err := lowrank.Project(X, lowrank.SVDOptions{})
	assert.ErrorIs(t, err, lowrank.ErrBadRank)
	_, err = lowrank.Project(X, lowrank.SVDOptions{Rank: 1, PrependMeans: true})
	assert.ErrorIs(t, err, lowrank.ErrBadOptions)
	_, err = lowrank.Project(nil, lowrank.DefaultSVDOptions())
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestSynthFit(t *testing.T) {
	C, err := matrix.NewDenseFrom([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}})
	require.NoError(t, err)

	inside, err := lowrank.SynthFit([]float64{0.2, 0.3, 0.5}, C, lowrank.DefaultSynthOptions())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.2, 0.3, 0.5, 0}, inside.Weights, 1e-4)
	assert.Less(t, inside.Objective, 1e-8)
	assert.Less(t, inside.Scaled, 1e-7)

	outside, err := lowrank.SynthFit([]float64{2, 2, 2}, C, lowrank.DefaultSynthOptions())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 1}, outside.Weights, 1e-6)
	assert.InDelta(t, 3.0, outside.Objective, 1e-6)
	assert.InDelta(t, 6.75, outside.Uniform, 1e-12)
	assert.InDelta(t, 3/6.75, outside.Scaled, 1e-6)

	var s float64
	for _, w := range outside.Weights {
		assert.GreaterOrEqual(t, w, 0.0)
		s += w
	}
	assert.InDelta(t, 1.0, s, 1e-12)

	_, err = lowrank.SynthFit([]float64{1, 2}, C, lowrank.DefaultSynthOptions())
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestSynth_TreatedMean(t *testing.T) {
	X, err := matrix.NewDenseFrom([][]float64{{0.5, 0.5, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	require.NoError(t, err)
	res, err := lowrank.Synth(X, []bool{true, false, false, false}, lowrank.DefaultSynthOptions())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0}, res.Weights, 1e-4)

	_, err = lowrank.Synth(X, []bool{false, false, false, false}, lowrank.DefaultSynthOptions())
	assert.ErrorIs(t, err, lowrank.ErrNoTreated)
}

func TestComplete_RecoversMissingCells(t *testing.T) {
	truth := rank2(20, 15)
	masked, err := matrix.NewDenseWith(20, 15, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	for i, row := range truth {
		for j, v := range row {
			if (i*7+j*3)%10 == 0 {
				v = math.NaN()
			}
			require.NoError(t, masked.Set(i, j, v))
		}
	}
	require.True(t, masked.HasNaN())

	soft := lowrank.DefaultCompletionOptions()
	soft.Lambda = 0.01
	soft.MaxRank = 5
	soft.MaxIters = 20000
	soft.Tol = 1e-9
	als := soft
	als.Method = lowrank.ALS
	als.MaxRank = 3
	als.Lambda = 1e-4

	for _, opts := range []lowrank.CompletionOptions{soft, als} {
		t.Run(opts.Method.String(), func(t *testing.T) {
			comp, err := lowrank.Complete(masked, opts)
			require.NoError(t, err)
			assert.False(t, comp.Completed.HasNaN())
			assert.LessOrEqual(t, comp.Rank, opts.MaxRank)
			for i, row := range truth {
				for j, want := range row {
					got, err := comp.Completed.At(i, j)
					require.NoError(t, err)
					if (i*7+j*3)%10 == 0 {
						assert.InDelta(t, want, got, 0.05, "imputed (%d,%d)", i, j)
					} else {
						assert.Equal(t, want, got, "observed cells are kept")
					}
				}
			}
		})
	}
}

func TestComplete_Rejects(t *testing.T) {
	Y := wavy(t, 3, 3)
	opts := lowrank.DefaultCompletionOptions()
	opts.MaxRank = 0
	_, err := lowrank.Complete(Y, opts)
	assert.ErrorIs(t, err, lowrank.ErrBadRank)

	allNaN, err := matrix.NewDenseWith(2, 2, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.NoError(t, allNaN.Set(i, j, math.NaN()))
		}
	}
	_, err = lowrank.Complete(allNaN, lowrank.DefaultCompletionOptions())
	assert.ErrorIs(t, err, lowrank.ErrNoObserved)
}

func TestImputeTreated(t *testing.T) {
	truth := rank2(21, 15)
	observed := make([][]float64, len(truth))
	for i, row := range truth {
		observed[i] = append([]float64(nil), row...)
		if i == 0 {
			for j := 10; j < 15; j++ {
				observed[i][j] += 3 // treatment effect
			}
		}
	}
	Y, err := matrix.NewDenseFrom(observed)
	require.NoError(t, err)
	trt := make([]bool, 21)
	trt[0] = true

	soft := lowrank.DefaultCompletionOptions()
	soft.Lambda = 0.01
	soft.MaxRank = 4
	soft.MaxIters = 20000
	soft.Tol = 1e-9

	als := lowrank.DefaultCompletionOptions()
	als.Method = lowrank.ALS
	als.Lambda = 1e-6
	als.MaxRank = 2
	als.MaxIters = 20000
	als.Tol = 1e-12

	for _, tc := range []struct {
		opts  lowrank.CompletionOptions
		delta float64
	}{
		{soft, 0.05},
		{als, 5e-3},
	} {
		t.Run(tc.opts.Method.String(), func(t *testing.T) {
			imp, err := lowrank.ImputeTreated(Y, trt, 10, tc.opts)
			require.NoError(t, err)
			require.Len(t, imp.Synthetic, 15)
			for j := 0; j < 15; j++ {
				assert.InDelta(t, truth[0][j], imp.Synthetic[j], tc.delta, "period %d", j)
			}
			for j := 0; j < 10; j++ {
				got, err := imp.Completion.Completed.At(0, j)
				require.NoError(t, err)
				assert.Equal(t, observed[0][j], got)
			}
		})
	}

	opts := soft
	_, err = lowrank.ImputeTreated(Y, trt, 0, opts)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = lowrank.ImputeTreated(Y, trt[:3], 10, opts)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

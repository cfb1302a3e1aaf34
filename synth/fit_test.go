package synth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthbal/balance"
	"github.com/katalvlaran/synthbal/panel"
	"github.com/katalvlaran/synthbal/search"
	"github.com/katalvlaran/synthbal/synth"
)

// corners builds a panel over times 1..4 (TInt 3) whose controls sit on the
// unit-square corners in the pre-period. Their post values are 2·(x+y), so
// any weights matching the treated pre-period give a post path of
// 2·(tx+ty). The treated unit adds effect after TInt.
func corners(tx, ty, effect float64, outcome string) []panel.Observation {
	units := []struct {
		id   string
		x, y float64
	}{{"t", tx, ty}, {"c00", 0, 0}, {"c10", 1, 0}, {"c01", 0, 1}, {"c11", 1, 1}}

	var obs []panel.Observation
	for _, u := range units {
		post := 2 * (u.x + u.y)
		isTrt := u.id == "t"
		if isTrt {
			post += effect
		}
		for t, v := range []float64{u.x, u.y, post, post} {
			obs = append(obs, panel.Observation{
				Unit:    u.id,
				Time:    t + 1,
				Value:   v,
				Treated: isTrt && t+1 >= 3,
				Outcome: outcome,
			})
		}
	}

	return obs
}

func format(t *testing.T, obs []panel.Observation) *panel.Panel {
	t.Helper()
	p, err := panel.Format(obs, panel.DefaultFormatOptions())
	require.NoError(t, err)

	return p
}

func TestFit_BalanceRecoversEffect(t *testing.T) {
	p := format(t, corners(0.5, 0.5, 3, "y"))
	cfg := synth.DefaultConfig()
	cfg.Balance = cfg.Balance.WithTolerance(0)

	res, err := synth.Fit(p, cfg)
	require.NoError(t, err)
	assert.True(t, res.Feasible)
	assert.Equal(t, "balance", res.Method)
	assert.Equal(t, []string{"c00", "c10", "c01", "c11"}, res.Controls)
	for _, w := range res.Weights {
		assert.InDelta(t, 0.25, w, 1e-6)
	}
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 2, 2}, res.Synthetic, 1e-6)
	assert.InDeltaSlice(t, []float64{0, 0, 3, 3}, res.Effects, 1e-6)
	assert.InDelta(t, 3.0, res.ATT, 1e-6)
	assert.InDelta(t, 0.0, res.PreRMSE, 1e-6)
	require.NotNil(t, res.Balance)

	assert.Len(t, res.Table, 5*4+4)
	last := res.Table[len(res.Table)-1]
	assert.Equal(t, synth.SyntheticUnit, last.Unit)
	assert.Equal(t, 4, last.Time)
	assert.InDelta(t, 2.0, last.Value, 1e-6)
}

func TestFit_SynthMethod(t *testing.T) {
	p := format(t, corners(0.3, 0.6, 1, "y"))
	cfg := synth.DefaultConfig()
	cfg.Method = synth.MethodSynth

	res, err := synth.Fit(p, cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Synth)
	assert.InDelta(t, 1.0, sum(res.Weights), 1e-9)
	assert.InDeltaSlice(t, []float64{0.3, 0.6, 1.8, 1.8}, res.Synthetic, 1e-4)
	assert.InDelta(t, 1.0, res.ATT, 1e-4)
}

func TestFitCompletion(t *testing.T) {
	p := format(t, corners(0.5, 0.5, 3, "y"))
	cfg := synth.DefaultConfig()
	cfg.Completion.Lambda = 0.01

	res, err := synth.FitCompletion(p, cfg)
	require.NoError(t, err)
	assert.Equal(t, "completion", res.Method)
	require.NotNil(t, res.Completion)
	assert.Nil(t, res.Weights)
	assert.Len(t, res.Synthetic, 4)
	assert.InDelta(t, 3.0, res.ATT, 0.5)
}

func TestFit_Calibration(t *testing.T) {
	// Elementwise distance 1.05 from the hull: 1.1 is the first feasible
	// grid value.
	p := format(t, corners(2.05, 2.05, 0, "y"))
	base := synth.DefaultConfig()

	t.Run("binary", func(t *testing.T) {
		cfg := base
		cfg.Calibrate = &synth.Calibration{Start: 0.1, End: 3, By: 0.1}
		res, err := synth.Fit(p, cfg)
		require.NoError(t, err)
		assert.True(t, res.Feasible)
		assert.InDelta(t, 1.1, res.Tolerance, 1e-9)
	})

	t.Run("lexical", func(t *testing.T) {
		cfg := base
		cfg.Calibrate = &synth.Calibration{Start: 0.1, End: 3, By: 0.1, GroupSize: 1}
		res, err := synth.Fit(p, cfg)
		require.NoError(t, err)
		assert.True(t, res.Feasible)
		assert.Empty(t, res.Unresolved)
		require.Len(t, res.Tolerances, 2)
		for _, tol := range res.Tolerances {
			assert.InDelta(t, 1.1, tol, 1e-9)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		cfg := base
		cfg.Calibrate = &synth.Calibration{Start: 0.1, End: 0.9, By: 0.1}
		_, err := synth.Fit(p, cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, search.ErrSearchExhausted)
		var ce *synth.CalibrationError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "failed to find a synthetic control with balance better than 0.9", err.Error())
	})
}

func TestFit_SimulatedPanel(t *testing.T) {
	sim := func(controls int) *panel.Panel {
		so := panel.DefaultSimOptions()
		so.Controls = controls
		obs, err := panel.Simulate(so)
		require.NoError(t, err)

		return format(t, obs)
	}

	cfg := synth.DefaultConfig()
	cfg.Balance = cfg.Balance.WithTolerance(100)
	res, err := synth.Fit(sim(50), cfg)
	require.NoError(t, err)
	assert.True(t, res.Feasible)
	assert.Len(t, res.Weights, 50)
	assert.Len(t, res.Effects, 90)

	cfg.Balance = cfg.Balance.WithTolerance(0)
	cfg.Balance.Opts.MaxIters = 3000
	res, err = synth.Fit(sim(10), cfg)
	require.NoError(t, err)
	assert.False(t, res.Feasible)
}

func TestFit_Rejects(t *testing.T) {
	p := format(t, corners(0.5, 0.5, 0, "y"))
	cfg := synth.DefaultConfig()
	cfg.Method = synth.Method(9)
	_, err := synth.Fit(p, cfg)
	assert.ErrorIs(t, err, synth.ErrUnknownMethod)

	cfg = synth.DefaultConfig()
	cfg.Balance.Link = balance.LinkKind(9)
	_, err = synth.Fit(p, cfg)
	assert.ErrorIs(t, err, balance.ErrUnknownLink)

	_, err = synth.ParseMethod("lasso")
	assert.ErrorIs(t, err, synth.ErrUnknownMethod)
	m, err := synth.ParseMethod("MC")
	require.NoError(t, err)
	assert.Equal(t, synth.MethodCompletion, m)
}

func TestFitOutcomes_KeepsOutcomeOrder(t *testing.T) {
	obs := append(corners(0.5, 0.5, 3, "gdp"), corners(0.5, 0.5, 1, "emp")...)
	cfg := synth.DefaultConfig()
	cfg.Balance = cfg.Balance.WithTolerance(0)
	cfg.Workers = 2

	m, err := synth.FitOutcomes(context.Background(), obs, panel.DefaultFormatOptions(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"gdp", "emp"}, m.Outcomes)
	require.Len(t, m.Results, 2)
	assert.InDelta(t, 3.0, m.Results[0].ATT, 1e-6)
	assert.InDelta(t, 1.0, m.Results[1].ATT, 1e-6)
	require.Len(t, m.Table, 2*24)
	assert.Equal(t, "gdp", m.Table[0].Outcome)
	assert.Equal(t, "emp", m.Table[len(m.Table)-1].Outcome)

	_, err = synth.FitOutcomes(context.Background(), nil, panel.DefaultFormatOptions(), cfg)
	assert.ErrorIs(t, err, panel.ErrEmptyPanel)
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}

	return s
}

package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthbal/balance"
	"github.com/katalvlaran/synthbal/config"
	"github.com/katalvlaran/synthbal/cv"
	"github.com/katalvlaran/synthbal/lowrank"
	"github.com/katalvlaran/synthbal/synth"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synthbal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_DefaultsAreValid(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), *cfg)

	opts, err := cfg.BalanceOptions()
	require.NoError(t, err)
	assert.Equal(t, balance.DefaultOptions(), opts)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
logging:
  level: debug
fit:
  regularizer: l2
  lambda: 0.75
  rank: 3
  calibrate:
    enabled: true
    start: 0.5
    end: 4
    by: 0.5
cv:
  method: loo
  grid: [1, 2]
`)
	t.Setenv("SYNTHBAL_FIT_LAMBDA", "1.5")
	t.Setenv("SYNTHBAL_CV_GRID", "0.1,0.2,0.3")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format, "unset keys keep defaults")
	assert.Equal(t, 1.5, cfg.Fit.Lambda, "environment wins over the file")
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, cfg.CV.Grid)

	sc, err := cfg.SynthConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, synth.MethodBalance, sc.Method)
	assert.Equal(t, balance.RegL2, sc.Balance.Regularizer)
	assert.Equal(t, 1.5, sc.Balance.Lambda)
	require.NotNil(t, sc.Reduce)
	assert.Equal(t, 3, sc.Reduce.Rank)
	require.NotNil(t, sc.Calibrate)
	assert.Equal(t, synth.Calibration{Start: 0.5, End: 4, By: 0.5}, *sc.Calibrate)

	m, opts, err := cfg.CVOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, cv.MethodLOO, m)
	assert.Equal(t, 5, opts.K)
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"unknown link", "fit:\n  link: probit\n", "fit.link must be one of"},
		{"negative lambda", "fit:\n  lambda: -1\n", "fit.lambda must be gte 0"},
		{"empty grid", "cv:\n  grid: []\n", "cv.grid must be min 1"},
		{"end before start", "fit:\n  calibrate: {start: 2, end: 1}\n", "fit.calibrate.end must be gtefield"},
		{"eps needs l1", "fit:\n  regularizer: l2\n  eps: [1, 2]\n", "fit.eps requires regularizer l1"},
		{"lbfgs needs smooth", "fit:\n  solver: lbfgs\n", "solver lbfgs needs a smooth regularizer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tc.body))
			require.ErrorIs(t, err, config.ErrInvalid)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	_, err := config.Load(writeFile(t, "fit:\n  bogus: 1\n"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	t.Setenv("SYNTHBAL_CV_K", "many")
	_, err = config.Load("")
	assert.ErrorContains(t, err, "failed to load config from env")
}

func TestSynthConfig_Completion(t *testing.T) {
	cfg := config.Default()
	cfg.Fit.Method = "completion"
	cfg.Fit.Completion.Algorithm = "als"
	cfg.Fit.Completion.MaxRank = 2

	sc, err := cfg.SynthConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, synth.MethodCompletion, sc.Method)
	assert.Equal(t, lowrank.ALS, sc.Completion.Method)
	assert.Equal(t, 2, sc.Completion.MaxRank)
	assert.Nil(t, sc.Reduce)
	assert.Nil(t, sc.Calibrate)
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "warn"
	var buf bytes.Buffer
	log, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	cfg.Logging.Level = "loud"
	_, err = cfg.NewLogger(&buf)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestSimOptions(t *testing.T) {
	cfg := config.Default()
	so := cfg.SimOptions()
	assert.Equal(t, 50, so.Controls)
	assert.Equal(t, uint64(1011), so.Seed)
}

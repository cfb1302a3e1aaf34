package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/katalvlaran/synthbal/balance"
	"github.com/katalvlaran/synthbal/cv"
	"github.com/katalvlaran/synthbal/lowrank"
	"github.com/katalvlaran/synthbal/panel"
	"github.com/katalvlaran/synthbal/synth"
)

// BalanceOptions converts the fit section to optimizer options.
func (c *Config) BalanceOptions() (balance.Options, error) {
	f := c.Fit
	opts := balance.DefaultOptions()

	var err error
	if opts.Link, err = balance.ParseLink(f.Link); err != nil {
		return opts, err
	}
	if opts.Regularizer, err = balance.ParseRegularizer(f.Regularizer); err != nil {
		return opts, err
	}
	if opts.Solver, err = balance.ParseSolver(f.Solver); err != nil {
		return opts, err
	}
	opts.Normalized = f.Normalized
	opts.Lambda = f.Lambda
	if len(f.Eps) > 0 {
		opts = opts.WithEps(f.Eps)
	}
	opts.Opts = balance.SolverOpts{MaxIters: f.MaxIters, Eps: f.EpsConv}
	opts.FeasTol = f.FeasTol

	return opts, nil
}

// SynthConfig converts the fit section to a pipeline configuration.
func (c *Config) SynthConfig(logger *slog.Logger) (synth.Config, error) {
	cfg := synth.DefaultConfig()
	cfg.Logger = logger
	cfg.Workers = c.Fit.Workers

	var err error
	if cfg.Method, err = synth.ParseMethod(c.Fit.Method); err != nil {
		return cfg, err
	}
	if cfg.Balance, err = c.BalanceOptions(); err != nil {
		return cfg, err
	}
	if c.Fit.Rank > 0 {
		red := lowrank.DefaultSVDOptions()
		red.Rank = c.Fit.Rank
		cfg.Reduce = &red
	}
	if cal := c.Fit.Calibrate; cal.Enabled {
		cfg.Calibrate = &synth.Calibration{Start: cal.Start, End: cal.End, By: cal.By, GroupSize: cal.GroupSize}
	}

	comp := c.Fit.Completion
	if comp.Algorithm == "als" {
		cfg.Completion.Method = lowrank.ALS
	}
	cfg.Completion.Lambda = comp.Lambda
	cfg.Completion.MaxRank = comp.MaxRank
	cfg.Completion.Seed = comp.Seed

	return cfg, nil
}

// CVOptions converts the cv section.
func (c *Config) CVOptions(logger *slog.Logger) (cv.Method, cv.Options, error) {
	m, err := cv.ParseMethod(c.CV.Method)
	if err != nil {
		return "", cv.Options{}, err
	}

	return m, cv.Options{K: c.CV.K, B: c.CV.B, Seed: c.CV.Seed, Workers: c.CV.Workers, Logger: logger}, nil
}

// SimOptions converts the simulation section.
func (c *Config) SimOptions() panel.SimOptions {
	s := c.Simulation

	return panel.SimOptions{
		Controls: s.Controls,
		Treated:  s.Treated,
		Pre:      s.Pre,
		Post:     s.Post,
		Factors:  s.Factors,
		Noise:    s.Noise,
		Effect:   s.Effect,
		Seed:     s.Seed,
		Outcome:  s.Outcome,
	}
}

// NewLogger builds the slog logger described by the logging section.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return nil, fmt.Errorf("%w: logging.level: %v", ErrInvalid, err)
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(c.Logging.Format) {
	case "text":
		h = slog.NewTextHandler(w, hopts)
	default:
		h = slog.NewJSONHandler(w, hopts)
	}

	return slog.New(h), nil
}

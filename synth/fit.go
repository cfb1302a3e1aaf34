package synth

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/synthbal/balance"
	"github.com/katalvlaran/synthbal/lowrank"
	"github.com/katalvlaran/synthbal/matrix"
	"github.com/katalvlaran/synthbal/panel"
	"github.com/katalvlaran/synthbal/search"
)

// SyntheticUnit is the unit id of the synthetic rows in Result.Table.
const SyntheticUnit = "synthetic"

// Result is one pipeline fit.
type Result struct {
	Method   string `json:"method"`
	Outcome  string `json:"outcome,omitempty"`
	Feasible bool   `json:"feasible"`

	// Tolerance is the scalar tolerance of a balance fit; a lexical
	// calibration sets Tolerances instead.
	Tolerance  float64   `json:"tolerance,omitempty"`
	Tolerances []float64 `json:"tolerances,omitempty"`
	Unresolved []string  `json:"unresolved,omitempty"`

	Controls []string  `json:"controls"`
	Weights  []float64 `json:"weights,omitempty"`

	Times     []int     `json:"times"`
	TInt      int       `json:"t_int"`
	Observed  []float64 `json:"observed"`
	Synthetic []float64 `json:"synthetic"`
	Effects   []float64 `json:"effects"`
	ATT       float64   `json:"att"`
	PreRMSE   float64   `json:"pre_rmse"`

	Balance    *balance.Result      `json:"-"`
	Synth      *lowrank.SynthResult `json:"-"`
	Completion *lowrank.Completion  `json:"-"`

	Table []panel.Observation `json:"-"`
}

// Fit runs the configured method on a formatted panel.
//
// Errors:
//   - *CalibrationError when a calibration finds no feasible tolerance.
//   - balance, lowrank and search input errors, wrapped.
func Fit(p *panel.Panel, cfg Config) (*Result, error) {
	log := cfg.logger().With("outcome", p.Meta.Outcome, "method", cfg.Method.String())
	res := &Result{
		Method:   cfg.Method.String(),
		Outcome:  p.Meta.Outcome,
		Controls: p.Meta.Controls,
		Times:    p.Meta.Times,
		TInt:     p.Meta.TInt,
	}

	var err error
	switch cfg.Method {
	case MethodBalance:
		err = fitBalance(p, cfg, res, log)
	case MethodSynth:
		err = fitSynth(p, cfg, res)
	case MethodCompletion:
		err = fitCompletion(p, cfg, res)
	default:
		err = fmt.Errorf("%d: %w", int(cfg.Method), ErrUnknownMethod)
	}
	if err != nil {
		return nil, err
	}

	if err = res.summarize(p); err != nil {
		return nil, err
	}
	log.Info("synthetic control fitted",
		slog.Bool("feasible", res.Feasible),
		slog.Float64("tolerance", res.Tolerance),
		slog.Float64("att", res.ATT),
		slog.Float64("pre_rmse", res.PreRMSE))

	return res, nil
}

// FitCompletion is Fit with MethodCompletion.
func FitCompletion(p *panel.Panel, cfg Config) (*Result, error) {
	cfg.Method = MethodCompletion

	return Fit(p, cfg)
}

// design returns the balancing design: pre-period outcomes, or their SVD
// reduction when configured.
func design(p *panel.Panel, cfg Config) (*matrix.Dense, error) {
	if cfg.Reduce == nil {
		return p.Pre, nil
	}
	proj, err := lowrank.Project(p.Pre, *cfg.Reduce)
	if err != nil {
		return nil, fmt.Errorf("synth: reduce: %w", err)
	}
	cfg.logger().Debug("design reduced", "rank", proj.Rank, "energy", proj.Energy())

	return proj.Reduced, nil
}

func fitBalance(p *panel.Panel, cfg Config, res *Result, log *slog.Logger) error {
	X, err := design(p, cfg)
	if err != nil {
		return err
	}
	opts := cfg.Balance
	res.Tolerance = opts.Lambda

	if cal := cfg.Calibrate; cal != nil {
		if opts, err = calibrate(X, p.Treated, opts, cal, res, log); err != nil {
			return err
		}
	}

	opt, err := balance.NewOptimizer(opts)
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	fit, err := opt.Solve(balance.Problem{X: X, Treated: p.Treated, Outcomes: p.Outcomes})
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	res.Balance = fit
	res.Feasible = fit.Feasible
	res.Weights = fit.Weights
	res.Synthetic = fit.Imputed
	log.Debug("balance solved",
		"iterations", fit.Iterations,
		"converged", fit.Converged,
		"linf", fit.Linf,
		"effective_n", fit.EffectiveN())

	return nil
}

// calibrate searches the tolerance and returns the options to fit with.
func calibrate(X *matrix.Dense, trt []bool, opts balance.Options, cal *Calibration, res *Result, log *slog.Logger) (balance.Options, error) {
	grid, err := search.NewGrid(cal.Start, cal.End, cal.By)
	if err != nil {
		return opts, fmt.Errorf("synth: calibrate: %w", err)
	}
	pr := balance.Problem{X: X, Treated: trt}

	if cal.GroupSize <= 0 {
		out, err := search.Binary(grid, search.BalanceOracle(opts, pr))
		if errors.Is(err, search.ErrSearchExhausted) {
			return opts, &CalibrationError{Bound: cal.End}
		}
		if err != nil {
			return opts, fmt.Errorf("synth: calibrate: %w", err)
		}
		log.Debug("tolerance calibrated", "tolerance", out.Value, "oracle_calls", out.Calls())
		res.Tolerance = out.Value

		return opts.WithTolerance(out.Value), nil
	}

	groups := search.ChunkGroups(X.Cols(), cal.GroupSize)
	lex, err := search.Lexical(groups, X.Cols(), grid, search.BalanceVectorOracle(opts, pr), search.LexicalOptions{})
	if err != nil {
		return opts, fmt.Errorf("synth: calibrate: %w", err)
	}
	if len(lex.Resolved) == 0 {
		return opts, &CalibrationError{Bound: cal.End, Unresolved: lex.Unresolved}
	}
	if !lex.Complete() {
		log.Warn("lexical calibration incomplete", "unresolved", lex.Unresolved)
	}
	log.Debug("tolerances calibrated", "groups", len(lex.Resolved), "oracle_calls", lex.Calls)
	res.Tolerance = 0
	res.Tolerances = lex.Vector()
	res.Unresolved = lex.Unresolved
	opts.Regularizer = balance.RegL1

	return opts.WithEps(res.Tolerances), nil
}

func fitSynth(p *panel.Panel, cfg Config, res *Result) error {
	X, err := design(p, cfg)
	if err != nil {
		return err
	}
	fit, err := lowrank.Synth(X, p.Treated, cfg.Synth)
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	ctrl, err := p.Outcomes.SelectRows(p.ControlRows())
	if err != nil {
		return err
	}
	if res.Synthetic, err = matrix.VecMat(fit.Weights, ctrl); err != nil {
		return err
	}
	res.Synth = fit
	res.Weights = fit.Weights
	res.Feasible = fit.Converged

	return nil
}

func fitCompletion(p *panel.Panel, cfg Config, res *Result) error {
	imp, err := lowrank.ImputeTreated(p.Outcomes, p.Treated, len(p.Meta.PreTimes), cfg.Completion)
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	res.Completion = imp.Completion
	res.Synthetic = imp.Synthetic
	res.Feasible = imp.Completion.Converged

	return nil
}

// summarize derives the observed treated path, effects, ATT, pre-period fit
// and the outcomes table from res.Synthetic.
func (r *Result) summarize(p *panel.Panel) error {
	trt, err := p.Outcomes.SelectRows(p.TreatedRows())
	if err != nil {
		return err
	}
	if r.Observed, err = matrix.ColMeans(trt); err != nil {
		return err
	}
	r.Effects = make([]float64, len(r.Observed))
	floats.SubTo(r.Effects, r.Observed, r.Synthetic)

	nPre := len(p.Meta.PreTimes)
	pre, post := r.Effects[:nPre], r.Effects[nPre:]
	r.PreRMSE = math.Sqrt(floats.Dot(pre, pre) / float64(nPre))
	if len(post) > 0 {
		r.ATT = stat.Mean(post, nil)
	}

	r.Table = p.Observations()
	for j, t := range p.Meta.Times {
		r.Table = append(r.Table, panel.Observation{
			Unit:    SyntheticUnit,
			Time:    t,
			Value:   r.Synthetic[j],
			Outcome: p.Meta.Outcome,
		})
	}

	return nil
}

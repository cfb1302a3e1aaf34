package synth

import (
	"context"
	"fmt"

	"github.com/katalvlaran/synthbal/cv"
	"github.com/katalvlaran/synthbal/panel"
)

// Multi collects one Result per outcome type, in first-appearance order.
type Multi struct {
	Outcomes []string
	Results  []*Result
	Table    []panel.Observation
}

// FitOutcomes splits obs by outcome type, formats and fits each group with
// cfg, and concatenates the tables in outcome order. Groups run on up to
// cfg.Workers goroutines; the first failure cancels the rest.
func FitOutcomes(ctx context.Context, obs []panel.Observation, fopts panel.FormatOptions, cfg Config) (*Multi, error) {
	groups := panel.SplitByOutcome(obs)
	if len(groups) == 0 {
		return nil, panel.ErrEmptyPanel
	}
	log := cfg.logger()
	log.Info("fitting outcomes", "count", len(groups))

	results, err := cv.ParallelMap(ctx, len(groups), cfg.Workers, func(_ context.Context, i int) (*Result, error) {
		g := groups[i]
		p, err := panel.Format(g.Obs, fopts)
		if err != nil {
			return nil, fmt.Errorf("outcome %q: %w", g.Name, err)
		}
		res, err := Fit(p, cfg)
		if err != nil {
			return nil, fmt.Errorf("outcome %q: %w", g.Name, err)
		}

		return res, nil
	})
	if err != nil {
		return nil, err
	}

	m := &Multi{Results: results}
	for i, r := range results {
		m.Outcomes = append(m.Outcomes, groups[i].Name)
		m.Table = append(m.Table, r.Table...)
	}

	return m, nil
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/synthbal/panel"
	"github.com/katalvlaran/synthbal/synth"
)

type fitOutput struct {
	RunID   string              `json:"run_id"`
	Results []*synth.Result     `json:"results"`
	Table   []panel.Observation `json:"table,omitempty"`
}

func newFitCmd(a *app) *cobra.Command {
	var (
		outcomes []string
		table    bool
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a synthetic control per outcome and print the results as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			obs, err := a.simulate(outcomes)
			if err != nil {
				return a.fail("simulation failed", err)
			}
			cfg, err := a.cfg.SynthConfig(a.log)
			if err != nil {
				return a.fail("bad fit configuration", err)
			}

			m, err := synth.FitOutcomes(cmd.Context(), obs, panel.DefaultFormatOptions(), cfg)
			if err != nil {
				return a.fail("fit failed", err)
			}

			out := fitOutput{RunID: a.runID, Results: m.Results}
			if table {
				out.Table = m.Table
			}

			return a.emit(out)
		},
	}
	cmd.Flags().StringSliceVar(&outcomes, "outcomes", nil, "outcome names to simulate (default: simulation.outcome)")
	cmd.Flags().BoolVar(&table, "table", false, "include the observed and synthetic outcomes table")

	return cmd
}

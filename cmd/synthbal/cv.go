package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/synthbal/cv"
	"github.com/katalvlaran/synthbal/panel"
)

type cvOutput struct {
	RunID  string     `json:"run_id"`
	Report *cv.Report `json:"report"`
}

func newCVCmd(a *app) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "cv",
		Short: "Select the balance tolerance by cross-validation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			obs, err := a.simulate(nil)
			if err != nil {
				return a.fail("simulation failed", err)
			}
			p, err := panel.Format(obs, panel.DefaultFormatOptions())
			if err != nil {
				return a.fail("format failed", err)
			}

			if method != "" {
				a.cfg.CV.Method = method
			}
			m, opts, err := a.cfg.CVOptions(a.log)
			if err != nil {
				return a.fail("bad cv configuration", err)
			}
			base, err := a.cfg.BalanceOptions()
			if err != nil {
				return a.fail("bad fit configuration", err)
			}

			rep, err := cv.Run(cmd.Context(), m, p.Pre, p.Treated, a.cfg.CV.Grid, base, opts)
			if err != nil {
				return a.fail("cross-validation failed", fmt.Errorf("%s: %w", m, err))
			}

			return a.emit(cvOutput{RunID: a.runID, Report: rep})
		},
	}
	cmd.Flags().StringVar(&method, "method", "", "loo, kfold or bootstrap (overrides cv.method)")

	return cmd
}

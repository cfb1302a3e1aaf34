package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/synthbal/config"
	"github.com/katalvlaran/synthbal/panel"
)

// app carries what every subcommand shares.
type app struct {
	configPath string

	out    io.Writer
	errOut io.Writer

	cfg   *config.Config
	log   *slog.Logger
	runID string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "synthbal",
		Short:         "Synthetic control and balancing weights",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")

	root.AddCommand(newFitCmd(a), newCVCmd(a))

	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		fmt.Fprintln(a.errOut, err)
		return err
	}
	log, err := cfg.NewLogger(a.errOut)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.runID = uuid.NewString()
	a.log = log.With("run_id", a.runID)

	return nil
}

// simulate draws one panel per outcome name. Each outcome gets its own seed
// offset so the panels differ.
func (a *app) simulate(outcomes []string) ([]panel.Observation, error) {
	so := a.cfg.SimOptions()
	if len(outcomes) == 0 {
		outcomes = []string{so.Outcome}
	}

	var obs []panel.Observation
	for k, name := range outcomes {
		o := so
		o.Outcome = name
		o.Seed += uint64(k)
		part, err := panel.Simulate(o)
		if err != nil {
			return nil, err
		}
		obs = append(obs, part...)
	}
	a.log.Info("panel simulated",
		"outcomes", len(outcomes),
		"controls", so.Controls,
		"pre", so.Pre,
		"post", so.Post,
		"seed", so.Seed)

	return obs, nil
}

// emit writes v as indented JSON.
func (a *app) emit(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// fail logs err and returns it to cobra.
func (a *app) fail(msg string, err error) error {
	a.log.Error(msg, "error", err)

	return err
}

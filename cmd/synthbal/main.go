// Command synthbal fits synthetic controls and balancing weights on
// simulated factor-model panels and prints the results as JSON.
//
//	synthbal fit --config synthbal.yaml
//	synthbal fit --outcomes gdp,emp --table
//	synthbal cv --method loo
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

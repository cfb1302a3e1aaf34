package balance_test

import (
	"testing"

	"github.com/katalvlaran/synthbal/balance"
)

func BenchmarkSolve_LogitL1(b *testing.B) {
	p := simulated(b, 50)
	opt, err := balance.NewOptimizer(balance.DefaultOptions().WithTolerance(0.5))
	if err != nil {
		b.Fatal(err)
	}
	pr := balance.Problem{X: p.Pre, Treated: p.Treated, Outcomes: p.Outcomes}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = opt.Solve(pr); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolve_RidgeLBFGS(b *testing.B) {
	p := simulated(b, 50)
	opts := balance.DefaultOptions()
	opts.Regularizer = balance.RegRidge
	opts.Lambda = 1
	opts.Solver = balance.SolverLBFGS
	opt, err := balance.NewOptimizer(opts)
	if err != nil {
		b.Fatal(err)
	}
	pr := balance.Problem{X: p.Pre, Treated: p.Treated}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = opt.Solve(pr); err != nil {
			b.Fatal(err)
		}
	}
}

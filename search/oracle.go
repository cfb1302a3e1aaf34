package search

import (
	"github.com/katalvlaran/synthbal/balance"
)

// BalanceOracle returns an Oracle that solves pr with base and the scalar
// tolerance under test, reporting Result.Feasible.
func BalanceOracle(base balance.Options, pr balance.Problem) Oracle {
	return func(tol float64) (bool, error) {
		opt, err := balance.NewOptimizer(base.WithTolerance(tol))
		if err != nil {
			return false, err
		}
		fit, err := opt.Solve(pr)
		if err != nil {
			return false, err
		}

		return fit.Feasible, nil
	}
}

// BalanceVectorOracle returns a VectorOracle for elementwise (l1) tolerances.
// The base regularizer is forced to balance.RegL1.
func BalanceVectorOracle(base balance.Options, pr balance.Problem) VectorOracle {
	base.Regularizer = balance.RegL1

	return func(eps []float64) (bool, error) {
		opt, err := balance.NewOptimizer(base.WithEps(eps))
		if err != nil {
			return false, err
		}
		fit, err := opt.Solve(pr)
		if err != nil {
			return false, err
		}

		return fit.Feasible, nil
	}
}

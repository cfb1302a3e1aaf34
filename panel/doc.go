// Package panel reshapes long-format panel observations into the wide design
// matrices consumed by the balancing optimizer.
//
// 🚀 What is a panel here?
//
//	A set of units observed over the same time grid. Some units become
//	treated at time TInt; every other unit is a control. The formatter
//	produces:
//	  • Outcomes: units × all times
//	  • Pre: units × pre-treatment times (the design matrix X)
//	  • Post: units × post-treatment times
//	  • Treated: one flag per row, treated units first
//
// ✨ Key features:
//   - strict validation: duplicates, missing cells, no treated/control units
//   - stable ordering: treated block first, each block in first-appearance order
//   - multi-outcome split preserving outcome order (SplitByOutcome)
//   - seeded factor-model simulator for reproducible experiments (Simulate)
//
// ⚙️ Usage:
//
//	p, err := panel.Format(obs, panel.DefaultFormatOptions())
//	if err != nil {
//	  // handle ErrUnbalancedPanel, ErrNoTreated, ...
//	}
//	X, trt := p.Pre, p.Treated
package panel

// Package synthbal estimates synthetic controls and balancing weights for
// panel data.
//
// 🚀 What is inside?
//
//	panel/    long-format observations ⇄ wide unit × period matrices, simulation
//	matrix/   row-major Dense storage, kernels, centering, gonum bridge
//	balance/  dual balancing optimizer (logit, linear, pos-linear links;
//	          l1, l2, linf, ridge, none regularizers; APG and L-BFGS)
//	search/   smallest feasible tolerance: binary and lexical searches
//	lowrank/  SVD projection, simplex synthetic control, matrix completion
//	cv/       leave-one-out, k-fold and bootstrap hyperparameter selection
//	synth/    the end-to-end pipeline and multi-outcome fits
//	config/   YAML + environment configuration
//
// The synthbal command (cmd/synthbal) wraps the pipeline: fit and cv.
//
// ✨ Typical use
//
//	p, _ := panel.Format(obs, panel.DefaultFormatOptions())
//	cfg := synth.DefaultConfig()
//	cfg.Calibrate = &synth.Calibration{Start: 0, End: 10, By: 0.1}
//	res, err := synth.Fit(p, cfg)
package synthbal

// Package synth runs the synthetic-control pipeline end to end.
//
//	observations ─ panel.Format ─▶ Panel
//	Panel.Pre ─ [lowrank.Project] ─▶ design X
//	X ─ [search.Binary | search.Lexical] ─▶ tolerance
//	X, tolerance ─ balance.Optimizer ─▶ weights ─▶ synthetic path, effects, ATT
//
// Two outcome-model alternatives share the same Result: MethodSynth fits
// simplex weights by least squares (lowrank.Synth) and MethodCompletion
// imputes the treated control-state path by matrix completion.
//
// A calibration that finds no feasible tolerance is the one fatal outcome:
// Fit returns a *CalibrationError ("failed to find a synthetic control with
// balance better than ..."). An uncalibrated infeasible fit is returned with
// Result.Feasible == false.
package synth

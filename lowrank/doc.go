// Package lowrank reduces and completes panel outcome matrices.
//
// ✨ Projection (Project)
//
//	Optionally remove per-unit means, center columns, take a thin SVD and keep
//	the top r components scaled by their singular values (U_r Σ_r) as a
//	reduced design. The removed unit means may be prepended as an extra
//	column. Projection.Reconstruct inverts the pipeline.
//
// ✨ Synth re-weighting (SynthFit, Synth)
//
//	Nonnegative weights summing to one minimizing ‖x_T − Σ w_i x_i‖², solved
//	by accelerated projected gradient onto the simplex. Scaled reports the
//	objective relative to uniform weights.
//
// ✨ Completion (Complete, ImputeTreated)
//
//	Nuclear-norm matrix completion by SoftImpute (soft-thresholded SVD) or
//	alternating ridge regressions (ALS). NaN cells are missing. ImputeTreated
//	masks treated post-period cells and returns their control-state fit.
//	Columns are centered on the fully observed rows only, so the centered
//	matrix keeps the rank of the input. Observed cells pass through unchanged.
//
// ⚙️ Factorizations and solves run on gonum/mat.
package lowrank

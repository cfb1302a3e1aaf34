// Package cv selects the balance tolerance by cross-validation.
//
// Three harnesses share one shape: for every hyperparameter in a grid, run
// many independent balance solves, reduce them to a mean squared error and
// pick the argmin (first occurrence wins ties).
//
//   - LeaveOneOut: each control in turn plays the treated unit, is balanced
//     against the remaining controls without the last pre-period, and is
//     scored on the prediction of that held-out period.
//   - KFold: controls are shuffled into K folds; weights fitted on K−1 folds
//     plus the treated units are carried to the held-out fold through the
//     configured link and scored by the squared imbalance there.
//   - Bootstrap: one fit per hyperparameter on the full data, then B control
//     resamples scored by their mean squared imbalance.
//
// Work units run through ParallelMap (errgroup with a worker limit). Random
// draws come from PCG streams derived from (Seed, index), so results do not
// depend on the number of workers.
package cv

// SPDX-License-Identifier: MIT

// Package matrix is the dense storage layer under the balancing code.
//
// 🚀 What it provides
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set, copy-based
//     Row/Col/SelectRows/SelectCols and a finite-value policy (NaN marks a
//     missing cell only when built WithNoValidateNaNInf).
//   - Kernels on the Matrix interface: Sub, Mul, Transpose, Scale, MatVec,
//     VecMat (weighted row combinations) and AllClose.
//   - Centering: ColMeans, RowMeans, CenterColumns, CenterRows.
//   - A gonum bridge (ToGonum, FromGonum) for SVD and linear solves.
//
// ⚙️ Conventions
//
// Rows are units and columns are periods (or reduced components). Kernels
// take a *Dense fast path and fall back to At/Set with a fixed i→j order for
// other Matrix implementations, so results do not depend on the concrete type.
// Inputs are never mutated.
//
// 🛑 Errors
//
// Every failure wraps one sentinel from errors.go (ErrInvalidDimensions,
// ErrOutOfRange, ErrDimensionMismatch, ErrRaggedInput, ErrNaNInf,
// ErrNilMatrix); match with errors.Is.
package matrix

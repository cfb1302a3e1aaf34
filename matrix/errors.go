// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. Kernels return these sentinels (optionally wrapped with an operation
// tag) and tests match them via errors.Is. No kernel panics on user input.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." so that wrapped chains coming
// out of the optimizer or the pipeline still point at the storage layer.
// Wrap with fmt.Errorf("ctx: %w", ErrX) at the outer boundary only.
//
// ERROR PRIORITY (checked in this order by kernels):
// nil -> shape -> index -> NaN/Inf.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	// Public indexers (At/Set/Row/Col) return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. a weight vector whose length differs from the row count, or a
	// treatment indicator misaligned with the design matrix.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrRaggedInput signals that a [][]float64 literal has rows of unequal length.
	ErrRaggedInput = errors.New("matrix: ragged row input")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")
)

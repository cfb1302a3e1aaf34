// SPDX-License-Identifier: MIT

// Package matrix - bridge to gonum/mat.
//
// Factorizations (thin SVD, linear solves) are delegated to gonum; the bridge
// keeps the row-major layout so conversion is a single buffer copy.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ToGonum copies m into a freshly allocated *mat.Dense.
// Complexity: O(r*c).
func ToGonum(m Matrix) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("ToGonum", err)
	}
	if d, ok := m.(*Dense); ok {
		buf := make([]float64, len(d.data))
		copy(buf, d.data)

		return mat.NewDense(d.r, d.c, buf), nil
	}
	r, c := m.Rows(), m.Cols()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, matrixErrorf("ToGonum", err)
			}
			out.Set(i, j, v)
		}
	}

	return out, nil
}

// FromGonum copies any gonum matrix into a *Dense with the default numeric policy.
// Errors: ErrInvalidDimensions for empty inputs, ErrNaNInf for non-finite cells.
func FromGonum(g mat.Matrix) (*Dense, error) {
	r, c := g.Dims()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf("FromGonum", err)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := g.At(i, j)
			if isNonFinite(v) {
				return nil, matrixErrorf("FromGonum", fmt.Errorf("(%d,%d): %w", i, j, ErrNaNInf))
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}

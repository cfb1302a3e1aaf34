// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/synthbal/matrix"
)

func TestValidators(t *testing.T) {
	a := dense(t, [][]float64{{1, 2}, {3, 4}})
	b := dense(t, [][]float64{{1, 2, 3}})
	var typedNil *matrix.Dense

	assert.NoError(t, matrix.ValidateNotNil(a))
	assert.ErrorIs(t, matrix.ValidateNotNil(nil), matrix.ErrNilMatrix)
	assert.ErrorIs(t, matrix.ValidateNotNil(typedNil), matrix.ErrNilMatrix)

	assert.NoError(t, matrix.ValidateSameShape(a, a))
	assert.ErrorIs(t, matrix.ValidateSameShape(a, b), matrix.ErrDimensionMismatch)
	assert.ErrorIs(t, matrix.ValidateBinarySameShape(a, typedNil), matrix.ErrNilMatrix)

	assert.NoError(t, matrix.ValidateMulCompatible(b, dense(t, [][]float64{{1}, {2}, {3}})))
	assert.ErrorIs(t, matrix.ValidateMulCompatible(a, b), matrix.ErrDimensionMismatch)

	assert.NoError(t, matrix.ValidateVecLen([]float64{1, 2}, 2))
	assert.ErrorIs(t, matrix.ValidateVecLen(nil, 0), matrix.ErrNilMatrix)
	assert.ErrorIs(t, matrix.ValidateVecLen([]float64{1}, 2), matrix.ErrDimensionMismatch)
}

func TestValidateFinite(t *testing.T) {
	ok := dense(t, [][]float64{{1, 2}})
	assert.NoError(t, matrix.ValidateFinite(ok))
	assert.NoError(t, matrix.ValidateFinite(hide{ok}))

	bad, err := matrix.NewDenseFrom([][]float64{{1, math.NaN()}}, matrix.WithNoValidateNaNInf())
	assert.NoError(t, err)
	assert.ErrorIs(t, matrix.ValidateFinite(bad), matrix.ErrNaNInf)
	assert.ErrorIs(t, matrix.ValidateFinite(hide{bad}), matrix.ErrNaNInf)
	assert.ErrorIs(t, matrix.ValidateFinite(nil), matrix.ErrNilMatrix)
}

// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the centering transforms used by the rank-reduction step
//     (remove per-unit levels, then per-period means) as deterministic loops.
//
// Exposed API:
//   - ColMeans(X)        -> means               // per-column mean
//   - RowMeans(X)        -> means               // per-row mean (unit level)
//   - CenterColumns(X)   -> (Xc, means)         // subtract per-column mean
//   - CenterRows(X)      -> (Xc, means)         // subtract per-row mean
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Dense fast-paths avoid At/Set and operate on row-major flat buffers.

package matrix

const (
	opCenterColumns = "CenterColumns"
	opCenterRows    = "CenterRows"
	opColMeans      = "ColMeans"
	opRowMeans      = "RowMeans"
)

// ColMeans returns Σ_i X[i,j] / r for every column j.
// Errors: ErrNilMatrix, wrapped At errors on the fallback path.
// Complexity: O(r*c).
func ColMeans(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColMeans, err)
	}
	r, c := X.Rows(), X.Cols()
	means := make([]float64, c)

	var i, j int
	if d, ok := X.(*Dense); ok {
		for i = 0; i < r; i++ {
			base := i * c
			for j = 0; j < c; j++ {
				means[j] += d.data[base+j]
			}
		}
	} else {
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				v, err := X.At(i, j)
				if err != nil {
					return nil, matrixErrorf(opColMeans, err)
				}
				means[j] += v
			}
		}
	}
	invR := 1.0 / float64(r)
	for j = 0; j < c; j++ {
		means[j] *= invR
	}

	return means, nil
}

// RowMeans returns Σ_j X[i,j] / c for every row i.
// Complexity: O(r*c).
func RowMeans(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opRowMeans, err)
	}
	r, c := X.Rows(), X.Cols()
	means := make([]float64, r)

	var i, j int
	var s float64
	if d, ok := X.(*Dense); ok {
		for i = 0; i < r; i++ {
			s = 0.0
			base := i * c
			for j = 0; j < c; j++ {
				s += d.data[base+j]
			}
			means[i] = s / float64(c)
		}

		return means, nil
	}
	for i = 0; i < r; i++ {
		s = 0.0
		for j = 0; j < c; j++ {
			v, err := X.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opRowMeans, err)
			}
			s += v
		}
		means[i] = s / float64(c)
	}

	return means, nil
}

// CenterColumns returns a centered copy Xc = X − mean(X, by columns) and the
// column means (length = Cols(X)).
//
// Behavior highlights:
//   - Deterministic i→j traversal; inputs are not mutated.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
//
// AI-Hints:
//   - Keep the returned means to un-center a low-rank reconstruction.
func CenterColumns(X Matrix) (*Dense, []float64, error) {
	means, err := ColMeans(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	Xc, err := broadcastSub(X, means, false)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	return Xc, means, nil
}

// CenterRows returns a centered copy Xc[i,*] = X[i,*] − mean(X[i,*]) and the
// row means (unit levels when rows are units).
// Complexity: O(r*c).
func CenterRows(X Matrix) (*Dense, []float64, error) {
	means, err := RowMeans(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterRows, err)
	}
	Xc, err := broadcastSub(X, means, true)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterRows, err)
	}

	return Xc, means, nil
}

// broadcastSub subtracts v along rows (byRow: v[i] from row i) or along
// columns (v[j] from column j) into a fresh Dense.
func broadcastSub(X Matrix, v []float64, byRow bool) (*Dense, error) {
	r, c := X.Rows(), X.Cols()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}

	var i, j int
	var x float64
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if x, err = X.At(i, j); err != nil {
				return nil, err
			}
			if byRow {
				out.data[i*c+j] = x - v[i]
			} else {
				out.data[i*c+j] = x - v[j]
			}
		}
	}

	return out, nil
}

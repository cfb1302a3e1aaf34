// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//   - Support copy-based row/column extraction (SelectRows/SelectCols) so callers can
//     split a design matrix into treated/control or train/held-out blocks.
//
// AI-Hints:
//   - Hot loops in the optimizer should call ToRows once and iterate the plain slices.
//   - Use SelectRows to build fold/bootstrap designs; the result never aliases the base.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); SelectRows: O(r'*c).

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt     = "At"
	ctxSet    = "Set"
	ctxRow    = "Row"
	ctxCol    = "Col"
	ctxSelect = "Select"
	ctxFrom   = "NewDenseFrom"
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Keeps the sentinel reachable via %w.
// Complexity: O(1).
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//   - validateNaNInf enables NaN/Inf rejection in Set (policy default from options.go).
type Dense struct {
	r, c           int       // row and column counts
	data           []float64 // contiguous row-major storage (len == r*c)
	validateNaNInf bool      // numeric guard: reject NaN/Inf in Set when true
}

var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
//
// Errors:
//   - ErrInvalidDimensions when rows<=0 or cols<=0.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		validateNaNInf: DefaultValidateNaNInf,
	}, nil
}

// NewDenseWith creates an r×c zero matrix under an explicit numeric policy.
// Completion routines use WithNoValidateNaNInf to keep NaN as "missing".
func NewDenseWith(rows, cols int, opts ...Option) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	m.validateNaNInf = gatherOptions(opts...).validateNaNInf

	return m, nil
}

// NewDenseFrom builds a Dense from a rectangular [][]float64 literal (copying).
// MAIN DESCRIPTION:
//   - Typical entry point for design matrices assembled by the panel formatter
//     or by tests.
//
// Implementation:
//   - Stage 1: validate non-empty and rectangular input.
//   - Stage 2: copy row by row; enforce the finite-value policy.
//
// Errors:
//   - ErrInvalidDimensions (no rows or empty first row), ErrRaggedInput,
//     ErrNaNInf when the default policy is on and a value is not finite.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDenseFrom(rows [][]float64, opts ...Option) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s: %w", ctxFrom, ErrInvalidDimensions)
	}
	o := gatherOptions(opts...)
	r, c := len(rows), len(rows[0])
	m := &Dense{r: r, c: c, data: make([]float64, r*c), validateNaNInf: o.validateNaNInf}

	var i, j int
	var v float64
	for i = 0; i < r; i++ {
		if len(rows[i]) != c {
			return nil, fmt.Errorf("%s: row %d has %d cols, want %d: %w", ctxFrom, i, len(rows[i]), c, ErrRaggedInput)
		}
		for j = 0; j < c; j++ {
			v = rows[i][j]
			if o.validateNaNInf && isNonFinite(v) {
				return nil, denseErrorf(ctxFrom, i, j, ErrNaNInf)
			}
			m.data[i*c+j] = v
		}
	}

	return m, nil
}

// Rows returns the row count.
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count.
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// indexOf computes the row-major offset or returns ErrOutOfRange.
// Public methods wrap the sentinel with their own context.
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// Set stores v at (row, col) or returns an error (bounds or numeric policy).
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if m.validateNaNInf && isNonFinite(v) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Clone returns a deep copy (new buffer, same numeric policy).
func (m *Dense) Clone() Matrix { return m.clone() }

// clone is the typed variant of Clone used internally.
func (m *Dense) clone() *Dense {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{r: m.r, c: m.c, data: cp, validateNaNInf: m.validateNaNInf}
}

// Row returns a copy of row i.
// Errors: ErrOutOfRange.
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.r {
		return nil, denseErrorf(ctxRow, i, 0, ErrOutOfRange)
	}
	out := make([]float64, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out, nil
}

// Col returns a copy of column j.
// Errors: ErrOutOfRange.
func (m *Dense) Col(j int) ([]float64, error) {
	if j < 0 || j >= m.c {
		return nil, denseErrorf(ctxCol, 0, j, ErrOutOfRange)
	}
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = m.data[i*m.c+j]
	}

	return out, nil
}

// ToRows materializes the matrix as independent row slices.
// Complexity: O(r*c) copy; callers own the result.
func (m *Dense) ToRows() [][]float64 {
	out := make([][]float64, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = make([]float64, m.c)
		copy(out[i], m.data[i*m.c:(i+1)*m.c])
	}

	return out
}

// String provides a readable row-wise dump for diagnostics.
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}

// SelectRows materializes a copy containing the given rows, in the given order.
// MAIN DESCRIPTION:
//   - Splits a design matrix into treated/control blocks, folds or bootstrap
//     resamples. Repeated indices are legal (bootstrap draws with replacement).
//
// Errors:
//   - ErrInvalidDimensions when idx is empty, ErrOutOfRange on a bad index.
//
// Complexity:
//   - Time O(len(idx)*c), Space O(len(idx)*c).
func (m *Dense) SelectRows(idx []int) (*Dense, error) {
	if len(idx) == 0 {
		return nil, fmt.Errorf("Dense.%s: %w", ctxSelect, ErrInvalidDimensions)
	}
	res := &Dense{r: len(idx), c: m.c, data: make([]float64, len(idx)*m.c), validateNaNInf: m.validateNaNInf}
	for k, ri := range idx {
		if ri < 0 || ri >= m.r {
			return nil, fmt.Errorf("Dense.%s: row index %d: %w", ctxSelect, ri, ErrOutOfRange)
		}
		copy(res.data[k*m.c:(k+1)*m.c], m.data[ri*m.c:(ri+1)*m.c])
	}

	return res, nil
}

// SelectCols materializes a copy containing the given columns, in the given order.
// Used to drop held-out pre-periods in leave-one-out validation.
//
// Errors:
//   - ErrInvalidDimensions when idx is empty, ErrOutOfRange on a bad index.
func (m *Dense) SelectCols(idx []int) (*Dense, error) {
	if len(idx) == 0 {
		return nil, fmt.Errorf("Dense.%s: %w", ctxSelect, ErrInvalidDimensions)
	}
	cp := len(idx)
	res := &Dense{r: m.r, c: cp, data: make([]float64, m.r*cp), validateNaNInf: m.validateNaNInf}
	var i, j, cj int
	for j = 0; j < cp; j++ {
		cj = idx[j]
		if cj < 0 || cj >= m.c {
			return nil, fmt.Errorf("Dense.%s: col index %d: %w", ctxSelect, cj, ErrOutOfRange)
		}
		for i = 0; i < m.r; i++ {
			res.data[i*cp+j] = m.data[i*m.c+cj]
		}
	}

	return res, nil
}

// Do visits each element (i,j) in row-major order and calls f(i,j,v).
// Returning false from f stops the walk.
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			if !f(i, j, m.data[base+j]) {
				return
			}
		}
	}
}

// HasNaN reports whether any cell is NaN. Completion masks rely on it.
func (m *Dense) HasNaN() bool {
	for _, v := range m.data {
		if math.IsNaN(v) {
			return true
		}
	}

	return false
}

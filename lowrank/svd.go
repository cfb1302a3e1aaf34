package lowrank

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/synthbal/matrix"
)

// SVDOptions configures Project.
//   - Rank: components kept (clipped to min(n, p)).
//   - RemoveUnitMeans: subtract each row's mean level first.
//   - CenterColumns: subtract column means before the SVD.
//   - PrependMeans: add the removed unit means as column 0 of Reduced.
type SVDOptions struct {
	Rank            int
	RemoveUnitMeans bool
	CenterColumns   bool
	PrependMeans    bool
}

// DefaultSVDOptions keeps five centered components.
func DefaultSVDOptions() SVDOptions {
	return SVDOptions{Rank: 5, CenterColumns: true}
}

// Projection is a reduced design and what is needed to undo it.
type Projection struct {
	Reduced   *matrix.Dense // n × Rank (+1 with PrependMeans)
	Values    []float64     // all singular values, descending
	Rank      int
	UnitMeans []float64 // nil unless RemoveUnitMeans
	ColMeans  []float64 // nil unless CenterColumns

	scores *mat.Dense // U_r Σ_r
	loads  *mat.Dense // V_r
}

// Project runs the reduction pipeline on X (units × periods).
func Project(X matrix.Matrix, opts SVDOptions) (*Projection, error) {
	if opts.Rank < 1 {
		return nil, ErrBadRank
	}
	if opts.PrependMeans && !opts.RemoveUnitMeans {
		return nil, fmt.Errorf("PrependMeans without RemoveUnitMeans: %w", ErrBadOptions)
	}
	if err := matrix.ValidateFinite(X); err != nil {
		return nil, err
	}

	p := &Projection{}
	work := X
	var err error
	if opts.RemoveUnitMeans {
		if work, p.UnitMeans, err = matrix.CenterRows(work); err != nil {
			return nil, err
		}
	}
	if opts.CenterColumns {
		if work, p.ColMeans, err = matrix.CenterColumns(work); err != nil {
			return nil, err
		}
	}
	g, err := matrix.ToGonum(work)
	if err != nil {
		return nil, err
	}

	var svd mat.SVD
	if ok := svd.Factorize(g, mat.SVDThin); !ok {
		return nil, fmt.Errorf("Project: %w", ErrFactorization)
	}
	p.Values = svd.Values(nil)
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)

	n, cols := g.Dims()
	r := min(opts.Rank, len(p.Values))
	p.Rank = r
	p.scores = mat.NewDense(n, r, nil)
	p.scores.Copy(U.Slice(0, n, 0, r))
	for k := 0; k < r; k++ {
		col := p.scores.ColView(k).(*mat.VecDense)
		col.ScaleVec(p.Values[k], col)
	}
	p.loads = mat.NewDense(cols, r, nil)
	p.loads.Copy(V.Slice(0, cols, 0, r))

	extra := 0
	if opts.PrependMeans {
		extra = 1
	}
	if p.Reduced, err = matrix.NewDense(n, r+extra); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if extra == 1 {
			_ = p.Reduced.Set(i, 0, p.UnitMeans[i])
		}
		for k := 0; k < r; k++ {
			_ = p.Reduced.Set(i, k+extra, p.scores.At(i, k))
		}
	}

	return p, nil
}

// Energy returns the share of squared singular mass kept by the projection.
func (p *Projection) Energy() float64 {
	var kept, total float64
	for k, s := range p.Values {
		total += s * s
		if k < p.Rank {
			kept += s * s
		}
	}
	if total == 0 {
		return 1
	}

	return kept / total
}

// Reconstruct returns U_r Σ_r V_rᵀ with column and unit means restored.
// With Rank = min(n, p) it reproduces the input up to rounding.
func (p *Projection) Reconstruct() (*matrix.Dense, error) {
	var out mat.Dense
	out.Mul(p.scores, p.loads.T())
	n, cols := out.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < cols; j++ {
			v := out.At(i, j)
			if p.ColMeans != nil {
				v += p.ColMeans[j]
			}
			if p.UnitMeans != nil {
				v += p.UnitMeans[i]
			}
			out.Set(i, j, v)
		}
	}

	return matrix.FromGonum(&out)
}

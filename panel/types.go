package panel

import "github.com/katalvlaran/synthbal/matrix"

// Observation is one long-format row: (unit, time, value, treated flag,
// optional outcome-type id). Observations are never mutated after ingestion.
type Observation struct {
	Unit    string  `json:"unit"`
	Time    int     `json:"time"`
	Value   float64 `json:"value"`
	Treated bool    `json:"treated"`
	Outcome string  `json:"outcome,omitempty"`
}

// Metadata describes the layout of a formatted Panel. Read-only per fit.
//
// Fields:
//   - TInt: first treated time; PreTimes are strictly before it.
//   - Units: row order of every matrix (treated block first).
//   - Treated: treated unit ids, in row order.
//   - Controls: control unit ids, in row order.
//   - Times: all time ids, ascending.
//   - Outcome: outcome-type id shared by every observation ("" if unused).
type Metadata struct {
	TInt      int
	Units     []string
	Treated   []string
	Controls  []string
	Times     []int
	PreTimes  []int
	PostTimes []int
	Outcome   string
}

// Panel is the wide representation of a balanced panel.
// Invariant: every matrix has len(Meta.Units) rows; Pre has len(PreTimes)
// columns; Post is nil when there is no post-period.
type Panel struct {
	Meta     Metadata
	Outcomes *matrix.Dense
	Pre      *matrix.Dense
	Post     *matrix.Dense
	Treated  []bool
}

// FormatOptions configures Format.
//
// Fields:
//   - TInt / UseTInt: override the inferred treatment time.
//   - SortUnits: order units lexicographically inside each block
//     instead of by first appearance.
type FormatOptions struct {
	TInt      int
	UseTInt   bool
	SortUnits bool
}

// DefaultFormatOptions returns the inference-based defaults.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{}
}

// TreatedRows returns the row indices of treated units.
func (p *Panel) TreatedRows() []int { return rowsWhere(p.Treated, true) }

// ControlRows returns the row indices of control units.
func (p *Panel) ControlRows() []int { return rowsWhere(p.Treated, false) }

func rowsWhere(flags []bool, want bool) []int {
	out := make([]int, 0, len(flags))
	for i, f := range flags {
		if f == want {
			out = append(out, i)
		}
	}

	return out
}

// Observations converts the panel back to long format, row by row and time
// by time. Treated flags are set for treated units at or after TInt.
func (p *Panel) Observations() []Observation {
	rows, cols := p.Outcomes.Shape()
	out := make([]Observation, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v, _ := p.Outcomes.At(i, j)
			t := p.Meta.Times[j]
			out = append(out, Observation{
				Unit:    p.Meta.Units[i],
				Time:    t,
				Value:   v,
				Treated: p.Treated[i] && t >= p.Meta.TInt,
				Outcome: p.Meta.Outcome,
			})
		}
	}

	return out
}

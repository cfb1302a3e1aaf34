package panel

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/synthbal/matrix"
)

// Format reshapes long-format observations into a wide Panel.
//
// Algorithm Outline:
//  1. Collect units (first-appearance order) and the sorted time grid.
//  2. A unit is treated if any of its rows carries Treated=true; TInt is the
//     earliest such time unless overridden.
//  3. Order rows: treated block, then controls (optionally sorted by id).
//  4. Fill units × times; reject duplicates and holes.
//  5. Slice Pre (t < TInt) and Post (t ≥ TInt) column blocks.
//
// Complexity:
//
//	Time   = O(N log N) for N observations (time sort)
//	Memory = O(units × times)
//
// Errors:
//   - ErrEmptyPanel, ErrDuplicateObservation, ErrUnbalancedPanel,
//     ErrNoTreated, ErrNoControls, ErrNoPrePeriod, ErrNonFinite.
func Format(obs []Observation, opts FormatOptions) (*Panel, error) {
	if len(obs) == 0 {
		return nil, ErrEmptyPanel
	}

	var (
		unitOrder []string
		seenUnit  = make(map[string]bool)
		treated   = make(map[string]bool)
		timeSet   = make(map[int]bool)
		tInt      = math.MaxInt
		outcome   = obs[0].Outcome
	)
	for _, o := range obs {
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			return nil, fmt.Errorf("unit %q time %d: %w", o.Unit, o.Time, ErrNonFinite)
		}
		if !seenUnit[o.Unit] {
			seenUnit[o.Unit] = true
			unitOrder = append(unitOrder, o.Unit)
		}
		timeSet[o.Time] = true
		if o.Treated {
			treated[o.Unit] = true
			if o.Time < tInt {
				tInt = o.Time
			}
		}
	}
	if len(treated) == 0 {
		return nil, ErrNoTreated
	}
	if len(treated) == len(unitOrder) {
		return nil, ErrNoControls
	}
	if opts.UseTInt {
		tInt = opts.TInt
	}

	times := make([]int, 0, len(timeSet))
	for t := range timeSet {
		times = append(times, t)
	}
	sort.Ints(times)

	var trtUnits, ctrlUnits []string
	for _, u := range unitOrder {
		if treated[u] {
			trtUnits = append(trtUnits, u)
		} else {
			ctrlUnits = append(ctrlUnits, u)
		}
	}
	if opts.SortUnits {
		sort.Strings(trtUnits)
		sort.Strings(ctrlUnits)
	}
	units := append(append([]string(nil), trtUnits...), ctrlUnits...)

	rowOf := make(map[string]int, len(units))
	for i, u := range units {
		rowOf[u] = i
	}
	colOf := make(map[int]int, len(times))
	for j, t := range times {
		colOf[t] = j
	}

	Y, err := matrix.NewDense(len(units), len(times))
	if err != nil {
		return nil, err
	}
	filled := make([]bool, len(units)*len(times))
	for _, o := range obs {
		i, j := rowOf[o.Unit], colOf[o.Time]
		if filled[i*len(times)+j] {
			return nil, fmt.Errorf("unit %q time %d: %w", o.Unit, o.Time, ErrDuplicateObservation)
		}
		filled[i*len(times)+j] = true
		if err = Y.Set(i, j, o.Value); err != nil {
			return nil, err
		}
	}
	for k, ok := range filled {
		if !ok {
			return nil, fmt.Errorf("unit %q time %d: %w", units[k/len(times)], times[k%len(times)], ErrUnbalancedPanel)
		}
	}

	var preCols, postCols []int
	var preTimes, postTimes []int
	for j, t := range times {
		if t < tInt {
			preCols = append(preCols, j)
			preTimes = append(preTimes, t)
		} else {
			postCols = append(postCols, j)
			postTimes = append(postTimes, t)
		}
	}
	if len(preCols) == 0 {
		return nil, ErrNoPrePeriod
	}
	pre, err := Y.SelectCols(preCols)
	if err != nil {
		return nil, err
	}
	var post *matrix.Dense
	if len(postCols) > 0 {
		if post, err = Y.SelectCols(postCols); err != nil {
			return nil, err
		}
	}

	flags := make([]bool, len(units))
	for i := range trtUnits {
		flags[i] = true
	}

	return &Panel{
		Meta: Metadata{
			TInt:      tInt,
			Units:     units,
			Treated:   trtUnits,
			Controls:  ctrlUnits,
			Times:     times,
			PreTimes:  preTimes,
			PostTimes: postTimes,
			Outcome:   outcome,
		},
		Outcomes: Y,
		Pre:      pre,
		Post:     post,
		Treated:  flags,
	}, nil
}

// OutcomeGroup is the set of observations sharing one outcome-type id.
type OutcomeGroup struct {
	Name string
	Obs  []Observation
}

// SplitByOutcome partitions observations by Outcome, preserving the order
// in which outcome levels first appear.
func SplitByOutcome(obs []Observation) []OutcomeGroup {
	idx := make(map[string]int)
	var groups []OutcomeGroup
	for _, o := range obs {
		k, ok := idx[o.Outcome]
		if !ok {
			k = len(groups)
			idx[o.Outcome] = k
			groups = append(groups, OutcomeGroup{Name: o.Outcome})
		}
		groups[k].Obs = append(groups[k].Obs, o)
	}

	return groups
}

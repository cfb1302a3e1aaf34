// Package search finds the tightest feasible balance tolerance on a grid.
//
// 🚀 Binary
//
//	Over an ascending candidate grid, probe the midpoint (floor, so even-length
//	ranges lean to the lower half); feasible ⇒ keep the lower half including
//	the midpoint, infeasible ⇒ keep the upper half. The single remaining
//	candidate is the answer if feasible, otherwise NotFound (−1) together
//	with ErrSearchExhausted. O(log n) oracle calls.
//
// ✨ Lexical
//
//	Constraint groups are resolved in priority order. While group k is
//	searched, groups before it hold their found tolerance and groups after it
//	hold a loose sentinel (1e10). A group without a feasible candidate stops
//	the walk: the partial result lists it, and every later group, in
//	Unresolved.
//
// ⚙️ The oracle must be monotone: a larger tolerance is never less feasible.
// BalanceOracle and BalanceVectorOracle wrap a balance.Optimizer so that
// each probe is one solve.
package search

// Package cover implements spec.md §4.8's minimum-disjunction search:
// given a set of tagged pure-part cases, decide whether their disjunction
// is valid and, if so, find a minimum subset that is still valid. The
// search is greedy (sort by size, grow a cover, then shrink) and consults
// an inconsistency oracle plus a cooperative time budget, exactly as
// spec.md describes.
package cover

import (
	"sort"

	"shprover/internal/heap"
)

// Case is one disjunct: a pure-part condition tagged with caller data.
type Case struct {
	Pi  heap.Pure
	Tag any
}

// Oracle decides whether a conjunction of (negated) cases is
// unsatisfiable. Callers wire this to the constraint engine plus
// check_inconsistency; cover stays agnostic to how that's decided.
type Oracle interface {
	// Unsat reports whether the conjunction of the pure parts in negated
	// is unsatisfiable (spec.md §4.8: "repeatedly negating each pi_i in
	// the candidate set and asking the inconsistency engine").
	Unsat(negated []heap.Pure) bool
}

// Budget is the cooperative time-budget hook spec.md §5 requires: Pay is
// called every tickEvery iterations and may abort the search.
type Budget interface {
	Pay() (ok bool)
}

// Outcome is the result of Find.
type Outcome int

const (
	// NotCovering: no subset of cases (including the full set) covers ⊤.
	NotCovering Outcome = iota
	// Covering: a minimum covering subset was found.
	Covering
	// BudgetExhausted: the time budget aborted the search before it could
	// decide either way.
	BudgetExhausted
)

// Result is the outcome of a cover search.
type Result struct {
	Outcome Outcome
	// Cases is the minimum covering subset when Outcome is Covering. When
	// the budget runs out while a covering set is being shrunk, Outcome is
	// BudgetExhausted and Cases holds the covering set reached so far.
	Cases []Case
}

// tickEvery is how many iterations elapse between Budget.Pay() calls
// (spec.md §4.8: "a time-budget tick is consulted every N iterations").
const tickEvery = 64

// negate builds the "negated" conjunction for an unsat query from one
// case's pure part. Pure itself has no negation operator, so this negates
// each atom with Atom.Negate and conjoins the results.
func negate(pi heap.Pure) heap.Pure {
	out := heap.NewPure()
	for _, a := range pi.Atoms() {
		out.Add(a.Negate())
	}
	return out
}

// Find decides whether cases covers true (⋁ pi_i ≡ ⊤) and, if so, returns
// a minimum covering subset. Coverage holds when negating every case's pi
// and conjoining them is unsatisfiable: if no case can simultaneously
// fail, the disjunction is total.
func Find(cases []Case, oracle Oracle, budget Budget) Result {
	ordered := append([]Case{}, cases...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Pi.Len() < ordered[j].Pi.Len()
	})

	iter := 0
	tick := func() bool {
		iter++
		if iter%tickEvery != 0 {
			return true
		}
		if budget == nil {
			return true
		}
		return budget.Pay()
	}

	// Grow: add cases one at a time (smallest pi first, a cheaper
	// disjunct covers more ground per case on average) until the negated
	// conjunction is unsatisfiable or the set is exhausted.
	covering := make([]Case, 0, len(ordered))
	for _, c := range ordered {
		if !tick() {
			return Result{Outcome: BudgetExhausted}
		}
		covering = append(covering, c)
		negated := negatedPis(covering)
		if oracle.Unsat(negated) {
			break
		}
	}
	if len(covering) == 0 || !oracle.Unsat(negatedPis(covering)) {
		return Result{Outcome: NotCovering}
	}

	// Shrink: try dropping each case in turn; keep the drop if the
	// remaining set still covers.
	for i := 0; i < len(covering); {
		if !tick() {
			return Result{Outcome: BudgetExhausted, Cases: covering}
		}
		trial := append(append([]Case{}, covering[:i]...), covering[i+1:]...)
		if len(trial) > 0 && oracle.Unsat(negatedPis(trial)) {
			covering = trial
			continue
		}
		i++
	}

	return Result{Outcome: Covering, Cases: covering}
}

func negatedPis(cases []Case) []heap.Pure {
	out := make([]heap.Pure, len(cases))
	for i, c := range cases {
		out[i] = negate(c.Pi)
	}
	return out
}

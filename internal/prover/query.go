package prover

import (
	"shprover/internal/diag"
	"shprover/internal/heap"
	"shprover/internal/term"
)

// CheckImplicationForFootprint is check_implication_for_footprint of
// spec.md §6: bi-abductive inference, always with calc_missing=true and
// check_frame_empty=false, returning the inferred frame and missing parts
// needed for downstream precondition synthesis. A MISSING_EXC-equivalent
// failure — footprint-mode recovery was not possible — surfaces as
// diag.MissingRequired rather than diag.ProofFailure (spec.md §9 open
// question: resolved by distinguishing the two failure kinds here).
func (pr *Prover) CheckImplicationForFootprint(p1, p2 *heap.Heap) (*Result, *diag.Failure) {
	res, fail := pr.CheckImplication(p1, p2, false, true)
	if fail != nil && fail.Kind == diag.ProofFailure {
		return nil, diag.New(diag.MissingRequired, fail.Reason, fail.Body)
	}
	return res, fail
}

// CheckAtom reports whether atom a is entailed by h's pure part alone
// (spec.md §6: "check_atom").
func (pr *Prover) CheckAtom(h *heap.Heap, a heap.Atom) bool {
	engine := buildEngine(h.Pure)
	return checkAtomAgainst(engine, h.Pure, a)
}

// CheckAtoms checks a batch of independent atoms against h in one engine
// build (cheaper than one CheckAtom call per atom), returning nil if every
// atom is entailed and otherwise an aggregated error — one diag.Failure
// per unentailed atom, combined via diag.Aggregate — so a caller checking
// many obligations at once (e.g. a full missing-pi set) gets the complete
// picture rather than stopping at the first failure.
func (pr *Prover) CheckAtoms(h *heap.Heap, atoms []heap.Atom) error {
	engine := buildEngine(h.Pure)
	var fails []*diag.Failure
	for _, a := range atoms {
		if !checkAtomAgainst(engine, h.Pure, a) {
			fails = append(fails, diag.New(diag.ProofFailure, "unsatisfied pure atom "+a.String(), a))
		}
	}
	return diag.Aggregate(fails...)
}

// CheckInconsistency reports whether h is provably inconsistent, either
// syntactically (spec.md §4.4) or via the saturated difference
// constraints (spec.md §4.3).
func (pr *Prover) CheckInconsistency(h *heap.Heap) bool {
	if heap.SyntacticInconsistency(h.Sigma) {
		return true
	}
	return buildEngine(h.Pure).Inconsistent()
}

// CheckAllocatedness reports whether addr is provably allocated in h: the
// root address of some points-to or the root of a provably-nonempty
// segment.
func (pr *Prover) CheckAllocatedness(h *heap.Heap, addr term.Expr) bool {
	engine := buildEngine(h.Pure)
	eq := func(a, b term.Expr) bool {
		if a.Equal(b) {
			return true
		}
		return engine.CheckLe(a, b) && engine.CheckLe(b, a)
	}
	for _, c := range h.Sigma {
		switch n := c.(type) {
		case *heap.PointsTo:
			if eq(n.Addr, addr) {
				return true
			}
		case *heap.Lseg:
			if n.Kind == heap.NE && eq(n.From, addr) {
				return true
			}
		case *heap.Dllseg:
			if n.Kind == heap.NE && eq(n.IF, addr) {
				return true
			}
		}
	}
	return false
}

// CheckDisequal reports whether a != b is entailed by h.
func (pr *Prover) CheckDisequal(h *heap.Heap, a, b term.Expr) bool {
	return pr.CheckAtom(h, heap.Neq(a, b))
}

// CheckEqual reports whether a == b is entailed by h.
func (pr *Prover) CheckEqual(h *heap.Heap, a, b term.Expr) bool {
	return pr.CheckAtom(h, heap.Eq(a, b))
}

// GetBounds returns the numeric upper/lower bounds derivable for e from
// h's pure part (spec.md §6: "get_bounds").
func (pr *Prover) GetBounds(h *heap.Heap, e term.Expr) (upper, lower *int64) {
	return buildEngine(h.Pure).Bounds(e)
}

// ComputeUpperBoundOfExp is the single-sided convenience wrapper spec.md
// §6 names explicitly ("compute_upper_bound_of_exp").
func (pr *Prover) ComputeUpperBoundOfExp(h *heap.Heap, e term.Expr) (int64, bool) {
	upper, _ := pr.GetBounds(h, e)
	if upper == nil {
		return 0, false
	}
	return *upper, true
}

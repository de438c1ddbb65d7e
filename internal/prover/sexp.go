package prover

import (
	"shprover/internal/heap"
	"shprover/internal/subst"
	"shprover/internal/term"
)

// sexpImply is spec.md §4.6's sexp_imply: structured-value entailment.
// Leaf pairs recurse through exp_imply directly; struct pairs walk both
// (sorted) field lists, recursing on shared fields and splitting
// left-only into frame, right-only into missing; arrays do the same by
// index.
func (pr *Prover) sexpImply(st *State, owner term.Expr, sR **subst.Subst, v1, v2 heap.SVal, calcMissing bool) bool {
	switch l := v1.(type) {
	case *heap.Leaf:
		r, ok := v2.(*heap.Leaf)
		if !ok {
			return false
		}
		return pr.expImply(st, sR, l.Exp, r.Exp, calcMissing)

	case *heap.Struct:
		r, ok := v2.(*heap.Struct)
		if !ok {
			return false
		}
		return pr.structImply(st, owner, sR, l, r, calcMissing)

	case *heap.Array:
		r, ok := v2.(*heap.Array)
		if !ok {
			return false
		}
		// spec.md §4.6: "Record a bounds check asserting the right array
		// length is <= the left, deferred to finalization."
		st.BoundsChecks = append(st.BoundsChecks, BoundsCheck{LenLeft: l.Length, LenRight: r.Length})
		return pr.arrayImply(st, owner, sR, l, r, calcMissing)
	default:
		return false
	}
}

// structImply merges two field lists, both sorted by name (spec.md §3
// invariant, maintained by heap.NewStruct).
func (pr *Prover) structImply(st *State, owner term.Expr, sR **subst.Subst, l, r *heap.Struct, calcMissing bool) bool {
	i, j := 0, 0
	for i < len(l.Fields) && j < len(r.Fields) {
		lf, rf := l.Fields[i], r.Fields[j]
		switch {
		case lf.Name < rf.Name:
			st.FrameFields = append(st.FrameFields, FieldObligation{Owner: owner, Field: lf.Name, Val: lf.Val})
			i++
		case lf.Name > rf.Name:
			if !calcMissing {
				return false
			}
			st.MissingFields = append(st.MissingFields, FieldObligation{Owner: owner, Field: rf.Name, Val: rf.Val})
			j++
		default:
			if !pr.sexpImply(st, owner, sR, lf.Val, rf.Val, calcMissing) {
				return false
			}
			i++
			j++
		}
	}
	for ; i < len(l.Fields); i++ {
		st.FrameFields = append(st.FrameFields, FieldObligation{Owner: owner, Field: l.Fields[i].Name, Val: l.Fields[i].Val})
	}
	for ; j < len(r.Fields); j++ {
		if !calcMissing {
			return false
		}
		st.MissingFields = append(st.MissingFields, FieldObligation{Owner: owner, Field: r.Fields[j].Name, Val: r.Fields[j].Val})
	}
	return true
}

func (pr *Prover) arrayImply(st *State, owner term.Expr, sR **subst.Subst, l, r *heap.Array, calcMissing bool) bool {
	matched := map[int]bool{}
	for _, re := range r.Entries {
		found := false
		for k, le := range l.Entries {
			if matched[k] {
				continue
			}
			if le.Index.Equal(re.Index) {
				if !pr.sexpImply(st, owner, sR, le.Val, re.Val, calcMissing) {
					return false
				}
				matched[k] = true
				found = true
				break
			}
		}
		if !found {
			if !calcMissing {
				return false
			}
			st.MissingFields = append(st.MissingFields, FieldObligation{Owner: owner, Field: re.Index.String(), Val: re.Val})
		}
	}
	for k, le := range l.Entries {
		if !matched[k] {
			st.FrameFields = append(st.FrameFields, FieldObligation{Owner: owner, Field: le.Index.String(), Val: le.Val})
		}
	}
	return true
}

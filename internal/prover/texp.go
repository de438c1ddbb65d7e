package prover

import (
	"shprover/internal/subtype"
	"shprover/internal/term"
)

// texpImply is spec.md §4.9's type entailment: `sizeof(t1,a1) |- sizeof(t2,a2)`.
// Plain scalar sizeofs (no subtype annotation on either side) just compare
// equal. Annotated (object-class) sizeofs run the subtype case analysis;
// a definite-negative result fails the entailment unless calcMissing, in
// which case it is recorded as a ClassCastCheck and the entailment
// proceeds (spec.md §4.9: "a definite negative raises a ClassCastCheck
// but does not fail the prover").
func (pr *Prover) texpImply(st *State, addr term.Expr, e1, e2 *term.Sizeof, calcMissing bool) bool {
	if e1.Annot == nil && e2.Annot == nil {
		return e1.Type == e2.Type && sizeofLengthsCompatible(e1, e2)
	}
	a1, a2 := e1.Annot, e2.Annot
	if a1 == nil {
		a1 = &term.SubtypeAnnotation{Exact: true}
	}
	if a2 == nil {
		a2 = &term.SubtypeAnnotation{Exact: true}
	}
	if a1.Usage == term.UsageInstanceOf || a2.Usage == term.UsageInstanceOf {
		// instanceof never fails the prover: a definite-no just means the
		// runtime check evaluates false, which is not the prover's concern.
		return true
	}

	r := subtype.Analyze(pr.Types, e1.Type, *a1, e2.Type, *a2)
	switch {
	case r.AlwaysSafe():
		return true
	case r.DefiniteError():
		if !calcMissing {
			return false
		}
		st.addCheck(&ClassCastCheck{Addr: addr, From: e1.Type, To: e2.Type, DefiniteNo: true})
		return true
	default: // consider both
		if calcMissing {
			st.MissingTyp = append(st.MissingTyp, TypeObligation{Expr: addr, From: e1.Type, To: e2.Type})
		}
		return true
	}
}

func sizeofLengthsCompatible(e1, e2 *term.Sizeof) bool {
	if e1.Length == nil && e2.Length == nil {
		return true
	}
	if e1.Length == nil || e2.Length == nil {
		return false
	}
	return e1.Length.Equal(e2.Length)
}

// Package subtype implements the cast case-analysis of spec.md §4.9: for
// an entailment on `sizeof(T1,ann1) |- sizeof(T2,ann2)` over dynamically-
// typed object types, compute the positive instantiation (subtypes
// admitting T1 <: T2) and the negative instantiation (subtypes admitting
// the opposite), consulting the caller-supplied subtype lattice
// (internal/typeenv.TypeEnv) through its narrow IsKnownSubtype interface.
package subtype

import "shprover/internal/term"

// Result reports which instantiations survive the case analysis. Both
// true means "consider both possibilities" (the usual, most conservative
// outcome); Positive-only means the cast is always safe; Negative-only is
// a definite class-cast error (spec.md §4.9).
type Result struct {
	Positive bool
	Negative bool
}

// Env is the narrow subtype-lattice query the case analysis needs.
type Env interface {
	IsKnownSubtype(a, b term.TypeName) bool
}

func contains(list []term.TypeName, t term.TypeName) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}

// Analyze performs the case analysis described above. t1/ann1 describe
// what is known about the object at the left-hand address; t2/ann2
// describe the shape being asked for on the right.
func Analyze(env Env, t1 term.TypeName, ann1 term.SubtypeAnnotation, t2 term.TypeName, ann2 term.SubtypeAnnotation) Result {
	definiteSub := env.IsKnownSubtype(t1, t2)
	definiteSuper := !definiteSub && t1 != t2 && env.IsKnownSubtype(t2, t1)
	excludedOnRight := contains(ann2.Excluding, t1)

	if ann1.Exact {
		// The dynamic type is known exactly to be t1: either it
		// definitely satisfies T2's annotation, or it definitely doesn't.
		if definiteSub && !excludedOnRight {
			return Result{Positive: true}
		}
		return Result{Negative: true}
	}

	// ann1 ranges over (unexcluded) subtypes of t1: the dynamic type could
	// be any of them, so unless the whole class is settled one way we
	// must consider both possibilities.
	switch {
	case definiteSub && !excludedOnRight:
		return Result{Positive: true}
	case !definiteSub && !definiteSuper:
		return Result{Negative: true}
	default:
		return Result{Positive: true, Negative: true}
	}
}

// ConsiderBoth reports whether both instantiations survive.
func (r Result) ConsiderBoth() bool { return r.Positive && r.Negative }

// AlwaysSafe reports whether the cast is definitely safe.
func (r Result) AlwaysSafe() bool { return r.Positive && !r.Negative }

// DefiniteError reports whether the cast is definitely unsafe.
func (r Result) DefiniteError() bool { return r.Negative && !r.Positive }

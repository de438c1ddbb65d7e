package prover

import (
	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/normalize"
	"shprover/internal/subst"
	"shprover/internal/term"
)

// expImply is spec.md §4.6's exp_imply: applies *sR (the right
// substitution) to e2 itself, then extends *sR so that e1 is
// guaranteed to be an instance of e2. Returns false only on a hard
// failure (occurs-check violation, or a genuine mismatch with
// calcMissing=false); a successful call may have extended *sR or recorded
// a missing-pi obligation on st.
func (pr *Prover) expImply(st *State, sR **subst.Subst, e1, e2 term.Expr, calcMissing bool) bool {
	e1 = normalize.Expr(e1)
	e2 = normalize.Expr(subst.Apply(*sR, e2))

	if v1, ok := e1.(*term.Var); ok {
		if v2, ok := e2.(*term.Var); ok {
			if v1.Id.Equal(v2.Id) {
				return true
			}
			if v2.Id.Kind == ident.Primed {
				// A primed right variable is bound to the left one. When
				// the left is primed too, this unifies the two directly,
				// without introducing an extra identifier.
				return extendRight(sR, v2.Id, e1)
			}
			// Distinct variables with a non-primed right side: not
			// syntactically equal, fall through to the generic
			// missing/fail handling below.
		}
	}

	// expression-primed-right (e1 not necessarily a Var here).
	if v2, ok := e2.(*term.Var); ok && v2.Id.Kind == ident.Primed {
		if term.Occurs(v2.Id, e1) {
			return false
		}
		return extendRight(sR, v2.Id, e1)
	}

	if c1, ok := e1.(*term.IntConst); ok {
		if c2, ok := e2.(*term.IntConst); ok {
			return c1.Val.Equal(c2.Val)
		}
	}

	// Linear rewrite: e2 = x + c, e1 = c0 (constant)  =>  recurse on
	// (c0 - c) |- x.
	if c0, ok := e1.(*term.IntConst); ok {
		if b, ok := e2.(*term.Binary); ok && b.Op == term.Add {
			if c, ok := b.R.(*term.IntConst); ok {
				rewritten := normalize.Expr(&term.Binary{Op: term.Sub, L: c0, R: c})
				return pr.expImply(st, sR, rewritten, b.L, calcMissing)
			}
		}
	}

	if s1, ok := e1.(*term.Sizeof); ok {
		if s2, ok := e2.(*term.Sizeof); ok {
			return pr.texpImply(st, nil, s1, s2, calcMissing)
		}
	}

	if f1, ok := e1.(*term.FieldOff); ok {
		if f2, ok := e2.(*term.FieldOff); ok && f1.Field == f2.Field {
			return pr.expImply(st, sR, f1.Base, f2.Base, calcMissing)
		}
	}
	if i1, ok := e1.(*term.IndexOff); ok {
		if i2, ok := e2.(*term.IndexOff); ok {
			return pr.expImply(st, sR, i1.Base, i2.Base, calcMissing) &&
				pr.expImply(st, sR, i1.Idx, i2.Idx, calcMissing)
		}
	}
	if b1, ok := e1.(*term.Binary); ok {
		if b2, ok := e2.(*term.Binary); ok && b1.Op == b2.Op {
			return pr.expImply(st, sR, b1.L, b2.L, calcMissing) &&
				pr.expImply(st, sR, b1.R, b2.R, calcMissing)
		}
	}
	if u1, ok := e1.(*term.Unary); ok {
		if u2, ok := e2.(*term.Unary); ok && u1.Op == u2.Op {
			return pr.expImply(st, sR, u1.X, u2.X, calcMissing)
		}
	}

	if e1.Equal(e2) {
		return true
	}

	if calcMissing {
		st.addMissingPi(heap.Eq(e1, e2))
		return true
	}
	return false
}

// extendRight binds id to e in *sR. If id is already bound (e.g. a primed
// right-var reached a second time through a different chunk, as in a
// segment's endpoint after its head cell already bound it), the two
// occurrences agree rather than fail so long as the existing image is
// syntactically equal to e (spec.md §4.6 exp_imply: "agree identity, or
// extend sigma_R at a primed right-var").
func extendRight(sR **subst.Subst, id ident.Ident, e term.Expr) bool {
	if cur, ok := (*sR).Find(id); ok {
		return cur.Equal(e)
	}
	next, ok := (*sR).Extend(id, e)
	if !ok {
		return false
	}
	*sR = next
	return true
}

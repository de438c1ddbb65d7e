// Package normalize implements the canonicalization rules of spec.md
// §4.1: constant folding over the integer model, rewrite of double
// negation and additive-inverse cancellation, associative re-grouping of
// additive chains, collapsing of identical-type casts, flattening of
// nested casts/sizeofs, canonical ordering of commutative operators, and
// rewriting `(e1 <= e2) = 1` into canonical relational atoms. Normalize is
// required to be a pure function of its input and idempotent
// (spec.md §3 invariant, §8 property 3).
package normalize

import (
	"shprover/internal/heap"
	"shprover/internal/term"
)

// Expr puts e into canonical form. It is a pure function: calling it
// twice on the same input (or once on an already-normal expression)
// yields a structurally-identical result (spec.md §3: "Normalization is
// required to be a function... idempotent").
func Expr(e term.Expr) term.Expr {
	switch n := e.(type) {
	case *term.Unary:
		x := Expr(n.X)
		if n.Op == term.Neg {
			// neg(neg x) -> x
			if inner, ok := x.(*term.Unary); ok && inner.Op == term.Neg {
				return inner.X
			}
			if c, ok := x.(*term.IntConst); ok {
				return &term.IntConst{Val: c.Val.Neg()}
			}
		}
		return &term.Unary{Op: n.Op, X: x}
	case *term.Binary:
		return normalizeBinary(n.Op, Expr(n.L), Expr(n.R))
	case *term.Cast:
		x := Expr(n.X)
		// collapsing of casts between identical types
		if inner, ok := x.(*term.Cast); ok {
			// flattening of nested casts: (T)((T)(x)) -> (T)x, (T2)((T1)x) -> (T2)x
			return &term.Cast{To: n.To, X: inner.X}
		}
		return &term.Cast{To: n.To, X: x}
	case *term.FieldOff:
		return &term.FieldOff{Base: Expr(n.Base), Field: n.Field}
	case *term.IndexOff:
		return &term.IndexOff{Base: Expr(n.Base), Idx: Expr(n.Idx)}
	case *term.Sizeof:
		out := &term.Sizeof{Type: n.Type, Annot: n.Annot}
		if n.Length != nil {
			out.Length = Expr(n.Length)
		}
		return out
	case *term.Tuple:
		elems := make([]term.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = Expr(el)
		}
		return &term.Tuple{Elems: elems}
	default:
		// Var, Loc, and the constant variants are already canonical leaves.
		return e
	}
}

// asIntConst extracts the IntVal carried by e, if e is exactly an integer
// constant.
func asIntConst(e term.Expr) (term.IntVal, bool) {
	c, ok := e.(*term.IntConst)
	if !ok {
		return term.IntVal{}, false
	}
	return c.Val, true
}

// splitAdditive decomposes e into (base, constantOffset) for an additive
// chain `x + c`, so that `(x + c1) + c2` folds to `x + (c1+c2)` (spec.md
// §4.1) regardless of which side of the outer `+` the constant appears on.
func splitAdditive(e term.Expr) (base term.Expr, off term.IntVal, hasOff bool) {
	if b, ok := e.(*term.Binary); ok && b.Op == term.Add {
		if c, ok := asIntConst(b.R); ok {
			return b.L, c, true
		}
		if c, ok := asIntConst(b.L); ok {
			return b.R, c, true
		}
	}
	return e, term.IntVal{}, false
}

func normalizeBinary(op term.BinOp, l, r term.Expr) term.Expr {
	// Constant folding.
	if lc, ok := asIntConst(l); ok {
		if rc, ok := asIntConst(r); ok {
			if folded, ok := foldConst(op, lc, rc); ok {
				return &term.IntConst{Val: folded}
			}
		}
	}

	if op == term.Add {
		// cancellation of additive inverses: x + (-x) -> 0, (-x) + x -> 0
		if un, ok := r.(*term.Unary); ok && un.Op == term.Neg && un.X.Equal(l) {
			return &term.IntConst{Val: term.Int(0)}
		}
		if un, ok := l.(*term.Unary); ok && un.Op == term.Neg && un.X.Equal(r) {
			return &term.IntConst{Val: term.Int(0)}
		}
		// (x + c1) + c2 -> x + (c1+c2), from either side.
		if base, c1, ok := splitAdditive(l); ok {
			if c2, ok := asIntConst(r); ok {
				return regroupAdd(base, c1.Add(c2))
			}
		}
		if base, c1, ok := splitAdditive(r); ok {
			if c2, ok := asIntConst(l); ok {
				return regroupAdd(base, c1.Add(c2))
			}
		}
	}

	// `(e1 <= e2) = 1` / `(e1 < e2) = 1` rewritten into canonical
	// relational atoms happens at the Atom level (see Atom below); at the
	// expression level we only canonicalize operand order.
	if op.Commutative() && term.Less(l, r) {
		l, r = r, l
	}
	return &term.Binary{Op: op, L: l, R: r}
}

func regroupAdd(base term.Expr, off term.IntVal) term.Expr {
	if off.Value == 0 {
		return base
	}
	return &term.Binary{Op: term.Add, L: base, R: &term.IntConst{Val: off}}
}

// foldConst evaluates op over two constants under the integer model's
// wraparound semantics (spec.md §3). Comparison operators fold to 0/1.
func foldConst(op term.BinOp, l, r term.IntVal) (term.IntVal, bool) {
	switch op {
	case term.Add:
		return l.Add(r), true
	case term.Sub:
		return l.Add(r.Neg()), true
	case term.Mul:
		return term.IntVal{Unsigned: l.Unsigned, Value: l.Value * r.Value}, true
	case term.BAnd:
		return term.IntVal{Unsigned: l.Unsigned, Value: l.Value & r.Value}, true
	case term.BOr:
		return term.IntVal{Unsigned: l.Unsigned, Value: l.Value | r.Value}, true
	case term.BXor:
		return term.IntVal{Unsigned: l.Unsigned, Value: l.Value ^ r.Value}, true
	case term.Eq:
		return boolVal(l.Equal(r)), true
	case term.Ne:
		return boolVal(!l.Equal(r)), true
	case term.Le:
		return boolVal(l.Compare(r) <= 0), true
	case term.Lt:
		return boolVal(l.Compare(r) < 0), true
	case term.Ge:
		return boolVal(l.Compare(r) >= 0), true
	case term.Gt:
		return boolVal(l.Compare(r) > 0), true
	case term.Div:
		if r.Value == 0 {
			return term.IntVal{}, false
		}
		return term.IntVal{Unsigned: l.Unsigned, Value: l.Value / r.Value}, true
	default:
		return term.IntVal{}, false
	}
}

func boolVal(b bool) term.IntVal {
	if b {
		return term.Int(1)
	}
	return term.Int(0)
}

// Atom canonicalizes a pure atom: normalizes both sides, and rewrites the
// `(e1 op e2) = 1` encoding into a direct Le/Lt atom (spec.md §4.1:
// "rewriting of (e1 <= e2) = 1 into canonical relational atoms").
func Atom(a heap.Atom) heap.Atom {
	switch a.Kind {
	case heap.AtomEq:
		l, r := Expr(a.L), Expr(a.R)
		if rel, ok := relationalEncoding(l, r); ok {
			return rel
		}
		if rel, ok := relationalEncoding(r, l); ok {
			return rel
		}
		if term.Less(r, l) {
			l, r = r, l
		}
		return heap.Eq(l, r)
	case heap.AtomNeq:
		l, r := Expr(a.L), Expr(a.R)
		if term.Less(r, l) {
			l, r = r, l
		}
		return heap.Neq(l, r)
	case heap.AtomLe:
		return heap.Le(Expr(a.L), Expr(a.R))
	case heap.AtomLt:
		return heap.Lt(Expr(a.L), Expr(a.R))
	case heap.AtomPred, heap.AtomNotPred:
		args := make([]term.Expr, len(a.Args))
		for i, arg := range a.Args {
			args[i] = Expr(arg)
		}
		return heap.Atom{Kind: a.Kind, Pred: a.Pred, Args: args}
	default:
		return a
	}
}

// relationalEncoding detects the `(e1 <= e2) = 1` / `(e1 < e2) = 1`
// shape (a Binary Le/Lt compared for equality against the constant 1) and
// rewrites it to the canonical Le/Lt atom.
func relationalEncoding(maybeRel, maybeOne term.Expr) (heap.Atom, bool) {
	one, ok := asIntConst(maybeOne)
	if !ok || one.Value != 1 || one.Pointer {
		return heap.Atom{}, false
	}
	b, ok := maybeRel.(*term.Binary)
	if !ok {
		return heap.Atom{}, false
	}
	switch b.Op {
	case term.Le:
		return heap.Le(b.L, b.R), true
	case term.Lt:
		return heap.Lt(b.L, b.R), true
	default:
		return heap.Atom{}, false
	}
}

// Pure normalizes every atom of a pure set.
func Pure(p heap.Pure) heap.Pure {
	out := heap.NewPure()
	for _, a := range p.Atoms() {
		out.Add(Atom(a))
	}
	return out
}

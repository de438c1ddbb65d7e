// Package heap implements the symbolic-heap data model of spec.md §3: the
// pure part (π), structured values, heap chunks (points-to, list
// segments, doubly-linked segments), inductive predicate parameters, and
// the symbolic heap triple (substitution, π, σ) itself.
package heap

import (
	"fmt"

	"shprover/internal/term"
)

// AtomKind distinguishes the pure-atom variants of spec.md §3: equality,
// disequality, and attribute predication (positive or negated). Relational
// atoms `(e <= f) = 1` / `(e < f) = 1` are represented directly as LeAtom/
// LtAtom rather than as their equality encoding, since every consumer
// (internal/constraint, the prover) wants them in that shape; the
// normalizer (spec.md §4.1) is what performs the textual rewrite from the
// `(e op f) = 1` encoding into these canonical atoms.
type AtomKind int

const (
	AtomEq AtomKind = iota
	AtomNeq
	AtomLe
	AtomLt
	AtomPred
	AtomNotPred
)

// Atom is one fact in the pure part π.
type Atom struct {
	Kind AtomKind
	L, R term.Expr // used by Eq/Neq/Le/Lt
	Pred string    // attribute predicate name, used by Pred/NotPred
	Args []term.Expr
}

func Eq(l, r term.Expr) Atom  { return Atom{Kind: AtomEq, L: l, R: r} }
func Neq(l, r term.Expr) Atom { return Atom{Kind: AtomNeq, L: l, R: r} }
func Le(l, r term.Expr) Atom  { return Atom{Kind: AtomLe, L: l, R: r} }
func Lt(l, r term.Expr) Atom  { return Atom{Kind: AtomLt, L: l, R: r} }
func Pred(name string, args ...term.Expr) Atom {
	return Atom{Kind: AtomPred, Pred: name, Args: args}
}
func NotPred(name string, args ...term.Expr) Atom {
	return Atom{Kind: AtomNotPred, Pred: name, Args: args}
}

func (a Atom) String() string {
	switch a.Kind {
	case AtomEq:
		return fmt.Sprintf("%s = %s", a.L, a.R)
	case AtomNeq:
		return fmt.Sprintf("%s != %s", a.L, a.R)
	case AtomLe:
		return fmt.Sprintf("%s <= %s", a.L, a.R)
	case AtomLt:
		return fmt.Sprintf("%s < %s", a.L, a.R)
	case AtomPred:
		return fmt.Sprintf("%s%s", a.Pred, exprList(a.Args))
	case AtomNotPred:
		return fmt.Sprintf("!%s%s", a.Pred, exprList(a.Args))
	default:
		return "?atom"
	}
}

func exprList(es []term.Expr) string {
	s := "("
	for i, e := range es {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

// Equal compares two atoms structurally.
func (a Atom) Equal(o Atom) bool {
	if a.Kind != o.Kind {
		return false
	}
	switch a.Kind {
	case AtomPred, AtomNotPred:
		if a.Pred != o.Pred || len(a.Args) != len(o.Args) {
			return false
		}
		for i := range a.Args {
			if !a.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	default:
		return a.L.Equal(o.L) && a.R.Equal(o.R)
	}
}

// Negate returns the logical negation of a, used when the cover search
// (internal/cover) tests candidate disjunctions.
func (a Atom) Negate() Atom {
	switch a.Kind {
	case AtomEq:
		return Neq(a.L, a.R)
	case AtomNeq:
		return Eq(a.L, a.R)
	case AtomLe:
		// not (l <= r)  ==  r < l
		return Lt(a.R, a.L)
	case AtomLt:
		// not (l < r)  ==  r <= l
		return Le(a.R, a.L)
	case AtomPred:
		return NotPred(a.Pred, a.Args...)
	case AtomNotPred:
		return Pred(a.Pred, a.Args...)
	default:
		return a
	}
}

// Pure is a duplicate-free set of atoms kept in insertion order; Add
// finds duplicates by a linear scan.
type Pure struct {
	atoms []Atom
}

// NewPure builds a Pure set from atoms, deduplicating.
func NewPure(atoms ...Atom) Pure {
	p := Pure{}
	for _, a := range atoms {
		p.Add(a)
	}
	return p
}

// Add inserts a into the set if not already present (by Equal).
func (p *Pure) Add(a Atom) {
	for _, existing := range p.atoms {
		if existing.Equal(a) {
			return
		}
	}
	p.atoms = append(p.atoms, a)
}

// Atoms returns the atoms in insertion order. Callers must not mutate the
// returned slice.
func (p Pure) Atoms() []Atom { return p.atoms }

// Len reports the number of atoms.
func (p Pure) Len() int { return len(p.atoms) }

// Union returns a fresh Pure containing the atoms of both p and o.
func (p Pure) Union(o Pure) Pure {
	out := NewPure(p.atoms...)
	for _, a := range o.atoms {
		out.Add(a)
	}
	return out
}

// Contains reports whether p already has an atom equal to a.
func (p Pure) Contains(a Atom) bool {
	for _, existing := range p.atoms {
		if existing.Equal(a) {
			return true
		}
	}
	return false
}

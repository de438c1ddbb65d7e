// Package subst implements the substitution algebra of spec.md §3/§4.2: an
// ordered, duplicate-free list of (identifier -> expression) pairs, with
// disciplined extension (collisions fail) and joining (overlaps must
// agree). Applying a substitution rewrites variables by lookup only; it
// never renormalizes (callers invoke internal/normalize explicitly).
package subst

import (
	"sort"

	"shprover/internal/ident"
	"shprover/internal/term"
)

// Pair is one binding of the substitution.
type Pair struct {
	Id  ident.Ident
	Exp term.Expr
}

// Subst is an ordered list of pairs sorted by Id, no duplicate domain
// entries. The zero value is the empty (identity) substitution.
type Subst struct {
	pairs []Pair
}

// Empty returns the identity substitution.
func Empty() *Subst { return &Subst{} }

// FromPairs builds a Subst from pairs, sorting them and rejecting
// duplicate domain entries by keeping the first occurrence (callers that
// need duplicate-detection should use Extend repeatedly instead).
func FromPairs(pairs []Pair) *Subst {
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Id.Less(cp[j].Id) })
	out := cp[:0:0]
	for i, p := range cp {
		if i > 0 && p.Id.Equal(cp[i-1].Id) {
			continue
		}
		out = append(out, p)
	}
	return &Subst{pairs: out}
}

// Domain returns the identifiers bound by s, in sorted order.
func (s *Subst) Domain() []ident.Ident {
	out := make([]ident.Ident, len(s.pairs))
	for i, p := range s.pairs {
		out[i] = p.Id
	}
	return out
}

// Pairs returns the underlying (id, expr) pairs in sorted order. Callers
// must not mutate the returned slice.
func (s *Subst) Pairs() []Pair { return s.pairs }

func (s *Subst) indexOf(id ident.Ident) int {
	return sort.Search(len(s.pairs), func(i int) bool { return !s.pairs[i].Id.Less(id) })
}

// Find looks up id's binding, if any.
func (s *Subst) Find(id ident.Ident) (term.Expr, bool) {
	i := s.indexOf(id)
	if i < len(s.pairs) && s.pairs[i].Id.Equal(id) {
		return s.pairs[i].Exp, true
	}
	return nil, false
}

// Filter returns the sub-substitution of pairs whose identifier satisfies
// pred.
func (s *Subst) Filter(pred func(ident.Ident) bool) *Subst {
	var out []Pair
	for _, p := range s.pairs {
		if pred(p.Id) {
			out = append(out, p)
		}
	}
	return &Subst{pairs: out}
}

// Partition splits s into the pairs satisfying pred and those that don't.
func (s *Subst) Partition(pred func(ident.Ident) bool) (yes, no *Subst) {
	var y, n []Pair
	for _, p := range s.pairs {
		if pred(p.Id) {
			y = append(y, p)
		} else {
			n = append(n, p)
		}
	}
	return &Subst{pairs: y}, &Subst{pairs: n}
}

// Extend adds (id -> e) to s. It fails if id is already in the domain
// (spec.md §3: "Extension is permitted only at identifiers not already in
// the domain").
func (s *Subst) Extend(id ident.Ident, e term.Expr) (*Subst, bool) {
	if _, present := s.Find(id); present {
		return s, false
	}
	cp := append([]Pair{}, s.pairs...)
	cp = append(cp, Pair{Id: id, Exp: e})
	sort.Slice(cp, func(i, j int) bool { return cp[i].Id.Less(cp[j].Id) })
	return &Subst{pairs: cp}, true
}

// Compose returns the substitution "apply s first, then other": for each
// id in s's domain, its image is rewritten by other; then any binding in
// other whose identifier is not already in s's domain is added as-is.
func (s *Subst) Compose(other *Subst) *Subst {
	var out []Pair
	seen := map[ident.Ident]bool{}
	for _, p := range s.pairs {
		out = append(out, Pair{Id: p.Id, Exp: Apply(other, p.Exp)})
		seen[p.Id] = true
	}
	for _, p := range other.pairs {
		if !seen[p.Id] {
			out = append(out, p)
		}
	}
	return FromPairs(out)
}

// Join merges s and other. It fails if both bind the same identifier to
// expressions that are not structurally equal (spec.md §4.2: "join (fails
// if overlap disagrees)").
func (s *Subst) Join(other *Subst) (*Subst, bool) {
	out := append([]Pair{}, s.pairs...)
	for _, p := range other.pairs {
		if existing, ok := s.Find(p.Id); ok {
			if !existing.Equal(p.Exp) {
				return nil, false
			}
			continue
		}
		out = append(out, p)
	}
	return FromPairs(out), true
}

// SymmetricDiff returns the bindings common to both substitutions (same
// id AND same expression), those present only in s, and those present
// only in other. Bindings present in both but disagreeing in their
// expression are reported as left-only and right-only (spec.md §4.2).
func (s *Subst) SymmetricDiff(other *Subst) (common, leftOnly, rightOnly *Subst) {
	var c, l, r []Pair
	seenOther := map[ident.Ident]bool{}
	for _, p := range other.pairs {
		seenOther[p.Id] = true
	}
	for _, p := range s.pairs {
		if oe, ok := other.Find(p.Id); ok {
			if oe.Equal(p.Exp) {
				c = append(c, p)
			} else {
				l = append(l, p)
			}
		} else {
			l = append(l, p)
		}
	}
	for _, p := range other.pairs {
		if _, ok := s.Find(p.Id); !ok {
			r = append(r, p)
		} else if le, _ := s.Find(p.Id); !le.Equal(p.Exp) {
			r = append(r, p)
		}
	}
	return FromPairs(c), FromPairs(l), FromPairs(r)
}

// Apply rewrites e's variables by lookup in s. It does NOT renormalize;
// callers requiring normal form must invoke internal/normalize explicitly
// (spec.md §4.2).
func Apply(s *Subst, e term.Expr) term.Expr {
	switch n := e.(type) {
	case *term.Var:
		if rep, ok := s.Find(n.Id); ok {
			return rep
		}
		return n
	case *term.Unary:
		return &term.Unary{Op: n.Op, X: Apply(s, n.X)}
	case *term.Binary:
		return &term.Binary{Op: n.Op, L: Apply(s, n.L), R: Apply(s, n.R)}
	case *term.Cast:
		return &term.Cast{To: n.To, X: Apply(s, n.X)}
	case *term.FieldOff:
		return &term.FieldOff{Base: Apply(s, n.Base), Field: n.Field}
	case *term.IndexOff:
		return &term.IndexOff{Base: Apply(s, n.Base), Idx: Apply(s, n.Idx)}
	case *term.Sizeof:
		out := &term.Sizeof{Type: n.Type, Annot: n.Annot}
		if n.Length != nil {
			out.Length = Apply(s, n.Length)
		}
		return out
	case *term.Tuple:
		elems := make([]term.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = Apply(s, el)
		}
		return &term.Tuple{Elems: elems}
	default:
		return e
	}
}

// IsEmpty reports whether s has no bindings.
func (s *Subst) IsEmpty() bool { return len(s.pairs) == 0 }

// Len returns the number of bindings.
func (s *Subst) Len() int { return len(s.pairs) }

// Package abstraction implements spec.md §4.10: a small library of
// rewrite rules, applied between prover queries (never inside
// check_implication itself), that fold concrete points-to chains into
// list-segment predicates so heaps stay finite across a fixed point of a
// loop or recursive call. FoldTriple discovers rules on the fly by walking
// root -> next -> out triples and synthesizing a fresh predicate parameter
// from the isomorphism witness; ExtendSegment folds a points-to cell into
// an existing non-empty list segment. Only singly-linked (Lseg) shapes are
// folded; no rule here produces doubly-linked segments.
package abstraction

import (
	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/matcher"
	"shprover/internal/term"
)

// fieldsEqualExcept reports whether a and b have identical field lists
// except possibly at the named field, and returns the field's two values
// (equal fields are the "shared" parameters of the synthesized predicate;
// a mismatch anywhere else means the two cells are not isomorphic).
func fieldsEqualExcept(a, b *heap.Struct, except string) (aVal, bVal term.Expr, shared []term.Expr, ok bool) {
	if len(a.Fields) != len(b.Fields) {
		return nil, nil, nil, false
	}
	shared = make([]term.Expr, 0, len(a.Fields))
	foundExcept := false
	for i := range a.Fields {
		if a.Fields[i].Name != b.Fields[i].Name {
			return nil, nil, nil, false
		}
		if a.Fields[i].Name == except {
			al, aok := a.Fields[i].Val.(*heap.Leaf)
			bl, bok := b.Fields[i].Val.(*heap.Leaf)
			if !aok || !bok {
				return nil, nil, nil, false
			}
			aVal, bVal = al.Exp, bl.Exp
			foundExcept = true
			continue
		}
		if !a.Fields[i].Val.Equal(b.Fields[i].Val) {
			return nil, nil, nil, false
		}
		leaf, isLeaf := a.Fields[i].Val.(*heap.Leaf)
		if !isLeaf {
			return nil, nil, nil, false
		}
		shared = append(shared, leaf.Exp)
	}
	return aVal, bVal, shared, foundExcept
}

// discoverParam builds the singly-linked Param a root->next->out triple
// witnesses: Root/Next placeholders stand in for the chain's own address
// and its successor; every other field that is syntactically identical
// between the two sampled cells becomes a Shared parameter, carried
// through the fold rather than re-derived (spec.md §4.10: "a rule fires
// only when the substitution it produces maps private identifiers
// exclusively to values unreachable elsewhere" — Root/Next here are fresh
// predicate-local placeholders, never aliased into the surrounding heap).
func discoverParam(src *ident.Source, nextField string, a, b *heap.Struct, typ *term.Sizeof) (*heap.Param, []term.Expr, bool) {
	_, _, shared, ok := fieldsEqualExcept(a, b, nextField)
	if !ok {
		return nil, nil, false
	}
	root := src.Fresh(ident.Footprint, "root")
	next := src.Fresh(ident.Footprint, "next")
	sharedIdents := make([]ident.Ident, len(shared))
	bodyFields := make([]heap.Field, 0, len(a.Fields))
	si := 0
	for _, f := range a.Fields {
		if f.Name == nextField {
			bodyFields = append(bodyFields, heap.Field{Name: f.Name, Val: &heap.Leaf{Exp: &term.Var{Id: next}}})
			continue
		}
		shIdent := src.Fresh(ident.Footprint, "shared")
		sharedIdents[si] = shIdent
		si++
		bodyFields = append(bodyFields, heap.Field{Name: f.Name, Val: &heap.Leaf{Exp: &term.Var{Id: shIdent}}})
	}
	param := &heap.Param{
		Root:   root,
		Next:   next,
		Shared: sharedIdents,
		Body: heap.Sigma{&heap.PointsTo{
			Addr: &term.Var{Id: root},
			Val:  &heap.Struct{Fields: bodyFields},
			Type: typ,
		}},
	}
	return param, shared, true
}

// FoldTriple scans sigma for an unrolled root -> next -> out chain of two
// points-to cells with isomorphic shape (modulo the pointer field named by
// nextField) and folds them into a single NE list segment, per spec.md
// §4.10's on-the-fly predicate discovery. Returns the rewritten Sigma and
// whether a fold happened; callers re-invoke until it returns false
// (fixed point).
func FoldTriple(src *ident.Source, sigma heap.Sigma, nextField string) (heap.Sigma, bool) {
	for i, ci := range sigma {
		a, ok := ci.(*heap.PointsTo)
		if !ok {
			continue
		}
		aStruct, ok := a.Val.(*heap.Struct)
		if !ok {
			continue
		}
		aNext, ok := aStruct.Get(nextField)
		if !ok {
			continue
		}
		aNextLeaf, ok := aNext.(*heap.Leaf)
		if !ok {
			continue
		}
		for j, cj := range sigma {
			if i == j {
				continue
			}
			b, ok := cj.(*heap.PointsTo)
			if !ok || !b.Addr.Equal(aNextLeaf.Exp) {
				continue
			}
			bStruct, ok := b.Val.(*heap.Struct)
			if !ok || !a.Type.Equal(b.Type) {
				continue
			}
			bNext, ok := bStruct.Get(nextField)
			if !ok {
				continue
			}
			bNextLeaf, ok := bNext.(*heap.Leaf)
			if !ok {
				continue
			}
			if referencedElsewhere(sigma, b.Addr, i, j) {
				// b's address is still reachable through some other
				// chunk; folding it into the segment interior would
				// make that chunk's reference dangling (spec.md §4.10).
				continue
			}
			param, shared, ok := discoverParam(src, nextField, aStruct, bStruct, a.Type)
			if !ok {
				continue
			}
			out := removeBoth(sigma, i, j)
			seg := &heap.Lseg{Kind: heap.NE, Param: param, From: a.Addr, To: bNextLeaf.Exp, Shared: shared}
			return out.Append(seg), true
		}
	}
	return sigma, false
}

func removeBoth(sigma heap.Sigma, i, j int) heap.Sigma {
	if i > j {
		i, j = j, i
	}
	out := sigma.Remove(j)
	out = out.Remove(i)
	return out
}

// referencesAddress reports whether addr occurs in c: as a points-to
// address, a segment endpoint/shared parameter, or nested inside a leaf
// value of a struct/array.
func referencesAddress(c heap.Chunk, addr term.Expr) bool {
	switch ch := c.(type) {
	case *heap.PointsTo:
		return ch.Addr.Equal(addr) || svalReferences(ch.Val, addr)
	case *heap.Lseg:
		if ch.From.Equal(addr) || ch.To.Equal(addr) {
			return true
		}
		for _, s := range ch.Shared {
			if s.Equal(addr) {
				return true
			}
		}
		return false
	case *heap.Dllseg:
		if ch.IF.Equal(addr) || ch.OB.Equal(addr) || ch.OF.Equal(addr) || ch.IB.Equal(addr) {
			return true
		}
		for _, s := range ch.Shared {
			if s.Equal(addr) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func svalReferences(v heap.SVal, addr term.Expr) bool {
	switch val := v.(type) {
	case *heap.Leaf:
		return val.Exp.Equal(addr)
	case *heap.Struct:
		for _, f := range val.Fields {
			if svalReferences(f.Val, addr) {
				return true
			}
		}
		return false
	case *heap.Array:
		if val.Length.Equal(addr) {
			return true
		}
		for _, e := range val.Entries {
			if e.Index.Equal(addr) || svalReferences(e.Val, addr) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// referencedElsewhere reports whether addr is referenced by any chunk of
// sigma other than those at the excluded indices — the reachability guard
// spec.md §4.10 names as a fold's firing condition: a fold's private
// identifiers must map "exclusively to values unreachable elsewhere in the
// heap", so the interior node being folded away must not still be named by
// some third chunk.
func referencedElsewhere(sigma heap.Sigma, addr term.Expr, exclude ...int) bool {
	skip := make(map[int]bool, len(exclude))
	for _, i := range exclude {
		skip[i] = true
	}
	for i, c := range sigma {
		if skip[i] {
			continue
		}
		if referencesAddress(c, addr) {
			return true
		}
	}
	return false
}

// diffWithHole structurally compares expected against actual, treating any
// *term.Var matching hole in expected as a wildcard: the first (and only)
// mismatch permitted, whose actual value is returned. Any other mismatch
// fails the comparison — this is ExtendSegment's isomorphism check.
func diffWithHole(expected, actual heap.SVal, hole ident.Ident, found *term.Expr) bool {
	switch e := expected.(type) {
	case *heap.Leaf:
		a, ok := actual.(*heap.Leaf)
		if !ok {
			return false
		}
		if v, isVar := e.Exp.(*term.Var); isVar && v.Id.Equal(hole) {
			if *found != nil {
				return false
			}
			*found = a.Exp
			return true
		}
		return e.Exp.Equal(a.Exp)
	case *heap.Struct:
		a, ok := actual.(*heap.Struct)
		if !ok || len(e.Fields) != len(a.Fields) {
			return false
		}
		for i := range e.Fields {
			if e.Fields[i].Name != a.Fields[i].Name {
				return false
			}
			if !diffWithHole(e.Fields[i].Val, a.Fields[i].Val, hole, found) {
				return false
			}
		}
		return true
	default:
		return expected.Equal(actual)
	}
}

// ExtendSegment tries to grow an already-folded NE segment by one more
// concrete cell at its right end: instantiate the segment's parameter at
// (segment.To, placeholder, segment.Shared), and check whether the
// concrete points-to cell sitting at segment.To is an instance of that
// body with the placeholder standing for the new "to" address. This is
// the pre-declared counterpart to FoldTriple's discovery — folding a cell
// into an *existing* predicate rather than synthesizing a new one.
func ExtendSegment(src *ident.Source, sigma heap.Sigma) (heap.Sigma, bool) {
	for i, ci := range sigma {
		seg, ok := ci.(*heap.Lseg)
		if !ok || seg.Kind != heap.NE {
			continue
		}
		for j, cj := range sigma {
			if i == j {
				continue
			}
			cell, ok := cj.(*heap.PointsTo)
			if !ok || !cell.Addr.Equal(seg.To) {
				continue
			}
			if referencedElsewhere(sigma, cell.Addr, i, j) {
				// seg.To is about to become the segment's interior;
				// a third chunk still naming it would dangle.
				continue
			}
			placeholder := src.FreshLike(seg.Param.Next)
			body, _ := heap.Instantiate(src, seg.Param, seg.To, &term.Var{Id: placeholder}, seg.Shared)
			if len(body) != 1 {
				continue
			}
			bodyCell, ok := body[0].(*heap.PointsTo)
			if !ok {
				continue
			}
			var found term.Expr
			if !diffWithHole(bodyCell.Val, cell.Val, placeholder, &found) || found == nil {
				continue
			}
			out := removeBoth(sigma, i, j)
			grown := &heap.Lseg{Kind: seg.Kind, Param: seg.Param, From: seg.From, To: found, Shared: seg.Shared}
			return out.Append(grown), true
		}
	}
	return sigma, false
}

// Saturate repeatedly applies FoldTriple then ExtendSegment to a fixed
// point, the form callers use between queries (spec.md §4.10: "invoked by
// callers to keep heaps finite").
func Saturate(src *ident.Source, sigma heap.Sigma, nextField string) heap.Sigma {
	for {
		if next, ok := FoldTriple(src, sigma, nextField); ok {
			sigma = next
			continue
		}
		if next, ok := ExtendSegment(src, sigma); ok {
			sigma = next
			continue
		}
		return sigma
	}
}

// ReorderForDiscovery exposes matcher.Reorder so callers can normalize
// chunk order before a discovery pass (predicate discovery, like the
// entailment matcher, wants concrete addresses first).
func ReorderForDiscovery(sigma heap.Sigma) heap.Sigma { return matcher.Reorder(sigma) }

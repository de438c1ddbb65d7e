// Package matcher implements the chunk-selection step of spec.md §4.5:
// given a right-hand chunk and the left-hand heap, classify which left
// chunk (if any) resolves it and by which strategy — direct points-to
// match, left-fold-over-segment, left-unroll-under-points-to, or
// segment-vs-segment with PE/NE join handling. It is also reused by
// internal/abstraction for predicate discovery (matching repeating cell
// shapes against each other). The actual rewriting (instantiate, unroll,
// substitution extension) is left to the caller (internal/prover): this
// package only decides *which* left chunk and *how*.
package matcher

import (
	"sort"

	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/term"
)

// AddressEq decides whether two address expressions are known-equal under
// the current substitutions and constraint state. The prover supplies
// this (normalize + subst.Apply + constraint.CheckLe both ways, or plain
// syntactic Equal for a cheaper first pass); matcher stays agnostic to how
// equality is established.
type AddressEq func(l, r term.Expr) bool

// IsPrimedAddress reports whether addr is an unresolved existential
// variable, per spec.md §4.5 step 1 ("if the head chunk's address is a
// primed variable, move it to the back — we need a concrete address
// first").
func IsPrimedAddress(addr term.Expr) bool {
	v, ok := addr.(*term.Var)
	return ok && v.Id.Kind == ident.Primed
}

// Reorder stably partitions sigma so chunks whose root address is still
// primed are moved to the back (spec.md §4.5 step 1), then within each
// partition applies spec.md §5's deterministic chunk tie-break: points-to
// before segments (heap.Rank), then by address-expression ordering
// (term.Less on heap.Address), then by source position (the sort is
// stable, so chunks tying on both keys keep their original Sigma order).
func Reorder(sigma heap.Sigma) heap.Sigma {
	ready := make(heap.Sigma, 0, len(sigma))
	deferred := make(heap.Sigma, 0, len(sigma))
	for _, c := range sigma {
		if IsPrimedAddress(heap.Address(c)) {
			deferred = append(deferred, c)
		} else {
			ready = append(ready, c)
		}
	}
	rank := func(part heap.Sigma) {
		sort.SliceStable(part, func(i, j int) bool {
			ri, rj := heap.Rank(part[i]), heap.Rank(part[j])
			if ri != rj {
				return ri < rj
			}
			ai, aj := heap.Address(part[i]), heap.Address(part[j])
			if ai == nil || aj == nil {
				return false
			}
			return term.Less(ai, aj)
		})
	}
	rank(ready)
	rank(deferred)
	return append(ready, deferred...)
}

// Kind classifies how a right chunk should be resolved against the left
// heap (spec.md §4.5 "Match" step).
type Kind int

const (
	// NoMatch: no left chunk resolves the right chunk.
	NoMatch Kind = iota
	// PointsToPointsTo: left and right are both points-to at the same address.
	PointsToPointsTo
	// PointsToOverSegment: left is points-to, right is a segment rooted at
	// the same address — fold by instantiating the segment's parameter.
	PointsToOverSegment
	// SegmentOverPointsTo: left is an NE segment, right is points-to at the
	// segment's root — unroll the left segment one step and retry.
	SegmentOverPointsTo
	// SameSegment: left and right are segments over the same predicate,
	// rooted at the same address.
	SameSegment
)

// Candidate is the outcome of Find.
type Candidate struct {
	Kind Kind
	// Index is the position of the matched left chunk in the Sigma passed
	// to Find, or -1 when Kind is NoMatch.
	Index int
	// RecordNonEmpty is set for SameSegment when the left is PE and the
	// right is NE: the right's nonemptiness becomes a missing-pi obligation
	// (spec.md §4.5: "if left kind is PE and right is NE, record the NE's
	// nonemptiness as missing-pi").
	RecordNonEmpty bool
}

var noMatch = Candidate{Kind: NoMatch, Index: -1}

// Find classifies how to resolve right against left. It does not mutate
// either argument.
func Find(left heap.Sigma, right heap.Chunk, eq AddressEq) Candidate {
	switch r := right.(type) {
	case *heap.PointsTo:
		return findForPointsTo(left, r, eq)
	case *heap.Lseg:
		return findForLseg(left, r, eq)
	case *heap.Dllseg:
		return findForDllseg(left, r, eq)
	default:
		return noMatch
	}
}

func findForPointsTo(left heap.Sigma, r *heap.PointsTo, eq AddressEq) Candidate {
	for i, c := range left {
		switch l := c.(type) {
		case *heap.PointsTo:
			if eq(l.Addr, r.Addr) {
				return Candidate{Kind: PointsToPointsTo, Index: i}
			}
		case *heap.Lseg:
			if l.Kind == heap.NE && eq(l.From, r.Addr) {
				return Candidate{Kind: SegmentOverPointsTo, Index: i}
			}
		case *heap.Dllseg:
			if l.Kind == heap.NE && eq(l.IF, r.Addr) {
				return Candidate{Kind: SegmentOverPointsTo, Index: i}
			}
		}
	}
	return noMatch
}

func findForLseg(left heap.Sigma, r *heap.Lseg, eq AddressEq) Candidate {
	for i, c := range left {
		switch l := c.(type) {
		case *heap.PointsTo:
			if eq(l.Addr, r.From) {
				return Candidate{Kind: PointsToOverSegment, Index: i}
			}
		case *heap.Lseg:
			if l.SamePredicate(r) && eq(l.From, r.From) {
				return Candidate{
					Kind:           SameSegment,
					Index:          i,
					RecordNonEmpty: l.Kind == heap.PE && r.Kind == heap.NE,
				}
			}
		}
	}
	return noMatch
}

func findForDllseg(left heap.Sigma, r *heap.Dllseg, eq AddressEq) Candidate {
	for i, c := range left {
		switch l := c.(type) {
		case *heap.PointsTo:
			if eq(l.Addr, r.IF) {
				return Candidate{Kind: PointsToOverSegment, Index: i}
			}
		case *heap.Dllseg:
			samePred := l.Param == r.Param || (l.Param != nil && r.Param != nil && l.Param.Equal(r.Param))
			if samePred && eq(l.IF, r.IF) && eq(l.OB, r.OB) {
				return Candidate{
					Kind:           SameSegment,
					Index:          i,
					RecordNonEmpty: l.Kind == heap.PE && r.Kind == heap.NE,
				}
			}
		}
	}
	return noMatch
}

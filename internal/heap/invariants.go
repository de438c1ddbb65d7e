package heap

import "shprover/internal/term"

// TwoHpreds reports whether a and b are points-to chunks at provably-equal
// addresses, which is inconsistent (spec.md §4.4 invariant: "two points-to
// atoms at the same address are inconsistent (a syntactic 'two hpreds'
// check)"). This is a syntactic check only — semantic address equality
// beyond syntactic identity is the constraint engine's job.
func TwoHpreds(a, b Chunk) bool {
	pa, ok1 := a.(*PointsTo)
	pb, ok2 := b.(*PointsTo)
	return ok1 && ok2 && pa.Addr.Equal(pb.Addr)
}

// SegSelfInconsistent reports whether a single chunk is inconsistent in
// isolation: an NE segment with syntactically equal endpoints (spec.md
// §4.4: "an NE segment with equal endpoints is inconsistent").
func SegSelfInconsistent(c Chunk) bool {
	switch n := c.(type) {
	case *Lseg:
		return n.Kind == NE && n.From.Equal(n.To)
	case *Dllseg:
		return n.Kind == NE && n.IF.Equal(n.OF)
	default:
		return false
	}
}

// IsEmptySegment reports whether c is a PE segment with equal endpoints
// and an empty body, which denotes the empty heap (spec.md §4.4: "a PE
// segment with equal endpoints and empty body is the empty heap").
func IsEmptySegment(c Chunk) bool {
	switch n := c.(type) {
	case *Lseg:
		return n.Kind == PE && n.From.Equal(n.To) && len(n.Param.Body) == 0
	case *Dllseg:
		return n.Kind == PE && n.IF.Equal(n.OF) && len(n.Param.Body) == 0
	default:
		return false
	}
}

// SyntacticInconsistency scans sigma for any of the two purely-syntactic
// inconsistency shapes above, without consulting the constraint engine.
// The prover's fuller inconsistency check (which also uses
// internal/constraint) lives in internal/prover.
func SyntacticInconsistency(sigma Sigma) bool {
	for i, c := range sigma {
		if SegSelfInconsistent(c) {
			return true
		}
		for j := i + 1; j < len(sigma); j++ {
			if TwoHpreds(c, sigma[j]) {
				return true
			}
		}
	}
	return false
}

// Address returns the root address expression of a chunk, used by the
// matcher's deterministic ordering (spec.md §5: "points-to before
// segments, then by address-expression ordering").
func Address(c Chunk) term.Expr {
	switch n := c.(type) {
	case *PointsTo:
		return n.Addr
	case *Lseg:
		return n.From
	case *Dllseg:
		return n.IF
	default:
		return nil
	}
}

// Rank gives points-to chunks priority over segment chunks in the
// matcher's total order (spec.md §5).
func Rank(c Chunk) int {
	switch c.(type) {
	case *PointsTo:
		return 0
	case *Lseg:
		return 1
	case *Dllseg:
		return 2
	default:
		return 9
	}
}

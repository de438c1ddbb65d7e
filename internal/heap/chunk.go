package heap

import (
	"fmt"

	"shprover/internal/term"
)

// SegKind distinguishes non-empty from possibly-empty list/dll segments
// (spec.md §3).
type SegKind int

const (
	NE SegKind = iota
	PE
)

func (k SegKind) String() string {
	if k == NE {
		return "NE"
	}
	return "PE"
}

// Chunk is a single sigma-atom: points-to, list segment, or doubly-linked
// segment (spec.md §3).
type Chunk interface {
	isChunk()
	Equal(Chunk) bool
	String() string
}

// PointsTo is `e -> s : type` (spec.md §3).
type PointsTo struct {
	Addr term.Expr
	Val  SVal
	Type *term.Sizeof
}

// Lseg is `lseg_k(param, from, to, shared...)`.
type Lseg struct {
	Kind   SegKind
	Param  *Param
	From   term.Expr
	To     term.Expr
	Shared []term.Expr
}

// Dllseg is `dllseg_k(param, iF, oB, oF, iB, shared...)`.
type Dllseg struct {
	Kind   SegKind
	Param  *DllParam
	IF     term.Expr // forward iterator
	OB     term.Expr // outgoing back
	OF     term.Expr // outgoing forward
	IB     term.Expr // incoming back
	Shared []term.Expr
}

func (*PointsTo) isChunk() {}
func (*Lseg) isChunk()     {}
func (*Dllseg) isChunk()   {}

func (c *PointsTo) String() string {
	return fmt.Sprintf("%s |-> %s : %s", c.Addr, c.Val, c.Type)
}
func (c *Lseg) String() string {
	return fmt.Sprintf("lseg_%s(%p, %s, %s, %v)", c.Kind, c.Param, c.From, c.To, c.Shared)
}
func (c *Dllseg) String() string {
	return fmt.Sprintf("dllseg_%s(%p, %s, %s, %s, %s, %v)", c.Kind, c.Param, c.IF, c.OB, c.OF, c.IB, c.Shared)
}

func exprSliceEqual(a, b []term.Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (c *PointsTo) Equal(o Chunk) bool {
	w, ok := o.(*PointsTo)
	return ok && c.Addr.Equal(w.Addr) && c.Val.Equal(w.Val) && c.Type.Equal(w.Type)
}
func (c *Lseg) Equal(o Chunk) bool {
	w, ok := o.(*Lseg)
	if !ok || c.Kind != w.Kind || !c.From.Equal(w.From) || !c.To.Equal(w.To) {
		return false
	}
	if (c.Param == nil) != (w.Param == nil) {
		return false
	}
	if c.Param != nil && !c.Param.Equal(w.Param) {
		return false
	}
	return exprSliceEqual(c.Shared, w.Shared)
}
func (c *Dllseg) Equal(o Chunk) bool {
	w, ok := o.(*Dllseg)
	if !ok || c.Kind != w.Kind {
		return false
	}
	if !c.IF.Equal(w.IF) || !c.OB.Equal(w.OB) || !c.OF.Equal(w.OF) || !c.IB.Equal(w.IB) {
		return false
	}
	if (c.Param == nil) != (w.Param == nil) {
		return false
	}
	if c.Param != nil && !c.Param.Equal(w.Param) {
		return false
	}
	return exprSliceEqual(c.Shared, w.Shared)
}

// SamePredicate reports whether two Lseg chunks use structurally-identical
// parameters ("two identical parameters *are* the same predicate",
// spec.md §3), independent of kind/endpoints.
func (c *Lseg) SamePredicate(o *Lseg) bool {
	if c.Param == nil || o.Param == nil {
		return c.Param == o.Param
	}
	return c.Param.Equal(o.Param)
}

// Sigma is the spatial part: an ordered list of chunks (spec.md §3,
// "source position in the heap list" is this slice's order, used by the
// matcher's deterministic tie-break per spec.md §5).
type Sigma []Chunk

// Equal compares two Sigma lists chunk-by-chunk in order. Callers that
// need order-independent comparison should sort/canonicalize first (the
// prover itself never needs this - it always matches chunk by chunk).
func (s Sigma) Equal(o Sigma) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (s Sigma) String() string {
	out := ""
	for i, c := range s {
		if i > 0 {
			out += " * "
		}
		out += c.String()
	}
	if out == "" {
		return "emp"
	}
	return out
}

// Remove returns a copy of s with the chunk at index i removed.
func (s Sigma) Remove(i int) Sigma {
	out := make(Sigma, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

// Append returns a copy of s with c appended.
func (s Sigma) Append(c Chunk) Sigma {
	out := make(Sigma, len(s), len(s)+1)
	copy(out, s)
	return append(out, c)
}

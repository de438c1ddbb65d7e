package heap

import (
	"fmt"

	"shprover/internal/ident"
	"shprover/internal/term"
)

// Param is a singly-linked inductive list predicate parameter:
// `lambda(root, next, shared...). exists evars. body` (spec.md §3). Params
// are closed terms — body's only free identifiers are Root, Next, Shared
// and Exist — so two structurally identical Params *are* the same
// predicate and are safely comparable/hashable.
type Param struct {
	Root   ident.Ident
	Next   ident.Ident
	Shared []ident.Ident
	Exist  []ident.Ident
	Body   Sigma
}

// DllParam is the doubly-linked analogue, adding blink/flink roots
// (spec.md §3).
type DllParam struct {
	Root   ident.Ident // iF, forward iterator root
	Blink  ident.Ident
	Flink  ident.Ident
	Shared []ident.Ident
	Exist  []ident.Ident
	Body   Sigma
}

func (p *Param) String() string {
	return fmt.Sprintf("lambda(%s,%s,%v). exists %v. %s", p.Root, p.Next, p.Shared, p.Exist, p.Body)
}

func (p *DllParam) String() string {
	return fmt.Sprintf("lambda(%s,%s,%s,%v). exists %v. %s", p.Root, p.Blink, p.Flink, p.Shared, p.Exist, p.Body)
}

// Equal compares two Params structurally (alpha-equivalence is NOT
// performed: spec.md §3 treats two identical parameters as the same
// predicate by structural identity of their closed term, which in
// practice means existentials/shared vars must already be in canonical
// stamped form, as produced by the same construction site).
func (p *Param) Equal(o *Param) bool {
	if !p.Root.Equal(o.Root) || !p.Next.Equal(o.Next) {
		return false
	}
	if len(p.Shared) != len(o.Shared) || len(p.Exist) != len(o.Exist) {
		return false
	}
	for i := range p.Shared {
		if !p.Shared[i].Equal(o.Shared[i]) {
			return false
		}
	}
	for i := range p.Exist {
		if !p.Exist[i].Equal(o.Exist[i]) {
			return false
		}
	}
	return p.Body.Equal(o.Body)
}

func (p *DllParam) Equal(o *DllParam) bool {
	if !p.Root.Equal(o.Root) || !p.Blink.Equal(o.Blink) || !p.Flink.Equal(o.Flink) {
		return false
	}
	if len(p.Shared) != len(o.Shared) || len(p.Exist) != len(o.Exist) {
		return false
	}
	for i := range p.Shared {
		if !p.Shared[i].Equal(o.Shared[i]) {
			return false
		}
	}
	for i := range p.Exist {
		if !p.Exist[i].Equal(o.Exist[i]) {
			return false
		}
	}
	return p.Body.Equal(o.Body)
}

// Instantiate produces fresh existentials and substitutes root/next/shared
// with the supplied actuals, returning the rewritten body and the fresh
// existentials (spec.md §4.4 "Instantiate a parameter").
func Instantiate(src *ident.Source, p *Param, rootActual, nextActual term.Expr, sharedActual []term.Expr) (Sigma, []ident.Ident) {
	renames := map[ident.Ident]term.Expr{
		p.Root: rootActual,
		p.Next: nextActual,
	}
	for i, sh := range p.Shared {
		if i < len(sharedActual) {
			renames[sh] = sharedActual[i]
		}
	}
	freshEx := make([]ident.Ident, len(p.Exist))
	for i, ev := range p.Exist {
		fresh := src.FreshLike(ev)
		freshEx[i] = fresh
		renames[ev] = &term.Var{Id: fresh}
	}
	return substSigma(p.Body, renames), freshEx
}

// InstantiateDll is the doubly-linked analogue of Instantiate.
func InstantiateDll(src *ident.Source, p *DllParam, rootActual, blinkActual, flinkActual term.Expr, sharedActual []term.Expr) (Sigma, []ident.Ident) {
	renames := map[ident.Ident]term.Expr{
		p.Root:  rootActual,
		p.Blink: blinkActual,
		p.Flink: flinkActual,
	}
	for i, sh := range p.Shared {
		if i < len(sharedActual) {
			renames[sh] = sharedActual[i]
		}
	}
	freshEx := make([]ident.Ident, len(p.Exist))
	for i, ev := range p.Exist {
		fresh := src.FreshLike(ev)
		freshEx[i] = fresh
		renames[ev] = &term.Var{Id: fresh}
	}
	return substSigma(p.Body, renames), freshEx
}

// substSigma is a tiny local substitution helper: Param.Body is a closed
// term over exactly {root, next/blink/flink, shared, exist}, so a raw map
// lookup suffices without pulling in the full internal/subst algebra
// (which exists for heap-level substitutions with ordering/join
// discipline, not for one-shot predicate instantiation).
func substSigma(s Sigma, renames map[ident.Ident]term.Expr) Sigma {
	out := make(Sigma, 0, len(s))
	for _, c := range s {
		out = append(out, substChunk(c, renames))
	}
	return out
}

func substExpr(e term.Expr, renames map[ident.Ident]term.Expr) term.Expr {
	switch n := e.(type) {
	case *term.Var:
		if r, ok := renames[n.Id]; ok {
			return r
		}
		return n
	case *term.Unary:
		return &term.Unary{Op: n.Op, X: substExpr(n.X, renames)}
	case *term.Binary:
		return &term.Binary{Op: n.Op, L: substExpr(n.L, renames), R: substExpr(n.R, renames)}
	case *term.Cast:
		return &term.Cast{To: n.To, X: substExpr(n.X, renames)}
	case *term.FieldOff:
		return &term.FieldOff{Base: substExpr(n.Base, renames), Field: n.Field}
	case *term.IndexOff:
		return &term.IndexOff{Base: substExpr(n.Base, renames), Idx: substExpr(n.Idx, renames)}
	case *term.Sizeof:
		out := &term.Sizeof{Type: n.Type, Annot: n.Annot}
		if n.Length != nil {
			out.Length = substExpr(n.Length, renames)
		}
		return out
	case *term.Tuple:
		elems := make([]term.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = substExpr(el, renames)
		}
		return &term.Tuple{Elems: elems}
	default:
		return e
	}
}

func substSVal(v SVal, renames map[ident.Ident]term.Expr) SVal {
	switch n := v.(type) {
	case *Leaf:
		return &Leaf{Exp: substExpr(n.Exp, renames), Instr: n.Instr}
	case *Struct:
		fields := make([]Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = Field{Name: f.Name, Val: substSVal(f.Val, renames)}
		}
		return &Struct{Fields: fields}
	case *Array:
		entries := make([]ArrayEntry, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = ArrayEntry{Index: substExpr(e.Index, renames), Val: substSVal(e.Val, renames)}
		}
		return &Array{Length: substExpr(n.Length, renames), Entries: entries, Instr: n.Instr}
	default:
		return v
	}
}

func substChunk(c Chunk, renames map[ident.Ident]term.Expr) Chunk {
	switch n := c.(type) {
	case *PointsTo:
		return &PointsTo{Addr: substExpr(n.Addr, renames), Val: substSVal(n.Val, renames), Type: substExpr(n.Type, renames).(*term.Sizeof)}
	case *Lseg:
		shared := make([]term.Expr, len(n.Shared))
		for i, sh := range n.Shared {
			shared[i] = substExpr(sh, renames)
		}
		return &Lseg{Kind: n.Kind, Param: n.Param, From: substExpr(n.From, renames), To: substExpr(n.To, renames), Shared: shared}
	case *Dllseg:
		shared := make([]term.Expr, len(n.Shared))
		for i, sh := range n.Shared {
			shared[i] = substExpr(sh, renames)
		}
		return &Dllseg{Kind: n.Kind, Param: n.Param, IF: substExpr(n.IF, renames), OB: substExpr(n.OB, renames), OF: substExpr(n.OF, renames), IB: substExpr(n.IB, renames), Shared: shared}
	default:
		return c
	}
}

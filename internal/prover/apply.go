package prover

import (
	"shprover/internal/heap"
	"shprover/internal/subst"
	"shprover/internal/term"
)

// applySVal rewrites a structured value under s, recursing through
// structs/arrays (subst.Apply only understands term.Expr; this is the
// heap.SVal-shaped counterpart, mirroring internal/heap/param.go's
// substSVal but driven by the full subst.Subst algebra instead of a
// one-shot rename map).
func applySVal(s *subst.Subst, v heap.SVal) heap.SVal {
	switch n := v.(type) {
	case *heap.Leaf:
		return &heap.Leaf{Exp: subst.Apply(s, n.Exp), Instr: n.Instr}
	case *heap.Struct:
		fields := make([]heap.Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = heap.Field{Name: f.Name, Val: applySVal(s, f.Val)}
		}
		return &heap.Struct{Fields: fields}
	case *heap.Array:
		entries := make([]heap.ArrayEntry, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = heap.ArrayEntry{Index: subst.Apply(s, e.Index), Val: applySVal(s, e.Val)}
		}
		return &heap.Array{Length: subst.Apply(s, n.Length), Entries: entries, Instr: n.Instr}
	default:
		return v
	}
}

func applyChunk(s *subst.Subst, c heap.Chunk) heap.Chunk {
	switch n := c.(type) {
	case *heap.PointsTo:
		typ := subst.Apply(s, n.Type).(*term.Sizeof)
		return &heap.PointsTo{Addr: subst.Apply(s, n.Addr), Val: applySVal(s, n.Val), Type: typ}
	case *heap.Lseg:
		shared := make([]term.Expr, len(n.Shared))
		for i, sh := range n.Shared {
			shared[i] = subst.Apply(s, sh)
		}
		return &heap.Lseg{Kind: n.Kind, Param: n.Param, From: subst.Apply(s, n.From), To: subst.Apply(s, n.To), Shared: shared}
	case *heap.Dllseg:
		shared := make([]term.Expr, len(n.Shared))
		for i, sh := range n.Shared {
			shared[i] = subst.Apply(s, sh)
		}
		return &heap.Dllseg{
			Kind: n.Kind, Param: n.Param,
			IF: subst.Apply(s, n.IF), OB: subst.Apply(s, n.OB),
			OF: subst.Apply(s, n.OF), IB: subst.Apply(s, n.IB),
			Shared: shared,
		}
	default:
		return c
	}
}

func applySigma(s *subst.Subst, sigma heap.Sigma) heap.Sigma {
	out := make(heap.Sigma, len(sigma))
	for i, c := range sigma {
		out[i] = applyChunk(s, c)
	}
	return out
}

func applyAtom(s *subst.Subst, a heap.Atom) heap.Atom {
	switch a.Kind {
	case heap.AtomPred, heap.AtomNotPred:
		args := make([]term.Expr, len(a.Args))
		for i, e := range a.Args {
			args[i] = subst.Apply(s, e)
		}
		return heap.Atom{Kind: a.Kind, Pred: a.Pred, Args: args}
	default:
		return heap.Atom{Kind: a.Kind, L: subst.Apply(s, a.L), R: subst.Apply(s, a.R)}
	}
}

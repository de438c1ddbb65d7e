package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/matcher"
	"shprover/internal/term"
)

func syntacticEq(l, r term.Expr) bool { return l.Equal(r) }

func freshVar(src *ident.Source, kind ident.Kind, name string) term.Expr {
	return &term.Var{Id: src.Fresh(kind, name)}
}

func TestReorderMovesPrimedAddressesToBack(t *testing.T) {
	src := ident.NewSource()
	normalAddr := freshVar(src, ident.Normal, "x")
	primedAddr := freshVar(src, ident.Primed, "y")

	sigma := heap.Sigma{
		&heap.PointsTo{Addr: primedAddr, Val: &heap.Leaf{Exp: &term.IntConst{Val: term.NullPtr}}},
		&heap.PointsTo{Addr: normalAddr, Val: &heap.Leaf{Exp: &term.IntConst{Val: term.NullPtr}}},
	}
	out := matcher.Reorder(sigma)
	assert.Equal(t, normalAddr, out[0].(*heap.PointsTo).Addr)
	assert.Equal(t, primedAddr, out[1].(*heap.PointsTo).Addr)
}

func TestFindPointsToPointsTo(t *testing.T) {
	src := ident.NewSource()
	addr := freshVar(src, ident.Normal, "x")
	left := heap.Sigma{&heap.PointsTo{Addr: addr, Val: &heap.Leaf{Exp: &term.IntConst{Val: term.NullPtr}}}}
	right := &heap.PointsTo{Addr: addr, Val: &heap.Leaf{Exp: &term.IntConst{Val: term.NullPtr}}}

	c := matcher.Find(left, right, syntacticEq)
	assert.Equal(t, matcher.PointsToPointsTo, c.Kind)
	assert.Equal(t, 0, c.Index)
}

func TestFindNoMatch(t *testing.T) {
	src := ident.NewSource()
	a := freshVar(src, ident.Normal, "a")
	b := freshVar(src, ident.Normal, "b")
	left := heap.Sigma{&heap.PointsTo{Addr: a, Val: &heap.Leaf{Exp: &term.IntConst{Val: term.NullPtr}}}}
	right := &heap.PointsTo{Addr: b, Val: &heap.Leaf{Exp: &term.IntConst{Val: term.NullPtr}}}

	c := matcher.Find(left, right, syntacticEq)
	assert.Equal(t, matcher.NoMatch, c.Kind)
}

func TestFindSegmentOverPointsToUnroll(t *testing.T) {
	src := ident.NewSource()
	from := freshVar(src, ident.Normal, "head")
	to := freshVar(src, ident.Normal, "tail")
	left := heap.Sigma{&heap.Lseg{Kind: heap.NE, From: from, To: to, Param: &heap.Param{Root: src.Fresh(ident.Normal, "r"), Next: src.Fresh(ident.Normal, "n")}}}
	right := &heap.PointsTo{Addr: from, Val: &heap.Leaf{Exp: &term.IntConst{Val: term.NullPtr}}}

	c := matcher.Find(left, right, syntacticEq)
	assert.Equal(t, matcher.SegmentOverPointsTo, c.Kind)
}

func TestFindSameSegmentRecordsNonEmptyOnPEvsNE(t *testing.T) {
	param := &heap.Param{Root: ident.NewSource().Fresh(ident.Normal, "r"), Next: ident.NewSource().Fresh(ident.Normal, "n")}
	src := ident.NewSource()
	from := freshVar(src, ident.Normal, "head")
	to := freshVar(src, ident.Normal, "tail")

	left := heap.Sigma{&heap.Lseg{Kind: heap.PE, From: from, To: to, Param: param}}
	right := &heap.Lseg{Kind: heap.NE, From: from, To: to, Param: param}

	c := matcher.Find(left, right, syntacticEq)
	assert.Equal(t, matcher.SameSegment, c.Kind)
	assert.True(t, c.RecordNonEmpty)
}

package heap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/term"
)

func TestTwoHpredsInconsistent(t *testing.T) {
	src := ident.NewSource()
	a := &term.Var{Id: src.Fresh(ident.Normal, "a")}
	p1 := &heap.PointsTo{Addr: a, Val: &heap.Leaf{Exp: &term.IntConst{Val: term.Int(1)}}, Type: &term.Sizeof{Type: "int"}}
	p2 := &heap.PointsTo{Addr: a, Val: &heap.Leaf{Exp: &term.IntConst{Val: term.Int(2)}}, Type: &term.Sizeof{Type: "int"}}

	assert.True(t, heap.TwoHpreds(p1, p2))
	assert.True(t, heap.SyntacticInconsistency(heap.Sigma{p1, p2}))
}

func TestNESegEqualEndpointsInconsistent(t *testing.T) {
	src := ident.NewSource()
	a := &term.Var{Id: src.Fresh(ident.Normal, "a")}
	seg := &heap.Lseg{Kind: heap.NE, From: a, To: a, Param: &heap.Param{}}
	assert.True(t, heap.SegSelfInconsistent(seg))
}

func TestEmptySegmentDetected(t *testing.T) {
	src := ident.NewSource()
	a := &term.Var{Id: src.Fresh(ident.Normal, "a")}
	seg := &heap.Lseg{Kind: heap.PE, From: a, To: a, Param: &heap.Param{}}
	assert.True(t, heap.IsEmptySegment(seg))
}

func TestStructFieldsSortedByName(t *testing.T) {
	s := heap.NewStruct(
		heap.Field{Name: "z", Val: &heap.Leaf{Exp: &term.IntConst{Val: term.Int(1)}}},
		heap.Field{Name: "a", Val: &heap.Leaf{Exp: &term.IntConst{Val: term.Int(2)}}},
	)
	assert.Equal(t, "a", s.Fields[0].Name)
	assert.Equal(t, "z", s.Fields[1].Name)
}

package abstraction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shprover/internal/abstraction"
	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/term"
)

func addr(src *ident.Source, name string) term.Expr {
	return &term.Var{Id: src.Fresh(ident.Normal, name)}
}

func listCell(a term.Expr, next term.Expr, data term.Expr, typ *term.Sizeof) *heap.PointsTo {
	return &heap.PointsTo{
		Addr: a,
		Val:  heap.NewStruct(heap.Field{Name: "next", Val: &heap.Leaf{Exp: next}}, heap.Field{Name: "data", Val: &heap.Leaf{Exp: data}}),
		Type: typ,
	}
}

func TestFoldTripleSynthesizesSegment(t *testing.T) {
	src := ident.NewSource()
	a := addr(src, "a")
	b := addr(src, "b")
	c := addr(src, "c")
	data := addr(src, "v")
	typ := &term.Sizeof{Type: "Node"}

	sigma := heap.Sigma{listCell(a, b, data, typ), listCell(b, c, data, typ)}

	out, ok := abstraction.FoldTriple(src, sigma, "next")
	assert.True(t, ok)
	assert.Len(t, out, 1)
	seg, ok := out[0].(*heap.Lseg)
	if assert.True(t, ok) {
		assert.Equal(t, heap.NE, seg.Kind)
		assert.True(t, seg.From.Equal(a))
		assert.True(t, seg.To.Equal(c))
	}
}

func TestFoldTripleNoMatchWhenShapesDiffer(t *testing.T) {
	src := ident.NewSource()
	a := addr(src, "a")
	b := addr(src, "b")
	c := addr(src, "c")
	data1 := addr(src, "v1")
	data2 := addr(src, "v2")
	typ := &term.Sizeof{Type: "Node"}

	sigma := heap.Sigma{listCell(a, b, data1, typ), listCell(b, c, data2, typ)}

	_, ok := abstraction.FoldTriple(src, sigma, "next")
	assert.False(t, ok)
}

func TestFoldTripleRefusesWhenInteriorNodeReferencedElsewhere(t *testing.T) {
	src := ident.NewSource()
	a := addr(src, "a")
	b := addr(src, "b")
	c := addr(src, "c")
	data := addr(src, "v")
	typ := &term.Sizeof{Type: "Node"}

	// A third, unrelated cell also points at b: folding a->b->c would hide
	// that alias inside the segment's interior, so the fold must not fire.
	alias := addr(src, "w")
	sigma := heap.Sigma{listCell(a, b, data, typ), listCell(b, c, data, typ), listCell(alias, b, data, typ)}

	_, ok := abstraction.FoldTriple(src, sigma, "next")
	assert.False(t, ok)
}

func TestExtendSegmentGrowsByOneCell(t *testing.T) {
	src := ident.NewSource()
	a := addr(src, "a")
	b := addr(src, "b")
	c := addr(src, "c")
	data := addr(src, "v")
	typ := &term.Sizeof{Type: "Node"}

	sigma := heap.Sigma{listCell(a, b, data, typ), listCell(b, c, data, typ)}
	folded, ok := abstraction.FoldTriple(src, sigma, "next")
	assert.True(t, ok)

	d := addr(src, "d")
	folded = folded.Append(listCell(c, d, data, typ))

	grown, ok := abstraction.ExtendSegment(src, folded)
	assert.True(t, ok)
	assert.Len(t, grown, 1)
	seg := grown[0].(*heap.Lseg)
	assert.True(t, seg.From.Equal(a))
	assert.True(t, seg.To.Equal(d))
}

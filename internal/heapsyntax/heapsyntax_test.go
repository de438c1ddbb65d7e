package heapsyntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shprover/internal/heap"
	"shprover/internal/heapsyntax"
	"shprover/internal/ident"
)

func TestBuildPointsToChain(t *testing.T) {
	h, err := heapsyntax.Build("a |-> 1 : int * b |-> x", ident.NewSource(), heapsyntax.Predicates{})
	require.NoError(t, err)
	require.Len(t, h.Sigma, 2)

	first, ok := h.Sigma[0].(*heap.PointsTo)
	require.True(t, ok)
	assert.Equal(t, "1", first.Val.String())
}

func TestBuildPureConjunction(t *testing.T) {
	h, err := heapsyntax.Build("x = y, a != b ; emp", ident.NewSource(), heapsyntax.Predicates{})
	require.NoError(t, err)
	assert.Equal(t, 2, h.Pure.Len())
	assert.Empty(t, h.Sigma)
}

func TestBuildReusesVariableIdentityAcrossOccurrences(t *testing.T) {
	h, err := heapsyntax.Build("a != b ; a |-> 1 : int", ident.NewSource(), heapsyntax.Predicates{})
	require.NoError(t, err)
	require.Len(t, h.Sigma, 1)
	pt := h.Sigma[0].(*heap.PointsTo)
	aFromPure := h.Pure.Atoms()[0].L
	assert.True(t, aFromPure.Equal(pt.Addr))
}

func TestBuildStructValue(t *testing.T) {
	h, err := heapsyntax.Build("a |-> struct { next: n; val: 1 } : node", ident.NewSource(), heapsyntax.Predicates{})
	require.NoError(t, err)
	require.Len(t, h.Sigma, 1)
	pt := h.Sigma[0].(*heap.PointsTo)
	s, ok := pt.Val.(*heap.Struct)
	require.True(t, ok)
	_, found := s.Get("next")
	assert.True(t, found)
}

func TestBuildSegmentResolvesNamedPredicate(t *testing.T) {
	src := ident.NewSource()
	param := &heap.Param{Root: src.Fresh(ident.Normal, "root"), Next: src.Fresh(ident.Normal, "next")}
	preds := heapsyntax.Predicates{Lseg: map[string]*heap.Param{"list": param}}

	h, err := heapsyntax.Build("lseg_NE(list, a, c)", src, preds)
	require.NoError(t, err)
	require.Len(t, h.Sigma, 1)
	seg, ok := h.Sigma[0].(*heap.Lseg)
	require.True(t, ok)
	assert.Equal(t, heap.NE, seg.Kind)
	assert.Same(t, param, seg.Param)
}

func TestBuildUnknownPredicateErrors(t *testing.T) {
	_, err := heapsyntax.Build("lseg_NE(list, a, c)", ident.NewSource(), heapsyntax.Predicates{})
	assert.Error(t, err)
}

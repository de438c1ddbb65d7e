package prover_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/prover"
	"shprover/internal/subst"
	"shprover/internal/term"
	"shprover/internal/typeenv"
)

// chunkCmp is a cmp.Comparer delegating to heap.Chunk's own structural
// Equal, the same chunk equality the prover itself uses.
var chunkCmp = cmp.Comparer(func(a, b heap.Chunk) bool { return a.Equal(b) })

func newProver() *prover.Prover {
	return prover.New(typeenv.NewRegistry(), ident.NewSource())
}

func leafAt(addr, val term.Expr, typ *term.Sizeof) *heap.PointsTo {
	return &heap.PointsTo{Addr: addr, Val: &heap.Leaf{Exp: val}, Type: typ}
}

func intTyp() *term.Sizeof { return &term.Sizeof{Type: "int"} }

// TestScenarioAPureEqualityEntailment: P1 has substitution {x0 -> y0},
// P2 is the equality x0 = y0.
func TestScenarioAPureEqualityEntailment(t *testing.T) {
	src := ident.NewSource()
	x0 := src.Fresh(ident.Normal, "x0")
	y0 := src.Fresh(ident.Normal, "y0")

	s, ok := subst.Empty().Extend(x0, &term.Var{Id: y0})
	require.True(t, ok)

	p1 := heap.New(s, heap.NewPure(), nil)
	p2 := heap.New(nil, heap.NewPure(heap.Eq(&term.Var{Id: x0}, &term.Var{Id: y0})), nil)

	pr := newProver()
	res, fail := pr.CheckImplication(p1, p2, true, false)
	require.Nil(t, fail)
	assert.Empty(t, res.Frame)
	assert.Equal(t, 0, res.State.MissingPi.Len())
}

// TestScenarioBPointsToReordering: P1 = (a |-> 1) * (b |-> 2),
// P2 = (b |-> 2) * (a |-> 1).
func TestScenarioBPointsToReordering(t *testing.T) {
	src := ident.NewSource()
	a := &term.Var{Id: src.Fresh(ident.Normal, "a")}
	b := &term.Var{Id: src.Fresh(ident.Normal, "b")}
	one := &term.IntConst{Val: term.Int(1)}
	two := &term.IntConst{Val: term.Int(2)}

	p1 := heap.New(nil, heap.NewPure(), heap.Sigma{leafAt(a, one, intTyp()), leafAt(b, two, intTyp())})
	p2 := heap.New(nil, heap.NewPure(), heap.Sigma{leafAt(b, two, intTyp()), leafAt(a, one, intTyp())})

	pr := newProver()
	res, fail := pr.CheckImplication(p1, p2, true, false)
	require.Nil(t, fail)
	assert.Empty(t, res.Frame)
}

// TestScenarioCBiAbductionOfMissingCell: P1 = (a |-> v),
// P2 = (a |-> v) * (b |-> w) with calc_missing=true.
func TestScenarioCBiAbductionOfMissingCell(t *testing.T) {
	src := ident.NewSource()
	a := &term.Var{Id: src.Fresh(ident.Normal, "a")}
	v := &term.Var{Id: src.Fresh(ident.Normal, "v")}
	b := &term.Var{Id: src.Fresh(ident.Footprint, "b")}
	w := &term.Var{Id: src.Fresh(ident.Footprint, "w")}

	p1 := heap.New(nil, heap.NewPure(), heap.Sigma{leafAt(a, v, intTyp())})
	p2 := heap.New(nil, heap.NewPure(), heap.Sigma{leafAt(a, v, intTyp()), leafAt(b, w, intTyp())})

	pr := newProver()
	res, fail := pr.CheckImplication(p1, p2, true, true)
	require.Nil(t, fail)
	assert.Empty(t, res.Frame)

	want := heap.Sigma{leafAt(b, w, intTyp())}
	if diff := cmp.Diff(want, res.State.MissingSigma, chunkCmp); diff != "" {
		t.Errorf("missing sigma mismatch (-want +got):\n%s", diff)
	}
}

// TestCheckAtomsAggregatesAllUnentailedAtoms exercises the batch check_atom
// variant, confirming every failing atom surfaces rather than just the
// first.
func TestCheckAtomsAggregatesAllUnentailedAtoms(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	y := &term.Var{Id: src.Fresh(ident.Normal, "y")}
	z := &term.Var{Id: src.Fresh(ident.Normal, "z")}

	h := heap.New(nil, heap.NewPure(heap.Eq(x, y)), nil)

	pr := newProver()
	err := pr.CheckAtoms(h, []heap.Atom{heap.Eq(x, y), heap.Eq(x, z), heap.Eq(y, z)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), z.String())
	assert.Contains(t, err.Error(), heap.Eq(x, z).String())
	assert.Contains(t, err.Error(), heap.Eq(y, z).String())
}

// TestScenarioDListUnrolling: P1 = lseg_NE(param, a, c, []),
// P2 = (a |-> struct{next: n}) * lseg_PE(param, n, c, []) with n primed.
func TestScenarioDListUnrolling(t *testing.T) {
	src := ident.NewSource()
	a := &term.Var{Id: src.Fresh(ident.Normal, "a")}
	c := &term.Var{Id: src.Fresh(ident.Normal, "c")}
	n := &term.Var{Id: src.Fresh(ident.Primed, "n")}

	paramSrc := ident.NewSource()
	root := paramSrc.Fresh(ident.Normal, "root")
	next := paramSrc.Fresh(ident.Normal, "next")
	param := &heap.Param{
		Root: root, Next: next,
		Body: heap.Sigma{&heap.PointsTo{
			Addr: &term.Var{Id: root},
			Val:  heap.NewStruct(heap.Field{Name: "next", Val: &heap.Leaf{Exp: &term.Var{Id: next}}}),
			Type: intTyp(),
		}},
	}

	p1 := heap.New(nil, heap.NewPure(), heap.Sigma{&heap.Lseg{Kind: heap.NE, Param: param, From: a, To: c}})
	rightCell := &heap.PointsTo{
		Addr: a,
		Val:  heap.NewStruct(heap.Field{Name: "next", Val: &heap.Leaf{Exp: n}}),
		Type: intTyp(),
	}
	p2 := heap.New(nil, heap.NewPure(), heap.Sigma{rightCell, &heap.Lseg{Kind: heap.PE, Param: param, From: n, To: c}})

	pr := newProver()
	res, fail := pr.CheckImplication(p1, p2, true, false)
	require.Nil(t, fail)
	assert.Empty(t, res.Frame)
	assert.Equal(t, 0, res.State.MissingPi.Len())
}

// TestArrayBoundSentinelNotDoubleCountedInMissingPi: P2 restates an
// array-length ordering explicitly in its pure part, the same obligation
// the array match itself records as a BoundsCheck. The restated atom must
// not also surface as a separate missing-pi entry.
func TestArrayBoundSentinelNotDoubleCountedInMissingPi(t *testing.T) {
	src := ident.NewSource()
	a := &term.Var{Id: src.Fresh(ident.Normal, "a")}
	lenL := &term.Var{Id: src.Fresh(ident.Normal, "lenL")}
	lenR := &term.Var{Id: src.Fresh(ident.Normal, "lenR")}

	arrL := &heap.Array{Length: lenL}
	arrR := &heap.Array{Length: lenR}

	p1 := heap.New(nil, heap.NewPure(), heap.Sigma{&heap.PointsTo{Addr: a, Val: arrL, Type: intTyp()}})
	p2 := heap.New(nil, heap.NewPure(heap.Le(lenR, lenL)), heap.Sigma{&heap.PointsTo{Addr: a, Val: arrR, Type: intTyp()}})

	pr := newProver()
	res, fail := pr.CheckImplication(p1, p2, true, true)
	require.Nil(t, fail)
	assert.Equal(t, 0, res.State.MissingPi.Len())
	if assert.Len(t, res.State.Checks, 1) {
		bc, ok := res.State.Checks[0].(*prover.BoundsCheck)
		require.True(t, ok)
		assert.True(t, bc.LenRight.Equal(lenR))
		assert.True(t, bc.LenLeft.Equal(lenL))
	}
}

// TestScenarioFDynamicCastTriggersCheck: P1 = (a |-> _: sizeof(T1,exact)),
// P2 = (a |-> _: sizeof(T2,subtypes)) with T1 not a subtype of T2.
func TestScenarioFDynamicCastTriggersCheck(t *testing.T) {
	src := ident.NewSource()
	a := &term.Var{Id: src.Fresh(ident.Normal, "a")}
	v := &term.Var{Id: src.Fresh(ident.Normal, "v")}

	t1 := &term.Sizeof{Type: "T1", Annot: &term.SubtypeAnnotation{Exact: true}}
	t2 := &term.Sizeof{Type: "T2", Annot: &term.SubtypeAnnotation{}}

	p1 := heap.New(nil, heap.NewPure(), heap.Sigma{&heap.PointsTo{Addr: a, Val: &heap.Leaf{Exp: v}, Type: t1}})
	p2 := heap.New(nil, heap.NewPure(), heap.Sigma{&heap.PointsTo{Addr: a, Val: &heap.Leaf{Exp: v}, Type: t2}})

	pr := newProver()
	res, fail := pr.CheckImplication(p1, p2, true, true)
	require.Nil(t, fail)
	if assert.Len(t, res.State.Checks, 1) {
		cc, ok := res.State.Checks[0].(*prover.ClassCastCheck)
		require.True(t, ok)
		assert.Equal(t, term.TypeName("T1"), cc.From)
		assert.Equal(t, term.TypeName("T2"), cc.To)
		assert.True(t, cc.DefiniteNo)
	}
}

// TestReflexivityOnConsistentHeap is the universal property of spec.md
// §8.1: check_implication(P, P) holds with an empty frame when P is
// consistent.
func TestReflexivityOnConsistentHeap(t *testing.T) {
	src := ident.NewSource()
	a := &term.Var{Id: src.Fresh(ident.Normal, "a")}
	one := &term.IntConst{Val: term.Int(1)}
	p := heap.New(nil, heap.NewPure(), heap.Sigma{leafAt(a, one, intTyp())})

	pr := newProver()
	res, fail := pr.CheckImplication(p, p, true, false)
	require.Nil(t, fail)
	assert.Empty(t, res.Frame)
}

// TestConsistencyOfInconsistentHeap is the universal property of spec.md
// §8.2: an inconsistent P entails anything.
func TestConsistencyOfInconsistentHeap(t *testing.T) {
	src := ident.NewSource()
	a := &term.Var{Id: src.Fresh(ident.Normal, "a")}
	param := &heap.Param{Root: src.Fresh(ident.Normal, "r"), Next: src.Fresh(ident.Normal, "n")}
	p1 := heap.New(nil, heap.NewPure(), heap.Sigma{&heap.Lseg{Kind: heap.NE, Param: param, From: a, To: a}})

	other := &term.Var{Id: src.Fresh(ident.Normal, "unrelated")}
	p2 := heap.New(nil, heap.NewPure(), heap.Sigma{leafAt(other, &term.IntConst{Val: term.Int(0)}, intTyp())})

	pr := newProver()
	assert.True(t, pr.CheckInconsistency(p1))
	_, fail := pr.CheckImplication(p1, p2, true, false)
	assert.Nil(t, fail)
}

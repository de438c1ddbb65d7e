package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/normalize"
	"shprover/internal/term"
)

func TestDoubleNegCancels(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	e := &term.Unary{Op: term.Neg, X: &term.Unary{Op: term.Neg, X: x}}
	got := normalize.Expr(e)
	assert.True(t, got.Equal(x))
}

func TestAdditiveRegrouping(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	// (x + 1) + 2 -> x + 3
	e := &term.Binary{Op: term.Add, L: &term.Binary{Op: term.Add, L: x, R: &term.IntConst{Val: term.Int(1)}}, R: &term.IntConst{Val: term.Int(2)}}
	got := normalize.Expr(e)
	want := &term.Binary{Op: term.Add, L: x, R: &term.IntConst{Val: term.Int(3)}}
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestAdditiveInverseCancels(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	e := &term.Binary{Op: term.Add, L: x, R: &term.Unary{Op: term.Neg, X: x}}
	got := normalize.Expr(e)
	assert.True(t, got.Equal(&term.IntConst{Val: term.Int(0)}))
}

func TestConstantFolding(t *testing.T) {
	e := &term.Binary{Op: term.Add, L: &term.IntConst{Val: term.Int(2)}, R: &term.IntConst{Val: term.Int(3)}}
	got := normalize.Expr(e)
	assert.True(t, got.Equal(&term.IntConst{Val: term.Int(5)}))
}

func TestIdempotent(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	e := &term.Binary{Op: term.Add, L: &term.IntConst{Val: term.Int(2)}, R: x}
	once := normalize.Expr(e)
	twice := normalize.Expr(once)
	assert.True(t, once.Equal(twice))
}

func TestCommutativeCanonicalOrdering(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	a := normalize.Expr(&term.Binary{Op: term.Add, L: &term.IntConst{Val: term.Int(1)}, R: x})
	b := normalize.Expr(&term.Binary{Op: term.Add, L: x, R: &term.IntConst{Val: term.Int(1)}})
	assert.True(t, a.Equal(b))
}

func TestRelationalEncodingRewrite(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	y := &term.Var{Id: src.Fresh(ident.Normal, "y")}
	encoded := heap.Eq(&term.Binary{Op: term.Le, L: x, R: y}, &term.IntConst{Val: term.Int(1)})
	got := normalize.Atom(encoded)
	assert.Equal(t, heap.AtomLe, got.Kind)
}

func TestCastCollapsing(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	e := &term.Cast{To: "int", X: &term.Cast{To: "long", X: x}}
	got := normalize.Expr(e).(*term.Cast)
	assert.Equal(t, term.TypeName("int"), got.To)
	assert.True(t, got.X.Equal(x))
}

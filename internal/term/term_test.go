package term_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shprover/internal/ident"
	"shprover/internal/term"
)

func TestIntValAreaOrdering(t *testing.T) {
	neg := term.IntVal{Unsigned: false, Value: uint64(int64(-1))}
	big := term.IntVal{Unsigned: true, Value: 1 << 63}
	small := term.Int(5)

	assert.Equal(t, term.AreaSignedOnly, neg.Area())
	assert.Equal(t, term.AreaOverlap, small.Area())
	require.NotEqual(t, neg.Compare(big), 0)
}

func TestNullDistinctFromZero(t *testing.T) {
	zero := term.Int(0)
	assert.False(t, term.NullPtr.Equal(zero))
	assert.True(t, term.NullPtr.IsNull())
	assert.False(t, zero.IsNull())
}

func TestInternerCanonicalizesStructuralEquals(t *testing.T) {
	in := term.NewInterner()
	src := ident.NewSource()
	v := src.Fresh(ident.Primed, "x")

	a := in.Intern(&term.Binary{Op: term.Add, L: &term.Var{Id: v}, R: &term.IntConst{Val: term.Int(1)}})
	b := in.Intern(&term.Binary{Op: term.Add, L: &term.Var{Id: v}, R: &term.IntConst{Val: term.Int(1)}})

	assert.True(t, term.Identical(a, b), "structurally equal expressions should intern to the same pointer")
}

func TestOccursCheck(t *testing.T) {
	src := ident.NewSource()
	x := src.Fresh(ident.Primed, "x")
	e := &term.Binary{Op: term.Add, L: &term.Var{Id: x}, R: &term.IntConst{Val: term.Int(2)}}

	assert.True(t, term.Occurs(x, e))
	assert.False(t, term.Occurs(src.Fresh(ident.Primed, "y"), e))
}

func TestCompareTotalOrder(t *testing.T) {
	a := &term.IntConst{Val: term.Int(1)}
	b := &term.IntConst{Val: term.Int(2)}
	assert.True(t, term.Less(a, b))
	assert.False(t, term.Less(b, a))
	assert.Equal(t, 0, term.Compare(a, &term.IntConst{Val: term.Int(1)}))
}

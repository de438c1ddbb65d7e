package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shprover/internal/constraint"
	"shprover/internal/ident"
	"shprover/internal/term"
)

func vars(names ...string) []term.Expr {
	src := ident.NewSource()
	out := make([]term.Expr, len(names))
	for i, n := range names {
		out[i] = &term.Var{Id: src.Fresh(ident.Normal, n)}
	}
	return out
}

// TestScenarioE is spec.md §8 Scenario E: pi1 = {x<=y, y<=z}, pi2 = {x<=z}.
func TestScenarioETransitiveLe(t *testing.T) {
	xyz := vars("x", "y", "z")
	x, y, z := xyz[0], xyz[1], xyz[2]

	e := constraint.New()
	e.AddLe(x, y)
	e.AddLe(y, z)
	e.Saturate()

	assert.True(t, e.CheckLe(x, z))
}

func TestScenarioEInconsistency(t *testing.T) {
	xyz := vars("x", "y", "z")
	x, y, z := xyz[0], xyz[1], xyz[2]

	e := constraint.New()
	e.AddLe(x, y)
	e.AddLe(y, z)
	// z - x <= -1 (z < x) directly contradicts the derived x <= z.
	e.AddLe(&term.Binary{Op: term.Add, L: z, R: &term.IntConst{Val: term.Int(1)}}, x)
	e.Saturate()

	assert.True(t, e.Inconsistent())
}

func TestCheckLtAndNe(t *testing.T) {
	xy := vars("x", "y")
	x, y := xy[0], xy[1]
	e := constraint.New()
	e.AddLt(x, y)
	e.Saturate()

	assert.True(t, e.CheckLt(x, y))
	assert.True(t, e.CheckNe(x, y))
	assert.True(t, e.CheckLe(x, y))
}

func TestBounds(t *testing.T) {
	xy := vars("x")
	x := xy[0]
	e := constraint.New()
	e.AddLe(x, &term.IntConst{Val: term.Int(10)})
	e.AddLe(&term.IntConst{Val: term.Int(2)}, x)
	e.Saturate()

	upper, lower := e.Bounds(x)
	if assert.NotNil(t, upper) {
		assert.Equal(t, int64(10), *upper)
	}
	if assert.NotNil(t, lower) {
		assert.Equal(t, int64(2), *lower)
	}
}

func TestUnknownReturnsFalse(t *testing.T) {
	xy := vars("x", "y")
	x, y := xy[0], xy[1]
	e := constraint.New()
	e.Saturate()
	assert.False(t, e.CheckLe(x, y))
	assert.False(t, e.CheckLt(x, y))
	assert.False(t, e.CheckNe(x, y))
}

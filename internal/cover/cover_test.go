package cover_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shprover/internal/cover"
	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/term"
)

// setOracle treats each heap.Pure in a conjunction as a set of equality
// constraints {x=k}; it is "unsat" when two distinct values are both
// asserted equal to the same variable (a toy but faithful enough stand-in
// for the constraint engine this plugs into in internal/prover).
type setOracle struct{}

func (setOracle) Unsat(negated []heap.Pure) bool {
	vals := map[string]string{}
	for _, pi := range negated {
		for _, a := range pi.Atoms() {
			if a.Kind != heap.AtomEq {
				continue
			}
			k, v := a.L.String(), a.R.String()
			if prev, ok := vals[k]; ok && prev != v {
				return true
			}
			vals[k] = v
		}
	}
	return false
}

func TestFindCoversWithMinimumSubset(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	one := &term.IntConst{Val: term.Int(1)}
	two := &term.IntConst{Val: term.Int(2)}

	cases := []cover.Case{
		{Pi: heap.NewPure(heap.Neq(x, one)), Tag: "case-1"},
		{Pi: heap.NewPure(heap.Neq(x, two)), Tag: "case-2"},
	}

	res := cover.Find(cases, setOracle{}, nil)
	assert.Equal(t, cover.Covering, res.Outcome)
	assert.NotEmpty(t, res.Cases)
}

func TestFindNotCoveringWhenConsistent(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	one := &term.IntConst{Val: term.Int(1)}

	cases := []cover.Case{
		{Pi: heap.NewPure(heap.Eq(x, one)), Tag: "only-case"},
	}
	res := cover.Find(cases, setOracle{}, nil)
	assert.Equal(t, cover.NotCovering, res.Outcome)
}

type exhaustedBudget struct{ calls int }

func (b *exhaustedBudget) Pay() bool {
	b.calls++
	return false
}

func TestFindRespectsBudget(t *testing.T) {
	src := ident.NewSource()
	x := &term.Var{Id: src.Fresh(ident.Normal, "x")}
	one := &term.IntConst{Val: term.Int(1)}
	cases := make([]cover.Case, 0, 200)
	for i := 0; i < 200; i++ {
		cases = append(cases, cover.Case{Pi: heap.NewPure(heap.Eq(x, one)), Tag: i})
	}
	b := &exhaustedBudget{}
	res := cover.Find(cases, setOracle{}, b)
	assert.Equal(t, cover.BudgetExhausted, res.Outcome)
}

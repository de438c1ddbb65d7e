package subtype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shprover/internal/subtype"
	"shprover/internal/term"
)

type fakeEnv struct {
	subtypes map[[2]term.TypeName]bool
}

func (f *fakeEnv) IsKnownSubtype(a, b term.TypeName) bool {
	if a == b {
		return true
	}
	return f.subtypes[[2]term.TypeName{a, b}]
}

func TestExactAndKnownSubtypeIsAlwaysSafe(t *testing.T) {
	env := &fakeEnv{subtypes: map[[2]term.TypeName]bool{{"Dog", "Animal"}: true}}
	r := subtype.Analyze(env, "Dog", term.SubtypeAnnotation{Exact: true}, "Animal", term.SubtypeAnnotation{})
	assert.True(t, r.AlwaysSafe())
}

// TestUnrelatedExactIsDefiniteError mirrors spec.md §8 Scenario F: an exact
// T1 that is not a subtype of T2 raises a definite class-cast error.
func TestUnrelatedExactIsDefiniteError(t *testing.T) {
	env := &fakeEnv{}
	r := subtype.Analyze(env, "Cat", term.SubtypeAnnotation{Exact: true}, "Dog", term.SubtypeAnnotation{})
	assert.True(t, r.DefiniteError())
}

func TestExcludedOnRightForcesNegative(t *testing.T) {
	env := &fakeEnv{subtypes: map[[2]term.TypeName]bool{{"Dog", "Animal"}: true}}
	r := subtype.Analyze(env, "Dog", term.SubtypeAnnotation{Exact: true}, "Animal", term.SubtypeAnnotation{Excluding: []term.TypeName{"Dog"}})
	assert.True(t, r.DefiniteError())
}

func TestNonExactUnrelatedIsDefiniteError(t *testing.T) {
	env := &fakeEnv{}
	r := subtype.Analyze(env, "Shape", term.SubtypeAnnotation{}, "Widget", term.SubtypeAnnotation{})
	assert.True(t, r.DefiniteError())
}

func TestNonExactSuperclassConsidersBoth(t *testing.T) {
	env := &fakeEnv{subtypes: map[[2]term.TypeName]bool{{"Dog", "Animal"}: true}}
	r := subtype.Analyze(env, "Animal", term.SubtypeAnnotation{}, "Dog", term.SubtypeAnnotation{})
	assert.True(t, r.ConsiderBoth())
}

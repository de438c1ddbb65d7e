package diag_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shprover/internal/diag"
)

func TestFailureIsMatchesByKind(t *testing.T) {
	a := diag.New(diag.ProofFailure, "x != y", nil)
	b := diag.New(diag.ProofFailure, "different reason", nil)
	c := diag.New(diag.BoundsCheckPending, "x != y", nil)

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestErrorStringIncludesKind(t *testing.T) {
	f := diag.New(diag.Unimplemented, "no matcher rule for dllseg x dllseg", nil)
	assert.Contains(t, f.Error(), "unimplemented")
}

func TestRenderDoesNotPanic(t *testing.T) {
	for _, k := range []diag.Kind{
		diag.ProofFailure, diag.MissingRequired, diag.BoundsCheckPending,
		diag.ClassCastCheckPending, diag.Unimplemented, diag.TimeBudgetExhausted,
		diag.Inconsistent,
	} {
		assert.NotEmpty(t, diag.Render(diag.New(k, "reason", nil)))
	}
}

func TestAggregateCombinesMultipleFailures(t *testing.T) {
	a := diag.New(diag.ProofFailure, "first", nil)
	b := diag.New(diag.ProofFailure, "second", nil)

	err := diag.Aggregate(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestAggregateOfNoFailuresIsNil(t *testing.T) {
	assert.NoError(t, diag.Aggregate())
	assert.NoError(t, diag.Aggregate(nil, nil))
}

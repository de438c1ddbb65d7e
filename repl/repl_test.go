package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"shprover/repl"
)

func TestStartReportsEntailmentHolds(t *testing.T) {
	in := strings.NewReader("a |-> 1 : int |- a |-> 1 : int\nquit\n")
	var out bytes.Buffer

	repl.Start(in, &out)

	assert.Contains(t, out.String(), "entailment holds")
}

func TestStartReportsParseError(t *testing.T) {
	in := strings.NewReader("not valid heap syntax ((( |- a\nquit\n")
	var out bytes.Buffer

	repl.Start(in, &out)

	assert.Contains(t, out.String(), "left heap:")
}

func TestStartRequiresTurnstile(t *testing.T) {
	in := strings.NewReader("a |-> 1 : int\nquit\n")
	var out bytes.Buffer

	repl.Start(in, &out)

	assert.Contains(t, out.String(), "expected")
}

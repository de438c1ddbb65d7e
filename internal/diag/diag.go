// Package diag implements the failure taxonomy of spec.md §7: the
// distinct outcomes a prover query can produce, as typed Go errors, plus
// a fatih/color-based plain-text renderer for diagnostics. Grounded on the
// teacher's internal/errors package (coded structured errors with a
// colorized renderer).
package diag

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
)

// Kind enumerates the failure kinds of spec.md §7.
type Kind int

const (
	// ProofFailure: the entailment does not hold and calc_missing was
	// false, so no recovery was attempted.
	ProofFailure Kind = iota
	// MissingRequired: bi-abductive recovery (calc_missing=true) could
	// not synthesize a footprint that would make the entailment hold.
	MissingRequired
	// BoundsCheckPending: a deferred array-length bound could not be
	// discharged and is reported rather than failing outright.
	BoundsCheckPending
	// ClassCastCheckPending: a dynamic-cast case analysis produced a
	// definite-negative instantiation while calc_missing was true.
	ClassCastCheckPending
	// Unimplemented: the query touches a shape the prover does not
	// handle (e.g. a chunk kind combination with no matcher rule).
	Unimplemented
	// TimeBudgetExhausted: a cooperative pay() call aborted the query.
	TimeBudgetExhausted
	// Inconsistent: the left-hand heap was already inconsistent (the
	// query is vacuously true, but callers may want to know).
	Inconsistent
)

func (k Kind) String() string {
	names := [...]string{
		"proof-failure", "missing-required", "bounds-check-pending",
		"class-cast-check-pending", "unimplemented", "time-budget-exhausted",
		"inconsistent",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Failure is the typed error returned by a failed prover query.
type Failure struct {
	Kind Kind
	// Reason is a short human-readable explanation (no trailing period,
	// matching the teacher's coded-error message convention).
	Reason string
	// Body carries kind-specific detail (e.g. the offending chunk's
	// String(), or a checks list) for callers that want more than the
	// message.
	Body any
}

func New(kind Kind, reason string, body any) *Failure {
	return &Failure{Kind: kind, Reason: reason, Body: body}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Reason)
}

// Is supports errors.Is by Kind, so callers can branch with
// errors.Is(err, diag.New(diag.ProofFailure, "", nil)) style checks, or
// more idiomatically check Kind directly via errors.As.
func (f *Failure) Is(target error) bool {
	o, ok := target.(*Failure)
	return ok && o.Kind == f.Kind
}

var (
	proofFailureColor = color.New(color.FgRed, color.Bold)
	warnColor         = color.New(color.FgYellow)
	infoColor         = color.New(color.FgCyan)
)

// Aggregate combines independent query failures (e.g. one per atom in a
// batch of check_atom calls, or one per candidate subset a cover search
// rejected) into a single error, the same multierror.Append pattern
// hashicorp/nomad uses for batched operation results. Returns nil if fails
// is empty or every entry is nil.
func Aggregate(fails ...*Failure) error {
	var result *multierror.Error
	for _, f := range fails {
		if f != nil {
			result = multierror.Append(result, f)
		}
	}
	return result.ErrorOrNil()
}

// Render produces a colorized one-line rendering of a failure, in the
// teacher's diagnostic-reporter style (severity-colored prefix, plain
// message body).
func Render(f *Failure) string {
	switch f.Kind {
	case ProofFailure, MissingRequired, Inconsistent:
		return proofFailureColor.Sprintf("[%s]", f.Kind) + " " + f.Reason
	case BoundsCheckPending, ClassCastCheckPending, TimeBudgetExhausted:
		return warnColor.Sprintf("[%s]", f.Kind) + " " + f.Reason
	default:
		return infoColor.Sprintf("[%s]", f.Kind) + " " + f.Reason
	}
}

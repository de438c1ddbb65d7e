// Package prover implements the entailment prover of spec.md §4.6-§4.9:
// the central check_implication algorithm composing the Term,
// Substitution, Normalizer, Constraint Engine, Heap Model, Matcher and
// Subtype Reasoner packages, plus the Prover State (§4.7) and the public
// API of spec.md §6. Grounded on the teacher's internal/semantic.Analyzer
// top-level driver: reset state, walk the input, read back the
// accumulated result — the same shape this package's CheckImplication
// gives the Entailment Prover composing the other packages' registries.
package prover

import (
	"shprover/internal/heap"
	"shprover/internal/term"
)

// FieldObligation records a struct/array field present on only one side
// of an entailment (spec.md §4.6 sexp_imply: "field-frame"/"field-missing").
type FieldObligation struct {
	Owner term.Expr // the struct/array's own address
	Field string     // field name, or a formatted index for arrays
	Val   heap.SVal
}

// TypeObligation records a dynamic-cast case-analysis outcome that did not
// settle definitely (spec.md §4.9: "consider both possibilities").
type TypeObligation struct {
	Expr term.Expr
	From term.TypeName
	To   term.TypeName
}

// Check is the sum type of spec.md §4.7's `checks` field:
// BoundsCheck | ClassCastCheck(e, from, to).
type Check interface {
	isCheck()
	String() string
}

// BoundsCheck records a deferred array-length ordering obligation
// (spec.md §4.6 finalization: "len_R <= len_L").
type BoundsCheck struct {
	LenLeft, LenRight term.Expr
}

// ClassCastCheck records a dynamic cast whose case analysis found it
// definitely unsafe while missing parts were being computed (DefiniteNo is
// then true). A cast whose analysis considers both outcomes is recorded as
// a TypeObligation instead.
type ClassCastCheck struct {
	Addr       term.Expr
	From, To   term.TypeName
	DefiniteNo bool
}

func (*BoundsCheck) isCheck()    {}
func (*ClassCastCheck) isCheck() {}

func (c *BoundsCheck) String() string {
	return "bounds-check(" + c.LenRight.String() + " <= " + c.LenLeft.String() + ")"
}
func (c *ClassCastCheck) String() string {
	return "class-cast-check(" + c.Addr.String() + ": " + string(c.From) + " -> " + string(c.To) + ")"
}

// State is the thread-local mutable aggregation container of spec.md
// §4.7, reset at the entry of every check_implication call.
type State struct {
	MissingPi    heap.Pure
	MissingSigma heap.Sigma
	MissingFields []FieldObligation
	MissingTyp    []TypeObligation
	FrameFields   []FieldObligation
	FrameTyp      []TypeObligation
	BoundsChecks  []BoundsCheck
	Checks        []Check
}

func newState() *State {
	return &State{MissingPi: heap.NewPure()}
}

func (s *State) addMissingPi(a heap.Atom)  { s.MissingPi.Add(a) }
func (s *State) addMissingSigma(c heap.Chunk) { s.MissingSigma = s.MissingSigma.Append(c) }
func (s *State) addCheck(c Check)          { s.Checks = append(s.Checks, c) }

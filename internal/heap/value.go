package heap

import (
	"fmt"
	"sort"

	"shprover/internal/term"
)

// ProvKind tags the provenance instrumentation spec.md §3 attaches to a
// leaf structured value, for diagnostics and joins: how the value came to
// be in the heap, not part of its logical meaning.
type ProvKind int

const (
	ProvNone ProvKind = iota
	ProvAbstraction
	ProvAllocSite
	ProvFormalParam
	ProvLookup
	ProvNullification
	ProvRearrangement
	ProvTaint
	ProvUpdate
)

func (p ProvKind) String() string {
	names := [...]string{"none", "abstraction", "alloc-site", "formal-param",
		"lookup", "nullification", "rearrangement", "taint", "update"}
	if int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// Instrumentation records the provenance of an exp-leaf value (spec.md
// §3). FormalParam origins additionally carry whether the formal was zero
// at entry and whether a null-case was observed, matching the two flags
// spec.md names explicitly.
type Instrumentation struct {
	Kind          ProvKind
	AllocSite     string
	FormalZero    bool
	FormalNullObs bool
}

// SVal is the closed sum type of structured values: exp-leaf, struct, and
// array (spec.md §3).
type SVal interface {
	isSVal()
	Equal(SVal) bool
	String() string
}

// Leaf is a scalar structured value: an expression plus provenance.
type Leaf struct {
	Exp   term.Expr
	Instr Instrumentation
}

// Field is one (name -> value) entry of a Struct, kept sorted by Name.
type Field struct {
	Name string
	Val  SVal
}

// Struct is an ordered list of fields sorted by field name (spec.md §3).
type Struct struct {
	Fields []Field
}

// NewStruct builds a Struct from fields, sorting by name.
func NewStruct(fields ...Field) *Struct {
	cp := append([]Field{}, fields...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Name < cp[j].Name })
	return &Struct{Fields: cp}
}

// Get returns the value bound to name, if present.
func (s *Struct) Get(name string) (SVal, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Val, true
		}
	}
	return nil, false
}

// ArrayEntry is one (index -> value) entry of an Array.
type ArrayEntry struct {
	Index term.Expr
	Val   SVal
}

// Array is (length, sparse index->value entries, provenance). Indices are
// distinct; spec.md §3 invariant: "each index is less than the length" —
// enforced by the prover/normalizer producing Arrays, not by the type
// itself (a bare data carrier should not itself reject construction: it
// mirrors the teacher's convention of validating at the producing call
// site, not in the value constructor).
type Array struct {
	Length  term.Expr
	Entries []ArrayEntry
	Instr   Instrumentation
}

func (*Leaf) isSVal()   {}
func (*Struct) isSVal() {}
func (*Array) isSVal()  {}

func (v *Leaf) String() string { return v.Exp.String() }
func (v *Struct) String() string {
	s := "struct{"
	for i, f := range v.Fields {
		if i > 0 {
			s += "; "
		}
		s += fmt.Sprintf("%s: %s", f.Name, f.Val)
	}
	return s + "}"
}
func (v *Array) String() string {
	s := fmt.Sprintf("array[%s]{", v.Length)
	for i, e := range v.Entries {
		if i > 0 {
			s += "; "
		}
		s += fmt.Sprintf("%s: %s", e.Index, e.Val)
	}
	return s + "}"
}

func (v *Leaf) Equal(o SVal) bool {
	w, ok := o.(*Leaf)
	return ok && v.Exp.Equal(w.Exp)
}
func (v *Struct) Equal(o SVal) bool {
	w, ok := o.(*Struct)
	if !ok || len(v.Fields) != len(w.Fields) {
		return false
	}
	for i := range v.Fields {
		if v.Fields[i].Name != w.Fields[i].Name || !v.Fields[i].Val.Equal(w.Fields[i].Val) {
			return false
		}
	}
	return true
}
func (v *Array) Equal(o SVal) bool {
	w, ok := o.(*Array)
	if !ok || !v.Length.Equal(w.Length) || len(v.Entries) != len(w.Entries) {
		return false
	}
	for i := range v.Entries {
		if !v.Entries[i].Index.Equal(w.Entries[i].Index) || !v.Entries[i].Val.Equal(w.Entries[i].Val) {
			return false
		}
	}
	return true
}

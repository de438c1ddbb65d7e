// Package ident implements the three disjoint identifier kinds the prover
// works over: normal (caller-visible) variables, primed (existentially
// quantified within one heap) variables, and footprint (universally
// quantified in an abduced missing part) variables.
package ident

import "fmt"

// Kind tags which of the three disjoint identifier universes an Ident
// belongs to.
type Kind int

const (
	// Normal identifiers are free variables bound by the calling context.
	Normal Kind = iota
	// Primed identifiers are existentially quantified within a single heap
	// and may be instantiated by substitution.
	Primed
	// Footprint identifiers are universally quantified in the abduced
	// missing part; they are allocated lazily during proof and never freed.
	Footprint
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Primed:
		return "primed"
	case Footprint:
		return "footprint"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Ident is a stamped identifier. Equal and Less look at (Kind, Stamp)
// only: Name is diagnostic and is not compared, so two idents with the
// same kind and stamp but different names are the same identifier to
// Equal. Go's == on the struct (and so a map key) does include Name.
type Ident struct {
	Kind  Kind
	Stamp int64
	Name  string
}

// Equal reports whether two idents denote the same variable.
func (id Ident) Equal(other Ident) bool {
	return id.Kind == other.Kind && id.Stamp == other.Stamp
}

// Less gives a total order over idents, used for sorted substitutions and
// atom sets (spec.md §3, §9: "ordered sets of atoms... sorted vector").
func (id Ident) Less(other Ident) bool {
	if id.Kind != other.Kind {
		return id.Kind < other.Kind
	}
	return id.Stamp < other.Stamp
}

func (id Ident) String() string {
	prefix := ""
	switch id.Kind {
	case Primed:
		prefix = "'"
	case Footprint:
		prefix = "#"
	}
	if id.Name != "" {
		return fmt.Sprintf("%s%s$%d", prefix, id.Name, id.Stamp)
	}
	return fmt.Sprintf("%sv$%d", prefix, id.Stamp)
}

// Source hands out fresh, distinct stamps per kind. A Source is not safe
// for concurrent use without external synchronization; spec.md §5 assigns
// one prover-state (and hence one Source) per query.
type Source struct {
	next [3]int64
}

// NewSource returns a Source with all counters starting at 1 (stamp 0 is
// reserved so a zero-value Ident is recognizably invalid).
func NewSource() *Source {
	return &Source{next: [3]int64{1, 1, 1}}
}

// Fresh allocates a new identifier of the given kind with an optional
// diagnostic name.
func (s *Source) Fresh(kind Kind, name string) Ident {
	stamp := s.next[kind]
	s.next[kind]++
	return Ident{Kind: kind, Stamp: stamp, Name: name}
}

// FreshLike allocates a fresh identifier of the same kind as base, used
// when instantiating predicate parameters or unrolling segments (spec.md
// §4.4 "produce fresh existentials").
func (s *Source) FreshLike(base Ident) Ident {
	return s.Fresh(base.Kind, base.Name)
}

// IsValid reports whether id was produced by a Source (stamp != 0).
func (id Ident) IsValid() bool { return id.Stamp != 0 }

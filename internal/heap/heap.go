package heap

import (
	"fmt"

	"shprover/internal/subst"
)

// Heap is the symbolic heap triple (substitution, pure, spatial) of
// spec.md §3: "a symbolic heap is a triple (substitution, pure-atoms,
// spatial-atoms) describing a set of concrete program states". Heaps are
// immutable once built (spec.md §3 "Lifecycle"); every transformation
// (substitution, unfolding, abstraction) returns a new Heap value.
type Heap struct {
	Subst *subst.Subst
	Pure  Pure
	Sigma Sigma
}

// New builds a Heap from its three parts.
func New(s *subst.Subst, pi Pure, sigma Sigma) *Heap {
	if s == nil {
		s = subst.Empty()
	}
	return &Heap{Subst: s, Pure: pi, Sigma: sigma}
}

// Empty returns the heap `emp` with no substitution and no facts.
func Empty() *Heap {
	return New(subst.Empty(), Pure{}, nil)
}

// WithSigma returns a copy of h with Sigma replaced.
func (h *Heap) WithSigma(sigma Sigma) *Heap {
	return &Heap{Subst: h.Subst, Pure: h.Pure, Sigma: sigma}
}

// WithPure returns a copy of h with Pure replaced.
func (h *Heap) WithPure(pi Pure) *Heap {
	return &Heap{Subst: h.Subst, Pure: pi, Sigma: h.Sigma}
}

func (h *Heap) String() string {
	return fmt.Sprintf("{subst=%d pairs, pi=%v, sigma=%s}", h.Subst.Len(), h.Pure.Atoms(), h.Sigma)
}

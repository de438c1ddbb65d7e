// Package constraint implements the difference-constraint saturation
// engine of spec.md §4.3: given the pure part's `<=`/`<`/`!=` facts (plus
// unsigned-length-field invariants supplied by the caller), it saturates
// a set of `x - y <= n` difference constraints by transitive composition
// and answers check_le/check_lt/check_ne/get_bounds queries. Every query
// returns a sound-but-possibly-incomplete boolean: `false` must be read as
// "don't know", never as "definitely false" (spec.md §4.3).
package constraint

import (
	"sort"

	"shprover/internal/term"
)

// pair is a key for two base expressions, compared structurally. keyOf
// always uses the expression's canonical String() as the map key (rather
// than a raw pointer), so structurally-equal-but-distinct expression
// instances collapse to the same constraint-graph node, at the cost of a
// string allocation per lookup.
type pair struct{ l, r string }

// Engine accumulates and saturates difference constraints for one query.
// It is not safe for concurrent use; spec.md §5 gives each query its own
// instance.
type Engine struct {
	leqs []Fact
	lts  []Fact
	neqs []Fact

	sat   map[pair]int64           // saturated: l - r <= n, minimal n seen
	bases map[pair][2]term.Expr    // pair key -> the original (l, r) expressions
}

// Fact is a raw `l op r` pure-part fact before saturation.
type Fact struct{ L, R term.Expr }

// New returns an empty Engine.
func New() *Engine {
	return &Engine{sat: map[pair]int64{}, bases: map[pair][2]term.Expr{}}
}

// AddLe records `l <= r`.
func (e *Engine) AddLe(l, r term.Expr) { e.leqs = append(e.leqs, Fact{l, r}) }

// AddLt records `l < r`.
func (e *Engine) AddLt(l, r term.Expr) { e.lts = append(e.lts, Fact{l, r}) }

// AddNeq records `l != r`.
func (e *Engine) AddNeq(l, r term.Expr) { e.neqs = append(e.neqs, Fact{l, r}) }

// Leqs, Lts, Neqs expose the raw (un-saturated) fact sets, sorted for
// deterministic iteration (spec.md §9: "ordered sets of atoms").
func (e *Engine) Leqs() []Fact { return sortedFacts(e.leqs) }
func (e *Engine) Lts() []Fact  { return sortedFacts(e.lts) }
func (e *Engine) Neqs() []Fact { return sortedFacts(e.neqs) }

func sortedFacts(fs []Fact) []Fact {
	out := append([]Fact{}, fs...)
	sort.Slice(out, func(i, j int) bool {
		if c := term.Compare(out[i].L, out[j].L); c != 0 {
			return c < 0
		}
		return term.Compare(out[i].R, out[j].R) < 0
	})
	return out
}

// decompose splits e into (base, offset) for `base + c`, falling back to
// (e, 0) when e is not an additive-constant shape. Only signed constant
// offsets participate, matching spec.md §4.3's "only signed bounds
// participate" termination guarantee.
func decompose(e term.Expr) (base term.Expr, off int64, ok bool) {
	if c, isConst := e.(*term.IntConst); isConst {
		if c.Val.Pointer {
			return nil, 0, false
		}
		if c.Val.Unsigned && int64(c.Val.Value) < 0 {
			// Large unsigned value not representable as signed: drop it
			// rather than risk an unsound/non-terminating saturation.
			return nil, 0, false
		}
		return zeroExpr, int64(c.Val.Value), true
	}
	if b, isBin := e.(*term.Binary); isBin && b.Op == term.Add {
		if c, isConst := b.R.(*term.IntConst); isConst && !c.Val.Unsigned {
			return b.L, int64(c.Val.Value), true
		}
		if c, isConst := b.L.(*term.IntConst); isConst && !c.Val.Unsigned {
			return b.R, int64(c.Val.Value), true
		}
	}
	return e, 0, true
}

// zeroExpr is the synthetic base of a bare integer constant, representing
// "the zero expression" so that constants participate in the same
// constraint graph as variables (a constant `n` decomposes to
// `zeroExpr + n`).
var zeroExpr term.Expr = &term.IntConst{Val: term.Int(0)}

func keyOf(e term.Expr) string { return e.String() }

// record inserts/relaxes the constraint base(l) - base(r) <= n; it keeps
// the tighter (smaller) bound when one already exists, matching spec.md
// §4.3's "remove redundancies (same pair, larger bound)".
func (e *Engine) record(l, r term.Expr, n int64, todo *[]pair) {
	k := pair{keyOf(l), keyOf(r)}
	if cur, ok := e.sat[k]; ok && cur <= n {
		return
	}
	e.sat[k] = n
	e.bases[k] = [2]term.Expr{l, r}
	*todo = append(*todo, k)
}

// Saturate runs difference-constraint saturation to a fixed point
// (spec.md §4.3): maintain a seen set and todo queue, process the head,
// derive new constraints by transitive composition against everything
// seen so far, drop redundant (weaker) re-derivations, enqueue novel
// ones, and stop when the queue empties.
func (e *Engine) Saturate() {
	var todo []pair

	for _, f := range e.leqs {
		lb, loff, lok := decompose(f.L)
		rb, roff, rok := decompose(f.R)
		if lok && rok {
			e.record(lb, rb, roff-loff, &todo)
		}
	}
	for _, f := range e.lts {
		// x < y  ==  x - y <= -1, adjusted for any constant offsets.
		lb, loff, lok := decompose(f.L)
		rb, roff, rok := decompose(f.R)
		if lok && rok {
			e.record(lb, rb, roff-loff-1, &todo)
		}
	}

	for len(todo) > 0 {
		cur := todo[0]
		todo = todo[1:]
		n1 := e.sat[cur]
		b1 := e.bases[cur]
		x, y := b1[0], b1[1]
		if x.Equal(y) && n1 <= -1 {
			// x - x <= -1 already proves inconsistency; composing it
			// further would only keep lowering the bound without end.
			return
		}

		// Compose cur (x - y <= n1) with every other seen fact (y - z <= n2)
		// to derive x - z <= n1 + n2, and with (w - x <= n3) to derive
		// w - y <= n3 + n1.
		for k2, n2 := range e.sat {
			b2 := e.bases[k2]
			u, v := b2[0], b2[1]
			if u.Equal(y) {
				e.record(x, v, n1+n2, &todo)
			}
			if v.Equal(x) {
				e.record(u, y, n2+n1, &todo)
			}
		}
	}
}

// Inconsistent reports whether the saturated constraint set proves false:
// `x - x <= -1` for some x, or a `!=` fact contradicted by `<=` in both
// directions, or `e <= f` together with `f < e` (spec.md §4.3).
func (e *Engine) Inconsistent() bool {
	for k, n := range e.sat {
		if k.l == k.r && n <= -1 {
			return true
		}
	}
	for _, f := range e.neqs {
		if e.CheckLe(f.L, f.R) && e.CheckLe(f.R, f.L) {
			// l<=r and r<=l forces l==r, contradicting l!=r... but only
			// when both are *tight* (n<=0 each way); CheckLe already only
			// reports true for sound n<=0 bounds given Le semantics below.
			return true
		}
	}
	for _, f := range e.leqs {
		if e.CheckLt(f.R, f.L) {
			return true
		}
	}
	for _, f := range e.lts {
		if e.CheckLe(f.R, f.L) {
			return true
		}
	}
	return false
}

// boundBetween returns the saturated n for base(l) - base(r) <= n, if any
// chain established one.
func (e *Engine) boundBetween(l, r term.Expr) (int64, bool) {
	lb, loff, lok := decompose(l)
	rb, roff, rok := decompose(r)
	if !lok || !rok {
		return 0, false
	}
	k := pair{keyOf(lb), keyOf(rb)}
	n, ok := e.sat[k]
	if !ok {
		return 0, false
	}
	// l = lb+loff, r = rb+roff; lb - rb <= n  =>  l - r <= n + loff - roff
	return n + loff - roff, true
}

// CheckLe reports whether l <= r is provable from the saturated set.
// False means "don't know" (spec.md §4.3).
func (e *Engine) CheckLe(l, r term.Expr) bool {
	if l.Equal(r) {
		return true
	}
	n, ok := e.boundBetween(l, r)
	return ok && n <= 0
}

// CheckLt reports whether l < r is provable.
func (e *Engine) CheckLt(l, r term.Expr) bool {
	n, ok := e.boundBetween(l, r)
	return ok && n <= -1
}

// CheckNe reports whether l != r is provable: either a direct `!=` fact,
// or CheckLt in either direction.
func (e *Engine) CheckNe(l, r term.Expr) bool {
	for _, f := range e.neqs {
		if (f.L.Equal(l) && f.R.Equal(r)) || (f.L.Equal(r) && f.R.Equal(l)) {
			return true
		}
	}
	return e.CheckLt(l, r) || e.CheckLt(r, l)
}

// Bounds returns (upper, lower) numeric bounds for e, if derivable from
// the saturated difference constraints against the synthetic zero base:
// the minimum n with e<=n, and the maximum n with n<=e. Both bounds are
// inclusive; the lower bound is not reported in the strict n<e form.
func (e *Engine) Bounds(expr term.Expr) (upper, lower *int64) {
	zero := zeroExpr
	if n, ok := e.boundBetween(expr, zero); ok {
		v := n
		upper = &v
	}
	if n, ok := e.boundBetween(zero, expr); ok {
		// zero - expr <= n  =>  expr >= -n
		v := -n
		lower = &v
	}
	return upper, lower
}

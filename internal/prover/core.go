package prover

import (
	"shprover/internal/constraint"
	"shprover/internal/diag"
	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/matcher"
	"shprover/internal/normalize"
	"shprover/internal/subst"
	"shprover/internal/term"
	"shprover/internal/typeenv"
)

// Budget is the cooperative time-budget hook of spec.md §5: Pay is called
// at each major recursion step and may abort the query.
type Budget interface {
	Pay() bool
}

// Prover is the entailment prover: it owns no mutable state of its own
// between queries (each call to CheckImplication gets a fresh *State),
// only the long-lived collaborators spec.md §6 calls "external inputs
// consumed": a type environment and an identifier source for fresh
// existentials/footprint variables produced during unrolling.
type Prover struct {
	Types  typeenv.TypeEnv
	Src    *ident.Source
	Budget Budget
}

// New returns a Prover over the given type environment and identifier
// source.
func New(types typeenv.TypeEnv, src *ident.Source) *Prover {
	return &Prover{Types: types, Src: src}
}

func (pr *Prover) pay() bool {
	if pr.Budget == nil {
		return true
	}
	return pr.Budget.Pay()
}

// Result is the success outcome of CheckImplication: the accumulated
// substitution, the left-over frame, and the full prover state (spec.md
// §4.7).
type Result struct {
	Subst *subst.Subst
	Frame heap.Sigma
	State *State
}

// extractBaseSubst restricts s to pairs whose domain and range are both
// normal identifiers, the caller-visible equality context (spec.md §4.6
// preamble: "the base substitution sigma_1^0").
func extractBaseSubst(s *subst.Subst) *subst.Subst {
	out := subst.Empty()
	for _, p := range s.Pairs() {
		if p.Id.Kind != ident.Normal {
			continue
		}
		if v, ok := p.Exp.(*term.Var); !ok || v.Id.Kind != ident.Normal {
			continue
		}
		if next, ok := out.Extend(p.Id, p.Exp); ok {
			out = next
		}
	}
	return out
}

// purePreCheck runs spec.md §4.6's "Pure pre-check": every `v = f` in pi2
// with v primed and not yet bound extends the right substitution
// directly; everything else is deferred to finalization's check_atom
// discharge.
func purePreCheck(pi2 heap.Pure) (sR *subst.Subst, deferred []heap.Atom) {
	sR = subst.Empty()
	for _, a := range pi2.Atoms() {
		if a.Kind != heap.AtomEq {
			deferred = append(deferred, a)
			continue
		}
		if v, ok := a.L.(*term.Var); ok && v.Id.Kind == ident.Primed && !term.Occurs(v.Id, a.R) {
			if next, ok2 := sR.Extend(v.Id, a.R); ok2 {
				sR = next
				continue
			}
		}
		if v, ok := a.R.(*term.Var); ok && v.Id.Kind == ident.Primed && !term.Occurs(v.Id, a.L) {
			if next, ok2 := sR.Extend(v.Id, a.L); ok2 {
				sR = next
				continue
			}
		}
		deferred = append(deferred, a)
	}
	return sR, deferred
}

// buildEngine saturates a constraint.Engine from a pure part's
// order/disequality facts (spec.md §4.3).
func buildEngine(pi heap.Pure) *constraint.Engine {
	e := constraint.New()
	for _, a := range pi.Atoms() {
		switch a.Kind {
		case heap.AtomLe:
			e.AddLe(a.L, a.R)
		case heap.AtomLt:
			e.AddLt(a.L, a.R)
		case heap.AtomNeq:
			e.AddNeq(a.L, a.R)
		}
	}
	e.Saturate()
	return e
}

// checkAtomAgainst reports whether atom a is entailed by pure part pi plus
// its saturated difference constraints (spec.md §4.6 finalization: via
// check_atom).
func checkAtomAgainst(e *constraint.Engine, pi heap.Pure, a heap.Atom) bool {
	if pi.Contains(a) {
		return true
	}
	switch a.Kind {
	case heap.AtomEq:
		if a.L.Equal(a.R) {
			return true
		}
		return e.CheckLe(a.L, a.R) && e.CheckLe(a.R, a.L)
	case heap.AtomNeq:
		return e.CheckNe(a.L, a.R)
	case heap.AtomLe:
		return e.CheckLe(a.L, a.R)
	case heap.AtomLt:
		return e.CheckLt(a.L, a.R)
	default:
		return false
	}
}

// arrayBoundSentinels collects the length expressions already tracked as
// BoundsChecks (spec.md §4.6: "len_R <= len_L"), normalized under the final
// right substitution, so the deferred pi_2 discharge below can recognize
// atoms that merely restate one of these obligations.
func arrayBoundSentinels(sR *subst.Subst, checks []BoundsCheck) []term.Expr {
	out := make([]term.Expr, 0, len(checks)*2)
	for _, bc := range checks {
		out = append(out, normalize.Expr(subst.Apply(sR, bc.LenLeft)), normalize.Expr(subst.Apply(sR, bc.LenRight)))
	}
	return out
}

// isArrayBoundSentinel reports whether atom a is an inequality touching a
// length-position variable already named by a BoundsCheck (spec.md §4.6
// finalization: deferred pi_2 discharge excludes "array-bound sentinels,
// detected as inequalities touching a length-position variable").
func isArrayBoundSentinel(a heap.Atom, sentinels []term.Expr) bool {
	if a.Kind != heap.AtomLe && a.Kind != heap.AtomLt {
		return false
	}
	for _, s := range sentinels {
		if a.L.Equal(s) || a.R.Equal(s) {
			return true
		}
	}
	return false
}

// addrEqFn builds the matcher.AddressEq the spatial walk uses: syntactic
// equality after normalization and applying the in-progress right
// substitution, falling back to the left heap's saturated difference
// constraints.
func (pr *Prover) addrEqFn(engine *constraint.Engine, sR **subst.Subst) matcher.AddressEq {
	return func(l, r term.Expr) bool {
		rr := normalize.Expr(subst.Apply(*sR, r))
		ll := normalize.Expr(l)
		if ll.Equal(rr) {
			return true
		}
		return engine.CheckLe(ll, rr) && engine.CheckLe(rr, ll)
	}
}

// CheckImplication is spec.md §4.6's central algorithm:
// check_implication(P1, P2, check_frame_empty, calc_missing).
func (pr *Prover) CheckImplication(p1, p2 *heap.Heap, checkFrameEmpty, calcMissing bool) (*Result, *diag.Failure) {
	st := newState()
	base := extractBaseSubst(p1.Subst)
	engine := buildEngine(p1.Pure)

	if heap.SyntacticInconsistency(p1.Sigma) {
		// An inconsistent left-hand heap entails anything: succeed
		// trivially with the whole left sigma as frame (spec.md §4.4's
		// inconsistency shapes).
		return &Result{Subst: base, Frame: p1.Sigma, State: st}, nil
	}

	sR, deferredPi2 := purePreCheck(p2.Pure)
	sigmaLeft := append(heap.Sigma{}, p1.Sigma...)
	sigmaRight := applySigma(sR, append(heap.Sigma{}, p2.Sigma...))

	for len(sigmaRight) > 0 {
		if !pr.pay() {
			return nil, diag.New(diag.TimeBudgetExhausted, "check_implication aborted by time budget", nil)
		}
		reordered := matcher.Reorder(sigmaRight)
		head, rest := reordered[0], reordered[1:]
		eq := pr.addrEqFn(engine, &sR)

		cand := matcher.Find(sigmaLeft, head, eq)
		switch cand.Kind {
		case matcher.NoMatch:
			if !calcMissing {
				return nil, diag.New(diag.ProofFailure, "no matching chunk for "+head.String(), nil)
			}
			st.addMissingSigma(applyChunk(sR, head))
			sigmaRight = rest

		case matcher.PointsToPointsTo:
			lc := sigmaLeft[cand.Index].(*heap.PointsTo)
			rc := head.(*heap.PointsTo)
			if !pr.texpImply(st, lc.Addr, lc.Type, rc.Type, calcMissing) {
				return nil, diag.New(diag.ProofFailure, "type mismatch at "+lc.Addr.String(), nil)
			}
			if !pr.sexpImply(st, lc.Addr, &sR, lc.Val, rc.Val, calcMissing) {
				return nil, diag.New(diag.ProofFailure, "structured value mismatch at "+lc.Addr.String(), nil)
			}
			sigmaLeft = sigmaLeft.Remove(cand.Index)
			sigmaRight = rest

		case matcher.PointsToOverSegment:
			sigmaRight = unrollRightSegment(pr.Src, head, rest)

		case matcher.SegmentOverPointsTo:
			var ok bool
			sigmaLeft, ok = unrollLeftSegment(pr.Src, sigmaLeft, cand.Index)
			if !ok {
				return nil, diag.New(diag.Unimplemented, "cannot unroll left segment", nil)
			}

		case matcher.SameSegment:
			ok := pr.joinSameSegment(st, &sR, sigmaLeft[cand.Index], head, cand.RecordNonEmpty, calcMissing)
			if !ok {
				return nil, diag.New(diag.ProofFailure, "segment endpoints disagree", nil)
			}
			sigmaLeft = sigmaLeft.Remove(cand.Index)
			sigmaRight = rest

		default:
			return nil, diag.New(diag.Unimplemented, "no matcher rule for "+head.String(), nil)
		}
	}

	sentinels := arrayBoundSentinels(sR, st.BoundsChecks)
	for _, a := range deferredPi2 {
		a2 := applyAtom(sR, a)
		if isArrayBoundSentinel(a2, sentinels) {
			// Already tracked as a BoundsCheck below; discharging it here
			// too would double-count it into missing-pi (spec.md §4.6
			// finalization excludes "array-bound sentinels" from this
			// loop for exactly that reason).
			continue
		}
		if !checkAtomAgainst(engine, p1.Pure, a2) {
			if !calcMissing {
				return nil, diag.New(diag.ProofFailure, "unsatisfied pure atom "+a2.String(), nil)
			}
			st.addMissingPi(a2)
		}
	}

	for _, bc := range st.BoundsChecks {
		if !engine.CheckLe(bc.LenRight, bc.LenLeft) {
			cp := bc
			st.addCheck(&cp)
		}
	}
	st.BoundsChecks = nil

	if checkFrameEmpty && len(sigmaLeft) > 0 {
		return nil, diag.New(diag.ProofFailure, "frame not empty with check_frame_empty", nil)
	}

	return &Result{Subst: base.Compose(sR), Frame: sigmaLeft, State: st}, nil
}

// unrollRightSegment peels one concrete cell off a right-hand segment
// goal so it can be matched against a concrete left points-to (spec.md
// §4.6: "Points-to left vs segment right: instantiate the segment's
// parameter and recurse").
func unrollRightSegment(src *ident.Source, head heap.Chunk, rest heap.Sigma) heap.Sigma {
	switch s := head.(type) {
	case *heap.Lseg:
		freshNext := src.FreshLike(s.Param.Next)
		body, _ := heap.Instantiate(src, s.Param, s.From, &term.Var{Id: freshNext}, s.Shared)
		cont := &heap.Lseg{Kind: heap.PE, Param: s.Param, From: &term.Var{Id: freshNext}, To: s.To, Shared: s.Shared}
		out := append(heap.Sigma{}, body...)
		out = out.Append(cont)
		return append(out, rest...)
	case *heap.Dllseg:
		freshFlink := src.FreshLike(s.Param.Flink)
		body, _ := heap.InstantiateDll(src, s.Param, s.IF, s.OB, &term.Var{Id: freshFlink}, s.Shared)
		cont := &heap.Dllseg{Kind: heap.PE, Param: s.Param, IF: &term.Var{Id: freshFlink}, OB: s.IF, OF: s.OF, IB: s.IB, Shared: s.Shared}
		out := append(heap.Sigma{}, body...)
		out = out.Append(cont)
		return append(out, rest...)
	default:
		return append(heap.Sigma{head}, rest...)
	}
}

// unrollLeftSegment peels one concrete cell off a left-hand NE segment so
// a right-hand points-to can match it (spec.md §4.6: "Segment left NE vs
// points-to right: unroll the left segment one step and retry").
func unrollLeftSegment(src *ident.Source, sigmaLeft heap.Sigma, idx int) (heap.Sigma, bool) {
	switch s := sigmaLeft[idx].(type) {
	case *heap.Lseg:
		freshNext := src.FreshLike(s.Param.Next)
		body, _ := heap.Instantiate(src, s.Param, s.From, &term.Var{Id: freshNext}, s.Shared)
		cont := &heap.Lseg{Kind: heap.PE, Param: s.Param, From: &term.Var{Id: freshNext}, To: s.To, Shared: s.Shared}
		rest := sigmaLeft.Remove(idx)
		out := append(heap.Sigma{}, body...)
		out = out.Append(cont)
		return append(out, rest...), true
	case *heap.Dllseg:
		freshFlink := src.FreshLike(s.Param.Flink)
		body, _ := heap.InstantiateDll(src, s.Param, s.IF, s.OB, &term.Var{Id: freshFlink}, s.Shared)
		cont := &heap.Dllseg{Kind: heap.PE, Param: s.Param, IF: &term.Var{Id: freshFlink}, OB: s.IF, OF: s.OF, IB: s.IB, Shared: s.Shared}
		rest := sigmaLeft.Remove(idx)
		out := append(heap.Sigma{}, body...)
		out = out.Append(cont)
		return append(out, rest...), true
	default:
		return sigmaLeft, false
	}
}

// joinSameSegment equates two same-predicate segments' endpoints and
// shared parameters via exp_imply, recording the right's nonemptiness as
// missing-pi when the left is PE but the right demands NE (spec.md §4.6).
func (pr *Prover) joinSameSegment(st *State, sR **subst.Subst, left, right heap.Chunk, recordNonEmpty, calcMissing bool) bool {
	switch l := left.(type) {
	case *heap.Lseg:
		r := right.(*heap.Lseg)
		if !pr.expImply(st, sR, l.From, r.From, calcMissing) || !pr.expImply(st, sR, l.To, r.To, calcMissing) {
			return false
		}
		for i := range l.Shared {
			if i >= len(r.Shared) {
				break
			}
			if !pr.expImply(st, sR, l.Shared[i], r.Shared[i], calcMissing) {
				return false
			}
		}
		if recordNonEmpty {
			st.addMissingPi(heap.Neq(l.From, l.To))
		}
		return true
	case *heap.Dllseg:
		r := right.(*heap.Dllseg)
		ok := pr.expImply(st, sR, l.IF, r.IF, calcMissing) &&
			pr.expImply(st, sR, l.OB, r.OB, calcMissing) &&
			pr.expImply(st, sR, l.OF, r.OF, calcMissing) &&
			pr.expImply(st, sR, l.IB, r.IB, calcMissing)
		if !ok {
			return false
		}
		if recordNonEmpty {
			st.addMissingPi(heap.Neq(l.IF, l.OF))
		}
		return true
	default:
		return false
	}
}

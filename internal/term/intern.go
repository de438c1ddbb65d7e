package term

import "github.com/mitchellh/hashstructure"

// Interner hash-conses expressions so that structurally-equal normalized
// expressions become pointer-equal (spec.md §9: "hash-consed constructors
// producing interned identifiers"). The matcher and constraint engine do
// not use it; they compare expressions with Equal.
//
// An Interner is not safe for concurrent use.
type Interner struct {
	buckets map[uint64][]Expr
}

// NewInterner returns an empty interning table.
func NewInterner() *Interner {
	return &Interner{buckets: make(map[uint64][]Expr)}
}

// Digest computes the structural hash used as the intern-table bucket
// key. internal/cache computes its own keys with cache.DigestOf and does
// not call Digest.
func Digest(e Expr) uint64 {
	h, err := hashstructure.Hash(digestShape(e), nil)
	if err != nil {
		// hashstructure only fails on unsupported types; digestShape only
		// produces hashable primitives and slices, so this is unreachable
		// in practice. Fall back to a constant so callers degrade to a
		// single oversized bucket instead of panicking.
		return 0
	}
	return h
}

// digestShape projects an Expr into a plain, hashable Go value tree
// (hashstructure can't hash interfaces holding pointers to recursive
// structs directly in a stable way across distinct-but-equal instances).
func digestShape(e Expr) interface{} {
	switch n := e.(type) {
	case *Var:
		return []interface{}{"var", int(n.Id.Kind), n.Id.Stamp}
	case *Loc:
		return []interface{}{"loc", n.Name, n.Proc}
	case *IntConst:
		return []interface{}{"int", n.Val.Unsigned, n.Val.Value, n.Val.Pointer}
	case *StrConst:
		return []interface{}{"str", n.Val}
	case *FloatConst:
		return []interface{}{"float", n.Val}
	case *ClassConst:
		return []interface{}{"class", string(n.Name)}
	case *FuncConst:
		return []interface{}{"func", n.Name}
	case *AttrConst:
		return []interface{}{"attr", n.Name}
	case *Unary:
		return []interface{}{"unary", int(n.Op), digestShape(n.X)}
	case *Binary:
		return []interface{}{"binary", int(n.Op), digestShape(n.L), digestShape(n.R)}
	case *Cast:
		return []interface{}{"cast", string(n.To), digestShape(n.X)}
	case *FieldOff:
		return []interface{}{"field", digestShape(n.Base), n.Field}
	case *IndexOff:
		return []interface{}{"index", digestShape(n.Base), digestShape(n.Idx)}
	case *Sizeof:
		shape := []interface{}{"sizeof", string(n.Type)}
		if n.Length != nil {
			shape = append(shape, digestShape(n.Length))
		}
		if n.Annot != nil {
			shape = append(shape, n.Annot.Exact, n.Annot.Excluding, int(n.Annot.Usage))
		}
		return shape
	case *Tuple:
		shape := []interface{}{"tuple"}
		for _, el := range n.Elems {
			shape = append(shape, digestShape(el))
		}
		return shape
	default:
		return "unknown"
	}
}

// Intern returns the canonical pointer for e: if a structurally-equal
// expression was interned already, that instance is returned; otherwise e
// itself is stored and returned. Callers should only intern already
// normalized expressions (spec.md §3 invariant).
func (in *Interner) Intern(e Expr) Expr {
	key := Digest(e)
	for _, cand := range in.buckets[key] {
		if cand.Equal(e) {
			return cand
		}
	}
	in.buckets[key] = append(in.buckets[key], e)
	return e
}

// Identical reports whether a and b are the same interned instance. It is
// used as the fast path before falling back to Equal.
func Identical(a, b Expr) bool {
	return a == b
}

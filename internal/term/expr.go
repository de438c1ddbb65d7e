// Package term implements the expression language of spec.md §3: a
// closed set of expression variants (variable, location, constant, unary/
// binary op, cast, field-offset, array-index, sizeof, tuple), the integer
// model (intval.go), and an optional hash-consing Interner (intern.go)
// under which structurally-equal expressions share one pointer. The other
// packages of this module compare expressions with Equal and do not
// intern them.
package term

import (
	"fmt"
	"strings"

	"shprover/internal/ident"
)

// Expr is the closed sum type of expressions. Every variant below embeds
// isExpr to seal the interface to this package, mirroring the teacher's
// `isExpr()` marker-method pattern (internal/ast/expr.go in kanso).
type Expr interface {
	isExpr()
	// Equal reports structural equality. It is the equality the other
	// packages use; Identical is the pointer check for interned values.
	Equal(Expr) bool
	String() string
}

// Var is a free or existentially/universally quantified identifier.
type Var struct{ Id ident.Ident }

// Loc is a named, process-scoped program location (spec.md §3).
type Loc struct {
	Name string
	Proc string
}

// IntConst is an integer constant carrying the full IntVal triple.
type IntConst struct{ Val IntVal }

// StrConst is a string literal constant.
type StrConst struct{ Val string }

// FloatConst is a floating point literal constant.
type FloatConst struct{ Val float64 }

// ClassConst names a class/type value used as a first-class expression
// (e.g. the operand of an instanceof check).
type ClassConst struct{ Name TypeName }

// FuncConst is a function reference constant (e.g. a function pointer
// taken by address, never called through this expression).
type FuncConst struct{ Name string }

// AttrConst is an attribute constant: a tag used in pure-part predications
// to record a resource/taint/etc. fact about a value (spec.md §3).
type AttrConst struct{ Name string }

// Unary applies a UnOp to a sub-expression.
type Unary struct {
	Op UnOp
	X  Expr
}

// Binary applies a BinOp to two sub-expressions.
type Binary struct {
	Op   BinOp
	L, R Expr
}

// Cast reinterprets X as type To.
type Cast struct {
	To TypeName
	X  Expr
}

// FieldOff is a field-offset projection `e.f`. Nothing in this module
// expands a FieldOff-addressed cell into a points-to on a struct.
type FieldOff struct {
	Base  Expr
	Field string
}

// IndexOff is an array-index offset `e[i]`.
type IndexOff struct {
	Base Expr
	Idx  Expr
}

// Sizeof is a size-of-type term, optionally carrying an array-length
// expression and a subtype annotation (spec.md §3, §4.9).
type Sizeof struct {
	Type   TypeName
	Length Expr // nil if not an array sizeof
	Annot  *SubtypeAnnotation
}

// Tuple is a fixed-arity tuple of expressions.
type Tuple struct{ Elems []Expr }

func (*Var) isExpr()        {}
func (*Loc) isExpr()        {}
func (*IntConst) isExpr()   {}
func (*StrConst) isExpr()   {}
func (*FloatConst) isExpr() {}
func (*ClassConst) isExpr() {}
func (*FuncConst) isExpr()  {}
func (*AttrConst) isExpr()  {}
func (*Unary) isExpr()      {}
func (*Binary) isExpr()     {}
func (*Cast) isExpr()       {}
func (*FieldOff) isExpr()   {}
func (*IndexOff) isExpr()   {}
func (*Sizeof) isExpr()     {}
func (*Tuple) isExpr()      {}

func (e *Var) String() string { return e.Id.String() }
func (e *Loc) String() string {
	if e.Proc != "" {
		return fmt.Sprintf("loc(%s::%s)", e.Proc, e.Name)
	}
	return fmt.Sprintf("loc(%s)", e.Name)
}
func (e *IntConst) String() string   { return e.Val.String() }
func (e *StrConst) String() string   { return fmt.Sprintf("%q", e.Val) }
func (e *FloatConst) String() string { return fmt.Sprintf("%g", e.Val) }
func (e *ClassConst) String() string { return string(e.Name) }
func (e *FuncConst) String() string  { return fmt.Sprintf("&%s", e.Name) }
func (e *AttrConst) String() string  { return fmt.Sprintf("attr(%s)", e.Name) }
func (e *Unary) String() string      { return fmt.Sprintf("%s%s", e.Op, e.X) }
func (e *Binary) String() string     { return fmt.Sprintf("(%s %s %s)", e.L, e.Op, e.R) }
func (e *Cast) String() string       { return fmt.Sprintf("(%s)%s", e.To, e.X) }
func (e *FieldOff) String() string   { return fmt.Sprintf("%s.%s", e.Base, e.Field) }
func (e *IndexOff) String() string   { return fmt.Sprintf("%s[%s]", e.Base, e.Idx) }
func (e *Sizeof) String() string {
	if e.Length != nil {
		return fmt.Sprintf("sizeof(%s[%s]:%s)", e.Type, e.Length, e.Annot)
	}
	return fmt.Sprintf("sizeof(%s:%s)", e.Type, e.Annot)
}
func (e *Tuple) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = el.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (e *Var) Equal(o Expr) bool {
	v, ok := o.(*Var)
	return ok && e.Id.Equal(v.Id)
}
func (e *Loc) Equal(o Expr) bool {
	v, ok := o.(*Loc)
	return ok && e.Name == v.Name && e.Proc == v.Proc
}
func (e *IntConst) Equal(o Expr) bool {
	v, ok := o.(*IntConst)
	return ok && e.Val.Equal(v.Val)
}
func (e *StrConst) Equal(o Expr) bool {
	v, ok := o.(*StrConst)
	return ok && e.Val == v.Val
}
func (e *FloatConst) Equal(o Expr) bool {
	v, ok := o.(*FloatConst)
	return ok && e.Val == v.Val
}
func (e *ClassConst) Equal(o Expr) bool {
	v, ok := o.(*ClassConst)
	return ok && e.Name == v.Name
}
func (e *FuncConst) Equal(o Expr) bool {
	v, ok := o.(*FuncConst)
	return ok && e.Name == v.Name
}
func (e *AttrConst) Equal(o Expr) bool {
	v, ok := o.(*AttrConst)
	return ok && e.Name == v.Name
}
func (e *Unary) Equal(o Expr) bool {
	v, ok := o.(*Unary)
	return ok && e.Op == v.Op && e.X.Equal(v.X)
}
func (e *Binary) Equal(o Expr) bool {
	v, ok := o.(*Binary)
	return ok && e.Op == v.Op && e.L.Equal(v.L) && e.R.Equal(v.R)
}
func (e *Cast) Equal(o Expr) bool {
	v, ok := o.(*Cast)
	return ok && e.To == v.To && e.X.Equal(v.X)
}
func (e *FieldOff) Equal(o Expr) bool {
	v, ok := o.(*FieldOff)
	return ok && e.Field == v.Field && e.Base.Equal(v.Base)
}
func (e *IndexOff) Equal(o Expr) bool {
	v, ok := o.(*IndexOff)
	return ok && e.Base.Equal(v.Base) && e.Idx.Equal(v.Idx)
}
func (e *Sizeof) Equal(o Expr) bool {
	v, ok := o.(*Sizeof)
	if !ok || e.Type != v.Type {
		return false
	}
	if (e.Length == nil) != (v.Length == nil) {
		return false
	}
	if e.Length != nil && !e.Length.Equal(v.Length) {
		return false
	}
	if (e.Annot == nil) != (v.Annot == nil) {
		return false
	}
	if e.Annot != nil && !e.Annot.EqualModuloFlag(*v.Annot) {
		return false
	}
	return true
}
func (e *Tuple) Equal(o Expr) bool {
	v, ok := o.(*Tuple)
	if !ok || len(e.Elems) != len(v.Elems) {
		return false
	}
	for i := range e.Elems {
		if !e.Elems[i].Equal(v.Elems[i]) {
			return false
		}
	}
	return true
}

// Vars returns the set of distinct identifiers occurring free in e,
// needed by the occurs-check in exp_imply (spec.md §4.6).
func Vars(e Expr) []ident.Ident {
	seen := map[ident.Ident]bool{}
	var out []ident.Ident
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *Var:
			if !seen[n.Id] {
				seen[n.Id] = true
				out = append(out, n.Id)
			}
		case *Unary:
			walk(n.X)
		case *Binary:
			walk(n.L)
			walk(n.R)
		case *Cast:
			walk(n.X)
		case *FieldOff:
			walk(n.Base)
		case *IndexOff:
			walk(n.Base)
			walk(n.Idx)
		case *Sizeof:
			if n.Length != nil {
				walk(n.Length)
			}
		case *Tuple:
			for _, el := range n.Elems {
				walk(el)
			}
		}
	}
	walk(e)
	return out
}

// Occurs reports whether id occurs free in e (used by the occurs-check,
// spec.md §4.6 "expression-primed-right: occurs-check").
func Occurs(id ident.Ident, e Expr) bool {
	for _, v := range Vars(e) {
		if v.Equal(id) {
			return true
		}
	}
	return false
}

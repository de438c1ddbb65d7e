package heapsyntax

// HeapLiteral is the top-level production: an optional pure part
// terminated by ";", followed by an optional spatial part (absent or
// "emp" both mean the empty heap).
type HeapLiteral struct {
	Pure  []*PureAtom `[ @@ { "," @@ } ";" ]`
	Sigma *SigmaLit   `[ @@ ]`
}

// PureAtom is one pure-part conjunct: `e1 op e2`.
type PureAtom struct {
	Left  *Expr  `@@`
	Op    string `@("!=" | "<=" | "==" | "=" | "<")`
	Right *Expr  `@@`
}

// SigmaLit is either the literal "emp" or a "*"-separated chunk list.
type SigmaLit struct {
	Emp   string       `(  @"emp"`
	Terms []*SigmaTerm `|  @@ { "*" @@ } )`
}

// SigmaTerm is one chunk: a points-to cell or a named segment predicate.
type SigmaTerm struct {
	PointsTo *PointsToLit `  @@`
	Segment  *SegmentLit  `| @@`
}

// PointsToLit is `addr |-> val [: type]`.
type PointsToLit struct {
	Addr *Expr    `@@ "|->"`
	Val  *SValLit `@@`
	Type *string  `[ ":" @Ident ]`
}

// SValLit is a structured value: a struct literal or a bare expression
// leaf.
type SValLit struct {
	Struct *StructLit `  @@`
	Leaf   *Expr      `| @@`
}

// StructLit is `struct { f1: v1; f2: v2 }`.
type StructLit struct {
	Fields []*FieldLit `"struct" "{" @@ { ";" @@ } "}"`
}

// FieldLit is one `name: value` struct field.
type FieldLit struct {
	Name string   `@Ident ":"`
	Val  *SValLit `@@`
}

// SegmentLit is `lseg_NE(param, from, to, shared...)` or the dllseg/PE
// variants, referencing a predicate by name looked up in the Predicates
// table supplied to Build (this notation names predicates, it does not
// define their bodies inline).
type SegmentLit struct {
	Kind  string  `@("lseg_NE" | "lseg_PE" | "dllseg_NE" | "dllseg_PE") "("`
	Param string  `@Ident ","`
	Args  []*Expr `@@ { "," @@ } ")"`
}

// Expr is a leaf expression: the null constant, an integer literal, or a
// variable reference (prefixed with ' for primed, # for footprint).
type Expr struct {
	Null *string `(  @"null"`
	Int  *string `|  @Integer`
	Var  *string `|  @Ident )`
}

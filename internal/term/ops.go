package term

// BinOp enumerates the full set of binary operators spec.md §3 requires:
// arithmetic, bitwise, logical, and pointer-arithmetic (the latter kept
// distinct from their plain-arithmetic counterparts, since `ptr+int` and
// `ptr-ptr` have different typing and normalization rules than `int+int`).
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	BAnd
	BOr
	BXor
	LAnd
	LOr
	Eq
	Ne
	Le
	Lt
	Ge
	Gt
	// PtrAdd is pointer + integer, distinct from Add.
	PtrAdd
	// PtrSub is pointer - pointer, distinct from Sub; the result is an
	// ordinary (non-pointer) integer.
	PtrSub
)

func (op BinOp) String() string {
	names := map[BinOp]string{
		Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
		Shl: "<<", Shr: ">>", BAnd: "&", BOr: "|", BXor: "^",
		LAnd: "&&", LOr: "||", Eq: "==", Ne: "!=",
		Le: "<=", Lt: "<", Ge: ">=", Gt: ">",
		PtrAdd: "+p", PtrSub: "-p",
	}
	if s, ok := names[op]; ok {
		return s
	}
	return "?"
}

// Commutative reports whether op's operand order is semantically
// irrelevant; the normalizer uses this to pick a canonical left-to-right
// ordering (spec.md §4.1: "places the larger... operand on the left").
func (op BinOp) Commutative() bool {
	switch op {
	case Add, Mul, BAnd, BOr, BXor, LAnd, LOr, Eq, Ne:
		return true
	default:
		return false
	}
}

// UnOp enumerates unary operators.
type UnOp int

const (
	Neg UnOp = iota
	BNot
	LNot
)

func (op UnOp) String() string {
	switch op {
	case Neg:
		return "-"
	case BNot:
		return "~"
	case LNot:
		return "!"
	default:
		return "?"
	}
}

package term

// rank gives each expression variant a stable position in the total
// order, so that expressions of different shapes compare deterministically
// regardless of content.
func rank(e Expr) int {
	switch e.(type) {
	case *IntConst:
		return 0
	case *StrConst:
		return 1
	case *FloatConst:
		return 2
	case *ClassConst:
		return 3
	case *FuncConst:
		return 4
	case *AttrConst:
		return 5
	case *Var:
		return 6
	case *Loc:
		return 7
	case *Unary:
		return 8
	case *Binary:
		return 9
	case *Cast:
		return 10
	case *FieldOff:
		return 11
	case *IndexOff:
		return 12
	case *Sizeof:
		return 13
	case *Tuple:
		return 14
	default:
		return 99
	}
}

func cmpStr(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compare gives the total order spec.md §4.1 needs to pick a canonical
// left-to-right operand ordering for commutative operators ("places the
// larger... operand on the left") and that spec.md §5 needs for the
// matcher's deterministic chunk tie-break ("by address-expression
// ordering"). It orders every pair of expressions, but it is not exactly
// consistent with Equal: integer constants compare by area and value,
// ignoring the pointer flag (so null and 0 compare as 0), and sizeofs
// compare by type name only.
func Compare(a, b Expr) int {
	if ra, rb := rank(a), rank(b); ra != rb {
		return cmpInt(ra, rb)
	}
	switch x := a.(type) {
	case *IntConst:
		y := b.(*IntConst)
		return x.Val.Compare(y.Val)
	case *StrConst:
		return cmpStr(x.Val, b.(*StrConst).Val)
	case *FloatConst:
		y := b.(*FloatConst).Val
		switch {
		case x.Val < y:
			return -1
		case x.Val > y:
			return 1
		default:
			return 0
		}
	case *ClassConst:
		return cmpStr(string(x.Name), string(b.(*ClassConst).Name))
	case *FuncConst:
		return cmpStr(x.Name, b.(*FuncConst).Name)
	case *AttrConst:
		return cmpStr(x.Name, b.(*AttrConst).Name)
	case *Var:
		y := b.(*Var)
		if x.Id.Kind != y.Id.Kind {
			return cmpInt(int(x.Id.Kind), int(y.Id.Kind))
		}
		switch {
		case x.Id.Stamp < y.Id.Stamp:
			return -1
		case x.Id.Stamp > y.Id.Stamp:
			return 1
		default:
			return 0
		}
	case *Loc:
		y := b.(*Loc)
		if c := cmpStr(x.Proc, y.Proc); c != 0 {
			return c
		}
		return cmpStr(x.Name, y.Name)
	case *Unary:
		y := b.(*Unary)
		if x.Op != y.Op {
			return cmpInt(int(x.Op), int(y.Op))
		}
		return Compare(x.X, y.X)
	case *Binary:
		y := b.(*Binary)
		if x.Op != y.Op {
			return cmpInt(int(x.Op), int(y.Op))
		}
		if c := Compare(x.L, y.L); c != 0 {
			return c
		}
		return Compare(x.R, y.R)
	case *Cast:
		y := b.(*Cast)
		if c := cmpStr(string(x.To), string(y.To)); c != 0 {
			return c
		}
		return Compare(x.X, y.X)
	case *FieldOff:
		y := b.(*FieldOff)
		if c := Compare(x.Base, y.Base); c != 0 {
			return c
		}
		return cmpStr(x.Field, y.Field)
	case *IndexOff:
		y := b.(*IndexOff)
		if c := Compare(x.Base, y.Base); c != 0 {
			return c
		}
		return Compare(x.Idx, y.Idx)
	case *Sizeof:
		y := b.(*Sizeof)
		return cmpStr(string(x.Type), string(y.Type))
	case *Tuple:
		y := b.(*Tuple)
		if c := cmpInt(len(x.Elems), len(y.Elems)); c != 0 {
			return c
		}
		for i := range x.Elems {
			if c := Compare(x.Elems[i], y.Elems[i]); c != 0 {
				return c
			}
		}
		return 0
	default:
		return 0
	}
}

// Less reports whether a sorts strictly before b under Compare.
func Less(a, b Expr) bool { return Compare(a, b) < 0 }

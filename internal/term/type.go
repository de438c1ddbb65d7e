package term

// TypeName is an opaque reference to a type declared in the type
// environment (internal/typeenv); the prover never interprets it beyond
// equality and the subtype queries it asks the environment.
type TypeName string

// UsageFlag tags how a subtype annotation is being used, per spec.md
// §4.9: a cast, an instanceof test, or a plain (non-dispatch) occurrence.
type UsageFlag int

const (
	UsageNormal UsageFlag = iota
	UsageCast
	UsageInstanceOf
)

func (u UsageFlag) String() string {
	switch u {
	case UsageCast:
		return "cast"
	case UsageInstanceOf:
		return "instanceof"
	default:
		return "normal"
	}
}

// SubtypeAnnotation refines a sizeof(T) term for dynamic-dispatch case
// analysis (spec.md §3.9/§4.9): either T is known exactly, or T denotes
// any subtype of the named class except those listed in Excluding.
type SubtypeAnnotation struct {
	Exact     bool
	Excluding []TypeName
	Usage     UsageFlag
}

// EqualModuloFlag compares two annotations ignoring Usage, as spec.md
// §6 "subtype-annotation library... equal_modulo_flag" requires.
func (a SubtypeAnnotation) EqualModuloFlag(o SubtypeAnnotation) bool {
	if a.Exact != o.Exact {
		return false
	}
	if len(a.Excluding) != len(o.Excluding) {
		return false
	}
	seen := make(map[TypeName]bool, len(a.Excluding))
	for _, t := range a.Excluding {
		seen[t] = true
	}
	for _, t := range o.Excluding {
		if !seen[t] {
			return false
		}
	}
	return true
}

func (a SubtypeAnnotation) String() string {
	if a.Exact {
		return "exact"
	}
	if len(a.Excluding) == 0 {
		return "subtypes"
	}
	s := "subtypes excluding ["
	for i, t := range a.Excluding {
		if i > 0 {
			s += ","
		}
		s += string(t)
	}
	return s + "]"
}

package typeenv

import "shprover/internal/term"

// builtinSize orders the builtin scalar types for the type-size ordering
// spec.md §4.3 requires: signed and unsigned variants of the same width
// rank equally.
var builtinSize = map[term.TypeName]int{
	"char": 1, "uchar": 1,
	"short": 2, "ushort": 2,
	"int": 4, "uint": 4,
	"long": 8, "ulong": 8,
	"longlong": 8, "ulonglong": 8,
	"int128": 16, "uint128": 16,
}

// Registry is a small in-memory TypeEnv, grounded on the teacher's
// internal/types.TypeRegistry: a map-backed registry seeded with builtins,
// extended with user-defined struct types, exposing the same narrow
// query surface (IsValidType-style lookup, field lookup, subtype checks).
type Registry struct {
	types map[term.TypeName]TypeDef
}

// NewRegistry returns a Registry seeded with the builtin scalar types
// (mirrors the teacher's NewTypeRegistry + InitializeBuiltins pairing).
func NewRegistry() *Registry {
	r := &Registry{types: map[term.TypeName]TypeDef{}}
	for name := range builtinSize {
		r.types[name] = TypeDef{Name: name}
	}
	return r
}

// Define registers (or replaces) a type definition.
func (r *Registry) Define(def TypeDef) {
	r.types[def.Name] = def
}

func (r *Registry) Lookup(name term.TypeName) (TypeDef, bool) {
	d, ok := r.types[name]
	return d, ok
}

// IsKnownSubtype walks Supertypes transitively. Reflexive: every type is
// trivially a subtype of itself even if unregistered.
func (r *Registry) IsKnownSubtype(a, b term.TypeName) bool {
	if a == b {
		return true
	}
	visited := map[term.TypeName]bool{}
	var walk func(term.TypeName) bool
	walk = func(cur term.TypeName) bool {
		if cur == b {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		def, ok := r.types[cur]
		if !ok {
			return false
		}
		for _, sup := range def.Supertypes {
			if walk(sup) {
				return true
			}
		}
		return false
	}
	return walk(a)
}

func (r *Registry) FieldType(structType term.TypeName, field string) (term.TypeName, bool) {
	def, ok := r.types[structType]
	if !ok {
		return "", false
	}
	for _, f := range def.Fields {
		if f.Name == field {
			return f.Type, true
		}
	}
	return "", false
}

func (r *Registry) HasMethod(typ term.TypeName, method string) bool {
	def, ok := r.types[typ]
	if !ok {
		return false
	}
	for _, m := range def.Methods {
		if m == method {
			return true
		}
	}
	return false
}

func (r *Registry) SizeOf(typ term.TypeName) (int, bool) {
	n, ok := builtinSize[typ]
	return n, ok
}

// mapResolver is a trivial Resolver backed by a map, used in tests and by
// the demo CLI.
type mapResolver struct {
	info map[string]VarInfo
}

// NewMapResolver builds a Resolver from a fixed table.
func NewMapResolver(info map[string]VarInfo) Resolver {
	return &mapResolver{info: info}
}

func (m *mapResolver) Resolve(name string) (VarInfo, bool) {
	v, ok := m.info[name]
	return v, ok
}

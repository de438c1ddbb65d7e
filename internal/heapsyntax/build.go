package heapsyntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"shprover/internal/heap"
	"shprover/internal/ident"
	"shprover/internal/term"
)

// Parser is the built participle parser for HeapLiteral, analogous to the
// teacher's participle.Build[grammar.Program] in main.go.
var Parser = participle.MustBuild[HeapLiteral](
	participle.Lexer(HeapLexer),
	participle.Elide("Whitespace"),
)

// Predicates supplies the named predicate bodies a SegmentLit references;
// heap-literal notation names a predicate, it does not define one inline.
type Predicates struct {
	Lseg   map[string]*heap.Param
	Dllseg map[string]*heap.DllParam
}

// builder tracks the name->Ident mapping for one Build call, so repeated
// occurrences of the same variable name resolve to the same identifier.
type builder struct {
	src  *ident.Source
	vars map[string]ident.Ident
}

func varIdent(b *builder, name string) ident.Ident {
	if id, ok := b.vars[name]; ok {
		return id
	}
	kind, bare := ident.Normal, name
	switch {
	case strings.HasPrefix(name, "'"):
		kind, bare = ident.Primed, name[1:]
	case strings.HasPrefix(name, "#"):
		kind, bare = ident.Footprint, name[1:]
	}
	id := b.src.Fresh(kind, bare)
	b.vars[name] = id
	return id
}

// Parse parses raw heap-literal source into its AST (without resolving
// variables or predicates).
func Parse(src string) (*HeapLiteral, error) {
	return Parser.ParseString("", src)
}

// Build parses src and converts it into a heap.Heap, allocating fresh
// identifiers for every distinct variable name from the given source.
func Build(src string, idSrc *ident.Source, preds Predicates) (*heap.Heap, error) {
	lit, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return FromAST(lit, idSrc, preds)
}

// FromAST converts an already-parsed HeapLiteral into a heap.Heap.
func FromAST(lit *HeapLiteral, idSrc *ident.Source, preds Predicates) (*heap.Heap, error) {
	b := &builder{src: idSrc, vars: map[string]ident.Ident{}}

	pi := heap.NewPure()
	for _, pa := range lit.Pure {
		atom, err := buildAtom(b, pa)
		if err != nil {
			return nil, err
		}
		pi.Add(atom)
	}

	var sigma heap.Sigma
	if lit.Sigma != nil && lit.Sigma.Emp == "" {
		for _, t := range lit.Sigma.Terms {
			chunk, err := buildTerm(b, t, preds)
			if err != nil {
				return nil, err
			}
			sigma = sigma.Append(chunk)
		}
	}

	return heap.New(nil, pi, sigma), nil
}

func buildAtom(b *builder, pa *PureAtom) (heap.Atom, error) {
	l, err := buildExpr(b, pa.Left)
	if err != nil {
		return heap.Atom{}, err
	}
	r, err := buildExpr(b, pa.Right)
	if err != nil {
		return heap.Atom{}, err
	}
	switch pa.Op {
	case "=", "==":
		return heap.Eq(l, r), nil
	case "!=":
		return heap.Neq(l, r), nil
	case "<=":
		return heap.Le(l, r), nil
	case "<":
		return heap.Lt(l, r), nil
	default:
		return heap.Atom{}, fmt.Errorf("heapsyntax: unknown pure operator %q", pa.Op)
	}
}

func buildExpr(b *builder, e *Expr) (term.Expr, error) {
	switch {
	case e.Null != nil:
		return &term.IntConst{Val: term.NullPtr}, nil
	case e.Int != nil:
		n, err := strconv.ParseInt(*e.Int, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("heapsyntax: bad integer %q: %w", *e.Int, err)
		}
		return &term.IntConst{Val: term.Int(n)}, nil
	case e.Var != nil:
		return &term.Var{Id: varIdent(b, *e.Var)}, nil
	default:
		return nil, fmt.Errorf("heapsyntax: empty expression")
	}
}

func buildTerm(b *builder, t *SigmaTerm, preds Predicates) (heap.Chunk, error) {
	switch {
	case t.PointsTo != nil:
		return buildPointsTo(b, t.PointsTo)
	case t.Segment != nil:
		return buildSegment(b, t.Segment, preds)
	default:
		return nil, fmt.Errorf("heapsyntax: empty sigma term")
	}
}

func buildPointsTo(b *builder, p *PointsToLit) (*heap.PointsTo, error) {
	addr, err := buildExpr(b, p.Addr)
	if err != nil {
		return nil, err
	}
	val, err := buildSVal(b, p.Val)
	if err != nil {
		return nil, err
	}
	typeName := "int"
	if p.Type != nil {
		typeName = *p.Type
	}
	return &heap.PointsTo{Addr: addr, Val: val, Type: &term.Sizeof{Type: term.TypeName(typeName)}}, nil
}

func buildSVal(b *builder, v *SValLit) (heap.SVal, error) {
	switch {
	case v.Struct != nil:
		fields := make([]heap.Field, 0, len(v.Struct.Fields))
		for _, f := range v.Struct.Fields {
			fv, err := buildSVal(b, f.Val)
			if err != nil {
				return nil, err
			}
			fields = append(fields, heap.Field{Name: f.Name, Val: fv})
		}
		return heap.NewStruct(fields...), nil
	case v.Leaf != nil:
		e, err := buildExpr(b, v.Leaf)
		if err != nil {
			return nil, err
		}
		return &heap.Leaf{Exp: e}, nil
	default:
		return nil, fmt.Errorf("heapsyntax: empty structured value")
	}
}

func buildSegment(b *builder, s *SegmentLit, preds Predicates) (heap.Chunk, error) {
	args := make([]term.Expr, len(s.Args))
	for i, a := range s.Args {
		e, err := buildExpr(b, a)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	switch s.Kind {
	case "lseg_NE", "lseg_PE":
		if len(args) < 2 {
			return nil, fmt.Errorf("heapsyntax: %s needs at least (from, to)", s.Kind)
		}
		param, ok := preds.Lseg[s.Param]
		if !ok {
			return nil, fmt.Errorf("heapsyntax: unknown lseg predicate %q", s.Param)
		}
		kind := heap.NE
		if s.Kind == "lseg_PE" {
			kind = heap.PE
		}
		return &heap.Lseg{Kind: kind, Param: param, From: args[0], To: args[1], Shared: args[2:]}, nil
	case "dllseg_NE", "dllseg_PE":
		if len(args) < 4 {
			return nil, fmt.Errorf("heapsyntax: %s needs at least (iF, oB, oF, iB)", s.Kind)
		}
		param, ok := preds.Dllseg[s.Param]
		if !ok {
			return nil, fmt.Errorf("heapsyntax: unknown dllseg predicate %q", s.Param)
		}
		kind := heap.NE
		if s.Kind == "dllseg_PE" {
			kind = heap.PE
		}
		return &heap.Dllseg{Kind: kind, Param: param, IF: args[0], OB: args[1], OF: args[2], IB: args[3], Shared: args[4:]}, nil
	default:
		return nil, fmt.Errorf("heapsyntax: unknown segment kind %q", s.Kind)
	}
}

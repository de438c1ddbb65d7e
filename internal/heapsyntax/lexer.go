// Package heapsyntax is a small participle grammar for the heap-literal
// notation spec.md §8 writes its scenarios in, without parentheses around
// chunks (`a |-> 1 * b |-> 2`).
// It is test/demo tooling only — used by table-driven tests and the demo
// CLI/REPL to build heap.Heap values without hand-assembling Go struct
// literals chunk by chunk — and never participates in the prover's
// decision procedure. Grounded on the teacher's grammar/lexer.go.
package heapsyntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// HeapLexer tokenizes heap-literal source. Mirrors the teacher's stateful
// lexer shape (grammar/lexer.go): identifiers, integers, and the small
// fixed set of punctuation/operator tokens this notation needs.
var HeapLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Whitespace", `[ \t\r\n]+`, nil},
		{"Arrow", `\|->`, nil},
		{"Ident", `['#]?[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `-?[0-9]+`, nil},
		{"Operator", `(!=|<=|==|=|<)`, nil},
		{"Punctuation", `[(){}:;,*]`, nil},
	},
})

// Package repl is an interactive entailment REPL over internal/prover,
// adapted from the teacher's repl/repl.go (a line-at-a-time parse loop)
// into a loop that reads one heap-literal entailment per input line and
// reports the result. Demo tooling only, per spec.md §1's exclusion of
// front-ends from the prover's own scope.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"shprover/internal/heapsyntax"
	"shprover/internal/ident"
	"shprover/internal/prover"
	"shprover/internal/typeenv"
)

const prompt = ">> "

// Start runs the REPL loop against in, writing results to out. Each line
// is expected in the form "<heap literal> |- <heap literal>"; blank lines
// are ignored, and "quit"/"exit" end the loop.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	types := typeenv.NewRegistry()

	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		// The turnstile is the first "|-" that is not the start of a
		// points-to arrow "|->".
		idx := -1
		for i := 0; i+2 <= len(line); i++ {
			if line[i:i+2] == "|-" && (i+2 == len(line) || line[i+2] != '>') {
				idx = i
				break
			}
		}
		if idx < 0 {
			color.New(color.FgRed).Fprintln(out, "expected \"<heap literal> |- <heap literal>\"")
			continue
		}
		left, right := line[:idx], line[idx+2:]

		src := ident.NewSource()
		p1, err := heapsyntax.Build(left, src, heapsyntax.Predicates{})
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "left heap: %s\n", err)
			continue
		}
		p2, err := heapsyntax.Build(right, src, heapsyntax.Predicates{})
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "right heap: %s\n", err)
			continue
		}

		pr := prover.New(types, src)
		res, fail := pr.CheckImplicationForFootprint(p1, p2)
		if fail != nil {
			color.New(color.FgRed).Fprintf(out, "proof failed: %s\n", fail.Error())
			continue
		}

		color.New(color.FgGreen).Fprintln(out, "entailment holds")
		fmt.Fprintf(out, "  frame:   %s\n", res.Frame)
		if res.State.MissingPi.Len() > 0 {
			fmt.Fprintf(out, "  missing pi:    %v\n", res.State.MissingPi.Atoms())
		}
		if len(res.State.MissingSigma) > 0 {
			fmt.Fprintf(out, "  missing sigma: %s\n", res.State.MissingSigma)
		}
		for _, c := range res.State.Checks {
			color.New(color.FgYellow).Fprintf(out, "  pending check: %s\n", c)
		}
	}
}

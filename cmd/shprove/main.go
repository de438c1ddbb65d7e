// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"shprover/internal/heapsyntax"
	"shprover/internal/ident"
	"shprover/internal/prover"
	"shprover/internal/typeenv"
	"shprover/repl"
)

// shprove is the thin demo CLI spec.md §1 excludes as a production
// surface: it reads a file containing two heap literals separated by a
// line of the form "|-", parses them with internal/heapsyntax, and runs
// check_implication_for_footprint over them, printing the resulting
// frame, missing parts, and pending checks. Grounded on the teacher's
// cmd/kanso-cli/main.go. Run with "-repl" instead of a file path to get
// an interactive loop (repl/repl.go) over stdin/stdout.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: shprove <file.heap> | shprove -repl")
		os.Exit(1)
	}

	if os.Args[1] == "-repl" {
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read file: %s", err)
		os.Exit(1)
	}

	left, right, err := splitEntailment(string(source))
	if err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}

	src := ident.NewSource()
	p1, err := heapsyntax.Build(left, src, heapsyntax.Predicates{})
	if err != nil {
		reportParseError(left, err)
		os.Exit(1)
	}
	p2, err := heapsyntax.Build(right, src, heapsyntax.Predicates{})
	if err != nil {
		reportParseError(right, err)
		os.Exit(1)
	}

	pr := prover.New(typeenv.NewRegistry(), src)
	res, fail := pr.CheckImplicationForFootprint(p1, p2)
	if fail != nil {
		color.Red("proof failed: %s", fail.Error())
		os.Exit(1)
	}

	color.Green("entailment holds")
	fmt.Printf("frame: %s\n", res.Frame)
	if res.State.MissingPi.Len() > 0 {
		fmt.Printf("missing pi: %v\n", res.State.MissingPi.Atoms())
	}
	if len(res.State.MissingSigma) > 0 {
		fmt.Printf("missing sigma: %s\n", res.State.MissingSigma)
	}
	for _, c := range res.State.Checks {
		color.Yellow("pending check: %s", c)
	}
}

// splitEntailment splits source on a line containing only "|-" into the
// antecedent and consequent heap literals.
func splitEntailment(source string) (left, right string, err error) {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "|-" {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n"), nil
		}
	}
	return "", "", fmt.Errorf("expected a line containing only \"|-\" separating the two heap literals")
}

// reportParseError prints a friendly caret-style parse error message.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("Unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}

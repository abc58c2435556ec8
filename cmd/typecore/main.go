// Command typecore is a minimal illustrative driver for the inference core:
// it loads a JSON AST fixture and an optional YAML run configuration, runs
// inference, and prints either a decorated type summary or a formatted
// fatal fault. It is not the language's real CLI (lexing, parsing, and
// argument handling beyond the two flags below are out of scope for this
// core; see SPEC_FULL.md).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/classlang/typecore/internal/analyzer"
	"github.com/classlang/typecore/internal/ast"
	"github.com/classlang/typecore/internal/config"
	"github.com/classlang/typecore/internal/diagnostics"
	"github.com/classlang/typecore/internal/fixture"
	"github.com/classlang/typecore/internal/symbols"
)

func main() {
	fixturePath := flag.String("fixture", "", "path to a JSON AST fixture ({\"program\": ...})")
	configPath := flag.String("config", "", "path to a YAML run configuration")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "typecore: -fixture is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "typecore:", err)
		os.Exit(1)
	}

	runID := uuid.New().String()
	logPhase := newPhaseLogger(runID, cfg.Verbose)

	logPhase("load", func() error { return runFixture(*fixturePath, cfg) })
}

// runFixture reads, decodes, and infers a single fixture. Errors it
// returns are read or decode failures, which the caller reports; an
// inference *diagnostics.Fault is reported here through reportFault and
// ends the process with exit status 1.
func runFixture(path string, cfg config.RunConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading fixture: %w", err)
	}

	var prog fixture.Program
	if err := json.Unmarshal(data, &prog); err != nil {
		return fmt.Errorf("decoding fixture: %w", err)
	}

	module := symbols.NewModule()
	for _, name := range cfg.ExtraPrimitives {
		if _, ok := module.Types(name); !ok {
			module.DefineClass(name, module.Object(), nil)
		}
	}

	inf := analyzer.New(module)
	if err := inf.Infer(prog.Root); err != nil {
		reportFault(err.(*diagnostics.Fault), cfg)
		os.Exit(1)
	}

	printSummary(prog.Root)
	return nil
}

// printSummary walks the top-level program and prints each statement's
// resolved type; a real driver would offer far richer output (annotated
// source, LSP hover, ...), which is out of scope here.
func printSummary(root *ast.Expressions) {
	for i, n := range root.Nodes {
		fmt.Printf("[%d] %s\n", i, n.ResolvedType().String())
	}
}

// reportFault writes a fatal fault to stderr as "error: line:column: message"
// (or "error: message" when no position is known); no file name is
// included. The "error:" prefix is colorized when stderr is a terminal (or
// cfg.Color forces it either way).
func reportFault(f *diagnostics.Fault, cfg config.RunConfig) {
	colorize := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if cfg.Color != nil {
		colorize = *cfg.Color
	}

	msg := f.Message
	if f.HasPos {
		msg = fmt.Sprintf("%d:%d: %s", f.Position.Line, f.Position.Column, msg)
	}
	if colorize {
		fmt.Fprintf(os.Stderr, "\x1b[31merror:\x1b[0m %s\n", msg)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", msg)
}

// newPhaseLogger returns a function that runs a named phase, optionally
// logging a structured "phase=... run=... elapsed=..." line to stderr.
func newPhaseLogger(runID string, verbose bool) func(phase string, fn func() error) {
	return func(phase string, fn func() error) {
		start := time.Now()
		err := fn()
		if verbose {
			fmt.Fprintf(os.Stderr, "phase=%s run=%s elapsed=%s\n", phase, runID, time.Since(start))
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "typecore:", err)
			os.Exit(1)
		}
	}
}

// ==============================================================================================
// FILE: cmd/babalang/main.go
// ==============================================================================================
// PURPOSE: Command-line entry point. Reads a source file, runs it through the lexer, parser, and
//          evaluator, and maps failures onto the documented exit codes.
// ==============================================================================================

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/RocketRace/babalang/evaluator"
	"github.com/RocketRace/babalang/lexer"
	"github.com/RocketRace/babalang/parser"
	"github.com/RocketRace/babalang/reporter"
	"github.com/spf13/cobra"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// ioFailure marks an error as originating from reading the source file, so exitCodeFor can tell
// it apart from a pipeline (lex/parse/eval) failure.
type ioFailure struct{ err error }

func (f *ioFailure) Error() string { return f.err.Error() }
func (f *ioFailure) Unwrap() error { return f.err }

func exitCodeFor(err error) int {
	if _, ok := err.(*ioFailure); ok {
		return 2
	}
	return 1
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "babalang PATH",
		Short:         "Run a Babalang source file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
	return cmd
}

func run(path string) error {
	slog.Info("run", "path", path, "status", "starting")

	source, err := os.ReadFile(path)
	if err != nil {
		slog.Info("run", "path", path, "status", "io-error")
		return &ioFailure{err: err}
	}

	program := parser.New(lexer.New(string(source)))
	tree := program.ParseProgram()
	if errs := program.Errors(); len(errs) > 0 {
		for _, e := range errs {
			reporter.Report(os.Stderr, e)
		}
		slog.Info("run", "path", path, "status", "parse-error")
		return fmt.Errorf("parse failed")
	}

	interp := evaluator.New(os.Stdout, os.Stdin)
	if err := interp.Run(tree); err != nil {
		reporter.Report(os.Stderr, err)
		slog.Info("run", "path", path, "status", "eval-error")
		return err
	}

	slog.Info("run", "path", path, "status", "ok")
	return nil
}

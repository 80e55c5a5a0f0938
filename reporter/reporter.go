// ==============================================================================================
// FILE: reporter/reporter.go
// ==============================================================================================
// PACKAGE: reporter
// PURPOSE: Uniform diagnostics for the lexer, parser, and evaluator. Every failure in the
//          pipeline is fatal; this package gives each one a kind, a source location, and a
//          human-readable message, and renders it once to standard error.
// ==============================================================================================

package reporter

import (
	"fmt"
	"io"

	"github.com/samber/oops"
)

// Kind enumerates every way the pipeline can fail.
type Kind string

const (
	KindLex       Kind = "LexError"
	KindParse     Kind = "ParseError"
	KindName      Kind = "NameError"
	KindMismatch  Kind = "KindMismatch"
	KindIO        Kind = "IOError"
)

// UnbalancedBlock is the specific ParseError condition of a block closed by
// a name that does not match the block it closes, closed with none open, or
// left open at the end of input.
const UnbalancedBlock = "unbalanced block"

// New builds a located, structured error of the given kind. line and column
// are 1-based source positions; pass 0 for errors with no meaningful location
// (an IOError reading the source file, for instance).
func New(kind Kind, line, column int, format string, args ...any) error {
	return oops.
		Code(string(kind)).
		With("line", line).
		With("column", column).
		Errorf(format, args...)
}

// Wrap attaches a kind and location to an underlying error (os.ReadFile
// failures, broken stdin reads) without discarding it.
func Wrap(kind Kind, line, column int, err error) error {
	return oops.
		Code(string(kind)).
		With("line", line).
		With("column", column).
		Wrap(err)
}

// KindOf extracts the reporter Kind carried by an error produced by this
// package, if any. Used by tests that assert on which failure mode fired.
func KindOf(err error) (Kind, bool) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "", false
	}
	return Kind(oopsErr.Code()), true
}

// Report writes a single formatted diagnostic line to w: "kind at line:col: message".
func Report(w io.Writer, err error) {
	if kind, ok := KindOf(err); ok {
		oopsErr, _ := oops.AsOops(err)
		line, _ := oopsErr.Context()["line"].(int)
		column, _ := oopsErr.Context()["column"].(int)
		if line > 0 {
			fmt.Fprintf(w, "%s at %d:%d: %s\n", kind, line, column, oopsErr.Error())
			return
		}
		fmt.Fprintf(w, "%s: %s\n", kind, oopsErr.Error())
		return
	}
	fmt.Fprintln(w, err.Error())
}

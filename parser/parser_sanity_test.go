// ==============================================================================================
// FILE: parser/parser_sanity_test.go
// ==============================================================================================
// PURPOSE: Quick smoke coverage, run on every build.
// ==============================================================================================

package parser

import (
	"testing"

	"github.com/RocketRace/babalang/lexer"
)

func TestSanity_EmptyProgramParsesCleanly(t *testing.T) {
	p := New(lexer.New(""))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", p.Errors())
	}
	if len(prog.Body) != 0 {
		t.Fatalf("expected empty body, got %d statements", len(prog.Body))
	}
}

func TestSanity_SingleStatementNoTrailingNewline(t *testing.T) {
	p := New(lexer.New("x is empty"))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", p.Errors())
	}
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
}

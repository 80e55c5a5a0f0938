// ==============================================================================================
// FILE: ast/ast_benchmark_test.go
// ==============================================================================================
// PURPOSE: Measures String() throughput over a moderately sized block, since the tests rely on
//          it heavily.
// ==============================================================================================

package ast

import (
	"testing"

	"github.com/RocketRace/babalang/token"
)

func BenchmarkBlockString(b *testing.B) {
	subj := &Identifier{Token: token.Token{Literal: "x"}, Value: "x"}
	atom := &Atom{Token: token.Token{Type: token.EMPTY, Literal: "empty"}, Name: "empty"}
	block := &Block{}
	for i := 0; i < 50; i++ {
		block.Body = append(block.Body, &RuleStatement{
			Token:   subj.Token,
			Subject: subj,
			Verb:    token.Token{Type: token.IS, Literal: "is"},
			Targets: []*Term{{Token: atom.Token, Atom: atom}},
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = block.String()
	}
}

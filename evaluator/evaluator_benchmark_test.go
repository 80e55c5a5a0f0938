// ==============================================================================================
// FILE: evaluator/evaluator_benchmark_test.go
// ==============================================================================================
// PURPOSE: Measures interpretation throughput for a small loop, the repeated-execution pattern
//          representative of tele blocks.
// ==============================================================================================

package evaluator

import (
	"bytes"
	"io"
	"testing"

	"github.com/RocketRace/babalang/lexer"
	"github.com/RocketRace/babalang/parser"
)

func BenchmarkRunMinskyRegisterLoop(b *testing.B) {
	input := "r is group\nr has empty\nr has empty\nloop is tele\nr is sink\nlonely r fear loop\nloop is done\n"
	p := parser.New(lexer.New(input))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		b.Fatalf("unexpected parse errors: %v", p.Errors())
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		interp := New(io.Discard, bytes.NewReader(nil))
		if err := interp.Run(prog); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

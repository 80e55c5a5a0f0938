// ==============================================================================================
// FILE: parser/parser_integration_test.go
// ==============================================================================================
// PURPOSE: Lexer + parser working together over a nested, Minsky-register-shaped program — the
//          shape used by the end-to-end S3 scenario.
// ==============================================================================================

package parser

import (
	"testing"

	"github.com/RocketRace/babalang/ast"
	"github.com/RocketRace/babalang/lexer"
	"github.com/stretchr/testify/require"
)

func TestIntegration_MinskyRegisterShape(t *testing.T) {
	input := `r is group
r has empty
r has empty
loop is tele
r is sink
lonely r fear loop
loop is done
`
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors())
	require.Len(t, prog.Body, 4) // r is group; r has empty; r has empty; loop block

	loopStmt, ok := prog.Body[3].(*ast.BlockStatement)
	require.True(t, ok)
	require.Equal(t, "loop", loopStmt.Block.Name)
	require.Len(t, loopStmt.Block.Body, 2)

	_, isFear := loopStmt.Block.Body[1].(*ast.FearStatement)
	require.True(t, isFear)
}

// ==============================================================================================
// FILE: evaluator/evaluator_unit_test.go
// ==============================================================================================
// PURPOSE: Unit tests for individual verb/kind dispatch rules.
// ==============================================================================================

package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/RocketRace/babalang/lexer"
	"github.com/RocketRace/babalang/parser"
	"github.com/RocketRace/babalang/value"
	"github.com/stretchr/testify/require"
)

func runSource(t *testing.T, input string, stdin string) (*bytes.Buffer, error) {
	t.Helper()
	p := parser.New(lexer.New(input))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "unexpected parse errors: %v", p.Errors())

	var out bytes.Buffer
	interp := New(&out, strings.NewReader(stdin))
	err := interp.Run(prog)
	return &out, err
}

func TestEvalObjectConstructionMagnitudeOne(t *testing.T) {
	out, err := runSource(t, "x is you\nx is text\n", "")
	require.NoError(t, err)
	require.Equal(t, string(rune(1)), out.String())
}

func TestEvalMoreDoublesMagnitude(t *testing.T) {
	out, err := runSource(t, "x is you and more\nx is text\n", "")
	require.NoError(t, err)
	require.Equal(t, string(rune(2)), out.String())
}

func TestEvalAndSumsMagnitudesFacingFromLeft(t *testing.T) {
	out, err := runSource(t, "a is you and more\nb is you\nc is a and b\nc is text\n", "")
	require.NoError(t, err)
	require.Equal(t, string(rune(3)), out.String())
}

func TestEvalReadYieldsEmptyOnEOF(t *testing.T) {
	p := parser.New(lexer.New("x is read\n"))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors())

	var out bytes.Buffer
	interp := New(&out, strings.NewReader(""))
	env := value.NewEnvironment()
	sig := interp.evalBlockBody(prog, env)
	require.True(t, sig.IsNone())

	got, ok := env.Get("x")
	require.True(t, ok)
	require.Equal(t, value.EmptyValue, got)
}

func TestEvalUndefinedNameIsFatal(t *testing.T) {
	_, err := runSource(t, "ghost is x\n", "")
	require.Error(t, err)
}

func TestEvalHasOnObjectWithLiteralFieldNameIsKindMismatch(t *testing.T) {
	_, err := runSource(t, "x is you\nx has empty\n", "")
	require.Error(t, err)
}

func TestEvalTextConstructedThenGrownThenPrinted(t *testing.T) {
	out, err := runSource(t, "c is you\ns is text\ns has c\ns is text\n", "")
	require.NoError(t, err)
	require.Equal(t, string(rune(1)), out.String())
}

func TestEvalSinkOnGroupPopsTopElement(t *testing.T) {
	p := parser.New(lexer.New("g is group\ng has empty\ng has empty\ng is sink\n"))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors())

	var out bytes.Buffer
	interp := New(&out, strings.NewReader(""))
	env := value.NewEnvironment()
	sig := interp.evalBlockBody(prog, env)
	require.True(t, sig.IsNone())

	got, ok := env.Get("g")
	require.True(t, ok)
	group := got.(*value.Group)
	require.Len(t, group.Elements, 1)
}

func TestEvalFacingPrecedesBranches(t *testing.T) {
	p := parser.New(lexer.New("x is you\ny is you and more\nx facing y fear exit\n"))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors())

	var out bytes.Buffer
	interp := New(&out, strings.NewReader(""))
	env := value.NewEnvironment()
	sig := interp.evalBlockBody(prog, env)
	require.True(t, sig.TargetsBlock("exit"))
}

func TestEvalReassigningBlockBoundNameIsKindMismatch(t *testing.T) {
	_, err := runSource(t, "step is level\nstep is done\nstep is you\n", "")
	require.Error(t, err)
}

func TestEvalMixedKindTargetsIsKindMismatch(t *testing.T) {
	_, err := runSource(t, "x is you and group\n", "")
	require.Error(t, err)
}

func TestEvalMixedKeywordsIsKindMismatch(t *testing.T) {
	_, err := runSource(t, "x is group and empty\n", "")
	require.Error(t, err)
}

func TestEvalFieldDeclarationThenMirrorCopyIndependentFields(t *testing.T) {
	p := parser.New(lexer.New("parent is you\nparent has a and b\nchild is parent\n"))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors())

	var out bytes.Buffer
	interp := New(&out, strings.NewReader(""))
	env := value.NewEnvironment()
	sig := interp.evalBlockBody(prog, env)
	require.True(t, sig.IsNone())

	parent, _ := env.Get("parent")
	parentObj := parent.(*value.Object)
	require.Len(t, parentObj.Fields, 2)

	child, _ := env.Get("child")
	childObj := child.(*value.Object)
	require.Len(t, childObj.Fields, 2)

	childObj.Fields["a"] = &value.Object{Magnitude: 7}
	require.Equal(t, value.EmptyValue, parentObj.Fields["a"])
}

func TestEvalNotFlipsObjectFacing(t *testing.T) {
	p := parser.New(lexer.New("a is you and more\nb is not a\n"))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors())

	var out bytes.Buffer
	interp := New(&out, strings.NewReader(""))
	env := value.NewEnvironment()
	sig := interp.evalBlockBody(prog, env)
	require.True(t, sig.IsNone())

	got, _ := env.Get("b")
	obj := got.(*value.Object)
	require.Equal(t, value.Left, obj.Facing)
	require.Equal(t, int64(2), obj.Magnitude)
}

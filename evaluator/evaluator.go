// ==============================================================================================
// FILE: evaluator/evaluator.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Implements the runtime execution engine. It walks the statement tree produced by the
//          parser and produces side effects (standard I/O) or bindings (value.Value), dispatching
//          each verb over the resolved kind of its subject and targets.
// ==============================================================================================

package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/RocketRace/babalang/ast"
	"github.com/RocketRace/babalang/reporter"
	"github.com/RocketRace/babalang/token"
	"github.com/RocketRace/babalang/value"
)

// Evaluator owns the standard I/O streams a running program reads from and writes to.
type Evaluator struct {
	out io.Writer
	in  *bufio.Reader
}

// New builds an Evaluator over the given output sink and input source.
func New(out io.Writer, in io.Reader) *Evaluator {
	return &Evaluator{out: out, in: bufio.NewReader(in)}
}

// Run executes program to completion in a fresh top-level frame. Any fatal error encountered
// during execution is returned; a fear that unwinds past the top-level block is reported as a
// mismatch, since there is no enclosing block left to target.
func (e *Evaluator) Run(program *ast.Block) error {
	env := value.NewEnvironment()
	sig := e.evalBlockBody(program, env)
	switch sig.Kind {
	case value.SignalFatal:
		return sig.Err
	case value.SignalExitBlock:
		return reporter.New(reporter.KindMismatch, 0, 0, "fear targets unknown block %q", sig.BlockName)
	}
	return nil
}

func (e *Evaluator) evalBlockBody(block *ast.Block, env *value.Environment) value.Signal {
	for _, stmt := range block.Body {
		sig := e.evalStatement(stmt, env)
		if !sig.IsNone() {
			return sig
		}
	}
	return value.None
}

func (e *Evaluator) evalStatement(stmt ast.Statement, env *value.Environment) value.Signal {
	switch s := stmt.(type) {
	case *ast.RuleStatement:
		_, sig := e.evalRuleStatement(s, env)
		return sig
	case *ast.FearStatement:
		_, sig := e.evalFear(s, env)
		return sig
	case *ast.BlockStatement:
		_, sig := e.evalBlockDeclaration(s, env)
		return sig
	default:
		return value.Fatal(fmt.Errorf("evaluator: unknown statement type %T", stmt))
	}
}

// ==============================================================================================
// BLOCK DECLARATION: level (deferred invocation) and tele (runs immediately, as a loop)
// ==============================================================================================

func (e *Evaluator) evalBlockDeclaration(stmt *ast.BlockStatement, env *value.Environment) (value.Value, value.Signal) {
	block := stmt.Block
	switch block.Kind {
	case token.LEVEL:
		lvl := &value.Level{Block: block, Env: env}
		env.Set(block.Name, lvl)
		return lvl, value.None
	case token.TELE:
		tele := &value.Tele{Block: block, Env: env}
		env.Set(block.Name, tele)
		loopEnv := value.NewEnclosedEnvironment(env)
		return e.runTeleLoop(tele, loopEnv)
	default:
		return nil, value.Fatal(fmt.Errorf("evaluator: block %q has unknown kind %q", block.Name, block.Kind))
	}
}

func (e *Evaluator) runTeleLoop(tele *value.Tele, loopEnv *value.Environment) (value.Value, value.Signal) {
	for {
		sig := e.evalBlockBody(tele.Block, loopEnv)
		switch {
		case sig.Kind == value.SignalFatal:
			return value.EmptyValue, sig
		case sig.TargetsBlock(tele.Block.Name):
			return value.EmptyValue, value.None
		case sig.Kind == value.SignalExitBlock:
			return value.EmptyValue, sig
		}
	}
}

// callLevel invokes lvl in a fresh frame enclosed by its declaration-site environment. Each
// declared parameter is bound, by name, to the value currently held by that same name in the
// calling frame — Declare is used rather than Set so the fresh binding never reaches outward and
// mutates a same-named variable visible from the call site.
func (e *Evaluator) callLevel(lvl *value.Level, callerEnv *value.Environment, tok token.Token) (value.Value, value.Signal) {
	callEnv := value.NewEnclosedEnvironment(lvl.Env)
	for _, param := range lvl.Block.Params {
		arg, ok := callerEnv.Get(param.Value)
		if !ok {
			return nil, value.Fatal(nameError(tok, param.Value))
		}
		callEnv.Declare(param.Value, arg)
	}

	sig := e.evalBlockBody(lvl.Block, callEnv)
	switch {
	case sig.Kind == value.SignalFatal:
		return nil, sig
	case sig.IsNone(), sig.TargetsBlock(lvl.Block.Name):
		return value.EmptyValue, value.None
	default:
		return nil, sig
	}
}

// ==============================================================================================
// "is" — assignment / construction
// ==============================================================================================

func (e *Evaluator) evalRuleStatement(stmt *ast.RuleStatement, env *value.Environment) (value.Value, value.Signal) {
	switch stmt.Verb.Type {
	case token.IS:
		return e.evalIs(stmt, env)
	case token.HAS:
		return e.evalHas(stmt, env)
	default:
		return nil, value.Fatal(fmt.Errorf("evaluator: unknown verb %q", stmt.Verb.Literal))
	}
}

// isKeywords are the literal words that each select a distinct "is" shape. A statement may name
// at most one of them — "x is you and group" mixes Object construction with a Group declaration
// and is rejected rather than silently picking whichever keyword is checked first.
var isKeywords = []string{"text", "read", "power", "sink", "group", "empty"}

func (e *Evaluator) evalIs(stmt *ast.RuleStatement, env *value.Environment) (value.Value, value.Signal) {
	kind, sig := selectIsKind(stmt.Targets, stmt.Token)
	if sig.Kind != value.SignalNone {
		return nil, sig
	}
	switch kind {
	case "text":
		if _, bound := env.Get(stmt.Subject.Value); !bound && len(stmt.Targets) == 1 {
			t := &value.Text{}
			env.Set(stmt.Subject.Value, t)
			return t, value.None
		}
		return e.evalTextSink(stmt, env)
	case "read":
		return e.evalReadSink(stmt, env)
	case "power":
		return e.evalPowerCall(stmt, env)
	case "sink":
		return e.evalSinkVerb(stmt, env)
	case "group":
		if sig := requireNotBlockBound(env, stmt.Subject.Value, stmt.Token); !sig.IsNone() {
			return nil, sig
		}
		g := &value.Group{}
		env.Set(stmt.Subject.Value, g)
		return g, value.None
	case "empty":
		if sig := requireNotBlockBound(env, stmt.Subject.Value, stmt.Token); !sig.IsNone() {
			return nil, sig
		}
		env.Set(stmt.Subject.Value, value.EmptyValue)
		return value.EmptyValue, value.None
	default:
		return e.evalObjectConstruction(stmt, env)
	}
}

// selectIsKind finds which single isKeyword (if any) governs stmt's targets, failing with
// KindMismatch if more than one appears, or if one appears alongside an Object-construction
// literal (you/move/more) — both are statements mixing incompatible target kinds.
func selectIsKind(targets []*ast.Term, tok token.Token) (string, value.Signal) {
	found := ""
	for _, name := range isKeywords {
		if !hasAtomNamed(targets, name) {
			continue
		}
		if found != "" {
			return "", value.Fatal(kindMismatchError(tok, "cannot combine %q and %q in one \"is\" statement", found, name))
		}
		found = name
	}
	if found == "" {
		return "", value.None
	}
	for _, term := range targets {
		if term.Atom.IsLiteral() && (term.Atom.Name == "you" || term.Atom.Name == "move" || term.Atom.Name == "more") {
			return "", value.Fatal(kindMismatchError(tok, "cannot combine %q and %q in one \"is\" statement", found, term.Atom.Name))
		}
	}
	return found, value.None
}

// requireNotBlockBound rejects rebinding a name that already holds a Level or Tele through an
// ordinary construction verb: blocks are only re-entered through "power", never overwritten.
func requireNotBlockBound(env *value.Environment, name string, tok token.Token) value.Signal {
	cur, ok := env.Get(name)
	if !ok {
		return value.None
	}
	switch cur.(type) {
	case *value.Level, *value.Tele:
		return value.Fatal(kindMismatchError(tok, "%q is already bound to a block", name))
	}
	return value.None
}

func hasAtomNamed(targets []*ast.Term, name string) bool {
	for _, t := range targets {
		if !t.Negated && t.Atom.IsLiteral() && t.Atom.Name == name {
			return true
		}
	}
	return false
}

// evalObjectConstruction handles the default "is" shape: building an Object out of you/move/more
// and "and"-combining named values, or simply copying a named binding (including a Level/Tele
// reference) when no construction literal is present. Copying a single Object that carries
// declared fields (CHILD is PARENT) mirrors those field names into a fresh Fields map on the
// copy rather than aliasing PARENT's own map.
func (e *Evaluator) evalObjectConstruction(stmt *ast.RuleStatement, env *value.Environment) (value.Value, value.Signal) {
	var acc value.Value
	for _, term := range stmt.Targets {
		if term.Atom.IsLiteral() && (term.Atom.Name == "move" || term.Atom.Name == "more") {
			obj, ok := acc.(*value.Object)
			if !ok {
				return nil, value.Fatal(kindMismatchError(term.Token, "%q requires a preceding Object", term.Atom.Name))
			}
			if term.Atom.Name == "move" {
				acc = obj.Move()
			} else {
				acc = obj.More()
			}
			continue
		}

		val, sig := e.resolveSimpleTerm(term, env)
		if sig.Kind != value.SignalNone {
			return nil, sig
		}
		if acc == nil {
			if obj, ok := val.(*value.Object); ok && obj.Fields != nil {
				acc = &value.Object{Facing: obj.Facing, Magnitude: obj.Magnitude, Fields: value.MirrorFields(obj)}
			} else {
				acc = val
			}
			continue
		}
		accObj, accOk := acc.(*value.Object)
		valObj, valOk := val.(*value.Object)
		if !accOk || !valOk {
			return nil, value.Fatal(kindMismatchError(stmt.Token, "cannot combine %s and %s with \"and\"", acc.Kind(), val.Kind()))
		}
		acc = value.AddObjects(accObj, valObj)
	}
	if acc == nil {
		acc = value.EmptyValue
	}
	if sig := requireNotBlockBound(env, stmt.Subject.Value, stmt.Token); !sig.IsNone() {
		return nil, sig
	}
	env.Set(stmt.Subject.Value, acc)
	return acc, value.None
}

// resolveSimpleTerm resolves a Term outside a construction chain: a bare facing literal, empty,
// or a named binding, optionally negated (additive inverse for an Object).
func (e *Evaluator) resolveSimpleTerm(term *ast.Term, env *value.Environment) (value.Value, value.Signal) {
	if term.Atom.IsLiteral() {
		switch term.Atom.Name {
		case "you":
			return &value.Object{Facing: value.Right, Magnitude: 1}, value.None
		case "right":
			return &value.Object{Facing: value.Right, Magnitude: 0}, value.None
		case "left":
			return &value.Object{Facing: value.Left, Magnitude: 0}, value.None
		case "up":
			return &value.Object{Facing: value.Up, Magnitude: 0}, value.None
		case "down":
			return &value.Object{Facing: value.Down, Magnitude: 0}, value.None
		case "empty":
			return value.EmptyValue, value.None
		default:
			return nil, value.Fatal(kindMismatchError(term.Token, "%q cannot appear here", term.Atom.Name))
		}
	}

	val, ok := env.Get(term.Atom.Name)
	if !ok {
		return nil, value.Fatal(nameError(term.Token, term.Atom.Name))
	}
	if term.Negated {
		obj, ok := val.(*value.Object)
		if !ok {
			return nil, value.Fatal(kindMismatchError(term.Token, "\"not\" requires an Object, got %s", val.Kind()))
		}
		return obj.Not(), value.None
	}
	return val, value.None
}

func (e *Evaluator) evalTextSink(stmt *ast.RuleStatement, env *value.Environment) (value.Value, value.Signal) {
	cur, ok := env.Get(stmt.Subject.Value)
	if !ok {
		return nil, value.Fatal(nameError(stmt.Token, stmt.Subject.Value))
	}
	switch v := cur.(type) {
	case *value.Object:
		if err := e.writeRune(rune(v.Magnitude)); err != nil {
			return nil, value.Fatal(reporter.Wrap(reporter.KindIO, stmt.Token.Line, stmt.Token.Column, err))
		}
	case *value.Text:
		if err := e.writeString(v.Value); err != nil {
			return nil, value.Fatal(reporter.Wrap(reporter.KindIO, stmt.Token.Line, stmt.Token.Column, err))
		}
	default:
		return nil, value.Fatal(kindMismatchError(stmt.Token, "\"text\" requires an Object or Text, got %s", cur.Kind()))
	}
	return cur, value.None
}

func (e *Evaluator) evalReadSink(stmt *ast.RuleStatement, env *value.Environment) (value.Value, value.Signal) {
	if sig := requireNotBlockBound(env, stmt.Subject.Value, stmt.Token); !sig.IsNone() {
		return nil, sig
	}
	r, _, err := e.in.ReadRune()
	if err != nil {
		if err == io.EOF {
			env.Set(stmt.Subject.Value, value.EmptyValue)
			return value.EmptyValue, value.None
		}
		return nil, value.Fatal(reporter.Wrap(reporter.KindIO, stmt.Token.Line, stmt.Token.Column, err))
	}
	obj := &value.Object{Facing: value.Right, Magnitude: int64(r)}
	env.Set(stmt.Subject.Value, obj)
	return obj, value.None
}

func (e *Evaluator) evalPowerCall(stmt *ast.RuleStatement, env *value.Environment) (value.Value, value.Signal) {
	var levelName string
	for _, t := range stmt.Targets {
		if t.Atom.IsLiteral() && t.Atom.Name == "power" {
			continue
		}
		levelName = t.Atom.Name
		break
	}
	if levelName == "" {
		return nil, value.Fatal(kindMismatchError(stmt.Token, "\"power\" requires a named level"))
	}

	val, ok := env.Get(levelName)
	if !ok {
		return nil, value.Fatal(nameError(stmt.Token, levelName))
	}
	lvl, ok := val.(*value.Level)
	if !ok {
		return nil, value.Fatal(kindMismatchError(stmt.Token, "\"power\" requires a level, got %s", val.Kind()))
	}

	result, sig := e.callLevel(lvl, env, stmt.Token)
	if sig.Kind != value.SignalNone {
		return nil, sig
	}
	env.Set(stmt.Subject.Value, result)
	return result, value.None
}

func (e *Evaluator) evalSinkVerb(stmt *ast.RuleStatement, env *value.Environment) (value.Value, value.Signal) {
	cur, ok := env.Get(stmt.Subject.Value)
	if !ok {
		return nil, value.Fatal(nameError(stmt.Token, stmt.Subject.Value))
	}
	switch v := cur.(type) {
	case *value.Object:
		sunk := v.Sink()
		env.Set(stmt.Subject.Value, sunk)
		return sunk, value.None
	case *value.Group:
		v.Pop()
		return v, value.None
	default:
		return nil, value.Fatal(kindMismatchError(stmt.Token, "\"sink\" requires an Object or Group, got %s", cur.Kind()))
	}
}

// ==============================================================================================
// "has" — push / field declaration
// ==============================================================================================

func (e *Evaluator) evalHas(stmt *ast.RuleStatement, env *value.Environment) (value.Value, value.Signal) {
	cur, ok := env.Get(stmt.Subject.Value)
	if !ok {
		return nil, value.Fatal(nameError(stmt.Token, stmt.Subject.Value))
	}

	switch subject := cur.(type) {
	case *value.Group:
		for _, term := range stmt.Targets {
			val, sig := e.resolveSimpleTerm(term, env)
			if sig.Kind != value.SignalNone {
				return nil, sig
			}
			subject.Push(val)
		}
		return subject, value.None

	case *value.Text:
		for _, term := range stmt.Targets {
			val, sig := e.resolveSimpleTerm(term, env)
			if sig.Kind != value.SignalNone {
				return nil, sig
			}
			obj, ok := val.(*value.Object)
			if !ok {
				return nil, value.Fatal(kindMismatchError(stmt.Token, "\"has\" on Text requires an Object, got %s", val.Kind()))
			}
			subject.Value += string(rune(obj.Magnitude))
		}
		return subject, value.None

	case *value.Object:
		names := make([]string, 0, len(stmt.Targets))
		for _, term := range stmt.Targets {
			if term.Atom.IsLiteral() || term.Negated {
				return nil, value.Fatal(kindMismatchError(stmt.Token, "field name must be a plain identifier, got %q", term.Atom.Name))
			}
			names = append(names, term.Atom.Name)
		}
		(&value.FieldList{Names: names}).Declare(subject)
		return subject, value.None

	default:
		return nil, value.Fatal(kindMismatchError(stmt.Token, "\"has\" requires a Group, Text, or Object, got %s", cur.Kind()))
	}
}

// ==============================================================================================
// "fear" — conditional / unconditional bounded jump
// ==============================================================================================

func (e *Evaluator) evalFear(stmt *ast.FearStatement, env *value.Environment) (value.Value, value.Signal) {
	shouldExit := true
	if stmt.Condition != nil {
		cond, sig := e.evalCondition(stmt.Condition, stmt.Subject, env)
		if sig.Kind != value.SignalNone {
			return nil, sig
		}
		shouldExit = cond
	}
	if !shouldExit {
		return value.EmptyValue, value.None
	}
	return value.EmptyValue, value.ExitBlock(stmt.Target.Value)
}

func (e *Evaluator) evalCondition(cond *ast.Condition, subject *ast.Identifier, env *value.Environment) (bool, value.Signal) {
	switch cond.Token.Type {
	case token.FACING:
		fromVal, ok := env.Get(subject.Value)
		if !ok {
			return false, value.Fatal(nameError(cond.Token, subject.Value))
		}
		from, ok := fromVal.(*value.Object)
		if !ok {
			return false, value.Fatal(kindMismatchError(cond.Token, "\"facing\" requires an Object, got %s", fromVal.Kind()))
		}
		toVal, sig := e.resolveSimpleTerm(cond.Term, env)
		if sig.Kind != value.SignalNone {
			return false, sig
		}
		to, ok := toVal.(*value.Object)
		if !ok {
			return false, value.Fatal(kindMismatchError(cond.Token, "\"facing\" requires an Object, got %s", toVal.Kind()))
		}
		return value.FacingPrecedes(from, to), value.None

	case token.LONELY:
		val, ok := env.Get(subject.Value)
		if !ok {
			return false, value.Fatal(nameError(cond.Token, subject.Value))
		}
		lonely := isLonely(val)
		if cond.Negated {
			return !lonely, value.None
		}
		return lonely, value.None

	default:
		return false, value.Fatal(fmt.Errorf("evaluator: unknown condition %q", cond.Token.Literal))
	}
}

func isLonely(v value.Value) bool {
	switch t := v.(type) {
	case *value.Empty:
		return true
	case *value.Group:
		return t.Empty()
	case *value.Object:
		return t.Magnitude == 0
	default:
		return false
	}
}

// ==============================================================================================
// I/O HELPERS & ERROR CONSTRUCTORS
// ==============================================================================================

func (e *Evaluator) writeRune(r rune) error {
	buf := make([]byte, utf8.RuneLen(r))
	utf8.EncodeRune(buf, r)
	_, err := e.out.Write(buf)
	return err
}

func (e *Evaluator) writeString(s string) error {
	_, err := io.WriteString(e.out, s)
	return err
}

func nameError(tok token.Token, name string) error {
	return reporter.New(reporter.KindName, tok.Line, tok.Column, "undefined name: %s", name)
}

func kindMismatchError(tok token.Token, format string, args ...any) error {
	return reporter.New(reporter.KindMismatch, tok.Line, tok.Column, format, args...)
}

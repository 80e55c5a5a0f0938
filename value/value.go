// ==============================================================================================
// FILE: value/value.go
// ==============================================================================================
// PACKAGE: value
// PURPOSE: Defines the runtime type system for Babalang. Every binding resolves to exactly one
//          of the kinds below; verbs are dispatched by the evaluator over (verb, target kind,
//          subject kind) rather than through per-kind methods, so this file stays mostly data.
// ==============================================================================================

package value

import (
	"fmt"
	"strings"

	"github.com/RocketRace/babalang/ast"
)

// Kind identifies the runtime type of a Value.
type Kind string

const (
	KindEmpty     Kind = "EMPTY"
	KindObject    Kind = "OBJECT"
	KindText      Kind = "TEXT"
	KindGroup     Kind = "GROUP"
	KindLevel     Kind = "LEVEL"
	KindTele      Kind = "TELE"
	KindDone      Kind = "DONE"
	KindFieldList Kind = "FIELD_LIST"
)

// Value is the interface every runtime value implements.
type Value interface {
	Kind() Kind
	Inspect() string
}

// ==============================================================================================
// EMPTY
// ==============================================================================================

// Empty is the uninitialised / absent value. There is exactly one: EmptyValue.
type Empty struct{}

func (e *Empty) Kind() Kind     { return KindEmpty }
func (e *Empty) Inspect() string { return "empty" }

// EmptyValue is the singleton Empty instance; every "empty" result shares it.
var EmptyValue = &Empty{}

// ==============================================================================================
// FACING & OBJECT
// ==============================================================================================

// Facing is the cardinal direction every Object carries, used as the sign
// component of its value and as the comparison direction for "facing"
// conditions.
type Facing int

const (
	Right Facing = iota
	Down
	Left
	Up
)

func (f Facing) String() string {
	switch f {
	case Right:
		return "right"
	case Left:
		return "left"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "?"
	}
}

// Sign returns the arithmetic sign Facing contributes: +1 for Right, -1 for
// Left, 0 (neutral) for Up/Down, which carry no sign and never compare as
// "facing" ahead of or behind anything.
func (f Facing) Sign() int64 {
	switch f {
	case Right:
		return 1
	case Left:
		return -1
	default:
		return 0
	}
}

// RotateClockwise is the direction step taken by "move": Right -> Down ->
// Left -> Up -> Right.
func (f Facing) RotateClockwise() Facing {
	switch f {
	case Right:
		return Down
	case Down:
		return Left
	case Left:
		return Up
	case Up:
		return Right
	default:
		return f
	}
}

// RotateCounterClockwise is the direction step taken by "sink" on an Object:
// Right -> Up -> Left -> Down -> Right, exactly reversing RotateClockwise.
func (f Facing) RotateCounterClockwise() Facing {
	switch f {
	case Right:
		return Up
	case Up:
		return Left
	case Left:
		return Down
	case Down:
		return Right
	default:
		return f
	}
}

// Flip swaps Right and Left (the effect of "not" on an Object); Up and Down
// are left unchanged, since they carry no sign to invert.
func (f Facing) Flip() Facing {
	switch f {
	case Right:
		return Left
	case Left:
		return Right
	default:
		return f
	}
}

// Object is Babalang's primary numeric-like value: a magnitude paired with a
// facing direction that supplies its sign. Fields is non-nil only on an
// Object that has had named fields declared on it or that was built by
// mirroring such an Object's field names; ordinary arithmetic never
// populates it.
type Object struct {
	Facing    Facing
	Magnitude int64
	Fields    map[string]Value
}

func (o *Object) Kind() Kind { return KindObject }
func (o *Object) Inspect() string {
	return fmt.Sprintf("%s %d", o.Facing, o.Magnitude)
}

// Signed returns the object's magnitude with its facing's sign applied.
func (o *Object) Signed() int64 { return o.Magnitude * o.Facing.Sign() }

// Move returns the Object produced by a "move" term during construction: the
// facing steps clockwise, the magnitude is unchanged.
func (o *Object) Move() *Object {
	return &Object{Facing: o.Facing.RotateClockwise(), Magnitude: o.Magnitude}
}

// More returns the Object produced by a "more" term during construction: the
// magnitude doubles, the facing is unchanged.
func (o *Object) More() *Object {
	return &Object{Facing: o.Facing, Magnitude: o.Magnitude * 2}
}

// Sink returns the Object produced by the "sink" verb on an Object subject:
// the Babalang analogue of decrement, a counter-clockwise facing step.
func (o *Object) Sink() *Object {
	return &Object{Facing: o.Facing.RotateCounterClockwise(), Magnitude: o.Magnitude}
}

// Not returns the additive inverse of o: Right and Left swap, magnitude is
// unchanged.
func (o *Object) Not() *Object {
	return &Object{Facing: o.Facing.Flip(), Magnitude: o.Magnitude}
}

// AddObjects implements "and" over two Objects: the result's facing is
// always the left operand's, and its magnitude is the absolute value of the
// signed sum, regardless of the sum's own sign.
func AddObjects(left, right *Object) *Object {
	sum := left.Signed() + right.Signed()
	if sum < 0 {
		sum = -sum
	}
	return &Object{Facing: left.Facing, Magnitude: sum}
}

// FacingPrecedes reports whether, in from's facing direction, to lies
// strictly ahead of from — the ordering the "fear" conditional branch tests.
// Up/Down facing never precedes anything; it carries no direction to order by.
func FacingPrecedes(from, to *Object) bool {
	switch from.Facing {
	case Right:
		return from.Signed() < to.Signed()
	case Left:
		return from.Signed() > to.Signed()
	default:
		return false
	}
}

// MirrorFields builds a fresh fields map for struct-like mirroring: each
// field name from src is present, independently initialised to Empty.
func MirrorFields(src *Object) map[string]Value {
	if src.Fields == nil {
		return nil
	}
	out := make(map[string]Value, len(src.Fields))
	for name := range src.Fields {
		out[name] = EmptyValue
	}
	return out
}

// ==============================================================================================
// TEXT
// ==============================================================================================

// Text holds a Unicode string, produced by assigning a character-capable
// source to a Text sink.
type Text struct {
	Value string
}

func (t *Text) Kind() Kind      { return KindText }
func (t *Text) Inspect() string { return t.Value }

// ==============================================================================================
// GROUP
// ==============================================================================================

// Group is an ordered, stack-like collection. Its contents are opaque to
// every verb except push (has), pop (sink), and emptiness test (lonely).
type Group struct {
	Elements []Value
}

func (g *Group) Kind() Kind { return KindGroup }
func (g *Group) Inspect() string {
	parts := make([]string, len(g.Elements))
	for i, el := range g.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Push appends v to the top of the group.
func (g *Group) Push(v Value) { g.Elements = append(g.Elements, v) }

// Pop removes and returns the top element, reporting false if the group was
// already empty.
func (g *Group) Pop() (Value, bool) {
	if len(g.Elements) == 0 {
		return nil, false
	}
	top := g.Elements[len(g.Elements)-1]
	g.Elements = g.Elements[:len(g.Elements)-1]
	return top, true
}

// Empty reports whether the group has no elements.
func (g *Group) Empty() bool { return len(g.Elements) == 0 }

// ==============================================================================================
// LEVEL & TELE
// ==============================================================================================

// Level is a block reference invocable as a procedure. It captures the
// environment chain visible at its declaration site, making it a true
// closure.
type Level struct {
	Block *ast.Block
	Env   *Environment
}

func (l *Level) Kind() Kind      { return KindLevel }
func (l *Level) Inspect() string { return "level " + l.Block.Name }

// Tele is a block reference executed as a loop with a labelled break,
// likewise closing over its declaration-site environment chain.
type Tele struct {
	Block *ast.Block
	Env   *Environment
}

func (t *Tele) Kind() Kind      { return KindTele }
func (t *Tele) Inspect() string { return "tele " + t.Block.Name }

// ==============================================================================================
// DONE
// ==============================================================================================

// Done is the sentinel that closes a block; it never appears as a
// user-visible value. There is exactly one: DoneValue.
type Done struct{}

func (d *Done) Kind() Kind      { return KindDone }
func (d *Done) Inspect() string { return "done" }

// DoneValue is the singleton Done instance.
var DoneValue = &Done{}

// ==============================================================================================
// FIELD LIST
// ==============================================================================================

// FieldList is an ordered sequence of field names, produced transiently while
// the evaluator walks a struct-like field declaration (an Object subject of
// "has" whose targets name fields rather than pushable values). It is never
// bound to a name and never escapes the statement that builds it.
type FieldList struct {
	Names []string
}

func (f *FieldList) Kind() Kind      { return KindFieldList }
func (f *FieldList) Inspect() string { return "fields(" + strings.Join(f.Names, ", ") + ")" }

// Declare builds the fields map a declaration statement installs on subj:
// every named field, independently initialised to Empty.
func (f *FieldList) Declare(subj *Object) {
	fields := make(map[string]Value, len(f.Names))
	for _, name := range f.Names {
		fields[name] = EmptyValue
	}
	subj.Fields = fields
}

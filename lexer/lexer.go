// ----------------------------------------------------------------------------
// FILE: lexer/lexer.go
// ----------------------------------------------------------------------------
package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/RocketRace/babalang/token"
)

// Lexer represents the state of the source code scanner.
// It iterates through the input string and produces a stream of tokens.
//
// Identifiers are not letter-restricted: a word is any maximal run of
// non-whitespace runes that does not exactly match a reserved word.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	invalid      bool // true when ch was produced by a malformed UTF-8 byte
	badByte      byte // the offending byte, when invalid is true
	line         int
	column       int
}

// New initializes a new Lexer with the given input string.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position indices.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.invalid = false
		l.position = l.readPosition
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	if r == utf8.RuneError && size == 1 {
		l.invalid = true
		l.badByte = l.input[l.readPosition]
	} else {
		l.invalid = false
	}

	l.ch = r
	l.position = l.readPosition
	l.readPosition += size

	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing the lexer's position.
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken inspects the current character and returns the corresponding Token.
// It skips horizontal whitespace and comments, collapses runs of blank lines
// into a single EOL, and otherwise scans one maximal word at a time.
func (l *Lexer) NextToken() token.Token {
	l.skipHorizontalWhitespace()

	if l.ch == '/' && l.peekChar() == '/' {
		l.skipLineComment()
		return l.NextToken()
	}

	line, column := l.line, l.column

	switch {
	case l.ch == '\n':
		l.readChar()
		l.skipBlankLines()
		return token.Token{Type: token.EOL, Literal: "\n", Line: line, Column: column}

	case l.ch == 0:
		return token.Token{Type: token.EOF, Line: line, Column: column}

	case l.invalid:
		tok := token.Token{
			Type:    token.ILLEGAL,
			Literal: fmt.Sprintf("invalid UTF-8 byte 0x%02x", l.badByte),
			Line:    line,
			Column:  column,
		}
		l.readChar()
		return tok

	default:
		word := l.readWord()
		return token.Token{Type: token.Lookup(word), Literal: word, Line: line, Column: column}
	}
}

// readWord consumes a maximal run of non-whitespace runes, stopping at the
// first malformed UTF-8 byte, whitespace character, or end of input — so a
// malformed byte immediately following a word gets its own token next call.
func (l *Lexer) readWord() string {
	start := l.position
	for !isWordBoundary(l.ch) && !l.invalid {
		l.readChar()
	}
	return l.input[start:l.position]
}

// skipHorizontalWhitespace skips spaces, tabs, and carriage returns, but not
// newlines — those are meaningful EOL tokens.
func (l *Lexer) skipHorizontalWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// skipLineComment consumes characters from "//" to (not including) the
// terminating newline, or to EOF.
func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipBlankLines absorbs any further whitespace-only or comment-only lines
// immediately following a newline already consumed by the caller, so that a
// run of blank lines produces exactly one EOL token overall.
func (l *Lexer) skipBlankLines() {
	for {
		l.skipHorizontalWhitespace()
		if l.ch == '/' && l.peekChar() == '/' {
			l.skipLineComment()
			continue
		}
		if l.ch == '\n' {
			l.readChar()
			continue
		}
		return
	}
}

// isWordBoundary reports whether ch terminates a word: whitespace or EOF.
// Newlines terminate a word too; they are never part of an identifier.
func isWordBoundary(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == 0
}

// ==============================================================================================
// FILE: parser/parser.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: Recursive-descent parser. Babalang has no operator precedence to climb — every
//          statement is "Subject Verb Targets" or a "fear" jump — so there is no Pratt table
//          here, just one dispatch per statement shape and a block stack for "is level"/"is tele"
//          / "is done" nesting.
// ==============================================================================================

package parser

import (
	"github.com/RocketRace/babalang/ast"
	"github.com/RocketRace/babalang/lexer"
	"github.com/RocketRace/babalang/reporter"
	"github.com/RocketRace/babalang/token"
)

// Parser holds the state of the parsing process: the lexer it reads from,
// one token of lookahead, and every error collected along the way. The
// parser does not stop at the first error — it resynchronizes at the next
// EOL and keeps going, accumulating every malformed statement into errors
// across a single pass — but the overall pipeline still treats any non-empty
// error list as fatal.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []error
}

// New initializes a new Parser instance and primes curToken and peekToken.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.fetch()
}

// fetch pulls the next token from the lexer, converting any ILLEGAL token
// into a recorded LexError and skipping past it rather than letting it reach
// statement parsing, where it would otherwise surface as a confusing
// unexpected-token ParseError instead of the malformed-source error it is.
func (p *Parser) fetch() token.Token {
	for {
		tok := p.l.NextToken()
		if tok.Type != token.ILLEGAL {
			return tok
		}
		p.errors = append(p.errors, reporter.New(reporter.KindLex, tok.Line, tok.Column, "%s", tok.Literal))
	}
}

// Errors returns every parse error collected during ParseProgram.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) addErrorf(line, column int, format string, args ...any) {
	p.errors = append(p.errors, reporter.New(reporter.KindParse, line, column, format, args...))
}

func (p *Parser) skipEOLs() {
	for p.curToken.Type == token.EOL {
		p.nextToken()
	}
}

// recoverToEOL discards tokens up to and including the next EOL or EOF, so a
// malformed statement doesn't cascade into spurious errors on the next line.
func (p *Parser) recoverToEOL() {
	for p.curToken.Type != token.EOL && p.curToken.Type != token.EOF {
		p.nextToken()
	}
	if p.curToken.Type == token.EOL {
		p.nextToken()
	}
}

// ParseProgram parses the entire token stream into the implicit top-level
// "main" block. Top-level statements outside any named block belong to it.
func (p *Parser) ParseProgram() *ast.Block {
	main := &ast.Block{}
	p.parseBlockBody(main)
	return main
}

// parseBlockBody consumes statements into current.Body until it finds the
// matching "NAME is done" closer (for a named block) or runs out of input
// (for the top-level main block, which is never explicitly closed).
func (p *Parser) parseBlockBody(current *ast.Block) {
	for {
		p.skipEOLs()

		if p.curToken.Type == token.EOF {
			if current.Name != "" {
				p.addErrorf(p.curToken.Line, p.curToken.Column,
					"%s: block %q was never closed", reporter.UnbalancedBlock, current.Name)
			}
			return
		}

		stmt := p.parseStatement()
		if stmt == nil {
			p.recoverToEOL()
			continue
		}

		if opener, ok := blockOpener(stmt); ok {
			block := &ast.Block{Token: opener.Token, Name: opener.Subject.Value, Kind: opener.Kind}
			p.parseOptionalParams(block)
			p.parseBlockBody(block)
			current.Body = append(current.Body, &ast.BlockStatement{Block: block})
			continue
		}

		if closerName, ok := blockCloser(stmt); ok {
			if current.Name == "" {
				rs := stmt.(*ast.RuleStatement)
				p.addErrorf(rs.Token.Line, rs.Token.Column,
					"%s: %q closes a block but none is open", reporter.UnbalancedBlock, closerName)
				continue
			}
			if closerName != current.Name {
				rs := stmt.(*ast.RuleStatement)
				p.addErrorf(rs.Token.Line, rs.Token.Column,
					"%s: %q does not match open block %q", reporter.UnbalancedBlock, closerName, current.Name)
				continue
			}
			return
		}

		current.Body = append(current.Body, stmt)
	}
}

// blockOpenInfo describes a recognized "NAME is level"/"NAME is tele" statement.
type blockOpenInfo struct {
	Token   token.Token
	Subject *ast.Identifier
	Kind    token.Type
}

// blockOpener reports whether stmt is exactly "NAME is level" or "NAME is tele".
func blockOpener(stmt ast.Statement) (blockOpenInfo, bool) {
	rs, ok := stmt.(*ast.RuleStatement)
	if !ok || rs.Verb.Type != token.IS || len(rs.Targets) != 1 || rs.Targets[0].Negated {
		return blockOpenInfo{}, false
	}
	kind := rs.Targets[0].Atom.Token.Type
	if kind != token.LEVEL && kind != token.TELE {
		return blockOpenInfo{}, false
	}
	return blockOpenInfo{Token: rs.Token, Subject: rs.Subject, Kind: kind}, true
}

// blockCloser reports whether stmt is exactly "NAME is done", returning NAME.
func blockCloser(stmt ast.Statement) (string, bool) {
	rs, ok := stmt.(*ast.RuleStatement)
	if !ok || rs.Verb.Type != token.IS || len(rs.Targets) != 1 || rs.Targets[0].Negated {
		return "", false
	}
	if rs.Targets[0].Atom.Token.Type != token.DONE {
		return "", false
	}
	return rs.Subject.Value, true
}

// parseOptionalParams recognizes the parameter-declaration statement that may
// immediately follow a "NAME is level" opener: "NAME has P1 and P2 ...". The
// targets become the block's ordered parameter list rather than ordinary
// body statements.
func (p *Parser) parseOptionalParams(block *ast.Block) {
	if block.Kind != token.LEVEL {
		return
	}
	p.skipEOLs()
	if p.curToken.Type != token.IDENT || p.curToken.Literal != block.Name || p.peekToken.Type != token.HAS {
		return
	}

	p.nextToken() // consume the repeated block name
	p.nextToken() // consume "has"

	for {
		term, ok := p.parseTerm()
		if !ok {
			return
		}
		block.Params = append(block.Params, &ast.Identifier{Token: term.Atom.Token, Value: term.Atom.Name})
		if p.curToken.Type != token.AND {
			break
		}
		p.nextToken()
	}

	if p.curToken.Type != token.EOL && p.curToken.Type != token.EOF {
		p.addErrorf(p.curToken.Line, p.curToken.Column, "unexpected token %q after parameter list", p.curToken.Literal)
	}
}

// parseStatement parses exactly one statement, returning nil (with an error
// recorded) on malformed input.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LONELY:
		return p.parseFearFromLonely(false)
	case token.NOT:
		return p.parseFearFromLonely(true)
	case token.IDENT:
		return p.parseSubjectLedStatement()
	default:
		p.addErrorf(p.curToken.Line, p.curToken.Column, "expected a statement, got %q", p.curToken.Literal)
		return nil
	}
}

// parseSubjectLedStatement parses any statement that begins with an explicit
// subject identifier: a RuleStatement ("is"/"has"), a "facing"-conditioned
// fear, or an unconditional fear.
func (p *Parser) parseSubjectLedStatement() ast.Statement {
	subjTok := p.curToken
	subject := &ast.Identifier{Token: subjTok, Value: subjTok.Literal}
	p.nextToken()

	switch p.curToken.Type {
	case token.FACING:
		condTok := p.curToken
		p.nextToken()
		term, ok := p.parseTerm()
		if !ok {
			return nil
		}
		target := p.parseTargetIdentifierAfterFear()
		if target == nil {
			return nil
		}
		return &ast.FearStatement{
			Token:     subjTok,
			Subject:   subject,
			Condition: &ast.Condition{Token: condTok, Term: term},
			Target:    target,
		}

	case token.FEAR:
		target := p.parseTargetIdentifierAfterFear()
		if target == nil {
			return nil
		}
		return &ast.FearStatement{Token: subjTok, Subject: subject, Target: target}

	case token.IS, token.HAS:
		verbTok := p.curToken
		p.nextToken()
		targets, ok := p.parseTargets()
		if !ok {
			return nil
		}
		if p.curToken.Type != token.EOL && p.curToken.Type != token.EOF {
			p.addErrorf(p.curToken.Line, p.curToken.Column, "unexpected token %q after statement", p.curToken.Literal)
			return nil
		}
		return &ast.RuleStatement{Token: subjTok, Subject: subject, Verb: verbTok, Targets: targets}

	default:
		p.addErrorf(p.curToken.Line, p.curToken.Column, "expected a verb (is/has/fear) or condition, got %q", p.curToken.Literal)
		return nil
	}
}

// parseFearFromLonely parses "[not] lonely Term fear Target", where Term's
// identifier doubles as the statement's Subject.
func (p *Parser) parseFearFromLonely(negated bool) ast.Statement {
	leadTok := p.curToken
	if negated {
		p.nextToken()
		if p.curToken.Type != token.LONELY {
			p.addErrorf(p.curToken.Line, p.curToken.Column, "expected 'lonely' after 'not', got %q", p.curToken.Literal)
			return nil
		}
	}
	condTok := p.curToken
	p.nextToken()

	term, ok := p.parseTerm()
	if !ok {
		return nil
	}
	subject := &ast.Identifier{Token: term.Atom.Token, Value: term.Atom.Name}

	target := p.parseTargetIdentifierAfterFear()
	if target == nil {
		return nil
	}

	return &ast.FearStatement{
		Token:     leadTok,
		Subject:   subject,
		Condition: &ast.Condition{Token: condTok, Negated: negated, Term: term},
		Target:    target,
	}
}

// parseTargetIdentifierAfterFear expects the current token to be FEAR,
// consumes it, and returns the following identifier (the target block name).
func (p *Parser) parseTargetIdentifierAfterFear() *ast.Identifier {
	if p.curToken.Type != token.FEAR {
		p.addErrorf(p.curToken.Line, p.curToken.Column, "expected 'fear', got %q", p.curToken.Literal)
		return nil
	}
	p.nextToken()

	if p.curToken.Type != token.IDENT {
		p.addErrorf(p.curToken.Line, p.curToken.Column, "expected a block name after 'fear', got %q", p.curToken.Literal)
		return nil
	}
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()

	if p.curToken.Type != token.EOL && p.curToken.Type != token.EOF {
		p.addErrorf(p.curToken.Line, p.curToken.Column, "unexpected token %q after fear target", p.curToken.Literal)
		return nil
	}
	return ident
}

// parseTargets parses "Term (and Term)*".
func (p *Parser) parseTargets() ([]*ast.Term, bool) {
	var terms []*ast.Term

	term, ok := p.parseTerm()
	if !ok {
		return nil, false
	}
	terms = append(terms, term)

	for p.curToken.Type == token.AND {
		p.nextToken()
		term, ok := p.parseTerm()
		if !ok {
			return nil, false
		}
		terms = append(terms, term)
	}

	return terms, true
}

// parseTerm parses "[not] Atom".
func (p *Parser) parseTerm() (*ast.Term, bool) {
	startTok := p.curToken
	negated := false
	if p.curToken.Type == token.NOT {
		negated = true
		p.nextToken()
	}

	atom, ok := p.parseAtom()
	if !ok {
		return nil, false
	}
	return &ast.Term{Token: startTok, Negated: negated, Atom: atom}, true
}

// parseAtom parses "Identifier | literal-word".
func (p *Parser) parseAtom() (*ast.Atom, bool) {
	tok := p.curToken
	if tok.Type == token.IDENT || token.IsLiteral(tok.Type) {
		p.nextToken()
		return &ast.Atom{Token: tok, Name: tok.Literal}, true
	}
	p.addErrorf(tok.Line, tok.Column, "expected an identifier or literal word, got %q", tok.Literal)
	return nil, false
}

// Package pyparser is a recursive-descent/precedence-climbing parser that
// turns a pylexer token stream into a pyast.File.
package pyparser

import (
	"fmt"

	"github.com/depyler-dev/depyler/internal/pyast"
	"github.com/depyler-dev/depyler/internal/pylexer"
)

// SyntaxError is a single parse failure with source position.
type SyntaxError struct {
	Pos pyast.Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parser consumes a pylexer.Lexer's token stream and builds a pyast.File.
// It does not stop at the first error: it records each SyntaxError and
// resynchronizes at the next NEWLINE so callers can report several
// diagnostics from a single pass.
type Parser struct {
	lex      *pylexer.Lexer
	filename string

	cur  pylexer.Token
	peek pylexer.Token

	errors []*SyntaxError
}

// New constructs a Parser reading from lex.
func New(lex *pylexer.Lexer, filename string) *Parser {
	p := &Parser{lex: lex, filename: filename}
	p.advance()
	p.advance()
	return p
}

// Errors returns every SyntaxError recorded during ParseFile.
func (p *Parser) Errors() []*SyntaxError { return p.errors }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) pos() pyast.Pos {
	return pyast.Pos{File: p.filename, Line: p.cur.Line, Column: p.cur.Column, Offset: p.cur.Offset}
}

func (p *Parser) at(t pylexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekAt(t pylexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, &SyntaxError{Pos: p.pos(), Msg: fmt.Sprintf(format, args...)})
}

// expect checks the current token, consumes it, and reports an error
// (without panicking) if it did not match.
func (p *Parser) expect(t pylexer.TokenType) pylexer.Token {
	tok := p.cur
	if p.cur.Type != t {
		p.errorf("expected %v, got %v %q", t, p.cur.Type, p.cur.Literal)
		return tok
	}
	p.advance()
	return tok
}

// skipNewlines consumes zero or more stray NEWLINE tokens, used at module
// and suite boundaries where blank lines are legal.
func (p *Parser) skipNewlines() {
	for p.at(pylexer.NEWLINE) {
		p.advance()
	}
}

// resync advances past tokens until the next NEWLINE/DEDENT/EOF, used to
// recover after a SyntaxError so parsing can continue.
func (p *Parser) resync() {
	for !p.at(pylexer.NEWLINE) && !p.at(pylexer.DEDENT) && !p.at(pylexer.EOF) {
		p.advance()
	}
	if p.at(pylexer.NEWLINE) {
		p.advance()
	}
}

// ParseFile parses an entire module.
func (p *Parser) ParseFile(moduleName string) *pyast.File {
	start := p.pos()
	f := &pyast.File{Name: moduleName, Pos: start}
	p.skipNewlines()
	for !p.at(pylexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			f.Body = append(f.Body, stmt)
		}
		p.skipNewlines()
	}
	return f
}

// Parse is a convenience entry point: normalize, lex, and parse src in one
// call, returning both the file and any syntax errors.
func Parse(src []byte, filename string) (*pyast.File, []*SyntaxError) {
	norm := pylexer.Normalize(src)
	lex := pylexer.New(string(norm), filename)
	p := New(lex, filename)
	f := p.ParseFile(filename)
	return f, p.Errors()
}

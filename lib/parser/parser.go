package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/rex/lib/analyzer"
	"github.com/vyPal/rex/lib/ast"
	"github.com/vyPal/rex/lib/diag"
	rexlex "github.com/vyPal/rex/lib/lexer"
)

type Config struct {
	// Filename is attached to error positions.
	Filename string
	// Builtins seed the global namespace. Nil selects analyzer.DefaultBuiltins.
	Builtins []analyzer.Builtin
	// Optimize enables constant folding and removal of unused bindings.
	Optimize bool
}

func DefaultConfig() Config {
	return Config{Builtins: analyzer.DefaultBuiltins, Optimize: true}
}

// Parser turns a token stream into a checked, optimized syntax tree. It
// reads one token ahead and is reset by Setup, so one Parser can be reused
// for many programs but not concurrently.
type Parser struct {
	cfg   Config
	lex   *rexlex.Lexer
	tok   rexlex.Token
	syms  *analyzer.Table
	depth int
}

func New(cfg Config) *Parser {
	if cfg.Builtins == nil {
		cfg.Builtins = analyzer.DefaultBuiltins
	}
	return &Parser{cfg: cfg, lex: rexlex.New()}
}

// Parse is a shorthand for New, Setup and Parse.
func Parse(src string, cfg Config) (*ast.Program, error) {
	p := New(cfg)
	if err := p.Setup(src); err != nil {
		return nil, err
	}
	return p.Parse()
}

// Setup prepares the parser for src and reads the first token.
func (p *Parser) Setup(src string) error {
	p.lex.SetFilename(p.cfg.Filename)
	p.lex.Setup(src)
	p.syms = analyzer.New(p.cfg.Builtins)
	p.syms.SetPositionSource(func() lexer.Position { return p.tok.Pos })
	p.depth = 0
	return p.next()
}

func (p *Parser) Parse() (*ast.Program, error) {
	if p.syms == nil {
		return nil, errors.New("parser: Parse called before Setup")
	}
	if p.at(rexlex.EOF) {
		return nil, p.syntaxErrorf("empty program")
	}

	var stmts []ast.Node
	for !p.at(rexlex.EOF) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		// A top-level return ends the program; its value has nowhere to go.
		if ret, ok := stmt.(*ast.Return); ok {
			if ret.Value != nil {
				ast.ReleaseRefs(ret.Value)
				ret.Value = nil
			}
			break
		}
		if err := p.terminate(rexlex.EOF); err != nil {
			return nil, err
		}
	}

	return &ast.Program{Statements: p.optimize(stmts)}, nil
}

func (p *Parser) next() error {
	if _, err := p.lex.NextToken(); err != nil {
		return err
	}
	p.tok = p.lex.Token()
	return nil
}

func (p *Parser) at(syms ...rexlex.Symbol) bool {
	for _, s := range syms {
		if p.tok.Symbol == s {
			return true
		}
	}
	return false
}

func (p *Parser) syntaxErrorf(format string, args ...any) error {
	return diag.Errorf(diag.Syntax, p.tok.Pos, format, args...)
}

func (p *Parser) semanticErrorf(format string, args ...any) error {
	return diag.Errorf(diag.Semantic, p.tok.Pos, format, args...)
}

func (p *Parser) require(syms ...rexlex.Symbol) error {
	if p.at(syms...) {
		return nil
	}
	return p.syntaxErrorf("expected %s, got %s", describe(syms), tokenText(p.tok))
}

// expect requires one of syms and moves past it.
func (p *Parser) expect(syms ...rexlex.Symbol) error {
	if err := p.require(syms...); err != nil {
		return err
	}
	return p.next()
}

// terminate consumes the end of a statement. A trailing comment is left in
// place and becomes the next statement.
func (p *Parser) terminate(extra ...rexlex.Symbol) error {
	switch {
	case p.at(rexlex.COMMENT):
		return nil
	case p.at(rexlex.NEWLINE, rexlex.SEMICOLON):
		return p.next()
	case p.at(extra...):
		return nil
	}
	return p.syntaxErrorf("expected end of statement, got %s", tokenText(p.tok))
}

func describe(syms []rexlex.Symbol) string {
	if len(syms) == 1 {
		return syms[0].String()
	}
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.String()
	}
	return "one of " + strings.Join(names, ", ")
}

func tokenText(t rexlex.Token) string {
	if t.Value != "" {
		return fmt.Sprintf("%s %q", t.Symbol, t.Value)
	}
	return t.Symbol.String()
}

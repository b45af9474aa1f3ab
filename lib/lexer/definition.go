package rexlex

import (
	"io"

	"github.com/alecthomas/participle/v2/lexer"
)

// Definition exposes the lexer to participle-based tooling.
var Definition lexer.Definition = &definition{}

type definition struct{}

func (d *definition) Symbols() map[string]lexer.TokenType {
	symbols := map[string]lexer.TokenType{"EOF": lexer.EOF}
	for s := NEWLINE; s < symbolCount; s++ {
		symbols[s.String()] = lexer.TokenType(s)
	}
	return symbols
}

func (d *definition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	l := New()
	l.SetFilename(filename)
	l.Setup(string(src))
	return &stream{lex: l}, nil
}

// stream adapts Lexer to participle's pull interface.
type stream struct {
	lex *Lexer
}

func (s *stream) Next() (lexer.Token, error) {
	more, err := s.lex.NextToken()
	if err != nil {
		return lexer.Token{}, err
	}
	tok := s.lex.Token()
	if !more {
		return lexer.Token{Type: lexer.EOF, Pos: tok.Pos}, nil
	}
	return lexer.Token{Type: lexer.TokenType(tok.Symbol), Value: tok.Value, Pos: tok.Pos}, nil
}

// SymbolOf maps a participle token type produced by Definition back to a Symbol.
func SymbolOf(t lexer.TokenType) Symbol {
	if t == lexer.EOF {
		return EOF
	}
	return Symbol(t)
}

// Tokenize lexes src completely, including the trailing EOF token.
func Tokenize(filename, src string) ([]Token, error) {
	l := New()
	l.SetFilename(filename)
	l.Setup(src)

	var tokens []Token
	for {
		more, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, l.Token())
		if !more {
			return tokens, nil
		}
	}
}

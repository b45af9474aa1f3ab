// Package translator ties the lexer, parser and code generator together
// behind a source-in, R-out interface.
package translator

import (
	"fmt"
	"os"

	"github.com/vyPal/rex/lib/ast"
	rexlex "github.com/vyPal/rex/lib/lexer"
	"github.com/vyPal/rex/lib/parser"
)

type Translator struct {
	cfg    parser.Config
	parser *parser.Parser
}

func New(cfg parser.Config) *Translator {
	return &Translator{cfg: cfg, parser: parser.New(cfg)}
}

// Config returns the parser configuration the translator was built with.
func (t *Translator) Config() parser.Config {
	return t.cfg
}

// Tokens lexes src completely. The trailing EOF token is included.
func (t *Translator) Tokens(src string) ([]rexlex.Token, error) {
	return rexlex.Tokenize(t.cfg.Filename, src)
}

func (t *Translator) Parse(src string) (*ast.Program, error) {
	if err := t.parser.Setup(src); err != nil {
		return nil, err
	}
	return t.parser.Parse()
}

// Translate returns the R program equivalent to src.
func (t *Translator) Translate(src string) (string, error) {
	prog, err := t.Parse(src)
	if err != nil {
		return "", err
	}
	return prog.Generate(0), nil
}

// Dump returns the debug tree of the parsed and optimized program.
func (t *Translator) Dump(src string) (string, error) {
	prog, err := t.Parse(src)
	if err != nil {
		return "", err
	}
	return ast.Dump(prog), nil
}

// TranslateFile reads and translates the script at path. Errors are
// reported against path.
func TranslateFile(path string, cfg parser.Config) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg.Filename = path
	return New(cfg).Translate(string(src))
}

package translator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vyPal/rex/lib/diag"
	rexlex "github.com/vyPal/rex/lib/lexer"
	"github.com/vyPal/rex/lib/parser"
)

func TestTranslate(t *testing.T) {
	tr := New(parser.DefaultConfig())
	out, err := tr.Translate("a = 10\nb = 20\nputs(a + b)")
	be.Err(t, err, nil)
	be.Equal(t, out, "a <- 10\nb <- 20\nprint(a + b)\n")

	// The same translator can be used again.
	out, err = tr.Translate("puts(\"hi\")")
	be.Err(t, err, nil)
	be.Equal(t, out, "print(\"hi\")\n")
}

func TestTokens(t *testing.T) {
	tr := New(parser.DefaultConfig())
	tokens, err := tr.Tokens("x = 1")
	be.Err(t, err, nil)

	var got []string
	for _, tok := range tokens {
		got = append(got, tok.String())
	}
	be.Equal(t, got, []string{"ID:x:1:1", "EQUALS:1:3", "INTEGER:1:1:5", "EOF:1:6"})
	be.Equal(t, tokens[len(tokens)-1].Symbol, rexlex.EOF)
}

func TestDump(t *testing.T) {
	tr := New(parser.DefaultConfig())
	out, err := tr.Dump("puts(1)")
	be.Err(t, err, nil)
	want := "Program\n" +
		"|+-Statements:\n" +
		"|\t|+-Call\n" +
		"|\t|\t|+-Name: puts\n" +
		"|\t|\t|+-Args:\n" +
		"|\t|\t|\t|+-Integer\n" +
		"|\t|\t|\t|\t|+-Value: 1\n" +
		"|\t|\t|+-Template: print(%s)\n" +
		"|\t|\t|+-Returns: Any\n" +
		"|\t|\t|+-Logical: false\n"
	be.Equal(t, out, want)
}

func TestErrors(t *testing.T) {
	tr := New(parser.Config{Filename: "main.rb", Optimize: true})

	_, err := tr.Translate("x = 1 @ 2")
	be.True(t, diag.IsKind(err, diag.Lexical))

	_, err = tr.Translate("x = (1")
	be.True(t, diag.IsKind(err, diag.Syntax))

	_, err = tr.Translate("x = y")
	be.True(t, diag.IsKind(err, diag.Semantic))
	be.Equal(t, err.Error(), "main.rb:1:5: semantic error: variable y is not declared")
}

func TestTranslateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rb")
	be.Err(t, os.WriteFile(path, []byte("x = 2\nputs(x ** 3)\n"), 0o644), nil)

	out, err := TranslateFile(path, parser.DefaultConfig())
	be.Err(t, err, nil)
	be.Equal(t, out, "x <- 2\nprint(x ^ 3)\n")

	_, err = TranslateFile(filepath.Join(dir, "missing.rb"), parser.DefaultConfig())
	be.Err(t, err, "failed to read")

	be.Err(t, os.WriteFile(path, []byte("puts(y)\n"), 0o644), nil)
	_, err = TranslateFile(path, parser.DefaultConfig())
	be.True(t, strings.HasPrefix(err.Error(), path+":1:6: "))
}

package casebook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vyPal/rex/lib/diag"
	rexlex "github.com/vyPal/rex/lib/lexer"
)

// Translator is what a case is checked against; *translator.Translator
// satisfies it.
type Translator interface {
	Tokens(src string) ([]rexlex.Token, error)
	Translate(src string) (string, error)
	Dump(src string) (string, error)
}

type Failure struct {
	Expectation Expectation
	Got         string
}

func (f Failure) String() string {
	return fmt.Sprintf("line %d: %s mismatch\n--- want\n%s\n--- got\n%s",
		f.Expectation.Line, f.Expectation.Fence, f.Expectation.Content, f.Got)
}

type Result struct {
	Case     Case
	Failures []Failure
}

func (r Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run checks every expectation of c.
func Run(tr Translator, c Case) Result {
	res := Result{Case: c}
	for _, exp := range c.Expect {
		if got, ok := check(tr, c.Source, exp); !ok {
			res.Failures = append(res.Failures, Failure{Expectation: exp, Got: got})
		}
	}
	return res
}

func RunAll(tr Translator, cases []Case) []Result {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		results = append(results, Run(tr, c))
	}
	return results
}

func check(tr Translator, src string, exp Expectation) (string, bool) {
	switch exp.Fence {
	case FenceOutput:
		out, err := tr.Translate(src)
		if err != nil {
			return err.Error(), false
		}
		return out, out == exp.Content

	case FenceAST:
		out, err := tr.Dump(src)
		if err != nil {
			return err.Error(), false
		}
		out = strings.TrimRight(out, "\n")
		return out, out == exp.Content

	case FenceTokens:
		tokens, err := tr.Tokens(src)
		if err != nil {
			return err.Error(), false
		}
		lines := make([]string, len(tokens))
		for i, tok := range tokens {
			lines[i] = tok.String()
		}
		out := strings.Join(lines, "\n")
		return out, out == exp.Content

	case FenceError:
		_, err := tr.Translate(src)
		if err == nil {
			return "no error", false
		}
		kind, msg := splitKind(exp.Content)
		if kind != "" {
			var e *diag.Error
			if !errors.As(err, &e) || e.Kind.String() != kind {
				return err.Error(), false
			}
		}
		return err.Error(), strings.Contains(err.Error(), msg)
	}
	return "", false
}

// splitKind separates an optional "lexical:", "syntax:" or "semantic:"
// prefix from the expected message.
func splitKind(content string) (string, string) {
	for _, k := range []diag.Kind{diag.Lexical, diag.Syntax, diag.Semantic} {
		prefix := k.String() + ":"
		if strings.HasPrefix(content, prefix) {
			return k.String(), strings.TrimSpace(strings.TrimPrefix(content, prefix))
		}
	}
	return "", content
}

package casebook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
	"github.com/vyPal/rex/lib/parser"
	"github.com/vyPal/rex/lib/translator"
)

func TestExtract(t *testing.T) {
	markdown := `# Assignments

Some prose that is ignored.

## Test: folding
` + "```ruby" + `
a = 1 + 2
puts(a)
` + "```" + `
` + "```r" + `
a <- 3
print(a)
` + "```" + `

## Test: undeclared
` + "```ruby" + `
puts(b)
` + "```" + `
` + "```error" + `
semantic: variable b is not declared
` + "```"

	cases, err := Extract(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	c := cases[0]
	be.Equal(t, c.Name, "folding")
	be.Equal(t, c.Source, "a = 1 + 2\nputs(a)\n")
	be.Equal(t, len(c.Expect), 1)
	be.Equal(t, c.Expect[0].Fence, FenceOutput)
	be.Equal(t, c.Expect[0].Content, "a <- 3\nprint(a)\n")
	be.Equal(t, c.Expect[0].Line, 11)

	c = cases[1]
	be.Equal(t, c.Name, "undeclared")
	be.Equal(t, c.Expect[0].Fence, FenceError)
	be.Equal(t, c.Expect[0].Content, "semantic: variable b is not declared")
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		msg      string
	}{
		{
			"fence outside test",
			"```ruby\nputs(1)\n```\n",
			"ruby fence found outside of a test",
		},
		{
			"unknown fence",
			"## Test: x\n```python\nprint(1)\n```\n",
			"unknown fence language 'python'",
		},
		{
			"no source",
			"## Test: x\n```r\nprint(1)\n```\n",
			"test 'x' has no ruby fence",
		},
		{
			"no expectation",
			"## Test: x\n```ruby\nputs(1)\n```\n",
			"test 'x' has no expectation fences",
		},
		{
			"two sources",
			"## Test: x\n```ruby\nputs(1)\n```\n```ruby\nputs(2)\n```\n",
			"multiple ruby fences in test 'x'",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Extract(test.markdown)
			be.Err(t, err, test.msg)
		})
	}
}

func TestPlainFencesAreIgnored(t *testing.T) {
	cases, err := Extract("```\nnot a case\n```\n")
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 0)
}

func TestRun(t *testing.T) {
	markdown := `## Test: passes
` + "```ruby" + `
x = 2 ** 3
puts(x)
` + "```" + `
` + "```r" + `
x <- 8
print(x)
` + "```" + `
` + "```tokens" + `
ID:x:1:1
EQUALS:1:3
INTEGER:2:1:5
DEGREE:1:7
INTEGER:3:1:10
NEWLINE:1:11
ID:puts:2:1
LPAR:2:5
ID:x:2:6
RPAR:2:7
NEWLINE:2:8
EOF:3:1
` + "```" + `

## Test: fails
` + "```ruby" + `
puts(1)
` + "```" + `
` + "```r" + `
print(2)
` + "```" + `
` + "```error" + `
syntax: anything
` + "```"

	cases, err := Extract(markdown)
	be.Err(t, err, nil)

	results := RunAll(translator.New(parser.DefaultConfig()), cases)
	be.Equal(t, len(results), 2)
	be.True(t, results[0].Passed())

	be.True(t, !results[1].Passed())
	be.Equal(t, len(results[1].Failures), 2)
	be.Equal(t, results[1].Failures[0].Got, "print(1)\n")
	be.Equal(t, results[1].Failures[1].Got, "no error")
}

func TestRunErrorKinds(t *testing.T) {
	tr := translator.New(parser.DefaultConfig())
	c := Case{Name: "kind", Source: "x = (1", Expect: []Expectation{
		{Fence: FenceError, Content: "syntax: missing closing parenthesis"},
		{Fence: FenceError, Content: "missing closing"},
		{Fence: FenceError, Content: "semantic: missing closing parenthesis"},
	}}

	res := Run(tr, c)
	be.Equal(t, len(res.Failures), 1)
	be.Equal(t, res.Failures[0].Expectation.Content, "semantic: missing closing parenthesis")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.md")
	err := os.WriteFile(path, []byte("## Test: one\n```ruby\nputs(1)\n```\n```r\nprint(1)\n```\n"), 0o644)
	be.Err(t, err, nil)

	cases, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, cases[0].Line, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.md"))
	be.Err(t, err, "failed to read casebook")
}

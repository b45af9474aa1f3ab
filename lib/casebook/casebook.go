// Package casebook reads translation cases from Markdown documents.
//
// A case starts at a heading "Test: <name>" and is followed by a ```ruby
// fence holding the script and one or more expectation fences:
//
//	```r       the exact translation
//	```ast     the exact debug tree
//	```tokens  the token stream, one token per line
//	```error   "<kind>: <text>" or just "<text>", matched as a substring
package casebook

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type Fence string

const (
	FenceSource Fence = "ruby"
	FenceOutput Fence = "r"
	FenceAST    Fence = "ast"
	FenceTokens Fence = "tokens"
	FenceError  Fence = "error"
)

func (f Fence) expectation() bool {
	switch f {
	case FenceOutput, FenceAST, FenceTokens, FenceError:
		return true
	}
	return false
}

type Expectation struct {
	Fence   Fence
	Content string
	Line    int
}

type Case struct {
	Name   string
	Source string
	Line   int
	Expect []Expectation
}

// Extract returns the cases of a Markdown document in document order.
func Extract(markdown string) ([]Case, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var cur *Case
	finish := func() error {
		if cur == nil {
			return nil
		}
		if cur.Source == "" {
			return fmt.Errorf("test '%s' has no ruby fence", cur.Name)
		}
		if len(cur.Expect) == 0 {
			return fmt.Errorf("test '%s' has no expectation fences", cur.Name)
		}
		cases = append(cases, *cur)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			title := headingText(n, source)
			if !strings.HasPrefix(title, "Test: ") {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{Name: strings.TrimPrefix(title, "Test: "), Line: lineOf(n, source)}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			fence := Fence(n.Language(source))
			line := lineOf(n, source)
			if fence == "" {
				return ast.WalkContinue, nil
			}
			if fence != FenceSource && !fence.expectation() {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s'", line, fence)
			}
			if cur == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of a test", line, fence)
			}

			content := fenceContent(n, source)
			if fence == FenceSource {
				if cur.Source != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple ruby fences in test '%s'", line, cur.Name)
				}
				cur.Source = content
				return ast.WalkContinue, nil
			}
			if fence != FenceOutput {
				content = strings.TrimRight(content, "\n")
			}
			cur.Expect = append(cur.Expect, Expectation{Fence: fence, Content: content, Line: line})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

// Load reads and extracts the cases of the Markdown file at path.
func Load(path string) ([]Case, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read casebook: %w", err)
	}
	cases, err := Extract(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

func headingText(h *ast.Heading, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 0
	}
	return bytes.Count(source[:node.Lines().At(0).Start], []byte("\n")) + 1
}

package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks questions on out and reads the answers from in, one line
// per answer.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

var stdio = NewPrompter(os.Stdin, os.Stdout)

// answer reads one line. A closed input counts as an empty answer.
func (p *Prompter) answer() string {
	response, err := p.in.ReadString('\n')
	if err != nil && response == "" {
		return ""
	}
	return strings.TrimSpace(response)
}

func (p *Prompter) String(prompt string, def string) string {
	fmt.Fprintf(p.out, "%s (%s): ", prompt, def)
	if response := p.answer(); response != "" {
		return response
	}
	return def
}

func (p *Prompter) YN(prompt string, def bool) bool {
	if def {
		fmt.Fprintf(p.out, "%s (Y/n): ", prompt)
	} else {
		fmt.Fprintf(p.out, "%s (y/N): ", prompt)
	}

	switch strings.ToLower(p.answer()) {
	case "":
		return def
	case "y", "yes":
		return true
	}
	return false
}

func PromptString(prompt string, def string) string {
	return stdio.String(prompt, def)
}

func PromptYN(prompt string, def bool) bool {
	return stdio.YN(prompt, def)
}

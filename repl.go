package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/rex/lib/diag"
	"github.com/vyPal/rex/lib/parser"
	"github.com/vyPal/rex/lib/translator"
)

const (
	historyFile = ".rex_history"
	promptMain  = "rex> "
	promptCont  = "...  "
)

func init() {
	commands = append(commands, &cli.Command{
		Name:     "repl",
		Usage:    "Translate statements interactively",
		Category: "translate",
		Description: "Every accepted statement stays in the session, so later input can use" +
			"\nthe variables and functions it declared. Type :reset to clear the session" +
			"\nand :quit to exit.",
		Action: repl,
	})
}

// session accumulates the accepted source and the R code generated for it.
type session struct {
	tr  *translator.Translator
	src strings.Builder
	out string
}

func newSession() *session {
	cfg := parser.DefaultConfig()
	cfg.Filename = "<repl>"
	// Bindings only used by later input must survive.
	cfg.Optimize = false
	return &session{tr: translator.New(cfg)}
}

// feed translates code in the context of the session and returns the R code
// generated for it. Rejected code leaves the session unchanged.
func (s *session) feed(code string) (string, error) {
	src := s.src.String() + code + "\n"
	out, err := s.tr.Translate(src)
	if err != nil {
		return "", err
	}
	s.src.WriteString(code + "\n")

	fresh := out
	if strings.HasPrefix(out, s.out) {
		fresh = out[len(s.out):]
	}
	s.out = out
	return fresh, nil
}

func (s *session) reset() {
	s.src.Reset()
	s.out = ""
}

// incomplete reports whether err only says that more input is needed.
func incomplete(err error) bool {
	var de *diag.Error
	if !errors.As(err, &de) || de.Kind != diag.Syntax {
		return false
	}
	return strings.Contains(de.Msg, "end of input") || strings.HasSuffix(de.Msg, "got EOF")
}

func repl(c *cli.Context) error {
	fmt.Printf("rex %s. Type :quit to exit.\n", c.App.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	s := newSession()
	for {
		code, ok := readStatement(ln, s)
		if !ok {
			fmt.Println()
			return nil
		}

		trimmed := strings.TrimSpace(code)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, ":"):
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return nil
			case ":reset":
				s.reset()
				fmt.Println("Session cleared.")
			case ":session":
				fmt.Print(s.src.String())
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		out, err := s.feed(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("%s", err))
			continue
		}
		fmt.Print(color.CyanString("%s", out))
	}
}

// readStatement reads lines until they form a complete statement, judged by
// translating them against the session.
func readStatement(ln *liner.State, s *session) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		code := b.String()
		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			return code, true
		}
		_, err = s.tr.Translate(s.src.String() + code + "\n")
		if err != nil && incomplete(err) {
			continue
		}
		return code, true
	}
}

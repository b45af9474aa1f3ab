package diag

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Kind classifies a translation failure.
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Semantic
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a positioned translation error. Every failure produced by the
// lexer, the symbol table and the parser is an *Error.
type Error struct {
	Kind Kind
	Pos  lexer.Position
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s error: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s error (%d, %d): %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Msg)
}

func Errorf(kind Kind, pos lexer.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

package rexlex

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Symbol identifies the category of a lexed token.
type Symbol int

const (
	EOF Symbol = iota
	NEWLINE

	// Literals
	ID
	INTEGER
	FLOAT
	STR
	COMMENT

	// Punctuation
	DOT
	DOUBLE_DOT
	COMMA
	SEMICOLON

	// Brackets
	LPAR
	RPAR
	LBR
	RBR
	LFBR
	RFBR
	VBR

	// Keywords
	FUNCTION
	RETURN
	END
	WHILE
	DO
	FOR
	UNTIL
	NEXT
	BREAK
	IF
	ELSIF
	ELSE
	THEN
	IN
	CASE
	WHEN
	OR
	AND
	NOT

	// Reserved values
	TRUE
	FALSE
	NIL

	// Operators
	EQUALS
	NOT_EQUALS
	LESS
	GREATER
	LESS_EQUAL
	GREATER_EQUAL
	PLUS
	MINUS
	ASTERISK
	SLASH
	MOD
	DEGREE
	DOUBLE_EQUALS
	PLUS_EQUALS
	MINUS_EQUALS
	ASTERISK_EQUALS
	SLASH_EQUALS
	MOD_EQUALS
	DEGREE_EQUALS

	symbolCount
)

var symbolNames = [symbolCount]string{
	EOF:             "EOF",
	NEWLINE:         "NEWLINE",
	ID:              "ID",
	INTEGER:         "INTEGER",
	FLOAT:           "FLOAT",
	STR:             "STR",
	COMMENT:         "COMMENT",
	DOT:             "DOT",
	DOUBLE_DOT:      "DOUBLE_DOT",
	COMMA:           "COMMA",
	SEMICOLON:       "SEMICOLON",
	LPAR:            "LPAR",
	RPAR:            "RPAR",
	LBR:             "LBR",
	RBR:             "RBR",
	LFBR:            "LFBR",
	RFBR:            "RFBR",
	VBR:             "VBR",
	FUNCTION:        "FUNCTION",
	RETURN:          "RETURN",
	END:             "END",
	WHILE:           "WHILE",
	DO:              "DO",
	FOR:             "FOR",
	UNTIL:           "UNTIL",
	NEXT:            "NEXT",
	BREAK:           "BREAK",
	IF:              "IF",
	ELSIF:           "ELSIF",
	ELSE:            "ELSE",
	THEN:            "THEN",
	IN:              "IN",
	CASE:            "CASE",
	WHEN:            "WHEN",
	OR:              "OR",
	AND:             "AND",
	NOT:             "NOT",
	TRUE:            "TRUE",
	FALSE:           "FALSE",
	NIL:             "NIL",
	EQUALS:          "EQUALS",
	NOT_EQUALS:      "NOT_EQUALS",
	LESS:            "LESS",
	GREATER:         "GREATER",
	LESS_EQUAL:      "LESS_EQUAL",
	GREATER_EQUAL:   "GREATER_EQUAL",
	PLUS:            "PLUS",
	MINUS:           "MINUS",
	ASTERISK:        "ASTERISK",
	SLASH:           "SLASH",
	MOD:             "MOD",
	DEGREE:          "DEGREE",
	DOUBLE_EQUALS:   "DOUBLE_EQUALS",
	PLUS_EQUALS:     "PLUS_EQUALS",
	MINUS_EQUALS:    "MINUS_EQUALS",
	ASTERISK_EQUALS: "ASTERISK_EQUALS",
	SLASH_EQUALS:    "SLASH_EQUALS",
	MOD_EQUALS:      "MOD_EQUALS",
	DEGREE_EQUALS:   "DEGREE_EQUALS",
}

func (s Symbol) String() string {
	if s >= 0 && s < symbolCount {
		return symbolNames[s]
	}
	return fmt.Sprintf("Symbol(%d)", int(s))
}

var operators = map[string]Symbol{
	"=":   EQUALS,
	"<":   LESS,
	">":   GREATER,
	"<=":  LESS_EQUAL,
	">=":  GREATER_EQUAL,
	"==":  DOUBLE_EQUALS,
	"!=":  NOT_EQUALS,
	"+":   PLUS,
	"-":   MINUS,
	"*":   ASTERISK,
	"/":   SLASH,
	"%":   MOD,
	"**":  DEGREE,
	"+=":  PLUS_EQUALS,
	"-=":  MINUS_EQUALS,
	"*=":  ASTERISK_EQUALS,
	"/=":  SLASH_EQUALS,
	"%=":  MOD_EQUALS,
	"**=": DEGREE_EQUALS,
	"..":  DOUBLE_DOT,
	",":   COMMA,
	";":   SEMICOLON,
}

var brackets = map[rune]Symbol{
	'(': LPAR,
	')': RPAR,
	'[': LBR,
	']': RBR,
	'{': LFBR,
	'}': RFBR,
	'|': VBR,
}

var keywords = map[string]Symbol{
	"def":    FUNCTION,
	"return": RETURN,
	"end":    END,
	"while":  WHILE,
	"do":     DO,
	"for":    FOR,
	"until":  UNTIL,
	"next":   NEXT,
	"break":  BREAK,
	"if":     IF,
	"elsif":  ELSIF,
	"else":   ELSE,
	"then":   THEN,
	"in":     IN,
	"case":   CASE,
	"when":   WHEN,
	"or":     OR,
	"and":    AND,
	"not":    NOT,
	"true":   TRUE,
	"false":  FALSE,
	"nil":    NIL,
}

// Token is a single lexeme. Value is empty for symbols that carry no text.
type Token struct {
	Symbol Symbol
	Value  string
	Pos    lexer.Position
}

// At builds a position for tests and synthetic tokens.
func At(line, column int) lexer.Position {
	return lexer.Position{Line: line, Column: column}
}

func (t Token) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s:%s:%d:%d", t.Symbol, t.Value, t.Pos.Line, t.Pos.Column)
	}
	return fmt.Sprintf("%s:%d:%d", t.Symbol, t.Pos.Line, t.Pos.Column)
}

// Equal compares symbol, value and line/column, ignoring filename and offset.
func (t Token) Equal(o Token) bool {
	return t.Symbol == o.Symbol && t.Value == o.Value &&
		t.Pos.Line == o.Pos.Line && t.Pos.Column == o.Pos.Column
}

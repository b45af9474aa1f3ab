package rexlex

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/rex/lib/diag"
)

var (
	numPattern = regexp.MustCompile(`^(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?$`)
	idPattern  = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*\??$`)
)

// Characters that may directly follow a number literal.
const numberFollowers = "=<>!+-*/%.,;()[]{}|#"

// Lexer turns source text into tokens one at a time. The most recently
// produced token is available through Token.
type Lexer struct {
	src      []rune
	pos      int
	offset   int
	line     int
	col      int
	filename string
	token    Token
}

func New() *Lexer {
	l := &Lexer{}
	l.Setup("")
	return l
}

// Setup resets the lexer to the beginning of src.
func (l *Lexer) Setup(src string) {
	l.src = []rune(src)
	l.pos = 0
	l.offset = 0
	l.line = 1
	l.col = 0
	l.token = Token{}
}

// SetFilename attaches a filename to every subsequent token position.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Token returns the token produced by the last call to NextToken.
func (l *Lexer) Token() Token {
	return l.token
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *Lexer) advance() {
	r := l.src[l.pos]
	l.pos++
	l.offset += utf8.RuneLen(r)
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) position() lexer.Position {
	return lexer.Position{Filename: l.filename, Offset: l.offset, Line: l.line, Column: l.col + 1}
}

func (l *Lexer) errorf(pos lexer.Position, format string, args ...any) error {
	return diag.Errorf(diag.Lexical, pos, format, args...)
}

// NextToken advances to the next token. It returns false exactly when the
// end of input is reached, after setting the current token to EOF.
func (l *Lexer) NextToken() (bool, error) {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		if l.peek() == '\n' {
			l.token = Token{Symbol: NEWLINE, Pos: l.position()}
			l.advance()
			return true, nil
		}
		l.advance()
	}

	if l.eof() {
		l.token = Token{Symbol: EOF, Pos: l.position()}
		return false, nil
	}

	start := l.position()
	r := l.peek()

	var err error
	switch {
	case r == '#':
		l.comment(start)
	case r == '"' || r == '\'':
		err = l.str(start)
	case isDigit(r):
		err = l.number(start)
	case unicode.IsLetter(r) || r == '_':
		err = l.ident(start)
	default:
		if sym, ok := brackets[r]; ok {
			l.advance()
			l.token = Token{Symbol: sym, Pos: start}
		} else if sym, n := l.operator(); n > 0 {
			for i := 0; i < n; i++ {
				l.advance()
			}
			l.token = Token{Symbol: sym, Pos: start}
		} else if r == '.' {
			l.advance()
			l.token = Token{Symbol: DOT, Pos: start}
		} else {
			err = l.errorf(start, "incorrect symbol: %c", r)
		}
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// operator finds the longest operator at the cursor.
func (l *Lexer) operator() (Symbol, int) {
	for n := 3; n > 0; n-- {
		if l.pos+n > len(l.src) {
			continue
		}
		if sym, ok := operators[string(l.src[l.pos:l.pos+n])]; ok {
			return sym, n
		}
	}
	return EOF, 0
}

func (l *Lexer) comment(start lexer.Position) {
	l.advance()
	begin := l.pos
	for !l.eof() && l.peek() != '\n' {
		l.advance()
	}
	l.token = Token{Symbol: COMMENT, Value: string(l.src[begin:l.pos]), Pos: start}
}

func (l *Lexer) str(start lexer.Position) error {
	quote := l.peek()
	l.advance()
	begin := l.pos
	for !l.eof() && l.peek() != quote {
		l.advance()
	}
	if l.eof() {
		end := begin + 9
		if end > len(l.src) {
			end = len(l.src)
		}
		return l.errorf(start, "incorrect string literal: %s...", string(l.src[begin:end]))
	}
	l.token = Token{Symbol: STR, Value: string(l.src[begin:l.pos]), Pos: start}
	l.advance()
	return nil
}

func (l *Lexer) number(start lexer.Position) error {
	begin := l.pos
	sym := INTEGER
	l.digits()

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		sym = FLOAT
		l.advance()
		l.digits()
	}

	if r := l.peek(); r == 'e' || r == 'E' {
		l.advance()
		if r := l.peek(); r == '-' || r == '+' {
			l.advance()
		}
		l.digits()
	}

	if !l.eof() {
		r := l.peek()
		if !unicode.IsSpace(r) && !strings.ContainsRune(numberFollowers, r) {
			return l.errorf(start, "incorrect number token: %s", string(l.src[begin:l.pos+1]))
		}
	}

	text := string(l.src[begin:l.pos])
	if !numPattern.MatchString(text) {
		return l.errorf(start, "incorrect number token: %s", text)
	}
	l.token = Token{Symbol: sym, Value: text, Pos: start}
	return nil
}

func (l *Lexer) digits() {
	for isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) ident(start lexer.Position) error {
	begin := l.pos
	for !l.eof() {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '?' {
			break
		}
		l.advance()
	}

	text := string(l.src[begin:l.pos])
	if !idPattern.MatchString(text) {
		return l.errorf(start, "incorrect identifier: %s", text)
	}
	if sym, ok := keywords[text]; ok {
		l.token = Token{Symbol: sym, Pos: start}
	} else {
		l.token = Token{Symbol: ID, Value: text, Pos: start}
	}
	return nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

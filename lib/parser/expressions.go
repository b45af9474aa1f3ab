package parser

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/rex/lib/analyzer"
	"github.com/vyPal/rex/lib/ast"
	"github.com/vyPal/rex/lib/diag"
	rexlex "github.com/vyPal/rex/lib/lexer"
)

var binaryOps = map[rexlex.Symbol]ast.BinaryOp{
	rexlex.PLUS:          ast.Add,
	rexlex.MINUS:         ast.Sub,
	rexlex.ASTERISK:      ast.Mul,
	rexlex.SLASH:         ast.Div,
	rexlex.MOD:           ast.Mod,
	rexlex.DEGREE:        ast.Pow,
	rexlex.LESS:          ast.Less,
	rexlex.LESS_EQUAL:    ast.LessEqual,
	rexlex.GREATER:       ast.Greater,
	rexlex.GREATER_EQUAL: ast.GreaterEqual,
	rexlex.DOUBLE_EQUALS: ast.Equal,
	rexlex.NOT_EQUALS:    ast.NotEqual,
	rexlex.AND:           ast.And,
	rexlex.OR:            ast.Or,
	rexlex.DOUBLE_DOT:    ast.Range,
}

var unaryOps = map[rexlex.Symbol]ast.UnaryOp{
	rexlex.PLUS:  ast.UnaryPlus,
	rexlex.MINUS: ast.UnaryMinus,
	rexlex.NOT:   ast.Not,
}

const unaryPriority = 5

func priority(op ast.BinaryOp) int {
	switch {
	case op.Logical():
		return 1
	case op.Comparison():
		return 2
	case op == ast.Add || op == ast.Sub:
		return 3
	case op == ast.Pow:
		return 5
	}
	return 4
}

type opKind int

const (
	opParen opKind = iota
	opUnary
	opBinary
)

// stackOp is an entry of the operator stack: an open parenthesis, a unary
// operator waiting for its operand, or a binary operator.
type stackOp struct {
	kind   opKind
	unary  ast.UnaryOp
	binary ast.BinaryOp
}

func (o stackOp) priority() int {
	switch o.kind {
	case opUnary:
		return unaryPriority
	case opBinary:
		return priority(o.binary)
	}
	return 0
}

// arg parses one expression, stopping before any token in end. With pars
// set an unmatched ')' also ends the expression, which lets call arguments
// share this routine. A nil node means no expression was present.
func (p *Parser) arg(pars bool, end ...rexlex.Symbol) (ast.Node, error) {
	var ops []stackOp
	var out []ast.Node
	open := 0
	expectOperand := true

	apply := func() error {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		switch top.kind {
		case opParen:
			return p.syntaxErrorf("missing closing parenthesis")
		case opUnary:
			node, err := p.unary(top.unary, out[len(out)-1])
			if err != nil {
				return err
			}
			out[len(out)-1] = node
		case opBinary:
			left, right := out[len(out)-2], out[len(out)-1]
			out = out[:len(out)-2]
			node, err := p.binary(top.binary, left, right)
			if err != nil {
				return err
			}
			out = append(out, node)
		}
		return nil
	}

loop:
	for !p.at(end...) {
		sym := p.tok.Symbol
		binOp, isBinary := binaryOps[sym]
		unOp, isUnary := unaryOps[sym]

		switch {
		case sym == rexlex.LPAR:
			if !expectOperand {
				return nil, p.syntaxErrorf("unexpected %s", tokenText(p.tok))
			}
			ops = append(ops, stackOp{kind: opParen})
			open++
		case sym == rexlex.RPAR:
			if open == 0 {
				if pars {
					break loop
				}
				return nil, p.syntaxErrorf("unmatched closing parenthesis")
			}
			if expectOperand {
				return nil, p.syntaxErrorf("expected expression, got %s", tokenText(p.tok))
			}
			for ops[len(ops)-1].kind != opParen {
				if err := apply(); err != nil {
					return nil, err
				}
			}
			ops = ops[:len(ops)-1]
			open--
			if top := out[len(out)-1]; !atomic(top) {
				out[len(out)-1] = &ast.Paren{Expr: top}
			}
		case expectOperand && isUnary:
			ops = append(ops, stackOp{kind: opUnary, unary: unOp})
		case !expectOperand && isBinary:
			prio := priority(binOp)
			for len(ops) > 0 {
				// '**' is right associative.
				top := ops[len(ops)-1].priority()
				if top < prio || (top == prio && binOp == ast.Pow) {
					break
				}
				if err := apply(); err != nil {
					return nil, err
				}
			}
			ops = append(ops, stackOp{kind: opBinary, binary: binOp})
			expectOperand = true
		case expectOperand:
			node, err := p.primary()
			if err != nil {
				return nil, err
			}
			out = append(out, node)
			expectOperand = false
			continue
		default:
			return nil, p.syntaxErrorf("unexpected %s", tokenText(p.tok))
		}

		if err := p.next(); err != nil {
			return nil, err
		}
	}

	if expectOperand {
		if len(ops) == 0 && len(out) == 0 {
			return nil, nil
		}
		return nil, p.syntaxErrorf("expected expression, got %s", tokenText(p.tok))
	}
	for len(ops) > 0 {
		if err := apply(); err != nil {
			return nil, err
		}
	}
	return ast.Unparen(out[0]), nil
}

// atomic reports whether n needs no parentheses to keep its grouping.
func atomic(n ast.Node) bool {
	switch n.(type) {
	case *ast.Integer, *ast.Float, *ast.String, *ast.Bool, *ast.Nil,
		*ast.Variable, *ast.Call, *ast.Paren, *ast.Array, *ast.Index, *ast.Member:
		return true
	}
	return false
}

// args parses a comma separated expression list.
func (p *Parser) args(pars bool, end ...rexlex.Symbol) ([]ast.Node, error) {
	stop := append([]rexlex.Symbol{rexlex.COMMA}, end...)
	first, err := p.arg(pars, stop...)
	if err != nil || first == nil {
		return nil, err
	}

	out := []ast.Node{first}
	for p.at(rexlex.COMMA) {
		if err := p.next(); err != nil {
			return nil, err
		}
		a, err := p.arg(pars, stop...)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, p.syntaxErrorf("expected argument, got %s", tokenText(p.tok))
		}
		out = append(out, a)
	}
	return out, nil
}

func (p *Parser) unary(op ast.UnaryOp, operand ast.Node) (ast.Node, error) {
	if op != ast.Not {
		if c := classify(operand); c != classAny && c != classNumeric {
			return nil, p.semanticErrorf("operand of unary %s must be numeric, got %s", op, kindName(operand))
		}
	}
	if u, ok := operand.(*ast.Unary); ok && u.Op == op {
		return u.Operand, nil
	}
	return &ast.Unary{Op: op, Operand: operand}, nil
}

func (p *Parser) binary(op ast.BinaryOp, left, right ast.Node) (ast.Node, error) {
	if err := p.checkOperands(op, left, right); err != nil {
		return nil, err
	}
	if p.cfg.Optimize && op.Arithmetic() {
		if folded, ok := fold(op, left, right); ok {
			return folded, nil
		}
	}
	return &ast.Binary{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) primary() (ast.Node, error) {
	tok := p.tok
	var node ast.Node
	switch tok.Symbol {
	case rexlex.ID:
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		switch {
		case p.at(rexlex.LPAR):
			node, err = p.call(tok.Value, tok.Pos)
		case p.at(rexlex.LBR):
			node, err = p.index(tok.Value, tok.Pos)
		default:
			node, err = p.reference(tok.Value, tok.Pos)
		}
		if err != nil {
			return nil, err
		}
		return p.member(node)
	case rexlex.LBR:
		if err := p.next(); err != nil {
			return nil, err
		}
		elems, err := p.args(false, rexlex.RBR, rexlex.NEWLINE, rexlex.EOF)
		if err != nil {
			return nil, err
		}
		if err := p.expect(rexlex.RBR); err != nil {
			return nil, err
		}
		return p.member(&ast.Array{Elements: elems})
	case rexlex.INTEGER:
		node = &ast.Integer{Value: tok.Value}
	case rexlex.FLOAT:
		node = &ast.Float{Value: tok.Value}
	case rexlex.STR:
		node = &ast.String{Value: tok.Value}
	case rexlex.TRUE:
		node = &ast.Bool{Value: true}
	case rexlex.FALSE:
		node = &ast.Bool{Value: false}
	case rexlex.NIL:
		node = &ast.Nil{}
	default:
		return nil, p.syntaxErrorf("unexpected %s, expected a value", tokenText(tok))
	}
	return node, p.next()
}

// reposition moves a semantic error raised after the lookahead advanced
// back to the name it concerns.
func reposition(err error, pos lexer.Position) error {
	var e *diag.Error
	if errors.As(err, &e) {
		e.Pos = pos
	}
	return err
}

func (p *Parser) reference(name string, pos lexer.Position) (*ast.Variable, error) {
	v, err := p.syms.GetVariable(name)
	if err != nil {
		return nil, reposition(err, pos)
	}
	return &ast.Variable{Name: name, Type: v.Type, Ref: v.Use()}, nil
}

// call parses the argument list of name(...); the current token is '('.
func (p *Parser) call(name string, pos lexer.Position) (*ast.Call, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	args, err := p.args(true, rexlex.NEWLINE, rexlex.EOF)
	if err != nil {
		return nil, err
	}
	if err := p.expect(rexlex.RPAR); err != nil {
		return nil, err
	}

	f, err := p.syms.GetFunction(name)
	if err != nil {
		return nil, reposition(err, pos)
	}
	if err := p.syms.CheckFunctionArgumentsCount(name, len(args)); err != nil {
		return nil, reposition(err, pos)
	}
	return &ast.Call{
		Name:     name,
		Args:     args,
		Template: f.Template,
		Returns:  f.Returns,
		Logical:  f.ReturnsLogical,
		Ref:      f.Use(),
	}, nil
}

// index parses name[i][j]...; the current token is '['.
func (p *Parser) index(name string, pos lexer.Position) (*ast.Index, error) {
	v, err := p.syms.GetVariable(name)
	if err != nil {
		return nil, reposition(err, pos)
	}
	if v.Type != analyzer.Array && v.Type != analyzer.Any {
		return nil, reposition(p.semanticErrorf("%s is not an array, it holds %s", name, v.Type), pos)
	}

	idx := &ast.Index{Target: &ast.Variable{Name: name, Type: v.Type, Ref: v.Use()}}
	for p.at(rexlex.LBR) {
		if err := p.next(); err != nil {
			return nil, err
		}
		i, err := p.arg(false, rexlex.RBR, rexlex.NEWLINE, rexlex.EOF)
		if err != nil {
			return nil, err
		}
		if i == nil {
			return nil, p.syntaxErrorf("expected index, got %s", tokenText(p.tok))
		}
		if !integralIndex(i) {
			return nil, p.semanticErrorf("array index must be an integer, got %s", i.Generate(0))
		}
		if err := p.expect(rexlex.RBR); err != nil {
			return nil, err
		}
		idx.Indices = append(idx.Indices, i)
	}
	return idx, nil
}

// integralIndex rejects float literals, including exponent forms such as
// 1e-1 that lex as integers.
func integralIndex(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Float:
		return false
	case *ast.Integer:
		if !strings.ContainsAny(n.Value, "eE") {
			return true
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		return err == nil && f == math.Trunc(f)
	}
	return true
}

// member parses any chain of .name or .name(args) after recv.
func (p *Parser) member(recv ast.Node) (ast.Node, error) {
	for p.at(rexlex.DOT) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.require(rexlex.ID); err != nil {
			return nil, err
		}
		m := &ast.Member{Receiver: recv, Name: p.tok.Value}
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.at(rexlex.LPAR) {
			if err := p.next(); err != nil {
				return nil, err
			}
			args, err := p.args(true, rexlex.NEWLINE, rexlex.EOF)
			if err != nil {
				return nil, err
			}
			if err := p.expect(rexlex.RPAR); err != nil {
				return nil, err
			}
			m.Args = args
		}
		recv = m
	}
	return recv, nil
}

package parser

import (
	"reflect"

	"github.com/vyPal/rex/lib/analyzer"
	"github.com/vyPal/rex/lib/ast"
)

// valueClass is the statically known kind of value an expression yields.
type valueClass int

const (
	classAny valueClass = iota
	classNumeric
	classString
	classArray
	classLogical
	classNil
)

func classOf(t analyzer.Type) valueClass {
	switch t {
	case analyzer.Numeric:
		return classNumeric
	case analyzer.String:
		return classString
	case analyzer.Array:
		return classArray
	}
	return classAny
}

func classify(n ast.Node) valueClass {
	switch n := ast.Unparen(n).(type) {
	case *ast.Integer, *ast.Float:
		return classNumeric
	case *ast.String:
		return classString
	case *ast.Array:
		return classArray
	case *ast.Bool:
		return classLogical
	case *ast.Nil:
		return classNil
	case *ast.Variable:
		return classOf(n.Type)
	case *ast.Unary:
		if n.Op == ast.Not {
			return classLogical
		}
		return classNumeric
	case *ast.Binary:
		switch {
		case n.Op.Comparison(), n.Op.Logical():
			return classLogical
		case n.Op == ast.Range:
			return classArray
		case n.Op == ast.Add:
			l, r := classify(n.Left), classify(n.Right)
			if l == classString || r == classString {
				return classString
			}
			if l == classNumeric && r == classNumeric {
				return classNumeric
			}
			return classAny
		}
		return classNumeric
	case *ast.Call:
		if n.Logical {
			return classLogical
		}
		return classOf(n.Returns)
	}
	return classAny
}

// declType is the type recorded for a name bound to n.
func declType(n ast.Node) analyzer.Type {
	switch classify(n) {
	case classNumeric:
		return analyzer.Numeric
	case classString:
		return analyzer.String
	case classArray:
		return analyzer.Array
	}
	return analyzer.Any
}

// isLogical reports whether n can be used as a condition or as an operand
// of and/or.
func isLogical(n ast.Node) bool {
	switch n := ast.Unparen(n).(type) {
	case *ast.Bool:
		return true
	case *ast.Unary:
		return n.Op == ast.Not
	case *ast.Binary:
		return n.Op.Comparison() || n.Op.Logical()
	case *ast.Call:
		return n.Logical
	}
	return false
}

func kindName(n ast.Node) string {
	n = ast.Unparen(n)
	name := reflect.TypeOf(n).Elem().Name()
	switch n := n.(type) {
	case *ast.Binary:
		return name + " " + n.Op.String()
	case *ast.Unary:
		return name + " " + n.Op.String()
	case *ast.Variable:
		return name + " " + n.Name + " (" + n.Type.String() + ")"
	}
	return name
}

func (p *Parser) checkOperands(op ast.BinaryOp, left, right ast.Node) error {
	switch {
	case op.Logical():
		for _, n := range []ast.Node{left, right} {
			if !isLogical(n) {
				return p.semanticErrorf("operand of %s must be a logical expression, got %s", op, kindName(n))
			}
		}
	case op == ast.Add:
		l, r := classify(left), classify(right)
		for _, n := range []ast.Node{left, right} {
			switch classify(n) {
			case classAny, classNumeric, classString:
			default:
				return p.semanticErrorf("unsupported operand for +: %s", kindName(n))
			}
		}
		if l != classAny && r != classAny && l != r {
			return p.semanticErrorf("mismatched operands for +: %s and %s", kindName(left), kindName(right))
		}
	case op.Arithmetic(), op == ast.Range:
		for _, n := range []ast.Node{left, right} {
			if c := classify(n); c != classAny && c != classNumeric {
				return p.semanticErrorf("operand of %s must be numeric, got %s", op, kindName(n))
			}
		}
	}
	return nil
}

package parser

import (
	"math"
	"strconv"

	"github.com/vyPal/rex/lib/ast"
)

// maxExact bounds the floats that are turned back into integer literals.
const maxExact = 1e15

type number struct {
	i     int64
	f     float64
	float bool
}

func intNumber(i int64) number { return number{i: i} }

// floatNumber returns an integer when f is integral and small enough to be
// exact.
func floatNumber(f float64) number {
	if f == math.Trunc(f) && math.Abs(f) < maxExact {
		return number{i: int64(f)}
	}
	return number{f: f, float: true}
}

func (n number) value() float64 {
	if n.float {
		return n.f
	}
	return float64(n.i)
}

func (n number) node() ast.Node {
	if n.float {
		return &ast.Float{Value: strconv.FormatFloat(n.f, 'g', -1, 64)}
	}
	return &ast.Integer{Value: strconv.FormatInt(n.i, 10)}
}

// numberOf reads n as a numeric constant: a literal, possibly signed.
func numberOf(n ast.Node) (number, bool) {
	switch n := ast.Unparen(n).(type) {
	case *ast.Integer:
		if i, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			return intNumber(i), true
		}
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil && !math.IsInf(f, 0) {
			return floatNumber(f), true
		}
	case *ast.Float:
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil && !math.IsInf(f, 0) {
			return floatNumber(f), true
		}
	case *ast.Unary:
		v, ok := numberOf(n.Operand)
		switch {
		case !ok || n.Op == ast.Not:
			return number{}, false
		case n.Op == ast.UnaryPlus:
			return v, true
		case v.float:
			return number{f: -v.f, float: true}, true
		case v.i == math.MinInt64:
			return number{}, false
		}
		return intNumber(-v.i), true
	}
	return number{}, false
}

// fold evaluates an arithmetic operator over two numeric constants.
// Division or modulo by zero and non-finite results are left alone.
func fold(op ast.BinaryOp, left, right ast.Node) (ast.Node, bool) {
	a, ok := numberOf(left)
	if !ok {
		return nil, false
	}
	b, ok := numberOf(right)
	if !ok {
		return nil, false
	}
	r, ok := compute(op, a, b)
	if !ok {
		return nil, false
	}
	return r.node(), true
}

func compute(op ast.BinaryOp, a, b number) (number, bool) {
	if !a.float && !b.float {
		if r, ok := computeInt(op, a.i, b.i); ok {
			return r, true
		}
	}

	x, y := a.value(), b.value()
	var r float64
	switch op {
	case ast.Add:
		r = x + y
	case ast.Sub:
		r = x - y
	case ast.Mul:
		r = x * y
	case ast.Div:
		if y == 0 {
			return number{}, false
		}
		r = x / y
	case ast.Mod:
		if y == 0 {
			return number{}, false
		}
		r = math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
	case ast.Pow:
		r = math.Pow(x, y)
	default:
		return number{}, false
	}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return number{}, false
	}
	return floatNumber(r), true
}

// computeInt keeps integer arithmetic exact. It declines, leaving the float
// path to decide, when the result is not an integer or might overflow.
func computeInt(op ast.BinaryOp, x, y int64) (number, bool) {
	const limit = 1 << 53
	small := func(v int64) bool { return v > -limit && v < limit }
	if !small(x) || !small(y) {
		return number{}, false
	}

	switch op {
	case ast.Add:
		return intNumber(x + y), true
	case ast.Sub:
		return intNumber(x - y), true
	case ast.Mul:
		if x != 0 && (x*y)/x != y {
			return number{}, false
		}
		return intNumber(x * y), true
	case ast.Div:
		if y == 0 || x%y != 0 {
			return number{}, false
		}
		return intNumber(x / y), true
	case ast.Mod:
		if y == 0 {
			return number{}, false
		}
		r := x % y
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return intNumber(r), true
	case ast.Pow:
		switch {
		case y < 0:
			return number{}, false
		case y == 0 || x == 1:
			return intNumber(1), true
		case x == 0:
			return intNumber(0), true
		case x == -1:
			return intNumber(1 - 2*(y%2)), true
		}
		r := int64(1)
		for i := int64(0); i < y; i++ {
			r *= x
			if !small(r) {
				return number{}, false
			}
		}
		return intNumber(r), true
	}
	return number{}, false
}

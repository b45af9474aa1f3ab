package ast

import (
	"fmt"
	"reflect"
	"strings"
)

var unaryNames = [...]string{UnaryPlus: "+", UnaryMinus: "-", Not: "not"}

func (op UnaryOp) String() string { return unaryNames[op] }

var binaryNames = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%", Pow: "**",
	Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=", Equal: "==", NotEqual: "!=",
	And: "and", Or: "or", Range: "..",
}

func (op BinaryOp) String() string { return binaryNames[op] }

var assignNames = [...]string{
	Assign: "=", AddAssign: "+=", SubAssign: "-=", MulAssign: "*=",
	DivAssign: "/=", ModAssign: "%=", PowAssign: "**=",
}

func (op AssignOp) String() string { return assignNames[op] }

// Dump renders n as an indented tree of node names and attributes, for
// debugging.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n Node, level int) {
	v := reflect.ValueOf(n).Elem()
	t := v.Type()
	sb.WriteString(t.Name() + "\n")

	ind := strings.Repeat("|\t", level)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Tag.Get("dump") == "-" {
			continue
		}
		fv := v.Field(i)
		prefix := ind + "|+-" + f.Name + ": "

		switch {
		case isNilValue(fv):
			sb.WriteString(prefix + "nil\n")
		case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() != reflect.String:
			sb.WriteString(ind + "|+-" + f.Name + ":\n")
			for j := 0; j < fv.Len(); j++ {
				sb.WriteString(ind + "|\t|+-")
				dump(sb, fv.Index(j).Interface().(Node), level+2)
			}
		default:
			if child, ok := fv.Interface().(Node); ok {
				sb.WriteString(prefix)
				dump(sb, child, level+1)
				continue
			}
			sb.WriteString(prefix + fmt.Sprint(fv.Interface()) + "\n")
		}
	}
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

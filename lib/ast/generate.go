package ast

import (
	"strings"

	"github.com/vyPal/rex/lib/analyzer"
)

func tabs(n int) string {
	return strings.Repeat("\t", n)
}

var unarySymbols = [...]string{
	UnaryPlus:  "+",
	UnaryMinus: "-",
	Not:        "!",
}

var binarySymbols = [...]string{
	Add:          "+",
	Sub:          "-",
	Mul:          "*",
	Div:          "/",
	Mod:          "%%",
	Pow:          "^",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	Equal:        "==",
	NotEqual:     "!=",
	And:          "&",
	Or:           "|",
	Range:        ":",
}

func (p *Program) Generate(indent int) string {
	var sb strings.Builder
	for _, s := range p.Statements {
		if _, ok := s.(*NewLine); ok {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(tabs(indent))
		sb.WriteString(s.Generate(indent))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Block) Generate(indent int) string {
	var sb strings.Builder
	for _, s := range b.Statements {
		if _, ok := s.(*NewLine); ok {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(tabs(indent))
		sb.WriteString(s.Generate(indent))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (n *NewLine) Generate(int) string { return "\n" }

func (c *Comment) Generate(int) string { return "#" + c.Text }

func (i *Integer) Generate(int) string { return i.Value }

func (f *Float) Generate(int) string { return f.Value }

func (s *String) Generate(int) string {
	if strings.Contains(s.Value, `"`) {
		return "'" + s.Value + "'"
	}
	return `"` + s.Value + `"`
}

func (b *Bool) Generate(int) string {
	if b.Value {
		return "TRUE"
	}
	return "FALSE"
}

func (*Nil) Generate(int) string { return "NULL" }

func (v *Variable) Generate(int) string { return v.Name }

func (p *Paren) Generate(indent int) string {
	return "(" + p.Expr.Generate(indent) + ")"
}

func (u *Unary) Generate(indent int) string {
	operand := u.Operand.Generate(indent)
	if _, ok := u.Operand.(*Binary); ok {
		operand = "(" + operand + ")"
	}
	return unarySymbols[u.Op] + operand
}

func (b *Binary) Generate(indent int) string {
	left := b.Left.Generate(indent)
	right := b.Right.Generate(indent)

	switch {
	case b.Op == Range:
		// ':' binds tighter than arithmetic in R.
		if _, ok := b.Left.(*Binary); ok {
			left = "(" + left + ")"
		}
		if _, ok := b.Right.(*Binary); ok {
			right = "(" + right + ")"
		}
		return left + ":" + right
	case b.Op.Logical():
		// '&' binds tighter than '|' in R, the source gives them equal rank.
		if mixedLogical(b.Op, b.Left) {
			left = "(" + left + ")"
		}
		if mixedLogical(b.Op, b.Right) {
			right = "(" + right + ")"
		}
	case b.Op == Pow:
		if negative(b.Left) {
			left = "(" + left + ")"
		}
	case b.Op == Mod:
		// '%%' binds tighter than '*' and '/' in R.
		if l, ok := b.Left.(*Binary); ok && (l.Op == Mul || l.Op == Div) {
			left = "(" + left + ")"
		}
	}
	// '!' binds looser than comparisons and arithmetic in R.
	if !b.Op.Logical() {
		if isNot(b.Left) {
			left = "(" + left + ")"
		}
		if isNot(b.Right) {
			right = "(" + right + ")"
		}
	}
	return left + " " + binarySymbols[b.Op] + " " + right
}

func mixedLogical(op BinaryOp, n Node) bool {
	b, ok := n.(*Binary)
	return ok && b.Op.Logical() && b.Op != op
}

func isNot(n Node) bool {
	u, ok := n.(*Unary)
	return ok && u.Op == Not
}

func negative(n Node) bool {
	switch n := n.(type) {
	case *Integer:
		return strings.HasPrefix(n.Value, "-")
	case *Float:
		return strings.HasPrefix(n.Value, "-")
	case *Unary:
		return true
	}
	return false
}

func (s *AssignStmt) Generate(indent int) string {
	target := s.Target.Generate(indent)
	value := s.Value.Generate(indent)
	if op, ok := s.Op.Binary(); ok {
		if _, isBinary := s.Value.(*Binary); isBinary {
			value = "(" + value + ")"
		}
		return target + " <- " + target + " " + binarySymbols[op] + " " + value
	}
	return target + " <- " + value
}

func (b *Branch) Generate(indent int) string {
	return "if (" + b.Cond.Generate(indent) + ") {\n" + b.Body.Generate(indent+1) + tabs(indent) + "}"
}

func (i *If) Generate(indent int) string {
	parts := make([]string, 0, len(i.Branches)+1)
	for _, b := range i.Branches {
		parts = append(parts, b.Generate(indent))
	}
	if i.Else != nil {
		parts = append(parts, "{\n"+i.Else.Generate(indent+1)+tabs(indent)+"}")
	}
	return strings.Join(parts, " else ")
}

func (w *While) Generate(indent int) string {
	cond := "(" + w.Cond.Generate(indent) + ")"
	if w.Until {
		cond = "!" + cond
	}
	return "while " + cond + " {\n" + w.Body.Generate(indent+1) + tabs(indent) + "}"
}

func (f *For) Generate(indent int) string {
	return "for (" + strings.Join(f.Vars, ", ") + " in " + f.Iterable.Generate(indent) + ") {\n" +
		f.Body.Generate(indent+1) + tabs(indent) + "}"
}

func (f *FuncDecl) Generate(indent int) string {
	return f.Name + " <- function(" + strings.Join(f.Params, ", ") + ") {\n" +
		f.Body.Generate(indent+1) + tabs(indent) + "}"
}

func generateAll(nodes []Node, indent int) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Generate(indent)
	}
	return out
}

func (c *Call) Generate(indent int) string {
	return analyzer.RenderCall(c.Name, c.Template, generateAll(c.Args, indent))
}

func (a *Array) Generate(indent int) string {
	return "c(" + strings.Join(generateAll(a.Elements, indent), ", ") + ")"
}

func (x *Index) Generate(indent int) string {
	var sb strings.Builder
	sb.WriteString(x.Target.Generate(indent))
	for _, i := range x.Indices {
		sb.WriteString("[" + i.Generate(indent) + "]")
	}
	return sb.String()
}

func (m *Member) Generate(indent int) string {
	args := append([]string{m.Receiver.Generate(indent)}, generateAll(m.Args, indent)...)
	return m.Name + "(" + strings.Join(args, ", ") + ")"
}

func (r *Return) Generate(indent int) string {
	if r.Value == nil {
		return "return"
	}
	return "return(" + r.Value.Generate(indent) + ")"
}

func (*Next) Generate(int) string { return "next" }

func (*Break) Generate(int) string { return "break" }

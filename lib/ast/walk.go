package ast

func (p *Program) Children() []Node { return p.Statements }
func (b *Block) Children() []Node   { return b.Statements }
func (*NewLine) Children() []Node   { return nil }
func (*Comment) Children() []Node   { return nil }
func (*Integer) Children() []Node   { return nil }
func (*Float) Children() []Node     { return nil }
func (*String) Children() []Node    { return nil }
func (*Bool) Children() []Node      { return nil }
func (*Nil) Children() []Node       { return nil }
func (*Variable) Children() []Node  { return nil }
func (*Next) Children() []Node      { return nil }
func (*Break) Children() []Node     { return nil }

func (p *Paren) Children() []Node  { return []Node{p.Expr} }
func (u *Unary) Children() []Node  { return []Node{u.Operand} }
func (b *Binary) Children() []Node { return []Node{b.Left, b.Right} }

func (s *AssignStmt) Children() []Node { return []Node{s.Target, s.Value} }

func (b *Branch) Children() []Node { return []Node{b.Cond, b.Body} }

func (i *If) Children() []Node {
	out := make([]Node, 0, len(i.Branches)+1)
	for _, b := range i.Branches {
		out = append(out, b)
	}
	if i.Else != nil {
		out = append(out, i.Else)
	}
	return out
}

func (w *While) Children() []Node    { return []Node{w.Cond, w.Body} }
func (f *For) Children() []Node      { return []Node{f.Iterable, f.Body} }
func (f *FuncDecl) Children() []Node { return []Node{f.Body} }
func (c *Call) Children() []Node     { return c.Args }
func (a *Array) Children() []Node    { return a.Elements }

func (x *Index) Children() []Node {
	return append([]Node{x.Target}, x.Indices...)
}

func (m *Member) Children() []Node {
	return append([]Node{m.Receiver}, m.Args...)
}

func (r *Return) Children() []Node {
	if r.Value == nil {
		return nil
	}
	return []Node{r.Value}
}

// Iterate flattens n into the leaves and name references it contains, n
// itself included, in source order.
func Iterate(n Node) []Node {
	var out []Node
	var walk func(Node)
	walk = func(n Node) {
		children := n.Children()
		if _, ok := n.(*Call); ok || len(children) == 0 {
			out = append(out, n)
		}
		for _, c := range children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// ReleaseRefs gives back every use count held by references inside n.
func ReleaseRefs(n Node) {
	for _, leaf := range Iterate(n) {
		switch leaf := leaf.(type) {
		case *Variable:
			if leaf.Ref != nil {
				leaf.Ref.Release()
			}
		case *Call:
			if leaf.Ref != nil {
				leaf.Ref.Release()
			}
		}
	}
}

// Unparen strips any number of enclosing parentheses.
func Unparen(n Node) Node {
	for {
		p, ok := n.(*Paren)
		if !ok {
			return n
		}
		n = p.Expr
	}
}

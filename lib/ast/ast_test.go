package ast

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/vyPal/rex/lib/analyzer"
)

func num(v string) *Integer { return &Integer{Value: v} }

func ref(name string) *Variable { return &Variable{Name: name} }

func TestGenerateExpressions(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"integer", num("42"), "42"},
		{"float", &Float{Value: "0.5"}, "0.5"},
		{"string", &String{Value: "hi"}, `"hi"`},
		{"string with quote", &String{Value: `say "hi"`}, `'say "hi"'`},
		{"true", &Bool{Value: true}, "TRUE"},
		{"false", &Bool{}, "FALSE"},
		{"nil", &Nil{}, "NULL"},
		{"paren", &Paren{Expr: &Binary{Op: Add, Left: ref("a"), Right: num("1")}}, "(a + 1)"},
		{"not", &Unary{Op: Not, Operand: &Bool{Value: true}}, "!TRUE"},
		{"minus", &Unary{Op: UnaryMinus, Operand: ref("x")}, "-x"},
		{"mod", &Binary{Op: Mod, Left: ref("a"), Right: num("2")}, "a %% 2"},
		{"pow", &Binary{Op: Pow, Left: ref("a"), Right: num("2")}, "a ^ 2"},
		{"negative base", &Binary{Op: Pow, Left: num("-2"), Right: ref("n")}, "(-2) ^ n"},
		{"and", &Binary{Op: And, Left: ref("a"), Right: ref("b")}, "a & b"},
		{"or", &Binary{Op: Or, Left: ref("a"), Right: ref("b")}, "a | b"},
		{
			"mixed logical",
			&Binary{Op: And, Left: &Binary{Op: Or, Left: ref("a"), Right: ref("b")}, Right: ref("c")},
			"(a | b) & c",
		},
		{"range", &Binary{Op: Range, Left: num("0"), Right: num("5")}, "0:5"},
		{
			"range bound expression",
			&Binary{Op: Range, Left: num("0"), Right: &Binary{Op: Sub, Left: ref("n"), Right: num("1")}},
			"0:(n - 1)",
		},
		{"array", &Array{Elements: []Node{num("1"), num("2")}}, "c(1, 2)"},
		{"empty array", &Array{}, "c()"},
		{"index", &Index{Target: ref("m"), Indices: []Node{ref("i"), ref("j")}}, "m[i][j]"},
		{"call", &Call{Name: "foo", Args: []Node{ref("a"), num("1")}}, "foo(a, 1)"},
		{"builtin", &Call{Name: "puts", Template: "print(%s)", Args: []Node{ref("a")}}, "print(a)"},
		{"member", &Member{Receiver: ref("list"), Name: "sum"}, "sum(list)"},
		{"member args", &Member{Receiver: ref("list"), Name: "push", Args: []Node{num("1")}}, "push(list, 1)"},
		{"return", &Return{}, "return"},
		{"return value", &Return{Value: ref("x")}, "return(x)"},
		{"next", &Next{}, "next"},
		{"break", &Break{}, "break"},
		{"comment", &Comment{Text: " note"}, "# note"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, test.node.Generate(0), test.want)
		})
	}
}

func TestGenerateAssignments(t *testing.T) {
	be.Equal(t, (&AssignStmt{Target: ref("a"), Value: num("10")}).Generate(0), "a <- 10")
	be.Equal(t, (&AssignStmt{Op: AddAssign, Target: ref("i"), Value: num("1")}).Generate(0), "i <- i + 1")
	be.Equal(t, (&AssignStmt{Op: ModAssign, Target: ref("i"), Value: num("3")}).Generate(0), "i <- i %% 3")
	be.Equal(t, (&AssignStmt{Op: PowAssign, Target: ref("i"), Value: num("2")}).Generate(0), "i <- i ^ 2")

	sum := &Binary{Op: Add, Left: ref("a"), Right: ref("b")}
	be.Equal(t, (&AssignStmt{Op: MulAssign, Target: ref("x"), Value: sum}).Generate(0), "x <- x * (a + b)")

	idx := &Index{Target: ref("a"), Indices: []Node{num("0")}}
	be.Equal(t, (&AssignStmt{Target: idx, Value: num("1")}).Generate(0), "a[0] <- 1")
}

func TestGenerateBlocks(t *testing.T) {
	body := func(stmts ...Node) *Block { return &Block{Statements: stmts, Depth: 1} }
	puts := func(s string) Node {
		return &Call{Name: "puts", Template: "print(%s)", Args: []Node{&String{Value: s}}}
	}
	cond := &Binary{Op: GreaterEqual, Left: ref("age"), Right: num("18")}

	ifElse := &If{
		Branches: []*Branch{{Cond: cond, Body: body(puts("adult"))}},
		Else:     body(puts("minor")),
	}
	be.Equal(t, ifElse.Generate(0), "if (age >= 18) {\n\tprint(\"adult\")\n} else {\n\tprint(\"minor\")\n}")

	chain := &If{Branches: []*Branch{
		{Cond: &Bool{Value: true}, Body: body(&Next{})},
		{Cond: &Bool{}, Body: body(&Break{})},
	}}
	be.Equal(t, chain.Generate(0), "if (TRUE) {\n\tnext\n} else if (FALSE) {\n\tbreak\n}")

	loop := &While{Cond: &Binary{Op: Equal, Left: ref("j"), Right: num("0")}, Body: body(), Until: true}
	be.Equal(t, loop.Generate(0), "while !(j == 0) {\n}")

	forLoop := &For{
		Vars:     []string{"k"},
		Iterable: &Binary{Op: Range, Left: num("0"), Right: num("5")},
		Body:     body(&Call{Name: "puts", Template: "print(%s)", Args: []Node{ref("k")}}),
	}
	be.Equal(t, forLoop.Generate(0), "for (k in 0:5) {\n\tprint(k)\n}")

	nested := &FuncDecl{
		Name:   "foo",
		Params: []string{"a", "b"},
		Body: body(
			&NewLine{},
			&While{Cond: &Bool{Value: true}, Body: &Block{Statements: []Node{&Break{}}, Depth: 2}},
			&Return{Value: ref("a")},
		),
	}
	be.Equal(t, nested.Generate(0),
		"foo <- function(a, b) {\n\n\twhile (TRUE) {\n\t\tbreak\n\t}\n\treturn(a)\n}")
}

func TestGenerateProgram(t *testing.T) {
	prog := &Program{Statements: []Node{
		&AssignStmt{Target: ref("a"), Value: num("21")},
		&NewLine{},
		&Call{Name: "puts", Template: "print(%s)", Args: []Node{ref("a")}},
	}}
	be.Equal(t, prog.Generate(0), "a <- 21\n\nprint(a)\n")
}

func TestIterate(t *testing.T) {
	a := ref("a")
	b := ref("b")
	call := &Call{Name: "f", Args: []Node{b}}
	expr := &Binary{Op: Add, Left: &Paren{Expr: a}, Right: call}

	got := Iterate(expr)
	be.Equal(t, len(got), 3)
	be.Equal(t, got[0], Node(a))
	be.Equal(t, got[1], Node(call))
	be.Equal(t, got[2], Node(b))

	be.Equal(t, len(Iterate(a)), 1)
}

func TestReleaseRefs(t *testing.T) {
	st := analyzer.New(nil)
	v := st.AddVariable("a", analyzer.Numeric)
	f := st.AddFunction(&analyzer.Function{Name: "f", Arity: 1})

	stmt := &Return{Value: &Call{
		Name: "f",
		Ref:  f.Use(),
		Args: []Node{&Binary{Op: Mul, Left: &Variable{Name: "a", Ref: v.Use()}, Right: &Variable{Name: "a", Ref: v.Use()}}},
	}}
	be.Equal(t, v.Generation().Count(), 2)
	be.Equal(t, f.Generation().Count(), 1)

	ReleaseRefs(stmt)
	be.Equal(t, v.Generation().Count(), 0)
	be.Equal(t, f.Generation().Count(), 0)
}

func TestUnparen(t *testing.T) {
	a := ref("a")
	be.Equal(t, Unparen(&Paren{Expr: &Paren{Expr: a}}), Node(a))
	be.Equal(t, Unparen(a), Node(a))
}

func TestDump(t *testing.T) {
	prog := &Program{Statements: []Node{
		&AssignStmt{Target: &Variable{Name: "a", Type: analyzer.Numeric}, Value: &Unary{Op: UnaryMinus, Operand: num("1")}},
		&Return{},
	}}
	want := "Program\n" +
		"|+-Statements:\n" +
		"|\t|+-AssignStmt\n" +
		"|\t|\t|+-Op: =\n" +
		"|\t|\t|+-Target: Variable\n" +
		"|\t|\t|\t|+-Name: a\n" +
		"|\t|\t|\t|+-Type: Numeric\n" +
		"|\t|\t|+-Value: Unary\n" +
		"|\t|\t|\t|+-Op: -\n" +
		"|\t|\t|\t|+-Operand: Integer\n" +
		"|\t|\t|\t|\t|+-Value: 1\n" +
		"|\t|+-Return\n" +
		"|\t|\t|+-Value: nil\n"
	be.Equal(t, Dump(prog), want)
}

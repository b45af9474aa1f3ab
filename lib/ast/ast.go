package ast

import (
	"github.com/vyPal/rex/lib/analyzer"
)

// Node is implemented by every syntax tree node. The set of nodes is closed;
// only this package defines them.
type Node interface {
	// Generate renders the node as R source. indent is the nesting depth of
	// the enclosing block.
	Generate(indent int) string
	// Children returns the direct sub-nodes in source order.
	Children() []Node
	node()
}

type Program struct {
	Statements []Node
}

// Block is the body of a compound statement.
type Block struct {
	Statements []Node
	Depth      int
}

// NewLine preserves a blank source line.
type NewLine struct {
	Line int
}

type Comment struct {
	Text string
}

type Integer struct {
	Value string
}

type Float struct {
	Value string
}

type String struct {
	Value string
}

type Bool struct {
	Value bool
}

type Nil struct{}

// Variable is a reference to a declared name. Ref is the generation the
// reference was counted against; it is nil for assignment targets that
// declare the name.
type Variable struct {
	Name string
	Type analyzer.Type
	Ref  *analyzer.Generation `dump:"-"`
}

type Paren struct {
	Expr Node
}

type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	Not
)

type Unary struct {
	Op      UnaryOp
	Operand Node
}

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
	Less
	LessEqual
	Greater
	GreaterEqual
	Equal
	NotEqual
	And
	Or
	Range
)

func (op BinaryOp) Arithmetic() bool {
	return op <= Pow
}

func (op BinaryOp) Comparison() bool {
	return op >= Less && op <= NotEqual
}

func (op BinaryOp) Logical() bool {
	return op == And || op == Or
}

type Binary struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

type AssignOp int

const (
	Assign AssignOp = iota
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
	PowAssign
)

// Binary returns the arithmetic operator a compound assignment applies.
func (op AssignOp) Binary() (BinaryOp, bool) {
	switch op {
	case AddAssign:
		return Add, true
	case SubAssign:
		return Sub, true
	case MulAssign:
		return Mul, true
	case DivAssign:
		return Div, true
	case ModAssign:
		return Mod, true
	case PowAssign:
		return Pow, true
	}
	return 0, false
}

// AssignStmt binds or updates Target. Binding is set when the statement
// declares a new generation of the name.
type AssignStmt struct {
	Op      AssignOp
	Target  Node
	Value   Node
	Binding *analyzer.Generation `dump:"-"`
}

// Branch is one condition/body pair of an if chain.
type Branch struct {
	Cond Node
	Body *Block
}

// If is an if/elsif/else chain. Else is nil when there is no else clause.
type If struct {
	Branches []*Branch
	Else     *Block
}

// While loops while Cond holds, or until it holds when Until is set.
type While struct {
	Cond  Node
	Body  *Block
	Until bool
}

type For struct {
	Vars     []string
	Iterable Node
	Body     *Block
}

type FuncDecl struct {
	Name    string
	Params  []string
	Body    *Block
	Binding *analyzer.Generation `dump:"-"`
}

type Call struct {
	Name     string
	Args     []Node
	Template string
	Returns  analyzer.Type
	Logical  bool
	Ref      *analyzer.Generation `dump:"-"`
}

type Array struct {
	Elements []Node
}

type Index struct {
	Target  *Variable
	Indices []Node
}

// Member is a method-style call recv.name(args).
type Member struct {
	Receiver Node
	Name     string
	Args     []Node
}

// Return carries an optional value; Value is nil for a bare return.
type Return struct {
	Value Node
}

type Next struct{}

type Break struct{}

func (*Program) node()    {}
func (*Block) node()      {}
func (*NewLine) node()    {}
func (*Comment) node()    {}
func (*Integer) node()    {}
func (*Float) node()      {}
func (*String) node()     {}
func (*Bool) node()       {}
func (*Nil) node()        {}
func (*Variable) node()   {}
func (*Paren) node()      {}
func (*Unary) node()      {}
func (*Binary) node()     {}
func (*AssignStmt) node() {}
func (*Branch) node()     {}
func (*If) node()         {}
func (*While) node()      {}
func (*For) node()        {}
func (*FuncDecl) node()   {}
func (*Call) node()       {}
func (*Array) node()      {}
func (*Index) node()      {}
func (*Member) node()     {}
func (*Return) node()     {}
func (*Next) node()       {}
func (*Break) node()      {}

package analyzer

import "strings"

// Variadic marks a function that accepts any number of arguments.
const Variadic = -1

type Variable struct {
	Name string
	Type Type

	uses *Uses
	gen  *Generation
}

// Generation is the generation introduced by this declaration.
func (v *Variable) Generation() *Generation {
	return v.gen
}

func (v *Variable) Uses() *Uses {
	return v.uses
}

// Use records a reference to the newest declaration of the name and returns
// the generation it was counted against.
func (v *Variable) Use() *Generation {
	g := v.uses.Current()
	g.Acquire()
	return g
}

type Function struct {
	Name           string
	Arity          int
	Returns        Type
	ReturnsLogical bool
	// Template replaces the generic call rendering for built-ins. %s stands
	// for the comma separated arguments.
	Template string

	uses *Uses
	gen  *Generation
}

func (f *Function) Builtin() bool {
	return f.Template != ""
}

func (f *Function) Generation() *Generation {
	return f.gen
}

func (f *Function) Uses() *Uses {
	return f.uses
}

func (f *Function) Use() *Generation {
	g := f.uses.Current()
	g.Acquire()
	return g
}

// RenderCall formats a call with already generated arguments. A non-empty
// template replaces the generic name(args) form.
func RenderCall(name, template string, args []string) string {
	joined := strings.Join(args, ", ")
	if template != "" {
		return strings.Replace(template, "%s", joined, 1)
	}
	return name + "(" + joined + ")"
}

// Builtin describes a predefined function of the target language.
type Builtin struct {
	Name     string
	Template string
	Arity    int
}

// DefaultBuiltins are the functions available when no others are configured.
var DefaultBuiltins = []Builtin{
	{Name: "puts", Template: "print(%s)", Arity: Variadic},
	{Name: "readline", Template: "readline(%s)", Arity: Variadic},
}

// Namespace holds the names declared in one lexical scope.
type Namespace struct {
	// boundary namespaces belong to a function body; assignments never
	// reach past them.
	boundary  bool
	variables map[string]*Variable
	functions map[string]*Function
}

func newNamespace(boundary bool) *Namespace {
	return &Namespace{
		boundary:  boundary,
		variables: make(map[string]*Variable),
		functions: make(map[string]*Function),
	}
}

func (n *Namespace) LookupVariable(name string) (*Variable, bool) {
	v, ok := n.variables[name]
	return v, ok
}

func (n *Namespace) LookupFunction(name string) (*Function, bool) {
	f, ok := n.functions[name]
	return f, ok
}

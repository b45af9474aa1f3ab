package analyzer

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/rex/lib/diag"
)

// Table is the scope manager: a stack of namespaces whose bottom entry is
// the global namespace seeded with the built-in functions.
type Table struct {
	spaces []*Namespace
	pos    func() lexer.Position
}

func New(builtins []Builtin) *Table {
	t := &Table{
		spaces: []*Namespace{newNamespace(true)},
		pos:    func() lexer.Position { return lexer.Position{} },
	}
	for _, b := range builtins {
		t.AddFunction(&Function{Name: b.Name, Arity: b.Arity, Template: b.Template})
	}
	return t
}

// SetPositionSource sets where semantic errors take their position from,
// normally the parser's current token.
func (t *Table) SetPositionSource(pos func() lexer.Position) {
	t.pos = pos
}

func (t *Table) errorf(format string, args ...any) error {
	return diag.Errorf(diag.Semantic, t.pos(), format, args...)
}

// Depth is the number of open namespaces, the global one included.
func (t *Table) Depth() int {
	return len(t.spaces)
}

func (t *Table) local() *Namespace {
	return t.spaces[len(t.spaces)-1]
}

func (t *Table) CreateLocalNamespace() {
	t.spaces = append(t.spaces, newNamespace(false))
}

// CreateFunctionNamespace opens the namespace of a function body.
func (t *Table) CreateFunctionNamespace() {
	t.spaces = append(t.spaces, newNamespace(true))
}

func (t *Table) DisposeLocalNamespace() error {
	if len(t.spaces) == 1 {
		return t.errorf("attempt to dispose the global namespace")
	}
	t.spaces = t.spaces[:len(t.spaces)-1]
	return nil
}

// AddVariable declares name in the innermost namespace. A re-declaration
// takes over the previous record's uses and starts a new generation.
func (t *Table) AddVariable(name string, typ Type) *Variable {
	ns := t.local()
	v := &Variable{Name: name, Type: typ}
	if prev, ok := ns.variables[name]; ok {
		v.uses = prev.uses
	} else {
		v.uses = newUses()
	}
	v.gen = v.uses.push()
	ns.variables[name] = v
	return v
}

func (t *Table) AddFunction(f *Function) *Function {
	ns := t.local()
	if prev, ok := ns.functions[f.Name]; ok {
		f.uses = prev.uses
	} else {
		f.uses = newUses()
	}
	f.gen = f.uses.push()
	ns.functions[f.Name] = f
	return f
}

func (t *Table) lookupVariable(name string) (*Variable, bool) {
	for i := len(t.spaces) - 1; i >= 0; i-- {
		if v, ok := t.spaces[i].LookupVariable(name); ok {
			return v, true
		}
	}
	return nil, false
}

func (t *Table) lookupFunction(name string) (*Function, bool) {
	for i := len(t.spaces) - 1; i >= 0; i-- {
		if f, ok := t.spaces[i].LookupFunction(name); ok {
			return f, true
		}
	}
	return nil, false
}

func (t *Table) VariableExist(name string) bool {
	_, ok := t.lookupVariable(name)
	return ok
}

func (t *Table) FunctionExist(name string) bool {
	_, ok := t.lookupFunction(name)
	return ok
}

func (t *Table) GetVariable(name string) (*Variable, error) {
	if v, ok := t.lookupVariable(name); ok {
		return v, nil
	}
	return nil, t.errorf("variable %s is not declared", name)
}

func (t *Table) GetFunction(name string) (*Function, error) {
	if f, ok := t.lookupFunction(name); ok {
		return f, nil
	}
	return nil, t.errorf("function %s is not declared", name)
}

// AssignTarget finds the binding a plain assignment to name would update.
// The search stops at the nearest function body. local reports whether the
// binding lives in the innermost namespace.
func (t *Table) AssignTarget(name string) (v *Variable, local bool, ok bool) {
	for i := len(t.spaces) - 1; i >= 0; i-- {
		ns := t.spaces[i]
		if v, ok := ns.LookupVariable(name); ok {
			return v, i == len(t.spaces)-1, true
		}
		if ns.boundary {
			break
		}
	}
	return nil, false, false
}

func (t *Table) CheckFunctionArgumentsCount(name string, count int) error {
	f, err := t.GetFunction(name)
	if err != nil {
		return err
	}
	if f.Arity == Variadic || f.Arity == count {
		return nil
	}
	return t.errorf("function %s expects %s, got %d", name, arguments(f.Arity), count)
}

func arguments(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}

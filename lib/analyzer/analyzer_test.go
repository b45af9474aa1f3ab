package analyzer

import (
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/nalgeon/be"
	"github.com/vyPal/rex/lib/diag"
)

func TestBuiltinsAreGlobal(t *testing.T) {
	st := New(DefaultBuiltins)
	be.True(t, st.FunctionExist("puts"))
	be.True(t, st.FunctionExist("readline"))
	be.True(t, !st.FunctionExist("print"))

	f, err := st.GetFunction("puts")
	be.Err(t, err, nil)
	be.True(t, f.Builtin())
	be.Equal(t, RenderCall(f.Name, f.Template, []string{"a", "b"}), "print(a, b)")
}

func TestCustomBuiltins(t *testing.T) {
	st := New([]Builtin{{Name: "sqrt", Arity: 1}})
	be.True(t, !st.FunctionExist("puts"))

	f, err := st.GetFunction("sqrt")
	be.Err(t, err, nil)
	be.Equal(t, RenderCall(f.Name, f.Template, []string{"x"}), "sqrt(x)")
}

func TestScopes(t *testing.T) {
	st := New(DefaultBuiltins)
	st.AddVariable("a", Numeric)

	st.CreateLocalNamespace()
	st.AddVariable("b", String)
	be.Equal(t, st.Depth(), 2)
	be.True(t, st.VariableExist("a"))
	be.True(t, st.VariableExist("b"))

	be.Err(t, st.DisposeLocalNamespace(), nil)
	be.True(t, st.VariableExist("a"))
	be.True(t, !st.VariableExist("b"))

	_, err := st.GetVariable("b")
	be.True(t, diag.IsKind(err, diag.Semantic))
	be.Err(t, err, "variable b is not declared")
}

func TestDisposeGlobal(t *testing.T) {
	st := New(nil)
	st.SetPositionSource(func() lexer.Position { return lexer.Position{Line: 3, Column: 4} })

	err := st.DisposeLocalNamespace()
	be.True(t, diag.IsKind(err, diag.Semantic))
	be.Equal(t, err.Error(), "semantic error (3, 4): attempt to dispose the global namespace")
}

func TestGenerations(t *testing.T) {
	st := New(nil)
	first := st.AddVariable("x", Numeric)
	first.Use()
	first.Use()

	second := st.AddVariable("x", String)
	be.Equal(t, second.Uses(), first.Uses())
	be.Equal(t, second.Uses().Len(), 2)

	v, err := st.GetVariable("x")
	be.Err(t, err, nil)
	g := v.Use()
	be.Equal(t, g, second.Generation())
	be.Equal(t, v.Type, String)

	be.Equal(t, second.Uses().Count(0), 1)
	be.Equal(t, second.Uses().Count(1), 2)

	// References made before a re-declaration keep counting against the
	// earlier generation.
	first.Generation().Release()
	be.Equal(t, second.Uses().Count(1), 1)
	be.Equal(t, second.Uses().Count(0), 1)
}

func TestRetire(t *testing.T) {
	st := New(nil)
	v := st.AddVariable("x", Any)
	w := st.AddVariable("x", Any)
	g := w.Use()

	be.True(t, !w.Uses().Retire(g))
	be.True(t, w.Uses().Retire(v.Generation()))
	be.Equal(t, w.Uses().Len(), 1)
	be.Equal(t, w.Uses().Current(), g)
}

func TestReleaseUnderflow(t *testing.T) {
	defer func() {
		be.True(t, recover() != nil)
	}()
	g := &Generation{}
	g.Release()
}

func TestShadowingAcrossNamespaces(t *testing.T) {
	st := New(nil)
	outer := st.AddVariable("x", Numeric)
	st.CreateLocalNamespace()
	inner := st.AddVariable("x", String)

	be.True(t, outer.Uses() != inner.Uses())
	v, _ := st.GetVariable("x")
	be.Equal(t, v, inner)

	be.Err(t, st.DisposeLocalNamespace(), nil)
	v, _ = st.GetVariable("x")
	be.Equal(t, v, outer)
}

func TestAssignTarget(t *testing.T) {
	st := New(nil)
	st.AddVariable("x", Numeric)

	v, local, ok := st.AssignTarget("x")
	be.True(t, ok)
	be.True(t, local)
	be.Equal(t, v.Name, "x")

	st.CreateLocalNamespace()
	_, local, ok = st.AssignTarget("x")
	be.True(t, ok)
	be.True(t, !local)

	st.CreateFunctionNamespace()
	_, _, ok = st.AssignTarget("x")
	be.True(t, !ok)
	be.True(t, st.VariableExist("x"))
}

func TestArgumentsCount(t *testing.T) {
	st := New(DefaultBuiltins)
	st.AddFunction(&Function{Name: "one", Arity: 1})
	st.AddFunction(&Function{Name: "two", Arity: 2})

	be.Err(t, st.CheckFunctionArgumentsCount("puts", 0), nil)
	be.Err(t, st.CheckFunctionArgumentsCount("puts", 5), nil)
	be.Err(t, st.CheckFunctionArgumentsCount("one", 1), nil)
	be.Err(t, st.CheckFunctionArgumentsCount("one", 2), "function one expects 1 argument, got 2")
	be.Err(t, st.CheckFunctionArgumentsCount("two", 1), "function two expects 2 arguments, got 1")
	be.Err(t, st.CheckFunctionArgumentsCount("three", 1), "function three is not declared")
}

func TestFunctionRedeclaration(t *testing.T) {
	st := New(nil)
	a := st.AddFunction(&Function{Name: "f"})
	a.Use()
	b := st.AddFunction(&Function{Name: "f", Arity: 1})

	be.Equal(t, b.Uses().Len(), 2)
	be.Equal(t, a.Generation().Count(), 1)
	be.Equal(t, b.Generation().Count(), 0)
}

package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/rex/lib/analyzer"
	"github.com/vyPal/rex/lib/ast"
	rexlex "github.com/vyPal/rex/lib/lexer"
)

// Tokens that end an expression used as a whole statement.
var statementEnd = []rexlex.Symbol{rexlex.NEWLINE, rexlex.SEMICOLON, rexlex.COMMENT, rexlex.EOF}

func (p *Parser) statement() (ast.Node, error) {
	switch p.tok.Symbol {
	case rexlex.NEWLINE:
		return &ast.NewLine{Line: p.tok.Pos.Line}, nil
	case rexlex.COMMENT:
		c := &ast.Comment{Text: p.tok.Value}
		return c, p.next()
	case rexlex.IF:
		return p.ifStatement()
	case rexlex.WHILE, rexlex.UNTIL:
		return p.whileStatement()
	case rexlex.FOR:
		return p.forStatement()
	case rexlex.FUNCTION:
		return p.funcDeclaration()
	case rexlex.RETURN:
		return p.returnStatement()
	case rexlex.NEXT:
		return &ast.Next{}, p.next()
	case rexlex.BREAK:
		return &ast.Break{}, p.next()
	case rexlex.ID:
		return p.identStatement()
	}
	return nil, p.syntaxErrorf("unexpected %s", tokenText(p.tok))
}

// block parses statements up to one of terms, leaving the terminator as the
// current token. Statements after a return are dropped.
func (p *Parser) block(function bool, init func() error, terms ...rexlex.Symbol) (*ast.Block, error) {
	if function {
		p.syms.CreateFunctionNamespace()
	} else {
		p.syms.CreateLocalNamespace()
	}
	p.depth++
	depth := p.depth

	if init != nil {
		if err := init(); err != nil {
			return nil, err
		}
	}

	var stmts []ast.Node
	returned := false
	for !p.at(terms...) {
		if p.at(rexlex.EOF) {
			return nil, p.syntaxErrorf("unexpected end of input, expected %s", describe(terms))
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if returned {
			ast.ReleaseRefs(stmt)
		} else {
			stmts = append(stmts, stmt)
		}
		if _, ok := stmt.(*ast.Return); ok {
			returned = true
		}
		if err := p.terminate(append(terms, rexlex.EOF)...); err != nil {
			return nil, err
		}
	}

	stmts = p.optimize(stmts)
	if err := p.syms.DisposeLocalNamespace(); err != nil {
		return nil, err
	}
	p.depth--
	return &ast.Block{Statements: stmts, Depth: depth}, nil
}

// header consumes the end of an if/while/for header: an optional keyword
// (then/do), an optional comment and a line break.
func (p *Parser) header(keywords ...rexlex.Symbol) error {
	if err := p.require(append(keywords, rexlex.NEWLINE, rexlex.SEMICOLON, rexlex.COMMENT)...); err != nil {
		return err
	}
	if p.at(keywords...) {
		if err := p.next(); err != nil {
			return err
		}
	}
	if p.at(rexlex.COMMENT) {
		if err := p.next(); err != nil {
			return err
		}
	}
	if p.at(rexlex.NEWLINE, rexlex.SEMICOLON) {
		return p.next()
	}
	return nil
}

func (p *Parser) condition(keyword rexlex.Symbol) (ast.Node, error) {
	cond, err := p.arg(false, keyword, rexlex.NEWLINE, rexlex.SEMICOLON, rexlex.COMMENT, rexlex.EOF)
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, p.syntaxErrorf("expected condition, got %s", tokenText(p.tok))
	}
	return cond, nil
}

func (p *Parser) ifStatement() (ast.Node, error) {
	stmt := &ast.If{}
	for p.at(rexlex.IF, rexlex.ELSIF) {
		if err := p.next(); err != nil {
			return nil, err
		}
		cond, err := p.condition(rexlex.THEN)
		if err != nil {
			return nil, err
		}
		if !isLogical(cond) {
			return nil, p.semanticErrorf("condition must be a logical expression, got %s", kindName(cond))
		}
		if err := p.header(rexlex.THEN); err != nil {
			return nil, err
		}
		body, err := p.block(false, nil, rexlex.END, rexlex.ELSIF, rexlex.ELSE)
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, &ast.Branch{Cond: cond, Body: body})
	}

	if p.at(rexlex.ELSE) {
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.header(); err != nil {
			return nil, err
		}
		body, err := p.block(false, nil, rexlex.END)
		if err != nil {
			return nil, err
		}
		stmt.Else = body
	}
	return stmt, p.expect(rexlex.END)
}

func (p *Parser) whileStatement() (ast.Node, error) {
	until := p.at(rexlex.UNTIL)
	if err := p.next(); err != nil {
		return nil, err
	}
	cond, err := p.condition(rexlex.DO)
	if err != nil {
		return nil, err
	}
	if err := p.header(rexlex.DO); err != nil {
		return nil, err
	}
	body, err := p.block(false, nil, rexlex.END)
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Until: until}, p.expect(rexlex.END)
}

func (p *Parser) forStatement() (ast.Node, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	vars, err := p.names(rexlex.IN)
	if err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		return nil, p.syntaxErrorf("expected loop variable, got %s", tokenText(p.tok))
	}
	if err := p.expect(rexlex.IN); err != nil {
		return nil, err
	}
	iterable, err := p.condition(rexlex.DO)
	if err != nil {
		return nil, err
	}
	if err := p.header(rexlex.DO); err != nil {
		return nil, err
	}

	declare := func() error {
		for _, name := range vars {
			p.syms.AddVariable(name, analyzer.Any)
		}
		return nil
	}
	body, err := p.block(false, declare, rexlex.END)
	if err != nil {
		return nil, err
	}
	return &ast.For{Vars: vars, Iterable: iterable, Body: body}, p.expect(rexlex.END)
}

// names reads a comma separated identifier list ending at end.
func (p *Parser) names(end rexlex.Symbol) ([]string, error) {
	var out []string
	if p.at(end) {
		return out, nil
	}
	for {
		if err := p.require(rexlex.ID); err != nil {
			return nil, err
		}
		out = append(out, p.tok.Value)
		if err := p.next(); err != nil {
			return nil, err
		}
		if !p.at(rexlex.COMMA) {
			return out, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) funcDeclaration() (ast.Node, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.require(rexlex.ID); err != nil {
		return nil, err
	}
	name := p.tok.Value
	if err := p.next(); err != nil {
		return nil, err
	}

	var params []string
	if p.at(rexlex.LPAR) {
		if err := p.next(); err != nil {
			return nil, err
		}
		var err error
		if params, err = p.names(rexlex.RPAR); err != nil {
			return nil, err
		}
		if err := p.expect(rexlex.RPAR); err != nil {
			return nil, err
		}
	}
	seen := make(map[string]bool, len(params))
	for _, param := range params {
		if seen[param] {
			return nil, p.semanticErrorf("duplicate parameter %s in function %s", param, name)
		}
		seen[param] = true
	}
	if err := p.terminate(); err != nil {
		return nil, err
	}

	declare := func() error {
		for _, param := range params {
			p.syms.AddVariable(param, analyzer.Any)
		}
		return nil
	}
	body, err := p.block(true, declare, rexlex.END)
	if err != nil {
		return nil, err
	}

	// The function becomes visible only after its body, so it cannot call
	// itself.
	fn := &analyzer.Function{Name: name, Arity: len(params), Returns: analyzer.Any}
	if ret := firstReturn(body); ret != nil && ret.Value != nil {
		fn.Returns = declType(ret.Value)
		fn.ReturnsLogical = isLogical(ret.Value)
	}
	p.syms.AddFunction(fn)

	decl := &ast.FuncDecl{Name: name, Params: params, Body: body, Binding: fn.Generation()}
	return decl, p.expect(rexlex.END)
}

// firstReturn finds the first return in source order, looking into nested
// blocks but not into nested function declarations.
func firstReturn(n ast.Node) *ast.Return {
	switch n := n.(type) {
	case *ast.Return:
		return n
	case *ast.FuncDecl:
		return nil
	}
	for _, c := range n.Children() {
		if ret := firstReturn(c); ret != nil {
			return ret
		}
	}
	return nil
}

func (p *Parser) returnStatement() (ast.Node, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.at(statementEnd...) {
		return &ast.Return{}, nil
	}
	values, err := p.args(false, statementEnd...)
	if err != nil {
		return nil, err
	}
	if len(values) == 1 {
		return &ast.Return{Value: values[0]}, nil
	}
	return &ast.Return{Value: &ast.Array{Elements: values}}, nil
}

func (p *Parser) identStatement() (ast.Node, error) {
	name, pos := p.tok.Value, p.tok.Pos
	if err := p.next(); err != nil {
		return nil, err
	}

	switch p.tok.Symbol {
	case rexlex.LPAR:
		call, err := p.call(name, pos)
		if err != nil {
			return nil, err
		}
		return p.member(call)
	case rexlex.DOT:
		v, err := p.reference(name, pos)
		if err != nil {
			return nil, err
		}
		return p.member(v)
	case rexlex.LBR:
		idx, err := p.index(name, pos)
		if err != nil {
			return nil, err
		}
		if p.at(rexlex.DOT) {
			return p.member(idx)
		}
		return p.assignment(idx, pos)
	}
	return p.assignment(&ast.Variable{Name: name}, pos)
}

var assignOps = map[rexlex.Symbol]ast.AssignOp{
	rexlex.EQUALS:          ast.Assign,
	rexlex.PLUS_EQUALS:     ast.AddAssign,
	rexlex.MINUS_EQUALS:    ast.SubAssign,
	rexlex.ASTERISK_EQUALS: ast.MulAssign,
	rexlex.SLASH_EQUALS:    ast.DivAssign,
	rexlex.MOD_EQUALS:      ast.ModAssign,
	rexlex.DEGREE_EQUALS:   ast.PowAssign,
}

// assignment parses the operator and value of an assignment to target,
// which is either an undeclared *ast.Variable or a resolved *ast.Index.
func (p *Parser) assignment(target ast.Node, pos lexer.Position) (ast.Node, error) {
	op, ok := assignOps[p.tok.Symbol]
	if !ok {
		return nil, p.syntaxErrorf("expected assignment operator, got %s", tokenText(p.tok))
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	value, err := p.arg(false, statementEnd...)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, p.syntaxErrorf("expected expression, got %s", tokenText(p.tok))
	}

	stmt := &ast.AssignStmt{Op: op, Target: target, Value: value}
	v, isVar := target.(*ast.Variable)
	if !isVar {
		return stmt, nil
	}

	if op == ast.Assign {
		existing, local, found := p.syms.AssignTarget(v.Name)
		switch {
		case found && !local:
			// Updating a binding of an enclosing block counts as a use of it.
			v.Type = existing.Type
			v.Ref = existing.Use()
		default:
			decl := p.syms.AddVariable(v.Name, declType(value))
			v.Type = decl.Type
			stmt.Binding = decl.Generation()
		}
		return stmt, nil
	}

	existing, err := p.syms.GetVariable(v.Name)
	if err != nil {
		return nil, reposition(err, pos)
	}
	v.Type = existing.Type
	binOp, _ := op.Binary()
	if err := p.checkOperands(binOp, v, value); err != nil {
		return nil, err
	}
	v.Ref = existing.Use()
	return stmt, nil
}

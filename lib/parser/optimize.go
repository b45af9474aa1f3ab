package parser

import (
	"github.com/vyPal/rex/lib/analyzer"
	"github.com/vyPal/rex/lib/ast"
)

// optimize drops declarations nobody reads and trims blank lines around a
// statement list. Walking backwards lets one pass remove a whole chain of
// declarations that only fed each other.
func (p *Parser) optimize(stmts []ast.Node) []ast.Node {
	if p.cfg.Optimize {
		kept := make([]ast.Node, 0, len(stmts))
		for i := len(stmts) - 1; i >= 0; i-- {
			if unused(stmts[i]) {
				continue
			}
			kept = append(kept, stmts[i])
		}
		for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
			kept[l], kept[r] = kept[r], kept[l]
		}
		stmts = kept
	}

	for len(stmts) > 0 {
		if _, ok := stmts[0].(*ast.NewLine); !ok {
			break
		}
		stmts = stmts[1:]
	}
	for len(stmts) > 0 {
		if _, ok := stmts[len(stmts)-1].(*ast.NewLine); !ok {
			break
		}
		stmts = stmts[:len(stmts)-1]
	}
	return stmts
}

// unused reports whether stmt declares a binding with no remaining uses,
// releasing everything the statement referenced if so.
func unused(stmt ast.Node) bool {
	var binding *analyzer.Generation
	var body ast.Node
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		binding, body = s.Binding, s.Value
	case *ast.FuncDecl:
		binding, body = s.Binding, s.Body
	}
	if binding == nil || binding.Count() != 0 {
		return false
	}
	ast.ReleaseRefs(body)
	binding.Retire()
	return true
}

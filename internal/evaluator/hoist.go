package evaluator

import (
	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/pkg/ast"
)

// hoist implements ES5 §10.5's variable/function instantiation: every
// var-declared name in body (recursing into nested blocks/if/loop/with/
// try/switch bodies, but not into nested function literals) gets a
// mutable binding initialized to undefined unless already bound, and
// every function declaration directly in body gets bound to its closure
// value, overwriting any earlier var placeholder. A function declaration
// nested inside a block (which ES5 doesn't specify) is not bound at all,
// here or when the block runs.
func (e *Evaluator) hoist(body []ast.Statement, scope *env.Environment, strict bool) {
	for _, s := range body {
		hoistVars(s, scope)
	}
	for _, s := range body {
		if fd, ok := s.(*ast.FunctionDeclaration); ok {
			fn := e.MakeFunction(fd.Function, scope)
			setMutable(scope, fd.Function.Name, fn, false)
		}
	}
}

func hoistVars(s ast.Statement, scope *env.Environment) {
	switch n := s.(type) {
	case *ast.VariableStatement:
		for _, d := range n.Declarations {
			if !scope.Record.HasBinding(d.Name) {
				scope.Record.CreateMutableBinding(d.Name, false)
			}
		}
	case *ast.BlockStatement:
		for _, st := range n.Body {
			hoistVars(st, scope)
		}
	case *ast.IfStatement:
		hoistVars(n.Consequent, scope)
		if n.Alternate != nil {
			hoistVars(n.Alternate, scope)
		}
	case *ast.WhileStatement:
		hoistVars(n.Body, scope)
	case *ast.DoWhileStatement:
		hoistVars(n.Body, scope)
	case *ast.ForStatement:
		if vs, ok := n.Init.(*ast.VariableStatement); ok {
			hoistVars(vs, scope)
		}
		hoistVars(n.Body, scope)
	case *ast.ForInStatement:
		if vs, ok := n.Left.(*ast.VariableStatement); ok {
			hoistVars(vs, scope)
		}
		hoistVars(n.Body, scope)
	case *ast.WithStatement:
		hoistVars(n.Body, scope)
	case *ast.LabeledStatement:
		hoistVars(n.Body, scope)
	case *ast.TryStatement:
		hoistVars(n.Block, scope)
		if n.Handler != nil {
			hoistVars(n.Handler.Body, scope)
		}
		if n.Finalizer != nil {
			hoistVars(n.Finalizer, scope)
		}
	case *ast.SwitchStatement:
		for _, c := range n.Cases {
			for _, st := range c.Consequent {
				hoistVars(st, scope)
			}
		}
	}
}

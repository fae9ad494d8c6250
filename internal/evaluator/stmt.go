package evaluator

import (
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
)

// Run evaluates a whole program as global code: hoists var/function
// declarations into the global environment, then runs each statement in
// order, returning the last ExpressionStatement's value per the
// completion-propagation rule eval() and the top-level program both
// follow (ES5 §14).
func (e *Evaluator) Run(prog *ast.Program) (value.Value, error) {
	e.hoist(prog.Body, e.GlobalEnv, false)
	comp, err := e.evalStatementList(prog.Body)
	if err != nil {
		return value.Undefined, err
	}
	return comp.Value, nil
}

func (e *Evaluator) evalStatementList(body []ast.Statement) (Completion, error) {
	result := normal()
	for _, s := range body {
		comp, err := e.evalStatement(s)
		if err != nil {
			return Completion{}, err
		}
		if comp.Kind != Normal {
			return comp, nil
		}
		if !comp.Value.IsNothing() {
			result.Value = comp.Value
		}
	}
	return result, nil
}

func (e *Evaluator) evalStatement(s ast.Statement) (Completion, error) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		v, err := e.evalExpr(n.Expression)
		if err != nil {
			return Completion{}, err
		}
		return Completion{Kind: Normal, Value: v}, nil
	case *ast.EmptyStatement, *ast.DebuggerStatement, *ast.FunctionDeclaration:
		return normal(), nil
	case *ast.BlockStatement:
		return e.evalStatementList(n.Body)
	case *ast.VariableStatement:
		for _, d := range n.Declarations {
			if d.Init == nil {
				continue
			}
			v, err := e.evalExpr(d.Init)
			if err != nil {
				return Completion{}, err
			}
			ref := e.resolveIdentifier(d.Name)
			if err := e.setReference(ref, v); err != nil {
				return Completion{}, err
			}
		}
		return normal(), nil
	case *ast.IfStatement:
		test, err := e.evalExpr(n.Test)
		if err != nil {
			return Completion{}, err
		}
		if ops.ToBoolean(e.Heap, test) {
			return e.evalStatement(n.Consequent)
		}
		if n.Alternate != nil {
			return e.evalStatement(n.Alternate)
		}
		return normal(), nil
	case *ast.WhileStatement:
		return e.evalWhile(n, "")
	case *ast.DoWhileStatement:
		return e.evalDoWhile(n, "")
	case *ast.ForStatement:
		return e.evalFor(n, "")
	case *ast.ForInStatement:
		return e.evalForIn(n, "")
	case *ast.ReturnStatement:
		v := value.Undefined
		if n.Argument != nil {
			var err error
			v, err = e.evalExpr(n.Argument)
			if err != nil {
				return Completion{}, err
			}
		}
		return Completion{Kind: Return, Value: v}, nil
	case *ast.BreakStatement:
		return Completion{Kind: Break, Target: n.Label}, nil
	case *ast.ContinueStatement:
		return Completion{Kind: Continue, Target: n.Label}, nil
	case *ast.ThrowStatement:
		v, err := e.evalExpr(n.Argument)
		if err != nil {
			return Completion{}, err
		}
		return Completion{}, &thrownValue{v}
	case *ast.WithStatement:
		return e.evalWith(n)
	case *ast.TryStatement:
		return e.evalTry(n)
	case *ast.SwitchStatement:
		return e.evalSwitch(n)
	case *ast.LabeledStatement:
		return e.evalLabeled(n)
	}
	return Completion{}, e.Heap.Throw("SyntaxError", "unsupported statement node")
}

// thrownValue wraps a thrown script value that is not itself an
// object.ThrownError (e.g. `throw "boom";` or `throw 42;`, valid per
// ES5 §12.13 though almost every real-world throw uses an Error
// object). object.Heap.Throw only ever constructs Error objects, so a
// primitive or non-Error throw needs its own carrier satisfying error
// for the same try/catch plumbing to intercept it uniformly.
type thrownValue struct{ value.Value }

func (t *thrownValue) Error() string { return "script exception" }

func (e *Evaluator) evalWith(w *ast.WithStatement) (Completion, error) {
	obj, err := e.evalExpr(w.Object)
	if err != nil {
		return Completion{}, err
	}
	boxed, err := ops.ToObject(e.Heap, obj, e.protoFor)
	if err != nil {
		return Completion{}, err
	}
	cur := e.ctx()
	withEnv := env.NewObjectEnvironment(e.Heap, boxed, cur.LexicalEnv, true)
	e.Contexts.Push(&context.Context{
		Kind:        context.KindWith,
		LexicalEnv:  withEnv,
		VariableEnv: cur.VariableEnv,
		ThisBinding: cur.ThisBinding,
		Strict:      cur.Strict,
	})
	defer e.Contexts.Pop()
	return e.evalStatement(w.Body)
}

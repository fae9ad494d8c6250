package evaluator

import (
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
)

func (e *Evaluator) evalArgs(args []ast.Expression) ([]value.Value, error) {
	out := make([]value.Value, len(args))
	for i, a := range args {
		v, err := e.evalExpr(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalCall implements the "by value"/"by key"/"by name" call-dispatch
// distinction: a MemberExpression callee calls "by key" with the
// object as this-value; a bare Identifier callee calls "by name"
// through the lexical environment, with direct-eval recognized when the
// name is literally "eval"; anything else evaluates to a value and
// calls "by value" with undefined this.
func (e *Evaluator) evalCall(c *ast.CallExpression) (value.Value, error) {
	args, err := e.evalArgs(c.Arguments)
	if err != nil {
		return value.Undefined, err
	}

	switch callee := c.Callee.(type) {
	case *ast.MemberExpression:
		ref, err := e.evalMemberReference(callee)
		if err != nil {
			return value.Undefined, err
		}
		fn, err := e.getReference(ref, "")
		if err != nil {
			return value.Undefined, err
		}
		return e.CallValue(fn, ref.base, args, false)
	case *ast.Identifier:
		ref := e.resolveIdentifier(callee.Name)
		fn, err := e.getReference(ref, callee.Name)
		if err != nil {
			return value.Undefined, err
		}
		this := value.Undefined
		if ref.env != nil {
			this = ref.env.Record.ImplicitThisValue()
		}
		if callee.Name == "eval" {
			return e.callEval(fn, args, true)
		}
		return e.CallValue(fn, this, args, false)
	default:
		fn, err := e.evalExpr(c.Callee)
		if err != nil {
			return value.Undefined, err
		}
		return e.CallValue(fn, value.Undefined, args, false)
	}
}

func (e *Evaluator) evalNew(n *ast.NewExpression) (value.Value, error) {
	fn, err := e.evalExpr(n.Callee)
	if err != nil {
		return value.Undefined, err
	}
	args, err := e.evalArgs(n.Arguments)
	if err != nil {
		return value.Undefined, err
	}
	return e.Construct(fn, args)
}

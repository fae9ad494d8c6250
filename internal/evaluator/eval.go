package evaluator

import (
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
)

// Parse turns eval's argument string into a Program. The parser itself
// is out of scope for this runtime (spec §1 lists it as an external
// collaborator) — by default this decodes the string the same way every
// other program reaches this runtime, as a JSON-encoded AST (pkg/ast's
// own wire format); callers embedding a real text parser replace this
// field before running any script that calls eval.
var Parse func(source string) (*ast.Program, error) = func(source string) (*ast.Program, error) {
	return ast.Decode([]byte(source))
}

// callEval implements ES5 §15.1.2.1: a non-string argument returns
// unchanged; direct calls (isDirect true, meaning eval was invoked by
// the literal name "eval" in the current scope per §15.1.2.1.1) run in
// the calling context's variable/lexical environment and strict mode;
// indirect calls always run as fresh non-strict global code.
func (e *Evaluator) callEval(fn value.Value, args []value.Value, isDirect bool) (value.Value, error) {
	if len(args) == 0 || !args[0].IsString() {
		if len(args) == 0 {
			return value.Undefined, nil
		}
		return args[0], nil
	}
	src := e.Heap.Pool().Lookup(args[0].AsStringID())
	prog, err := Parse(src)
	if err != nil {
		return value.Undefined, e.Heap.Throw("SyntaxError", "%s", err.Error())
	}

	cur := e.ctx()
	lexical, variable, this, strict := cur.LexicalEnv, cur.VariableEnv, cur.ThisBinding, cur.Strict
	if !isDirect {
		lexical, variable, this, strict = e.GlobalEnv, e.GlobalEnv, e.GlobalObject, false
	}
	e.Contexts.Push(&context.Context{
		Kind:        context.KindEval,
		LexicalEnv:  lexical,
		VariableEnv: variable,
		ThisBinding: this,
		Strict:      strict,
	})
	defer e.Contexts.Pop()

	if strict {
		// Strict eval code gets its own fresh variable environment
		// (ES5 §10.4.2.1 step 3) so declarations don't leak to the
		// caller.
		scope := env.NewDeclarativeEnvironment(lexical)
		e.Contexts.Current().LexicalEnv = scope
		e.Contexts.Current().VariableEnv = scope
	}

	e.hoist(prog.Body, e.Contexts.Current().VariableEnv, strict)
	comp, err := e.evalStatementList(prog.Body)
	if err != nil {
		return value.Undefined, err
	}
	return comp.Value, nil
}

package evaluator

import (
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
)

// thrownOf extracts the script-facing value carried by err, if err
// represents a thrown value rather than some other Go error (there
// should be no other kind reaching this layer, but the type switch is
// exhaustive about the two carriers this package and internal/object
// produce).
func thrownOf(err error) (value.Value, bool) {
	switch e := err.(type) {
	case *object.ThrownError:
		return e.Value, true
	case *thrownValue:
		return e.Value, true
	}
	return value.Undefined, false
}

// loopBody runs body once, translating an unlabeled continue (or one
// targeting label) into "keep looping" and an unlabeled break (or one
// targeting label) into "stop, normally". Any other completion
// (labeled break/continue for an outer loop, return, throw) propagates
// unchanged by returning stop=true and the completion/error as given.
func loopBody(body Completion, err error, label string) (stop bool, result Completion, propErr error) {
	if err != nil {
		return true, Completion{}, err
	}
	switch body.Kind {
	case Break:
		if body.Target == "" || body.Target == label {
			return true, normal(), nil
		}
		return true, body, nil
	case Continue:
		if body.Target == "" || body.Target == label {
			return false, normal(), nil
		}
		return true, body, nil
	case Return:
		return true, body, nil
	}
	return false, normal(), nil
}

func (e *Evaluator) evalWhile(w *ast.WhileStatement, label string) (Completion, error) {
	for {
		test, err := e.evalExpr(w.Test)
		if err != nil {
			return Completion{}, err
		}
		if !ops.ToBoolean(e.Heap, test) {
			return normal(), nil
		}
		comp, err := e.evalStatement(w.Body)
		if stop, result, propErr := loopBody(comp, err, label); stop || propErr != nil {
			return result, propErr
		}
	}
}

func (e *Evaluator) evalDoWhile(w *ast.DoWhileStatement, label string) (Completion, error) {
	for {
		comp, err := e.evalStatement(w.Body)
		if stop, result, propErr := loopBody(comp, err, label); stop || propErr != nil {
			return result, propErr
		}
		test, err := e.evalExpr(w.Test)
		if err != nil {
			return Completion{}, err
		}
		if !ops.ToBoolean(e.Heap, test) {
			return normal(), nil
		}
	}
}

func (e *Evaluator) evalFor(f *ast.ForStatement, label string) (Completion, error) {
	switch init := f.Init.(type) {
	case *ast.VariableStatement:
		if _, err := e.evalStatement(init); err != nil {
			return Completion{}, err
		}
	case ast.Expression:
		if _, err := e.evalExpr(init); err != nil {
			return Completion{}, err
		}
	}
	for {
		if f.Test != nil {
			test, err := e.evalExpr(f.Test)
			if err != nil {
				return Completion{}, err
			}
			if !ops.ToBoolean(e.Heap, test) {
				return normal(), nil
			}
		}
		comp, err := e.evalStatement(f.Body)
		if stop, result, propErr := loopBody(comp, err, label); stop || propErr != nil {
			return result, propErr
		}
		if f.Update != nil {
			if _, err := e.evalExpr(f.Update); err != nil {
				return Completion{}, err
			}
		}
	}
}

func (e *Evaluator) evalForIn(f *ast.ForInStatement, label string) (Completion, error) {
	right, err := e.evalExpr(f.Right)
	if err != nil {
		return Completion{}, err
	}
	if right.IsNullOrUndefined() {
		return normal(), nil
	}
	boxed, err := ops.ToObject(e.Heap, right, e.protoFor)
	if err != nil {
		return Completion{}, err
	}

	var varName string
	switch left := f.Left.(type) {
	case *ast.VariableStatement:
		varName = left.Declarations[0].Name
		ref := e.resolveIdentifier(varName)
		if err := e.setReference(ref, value.Undefined); err != nil {
			return Completion{}, err
		}
	case *ast.Identifier:
		varName = left.Name
	}

	seen := make(map[uint64]bool)
	for cur := boxed; cur.IsObject(); {
		o := e.Heap.Resolve(cur)
		for _, key := range o.OwnPropertyKeys() {
			if seen[key.Bits()] {
				continue
			}
			seen[key.Bits()] = true
			prop, _, found := o.GetProperty(e.Heap, key)
			if !found || !prop.Enumerable {
				continue
			}
			keyStr := value.FromStringID(key.ToStringID(e.Heap.Pool()))
			ref := e.resolveIdentifier(varName)
			if err := e.setReference(ref, keyStr); err != nil {
				return Completion{}, err
			}
			comp, err := e.evalStatement(f.Body)
			if stop, result, propErr := loopBody(comp, err, label); stop || propErr != nil {
				return result, propErr
			}
		}
		cur = o.Proto
	}
	return normal(), nil
}

func (e *Evaluator) evalSwitch(sw *ast.SwitchStatement) (Completion, error) {
	disc, err := e.evalExpr(sw.Discriminant)
	if err != nil {
		return Completion{}, err
	}
	matched := -1
	defaultIdx := -1
	for i, c := range sw.Cases {
		if c.Test == nil {
			defaultIdx = i
			continue
		}
		tv, err := e.evalExpr(c.Test)
		if err != nil {
			return Completion{}, err
		}
		if ops.StrictEquals(e.Heap, disc, tv) {
			matched = i
			break
		}
	}
	start := matched
	if start == -1 {
		start = defaultIdx
	}
	if start == -1 {
		return normal(), nil
	}
	for i := start; i < len(sw.Cases); i++ {
		for _, s := range sw.Cases[i].Consequent {
			comp, err := e.evalStatement(s)
			if err != nil {
				return Completion{}, err
			}
			if comp.Kind == Break && comp.Target == "" {
				return normal(), nil
			}
			if comp.Kind != Normal {
				return comp, nil
			}
		}
	}
	return normal(), nil
}

func (e *Evaluator) evalLabeled(l *ast.LabeledStatement) (Completion, error) {
	var comp Completion
	var err error
	switch body := l.Body.(type) {
	case *ast.WhileStatement:
		comp, err = e.evalWhile(body, l.Label)
	case *ast.DoWhileStatement:
		comp, err = e.evalDoWhile(body, l.Label)
	case *ast.ForStatement:
		comp, err = e.evalFor(body, l.Label)
	case *ast.ForInStatement:
		comp, err = e.evalForIn(body, l.Label)
	default:
		comp, err = e.evalStatement(l.Body)
	}
	if err != nil {
		return Completion{}, err
	}
	if comp.Kind == Break && comp.Target == l.Label {
		return normal(), nil
	}
	return comp, nil
}

func (e *Evaluator) evalTry(t *ast.TryStatement) (Completion, error) {
	comp, err := e.evalStatement(t.Block)

	if err != nil && t.Handler != nil {
		thrown, ok := thrownOf(err)
		if !ok {
			if t.Finalizer != nil {
				if fc, ferr := e.evalStatement(t.Finalizer); ferr != nil || fc.Kind != Normal {
					return fc, ferr
				}
			}
			return Completion{}, err
		}
		cur := e.ctx()
		catchEnv := env.NewDeclarativeEnvironment(cur.LexicalEnv)
		catchEnv.Record.CreateMutableBinding(t.Handler.Param, true)
		_ = catchEnv.Record.SetMutableBinding(t.Handler.Param, thrown, false)
		e.Contexts.Push(&context.Context{
			Kind:        context.KindCatch,
			LexicalEnv:  catchEnv,
			VariableEnv: cur.VariableEnv,
			ThisBinding: cur.ThisBinding,
			Strict:      cur.Strict,
		})
		comp, err = e.evalStatement(t.Handler.Body)
		e.Contexts.Pop()
	}

	if t.Finalizer != nil {
		fc, ferr := e.evalStatement(t.Finalizer)
		if ferr != nil || fc.Kind != Normal {
			return fc, ferr
		}
	}
	return comp, err
}

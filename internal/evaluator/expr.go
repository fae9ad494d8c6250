package evaluator

import (
	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
)

// reference is an ES5 §8.7 Reference: either a named binding in env, or
// a property key on a base object. Evaluated separately from plain
// values so assignment and delete/typeof can special-case unresolvable
// and environment-record references without re-deriving them.
type reference struct {
	isEnv bool
	env   *env.Environment // isEnv: the resolved environment (nil if unresolvable)
	name  string            // isEnv: the binding name

	base value.Value // !isEnv: the object the property lives on
	key  propkey.Key // !isEnv: the property key
}

func (e *Evaluator) evalExpr(n ast.Expression) (value.Value, error) {
	switch x := n.(type) {
	case *ast.NumberLiteral:
		return value.FromNumber(x.Value), nil
	case *ast.StringLiteral:
		return value.FromStringID(e.Heap.Pool().Intern(x.Value)), nil
	case *ast.BooleanLiteral:
		return value.FromBool(x.Value), nil
	case *ast.NullLiteral:
		return value.Null, nil
	case *ast.ThisExpression:
		return e.ctx().ThisBinding, nil
	case *ast.Identifier:
		ref := e.resolveIdentifier(x.Name)
		return e.getReference(ref, x.Name)
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(x)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(x)
	case *ast.FunctionExpression:
		return e.evalFunctionExpression(x)
	case *ast.RegExpLiteral:
		return e.evalRegExpLiteral(x)
	case *ast.UnaryExpression:
		return e.evalUnary(x)
	case *ast.UpdateExpression:
		return e.evalUpdate(x)
	case *ast.BinaryExpression:
		return e.evalBinary(x)
	case *ast.LogicalExpression:
		return e.evalLogical(x)
	case *ast.AssignmentExpression:
		return e.evalAssignment(x)
	case *ast.ConditionalExpression:
		test, err := e.evalExpr(x.Test)
		if err != nil {
			return value.Undefined, err
		}
		if ops.ToBoolean(e.Heap, test) {
			return e.evalExpr(x.Consequent)
		}
		return e.evalExpr(x.Alternate)
	case *ast.CallExpression:
		return e.evalCall(x)
	case *ast.NewExpression:
		return e.evalNew(x)
	case *ast.MemberExpression:
		ref, err := e.evalMemberReference(x)
		if err != nil {
			return value.Undefined, err
		}
		return e.getReference(ref, "")
	case *ast.SequenceExpression:
		var last value.Value = value.Undefined
		for _, ex := range x.Expressions {
			v, err := e.evalExpr(ex)
			if err != nil {
				return value.Undefined, err
			}
			last = v
		}
		return last, nil
	}
	return value.Undefined, e.Heap.Throw("SyntaxError", "unsupported expression node")
}

func (e *Evaluator) resolveIdentifier(name string) reference {
	if found := env.Resolve(e.ctx().LexicalEnv, name); found != nil {
		return reference{isEnv: true, env: found, name: name}
	}
	return reference{isEnv: true, env: nil, name: name}
}

func (e *Evaluator) getReference(ref reference, name string) (value.Value, error) {
	if ref.isEnv {
		if ref.env == nil {
			return value.Undefined, e.Heap.Throw("ReferenceError", "%s is not defined", ref.name)
		}
		v, err := ref.env.Record.GetBindingValue(ref.name, e.ctx().Strict)
		if err != nil {
			return value.Undefined, e.Heap.Throw("ReferenceError", "%s", err.Error())
		}
		return v, nil
	}
	getter := func(fn, this value.Value) (value.Value, error) { return e.CallValue(fn, this, nil, false) }
	return e.Heap.Resolve(ref.base).Get(e.Heap, ref.key, getter)
}

func (e *Evaluator) setReference(ref reference, v value.Value) error {
	if ref.isEnv {
		if ref.env == nil {
			// Unresolvable identifier assignment creates an implicit
			// global var in non-strict mode, ES5 Annex C/§11.13.1.
			if e.ctx().Strict {
				return e.Heap.Throw("ReferenceError", "%s is not defined", ref.name)
			}
			setMutable(e.GlobalEnv, ref.name, v, true)
			return nil
		}
		if err := ref.env.Record.SetMutableBinding(ref.name, v, e.ctx().Strict); err != nil {
			return e.Heap.Throw("TypeError", "%s", err.Error())
		}
		return nil
	}
	setter := func(fn, this value.Value, args []value.Value) error {
		_, err := e.CallValue(fn, this, args, false)
		return err
	}
	return e.Heap.Resolve(ref.base).Put(e.Heap, ref.key, v, e.ctx().Strict, setter)
}

func (e *Evaluator) evalMemberReference(m *ast.MemberExpression) (reference, error) {
	obj, err := e.evalExpr(m.Object)
	if err != nil {
		return reference{}, err
	}
	var keyStr string
	if m.Computed {
		pv, err := e.evalExpr(m.Property)
		if err != nil {
			return reference{}, err
		}
		sv, err := ops.ToStringValue(e.Heap, pv, e)
		if err != nil {
			return reference{}, err
		}
		keyStr = e.Heap.Pool().Lookup(sv.AsStringID())
	} else {
		keyStr = m.Property.(*ast.Identifier).Name
	}
	if obj.IsNullOrUndefined() {
		return reference{}, e.Heap.Throw("TypeError", "cannot read property %q of %s", keyStr, ops.Typeof(e.Heap, obj))
	}
	boxed, err := ops.ToObject(e.Heap, obj, e.protoFor)
	if err != nil {
		return reference{}, err
	}
	return reference{base: boxed, key: e.key(keyStr)}, nil
}

func (e *Evaluator) evalArrayLiteral(a *ast.ArrayLiteral) (value.Value, error) {
	elems := make([]value.Value, len(a.Elements))
	for i, el := range a.Elements {
		if el == nil {
			elems[i] = value.Undefined
			continue
		}
		v, err := e.evalExpr(el)
		if err != nil {
			return value.Undefined, err
		}
		elems[i] = v
	}
	return e.Heap.NewArray(e.Protos[object.ClassArray], elems), nil
}

func (e *Evaluator) evalObjectLiteral(o *ast.ObjectLiteral) (value.Value, error) {
	obj := e.Heap.NewPlainObject(e.Protos[object.ClassObject])
	resolved := e.Heap.Resolve(obj)
	for _, p := range o.Properties {
		var keyStr string
		switch k := p.Key.(type) {
		case *ast.Identifier:
			keyStr = k.Name
		case *ast.StringLiteral:
			keyStr = k.Value
		case *ast.NumberLiteral:
			keyStr = ops.NumberToString(k.Value)
		}
		key := e.key(keyStr)
		switch p.Kind {
		case ast.PropertyGet, ast.PropertySet:
			fnExpr := p.Value.(*ast.FunctionExpression)
			fn, err := e.evalFunctionExpression(fnExpr)
			if err != nil {
				return value.Undefined, err
			}
			desc := propmap.Descriptor{HasEnumerable: true, Enumerable: true, HasConfigurable: true, Configurable: true}
			if existing := resolved.Props.Lookup(key); existing.Valid() && existing.Get().IsAccessor {
				cur := existing.Get()
				desc.HasGetter, desc.Getter = true, cur.Getter
				desc.HasSetter, desc.Setter = true, cur.Setter
			}
			if p.Kind == ast.PropertyGet {
				desc.HasGetter, desc.Getter = true, fn
			} else {
				desc.HasSetter, desc.Setter = true, fn
			}
			resolved.DefineOwnProperty(e.Heap, key, desc, false)
		default:
			v, err := e.evalExpr(p.Value)
			if err != nil {
				return value.Undefined, err
			}
			setter := func(fn, this value.Value, args []value.Value) error {
				_, err := e.CallValue(fn, this, args, false)
				return err
			}
			if err := resolved.Put(e.Heap, key, v, false, setter); err != nil {
				return value.Undefined, err
			}
		}
	}
	return obj, nil
}

func (e *Evaluator) evalFunctionExpression(fe *ast.FunctionExpression) (value.Value, error) {
	scope := e.ctx().LexicalEnv
	if fe.Name != "" {
		// Named function expression: its own name is bound, immutably,
		// in a fresh scope wrapping the closure (ES5 §13's NFE self-
		// reference), so the function can recurse by its own name.
		scope = env.NewDeclarativeEnvironment(scope)
	}
	fn := e.MakeFunction(fe, scope)
	if fe.Name != "" {
		if r, ok := scope.Record.(interface {
			CreateImmutableBinding(name string)
			InitializeImmutableBinding(name string, v value.Value)
		}); ok {
			r.CreateImmutableBinding(fe.Name)
			r.InitializeImmutableBinding(fe.Name, fn)
		}
	}
	return fn, nil
}

func (e *Evaluator) evalRegExpLiteral(r *ast.RegExpLiteral) (value.Value, error) {
	data, err := compileRegExp(r.Pattern, r.Flags)
	if err != nil {
		return value.Undefined, e.Heap.Throw("SyntaxError", "invalid regular expression: %s", err.Error())
	}
	return e.Heap.NewRegExp(e.Protos[object.ClassRegExp], data), nil
}

package evaluator

import (
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/frame"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
)

// scriptBody is what this evaluator stores in FunctionData.Body/Closure
// for a non-native function: its statement list and defining lexical
// environment. object.FunctionData keeps these as opaque `any` fields
// precisely so only this package needs to know the concrete shape.
type scriptBody struct {
	Params []string
	Body   []ast.Statement
	Scope  *env.Environment
	Strict bool
}

// MakeFunction allocates a Function object wrapping a script function
// literal, capturing the current lexical environment as its closure
// scope per ES5 §13.2.
func (e *Evaluator) MakeFunction(lit *ast.FunctionExpression, scope *env.Environment) value.Value {
	data := &object.FunctionData{
		Name:          lit.Name,
		Params:        lit.Params,
		Strict:        lit.Strict,
		Constructable: true,
		Body:          scriptBody{Params: lit.Params, Body: lit.Body, Scope: scope, Strict: lit.Strict},
	}
	proto := e.Protos[object.ClassFunction]
	fn := e.Heap.NewFunction(proto, data, len(lit.Params))

	// Every function gets a fresh, writable, non-enumerable,
	// non-configurable "prototype" object per ES5 §13.2 step 16-17,
	// itself carrying a non-enumerable "constructor" back-pointer.
	protoObj := e.Heap.NewPlainObject(e.Protos[object.ClassObject])
	e.Heap.Resolve(protoObj).DefineOwnProperty(e.Heap, e.key("constructor"), fullDesc(fn, true, false, true), false)
	e.Heap.Resolve(fn).DefineOwnProperty(e.Heap, e.key("prototype"), fullDesc(protoObj, true, false, false), false)
	return fn
}

func fullDesc(v value.Value, w, en, cfg bool) propmap.Descriptor {
	return propmap.Descriptor{HasValue: true, Value: v, HasWritable: true, Writable: w,
		HasEnumerable: true, Enumerable: en, HasConfigurable: true, Configurable: cfg}
}

func (e *Evaluator) key(name string) propkey.Key { return propkey.FromString(e.Heap.Pool(), name) }

// CallValue invokes fn (already-evaluated) with this/args, per ES5
// §13.2.1's [[Call]]. isConstruct is false for a plain call.
func (e *Evaluator) CallValue(fn, this value.Value, args []value.Value, isConstruct bool) (value.Value, error) {
	if !fn.IsObject() || e.Heap.Resolve(fn).Class != object.ClassFunction {
		return value.Undefined, e.Heap.Throw("TypeError", "value is not a function")
	}
	target, boundThis, prepend := e.Heap.BoundTargetChain(fn)
	if !target.RawEquals(fn) {
		this = boundThis
		args = append(append([]value.Value{}, prepend...), args...)
	}
	data := e.Heap.Resolve(target).Func

	if e.Frames.WillOverflow() {
		return value.Undefined, e.Heap.Throw("RangeError", "maximum call stack size exceeded")
	}

	if data.IsNative {
		return data.NativeFn(e.Heap, this, args)
	}

	body, ok := data.Body.(scriptBody)
	if !ok {
		return value.Undefined, e.Heap.Throw("TypeError", "function has no callable body")
	}

	if !body.Strict {
		if this.IsNullOrUndefined() {
			this = e.GlobalObject
		} else if this.IsPrimitive() {
			boxed, err := ops.ToObject(e.Heap, this, e.protoFor)
			if err != nil {
				return value.Undefined, err
			}
			this = boxed
		}
	}

	fr := &frame.Frame{FunctionName: data.Name, This: this, Args: append([]value.Value{}, args...)}
	if err := e.Frames.Push(fr); err != nil {
		return value.Undefined, e.Heap.Throw("RangeError", "%s", err.Error())
	}
	defer e.Frames.Pop()

	scope := env.NewDeclarativeEnvironment(body.Scope)
	fr.Vars = scope
	bindParams(scope, body.Params, args)

	argsProto := e.Protos[object.ClassArguments]
	argumentsObj := frame.MaterializeArguments(e.Heap, argsProto, fr, body.Params, body.Strict)
	declBindArg(scope, "arguments", argumentsObj)

	e.Contexts.Push(&context.Context{
		Kind:        context.KindFunction,
		LexicalEnv:  scope,
		VariableEnv: scope,
		ThisBinding: this,
		Strict:      body.Strict,
	})
	defer e.Contexts.Pop()

	e.hoist(body.Body, scope, body.Strict)

	comp, err := e.evalStatementList(body.Body)
	if err != nil {
		return value.Undefined, err
	}
	if comp.Kind == Return {
		return comp.Value, nil
	}
	if isConstruct {
		return this, nil
	}
	return value.Undefined, nil
}

// declBindArg installs a mutable, non-deletable binding directly
// (bypassing CreateMutableBinding+SetMutableBinding's two steps) by
// reaching into the declarative record's Link helper, used for the
// "arguments" object and function parameters alike.
func declBindArg(scope *env.Environment, name string, v value.Value) {
	if l, ok := scope.Record.(linkable); ok {
		l.Link(name, v)
	}
}

func bindParams(scope *env.Environment, names []string, args []value.Value) {
	for i, name := range names {
		if name == "" {
			continue
		}
		var v value.Value = value.Undefined
		if i < len(args) {
			v = args[i]
		}
		declBindArg(scope, name, v)
	}
}

// Construct implements ES5 §13.2.2's [[Construct]]: allocates a fresh
// object whose prototype is fn's "prototype" property (or
// Object.prototype if that property isn't itself an object), invokes fn
// with that object as `this`, and returns the constructor's own return
// value if it returned an object, else the freshly allocated one.
func (e *Evaluator) Construct(fn value.Value, args []value.Value) (value.Value, error) {
	if !fn.IsObject() || e.Heap.Resolve(fn).Class != object.ClassFunction {
		return value.Undefined, e.Heap.Throw("TypeError", "value is not a constructor")
	}
	if !e.Heap.Resolve(fn).Func.Constructable {
		return value.Undefined, e.Heap.Throw("TypeError", "value is not a constructor")
	}
	protoKey := e.key("prototype")
	protoVal, err := e.Heap.Resolve(fn).Get(e.Heap, protoKey, func(f, this value.Value) (value.Value, error) {
		return e.CallValue(f, this, nil, false)
	})
	if err != nil {
		return value.Undefined, err
	}
	proto := e.Protos[object.ClassObject]
	if protoVal.IsObject() {
		proto = protoVal
	}
	this := e.Heap.NewPlainObject(proto)
	result, err := e.CallValue(fn, this, args, true)
	if err != nil {
		return value.Undefined, err
	}
	if result.IsObject() {
		return result, nil
	}
	return this, nil
}

func (e *Evaluator) protoFor(c object.ClassTag) value.Value { return e.Protos[c] }

// ProtoFor is protoFor's exported form, matching the
// `func(object.ClassTag) value.Value` shape ops.ToObject expects, for
// callers outside this package (builtins) that also need to box
// primitives.
func (e *Evaluator) ProtoFor(c object.ClassTag) value.Value { return e.protoFor(c) }

// CallByKey implements the "by key" call-dispatch mode (callee computed
// as obj[key]), calling the looked-up value with obj as `this`; it has no
// direct-eval handling.
func (e *Evaluator) CallByKey(obj value.Value, key propkey.Key, args []value.Value) (value.Value, error) {
	target, err := e.Heap.Resolve(obj).Get(e.Heap, key, func(f, this value.Value) (value.Value, error) {
		return e.CallValue(f, this, nil, false)
	})
	if err != nil {
		return value.Undefined, err
	}
	return e.CallValue(target, obj, args, false)
}

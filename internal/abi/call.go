// Call primitives (spec §6): the four call-dispatch shapes a compiled
// CallExpression lowers to, depending on how its callee was resolved.
package abi

import (
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/icache"
	"github.com/cwbudde/esrt/internal/value"
)

// Call is call: invokes fn with the given this/args, a plain function
// call whose callee was already resolved by the caller (e.g. an
// identifier looked up through ctx_get).
func Call(ctx *context.Context, fn, this value.Value, args []value.Value) (value.Value, bool) {
	_ = ctx
	e := engineInstance()
	v, err := e.Evaluator.CallValue(fn, this, args, false)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return v, true
}

// CallKeyed is call_keyed: resolves the callee as obj[name] and invokes
// it with obj as `this` (ES5 §11.2.3's method-call shape,
// `obj.method(...)`).
func CallKeyed(ctx *context.Context, obj value.Value, name string, args []value.Value) (value.Value, bool) {
	_ = ctx
	e := engineInstance()
	h := e.Evaluator.Heap
	v, err := e.Evaluator.CallByKey(obj, keyOf(h, name), args)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return v, true
}

// CallNamed is call_named: resolves name against ctx's lexical
// environment chain (an ordinary identifier-callee, `foo(...)`), then
// invokes it with `this` unbound (undefined, boxed to the global object
// by CallValue for non-strict callees per spec §4.F).
func CallNamed(ctx *context.Context, name string, cid icache.Site, args []value.Value) (value.Value, bool) {
	fn, ok := CtxGet(ctx, name, cid)
	if !ok {
		return value.Undefined, false
	}
	return Call(ctx, fn, value.Undefined, args)
}

// CallNew is call_new: invokes fn as a constructor (ES5 §13.2.2's
// [[Construct]]), returning the freshly allocated or explicitly
// returned object.
func CallNew(ctx *context.Context, fn value.Value, args []value.Value) (value.Value, bool) {
	_ = ctx
	e := engineInstance()
	v, err := e.Evaluator.Construct(fn, args)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return v, true
}

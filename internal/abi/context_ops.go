// Context primitives (spec §6): ctx_get/put/del resolve and mutate
// identifier bindings, ctx_enter_with/catch push a temporary lexical
// scope, ctx_leave pops it, and ctx_decl_*/ctx_link_* implement ES5
// §10.5's two-phase declaration binding instantiation (decl reserves the
// binding during hoisting, link assigns its initial value once the
// right-hand side, if any, has been evaluated).
package abi

import (
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/engine"
	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/icache"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/value"
)

const refErrKind = "ReferenceError"

// setPending records err as the pending exception on the engine's
// context stack, the same slot esr_error (abi.go) later drains.
func setPending(e *engine.Engine, err *object.ThrownError) {
	e.Evaluator.Contexts.Pending.Set(err)
}

// CtxGet is ctx_get: resolves name against ctx's lexical environment
// chain. cid names the inline-cache callsite (component P); the cache is
// only consulted when the resolving environment is bound to an object
// (the spec restricts the context cache to such bindings to avoid
// invalidation storms from ordinary declarative scopes).
func CtxGet(ctx *context.Context, name string, cid icache.Site) (value.Value, bool) {
	e := engineInstance()
	h := e.Evaluator.Heap
	scope := env.Resolve(ctx.LexicalEnv, name)
	if scope == nil {
		if ctx.Strict {
			setPending(e, h.Throw(refErrKind, "%s is not defined", name))
		}
		return value.Undefined, false
	}
	if obj, ok := scope.ObjectBinding(); ok {
		key := keyOf(h, name)
		o := h.Resolve(obj)
		if ref, hit := e.Evaluator.CCache.Lookup(cid, o.Props, key); hit {
			return ref.Get().Data.V, true
		}
		v, err := scope.Record.GetBindingValue(name, ctx.Strict)
		if err != nil {
			setPending(e, h.Throw(refErrKind, "%s", err.Error()))
			return value.Undefined, false
		}
		if ref := o.Props.Lookup(key); ref.Valid() {
			e.Evaluator.CCache.Store(cid, o.Props, key, ref)
		}
		return v, true
	}
	v, err := scope.Record.GetBindingValue(name, ctx.Strict)
	if err != nil {
		setPending(e, h.Throw(refErrKind, "%s", err.Error()))
		return value.Undefined, false
	}
	return v, true
}

// CtxPut is ctx_put: assigns name to v in the environment that binds it,
// or (in non-strict code) creates it on the global object per ES5
// §10.2.1.2.2's implicit global fallback when unresolved.
func CtxPut(ctx *context.Context, name string, v value.Value) bool {
	e := engineInstance()
	scope := env.Resolve(ctx.LexicalEnv, name)
	if scope == nil {
		if ctx.Strict {
			setPending(e, e.Evaluator.Heap.Throw(refErrKind, "%s is not defined", name))
			return false
		}
		e.Evaluator.GlobalEnv.Record.CreateMutableBinding(name, true)
		scope = e.Evaluator.GlobalEnv
	}
	if err := scope.Record.SetMutableBinding(name, v, ctx.Strict); err != nil {
		setPending(e, e.Evaluator.Heap.Throw("TypeError", "%s", err.Error()))
		return false
	}
	return true
}

// CtxDel is ctx_del: deletes name's binding if the environment that
// binds it allows it (ES5 §10.2.1.1.5/§10.2.1.2.5's deletable flag).
func CtxDel(ctx *context.Context, name string) bool {
	scope := env.Resolve(ctx.LexicalEnv, name)
	if scope == nil {
		return true
	}
	return scope.Record.DeleteBinding(name)
}

// CtxSetStrict is ctx_set_strict: marks ctx as running strict-mode code,
// set once at context entry from the "use strict" directive prologue
// (or unconditionally, with StrictByDefault configured).
func CtxSetStrict(ctx *context.Context, strict bool) { ctx.Strict = strict }

// CtxEnterWith is ctx_enter_with: pushes a new execution context whose
// lexical environment is an object environment around obj (ES5 §12.10),
// returning the pushed context for use as ctx in subsequent calls.
func CtxEnterWith(obj value.Value) *context.Context {
	e := engineInstance()
	cur := e.Evaluator.Contexts.Current()
	withEnv := env.NewObjectEnvironment(e.Evaluator.Heap, obj, cur.LexicalEnv, true)
	next := &context.Context{
		Kind:        context.KindWith,
		LexicalEnv:  withEnv,
		VariableEnv: cur.VariableEnv,
		ThisBinding: cur.ThisBinding,
		Strict:      cur.Strict,
	}
	e.Evaluator.Contexts.Push(next)
	return next
}

// CtxEnterCatch is ctx_enter_catch: pushes a new execution context whose
// lexical environment binds catchVar to caught (ES5 §12.14), returning
// the pushed context.
func CtxEnterCatch(catchVar string, caught value.Value) *context.Context {
	e := engineInstance()
	cur := e.Evaluator.Contexts.Current()
	catchEnv := env.NewDeclarativeEnvironment(cur.LexicalEnv)
	catchEnv.Record.CreateMutableBinding(catchVar, false)
	_ = catchEnv.Record.SetMutableBinding(catchVar, caught, false)
	next := &context.Context{
		Kind:        context.KindCatch,
		LexicalEnv:  catchEnv,
		VariableEnv: cur.VariableEnv,
		ThisBinding: cur.ThisBinding,
		Strict:      cur.Strict,
	}
	e.Evaluator.Contexts.Push(next)
	return next
}

// CtxLeave is ctx_leave: pops the current execution context, restoring
// the enclosing with/catch scope or function/global context beneath it.
func CtxLeave() { engineInstance().Evaluator.Contexts.Pop() }

// CtxDeclVar/CtxDeclFun/CtxDeclPrm are ctx_decl_var/fun/prm: the
// hoisting-phase half of ES5 §10.5 — reserve name in ctx's variable
// environment without assigning a value yet (var/function bindings
// start `undefined`; re-declaration is idempotent, matching §10.5 step
// 5's "do not overwrite an existing binding").
func CtxDeclVar(ctx *context.Context, name string) {
	if !ctx.VariableEnv.HasBinding(name) {
		ctx.VariableEnv.Record.CreateMutableBinding(name, false)
	}
}

func CtxDeclFun(ctx *context.Context, name string) { CtxDeclVar(ctx, name) }

func CtxDeclPrm(ctx *context.Context, name string) { CtxDeclVar(ctx, name) }

// CtxLinkVar/CtxLinkFun/CtxLinkPrm are ctx_link_var/fun/prm: the
// instantiation-phase half of ES5 §10.5 — assign the hoisted binding's
// initial value (a function declaration's closure, a parameter's
// argument, or undefined for a plain var).
func CtxLinkVar(ctx *context.Context, name string, v value.Value) bool {
	if err := ctx.VariableEnv.Record.SetMutableBinding(name, v, false); err != nil {
		setPending(engineInstance(), engineInstance().Evaluator.Heap.Throw("TypeError", "%s", err.Error()))
		return false
	}
	return true
}

func CtxLinkFun(ctx *context.Context, name string, fn value.Value) bool {
	return CtxLinkVar(ctx, name, fn)
}

func CtxLinkPrm(ctx *context.Context, name string, v value.Value) bool {
	return CtxLinkVar(ctx, name, v)
}

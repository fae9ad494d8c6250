// Package evaluator implements the tree-walking evaluator (spec
// component L): it walks pkg/ast nodes and produces completions per
// ES5 §8.9, calling into internal/ops for conversions/operators and
// internal/object for the property model.
//
// Grounded on the teacher's internal/interp, a tree-walking evaluator
// over a typed AST producing a similar normal/break/continue/return/
// exception result discipline; this package keeps that walking style
// (one method per node kind, a small completion-carrier struct) and
// replaces DWScript's statement/expression node set with pkg/ast's ES5
// grammar and go-dws's exception-object model with this runtime's
// object.ThrownError.
package evaluator

import (
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/frame"
	"github.com/cwbudde/esrt/internal/icache"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/value"
)

// Evaluator is the composition of every lower component needed to run a
// Program: the object arena, the execution-context and call-frame
// stacks, the global object/environment, and the inline-cache tables.
type Evaluator struct {
	Heap     *object.Heap
	Contexts *context.Stack
	Frames   *frame.Stack

	GlobalObject value.Value
	GlobalEnv    *env.Environment

	// Protos maps a ClassTag to its builtin prototype object, populated
	// by the bootstrap component (O). ToObject/instanceof defaults and
	// literal construction (new Array literals, RegExp literals, ...)
	// read through this map.
	Protos map[object.ClassTag]value.Value

	CCache *icache.ContextCache
	PCache *icache.PropertyCache

	nextSite int
}

// New creates an Evaluator around an existing heap/global environment
// (built by the bootstrap component), with fresh, empty context/frame
// stacks and inline-cache tables.
func New(h *object.Heap, globalObj value.Value, globalEnv *env.Environment) *Evaluator {
	e := &Evaluator{
		Heap:         h,
		Contexts:     context.NewStack(),
		Frames:       frame.NewStack(0),
		GlobalObject: globalObj,
		GlobalEnv:    globalEnv,
		Protos:       make(map[object.ClassTag]value.Value),
		CCache:       icache.NewContextCache(),
		PCache:       icache.NewPropertyCache(),
	}
	e.Contexts.Push(&context.Context{
		Kind:        context.KindGlobal,
		LexicalEnv:  globalEnv,
		VariableEnv: globalEnv,
		ThisBinding: globalObj,
		Strict:      false,
	})
	return e
}

// site allocates the next inline-cache callsite id; called once per AST
// node the first time it is evaluated (in a real compiler these would be
// assigned at parse/compile time — this runtime assigns them lazily on
// first visit since parsing happens out-of-process and nodes arrive
// already built).
func (e *Evaluator) site() icache.Site {
	s := icache.Site(e.nextSite)
	e.nextSite++
	return s
}

func (e *Evaluator) ctx() *context.Context { return e.Contexts.Current() }

// Call implements ops.Caller, letting internal/ops invoke valueOf/
// toString/[[HasInstance]] during conversions without importing this
// package.
func (e *Evaluator) Call(h *object.Heap, fn, this value.Value, args []value.Value) (value.Value, error) {
	return e.CallValue(fn, this, args, false)
}

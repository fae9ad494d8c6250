// Stack and argument primitives (spec §6): stk_alloc/stk_free/stk_push
// manage a native call's scratch value stack, init_args/args_obj_init/
// args_obj_link materialize the Arguments object, and bnd_extra_init/
// bnd_extra_ptr expose a closure's extra-binding slots.
package abi

import (
	"github.com/cwbudde/esrt/internal/frame"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/value"
)

// StkAlloc is stk_alloc: returns a fresh scratch value stack of the
// given depth, the temporary storage a compiled expression's
// sub-evaluations push intermediate results onto.
func StkAlloc(depth int) []value.Value {
	return make([]value.Value, 0, depth)
}

// StkFree is stk_free: releases a scratch stack. Go's GC makes this a
// no-op, kept only so compiled code's alloc/free pairing has somewhere
// to call.
func StkFree(stk []value.Value) { _ = stk }

// StkPush is stk_push: pushes v onto stk, returning the grown slice (the
// caller must keep using the returned value, matching append's usual
// discipline).
func StkPush(stk []value.Value, v value.Value) []value.Value {
	return append(stk, v)
}

// InitArgs is init_args: builds the positional-argument slice a call
// passes to fp/Arguments materialization from a scratch stack's top n
// values.
func InitArgs(stk []value.Value, n int) []value.Value {
	if n > len(stk) {
		n = len(stk)
	}
	args := make([]value.Value, n)
	copy(args, stk[len(stk)-n:])
	return args
}

// Frame is the call-frame handle args_obj_init/link and bnd_extra_ptr
// operate against: this call's live argument storage plus the function
// value it is invoking, so the Arguments object can be linked to the
// same backing slice in-place assignment through `arguments[i]` expects
// (ES5 §10.6).
type Frame struct {
	f  *frame.Frame
	fn value.Value
}

// NewFrame wraps a call's argument storage and callee for the
// args_obj_*/bnd_extra_* primitives below.
func NewFrame(args []value.Value, this value.Value, functionName string, fn value.Value) *Frame {
	return &Frame{f: &frame.Frame{FunctionName: functionName, This: this, Args: args}, fn: fn}
}

// ArgsObjInit is args_obj_init: allocates the Arguments object for this
// call, linking non-strict positional parameters to the frame's live
// argument storage.
func ArgsObjInit(fr *Frame, paramNames []string, strict bool) value.Value {
	e := engineInstance()
	return frame.MaterializeArguments(e.Evaluator.Heap, e.Evaluator.ProtoFor(object.ClassObject), fr.f, paramNames, strict)
}

// ArgsObjLink is args_obj_link: stores v into the frame's i'th argument
// slot, which a linked index of the Arguments object reads through; an
// out-of-range i is ignored.
func ArgsObjLink(fr *Frame, i int, v value.Value) {
	if i < 0 || i >= len(fr.f.Args) {
		return
	}
	fr.f.Args[i] = v
}

// BndExtraInit is bnd_extra_init: allocates n extra-binding slots on
// fn's closure, zero-valued (undefined).
func BndExtraInit(fn value.Value, n int) {
	h := engineInstance().Evaluator.Heap
	o := h.Resolve(fn)
	if o.Func == nil {
		return
	}
	extra := make([]value.Value, n)
	for i := range extra {
		extra[i] = value.Undefined
	}
	o.Func.Extra = extra
}

// BndExtraPtr is bnd_extra_ptr: returns a pointer to fn's i'th
// extra-binding slot for direct read/write, or nil if out of range.
func BndExtraPtr(fn value.Value, i int) *value.Value {
	h := engineInstance().Evaluator.Heap
	o := h.Resolve(fn)
	if o.Func == nil || i < 0 || i >= len(o.Func.Extra) {
		return nil
	}
	return &o.Func.Extra[i]
}

// Allocation primitives (spec §6): new_arr/new_obj/new_fun_decl/
// new_fun_expr/new_reg_exp, the object-creation ops every literal and
// function expression in compiled code lowers to.
package abi

import (
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/value"
)

// NewArr is new_arr: allocates an Array with the given initial elements.
func NewArr(elements []value.Value) value.Value {
	e := engineInstance()
	return e.Evaluator.Heap.NewArray(e.Evaluator.ProtoFor(object.ClassArray), elements)
}

// NewObj is new_obj: allocates a plain Object.
func NewObj() value.Value {
	e := engineInstance()
	return e.Evaluator.Heap.NewPlainObject(e.Evaluator.ProtoFor(object.ClassObject))
}

// nativeAdapter wraps an ABI-level Native (ctx/argc/fp/vp, boolean
// success) as an object.Native (h/this/args, error) so a function value
// backed by compiled code can be installed through the same
// FunctionData every script and builtin function uses.
func nativeAdapter(fn Native) object.Native {
	return func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		e := engineInstance()
		ctx := e.Evaluator.Contexts.Current()
		vp := make([]value.Value, 1)
		if !fn(ctx, len(args), args, vp) {
			if e.Evaluator.Contexts.Pending.Active() {
				v := e.Evaluator.Contexts.Pending.Value()
				e.Evaluator.Contexts.Pending.Clear()
				return value.Undefined, h.Throw("Error", "%s", describeThrown(h, v))
			}
			return value.Undefined, h.Throw("Error", "native function failed")
		}
		return vp[0], nil
	}
}

// NewFunDecl is new_fun_decl: allocates a constructable Function object
// backed by the given compiled entry point, the shape a function
// declaration's hoisted binding is linked to (ctx_link_fun).
func NewFunDecl(name string, length int, entry Native) value.Value {
	return newFun(name, length, entry, true)
}

// NewFunExpr is new_fun_expr: allocates a Function object for a function
// expression. Function expressions are always constructable, the same as
// declarations per ES5 §13, so this mirrors NewFunDecl; there is no
// parameter for marking a callee non-constructable.
func NewFunExpr(name string, length int, entry Native) value.Value {
	return newFun(name, length, entry, true)
}

func newFun(name string, length int, entry Native, constructable bool) value.Value {
	e := engineInstance()
	data := &object.FunctionData{
		Name:          name,
		IsNative:      true,
		NativeFn:      nativeAdapter(entry),
		Constructable: constructable,
	}
	return e.Evaluator.Heap.NewFunction(e.Evaluator.ProtoFor(object.ClassFunction), data, length)
}

// NewRegExp is new_reg_exp: allocates a RegExp object from source/flags,
// delegating pattern translation to whatever component already compiles
// ECMAScript regex syntax to Go's regexp (object.RegExpData's Compiled
// field).
func NewRegExp(source, flags string, compiled *object.RegExpData) value.Value {
	e := engineInstance()
	compiled.Source = source
	compiled.Flags = flags
	return e.Evaluator.Heap.NewRegExp(e.Evaluator.ProtoFor(object.ClassRegExp), compiled)
}

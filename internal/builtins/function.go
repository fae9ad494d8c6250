package builtins

import (
	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/value"
)

// installFunction wires Function.prototype.call/apply (supplemented
// per SPEC_FULL.md §4: present in original_source/runtime/algorithm.cc,
// omitted from the distillation) and .bind (ES5 §15.3.4.5, already
// named in the original module list).
func installFunction(e *evaluator.Evaluator) {
	proto := e.Protos[object.ClassFunction]

	method(e, proto, "call", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		callThis := arg(args, 0)
		var callArgs []value.Value
		if len(args) > 1 {
			callArgs = args[1:]
		}
		return e.CallValue(this, callThis, callArgs, false)
	})

	method(e, proto, "apply", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		callThis := arg(args, 0)
		argArray := arg(args, 1)
		var callArgs []value.Value
		if argArray.IsObject() {
			n, err := arrayLength(h, argArray, e)
			if err != nil {
				return value.Undefined, err
			}
			callArgs = make([]value.Value, n)
			for i := range callArgs {
				v, err := h.Resolve(argArray).Get(h, propkey.FromU32(uint32(i)), func(fn, this value.Value) (value.Value, error) {
					return e.CallValue(fn, this, nil, false)
				})
				if err != nil {
					return value.Undefined, err
				}
				callArgs[i] = v
			}
		} else if !argArray.IsNullOrUndefined() {
			return value.Undefined, h.Throw("TypeError", "apply() second argument must be an array-like object")
		}
		return e.CallValue(this, callThis, callArgs, false)
	})

	method(e, proto, "bind", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		if !this.IsObject() || h.Resolve(this).Class != object.ClassFunction {
			return value.Undefined, h.Throw("TypeError", "Function.prototype.bind called on non-function")
		}
		boundThis := arg(args, 0)
		var boundArgs []value.Value
		if len(args) > 1 {
			boundArgs = append([]value.Value{}, args[1:]...)
		}
		data := &object.FunctionData{
			Name:          "bound " + h.Resolve(this).Func.Name,
			Target:        this,
			HasTarget:     true,
			BoundThis:     boundThis,
			BoundArgs:     boundArgs,
			Constructable: h.Resolve(this).Func.Constructable,
		}
		length := 0
		if l := len(h.Resolve(this).Func.Params) - len(boundArgs); l > 0 {
			length = l
		}
		return h.NewFunction(e.Protos[object.ClassFunction], data, length), nil
	})

	method(e, proto, "toString", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		name := ""
		if this.IsObject() && h.Resolve(this).Func != nil {
			name = h.Resolve(this).Func.Name
		}
		return value.FromStringID(h.Pool().Intern("function " + name + "() { [native code] }")), nil
	})
}

func arrayLength(h *object.Heap, v value.Value, e *evaluator.Evaluator) (int, error) {
	lv, err := h.Resolve(v).Get(h, key(e, "length"), func(fn, this value.Value) (value.Value, error) {
		return e.CallValue(fn, this, nil, false)
	})
	if err != nil {
		return 0, err
	}
	n, err := ops.ToNumber(h, lv, e)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, nil
	}
	return int(n), nil
}

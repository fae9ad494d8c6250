package builtins

import (
	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
)

// installBoolean wires Boolean.prototype (ES5 §15.6.4).
func installBoolean(e *evaluator.Evaluator) {
	proto := e.Protos[object.ClassBoolean]

	thisBool := func(h *object.Heap, this value.Value) bool {
		if this.IsBoolean() {
			return this.AsBoolean()
		}
		if this.IsObject() && h.Resolve(this).Class == object.ClassBoolean {
			return h.Resolve(this).Boxed.AsBoolean()
		}
		return ops.ToBoolean(h, this)
	}

	method(e, proto, "toString", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		if thisBool(h, this) {
			return value.FromStringID(h.Pool().Intern("true")), nil
		}
		return value.FromStringID(h.Pool().Intern("false")), nil
	})
	method(e, proto, "valueOf", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		return value.FromBool(thisBool(h, this)), nil
	})

	ctorData := &object.FunctionData{
		Name:     "Boolean",
		IsNative: true,
		NativeFn: func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			return value.FromBool(ops.ToBoolean(h, arg(args, 0))), nil
		},
		Constructable: true,
	}
	ctor := e.Heap.NewFunction(e.Protos[object.ClassFunction], ctorData, 1)
	linkConstructor(e, ctor, proto)
	defineGlobal(e, "Boolean", ctor)
}

package builtins

import (
	"github.com/cwbudde/esrt/internal/errtax"
	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
)

// installErrors wires the seven error constructors (ES5 §15.11): each
// is a Function object whose .prototype is the matching kind's
// prototype component O already built and registered into
// h.ErrorProtos via errtax.Register. Calling any of them as a function
// (no `new`) behaves the same as constructing one, per §15.11.1.
func installErrors(e *evaluator.Evaluator) {
	h := e.Heap
	errorProto := h.ErrorProtos[string(errtax.Error)]

	method(e, errorProto, "toString", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		o := h.Resolve(this)
		nameV, err := o.Get(h, key(e, "name"), callerGet(e, h))
		if err != nil {
			return value.Undefined, err
		}
		name, err := ops.ToStringValue(h, nameV, e)
		if err != nil {
			return value.Undefined, err
		}
		msgV, err := o.Get(h, key(e, "message"), callerGet(e, h))
		if err != nil {
			return value.Undefined, err
		}
		msg, err := ops.ToStringValue(h, msgV, e)
		if err != nil {
			return value.Undefined, err
		}
		ns := h.Pool().Lookup(name.AsStringID())
		ms := h.Pool().Lookup(msg.AsStringID())
		if ms == "" {
			return value.FromStringID(h.Pool().Intern(ns)), nil
		}
		return value.FromStringID(h.Pool().Intern(ns + ": " + ms)), nil
	})

	for _, kind := range errtax.All {
		kind := kind
		proto := h.ErrorProtos[string(kind)]
		ctorData := &object.FunctionData{
			Name:     string(kind),
			IsNative: true,
			NativeFn: func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
				obj := h.NewPlainObject(proto)
				if m := arg(args, 0); !m.IsUndefined() {
					mv, err := ops.ToStringValue(h, m, e)
					if err != nil {
						return value.Undefined, err
					}
					defineHidden(e, obj, "message", mv)
				}
				return obj, nil
			},
			Constructable: true,
		}
		ctor := h.NewFunction(e.Protos[object.ClassFunction], ctorData, 1)
		linkConstructor(e, ctor, proto)
		defineGlobal(e, string(kind), ctor)
	}
}

// callerGet adapts the evaluator's Call method to the getter-callback
// shape object.Object.Get expects for accessor properties.
func callerGet(e *evaluator.Evaluator, h *object.Heap) func(fn, this value.Value) (value.Value, error) {
	return func(fn, this value.Value) (value.Value, error) { return e.Call(h, fn, this, nil) }
}

// Package bootstrap implements the two-phase prototype/global
// initialization (spec component O): it allocates the builtin prototype
// objects (Object, Function, Array, Boolean, Number, String, Date,
// RegExp, and the flat error taxonomy), wires the global object and
// global environment record around them, and hands back a ready-to-run
// *evaluator.Evaluator.
//
// Grounded on the teacher's internal/interp NewInterpreter/RegisterRTTI
// bootstrap path, which similarly builds a fixed prototype set before
// any user script runs; adapted here to ES5's prototype-chain object
// model instead of go-dws's class-descriptor RTTI table.
package bootstrap

import (
	"math"

	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/errtax"
	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/strpool"
	"github.com/cwbudde/esrt/internal/value"
)

// New builds a fresh heap, the full builtin prototype set, a global
// object/environment pair, and returns an Evaluator wired around them.
// Builtins (component N) populate each prototype's methods in a
// separate pass; this package is only responsible for the prototype
// objects existing, being correctly proto-linked, and being reachable
// through Evaluator.Protos.
func New() *evaluator.Evaluator {
	pool := strpool.New()
	h := object.NewHeap(pool)

	objectProto := h.NewPlainObject(value.Null)

	funcProtoData := &object.FunctionData{
		Name:     "",
		IsNative: true,
		NativeFn: func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			return value.Undefined, nil
		},
	}
	functionProto := h.NewFunction(objectProto, funcProtoData, 0)

	arrayProto := newArrayPrototype(h, objectProto)
	booleanProto := h.NewPlainObject(objectProto)
	numberProto := h.NewPlainObject(objectProto)
	stringProto := h.NewPlainObject(objectProto)
	dateProto := h.NewPlainObject(objectProto)
	regexpProto := h.NewPlainObject(objectProto)
	argumentsProto := h.NewPlainObject(objectProto)

	errorProtos := newErrorPrototypes(h, objectProto)
	errtax.Register(h, errorProtos)

	globalObj := h.NewPlainObject(objectProto)
	globalEnv := env.NewObjectEnvironment(h, globalObj, nil, false)

	e := evaluator.New(h, globalObj, globalEnv)
	e.Protos[object.ClassObject] = objectProto
	e.Protos[object.ClassFunction] = functionProto
	e.Protos[object.ClassArray] = arrayProto
	e.Protos[object.ClassBoolean] = booleanProto
	e.Protos[object.ClassNumber] = numberProto
	e.Protos[object.ClassString] = stringProto
	e.Protos[object.ClassDate] = dateProto
	e.Protos[object.ClassRegExp] = regexpProto
	e.Protos[object.ClassArguments] = argumentsProto
	e.Protos[object.ClassError] = errorProtos[string(errtax.Error)]

	defineGlobalValue(h, globalObj, "NaN", value.FromNumber(math.NaN()), false)
	defineGlobalValue(h, globalObj, "Infinity", value.FromNumber(math.Inf(1)), false)
	defineGlobalValue(h, globalObj, "undefined", value.Undefined, false)

	return e
}

// newArrayPrototype builds Array.prototype as a zero-length Array
// exotic object (ES5 §15.4.4) rather than a plain object, so
// Array.prototype itself already carries the length/own-indexed-
// property coupling every other array shares.
func newArrayPrototype(h *object.Heap, objectProto value.Value) value.Value {
	o := h.NewWithRoot(objectProto, object.ClassArray, h.RootFor(object.ClassArray))
	o.ArrayLength = 0
	o.ArrayLengthWritable = true
	return o.AsValue()
}

// newErrorPrototypes builds Error.prototype and, chained to it, one
// prototype per errtax.Kind in the flat non-nested taxonomy ES5 §15.11
// specifies (EvalError.prototype, RangeError.prototype, ... all chain
// directly to Error.prototype, never to each other).
func newErrorPrototypes(h *object.Heap, objectProto value.Value) map[string]value.Value {
	protos := make(map[string]value.Value, len(errtax.All))
	errorProto := h.NewPlainObject(objectProto)
	defineOwn(h, errorProto, "name", value.FromStringID(h.Pool().Intern(string(errtax.Error))), false)
	defineOwn(h, errorProto, "message", value.FromStringID(h.Pool().Intern("")), false)
	protos[string(errtax.Error)] = errorProto

	for _, kind := range errtax.All {
		if kind == errtax.Error {
			continue
		}
		p := h.NewPlainObject(errorProto)
		defineOwn(h, p, "name", value.FromStringID(h.Pool().Intern(string(kind))), false)
		defineOwn(h, p, "message", value.FromStringID(h.Pool().Intern("")), false)
		protos[string(kind)] = p
	}
	return protos
}

// defineOwn installs a non-enumerable, writable, configurable own
// property, the flag set builtin prototype slots use throughout (ES5
// §15's "DontEnum" attribute convention for builtin-provided
// properties).
func defineOwn(h *object.Heap, obj value.Value, name string, v value.Value, enumerable bool) {
	key := propkey.FromStringID(h.Pool().Intern(name))
	desc := propmap.Descriptor{
		HasValue: true, Value: v,
		HasWritable: true, Writable: true,
		HasEnumerable: true, Enumerable: enumerable,
		HasConfigurable: true, Configurable: true,
	}
	_, _ = h.Resolve(obj).DefineOwnProperty(h, key, desc, false)
}

// defineGlobalValue installs a non-configurable global binding
// (NaN/Infinity/undefined per ES5 §15.1.1 are all {Writable: false,
// Enumerable: false, Configurable: false}).
func defineGlobalValue(h *object.Heap, globalObj value.Value, name string, v value.Value, enumerable bool) {
	key := propkey.FromStringID(h.Pool().Intern(name))
	desc := propmap.Descriptor{
		HasValue: true, Value: v,
		HasWritable: true, Writable: false,
		HasEnumerable: true, Enumerable: enumerable,
		HasConfigurable: true, Configurable: false,
	}
	_, _ = h.Resolve(globalObj).DefineOwnProperty(h, key, desc, false)
}

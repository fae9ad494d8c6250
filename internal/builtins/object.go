package builtins

import (
	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
)

// installObject wires Object.prototype's own-property surface (ES5
// §15.2.4) plus the Object constructor's statics supplemented from
// original_source/runtime/algorithm.cc per SPEC_FULL.md §4.
func installObject(e *evaluator.Evaluator) {
	proto := e.Protos[object.ClassObject]

	method(e, proto, "toString", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		if this.IsUndefined() {
			return value.FromStringID(h.Pool().Intern("[object Undefined]")), nil
		}
		if this.IsNull() {
			return value.FromStringID(h.Pool().Intern("[object Null]")), nil
		}
		boxed, err := ops.ToObject(h, this, e.ProtoFor)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromStringID(h.Pool().Intern("[object " + h.Resolve(boxed).Class.String() + "]")), nil
	})

	method(e, proto, "toLocaleString", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		return e.CallByKey(this, key(e, "toString"), nil)
	})

	method(e, proto, "valueOf", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		return ops.ToObject(h, this, e.ProtoFor)
	})

	method(e, proto, "hasOwnProperty", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		boxed, err := ops.ToObject(h, this, e.ProtoFor)
		if err != nil {
			return value.Undefined, err
		}
		k, err := toPropKey(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		_, ok := h.Resolve(boxed).GetOwnProperty(k)
		return value.FromBool(ok), nil
	})

	method(e, proto, "isPrototypeOf", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		v := arg(args, 0)
		if !v.IsObject() {
			return value.FromBool(false), nil
		}
		boxed, err := ops.ToObject(h, this, e.ProtoFor)
		if err != nil {
			return value.Undefined, err
		}
		for cur := h.Resolve(v).Proto; cur.IsObject(); cur = h.Resolve(cur).Proto {
			if cur.RawEquals(boxed) {
				return value.FromBool(true), nil
			}
		}
		return value.FromBool(false), nil
	})

	method(e, proto, "propertyIsEnumerable", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		boxed, err := ops.ToObject(h, this, e.ProtoFor)
		if err != nil {
			return value.Undefined, err
		}
		k, err := toPropKey(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		p, ok := h.Resolve(boxed).GetOwnProperty(k)
		return value.FromBool(ok && p.Enumerable), nil
	})

	ctorData := &object.FunctionData{
		Name:     "Object",
		IsNative: true,
		NativeFn: func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			v := arg(args, 0)
			if v.IsNullOrUndefined() {
				return h.NewPlainObject(e.Protos[object.ClassObject]), nil
			}
			return ops.ToObject(h, v, e.ProtoFor)
		},
		Constructable: true,
	}
	ctor := e.Heap.NewFunction(e.Protos[object.ClassFunction], ctorData, 1)
	linkConstructor(e, ctor, proto)
	defineGlobal(e, "Object", ctor)

	method(e, ctor, "keys", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		v := arg(args, 0)
		if !v.IsObject() {
			return value.Undefined, h.Throw("TypeError", "Object.keys called on non-object")
		}
		o := h.Resolve(v)
		var names []value.Value
		for _, k := range o.OwnPropertyKeys() {
			p, ok := o.GetOwnProperty(k)
			if !ok || !p.Enumerable {
				continue
			}
			names = append(names, value.FromStringID(k.ToStringID(h.Pool())))
		}
		return h.NewArray(e.Protos[object.ClassArray], names), nil
	})

	method(e, ctor, "getPrototypeOf", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		v := arg(args, 0)
		if !v.IsObject() {
			return value.Undefined, h.Throw("TypeError", "Object.getPrototypeOf called on non-object")
		}
		return h.Resolve(v).Proto, nil
	})

	method(e, ctor, "defineProperty", 3, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		target := arg(args, 0)
		if !target.IsObject() {
			return value.Undefined, h.Throw("TypeError", "Object.defineProperty called on non-object")
		}
		k, err := toPropKey(h, arg(args, 1), e)
		if err != nil {
			return value.Undefined, err
		}
		descObj := arg(args, 2)
		desc, err := decodeDescriptor(h, descObj, e)
		if err != nil {
			return value.Undefined, err
		}
		if _, err := h.Resolve(target).DefineOwnProperty(h, k, desc, true); err != nil {
			return value.Undefined, err
		}
		return target, nil
	})
}

// linkConstructor wires ctor.prototype = proto and proto.constructor =
// ctor, the back-and-forth every builtin constructor/prototype pair
// needs (ES5 §15's per-constructor "prototype" property table).
func linkConstructor(e *evaluator.Evaluator, ctor, proto value.Value) {
	h := e.Heap
	protoDesc := propmap.Descriptor{HasValue: true, Value: proto,
		HasWritable: true, Writable: false, HasEnumerable: true, Enumerable: false,
		HasConfigurable: true, Configurable: false}
	_, _ = h.Resolve(ctor).DefineOwnProperty(h, key(e, "prototype"), protoDesc, false)
	ctorDesc := propmap.Descriptor{HasValue: true, Value: ctor,
		HasWritable: true, Writable: true, HasEnumerable: true, Enumerable: false,
		HasConfigurable: true, Configurable: true}
	_, _ = h.Resolve(proto).DefineOwnProperty(h, key(e, "constructor"), ctorDesc, false)
}

// toPropKey converts a script value to a property key via ToString,
// the conversion every keyed operation (hasOwnProperty, bracket
// access, Object.defineProperty) applies per ES5 §11.2.1 / §8.12.
func toPropKey(h *object.Heap, v value.Value, c ops.Caller) (propkey.Key, error) {
	sv, err := ops.ToStringValue(h, v, c)
	if err != nil {
		return propkey.Key{}, err
	}
	return propkey.FromStringID(sv.AsStringID()), nil
}

// propkeyFromName interns name and returns its property key, a
// bottom-level helper shared by every builtin file that needs to read
// a fixed-name property off a script-provided object (e.g. the "value"/
// "writable"/... slots of a property descriptor object).
func propkeyFromName(h *object.Heap, name string) propkey.Key {
	return propkey.FromStringID(h.Pool().Intern(name))
}

// decodeDescriptor reads a partial property descriptor object into
// propmap.Descriptor, per ES5 §8.10.5's ToPropertyDescriptor.
func decodeDescriptor(h *object.Heap, descObj value.Value, c ops.Caller) (propmap.Descriptor, error) {
	var d propmap.Descriptor
	if !descObj.IsObject() {
		return d, h.Throw("TypeError", "property description must be an object")
	}
	o := h.Resolve(descObj)
	has := func(name string) bool {
		return o.HasProperty(h, propkeyFromName(h, name))
	}
	get := func(name string) (value.Value, error) {
		return o.Get(h, propkeyFromName(h, name), func(fn, this value.Value) (value.Value, error) {
			return c.Call(h, fn, this, nil)
		})
	}
	if has("value") {
		v, err := get("value")
		if err != nil {
			return d, err
		}
		d.HasValue, d.Value = true, v
	}
	if has("writable") {
		v, err := get("writable")
		if err != nil {
			return d, err
		}
		d.HasWritable, d.Writable = true, ops.ToBoolean(h, v)
	}
	if has("enumerable") {
		v, err := get("enumerable")
		if err != nil {
			return d, err
		}
		d.HasEnumerable, d.Enumerable = true, ops.ToBoolean(h, v)
	}
	if has("configurable") {
		v, err := get("configurable")
		if err != nil {
			return d, err
		}
		d.HasConfigurable, d.Configurable = true, ops.ToBoolean(h, v)
	}
	if has("get") {
		v, err := get("get")
		if err != nil {
			return d, err
		}
		d.HasGetter, d.Getter = true, v
	}
	if has("set") {
		v, err := get("set")
		if err != nil {
			return d, err
		}
		d.HasSetter, d.Setter = true, v
	}
	return d, nil
}

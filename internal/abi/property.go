// Property primitives (spec §6): the get/put/delete/define-own entry
// points every MemberExpression and for-in loop in compiled code would
// lower to, delegating straight into component G's MOP methods.
package abi

import (
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/engine"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
)

// PrpGet is prp_get: reads obj[name] (ES5 §8.12.3), invoking an
// accessor's getter through the engine's call dispatch if needed.
func PrpGet(ctx *context.Context, obj value.Value, name string) (value.Value, bool) {
	e := engineInstance()
	h := e.Evaluator.Heap
	if !obj.IsObject() {
		setPending(e, h.Throw("TypeError", "cannot read property %q of non-object", name))
		return value.Undefined, false
	}
	v, err := h.Resolve(obj).Get(h, keyOf(h, name), func(fn, this value.Value) (value.Value, error) {
		return e.Evaluator.Call(h, fn, this, nil)
	})
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	_ = ctx
	return v, true
}

// PrpPut is prp_put: writes obj[name] = v (ES5 §8.12.5).
func PrpPut(ctx *context.Context, obj value.Value, name string, v value.Value) bool {
	e := engineInstance()
	h := e.Evaluator.Heap
	if !obj.IsObject() {
		setPending(e, h.Throw("TypeError", "cannot set property %q of non-object", name))
		return false
	}
	err := h.Resolve(obj).Put(h, keyOf(h, name), v, ctx.Strict, func(fn, this value.Value, args []value.Value) error {
		_, err := e.Evaluator.Call(h, fn, this, args)
		return err
	})
	if err != nil {
		return propagateErr(e, err)
	}
	return true
}

// PrpDel is prp_del: deletes obj[name] (ES5 §8.12.7).
func PrpDel(ctx *context.Context, obj value.Value, name string) bool {
	e := engineInstance()
	h := e.Evaluator.Heap
	ok, err := h.Resolve(obj).Delete(h, keyOf(h, name), ctx.Strict)
	if err != nil {
		return propagateErr(e, err)
	}
	return ok
}

// PrpDefData is prp_def_data: defines obj's own data property name with
// the given value and attribute flags (ES5 §8.12.9).
func PrpDefData(obj value.Value, name string, v value.Value, writable, enumerable, configurable bool) bool {
	e := engineInstance()
	h := e.Evaluator.Heap
	_, err := h.Resolve(obj).DefineOwnProperty(h, keyOf(h, name), propmap.Descriptor{
		HasValue: true, Value: v,
		HasWritable: true, Writable: writable,
		HasEnumerable: true, Enumerable: enumerable,
		HasConfigurable: true, Configurable: configurable,
	}, true)
	if err != nil {
		return propagateErr(e, err)
	}
	return true
}

// PrpDefAccessor is prp_def_accessor: defines obj's own accessor
// property name with the given getter/setter and shared flags.
func PrpDefAccessor(obj value.Value, name string, getter, setter value.Value, enumerable, configurable bool) bool {
	e := engineInstance()
	h := e.Evaluator.Heap
	_, err := h.Resolve(obj).DefineOwnProperty(h, keyOf(h, name), propmap.Descriptor{
		HasGetter: true, Getter: getter,
		HasSetter: true, Setter: setter,
		HasEnumerable: true, Enumerable: enumerable,
		HasConfigurable: true, Configurable: configurable,
	}, true)
	if err != nil {
		return propagateErr(e, err)
	}
	return true
}

// PropertyIterator is prp_it_new/next's handle: an own-plus-inherited
// enumerable-key cursor over an object's prototype chain (ES5 §12.6.4's
// for-in enumeration order).
type PropertyIterator struct {
	h      *object.Heap
	keys   []string
	i      int
}

// PrpItNew is prp_it_new: builds an iterator over obj's enumerable
// properties, walking the prototype chain and de-duplicating shadowed
// names exactly once, in first-encountered (own-before-inherited)
// order — the de-duplication for-in requires since a subclass property
// shadowing a prototype one must only be visited once.
func PrpItNew(obj value.Value) *PropertyIterator {
	e := engineInstance()
	h := e.Evaluator.Heap
	seen := make(map[string]bool)
	var keys []string
	for cur := obj; cur.IsObject(); {
		o := h.Resolve(cur)
		for _, k := range o.OwnPropertyKeys() {
			name := k.ToString(h.Pool())
			if seen[name] {
				continue
			}
			seen[name] = true
			if p, ok := o.GetOwnProperty(k); ok && p.Enumerable {
				keys = append(keys, name)
			}
		}
		cur = o.Proto
	}
	return &PropertyIterator{h: h, keys: keys}
}

// Next is prp_it_next: advances the iterator, returning the next
// name and true, or ("", false) once exhausted.
func (it *PropertyIterator) Next() (string, bool) {
	if it.i >= len(it.keys) {
		return "", false
	}
	name := it.keys[it.i]
	it.i++
	return name, true
}

func propagateErr(e *engine.Engine, err error) bool {
	if te, ok := err.(*object.ThrownError); ok {
		setPending(e, te)
		return false
	}
	setPending(e, e.Evaluator.Heap.Throw("Error", "%s", err.Error()))
	return false
}

package env

import (
	"fmt"

	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
)

// propmapDescriptorForCreate builds the descriptor ES5 §10.2.1.2.2
// specifies for a fresh object-record binding: a writable, enumerable
// data property, configurable iff the binding is declared deletable
// (plain var/function declarations are not; catch-introduced and
// eval-introduced bindings are).
func propmapDescriptorForCreate(deletable bool) propmap.Descriptor {
	return propmap.Descriptor{
		HasValue: true, Value: value.Undefined,
		HasWritable: true, Writable: true,
		HasEnumerable: true, Enumerable: true,
		HasConfigurable: true, Configurable: deletable,
	}
}

// objectRecord is an object environment record: bindings are the
// bound object's own *and inherited* properties (ES5 §10.2.1.2). The
// global environment and each `with` statement body use one of these.
//
// GetterCall/SetterCall let an object record's bound object carry
// accessor properties; they are optional because most object records in
// practice bind a plain data-property object (the global object before
// any accessor globals are installed, or a `with` target), and wiring
// them requires component K's call dispatch, which this package must
// not import (env sits below ops in the dependency graph).
type objectRecord struct {
	h           *object.Heap
	obj         value.Value
	provideThis bool

	GetterCall func(fn, this value.Value) (value.Value, error)
	SetterCall func(fn, this value.Value, args []value.Value) error
}

func (r *objectRecord) resolve() *object.Object { return r.h.Resolve(r.obj) }

func (r *objectRecord) key(name string) propkey.Key {
	return propkey.FromString(r.h.Pool(), name)
}

func (r *objectRecord) HasBinding(name string) bool {
	return r.resolve().HasProperty(r.h, r.key(name))
}

func (r *objectRecord) CreateMutableBinding(name string, deletable bool) {
	o := r.resolve()
	_, _ = o.DefineOwnProperty(r.h, r.key(name),
		propmapDescriptorForCreate(deletable), true)
}

func (r *objectRecord) SetMutableBinding(name string, v value.Value, strict bool) error {
	setter := r.SetterCall
	if setter == nil {
		setter = func(value.Value, value.Value, []value.Value) error {
			return fmt.Errorf("env: object record binding %q has an accessor but no call dispatch was wired", name)
		}
	}
	return r.resolve().Put(r.h, r.key(name), v, strict, setter)
}

func (r *objectRecord) GetBindingValue(name string, strict bool) (value.Value, error) {
	o := r.resolve()
	if !o.HasProperty(r.h, r.key(name)) {
		if strict {
			return value.Undefined, fmt.Errorf("env: %q is not defined", name)
		}
		return value.Undefined, nil
	}
	getter := r.GetterCall
	if getter == nil {
		getter = func(value.Value, value.Value) (value.Value, error) { return value.Undefined, nil }
	}
	return o.Get(r.h, r.key(name), getter)
}

func (r *objectRecord) DeleteBinding(name string) bool {
	ok, err := r.resolve().Delete(r.h, r.key(name), false)
	return ok && err == nil
}

func (r *objectRecord) ImplicitThisValue() value.Value {
	if r.provideThis {
		return r.obj
	}
	return value.Undefined
}

// ObjectBinding reports the bound object of e's own record and true if
// it is an object environment record, or the zero Value and false for a
// declarative record. internal/icache's context cache (component P) only
// caches lookups against a bound object (its shape-tree identity is what
// makes the cache key meaningful), so component K uses this to decide
// whether a given identifier lookup is even cache-eligible.
func (e *Environment) ObjectBinding() (value.Value, bool) {
	r, ok := e.Record.(*objectRecord)
	if !ok {
		return value.Value{}, false
	}
	return r.obj, true
}

package env

import (
	"fmt"

	"github.com/cwbudde/esrt/internal/value"
)

// binding is one declarative-record slot: a value plus the three flags
// ES5 §10.2.1.1 associates with a mutable binding (deletable covers
// catch-clause and eval-introduced var bindings; immutable covers
// function parameter names under "arguments.callee.length" style
// reasoning is irrelevant here — it exists for named function
// expressions' self-binding, the one immutable declarative binding ES5
// actually specifies).
type binding struct {
	v           value.Value
	mutable     bool
	deletable   bool
	initialized bool
}

type declarativeRecord struct {
	bindings map[string]*binding
}

func newDeclarativeRecord() *declarativeRecord {
	return &declarativeRecord{bindings: make(map[string]*binding)}
}

func (r *declarativeRecord) HasBinding(name string) bool {
	_, ok := r.bindings[name]
	return ok
}

func (r *declarativeRecord) CreateMutableBinding(name string, deletable bool) {
	r.bindings[name] = &binding{v: value.Undefined, mutable: true, deletable: deletable, initialized: true}
}

// CreateImmutableBinding installs an uninitialized immutable binding
// (ES5 §10.2.1.1.7), used for a named function expression's own name.
// It is not part of Record since only declarative records support it.
func (r *declarativeRecord) CreateImmutableBinding(name string) {
	r.bindings[name] = &binding{mutable: false, initialized: false}
}

// InitializeImmutableBinding assigns v to a previously-created immutable
// binding exactly once.
func (r *declarativeRecord) InitializeImmutableBinding(name string, v value.Value) {
	if b, ok := r.bindings[name]; ok {
		b.v = v
		b.initialized = true
	}
}

func (r *declarativeRecord) SetMutableBinding(name string, v value.Value, strict bool) error {
	b, ok := r.bindings[name]
	if !ok {
		return fmt.Errorf("env: SetMutableBinding on unbound name %q", name)
	}
	if !b.mutable {
		if strict {
			return fmt.Errorf("env: assignment to immutable binding %q", name)
		}
		return nil
	}
	b.v = v
	return nil
}

func (r *declarativeRecord) GetBindingValue(name string, strict bool) (value.Value, error) {
	b, ok := r.bindings[name]
	if !ok {
		return value.Undefined, fmt.Errorf("env: GetBindingValue on unbound name %q", name)
	}
	if !b.initialized {
		if strict {
			return value.Undefined, fmt.Errorf("env: %q used before initialization", name)
		}
		return value.Undefined, nil
	}
	return b.v, nil
}

func (r *declarativeRecord) DeleteBinding(name string) bool {
	b, ok := r.bindings[name]
	if !ok {
		return true
	}
	if !b.deletable {
		return false
	}
	delete(r.bindings, name)
	return true
}

func (r *declarativeRecord) ImplicitThisValue() value.Value { return value.Undefined }

// Link aliases an existing binding's storage to an Arguments object's
// per-index parameter map (spec §4.J), so that `arguments[i] = x` and
// reassigning the i'th formal parameter observe each other's writes.
// Declarative records in this runtime don't expose raw slot pointers the
// way the call frame does, so Arguments' write-through instead happens
// at the frame/evaluator layer, which owns both the frame slot array and
// the function's parameter-name-to-slot mapping; Link exists here only
// to give the function-prologue code a named hook once component J is
// wired in.
func (r *declarativeRecord) Link(name string, v value.Value) {
	r.CreateMutableBinding(name, false)
	r.bindings[name].v = v
}

// Package env implements lexical environments (spec component H):
// declarative and object environment records chained through an outer
// pointer, per ES5 §10.2.
//
// Grounded on the teacher's internal/interp/runtime.Environment — a
// chained scope with store/outer and Get/Set/Define/Has — generalized
// from DWScript's single case-insensitive variable store into the two
// ES5 record kinds (declarative, for var/function/catch bindings; object,
// for the global object and `with` statement bodies) the spec
// distinguishes, with ES5's own mutable/immutable/deletable binding
// flags layered on top instead of go-dws's single mutable Value slot.
package env

import (
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/value"
)

// Record is an environment record: the ES5 §10.2.1 abstract interface
// both declarative and object records implement.
type Record interface {
	HasBinding(name string) bool
	CreateMutableBinding(name string, deletable bool)
	SetMutableBinding(name string, v value.Value, strict bool) error
	GetBindingValue(name string, strict bool) (value.Value, error)
	DeleteBinding(name string) bool
	ImplicitThisValue() value.Value
}

// Environment is a lexical environment: a record plus a reference to the
// enclosing environment (nil at the global environment).
type Environment struct {
	Record Record
	Outer  *Environment
}

// NewDeclarativeEnvironment creates a new declarative lexical environment
// enclosed by outer (outer may be nil for a standalone scope, though in
// practice only the global environment has a nil outer).
func NewDeclarativeEnvironment(outer *Environment) *Environment {
	return &Environment{Record: newDeclarativeRecord(), Outer: outer}
}

// NewObjectEnvironment creates a new object environment record backed by
// obj, enclosed by outer. provideThis marks a `with` statement's
// environment, whose ImplicitThisValue is obj rather than undefined.
func NewObjectEnvironment(h *object.Heap, obj value.Value, outer *Environment, provideThis bool) *Environment {
	return &Environment{Record: &objectRecord{h: h, obj: obj, provideThis: provideThis}, Outer: outer}
}

// HasBinding reports whether name is bound in this environment's own
// record (not the chain — callers walk Outer themselves via Resolve).
func (e *Environment) HasBinding(name string) bool { return e.Record.HasBinding(name) }

// Resolve walks the environment chain outward, returning the first
// record that has name bound, or nil if unbound anywhere (an
// unresolvable reference, ES5 §10.2.2.1).
func Resolve(e *Environment, name string) *Environment {
	for cur := e; cur != nil; cur = cur.Outer {
		if cur.Record.HasBinding(name) {
			return cur
		}
	}
	return nil
}

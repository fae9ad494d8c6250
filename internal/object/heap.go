// Package object implements the polymorphic object model (spec
// component G): objects carry a prototype pointer, a class tag, an
// extensibility flag, a property map and an indexed array, plus
// specialized subkind payloads, and implement the §8.12 "MOP"
// (get/put/delete/define-own, default-value).
//
// Grounded on the teacher's internal/interp/runtime.ObjectInstance for
// the Go-level shape of a value-implementing struct with a class
// pointer and lazily-populated maps, adapted to the shape-tree/slot
// model specified here instead of go-dws's plain string->Value map, and
// on original_source/runtime/object.cc for the exact per-subkind
// override semantics (Array length coupling, Arguments parameter
// linking, Date's default-value hint flip).
package object

import (
	"github.com/cwbudde/esrt/internal/iarray"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/shape"
	"github.com/cwbudde/esrt/internal/strpool"
	"github.com/cwbudde/esrt/internal/value"
)

// Heap is the object arena: the substitute for the C++ original's
// conservative-GC-scanned heap pointers (see internal/value's package
// doc). A Value's 32-bit object payload is an index into objects; as
// long as an Object is reachable from a live Value, it stays reachable
// to Go's collector through this slice, so ordinary (non-conservative)
// GC is sufficient despite the spec assuming a conservative collector
// as an external dependency (spec §5).
type Heap struct {
	pool    *strpool.Pool
	objects []*Object
	roots   map[ClassTag]*shape.Shape

	// ErrorProtos maps builtin error kind names ("TypeError", ...) to
	// their prototype object Values, populated by the bootstrap
	// component (O) once the error prototypes exist. Throw falls back
	// to a null prototype before bootstrap has run (e.g. very early
	// engine construction).
	ErrorProtos map[string]value.Value
}

// RootFor returns the shared shape-tree root every object of class
// starts from when it has no named own properties yet, creating it on
// first use. Sharing one root per class means two freshly-constructed
// arrays (or two freshly-constructed Arguments objects, etc.) that later
// gain the same own properties in the same order converge on identical
// shapes, per the structural-sharing invariant in spec §3.
func (h *Heap) RootFor(class ClassTag) *shape.Shape {
	if h.roots == nil {
		h.roots = make(map[ClassTag]*shape.Shape)
	}
	if r, ok := h.roots[class]; ok {
		return r
	}
	r := shape.NewRoot()
	h.roots[class] = r
	return r
}

// NewHeap creates an empty object arena bound to pool for string-keyed
// operations (property enumeration, ToString, etc).
func NewHeap(pool *strpool.Pool) *Heap {
	return &Heap{pool: pool}
}

// Pool returns the heap's string pool.
func (h *Heap) Pool() *strpool.Pool { return h.pool }

// New allocates obj in the arena and returns the Value referring to it.
func (h *Heap) New(obj *Object) value.Value {
	id := uint32(len(h.objects))
	h.objects = append(h.objects, obj)
	obj.id = id
	obj.heap = h
	return value.FromObjectID(id)
}

// Resolve returns the *Object a Value refers to. Panics if v is not an
// object Value.
func (h *Heap) Resolve(v value.Value) *Object {
	return h.objects[v.AsObjectID()]
}

// NewPlainObject allocates a new ordinary object with proto as its
// prototype (value.Null for no prototype) and a fresh empty property
// map rooted at its own shape lineage root.
func (h *Heap) NewPlainObject(proto value.Value) value.Value {
	return h.New(&Object{
		Proto:      proto,
		Class:      ClassObject,
		Extensible: true,
		Props:      propmap.New(shape.NewRoot()),
		Indexed:    iarray.New(),
	})
}

// NewWithRoot is like NewPlainObject but roots the property map at an
// explicit shared shape root (nil picks a fresh root), letting every
// instance of a builtin prototype or user class share the same
// hidden-class lineage (spec §4.D's structural-sharing invariant only
// pays off when unrelated objects start from the same root).
func (h *Heap) NewWithRoot(proto value.Value, class ClassTag, root *shape.Shape) *Object {
	if root == nil {
		root = shape.NewRoot()
	}
	o := &Object{
		Proto:      proto,
		Class:      class,
		Extensible: true,
		Props:      propmap.New(root),
		Indexed:    iarray.New(),
	}
	h.New(o)
	return o
}

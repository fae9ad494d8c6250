package object

import "github.com/cwbudde/esrt/internal/value"

// NewBoxed allocates a Boolean, Number or String wrapper object (the
// object produced by `new Boolean(...)`, `new Number(...)`, `new
// String(...)`, or by ToObject on a primitive of that kind) holding prim
// in Boxed. class must be one of ClassBoolean, ClassNumber, ClassString.
func (h *Heap) NewBoxed(proto value.Value, class ClassTag, prim value.Value) value.Value {
	o := h.NewWithRoot(proto, class, h.RootFor(class))
	o.Boxed = prim
	return o.AsValue()
}

// NewDate allocates a Date object with the given internal [[PrimitiveValue]]
// in milliseconds since the epoch (may be NaN for an invalid date).
func (h *Heap) NewDate(proto value.Value, ms float64) value.Value {
	o := h.NewWithRoot(proto, ClassDate, h.RootFor(ClassDate))
	o.DateMS = ms
	return o.AsValue()
}

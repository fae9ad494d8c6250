package object

import (
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
)

// lengthKey returns the "length" property key. Nothing is cached: each
// call interns the string (the pool dedupes to the same id in O(1)).
func lengthKey(h *Heap) propkey.Key {
	return propkey.FromStringID(h.pool.Intern("length"))
}

// NewArray allocates an Array object (Class = ClassArray) with the given
// initial elements and proto.
func (h *Heap) NewArray(proto value.Value, elements []value.Value) value.Value {
	o := h.NewWithRoot(proto, ClassArray, h.RootFor(ClassArray))
	o.ArrayLength = uint32(len(elements))
	o.ArrayLengthWritable = true
	for i, v := range elements {
		o.Indexed.Set(uint32(i), propmap.DataProperty(v))
	}
	return o.AsValue()
}

// arrayGetOwnProperty synthesizes the "length" property from
// ArrayLength/ArrayLengthWritable instead of storing it in Props,
// keeping a single source of truth.
func arrayGetOwnProperty(o *Object, key propkey.Key) (propmap.Property, bool, bool) {
	if key.IsIndex() || key.StringID() != o.heap.pool.Intern("length") {
		return propmap.Property{}, false, false
	}
	return propmap.Property{
		Data:         propmap.Value{V: value.FromU32(o.ArrayLength), Writable: o.ArrayLengthWritable},
		Enumerable:   false,
		Configurable: false,
	}, true, true
}

// arrayDefineOwnProperty enforces the length/element coupling of spec
// §4.G: setting "length" to n deletes indices >= n in decreasing order,
// aborting if any is non-configurable; setting index i >= length extends
// length to i+1 unless length is non-writable.
func arrayDefineOwnProperty(o *Object, h *Heap, key propkey.Key, desc propmap.Descriptor, throws bool) (bool, error) {
	if !key.IsIndex() && key.StringID() == h.pool.Intern("length") {
		return arrayDefineLength(o, h, desc, throws)
	}

	if key.IsIndex() {
		idx := key.Index()
		if idx >= o.ArrayLength {
			if !o.ArrayLengthWritable {
				return rejectOrFalse(h, throws, "cannot add index %d: array length is not writable", idx)
			}
		}
		ok, err := o.defineOwnGeneric(h, key, desc, throws)
		if err != nil || !ok {
			return ok, err
		}
		if idx >= o.ArrayLength {
			o.ArrayLength = idx + 1
		}
		return true, nil
	}

	return o.defineOwnGeneric(h, key, desc, throws)
}

func arrayDefineLength(o *Object, h *Heap, desc propmap.Descriptor, throws bool) (bool, error) {
	if !desc.HasValue {
		if desc.HasWritable {
			o.ArrayLengthWritable = o.ArrayLengthWritable && desc.Writable
		}
		return true, nil
	}
	newLen, ok := toArrayLength(desc.Value)
	if !ok {
		return rejectOrFalse(h, throws, "invalid array length")
	}
	if newLen < o.ArrayLength {
		for i := o.ArrayLength; i > newLen; i-- {
			idx := i - 1
			if p, ok := o.Indexed.Get(idx); ok && !p.Configurable {
				o.ArrayLength = idx + 1
				return rejectOrFalse(h, throws, "cannot truncate array past non-configurable index %d", idx)
			}
			o.Indexed.Remove(idx)
		}
	}
	o.ArrayLength = newLen
	if desc.HasWritable {
		o.ArrayLengthWritable = o.ArrayLengthWritable && desc.Writable
	}
	return true, nil
}

func toArrayLength(v value.Value) (uint32, bool) {
	if !v.IsNumber() {
		return 0, false
	}
	f := v.AsNumber()
	if f < 0 || f != float64(uint32(f)) {
		return 0, false
	}
	return uint32(f), true
}

package object

import (
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
)

// ArgumentsData is the Arguments subkind's parameter map: for each
// non-strict, non-shadowed positional parameter, a link from its index
// to the live call-frame slot backing that formal parameter, so that
// mutating either the arguments object or the parameter variable is
// visible through the other (spec §4.G, §4.J).
//
// original_source's EsArguments links by slot *address*; per this
// spec's §4 supplement, when two formals share a name only the last
// occurrence is linked (earlier ones are shadowed) — callers populate
// Links accordingly before handing the object to the evaluator.
type ArgumentsData struct {
	// Links maps an argument index to the live frame slot backing it.
	// A *value.Value here points into the call frame's slice storage
	// (internal/frame), not into a copy.
	Links map[uint32]*value.Value
}

// NewArguments allocates an Arguments object snapshotting argv (the
// Arguments object's own indexed storage starts as a copy of the
// arguments actually passed) and wires the supplied parameter links.
func (h *Heap) NewArguments(proto value.Value, argv []value.Value, links map[uint32]*value.Value) value.Value {
	o := h.NewWithRoot(proto, ClassArguments, h.RootFor(ClassArguments))
	for i, v := range argv {
		o.Indexed.Set(uint32(i), propmap.DataProperty(v))
	}
	o.Args = &ArgumentsData{Links: links}
	lengthKeyID := h.pool.Intern("length")
	o.Props.Add(h.pool, propkey.FromStringID(lengthKeyID), propmap.DataProperty(value.FromI64(int64(len(argv)))))
	return o.AsValue()
}

func argumentsGetOwnProperty(o *Object, key propkey.Key) (propmap.Property, bool, bool) {
	if !key.IsIndex() || o.Args == nil {
		return propmap.Property{}, false, false
	}
	slot, linked := o.Args.Links[key.Index()]
	p, ok := o.Indexed.Get(key.Index())
	if !ok {
		return propmap.Property{}, false, true
	}
	if linked {
		p.Data.V = *slot
	}
	return p, true, true
}

func argumentsPut(o *Object, h *Heap, key propkey.Key, v value.Value, throws bool,
	setterCall func(value.Value, value.Value, []value.Value) error) error {
	if key.IsIndex() && o.Args != nil {
		if slot, linked := o.Args.Links[key.Index()]; linked {
			if p, ok := o.Indexed.Get(key.Index()); ok && !p.Data.Writable {
				if throws {
					return h.Throw("TypeError", "cannot assign to read only property")
				}
				return nil
			}
			*slot = v
			o.Indexed.Set(key.Index(), propmap.DataProperty(v))
			return nil
		}
	}
	return o.putGeneric(h, key, v, throws, setterCall)
}

func argumentsDelete(o *Object, h *Heap, key propkey.Key, throws bool) (bool, error) {
	ok, err := o.deleteGeneric(h, key, throws)
	if ok && key.IsIndex() && o.Args != nil {
		delete(o.Args.Links, key.Index())
	}
	return ok, err
}

func argumentsDefineOwnProperty(o *Object, h *Heap, key propkey.Key, desc propmap.Descriptor, throws bool) (bool, error) {
	ok, err := o.defineOwnGeneric(h, key, desc, throws)
	if !ok || err != nil || !key.IsIndex() || o.Args == nil {
		return ok, err
	}
	slot, linked := o.Args.Links[key.Index()]
	if !linked {
		return ok, nil
	}
	if desc.IsAccessorDescriptor() || (desc.HasWritable && !desc.Writable) {
		delete(o.Args.Links, key.Index())
	} else if desc.HasValue {
		*slot = desc.Value
	}
	return ok, nil
}

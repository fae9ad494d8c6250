package object

import (
	"fmt"

	"github.com/cwbudde/esrt/internal/iarray"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/shape"
	"github.com/cwbudde/esrt/internal/strpool"
	"github.com/cwbudde/esrt/internal/value"
)

// ClassTag identifies an object's specialized subkind. Shared behavior
// (property map, indexed array, prototype chain walk) lives on Object;
// kind-specific behavior dispatches on ClassTag through the functions in
// dispatch.go, per the "tagged variant, not a class hierarchy" design
// note in spec §9.
type ClassTag uint8

const (
	ClassObject ClassTag = iota
	ClassArray
	ClassArguments
	ClassBoolean
	ClassNumber
	ClassString
	ClassDate
	ClassRegExp
	ClassFunction
	ClassError
)

func (c ClassTag) String() string {
	switch c {
	case ClassObject:
		return "Object"
	case ClassArray:
		return "Array"
	case ClassArguments:
		return "Arguments"
	case ClassBoolean:
		return "Boolean"
	case ClassNumber:
		return "Number"
	case ClassString:
		return "String"
	case ClassDate:
		return "Date"
	case ClassRegExp:
		return "RegExp"
	case ClassFunction:
		return "Function"
	case ClassError:
		return "Error"
	default:
		return "Object"
	}
}

// Object is the common base layout for every object kind.
type Object struct {
	id   uint32
	heap *Heap

	Proto      value.Value // object or null
	Class      ClassTag
	Extensible bool
	Props      *propmap.Map
	Indexed    *iarray.Array

	// Subkind payloads. Only the field matching Class is meaningful;
	// kept inline rather than behind an interface{} to avoid a second
	// heap allocation per object.
	ArrayLength         uint32
	ArrayLengthWritable bool
	Boxed               value.Value
	DateMS      float64
	Func        *FunctionData
	RegExp      *RegExpData
	Args        *ArgumentsData
}

// ThrownError is the Go-level carrier for a script-facing thrown value.
// During evaluation a thrown value propagates as an ordinary Go error;
// Component I's pending-exception slot holds one only at the ABI
// boundary. ThrownError exists so that component
// G's methods, which may be called directly (from builtins or unit
// tests) without an active context, can still signal failure the
// idiomatic Go way and let the caller decide where to store it.
type ThrownError struct {
	Value value.Value
}

func (e *ThrownError) Error() string { return "script exception" }

// Throw builds and returns a *ThrownError for kind (e.g. "TypeError"),
// using heap.ErrorProtos[kind] as the thrown object's prototype if the
// error taxonomy (Component M) has registered one yet, else Null.
func (h *Heap) Throw(kind string, format string, args ...any) *ThrownError {
	msg := fmt.Sprintf(format, args...)
	proto := value.Null
	if h.ErrorProtos != nil {
		if p, ok := h.ErrorProtos[kind]; ok {
			proto = p
		}
	}
	o := &Object{
		Proto:      proto,
		Class:      ClassError,
		Extensible: true,
		Props:      propmap.New(shape.NewRoot()),
		Indexed:    iarray.New(),
	}
	h.New(o)
	keyName := propkey.FromStringID(h.pool.Intern("name"))
	keyMsg := propkey.FromStringID(h.pool.Intern("message"))
	o.Props.Add(h.pool, keyName, propmap.DataProperty(value.FromStringID(h.pool.Intern(kind))))
	o.Props.Add(h.pool, keyMsg, propmap.DataProperty(value.FromStringID(h.pool.Intern(msg))))
	return &ThrownError{Value: value.FromObjectID(o.id)}
}

// ID returns the object's arena index (its Value's payload).
func (o *Object) ID() uint32 { return o.id }

// AsValue returns the Value referring to o.
func (o *Object) AsValue() value.Value { return value.FromObjectID(o.id) }

// Pool returns the owning heap's string pool, a convenience for
// property-key construction.
func (o *Object) pool() *strpool.Pool { return o.heap.pool }

// GetOwnProperty dispatches index keys to the indexed array and string
// keys to the property map (spec §4.G), after giving the subkind
// override table (e.g. Array's synthesized "length") a chance to
// intercept the lookup.
func (o *Object) GetOwnProperty(key propkey.Key) (propmap.Property, bool) {
	if ov := dispatchFor(o.Class); ov != nil && ov.getOwn != nil {
		if p, ok, handled := ov.getOwn(o, key); handled {
			return p, ok
		}
	}
	return o.getOwnGeneric(key)
}

func (o *Object) getOwnGeneric(key propkey.Key) (propmap.Property, bool) {
	if key.IsIndex() {
		return o.Indexed.Get(key.Index())
	}
	ref := o.Props.Lookup(key)
	if !ref.Valid() {
		return propmap.Property{}, false
	}
	return ref.Get(), true
}

// GetProperty walks the prototype chain via GetOwnProperty.
func (o *Object) GetProperty(h *Heap, key propkey.Key) (propmap.Property, *Object, bool) {
	for cur := o; ; {
		if p, ok := cur.GetOwnProperty(key); ok {
			return p, cur, true
		}
		if cur.Proto.IsNull() || !cur.Proto.IsObject() {
			return propmap.Property{}, nil, false
		}
		cur = h.Resolve(cur.Proto)
	}
}

// HasProperty is the `in` operator / has_property primitive.
func (o *Object) HasProperty(h *Heap, key propkey.Key) bool {
	_, _, ok := o.GetProperty(h, key)
	return ok
}

// Get resolves key through GetProperty then, for an accessor, invokes
// the getter; getterCall is supplied by the caller (Component K's call
// dispatch) so this package never needs to know how to push a frame.
func (o *Object) Get(h *Heap, key propkey.Key, getterCall func(fn value.Value, this value.Value) (value.Value, error)) (value.Value, error) {
	p, owner, ok := o.GetProperty(h, key)
	if !ok {
		return value.Undefined, nil
	}
	if !p.IsAccessor {
		return p.Data.V, nil
	}
	if p.Getter.IsUndefined() {
		return value.Undefined, nil
	}
	_ = owner
	return getterCall(p.Getter, o.AsValue())
}

// Put implements §8.12.5 literally, dispatching to the per-class
// override table first (Arguments' parameter reflection) and falling
// back to the generic algorithm, whose new-slot step extends an Array's
// length when the index is at or past it.
func (o *Object) Put(h *Heap, key propkey.Key, v value.Value, throws bool,
	setterCall func(fn value.Value, this value.Value, args []value.Value) error) error {
	if ov := dispatchFor(o.Class); ov != nil && ov.put != nil {
		return ov.put(o, h, key, v, throws, setterCall)
	}
	return o.putGeneric(h, key, v, throws, setterCall)
}

func (o *Object) putGeneric(h *Heap, key propkey.Key, v value.Value, throws bool,
	setterCall func(fn value.Value, this value.Value, args []value.Value) error) error {
	p, owner, ok := o.GetProperty(h, key)
	if !ok {
		if !o.Extensible {
			if throws {
				return h.Throw("TypeError", "object is not extensible")
			}
			return nil
		}
		o.defineDataSlot(h, key, v)
		return nil
	}
	if !p.IsAccessor {
		if owner == o {
			if !p.Data.Writable {
				if throws {
					return h.Throw("TypeError", "cannot assign to read only property")
				}
				return nil
			}
			p.Data.V = v
			o.setOwnProperty(key, p)
			return nil
		}
		// Inherited data property: create an own property on this,
		// unless the inherited one is non-writable.
		if !p.Data.Writable {
			if throws {
				return h.Throw("TypeError", "cannot assign to read only property")
			}
			return nil
		}
		if !o.Extensible {
			if throws {
				return h.Throw("TypeError", "object is not extensible")
			}
			return nil
		}
		o.defineDataSlot(h, key, v)
		return nil
	}
	// Accessor property (own or inherited).
	if p.Setter.IsUndefined() {
		if throws {
			return h.Throw("TypeError", "property has no setter")
		}
		return nil
	}
	return setterCall(p.Setter, o.AsValue(), []value.Value{v})
}

func (o *Object) defineDataSlot(h *Heap, key propkey.Key, v value.Value) {
	if key.IsIndex() {
		o.Indexed.Set(key.Index(), propmap.DataProperty(v))
		if o.Class == ClassArray && key.Index() >= o.ArrayLength {
			o.ArrayLength = key.Index() + 1
		}
		return
	}
	o.Props.Add(h.pool, key, propmap.DataProperty(v))
}

func (o *Object) setOwnProperty(key propkey.Key, p propmap.Property) {
	if key.IsIndex() {
		o.Indexed.Set(key.Index(), p)
		return
	}
	ref := o.Props.Lookup(key)
	if ref.Valid() {
		ref.Set(p)
	}
}

// Delete removes configurable own properties; non-configurable yields
// TypeError when throws, else returns false.
func (o *Object) Delete(h *Heap, key propkey.Key, throws bool) (bool, error) {
	if ov := dispatchFor(o.Class); ov != nil && ov.delete != nil {
		return ov.delete(o, h, key, throws)
	}
	return o.deleteGeneric(h, key, throws)
}

func (o *Object) deleteGeneric(h *Heap, key propkey.Key, throws bool) (bool, error) {
	p, ok := o.GetOwnProperty(key)
	if !ok {
		return true, nil
	}
	if !p.Configurable {
		if throws {
			return false, h.Throw("TypeError", "property is not configurable")
		}
		return false, nil
	}
	if key.IsIndex() {
		o.Indexed.Remove(key.Index())
		return true, nil
	}
	o.Props.Remove(key)
	return true, nil
}

// DefaultValue implements §8.12.8: for hint "string" try toString then
// valueOf; for hint "number" (or none, except Date which flips to
// string) try valueOf then toString.
func (o *Object) DefaultValue(h *Heap, hint string,
	call func(fn value.Value, this value.Value) (value.Value, error)) (value.Value, error) {
	if hint == "" {
		if o.Class == ClassDate {
			hint = "string"
		} else {
			hint = "number"
		}
	}
	order := []string{"valueOf", "toString"}
	if hint == "string" {
		order = []string{"toString", "valueOf"}
	}
	for _, name := range order {
		key := propkey.FromStringID(h.pool.Intern(name))
		fnVal, err := o.Get(h, key, call)
		if err != nil {
			return value.Undefined, err
		}
		if !fnVal.IsObject() {
			continue
		}
		fnObj := h.Resolve(fnVal)
		if fnObj.Class != ClassFunction {
			continue
		}
		result, err := call(fnVal, o.AsValue())
		if err != nil {
			return value.Undefined, err
		}
		if result.IsPrimitive() {
			return result, nil
		}
	}
	return value.Undefined, h.Throw("TypeError", "cannot convert object to primitive value")
}

// DefineOwnProperty implements §8.12.9, dispatching to the per-class
// override first.
func (o *Object) DefineOwnProperty(h *Heap, key propkey.Key, desc propmap.Descriptor, throws bool) (bool, error) {
	if ov := dispatchFor(o.Class); ov != nil && ov.defineOwn != nil {
		return ov.defineOwn(o, h, key, desc, throws)
	}
	return o.defineOwnGeneric(h, key, desc, throws)
}

func rejectOrFalse(h *Heap, throws bool, format string, args ...any) (bool, error) {
	if throws {
		return false, h.Throw("TypeError", format, args...)
	}
	return false, nil
}

func (o *Object) defineOwnGeneric(h *Heap, key propkey.Key, desc propmap.Descriptor, throws bool) (bool, error) {
	current, exists := o.GetOwnProperty(key)
	if !exists {
		if !o.Extensible {
			return rejectOrFalse(h, throws, "object is not extensible")
		}
		o.setOwnProperty(key, fromDescriptor(desc, false))
		// Ensure the slot actually gets created for string keys (a
		// fresh Lookup above returned invalid, so setOwnProperty's
		// lookup-then-set path is a no-op; add explicitly instead).
		if !key.IsIndex() {
			if ref := o.Props.Lookup(key); !ref.Valid() {
				o.Props.Add(h.pool, key, fromDescriptor(desc, false))
			}
		} else {
			o.Indexed.Set(key.Index(), fromDescriptor(desc, false))
		}
		return true, nil
	}

	if desc.IsGeneric() {
		merged := applyFlags(current, desc)
		o.setOwnProperty(key, merged)
		return true, nil
	}

	if !current.Configurable {
		if desc.HasConfigurable && desc.Configurable {
			return rejectOrFalse(h, throws, "cannot redefine non-configurable property")
		}
		if desc.HasEnumerable && desc.Enumerable != current.Enumerable {
			return rejectOrFalse(h, throws, "cannot change enumerable on non-configurable property")
		}
		if describedBy(current, desc) {
			return true, nil
		}
		if current.IsAccessor != desc.IsAccessorDescriptor() && desc.IsDataDescriptor() == desc.IsAccessorDescriptor() {
			// generic already handled above
		}
		if !current.IsAccessor && desc.IsAccessorDescriptor() {
			return rejectOrFalse(h, throws, "cannot redefine non-configurable data property as accessor")
		}
		if current.IsAccessor && desc.IsDataDescriptor() {
			return rejectOrFalse(h, throws, "cannot redefine non-configurable accessor property as data")
		}
		if !current.IsAccessor && !current.Data.Writable {
			if desc.HasWritable && desc.Writable {
				return rejectOrFalse(h, throws, "cannot make non-writable property writable")
			}
			if desc.HasValue && !sameValue(desc.Value, current.Data.V) {
				return rejectOrFalse(h, throws, "cannot change value of non-writable, non-configurable property")
			}
		}
		if current.IsAccessor {
			if desc.HasGetter && !sameValue(desc.Getter, current.Getter) {
				return rejectOrFalse(h, throws, "cannot change getter of non-configurable accessor property")
			}
			if desc.HasSetter && !sameValue(desc.Setter, current.Setter) {
				return rejectOrFalse(h, throws, "cannot change setter of non-configurable accessor property")
			}
		}
	}

	merged := mergeDescriptor(current, desc)
	o.setOwnProperty(key, merged)
	return true, nil
}

func sameValue(a, b value.Value) bool {
	if a.IsNumber() && b.IsNumber() {
		af, bf := a.AsNumber(), b.AsNumber()
		if af != af && bf != bf {
			return true // NaN same-value as NaN
		}
		if af == 0 && bf == 0 {
			return (1/af > 0) == (1/bf > 0)
		}
		return af == bf
	}
	return a.RawEquals(b)
}

func fromDescriptor(desc propmap.Descriptor, _ bool) propmap.Property {
	p := propmap.Property{
		Enumerable:   desc.HasEnumerable && desc.Enumerable,
		Configurable: desc.HasConfigurable && desc.Configurable,
	}
	if desc.IsAccessorDescriptor() {
		p.IsAccessor = true
		p.Getter = value.Undefined
		p.Setter = value.Undefined
		if desc.HasGetter {
			p.Getter = desc.Getter
		}
		if desc.HasSetter {
			p.Setter = desc.Setter
		}
		return p
	}
	p.Data.V = value.Undefined
	if desc.HasValue {
		p.Data.V = desc.Value
	}
	p.Data.Writable = desc.HasWritable && desc.Writable
	return p
}

func applyFlags(current propmap.Property, desc propmap.Descriptor) propmap.Property {
	if desc.HasEnumerable {
		current.Enumerable = desc.Enumerable
	}
	if desc.HasConfigurable {
		current.Configurable = desc.Configurable
	}
	return current
}

func mergeDescriptor(current propmap.Property, desc propmap.Descriptor) propmap.Property {
	wantsAccessor := desc.IsAccessorDescriptor()
	wantsData := desc.IsDataDescriptor()

	result := current
	if desc.HasEnumerable {
		result.Enumerable = desc.Enumerable
	}
	if desc.HasConfigurable {
		result.Configurable = desc.Configurable
	}

	switch {
	case wantsAccessor && !current.IsAccessor:
		result = propmap.Property{IsAccessor: true, Enumerable: result.Enumerable, Configurable: result.Configurable}
		result.Getter, result.Setter = value.Undefined, value.Undefined
		if desc.HasGetter {
			result.Getter = desc.Getter
		}
		if desc.HasSetter {
			result.Setter = desc.Setter
		}
	case wantsAccessor:
		if desc.HasGetter {
			result.Getter = desc.Getter
		}
		if desc.HasSetter {
			result.Setter = desc.Setter
		}
	case wantsData && current.IsAccessor:
		result = propmap.Property{Enumerable: result.Enumerable, Configurable: result.Configurable}
		result.Data.V = value.Undefined
		if desc.HasValue {
			result.Data.V = desc.Value
		}
		if desc.HasWritable {
			result.Data.Writable = desc.Writable
		}
	case wantsData:
		if desc.HasValue {
			result.Data.V = desc.Value
		}
		if desc.HasWritable {
			result.Data.Writable = desc.Writable
		}
	}
	return result
}

func describedBy(current propmap.Property, desc propmap.Descriptor) bool {
	if desc.HasEnumerable && desc.Enumerable != current.Enumerable {
		return false
	}
	if desc.HasConfigurable && desc.Configurable != current.Configurable {
		return false
	}
	if desc.IsDataDescriptor() {
		if current.IsAccessor {
			return false
		}
		if desc.HasValue && !sameValue(desc.Value, current.Data.V) {
			return false
		}
		if desc.HasWritable && desc.Writable != current.Data.Writable {
			return false
		}
	}
	if desc.IsAccessorDescriptor() {
		if !current.IsAccessor {
			return false
		}
		if desc.HasGetter && !sameValue(desc.Getter, current.Getter) {
			return false
		}
		if desc.HasSetter && !sameValue(desc.Setter, current.Setter) {
			return false
		}
	}
	return true
}

// OwnPropertyKeys returns every own property key in the canonical
// ECMAScript enumeration order: integer-index keys ascending first
// (indexed array, then integer-named string-keyed properties sorted via
// natural.Less over their decimal form), then remaining string keys in
// insertion order.
func (o *Object) OwnPropertyKeys() []propkey.Key {
	var out []propkey.Key
	for _, e := range o.Indexed.Entries() {
		out = append(out, propkey.FromU32(e.Index))
	}
	out = append(out, sortedIntegerStringKeys(o.pool(), o.Props.OwnKeys())...)
	for _, k := range o.Props.OwnKeys() {
		if !isIntegerKeyName(o.pool(), k) {
			out = append(out, k)
		}
	}
	return out
}

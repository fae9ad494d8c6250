package ops

import (
	"math"

	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/value"
)

func propkeyFromPool(h *object.Heap, s string) propkey.Key {
	return propkey.FromString(h.Pool(), s)
}

// StrictEquals implements ES5 §11.9.6, the `===` algorithm.
func StrictEquals(h *object.Heap, a, b value.Value) bool {
	switch {
	case a.IsUndefined() && b.IsUndefined(), a.IsNull() && b.IsNull():
		return true
	case a.IsNumber() && b.IsNumber():
		return a.AsNumber() == b.AsNumber()
	case a.IsString() && b.IsString():
		if a.AsStringID() == b.AsStringID() {
			return true
		}
		return h.Pool().Lookup(a.AsStringID()) == h.Pool().Lookup(b.AsStringID())
	case a.IsBoolean() && b.IsBoolean():
		return a.AsBoolean() == b.AsBoolean()
	case a.IsObject() && b.IsObject():
		return a.RawEquals(b)
	default:
		return false
	}
}

// AbstractEquals implements ES5 §11.9.3, the `==` algorithm, including
// its cross-type coercion rules and the object<->primitive recursion
// (bounded: an object converts to a primitive at most once per side).
func AbstractEquals(h *object.Heap, a, b value.Value, c Caller) (bool, error) {
	switch {
	case sameType(a, b):
		return StrictEquals(h, a, b), nil
	case a.IsNull() && b.IsUndefined(), a.IsUndefined() && b.IsNull():
		return true, nil
	case a.IsNumber() && b.IsString():
		bn, err := ToNumber(h, b, c)
		if err != nil {
			return false, err
		}
		return a.AsNumber() == bn, nil
	case a.IsString() && b.IsNumber():
		an, err := ToNumber(h, a, c)
		if err != nil {
			return false, err
		}
		return an == b.AsNumber(), nil
	case a.IsBoolean():
		an, err := ToNumber(h, a, c)
		if err != nil {
			return false, err
		}
		return AbstractEquals(h, value.FromNumber(an), b, c)
	case b.IsBoolean():
		bn, err := ToNumber(h, b, c)
		if err != nil {
			return false, err
		}
		return AbstractEquals(h, a, value.FromNumber(bn), c)
	case (a.IsNumber() || a.IsString()) && b.IsObject():
		bp, err := ToPrimitive(h, b, "default", c)
		if err != nil {
			return false, err
		}
		return AbstractEquals(h, a, bp, c)
	case a.IsObject() && (b.IsNumber() || b.IsString()):
		ap, err := ToPrimitive(h, a, "default", c)
		if err != nil {
			return false, err
		}
		return AbstractEquals(h, ap, b, c)
	default:
		return false, nil
	}
}

func sameType(a, b value.Value) bool {
	switch {
	case a.IsUndefined() && b.IsUndefined():
		return true
	case a.IsNull() && b.IsNull():
		return true
	case a.IsNumber() && b.IsNumber():
		return true
	case a.IsString() && b.IsString():
		return true
	case a.IsBoolean() && b.IsBoolean():
		return true
	case a.IsObject() && b.IsObject():
		return true
	default:
		return false
	}
}

// Add implements the `+` operator (ES5 §11.6.1): numeric addition unless
// either ToPrimitive'd operand is a string, in which case concatenation.
func Add(h *object.Heap, a, b value.Value, c Caller) (value.Value, error) {
	ap, err := ToPrimitive(h, a, "default", c)
	if err != nil {
		return value.Undefined, err
	}
	bp, err := ToPrimitive(h, b, "default", c)
	if err != nil {
		return value.Undefined, err
	}
	if ap.IsString() || bp.IsString() {
		as, err := ToStringValue(h, ap, c)
		if err != nil {
			return value.Undefined, err
		}
		bs, err := ToStringValue(h, bp, c)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromStringID(h.Pool().Concat(as.AsStringID(), bs.AsStringID())), nil
	}
	an, err := ToNumber(h, ap, c)
	if err != nil {
		return value.Undefined, err
	}
	bn, err := ToNumber(h, bp, c)
	if err != nil {
		return value.Undefined, err
	}
	return value.FromNumber(an + bn), nil
}

// LessThan implements ES5 §11.8.5's abstract relational comparison for
// `<`; the returned bool's second value is false when the comparison is
// "undefined" (either side is NaN), per the spec's three-valued result.
func LessThan(h *object.Heap, a, b value.Value, c Caller) (result bool, defined bool, err error) {
	ap, err := ToPrimitive(h, a, "number", c)
	if err != nil {
		return false, false, err
	}
	bp, err := ToPrimitive(h, b, "number", c)
	if err != nil {
		return false, false, err
	}
	if ap.IsString() && bp.IsString() {
		as := h.Pool().Lookup(ap.AsStringID())
		bs := h.Pool().Lookup(bp.AsStringID())
		return as < bs, true, nil
	}
	an, err := ToNumber(h, ap, c)
	if err != nil {
		return false, false, err
	}
	bn, err := ToNumber(h, bp, c)
	if err != nil {
		return false, false, err
	}
	if math.IsNaN(an) || math.IsNaN(bn) {
		return false, false, nil
	}
	return an < bn, true, nil
}

// InstanceOf implements ES5 §11.8.6 / §15.3.5.3: walks ctor.prototype
// against v's prototype chain.
func InstanceOf(h *object.Heap, v, ctor value.Value, c Caller) (bool, error) {
	if !ctor.IsObject() || h.Resolve(ctor).Class != object.ClassFunction {
		return false, h.Throw("TypeError", "right-hand side of instanceof is not callable")
	}
	if !v.IsObject() {
		return false, nil
	}
	protoKey := propkeyFromPool(h, "prototype")
	protoVal, err := h.Resolve(ctor).Get(h, protoKey, func(fn, this value.Value) (value.Value, error) {
		return c.Call(h, fn, this, nil)
	})
	if err != nil {
		return false, err
	}
	if !protoVal.IsObject() {
		return false, h.Throw("TypeError", "prototype is not an object")
	}
	cur := h.Resolve(v).Proto
	for cur.IsObject() {
		if cur.RawEquals(protoVal) {
			return true, nil
		}
		cur = h.Resolve(cur).Proto
	}
	return false, nil
}

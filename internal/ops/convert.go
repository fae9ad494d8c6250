// Package ops implements the type-conversion and operator primitives
// (spec component K): ToPrimitive/ToBoolean/ToNumber/ToString/ToObject
// (ES5 §9), the binary/relational/equality operator algorithms (§11.5-
// §11.10), and `typeof`/`in`/`instanceof`.
//
// Every conversion that can invoke user script (ToPrimitive calling
// valueOf/toString, instanceof calling [[HasInstance]]) takes a Caller,
// dependency-injected the same way internal/object's Get/Put take a
// getterCall/setterCall callback — ops sits below the evaluator
// (component L) in the dependency graph (the evaluator calls these
// conversions while walking the AST) so it cannot import the evaluator
// to invoke a script function itself.
//
// Grounded on the teacher's internal/interp adapter_operators.go and
// adapter_values.go, which similarly centralize DWScript's coercion and
// operator rules behind a handful of conversion entry points the
// evaluator calls into rather than reimplementing inline at every
// operator site.
package ops

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/value"
)

// Caller invokes a function value with this/args, used only by
// conversions that may call user script (ToPrimitive, instanceof).
type Caller interface {
	Call(h *object.Heap, fn, this value.Value, args []value.Value) (value.Value, error)
}

// ToPrimitive implements ES5 §9.1: objects convert via DefaultValue;
// every other Value is already primitive.
func ToPrimitive(h *object.Heap, v value.Value, hint string, c Caller) (value.Value, error) {
	if !v.IsObject() {
		return v, nil
	}
	o := h.Resolve(v)
	return o.DefaultValue(h, hint, func(fn, this value.Value) (value.Value, error) {
		return c.Call(h, fn, this, nil)
	})
}

// ToBoolean implements ES5 §9.2; never fails and never calls script.
func ToBoolean(h *object.Heap, v value.Value) bool {
	switch {
	case v.IsUndefined(), v.IsNull():
		return false
	case v.IsBoolean():
		return v.AsBoolean()
	case v.IsNumber():
		n := v.AsNumber()
		return n != 0 && n == n // false for 0, -0, NaN
	case v.IsString():
		return h.Pool().Len(v.AsStringID()) > 0
	default:
		return true // every object
	}
}

// ToNumber implements ES5 §9.3.
func ToNumber(h *object.Heap, v value.Value, c Caller) (float64, error) {
	switch {
	case v.IsUndefined():
		return math.NaN(), nil
	case v.IsNull():
		return 0, nil
	case v.IsBoolean():
		if v.AsBoolean() {
			return 1, nil
		}
		return 0, nil
	case v.IsNumber():
		return v.AsNumber(), nil
	case v.IsString():
		return stringToNumber(h.Pool().Lookup(v.AsStringID())), nil
	default:
		prim, err := ToPrimitive(h, v, "number", c)
		if err != nil {
			return 0, err
		}
		if prim.IsObject() {
			return math.NaN(), nil // DefaultValue guarantees a primitive; defensive only
		}
		return ToNumber(h, prim, c)
	}
}

// stringToNumber implements ES5 §9.3.1's StringNumericLiteral grammar,
// approximated with strconv plus the empty-string-is-zero and
// whitespace-trimming special cases ES5 carves out.
func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	if t == "Infinity" || t == "+Infinity" {
		return math.Inf(1)
	}
	if t == "-Infinity" {
		return math.Inf(-1)
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		n, err := strconv.ParseUint(t[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	n, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// ToInt32 implements ES5 §9.5.
func ToInt32(h *object.Heap, v value.Value, c Caller) (int32, error) {
	n, err := ToNumber(h, v, c)
	if err != nil {
		return 0, err
	}
	return int32(toUint32Bits(n)), nil
}

// ToUint32 implements ES5 §9.6.
func ToUint32(h *object.Heap, v value.Value, c Caller) (uint32, error) {
	n, err := ToNumber(h, v, c)
	if err != nil {
		return 0, err
	}
	return toUint32Bits(n), nil
}

func toUint32Bits(n float64) uint32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	n = math.Trunc(n)
	const twoPow32 = 4294967296.0
	m := math.Mod(n, twoPow32)
	if m < 0 {
		m += twoPow32
	}
	return uint32(m)
}

// ToInteger implements ES5 §9.4.
func ToInteger(h *object.Heap, v value.Value, c Caller) (float64, error) {
	n, err := ToNumber(h, v, c)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) {
		return 0, nil
	}
	if math.IsInf(n, 0) || n == 0 {
		return n, nil
	}
	if n < 0 {
		return -math.Floor(-n), nil
	}
	return math.Floor(n), nil
}

// ToStringValue implements ES5 §9.8, returning an interned-string Value.
func ToStringValue(h *object.Heap, v value.Value, c Caller) (value.Value, error) {
	switch {
	case v.IsUndefined():
		return value.FromStringID(h.Pool().Intern("undefined")), nil
	case v.IsNull():
		return value.FromStringID(h.Pool().Intern("null")), nil
	case v.IsBoolean():
		if v.AsBoolean() {
			return value.FromStringID(h.Pool().Intern("true")), nil
		}
		return value.FromStringID(h.Pool().Intern("false")), nil
	case v.IsString():
		return v, nil
	case v.IsNumber():
		return value.FromStringID(h.Pool().Intern(NumberToString(v.AsNumber()))), nil
	default:
		prim, err := ToPrimitive(h, v, "string", c)
		if err != nil {
			return value.Undefined, err
		}
		if prim.IsObject() {
			return value.Undefined, h.Throw("TypeError", "cannot convert object to primitive string")
		}
		return ToStringValue(h, prim, c)
	}
}

// NumberToString implements ES5 §9.8.1's ToString applied to a Number,
// close enough to the spec's shortest-round-trip requirement by
// delegating to Go's own shortest-representation float formatting.
func NumberToString(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if n == 0 {
		if math.Signbit(n) {
			return "0" // ES5 ToString(-0) is "0", unlike -0's own sign
		}
		return "0"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// ToObject implements ES5 §9.9: boxes primitives, throws TypeError for
// null/undefined, and passes objects through unchanged. protoFor
// resolves the correct wrapper prototype per-kind (injected since ops
// has no access to the bootstrap-populated global prototypes).
func ToObject(h *object.Heap, v value.Value, protoFor func(object.ClassTag) value.Value) (value.Value, error) {
	switch {
	case v.IsUndefined(), v.IsNull():
		return value.Undefined, h.Throw("TypeError", "cannot convert undefined or null to object")
	case v.IsObject():
		return v, nil
	case v.IsBoolean():
		return h.NewBoxed(protoFor(object.ClassBoolean), object.ClassBoolean, v), nil
	case v.IsNumber():
		return h.NewBoxed(protoFor(object.ClassNumber), object.ClassNumber, v), nil
	case v.IsString():
		return h.NewBoxed(protoFor(object.ClassString), object.ClassString, v), nil
	}
	return value.Undefined, h.Throw("TypeError", "cannot convert value to object")
}

// Typeof implements ES5 §11.4.3, including the "function" special case
// for callable objects.
func Typeof(h *object.Heap, v value.Value) string {
	switch {
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "object"
	case v.IsBoolean():
		return "boolean"
	case v.IsNumber():
		return "number"
	case v.IsString():
		return "string"
	case v.IsObject():
		if h.Resolve(v).Class == object.ClassFunction {
			return "function"
		}
		return "object"
	}
	return "undefined"
}

// HasProperty implements the `in` operator (ES5 §11.8.7); key is already
// ToString-converted by the caller (the left operand of `in` is
// ToString'd before lookup per the spec).
func HasProperty(h *object.Heap, obj value.Value, key propkey.Key) (bool, error) {
	if !obj.IsObject() {
		return false, h.Throw("TypeError", "cannot use 'in' operator on a non-object")
	}
	return h.Resolve(obj).HasProperty(h, key), nil
}

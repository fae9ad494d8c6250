// Operator primitives (spec §6): the unary, binary, and comparison ops
// every expression in compiled code lowers to. Delegates to internal/ops
// wherever it already implements the algorithm; internal/ops has no
// Sub/Mul/Div/Mod or bitwise operators (those live inline in
// internal/evaluator's applyBinary, unexported), so this file carries
// its own small copy of that arithmetic against the same
// ToNumber/ToInt32/ToUint32 conversions — a deliberate duplication,
// since this ABI is a lower-level linkage surface a compiled caller
// reaches directly, bypassing the tree-walking evaluator entirely.
package abi

import (
	"math"

	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
)

// UTypeof is u_typeof (ES5 §11.4.3).
func UTypeof(v value.Value) value.Value {
	e := engineInstance()
	return value.FromStringID(e.Evaluator.Heap.Pool().Intern(ops.Typeof(e.Evaluator.Heap, v)))
}

// UNot is u_not, logical negation (ES5 §11.4.9).
func UNot(v value.Value) value.Value {
	e := engineInstance()
	return value.FromBool(!ops.ToBoolean(e.Evaluator.Heap, v))
}

// UBitNot is u_bit_not, bitwise complement (ES5 §11.4.8).
func UBitNot(v value.Value) (value.Value, bool) {
	e := engineInstance()
	n, err := ops.ToInt32(e.Evaluator.Heap, v, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return value.FromNumber(float64(^n)), true
}

// UAdd is u_add, unary plus (ES5 §11.4.6).
func UAdd(v value.Value) (value.Value, bool) {
	e := engineInstance()
	n, err := ops.ToNumber(e.Evaluator.Heap, v, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return value.FromNumber(n), true
}

// USub is u_sub, unary negation (ES5 §11.4.7).
func USub(v value.Value) (value.Value, bool) {
	e := engineInstance()
	n, err := ops.ToNumber(e.Evaluator.Heap, v, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return value.FromNumber(-n), true
}

// BAdd is b_add (ES5 §11.6.1): string concatenation or numeric sum,
// chosen by ToPrimitive's result types.
func BAdd(a, b value.Value) (value.Value, bool) {
	e := engineInstance()
	v, err := ops.Add(e.Evaluator.Heap, a, b, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return v, true
}

func numericBinary(a, b value.Value, f func(x, y float64) float64) (value.Value, bool) {
	e := engineInstance()
	h := e.Evaluator.Heap
	x, err := ops.ToNumber(h, a, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	y, err := ops.ToNumber(h, b, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return value.FromNumber(f(x, y)), true
}

// BSub is b_sub (ES5 §11.6.2).
func BSub(a, b value.Value) (value.Value, bool) {
	return numericBinary(a, b, func(x, y float64) float64 { return x - y })
}

// BMul is b_mul (ES5 §11.5.1).
func BMul(a, b value.Value) (value.Value, bool) {
	return numericBinary(a, b, func(x, y float64) float64 { return x * y })
}

// BDiv is b_div (ES5 §11.5.2).
func BDiv(a, b value.Value) (value.Value, bool) {
	return numericBinary(a, b, func(x, y float64) float64 { return x / y })
}

// BMod is b_mod (ES5 §11.5.3).
func BMod(a, b value.Value) (value.Value, bool) {
	return numericBinary(a, b, math.Mod)
}

func int32Binary(a, b value.Value, f func(x int32, y uint32) int32) (value.Value, bool) {
	e := engineInstance()
	h := e.Evaluator.Heap
	x, err := ops.ToInt32(h, a, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	y, err := ops.ToUint32(h, b, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return value.FromNumber(float64(f(x, y))), true
}

// BOr is b_or, bitwise OR (ES5 §11.10).
func BOr(a, b value.Value) (value.Value, bool) {
	return int32Binary(a, b, func(x int32, y uint32) int32 { return x | int32(y) })
}

// BXor is b_xor, bitwise XOR (ES5 §11.10).
func BXor(a, b value.Value) (value.Value, bool) {
	return int32Binary(a, b, func(x int32, y uint32) int32 { return x ^ int32(y) })
}

// BAnd is b_and, bitwise AND (ES5 §11.10).
func BAnd(a, b value.Value) (value.Value, bool) {
	return int32Binary(a, b, func(x int32, y uint32) int32 { return x & int32(y) })
}

// BShl is b_shl, left shift (ES5 §11.7.1).
func BShl(a, b value.Value) (value.Value, bool) {
	return int32Binary(a, b, func(x int32, y uint32) int32 { return x << (y & 31) })
}

// BSar is b_sar, signed right shift (ES5 §11.7.2).
func BSar(a, b value.Value) (value.Value, bool) {
	return int32Binary(a, b, func(x int32, y uint32) int32 { return x >> (y & 31) })
}

// BShr is b_shr, unsigned right shift (ES5 §11.7.3).
func BShr(a, b value.Value) (value.Value, bool) {
	e := engineInstance()
	h := e.Evaluator.Heap
	x, err := ops.ToUint32(h, a, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	y, err := ops.ToUint32(h, b, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return value.FromNumber(float64(x >> (y & 31))), true
}

// CIn is c_in, the `in` operator (ES5 §11.8.7).
func CIn(name string, obj value.Value) (value.Value, bool) {
	e := engineInstance()
	h := e.Evaluator.Heap
	if !obj.IsObject() {
		return value.Undefined, propagateErr(e, h.Throw("TypeError", "cannot use 'in' operator on non-object"))
	}
	ok, err := ops.HasProperty(h, obj, keyOf(h, name))
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return value.FromBool(ok), true
}

// CInstanceOf is c_instance_of, the `instanceof` operator (ES5 §11.8.6).
func CInstanceOf(v, ctor value.Value) (value.Value, bool) {
	e := engineInstance()
	ok, err := ops.InstanceOf(e.Evaluator.Heap, v, ctor, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return value.FromBool(ok), true
}

// CStrictEq/CStrictNeq are c_strict_eq/c_strict_neq (`===`/`!==`, ES5
// §11.9.4/§11.9.5).
func CStrictEq(a, b value.Value) value.Value {
	e := engineInstance()
	return value.FromBool(ops.StrictEquals(e.Evaluator.Heap, a, b))
}

func CStrictNeq(a, b value.Value) value.Value {
	e := engineInstance()
	return value.FromBool(!ops.StrictEquals(e.Evaluator.Heap, a, b))
}

// CEq/CNeq are c_eq/c_neq (`==`/`!=`, ES5 §11.9.1/§11.9.2).
func CEq(a, b value.Value) (value.Value, bool) {
	e := engineInstance()
	eq, err := ops.AbstractEquals(e.Evaluator.Heap, a, b, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return value.FromBool(eq), true
}

func CNeq(a, b value.Value) (value.Value, bool) {
	e := engineInstance()
	eq, err := ops.AbstractEquals(e.Evaluator.Heap, a, b, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	return value.FromBool(!eq), true
}

func relational(a, b value.Value, swap, negate bool) (value.Value, bool) {
	e := engineInstance()
	x, y := a, b
	if swap {
		x, y = b, a
	}
	r, defined, err := ops.LessThan(e.Evaluator.Heap, x, y, e.Evaluator)
	if err != nil {
		return value.Undefined, propagateErr(e, err)
	}
	if negate {
		r = !r
	}
	return value.FromBool(defined && r), true
}

// CLt is c_lt, `<` (ES5 §11.8.1).
func CLt(a, b value.Value) (value.Value, bool) { return relational(a, b, false, false) }

// CGt is c_gt, `>` (ES5 §11.8.2).
func CGt(a, b value.Value) (value.Value, bool) { return relational(a, b, true, false) }

// CLte is c_lte, `<=` (ES5 §11.8.3).
func CLte(a, b value.Value) (value.Value, bool) { return relational(a, b, true, true) }

// CGte is c_gte, `>=` (ES5 §11.8.4).
func CGte(a, b value.Value) (value.Value, bool) { return relational(a, b, false, true) }

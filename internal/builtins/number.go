package builtins

import (
	"math"
	"strconv"

	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
)

// installNumber wires Number.prototype (ES5 §15.7.4) and the
// constructor's MAX_VALUE/MIN_VALUE/NaN/NEGATIVE_INFINITY/
// POSITIVE_INFINITY statics.
func installNumber(e *evaluator.Evaluator) {
	proto := e.Protos[object.ClassNumber]

	thisNum := func(h *object.Heap, this value.Value) (float64, error) {
		if this.IsNumber() {
			return this.AsNumber(), nil
		}
		if this.IsObject() && h.Resolve(this).Class == object.ClassNumber {
			return h.Resolve(this).Boxed.AsNumber(), nil
		}
		return ops.ToNumber(h, this, e)
	}

	method(e, proto, "toString", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		n, err := thisNum(h, this)
		if err != nil {
			return value.Undefined, err
		}
		radix := 10
		if r := arg(args, 0); !r.IsUndefined() {
			rn, err := ops.ToInteger(h, r, e)
			if err != nil {
				return value.Undefined, err
			}
			radix = int(rn)
		}
		if radix == 10 {
			return value.FromStringID(h.Pool().Intern(ops.NumberToString(n))), nil
		}
		return value.FromStringID(h.Pool().Intern(strconv.FormatInt(int64(n), radix))), nil
	})

	method(e, proto, "valueOf", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		n, err := thisNum(h, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromNumber(n), nil
	})

	method(e, proto, "toFixed", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		n, err := thisNum(h, this)
		if err != nil {
			return value.Undefined, err
		}
		digits := 0
		if d := arg(args, 0); !d.IsUndefined() {
			dn, err := ops.ToInteger(h, d, e)
			if err != nil {
				return value.Undefined, err
			}
			digits = int(dn)
		}
		return value.FromStringID(h.Pool().Intern(strconv.FormatFloat(n, 'f', digits, 64))), nil
	})

	ctorData := &object.FunctionData{
		Name:     "Number",
		IsNative: true,
		NativeFn: func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			if len(args) == 0 {
				return value.FromNumber(0), nil
			}
			n, err := ops.ToNumber(h, args[0], e)
			if err != nil {
				return value.Undefined, err
			}
			return value.FromNumber(n), nil
		},
		Constructable: true,
	}
	ctor := e.Heap.NewFunction(e.Protos[object.ClassFunction], ctorData, 1)
	linkConstructor(e, ctor, proto)
	defineGlobal(e, "Number", ctor)

	defineHidden(e, ctor, "MAX_VALUE", value.FromNumber(math.MaxFloat64))
	defineHidden(e, ctor, "MIN_VALUE", value.FromNumber(math.SmallestNonzeroFloat64))
	defineHidden(e, ctor, "NaN", value.FromNumber(math.NaN()))
	defineHidden(e, ctor, "NEGATIVE_INFINITY", value.FromNumber(math.Inf(-1)))
	defineHidden(e, ctor, "POSITIVE_INFINITY", value.FromNumber(math.Inf(1)))
}

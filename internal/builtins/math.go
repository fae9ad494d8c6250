package builtins

import (
	"math"
	"math/rand"

	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
)

// installMath wires the Math object (ES5 §15.8): its constants and the
// unary/binary functions delegating straight to the standard library's
// math package, the same delegation style the teacher's (now removed)
// trigonometric builtins used for DWScript's Sin/Cos/Tan/... globals.
func installMath(e *evaluator.Evaluator) {
	h := e.Heap
	math_ := h.NewPlainObject(e.Protos[object.ClassObject])
	defineGlobal(e, "Math", math_)

	defineHidden(e, math_, "E", value.FromNumber(math.E))
	defineHidden(e, math_, "LN2", value.FromNumber(math.Ln2))
	defineHidden(e, math_, "LN10", value.FromNumber(math.Log(10)))
	defineHidden(e, math_, "LOG2E", value.FromNumber(1/math.Ln2))
	defineHidden(e, math_, "LOG10E", value.FromNumber(1/math.Log(10)))
	defineHidden(e, math_, "PI", value.FromNumber(math.Pi))
	defineHidden(e, math_, "SQRT1_2", value.FromNumber(math.Sqrt(0.5)))
	defineHidden(e, math_, "SQRT2", value.FromNumber(math.Sqrt2))

	unary := func(name string, fn func(float64) float64) {
		method(e, math_, name, 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			n, err := ops.ToNumber(h, arg(args, 0), e)
			if err != nil {
				return value.Undefined, err
			}
			return value.FromNumber(fn(n)), nil
		})
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", func(n float64) float64 { return math.Floor(n + 0.5) })
	unary("sqrt", math.Sqrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("exp", math.Exp)
	unary("log", math.Log)

	method(e, math_, "pow", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		base, err := ops.ToNumber(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		exp, err := ops.ToNumber(h, arg(args, 1), e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromNumber(math.Pow(base, exp)), nil
	})

	method(e, math_, "atan2", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		y, err := ops.ToNumber(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		x, err := ops.ToNumber(h, arg(args, 1), e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromNumber(math.Atan2(y, x)), nil
	})

	method(e, math_, "max", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.FromNumber(math.Inf(-1)), nil
		}
		best := math.Inf(-1)
		for _, a := range args {
			n, err := ops.ToNumber(h, a, e)
			if err != nil {
				return value.Undefined, err
			}
			if math.IsNaN(n) {
				return value.FromNumber(math.NaN()), nil
			}
			if n > best {
				best = n
			}
		}
		return value.FromNumber(best), nil
	})

	method(e, math_, "min", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.FromNumber(math.Inf(1)), nil
		}
		best := math.Inf(1)
		for _, a := range args {
			n, err := ops.ToNumber(h, a, e)
			if err != nil {
				return value.Undefined, err
			}
			if math.IsNaN(n) {
				return value.FromNumber(math.NaN()), nil
			}
			if n < best {
				best = n
			}
		}
		return value.FromNumber(best), nil
	})

	method(e, math_, "random", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		return value.FromNumber(rand.Float64()), nil
	})
}

package builtins

import (
	"sort"

	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/value"
)

// installArray wires Array.prototype's ES5 §15.4.4 surface plus the
// algorithm-heavy methods (forEach/map/filter/reduce/sort) SPEC_FULL.md
// §4 supplements from original_source/runtime/algorithm.cc.
func installArray(e *evaluator.Evaluator) {
	proto := e.Protos[object.ClassArray]
	getterCall := func(fn, this value.Value) (value.Value, error) { return e.CallValue(fn, this, nil, false) }
	setterCall := func(fn, this value.Value, args []value.Value) error {
		_, err := e.CallValue(fn, this, args, false)
		return err
	}

	elementsOf := func(h *object.Heap, v value.Value) ([]value.Value, error) {
		n, err := arrayLength(h, v, e)
		if err != nil {
			return nil, err
		}
		o := h.Resolve(v)
		out := make([]value.Value, n)
		for i := range out {
			ev, err := o.Get(h, propkey.FromU32(uint32(i)), getterCall)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	}
	setLength := func(h *object.Heap, v value.Value, n int) error {
		return h.Resolve(v).Put(h, key(e, "length"), value.FromU32(uint32(n)), true, setterCall)
	}

	method(e, proto, "toString", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		return e.CallByKey(this, key(e, "join"), nil)
	})

	method(e, proto, "join", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		sep := ","
		if s := arg(args, 0); !s.IsUndefined() {
			sv, err := ops.ToStringValue(h, s, e)
			if err != nil {
				return value.Undefined, err
			}
			sep = h.Pool().Lookup(sv.AsStringID())
		}
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		out := ""
		for i, ev := range elems {
			if i > 0 {
				out += sep
			}
			if ev.IsNullOrUndefined() {
				continue
			}
			sv, err := ops.ToStringValue(h, ev, e)
			if err != nil {
				return value.Undefined, err
			}
			out += h.Pool().Lookup(sv.AsStringID())
		}
		return value.FromStringID(h.Pool().Intern(out)), nil
	})

	method(e, proto, "push", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		n, err := arrayLength(h, this, e)
		if err != nil {
			return value.Undefined, err
		}
		o := h.Resolve(this)
		for _, v := range args {
			if err := o.Put(h, propkey.FromU32(uint32(n)), v, true, setterCall); err != nil {
				return value.Undefined, err
			}
			n++
		}
		return value.FromU32(uint32(n)), nil
	})

	method(e, proto, "pop", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		n, err := arrayLength(h, this, e)
		if err != nil {
			return value.Undefined, err
		}
		if n == 0 {
			return value.Undefined, nil
		}
		o := h.Resolve(this)
		last := propkey.FromU32(uint32(n - 1))
		v, err := o.Get(h, last, getterCall)
		if err != nil {
			return value.Undefined, err
		}
		if _, err := o.Delete(h, last, true); err != nil {
			return value.Undefined, err
		}
		if err := setLength(h, this, n-1); err != nil {
			return value.Undefined, err
		}
		return v, nil
	})

	method(e, proto, "shift", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		if len(elems) == 0 {
			return value.Undefined, nil
		}
		first := elems[0]
		o := h.Resolve(this)
		for i := 1; i < len(elems); i++ {
			if err := o.Put(h, propkey.FromU32(uint32(i-1)), elems[i], true, setterCall); err != nil {
				return value.Undefined, err
			}
		}
		if _, err := o.Delete(h, propkey.FromU32(uint32(len(elems)-1)), true); err != nil {
			return value.Undefined, err
		}
		if err := setLength(h, this, len(elems)-1); err != nil {
			return value.Undefined, err
		}
		return first, nil
	})

	method(e, proto, "unshift", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		all := append(append([]value.Value{}, args...), elems...)
		o := h.Resolve(this)
		for i, v := range all {
			if err := o.Put(h, propkey.FromU32(uint32(i)), v, true, setterCall); err != nil {
				return value.Undefined, err
			}
		}
		if err := setLength(h, this, len(all)); err != nil {
			return value.Undefined, err
		}
		return value.FromU32(uint32(len(all))), nil
	})

	method(e, proto, "slice", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		start, err := relativeIndex(h, arg(args, 0), len(elems), 0, e)
		if err != nil {
			return value.Undefined, err
		}
		end, err := relativeIndex(h, arg(args, 1), len(elems), len(elems), e)
		if err != nil {
			return value.Undefined, err
		}
		if start > end {
			start = end
		}
		return h.NewArray(e.Protos[object.ClassArray], append([]value.Value{}, elems[start:end]...)), nil
	})

	method(e, proto, "splice", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		start, err := relativeIndex(h, arg(args, 0), len(elems), 0, e)
		if err != nil {
			return value.Undefined, err
		}
		deleteCount := len(elems) - start
		if len(args) > 1 {
			n, err := ops.ToInteger(h, args[1], e)
			if err != nil {
				return value.Undefined, err
			}
			if int(n) < 0 {
				deleteCount = 0
			} else if int(n) < deleteCount {
				deleteCount = int(n)
			}
		}
		removed := append([]value.Value{}, elems[start:start+deleteCount]...)
		var inserted []value.Value
		if len(args) > 2 {
			inserted = args[2:]
		}
		out := append([]value.Value{}, elems[:start]...)
		out = append(out, inserted...)
		out = append(out, elems[start+deleteCount:]...)
		o := h.Resolve(this)
		for i, v := range out {
			if err := o.Put(h, propkey.FromU32(uint32(i)), v, true, setterCall); err != nil {
				return value.Undefined, err
			}
		}
		for i := len(out); i < len(elems); i++ {
			if _, err := o.Delete(h, propkey.FromU32(uint32(i)), true); err != nil {
				return value.Undefined, err
			}
		}
		if err := setLength(h, this, len(out)); err != nil {
			return value.Undefined, err
		}
		return h.NewArray(e.Protos[object.ClassArray], removed), nil
	})

	method(e, proto, "concat", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		out := append([]value.Value{}, elems...)
		for _, a := range args {
			if a.IsObject() && h.Resolve(a).Class == object.ClassArray {
				more, err := elementsOf(h, a)
				if err != nil {
					return value.Undefined, err
				}
				out = append(out, more...)
			} else {
				out = append(out, a)
			}
		}
		return h.NewArray(e.Protos[object.ClassArray], out), nil
	})

	method(e, proto, "indexOf", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		target := arg(args, 0)
		start, err := relativeIndex(h, arg(args, 1), len(elems), 0, e)
		if err != nil {
			return value.Undefined, err
		}
		for i := start; i < len(elems); i++ {
			if ops.StrictEquals(h, elems[i], target) {
				return value.FromI64(int64(i)), nil
			}
		}
		return value.FromI64(-1), nil
	})

	method(e, proto, "forEach", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0)
		cbThis := arg(args, 1)
		for i, v := range elems {
			if _, err := e.CallValue(cb, cbThis, []value.Value{v, value.FromI64(int64(i)), this}, false); err != nil {
				return value.Undefined, err
			}
		}
		return value.Undefined, nil
	})

	method(e, proto, "map", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0)
		cbThis := arg(args, 1)
		out := make([]value.Value, len(elems))
		for i, v := range elems {
			r, err := e.CallValue(cb, cbThis, []value.Value{v, value.FromI64(int64(i)), this}, false)
			if err != nil {
				return value.Undefined, err
			}
			out[i] = r
		}
		return h.NewArray(e.Protos[object.ClassArray], out), nil
	})

	method(e, proto, "filter", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0)
		cbThis := arg(args, 1)
		var out []value.Value
		for i, v := range elems {
			r, err := e.CallValue(cb, cbThis, []value.Value{v, value.FromI64(int64(i)), this}, false)
			if err != nil {
				return value.Undefined, err
			}
			if ops.ToBoolean(h, r) {
				out = append(out, v)
			}
		}
		return h.NewArray(e.Protos[object.ClassArray], out), nil
	})

	method(e, proto, "reduce", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0)
		i := 0
		var acc value.Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(elems) == 0 {
				return value.Undefined, h.Throw("TypeError", "reduce of empty array with no initial value")
			}
			acc = elems[0]
			i = 1
		}
		for ; i < len(elems); i++ {
			r, err := e.CallValue(cb, value.Undefined, []value.Value{acc, elems[i], value.FromI64(int64(i)), this}, false)
			if err != nil {
				return value.Undefined, err
			}
			acc = r
		}
		return acc, nil
	})

	method(e, proto, "sort", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		elems, err := elementsOf(h, this)
		if err != nil {
			return value.Undefined, err
		}
		cmp := arg(args, 0)
		var sortErr error
		sort.SliceStable(elems, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if cmp.IsUndefined() {
				si, err := ops.ToStringValue(h, elems[i], e)
				if err != nil {
					sortErr = err
					return false
				}
				sj, err := ops.ToStringValue(h, elems[j], e)
				if err != nil {
					sortErr = err
					return false
				}
				return h.Pool().Lookup(si.AsStringID()) < h.Pool().Lookup(sj.AsStringID())
			}
			r, err := e.CallValue(cmp, value.Undefined, []value.Value{elems[i], elems[j]}, false)
			if err != nil {
				sortErr = err
				return false
			}
			n, err := ops.ToNumber(h, r, e)
			if err != nil {
				sortErr = err
				return false
			}
			return n < 0
		})
		if sortErr != nil {
			return value.Undefined, sortErr
		}
		o := h.Resolve(this)
		for i, v := range elems {
			if err := o.Put(h, propkey.FromU32(uint32(i)), v, true, setterCall); err != nil {
				return value.Undefined, err
			}
		}
		return this, nil
	})

	ctorData := &object.FunctionData{
		Name:     "Array",
		IsNative: true,
		NativeFn: func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			if len(args) == 1 && args[0].IsNumber() {
				n := args[0].AsNumber()
				if n < 0 || n != float64(uint32(n)) {
					return value.Undefined, h.Throw("RangeError", "invalid array length")
				}
				arr := h.NewArray(e.Protos[object.ClassArray], nil)
				if err := setLength(h, arr, int(n)); err != nil {
					return value.Undefined, err
				}
				return arr, nil
			}
			return h.NewArray(e.Protos[object.ClassArray], args), nil
		},
		Constructable: true,
	}
	ctor := e.Heap.NewFunction(e.Protos[object.ClassFunction], ctorData, 1)
	linkConstructor(e, ctor, proto)
	defineGlobal(e, "Array", ctor)

	method(e, ctor, "isArray", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		v := arg(args, 0)
		return value.FromBool(v.IsObject() && h.Resolve(v).Class == object.ClassArray), nil
	})
}

// relativeIndex implements the "relative start/end" clamp ES5 §15.4.4.x
// uses throughout (slice, splice, indexOf's fromIndex): a negative
// argument counts back from len, the result clamped to [0, len].
func relativeIndex(h *object.Heap, v value.Value, length, def int, e *evaluator.Evaluator) (int, error) {
	if v.IsUndefined() {
		return def, nil
	}
	n, err := ops.ToInteger(h, v, e)
	if err != nil {
		return 0, err
	}
	idx := int(n)
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		idx = 0
	}
	if idx > length {
		idx = length
	}
	return idx, nil
}

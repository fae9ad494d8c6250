package builtins

import (
	"math"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/value"
)

func elemKey(i uint32) propkey.Key { return propkey.FromU32(i) }

// installJSON wires the JSON object's parse/stringify pair (ES5 §15.12).
// JSON.parse walks a gjson.Result tree into runtime values; JSON.stringify
// serializes a runtime value bottom-up, splicing each serialized element
// or member into its parent with sjson.SetRawBytes, finishing with
// pretty.PrettyOptions/Ugly for the two indent-argument modes — the teacher's
// go.mod already carries gjson/sjson/pretty as indirect dependencies
// (SPEC_FULL.md §3), promoted here to direct use.
func installJSON(e *evaluator.Evaluator) {
	h := e.Heap
	jsonObj := h.NewPlainObject(e.Protos[object.ClassObject])
	defineGlobal(e, "JSON", jsonObj)

	method(e, jsonObj, "parse", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		sv, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		src := h.Pool().Lookup(sv.AsStringID())
		if !gjson.Valid(src) {
			return value.Undefined, h.Throw("SyntaxError", "invalid JSON")
		}
		return jsonToValue(e, gjson.Parse(src)), nil
	})

	method(e, jsonObj, "stringify", 3, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		raw, undef, err := stringifyValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		if undef {
			return value.Undefined, nil
		}
		indentArg := arg(args, 2)
		if indentArg.IsUndefined() || (indentArg.IsNumber() && indentArg.AsNumber() <= 0) {
			raw = pretty.Ugly(raw)
		} else {
			width := 4
			if indentArg.IsNumber() {
				width = int(indentArg.AsNumber())
			}
			opts := *pretty.DefaultOptions
			opts.Indent = spaces(width)
			raw = pretty.PrettyOptions(raw, &opts)
		}
		return value.FromStringID(h.Pool().Intern(string(raw))), nil
	})
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// jsonToValue converts a gjson.Result into a runtime Value, per ES5
// §15.12.2's InternalizeJSONProperty without the reviver parameter
// (the reviver is a Non-goal-adjacent refinement this spec's
// distillation does not name).
func jsonToValue(e *evaluator.Evaluator, r gjson.Result) value.Value {
	h := e.Heap
	switch r.Type {
	case gjson.Null:
		return value.Null
	case gjson.False:
		return value.FromBool(false)
	case gjson.True:
		return value.FromBool(true)
	case gjson.Number:
		return value.FromNumber(r.Num)
	case gjson.String:
		return value.FromStringID(h.Pool().Intern(r.Str))
	case gjson.JSON:
		if r.IsArray() {
			var elems []value.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, jsonToValue(e, v))
				return true
			})
			return h.NewArray(e.Protos[object.ClassArray], elems)
		}
		obj := h.NewPlainObject(e.Protos[object.ClassObject])
		r.ForEach(func(k, v gjson.Result) bool {
			setEnumerable(e, obj, k.Str, jsonToValue(e, v))
			return true
		})
		return obj
	}
	return value.Undefined
}

func setEnumerable(e *evaluator.Evaluator, obj value.Value, name string, v value.Value) {
	h := e.Heap
	_ = h.Resolve(obj).Put(h, propkeyFromName(h, name), v, false, func(fn, this value.Value, args []value.Value) error {
		_, err := e.CallValue(fn, this, args, false)
		return err
	})
}

// stringifyValue implements ES5 §15.12.3's SerializeJSONProperty,
// building JSON bytes bottom-up: undef is true when v itself has no
// JSON representation (a function, or undefined) and the caller
// should treat the whole result as absent.
func stringifyValue(h *object.Heap, v value.Value, c ops.Caller) (raw []byte, undef bool, err error) {
	switch {
	case v.IsUndefined():
		return nil, true, nil
	case v.IsNull():
		return []byte("null"), false, nil
	case v.IsBoolean():
		if v.AsBoolean() {
			return []byte("true"), false, nil
		}
		return []byte("false"), false, nil
	case v.IsNumber():
		n := v.AsNumber()
		if math.IsNaN(n) || math.IsInf(n, 0) { // NaN or +/-Inf serialize as null per §15.12.3 step 5
			return []byte("null"), false, nil
		}
		return []byte(strconv.FormatFloat(n, 'g', -1, 64)), false, nil
	case v.IsString():
		s := h.Pool().Lookup(v.AsStringID())
		b, err := sjson.SetBytes([]byte("[]"), "0", s)
		if err != nil {
			return nil, false, err
		}
		// "0" appends to the scratch array; pull out the single
		// serialized element rather than returning the wrapping array.
		return []byte(gjson.ParseBytes(b).Get("0").Raw), false, nil
	case v.IsObject():
		o := h.Resolve(v)
		if o.Class == object.ClassFunction {
			return nil, true, nil
		}
		if o.Class == object.ClassArray {
			out := []byte("[]")
			for i := uint32(0); i < o.ArrayLength; i++ {
				ev, err := o.Get(h, elemKey(i), func(fn, this value.Value) (value.Value, error) { return c.Call(h, fn, this, nil) })
				if err != nil {
					return nil, false, err
				}
				elem, elemUndef, err := stringifyValue(h, ev, c)
				if err != nil {
					return nil, false, err
				}
				if elemUndef {
					elem = []byte("null")
				}
				out, err = sjson.SetRawBytes(out, strconv.Itoa(int(i)), elem)
				if err != nil {
					return nil, false, err
				}
			}
			return out, false, nil
		}
		out := []byte("{}")
		for _, k := range o.OwnPropertyKeys() {
			p, ok := o.GetOwnProperty(k)
			if !ok || !p.Enumerable {
				continue
			}
			fv, err := o.Get(h, k, func(fn, this value.Value) (value.Value, error) { return c.Call(h, fn, this, nil) })
			if err != nil {
				return nil, false, err
			}
			member, memberUndef, err := stringifyValue(h, fv, c)
			if err != nil {
				return nil, false, err
			}
			if memberUndef {
				continue
			}
			out, err = sjson.SetRawBytes(out, k.ToString(h.Pool()), member)
			if err != nil {
				return nil, false, err
			}
		}
		return out, false, nil
	}
	return nil, true, nil
}

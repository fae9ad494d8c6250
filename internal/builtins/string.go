package builtins

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
)

// installString wires String.prototype (ES5 §15.5.4) and the
// String constructor's fromCharCode static. toUpperCase/toLowerCase use
// golang.org/x/text/cases rather than strings.ToUpper/ToLower, per
// SPEC_FULL.md §3's domain-stack wiring for the teacher's indirect
// x/text dependency.
func installString(e *evaluator.Evaluator) {
	proto := e.Protos[object.ClassString]

	thisStr := func(h *object.Heap, this value.Value) (string, error) {
		if this.IsString() {
			return h.Pool().Lookup(this.AsStringID()), nil
		}
		if this.IsObject() && h.Resolve(this).Class == object.ClassString {
			boxed := h.Resolve(this).Boxed
			return h.Pool().Lookup(boxed.AsStringID()), nil
		}
		sv, err := ops.ToStringValue(h, this, e)
		if err != nil {
			return "", err
		}
		return h.Pool().Lookup(sv.AsStringID()), nil
	}

	method(e, proto, "toString", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromStringID(h.Pool().Intern(s)), nil
	})
	method(e, proto, "valueOf", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromStringID(h.Pool().Intern(s)), nil
	})

	method(e, proto, "charAt", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		idx, err := ops.ToInteger(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		runes := []rune(s)
		if idx < 0 || int(idx) >= len(runes) {
			return value.FromStringID(h.Pool().Intern("")), nil
		}
		return value.FromStringID(h.Pool().Intern(string(runes[int(idx)]))), nil
	})

	method(e, proto, "charCodeAt", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		idx, err := ops.ToInteger(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		runes := []rune(s)
		if idx < 0 || int(idx) >= len(runes) {
			return value.FromNumber(math.NaN()), nil
		}
		return value.FromI64(int64(runes[int(idx)])), nil
	})

	method(e, proto, "indexOf", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		needle, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		idx := strings.Index(s, h.Pool().Lookup(needle.AsStringID()))
		return value.FromI64(int64(runeIndex(s, idx))), nil
	})

	method(e, proto, "lastIndexOf", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		needle, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		idx := strings.LastIndex(s, h.Pool().Lookup(needle.AsStringID()))
		return value.FromI64(int64(runeIndex(s, idx))), nil
	})

	method(e, proto, "slice", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		runes := []rune(s)
		start, err := relativeIndex(h, arg(args, 0), len(runes), 0, e)
		if err != nil {
			return value.Undefined, err
		}
		end, err := relativeIndex(h, arg(args, 1), len(runes), len(runes), e)
		if err != nil {
			return value.Undefined, err
		}
		if start > end {
			start = end
		}
		return value.FromStringID(h.Pool().Intern(string(runes[start:end]))), nil
	})

	method(e, proto, "substring", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		runes := []rune(s)
		start, err := clampIndex(h, arg(args, 0), len(runes), 0, e)
		if err != nil {
			return value.Undefined, err
		}
		end, err := clampIndex(h, arg(args, 1), len(runes), len(runes), e)
		if err != nil {
			return value.Undefined, err
		}
		if start > end {
			start, end = end, start
		}
		return value.FromStringID(h.Pool().Intern(string(runes[start:end]))), nil
	})

	method(e, proto, "toUpperCase", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromStringID(h.Pool().Intern(cases.Upper(language.Und).String(s))), nil
	})
	method(e, proto, "toLowerCase", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromStringID(h.Pool().Intern(cases.Lower(language.Und).String(s))), nil
	})

	method(e, proto, "split", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		sepArg := arg(args, 0)
		if sepArg.IsUndefined() {
			return h.NewArray(e.Protos[object.ClassArray], []value.Value{value.FromStringID(h.Pool().Intern(s))}), nil
		}
		if sepArg.IsObject() && h.Resolve(sepArg).Class == object.ClassRegExp {
			pieces := h.Resolve(sepArg).RegExp.Compiled.Split(s, -1)
			out := make([]value.Value, len(pieces))
			for i, p := range pieces {
				out[i] = value.FromStringID(h.Pool().Intern(p))
			}
			return h.NewArray(e.Protos[object.ClassArray], out), nil
		}
		sepV, err := ops.ToStringValue(h, sepArg, e)
		if err != nil {
			return value.Undefined, err
		}
		sep := h.Pool().Lookup(sepV.AsStringID())
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.FromStringID(h.Pool().Intern(p))
		}
		return h.NewArray(e.Protos[object.ClassArray], out), nil
	})

	method(e, proto, "trim", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromStringID(h.Pool().Intern(strings.TrimSpace(s))), nil
	})

	method(e, proto, "concat", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		var b strings.Builder
		b.WriteString(s)
		for _, a := range args {
			av, err := ops.ToStringValue(h, a, e)
			if err != nil {
				return value.Undefined, err
			}
			b.WriteString(h.Pool().Lookup(av.AsStringID()))
		}
		return value.FromStringID(h.Pool().Intern(b.String())), nil
	})

	method(e, proto, "replace", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		if re := arg(args, 0); re.IsObject() && h.Resolve(re).Class == object.ClassRegExp {
			return replaceRegExp(h, s, h.Resolve(re).RegExp, arg(args, 1), e)
		}
		patV, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		replV, err := ops.ToStringValue(h, arg(args, 1), e)
		if err != nil {
			return value.Undefined, err
		}
		pat := h.Pool().Lookup(patV.AsStringID())
		repl := h.Pool().Lookup(replV.AsStringID())
		return value.FromStringID(h.Pool().Intern(strings.Replace(s, pat, repl, 1))), nil
	})

	method(e, proto, "match", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		reV := arg(args, 0)
		var data *object.RegExpData
		if reV.IsObject() && h.Resolve(reV).Class == object.ClassRegExp {
			data = h.Resolve(reV).RegExp
		} else {
			patV, err := ops.ToStringValue(h, reV, e)
			if err != nil {
				return value.Undefined, err
			}
			data, err = evaluator.CompileRegExp(h.Pool().Lookup(patV.AsStringID()), "")
			if err != nil {
				return value.Null, nil
			}
		}
		return matchRegExp(e, h, s, data)
	})

	method(e, proto, "search", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisStr(h, this)
		if err != nil {
			return value.Undefined, err
		}
		reV := arg(args, 0)
		var data *object.RegExpData
		if reV.IsObject() && h.Resolve(reV).Class == object.ClassRegExp {
			data = h.Resolve(reV).RegExp
		} else {
			patV, err := ops.ToStringValue(h, reV, e)
			if err != nil {
				return value.Undefined, err
			}
			data, err = evaluator.CompileRegExp(h.Pool().Lookup(patV.AsStringID()), "")
			if err != nil {
				return value.FromI64(-1), nil
			}
		}
		loc := data.Compiled.FindStringIndex(s)
		if loc == nil {
			return value.FromI64(-1), nil
		}
		return value.FromI64(int64(runeIndex(s, loc[0]))), nil
	})

	ctorData := &object.FunctionData{
		Name:     "String",
		IsNative: true,
		NativeFn: func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			s := ""
			if len(args) > 0 {
				sv, err := ops.ToStringValue(h, args[0], e)
				if err != nil {
					return value.Undefined, err
				}
				s = h.Pool().Lookup(sv.AsStringID())
			}
			return value.FromStringID(h.Pool().Intern(s)), nil
		},
		Constructable: true,
	}
	ctor := e.Heap.NewFunction(e.Protos[object.ClassFunction], ctorData, 1)
	linkConstructor(e, ctor, proto)
	defineGlobal(e, "String", ctor)

	method(e, ctor, "fromCharCode", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		runes := make([]rune, len(args))
		for i, a := range args {
			n, err := ops.ToNumber(h, a, e)
			if err != nil {
				return value.Undefined, err
			}
			runes[i] = rune(int64(n))
		}
		return value.FromStringID(h.Pool().Intern(string(runes))), nil
	})
}

// runeIndex converts a byte offset from strings.Index into a rune
// offset (ES5 string indices are UTF-16 code units; rune offsets are
// this runtime's UTF-8-pool approximation of that, the same
// simplification the teacher's runtime.StringValue makes).
func runeIndex(s string, byteIdx int) int {
	if byteIdx < 0 {
		return -1
	}
	return len([]rune(s[:byteIdx]))
}

func clampIndex(h *object.Heap, v value.Value, length, def int, e *evaluator.Evaluator) (int, error) {
	if v.IsUndefined() {
		return def, nil
	}
	n, err := ops.ToInteger(h, v, e)
	if err != nil {
		return 0, err
	}
	idx := int(n)
	if idx < 0 {
		idx = 0
	}
	if idx > length {
		idx = length
	}
	return idx, nil
}

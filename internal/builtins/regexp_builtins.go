package builtins

import (
	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
)

// installRegExp wires RegExp.prototype (ES5 §15.10.6) and the
// constructor. The String methods match/search/split/replace live in
// string.go (ES5 defines those as String methods that delegate to a
// RegExp argument); match and replace call into this file's
// matchRegExp/replaceRegExp helpers, while search and split use the
// compiled pattern directly.
func installRegExp(e *evaluator.Evaluator) {
	proto := e.Protos[object.ClassRegExp]

	thisData := func(h *object.Heap, this value.Value) (*object.RegExpData, error) {
		if !this.IsObject() || h.Resolve(this).Class != object.ClassRegExp {
			return nil, h.Throw("TypeError", "RegExp method called on non-RegExp")
		}
		return h.Resolve(this).RegExp, nil
	}

	method(e, proto, "test", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		data, err := thisData(h, this)
		if err != nil {
			return value.Undefined, err
		}
		sv, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		s := h.Pool().Lookup(sv.AsStringID())
		start := 0
		if data.Global {
			start = data.LastIndex
		}
		if start < 0 || start > len(s) {
			data.LastIndex = 0
			return value.FromBool(false), nil
		}
		loc := data.Compiled.FindStringIndex(s[start:])
		if loc == nil {
			data.LastIndex = 0
			return value.FromBool(false), nil
		}
		if data.Global {
			data.LastIndex = start + loc[1]
		}
		return value.FromBool(true), nil
	})

	method(e, proto, "exec", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		data, err := thisData(h, this)
		if err != nil {
			return value.Undefined, err
		}
		sv, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		s := h.Pool().Lookup(sv.AsStringID())
		start := 0
		if data.Global {
			start = data.LastIndex
		}
		if start < 0 || start > len(s) {
			data.LastIndex = 0
			return value.Null, nil
		}
		m := data.Compiled.FindStringSubmatchIndex(s[start:])
		if m == nil {
			data.LastIndex = 0
			return value.Null, nil
		}
		if data.Global {
			data.LastIndex = start + m[1]
		}
		groups := make([]value.Value, 0, len(m)/2)
		for i := 0; i < len(m); i += 2 {
			if m[i] < 0 {
				groups = append(groups, value.Undefined)
				continue
			}
			groups = append(groups, value.FromStringID(h.Pool().Intern(s[start+m[i]:start+m[i+1]])))
		}
		arr := h.NewArray(e.Protos[object.ClassArray], groups)
		setEnumerable(e, arr, "index", value.FromI64(int64(runeIndex(s, start+m[0]))))
		setEnumerable(e, arr, "input", value.FromStringID(h.Pool().Intern(s)))
		return arr, nil
	})

	method(e, proto, "toString", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		data, err := thisData(h, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromStringID(h.Pool().Intern("/" + data.Source + "/" + data.Flags)), nil
	})

	ctorData := &object.FunctionData{
		Name:     "RegExp",
		IsNative: true,
		NativeFn: func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			patArg := arg(args, 0)
			if patArg.IsObject() && h.Resolve(patArg).Class == object.ClassRegExp {
				src := h.Resolve(patArg)
				return h.NewRegExp(e.Protos[object.ClassRegExp], &object.RegExpData{
					Source: src.RegExp.Source, Flags: src.RegExp.Flags,
					Global: src.RegExp.Global, IgnoreCase: src.RegExp.IgnoreCase,
					Multiline: src.RegExp.Multiline, Compiled: src.RegExp.Compiled,
				}), nil
			}
			patV, err := ops.ToStringValue(h, patArg, e)
			if err != nil {
				return value.Undefined, err
			}
			flags := ""
			if f := arg(args, 1); !f.IsUndefined() {
				fv, err := ops.ToStringValue(h, f, e)
				if err != nil {
					return value.Undefined, err
				}
				flags = h.Pool().Lookup(fv.AsStringID())
			}
			data, err := evaluator.CompileRegExp(h.Pool().Lookup(patV.AsStringID()), flags)
			if err != nil {
				return value.Undefined, h.Throw("SyntaxError", "invalid regular expression: %v", err)
			}
			return h.NewRegExp(e.Protos[object.ClassRegExp], data), nil
		},
		Constructable: true,
	}
	ctor := e.Heap.NewFunction(e.Protos[object.ClassFunction], ctorData, 2)
	linkConstructor(e, ctor, proto)
	defineGlobal(e, "RegExp", ctor)
}

// matchRegExp implements String.prototype.match (ES5 §15.5.4.10): a
// non-global pattern returns exec's result array directly; a global
// pattern returns a flat array of every whole-match substring.
func matchRegExp(e *evaluator.Evaluator, h *object.Heap, s string, data *object.RegExpData) (value.Value, error) {
	if !data.Global {
		m := data.Compiled.FindStringSubmatchIndex(s)
		if m == nil {
			return value.Null, nil
		}
		groups := make([]value.Value, 0, len(m)/2)
		for i := 0; i < len(m); i += 2 {
			if m[i] < 0 {
				groups = append(groups, value.Undefined)
				continue
			}
			groups = append(groups, value.FromStringID(h.Pool().Intern(s[m[i]:m[i+1]])))
		}
		arr := h.NewArray(e.Protos[object.ClassArray], groups)
		setEnumerable(e, arr, "index", value.FromI64(int64(runeIndex(s, m[0]))))
		setEnumerable(e, arr, "input", value.FromStringID(h.Pool().Intern(s)))
		return arr, nil
	}
	matches := data.Compiled.FindAllString(s, -1)
	if matches == nil {
		return value.Null, nil
	}
	out := make([]value.Value, len(matches))
	for i, m := range matches {
		out[i] = value.FromStringID(h.Pool().Intern(m))
	}
	return h.NewArray(e.Protos[object.ClassArray], out), nil
}

// replaceRegExp implements String.prototype.replace's RegExp overload
// (ES5 §15.5.4.11): $1..$9 backreferences in a literal replacement
// string, or a callback invoked per match when replacement is callable.
func replaceRegExp(h *object.Heap, s string, data *object.RegExpData, repl value.Value, c ops.Caller) (value.Value, error) {
	n := 1
	if data.Global {
		n = -1
	}
	if repl.IsObject() && h.Resolve(repl).Class == object.ClassFunction {
		var callErr error
		count := 0
		out := data.Compiled.ReplaceAllStringFunc(s, func(m string) string {
			if callErr != nil || (n >= 0 && count >= n) {
				return m
			}
			count++
			r, err := c.Call(h, repl, value.Undefined, []value.Value{value.FromStringID(h.Pool().Intern(m))})
			if err != nil {
				callErr = err
				return m
			}
			rv, err := ops.ToStringValue(h, r, c)
			if err != nil {
				callErr = err
				return m
			}
			return h.Pool().Lookup(rv.AsStringID())
		})
		if callErr != nil {
			return value.Undefined, callErr
		}
		return value.FromStringID(h.Pool().Intern(out)), nil
	}
	replV, err := ops.ToStringValue(h, repl, c)
	if err != nil {
		return value.Undefined, err
	}
	template := expandDollarTemplate(h.Pool().Lookup(replV.AsStringID()))
	count := 0
	out := data.Compiled.ReplaceAllStringFunc(s, func(m string) string {
		if n >= 0 && count >= n {
			return m
		}
		count++
		idx := data.Compiled.FindStringSubmatchIndex(m)
		return string(data.Compiled.ExpandString(nil, template, m, idx))
	})
	return value.FromStringID(h.Pool().Intern(out)), nil
}

// expandDollarTemplate rewrites ECMAScript's $1-style backreferences
// into Go regexp's ${1} form for regexp.Regexp.ExpandString.
func expandDollarTemplate(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '$' && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			out = append(out, '$', '{')
			out = append(out, s[i+1:j]...)
			out = append(out, '}')
			i = j - 1
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// Package builtins implements the standard-library binding surface
// (spec component N): the methods and statics hung off the prototypes
// internal/bootstrap allocates — Object, Function, Array, String,
// Number, Boolean, Math, JSON, Date, RegExp, the global functions, and
// the Error constructor family.
//
// Grounded on the teacher's internal/builtins registration style (one
// file per functional group, a handful of small per-function doc
// comments, no single oversized dispatch table) — kept that file-per-
// concern layout and the "pure function taking already-evaluated
// arguments" shape, replacing DWScript's `Context`/`Value` interface
// pair (needed there to avoid a cycle with internal/interp) with this
// runtime's concrete `*object.Heap`/`value.Value` plus the evaluator's
// `Native` signature, since component K's `ops` package already solves
// the same cycle problem for conversions.
package builtins

import (
	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
)

// Install hangs every builtin method and global binding onto the
// prototypes and global object bootstrap already allocated. Call once,
// immediately after bootstrap.New, before running any user script.
func Install(e *evaluator.Evaluator) {
	installObject(e)
	installFunction(e)
	installArray(e)
	installString(e)
	installNumber(e)
	installBoolean(e)
	installMath(e)
	installJSON(e)
	installDate(e)
	installDateFormat(e)
	installRegExp(e)
	installGlobals(e)
	installErrors(e)
}

// key interns name and returns its property key, the one string
// every builtin registration needs.
func key(e *evaluator.Evaluator, name string) propkey.Key {
	return propkey.FromStringID(e.Heap.Pool().Intern(name))
}

// method installs a non-enumerable, writable, configurable native
// function as own property name of proto — the attribute set every
// builtin prototype method in ES5 §15 carries.
func method(e *evaluator.Evaluator, proto value.Value, name string, length int, fn object.Native) {
	fv := e.Heap.NewFunction(e.Protos[object.ClassFunction], &object.FunctionData{
		Name:     name,
		IsNative: true,
		NativeFn: fn,
	}, length)
	defineHidden(e, proto, name, fv)
}

// defineHidden installs a {writable:true, enumerable:false,
// configurable:true} own data property, the flag set every builtin-
// provided slot (method or static value) uses unless otherwise noted.
func defineHidden(e *evaluator.Evaluator, target value.Value, name string, v value.Value) {
	desc := propmap.Descriptor{
		HasValue: true, Value: v,
		HasWritable: true, Writable: true,
		HasEnumerable: true, Enumerable: false,
		HasConfigurable: true, Configurable: true,
	}
	_, _ = e.Heap.Resolve(target).DefineOwnProperty(e.Heap, key(e, name), desc, false)
}

// defineGlobal installs a global function or constructor under name,
// both as a binding in the global object and (implicitly, since the
// global environment record IS the global object per component H) as a
// resolvable identifier from script.
func defineGlobal(e *evaluator.Evaluator, name string, v value.Value) {
	defineHidden(e, e.GlobalObject, name, v)
}

// globalFunc allocates and installs a native global function in one
// step.
func globalFunc(e *evaluator.Evaluator, name string, length int, fn object.Native) {
	fv := e.Heap.NewFunction(e.Protos[object.ClassFunction], &object.FunctionData{
		Name:     name,
		IsNative: true,
		NativeFn: fn,
	}, length)
	defineGlobal(e, name, fv)
}

// arg returns args[i], or value.Undefined when the call was made with
// fewer arguments than the binding expects — every native in this
// package reads its arguments this way instead of bounds-checking args
// directly, matching how a non-strict script function reads
// `arguments` past its declared parameter list.
func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Undefined
}

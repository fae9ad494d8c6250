package object

import (
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
)

// Native is the signature native (Go-implemented) builtins use. this is
// already ToObject-coerced for non-strict callees per spec §4.F; args is
// never nil (length 0 for a bare call).
type Native func(h *Heap, this value.Value, args []value.Value) (value.Value, error)

// FunctionData is the Function subkind's payload. Body and Closure are
// held as opaque values to avoid a package cycle with component L (the
// evaluator, which defines the concrete *ast.FunctionLiteral and
// component H's *env.Environment types); callers that know the kind of
// function they are holding (the evaluator, Function.prototype.call/
// apply/bind in internal/builtins) type-assert them.
//
// Grounded on the teacher's internal/interp adapter_functions.go, which
// similarly bridges a Go-level callable representation between the AST
// and the runtime value domain rather than embedding AST types directly
// in the value representation.
type FunctionData struct {
	Name   string
	Params []string
	// IsNative is true for builtins; NativeFn holds the callable and Body
	// is unused. For script functions NativeFn is nil and Body/Closure
	// carry the function literal and its defining lexical environment.
	IsNative bool
	NativeFn Native
	Body     any
	Closure  any

	Strict bool

	// Bound* are set when this function was produced by
	// Function.prototype.bind (spec's supplemented Function.prototype
	// surface, §4 of the expanded spec); Target is the function bind
	// wraps, BoundThis/BoundArgs are the partially applied this/args.
	Target    value.Value
	HasTarget bool
	BoundThis value.Value
	BoundArgs []value.Value

	// Constructable distinguishes a function usable with `new` (every
	// script function) from ones that are call-only (most natives).
	Constructable bool

	// Extra is a closure's extra-binding slot vector (spec's bnd_extra_*
	// ABI primitives): storage for captured variables a compiled closure
	// addresses by index rather than by walking an environment chain.
	// Unused by script functions, which close over their defining
	// *env.Environment directly.
	Extra []value.Value
}

// NewFunction allocates a Function object with the standard "length" and
// "name" own properties (non-writable, non-enumerable, non-configurable
// per spec's Function object invariants) plus the supplied payload.
func (h *Heap) NewFunction(proto value.Value, data *FunctionData, length int) value.Value {
	o := h.NewWithRoot(proto, ClassFunction, h.RootFor(ClassFunction))
	o.Func = data

	lengthProp := propmap.Property{
		Data:         propmap.Value{V: value.FromI64(int64(length)), Writable: false},
		Enumerable:   false,
		Configurable: false,
	}
	nameProp := propmap.Property{
		Data:         propmap.Value{V: value.FromStringID(h.pool.Intern(data.Name)), Writable: false},
		Enumerable:   false,
		Configurable: false,
	}
	o.Props.Add(h.pool, propkey.FromStringID(h.pool.Intern("length")), lengthProp)
	o.Props.Add(h.pool, propkey.FromStringID(h.pool.Intern("name")), nameProp)
	return o.AsValue()
}

// BoundTargetChain resolves through a chain of bound functions (bind of
// a bind) to the innermost non-bound function, accumulating this/args in
// outer-to-inner call order, per ES5 §15.3.4.5's [[Call]] semantics for
// bound function exotic objects.
func (h *Heap) BoundTargetChain(v value.Value) (target value.Value, this value.Value, prepend []value.Value) {
	this = value.Undefined
	for {
		o := h.Resolve(v)
		if o.Func == nil || !o.Func.HasTarget {
			return v, this, prepend
		}
		prepend = append(append([]value.Value{}, o.Func.BoundArgs...), prepend...)
		this = o.Func.BoundThis
		v = o.Func.Target
	}
}

package context

import (
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/value"
)

// ThisValue is the `this` binding carried by a Context; a plain alias
// rather than a wrapper struct since every context always has one (ES5
// never leaves `this` unbound — non-strict function calls coerce it to
// the global object before the context is pushed).
type ThisValue = value.Value

// PendingException holds the script-facing thrown value currently
// unwinding the context stack, if any. Only the ABI layer (internal/abi)
// sets and clears it, for failures it reports through its boolean
// success flag; the evaluator propagates throws as Go errors and does
// not touch it.
type PendingException struct {
	Err *object.ThrownError
}

// Set records err as the pending exception.
func (p *PendingException) Set(err *object.ThrownError) { p.Err = err }

// Clear removes any pending exception.
func (p *PendingException) Clear() { p.Err = nil }

// Active reports whether an exception is currently propagating.
func (p *PendingException) Active() bool { return p.Err != nil }

// Value returns the thrown value, or value.Undefined if none is pending.
func (p *PendingException) Value() value.Value {
	if p.Err == nil {
		return value.Undefined
	}
	return p.Err.Value
}

// Package errtax implements the builtin error taxonomy (spec component
// M): the flat kind hierarchy Error / EvalError / RangeError /
// ReferenceError / SyntaxError / TypeError / URIError, each kind a
// Function object whose prototype chains to Error.prototype, and the
// bridge between Go-level internal failures and script-facing thrown
// values.
//
// Grounded on the teacher's internal/interp errors.go (RuntimeError,
// ErrorValue) for the two-tier split this package keeps: an internal,
// Go-facing error (InternalError, built by Wrap/Newf with
// golang.org/x/xerrors so the creating frame is recorded; bootstrap,
// config and builtin registration do not return one) versus a
// script-facing thrown value (an object.Object of
// ClassError, the only kind script code ever observes).
package errtax

import (
	"golang.org/x/xerrors"

	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/value"
)

// Kind names every builtin error constructor, in the flat (non-nested)
// taxonomy ES5 §15.11 specifies.
type Kind string

const (
	Error          Kind = "Error"
	EvalError      Kind = "EvalError"
	RangeError     Kind = "RangeError"
	ReferenceError Kind = "ReferenceError"
	SyntaxError    Kind = "SyntaxError"
	TypeError      Kind = "TypeError"
	URIError       Kind = "URIError"
)

// All lists every kind in the taxonomy, in the order bootstrap should
// register their prototypes (Error first, since every other kind's
// prototype chains to it).
var All = []Kind{Error, EvalError, RangeError, ReferenceError, SyntaxError, TypeError, URIError}

// InternalError is the Go-facing wrapper for a failure that occurs
// outside of script execution — bootstrap wiring, config parsing,
// native registration — where there is no active context to hold a
// pending script exception. Kind records which builtin error a caller
// that does have a context should surface as.
type InternalError struct {
	Kind Kind
	err  error
}

func (e *InternalError) Error() string {
	return string(e.Kind) + ": " + e.err.Error()
}

func (e *InternalError) Unwrap() error { return e.err }

// Wrap annotates err as an internal failure of the given kind, using
// xerrors so the frame where Wrap was called is preserved in %+v output
// (the ambient-stack logging convention set by internal/enginelog).
func Wrap(kind Kind, err error, msg string) *InternalError {
	return &InternalError{Kind: kind, err: xerrors.Errorf("%s: %w", msg, err)}
}

// Newf builds a fresh internal error of kind without an underlying
// cause, for validation failures detected directly in Go code (e.g. a
// malformed builtin registration).
func Newf(kind Kind, format string, args ...any) *InternalError {
	return &InternalError{Kind: kind, err: xerrors.Errorf(format, args...)}
}

// Register copies the given prototypes into heap.ErrorProtos, keyed by
// kind name, so object.Heap.Throw can find the right prototype for
// script-facing thrown errors; it creates no constructors. protos maps
// each kind's name to its already-constructed prototype object Value;
// callers (component O, bootstrap) build the prototype objects
// themselves since doing so requires Heap.NewPlainObject and property
// wiring this package does not otherwise need to know about.
func Register(h *object.Heap, protos map[string]value.Value) {
	if h.ErrorProtos == nil {
		h.ErrorProtos = make(map[string]value.Value, len(protos))
	}
	for k, v := range protos {
		h.ErrorProtos[k] = v
	}
}

// Throw is the script-facing counterpart of Wrap/Newf: it builds a
// *object.ThrownError of the given kind with heap.ErrorProtos[kind] (if
// registered) as the thrown object's prototype, taking a typed Kind
// where object.Heap.Throw takes a plain kind-name string. Builtins and
// the evaluator call object.Heap.Throw directly.
func Throw(h *object.Heap, kind Kind, format string, args ...any) *object.ThrownError {
	return h.Throw(string(kind), format, args...)
}

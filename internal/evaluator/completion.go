package evaluator

import "github.com/cwbudde/esrt/internal/value"

// Kind is a completion's type (ES5 §8.9); Throw is modeled instead as a
// Go error (*object.ThrownError) returned alongside a zero Completion,
// so try/catch/finally composition reads as ordinary Go error handling
// plus the three control-flow kinds below.
type Kind int

const (
	Normal Kind = iota
	Break
	Continue
	Return
)

// Completion is a non-throw completion record: Value carries a return
// value (Return) or is the zero Value otherwise; Target carries a
// break/continue label, empty for the unlabeled form.
type Completion struct {
	Kind   Kind
	Value  value.Value
	Target string
}

// normal returns the "no completion value" normal completion — Value is
// value.Nothing rather than its zero Value, so evalStatementList's
// running result only updates from statements that actually produce a
// value (ExpressionStatement), matching ES5's "empty" completion value.
func normal() Completion { return Completion{Kind: Normal, Value: value.Nothing} }

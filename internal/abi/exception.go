package abi

import (
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/value"
)

// SavedState is the snapshot ex_save_state/ex_load_state round-trip: a
// try block saves the pending-exception slot before running its
// protected code, then restores it verbatim if a finally clause needs
// to re-raise the original exception after running cleanup code that
// may itself have thrown and cleared a different one.
type SavedState struct {
	err *object.ThrownError
}

// ExSaveState is ex_save_state.
func ExSaveState() SavedState {
	return SavedState{err: engineInstance().Evaluator.Contexts.Pending.Err}
}

// ExLoadState is ex_load_state.
func ExLoadState(s SavedState) {
	engineInstance().Evaluator.Contexts.Pending.Err = s.err
}

// ExSet is ex_set: records v as the pending exception on ctx's context
// stack (a throw statement, or a builtin reporting failure).
func ExSet(ctx *context.Context, v value.Value) {
	_ = ctx
	engineInstance().Evaluator.Contexts.Pending.Set(&object.ThrownError{Value: v})
}

// ExClear is ex_clear: clears the pending exception, the effect a
// catch clause's entry has once it has captured the thrown value.
func ExClear(ctx *context.Context) {
	_ = ctx
	engineInstance().Evaluator.Contexts.Pending.Clear()
}

// ExActive reports whether an exception is currently propagating.
func ExActive() bool { return engineInstance().Evaluator.Contexts.Pending.Active() }

// ExValue returns the pending exception's thrown value, or
// value.Undefined if none is pending.
func ExValue() value.Value { return engineInstance().Evaluator.Contexts.Pending.Value() }

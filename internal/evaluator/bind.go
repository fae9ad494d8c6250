package evaluator

import (
	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/value"
)

// linkable is satisfied by declarativeRecord's unexported Link method,
// reached through this local interface since env doesn't export the
// concrete type.
type linkable interface {
	Link(name string, v value.Value)
}

// setMutable creates (if absent) and initializes a mutable binding named
// name to v, deletable per the deletable flag — used for hoisted
// function declarations (not deletable) and implicit globals created by
// assigning to an undeclared name (deletable), as distinct from
// declBindArg's parameter/arguments bindings (not deletable, ES5 §10.5
// step 4 — see call.go).
func setMutable(scope *env.Environment, name string, v value.Value, deletable bool) {
	if !scope.Record.HasBinding(name) {
		scope.Record.CreateMutableBinding(name, deletable)
	}
	_ = scope.Record.SetMutableBinding(name, v, false)
}

// Package abi implements the runtime's external linkage surface (spec
// §6): the handful of entry points and call/property/context primitives
// AOT-generated code links against, all operating against one
// process-wide *engine.Engine created lazily on first use.
//
// Parsing and code generation are out of scope (spec §1's Non-goals), so
// nothing in this tree actually emits calls against this surface the way
// a real ahead-of-time compiler would. cmd/esrt's "run" subcommand
// stands in for that missing front end: it decodes a JSON-encoded
// pkg/ast.Program and wraps it in a Native closure, so esr_init/esr_run
// are genuinely the entry points every program goes through, not a
// decorative parallel path next to a direct evaluator.Run call.
//
// Grounded on the teacher's internal/interp bootstrap (NewInterpreter,
// a single package-level construction point every cmd/dwscript
// subcommand goes through) for the "one shared instance, built lazily"
// discipline; the primitive surface itself (stk_*/ctx_*/prp_*/call*)
// is ported directly from spec.md §6's EXTERNAL INTERFACES table, which
// has no teacher analogue since go-dws compiles to Go source rather
// than linking against a runtime ABI.
package abi

import (
	"github.com/cwbudde/esrt/internal/config"
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/engine"
	"github.com/cwbudde/esrt/internal/errtax"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/value"
)

// Native is the signature every function the ABI surface calls or is
// called through must have (spec §5.3 / §6): ctx is the active
// execution context, fp is the current frame's parameter/local slots,
// vp is the caller-supplied slot(s) for the return value. The boolean
// result is the ABI's universal success flag; false means a pending
// exception was set on ctx's owning context stack and the caller must
// propagate rather than inspect vp.
type Native func(ctx *context.Context, argc int, fp []value.Value, vp []value.Value) bool

var eng *engine.Engine
var lastError string
var configPath = "esrt.yaml"

// Configure sets the config file path engineInstance loads on next
// construction (cmd/esrt's --config flag). Has no effect once the
// engine has already been built; call before the first Init/Run/
// EngineHandle.
func Configure(path string) { configPath = path }

// engineInstance returns the process-wide Engine, constructing it from
// config.Load's layered defaults on first call.
func engineInstance() *engine.Engine {
	if eng == nil {
		cfg, err := config.Load(configPath)
		if err != nil {
			cfg = config.Default()
		}
		eng = engine.New(cfg)
	}
	return eng
}

// EngineHandle exposes the process-wide engine for callers that need
// direct access beyond the esr_init/esr_run surface — cmd/esrt's run
// subcommand executing a decoded Program, or its bench subcommand
// reading cache statistics.
func EngineHandle() *engine.Engine {
	return engineInstance()
}

// Reset discards the process-wide Engine, forcing the next call to any
// ABI entry point to rebuild it from scratch. Exists for test isolation
// (each test gets its own global state) since esr_init/esr_run are
// otherwise deliberately singleton-backed.
func Reset() {
	eng = nil
	lastError = ""
}

// Init is esr_init: constructs the process-wide engine if needed, then
// (if non-nil) invokes globalDataEntry as the module-level
// initialization code a compiled program's global variable
// declarations would lower to. Returns false and records the failure
// for LastError if globalDataEntry itself fails.
func Init(globalDataEntry Native) bool {
	e := engineInstance()
	if globalDataEntry == nil {
		return true
	}
	ctx := e.Evaluator.Contexts.Current()
	ok := globalDataEntry(ctx, 0, nil, nil)
	if !ok {
		recordPendingError(e, ctx)
	}
	return ok
}

// Run is esr_run: invokes mainEntry as the program's entry point against
// the current global execution context. Returns false and records the
// failure for LastError if mainEntry fails or throws uncaught.
func Run(mainEntry Native) bool {
	e := engineInstance()
	ctx := e.Evaluator.Contexts.Current()
	vp := make([]value.Value, 1)
	ok := mainEntry(ctx, 0, nil, vp)
	if !ok {
		recordPendingError(e, ctx)
	}
	return ok
}

// LastError is esr_error: the last uncaught error message recorded by
// Init or Run, or "" if the most recent call succeeded.
func LastError() string {
	return lastError
}

// recordPendingError renders ctx's pending exception (if any) into
// lastError and clears it, the same "surface, then clear" discipline
// esr_error's ES5 §15's uncaught-exception reporting describes.
func recordPendingError(e *engine.Engine, ctx *context.Context) {
	if e == nil || ctx == nil {
		lastError = "unknown error"
		return
	}
	stack := e.Evaluator.Contexts
	if !stack.Pending.Active() {
		lastError = "unknown error"
		return
	}
	v := stack.Pending.Value()
	h := e.Evaluator.Heap
	lastError = describeThrown(h, v)
	stack.Pending.Clear()
}

// describeThrown renders a thrown value's "name: message" form when it
// is an Error-taxonomy object, or its plain ToString otherwise.
func describeThrown(h *object.Heap, v value.Value) string {
	if !v.IsObject() || h.Resolve(v).Class != object.ClassError {
		sv, err := ops.ToStringValue(h, v, eng.Evaluator)
		if err != nil {
			return v.Kind().String()
		}
		return h.Pool().Lookup(sv.AsStringID())
	}
	o := h.Resolve(v)
	nameKey := keyOf(h, "name")
	msgKey := keyOf(h, "message")
	name, _ := o.Get(h, nameKey, noGetter)
	msg, _ := o.Get(h, msgKey, noGetter)
	nameStr := string(errtax.Error)
	if name.IsString() {
		nameStr = h.Pool().Lookup(name.AsStringID())
	}
	msgStr := ""
	if msg.IsString() {
		msgStr = h.Pool().Lookup(msg.AsStringID())
	}
	if msgStr == "" {
		return nameStr
	}
	return nameStr + ": " + msgStr
}

func noGetter(value.Value, value.Value) (value.Value, error) { return value.Undefined, nil }

func keyOf(h *object.Heap, name string) propkey.Key {
	return propkey.FromString(h.Pool(), name)
}

package env

import (
	"testing"

	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/strpool"
	"github.com/cwbudde/esrt/internal/value"
)

func TestDeclarativeResolveWalksOuterChain(t *testing.T) {
	outer := NewDeclarativeEnvironment(nil)
	outer.Record.CreateMutableBinding("x", false)
	_ = outer.Record.SetMutableBinding("x", value.FromI64(1), true)

	inner := NewDeclarativeEnvironment(outer)
	inner.Record.CreateMutableBinding("y", false)

	if Resolve(inner, "x") != outer {
		t.Fatalf("expected x to resolve to outer environment")
	}
	if Resolve(inner, "y") != inner {
		t.Fatalf("expected y to resolve to inner environment")
	}
	if Resolve(inner, "z") != nil {
		t.Fatalf("expected unbound name to resolve to nil")
	}
}

func TestDeclarativeImmutableBindingRejectsReassignmentInStrictMode(t *testing.T) {
	rec := newDeclarativeRecord()
	rec.CreateImmutableBinding("f")
	rec.InitializeImmutableBinding("f", value.FromI64(1))

	if err := rec.SetMutableBinding("f", value.FromI64(2), true); err == nil {
		t.Fatalf("expected strict-mode assignment to immutable binding to fail")
	}
	if err := rec.SetMutableBinding("f", value.FromI64(2), false); err != nil {
		t.Fatalf("expected non-strict assignment to immutable binding to be silently ignored, got %v", err)
	}
	v, err := rec.GetBindingValue("f", true)
	if err != nil || v.AsNumber() != 1 {
		t.Fatalf("expected binding to remain 1, got %v err %v", v, err)
	}
}

func TestObjectEnvironmentDelegatesToBackingObject(t *testing.T) {
	pool := strpool.New()
	h := object.NewHeap(pool)
	global := h.Resolve(h.NewPlainObject(value.Null))

	e := NewObjectEnvironment(h, global.AsValue(), nil, false)
	e.Record.CreateMutableBinding("x", false)
	if err := e.Record.SetMutableBinding("x", value.FromI64(7), true); err != nil {
		t.Fatalf("SetMutableBinding: %v", err)
	}
	v, err := e.Record.GetBindingValue("x", true)
	if err != nil || v.AsNumber() != 7 {
		t.Fatalf("got %v err %v, want 7", v, err)
	}
	if !e.HasBinding("x") {
		t.Fatalf("expected HasBinding(x) to be true")
	}
}

func TestWithEnvironmentProvidesThis(t *testing.T) {
	pool := strpool.New()
	h := object.NewHeap(pool)
	target := h.NewPlainObject(value.Null)

	e := NewObjectEnvironment(h, target, nil, true)
	if e.Record.ImplicitThisValue() != target {
		t.Fatalf("expected with-environment ImplicitThisValue to be the target object")
	}

	plain := NewObjectEnvironment(h, target, nil, false)
	if !plain.Record.ImplicitThisValue().IsUndefined() {
		t.Fatalf("expected non-with object environment ImplicitThisValue to be undefined")
	}
}

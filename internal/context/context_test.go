package context

import (
	"testing"

	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/strpool"
	"github.com/cwbudde/esrt/internal/value"
)

func TestStackPushPopTracksCurrent(t *testing.T) {
	s := NewStack()
	if s.Current() != nil {
		t.Fatalf("expected empty stack to have no current context")
	}

	global := &Context{Kind: KindGlobal, LexicalEnv: env.NewDeclarativeEnvironment(nil)}
	s.Push(global)
	if s.Current() != global || s.Depth() != 1 {
		t.Fatalf("expected global context on top")
	}

	fn := &Context{Kind: KindFunction, Strict: true}
	s.Push(fn)
	if s.Current() != fn || s.Depth() != 2 {
		t.Fatalf("expected function context on top")
	}

	s.Pop()
	if s.Current() != global || s.Depth() != 1 {
		t.Fatalf("expected pop to restore global context")
	}
}

func TestPendingExceptionRoundTrips(t *testing.T) {
	pool := strpool.New()
	h := object.NewHeap(pool)
	s := NewStack()

	if s.Pending.Active() {
		t.Fatalf("expected no pending exception initially")
	}
	thrown := h.Throw("TypeError", "boom")
	s.Pending.Set(thrown)
	if !s.Pending.Active() || s.Pending.Value() != thrown.Value {
		t.Fatalf("expected pending exception to carry the thrown value")
	}
	s.Pending.Clear()
	if s.Pending.Active() || s.Pending.Value() != value.Undefined {
		t.Fatalf("expected clear to reset pending exception")
	}
}

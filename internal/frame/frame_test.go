package frame

import (
	"testing"

	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/strpool"
	"github.com/cwbudde/esrt/internal/value"
)

func TestStackOverflowDetection(t *testing.T) {
	s := NewStack(2)
	if err := s.Push(&Frame{FunctionName: "a"}); err != nil {
		t.Fatalf("unexpected error on first push: %v", err)
	}
	if err := s.Push(&Frame{FunctionName: "b"}); err != nil {
		t.Fatalf("unexpected error on second push: %v", err)
	}
	if !s.WillOverflow() {
		t.Fatalf("expected stack to report imminent overflow at max depth")
	}
	if err := s.Push(&Frame{FunctionName: "c"}); err == nil {
		t.Fatalf("expected third push to overflow")
	}
	if s.Depth() != 2 {
		t.Fatalf("expected failed push not to grow the stack, depth=%d", s.Depth())
	}
}

func TestMaterializeArgumentsLinksNonStrictParameters(t *testing.T) {
	pool := strpool.New()
	h := object.NewHeap(pool)
	f := &Frame{Args: []value.Value{value.FromI64(1), value.FromI64(2)}}

	argsVal := MaterializeArguments(h, value.Null, f, []string{"a", "b"}, false)
	argsObj := h.Resolve(argsVal)

	if err := argsObj.Put(h, propkey.FromU32(0), value.FromI64(99), true, noSetter); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if f.Args[0].AsNumber() != 99 {
		t.Fatalf("expected write-through to frame slot, got %v", f.Args[0])
	}
}

func TestMaterializeArgumentsOmitsShadowedDuplicateNames(t *testing.T) {
	pool := strpool.New()
	h := object.NewHeap(pool)
	f := &Frame{Args: []value.Value{value.FromI64(1), value.FromI64(2)}}

	argsVal := MaterializeArguments(h, value.Null, f, []string{"a", "a"}, false)
	argsObj := h.Resolve(argsVal)
	if _, linked := argsObj.Args.Links[0]; linked {
		t.Fatalf("expected earlier same-named parameter to be shadowed (unlinked)")
	}
	if _, linked := argsObj.Args.Links[1]; !linked {
		t.Fatalf("expected last same-named parameter to be linked")
	}
}

func TestMaterializeArgumentsStrictHasNoLinks(t *testing.T) {
	pool := strpool.New()
	h := object.NewHeap(pool)
	f := &Frame{Args: []value.Value{value.FromI64(1)}}

	argsVal := MaterializeArguments(h, value.Null, f, []string{"a"}, true)
	argsObj := h.Resolve(argsVal)
	if argsObj.Args.Links != nil {
		t.Fatalf("expected strict-mode arguments to have no parameter links")
	}
}

func noSetter(fn, this value.Value, args []value.Value) error { return nil }

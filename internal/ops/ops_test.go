package ops

import (
	"math"
	"testing"

	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/strpool"
	"github.com/cwbudde/esrt/internal/value"
)

type nopCaller struct{}

func (nopCaller) Call(h *object.Heap, fn, this value.Value, args []value.Value) (value.Value, error) {
	return value.Undefined, nil
}

func TestToNumberParsesHexStrings(t *testing.T) {
	h := object.NewHeap(strpool.New())
	v := value.FromStringID(h.Pool().Intern("0xFF"))
	n, err := ToNumber(h, v, nopCaller{})
	if err != nil {
		t.Fatalf("ToNumber: %v", err)
	}
	if n != 255 {
		t.Fatalf("expected 255, got %v", n)
	}
}

func TestToNumberEmptyStringIsZero(t *testing.T) {
	h := object.NewHeap(strpool.New())
	v := value.FromStringID(h.Pool().Intern("   "))
	n, err := ToNumber(h, v, nopCaller{})
	if err != nil {
		t.Fatalf("ToNumber: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0, got %v", n)
	}
}

func TestStrictEqualsDistinguishesTypes(t *testing.T) {
	h := object.NewHeap(strpool.New())
	n := value.FromNumber(1)
	s := value.FromStringID(h.Pool().Intern("1"))
	if StrictEquals(h, n, s) {
		t.Fatalf("expected number !== string")
	}
}

func TestAbstractEqualsCoercesStringToNumber(t *testing.T) {
	h := object.NewHeap(strpool.New())
	n := value.FromNumber(1)
	s := value.FromStringID(h.Pool().Intern("1"))
	eq, err := AbstractEquals(h, n, s, nopCaller{})
	if err != nil {
		t.Fatalf("AbstractEquals: %v", err)
	}
	if !eq {
		t.Fatalf("expected 1 == \"1\"")
	}
}

func TestAddConcatenatesWhenEitherOperandIsString(t *testing.T) {
	h := object.NewHeap(strpool.New())
	s := value.FromStringID(h.Pool().Intern("x="))
	n := value.FromNumber(3)
	result, err := Add(h, s, n, nopCaller{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !result.IsString() || h.Pool().Lookup(result.AsStringID()) != "x=3" {
		t.Fatalf("expected \"x=3\", got %v", result)
	}
}

func TestLessThanIsUndefinedForNaN(t *testing.T) {
	h := object.NewHeap(strpool.New())
	a := value.FromNumber(math.NaN())
	b := value.FromNumber(1)
	_, defined, err := LessThan(h, a, b, nopCaller{})
	if err != nil {
		t.Fatalf("LessThan: %v", err)
	}
	if defined {
		t.Fatalf("expected comparison against NaN to be undefined")
	}
}

func TestTypeofFunctionObject(t *testing.T) {
	h := object.NewHeap(strpool.New())
	fn := h.NewFunction(value.Undefined, &object.FunctionData{Name: "f", IsNative: true}, 0)
	if got := Typeof(h, fn); got != "function" {
		t.Fatalf("expected \"function\", got %q", got)
	}
}

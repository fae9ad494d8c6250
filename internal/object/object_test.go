package object

import (
	"testing"

	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/strpool"
	"github.com/cwbudde/esrt/internal/value"
)

func noGetter(fn, this value.Value) (value.Value, error) { return value.Undefined, nil }
func noSetter(fn, this value.Value, args []value.Value) error { return nil }

func TestPlainObjectPutThenGetRoundTrips(t *testing.T) {
	pool := strpool.New()
	h := NewHeap(pool)
	obj := h.Resolve(h.NewPlainObject(value.Null))

	key := propkey.FromStringID(pool.Intern("x"))
	if err := obj.Put(h, key, value.FromI64(42), true, noSetter); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := obj.Get(h, key, noGetter)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AsNumber() != 42 {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestArrayLengthTracksHighestIndex(t *testing.T) {
	pool := strpool.New()
	h := NewHeap(pool)
	arrVal := h.NewArray(value.Null, []value.Value{value.FromI64(1), value.FromI64(2)})
	arr := h.Resolve(arrVal)

	lengthKeyID := pool.Intern("length")
	lp, ok := arr.GetOwnProperty(propkey.FromStringID(lengthKeyID))
	if !ok || lp.Data.V.AsNumber() != 2 {
		t.Fatalf("expected length 2, got %v ok=%v", lp.Data.V, ok)
	}

	idx5 := propkey.FromU32(5)
	if err := arr.Put(h, idx5, value.FromI64(9), true, noSetter); err != nil {
		t.Fatalf("Put: %v", err)
	}
	lp, _ = arr.GetOwnProperty(propkey.FromStringID(lengthKeyID))
	if lp.Data.V.AsNumber() != 6 {
		t.Fatalf("expected length to extend to 6, got %v", lp.Data.V)
	}
}

func TestArrayLengthTruncationDeletesTrailingIndices(t *testing.T) {
	pool := strpool.New()
	h := NewHeap(pool)
	arrVal := h.NewArray(value.Null, []value.Value{value.FromI64(1), value.FromI64(2), value.FromI64(3)})
	arr := h.Resolve(arrVal)

	lengthKey := propkey.FromStringID(pool.Intern("length"))
	desc := propmap.Descriptor{HasValue: true, Value: value.FromI64(1)}
	ok, err := arr.DefineOwnProperty(h, lengthKey, desc, true)
	if err != nil || !ok {
		t.Fatalf("DefineOwnProperty(length): ok=%v err=%v", ok, err)
	}
	if _, present := arr.Indexed.Get(1); present {
		t.Fatalf("expected index 1 to be removed after truncation")
	}
	if _, present := arr.Indexed.Get(0); !present {
		t.Fatalf("expected index 0 to survive truncation")
	}
}

func TestArgumentsPutWritesThroughLink(t *testing.T) {
	pool := strpool.New()
	h := NewHeap(pool)
	slot0 := value.FromI64(10)
	argsVal := h.NewArguments(value.Null, []value.Value{slot0}, map[uint32]*value.Value{0: &slot0})
	argsObj := h.Resolve(argsVal)

	idx0 := propkey.FromU32(0)
	if err := argsObj.Put(h, idx0, value.FromI64(99), true, noSetter); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if slot0.AsNumber() != 99 {
		t.Fatalf("expected linked slot to observe write-through, got %v", slot0)
	}
	got, err := argsObj.Get(h, idx0, noGetter)
	if err != nil || got.AsNumber() != 99 {
		t.Fatalf("Get after write-through: got %v err %v", got, err)
	}
}

func TestArgumentsDeleteUnlinksIndex(t *testing.T) {
	pool := strpool.New()
	h := NewHeap(pool)
	slot0 := value.FromI64(1)
	argsVal := h.NewArguments(value.Null, []value.Value{slot0}, map[uint32]*value.Value{0: &slot0})
	argsObj := h.Resolve(argsVal)

	idx0 := propkey.FromU32(0)
	ok, err := argsObj.Delete(h, idx0, true)
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	if _, linked := argsObj.Args.Links[0]; linked {
		t.Fatalf("expected index 0 to be unlinked after delete")
	}
}

func TestFunctionNameAndLengthAreReadOnly(t *testing.T) {
	pool := strpool.New()
	h := NewHeap(pool)
	fnVal := h.NewFunction(value.Null, &FunctionData{Name: "f", IsNative: true}, 2)
	fn := h.Resolve(fnVal)

	nameKey := propkey.FromStringID(pool.Intern("name"))
	p, ok := fn.GetOwnProperty(nameKey)
	if !ok || p.Data.Writable {
		t.Fatalf("expected non-writable name property, got ok=%v writable=%v", ok, p.Data.Writable)
	}
	if err := fn.Put(h, nameKey, value.FromStringID(pool.Intern("g")), false, noSetter); err != nil {
		t.Fatalf("non-throwing put must not error: %v", err)
	}
	p, _ = fn.GetOwnProperty(nameKey)
	if pool.Lookup(p.Data.V.AsStringID()) != "f" {
		t.Fatalf("expected name to remain unchanged, got %q", pool.Lookup(p.Data.V.AsStringID()))
	}
}

func TestOwnPropertyKeysOrdersIntegerKeysFirst(t *testing.T) {
	pool := strpool.New()
	h := NewHeap(pool)
	obj := h.Resolve(h.NewPlainObject(value.Null))

	for _, name := range []string{"b", "2", "a", "1"} {
		key := propkey.FromString(pool, name)
		if err := obj.Put(h, key, value.FromI64(0), true, noSetter); err != nil {
			t.Fatalf("Put(%q): %v", name, err)
		}
	}

	var order []string
	for _, k := range obj.OwnPropertyKeys() {
		order = append(order, k.ToString(pool))
	}
	want := []string{"1", "2", "b", "a"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

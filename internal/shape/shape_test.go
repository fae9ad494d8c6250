package shape

import (
	"testing"

	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/strpool"
)

func key(pool *strpool.Pool, s string) propkey.Key {
	return propkey.FromString(pool, s)
}

func TestAddIsStructurallyShared(t *testing.T) {
	pool := strpool.New()
	root := NewRoot()

	a1 := root.Add(key(pool, "a"), 0)
	a2 := root.Add(key(pool, "a"), 0)

	if a1 != a2 {
		t.Fatalf("expected structural sharing: two adds of the same key from the same parent should return the identical shape")
	}
}

func TestRemoveReconvergesToEquivalentSequence(t *testing.T) {
	pool := strpool.New()
	root := NewRoot()

	sA := root.Add(key(pool, "a"), 0)
	sAB := sA.Add(key(pool, "b"), 1)
	sABC := sAB.Add(key(pool, "c"), 2)

	// Remove "b": should reconverge with add(a), add(c) on a fresh root.
	afterRemove := sABC.Remove(key(pool, "b"))

	altRoot := NewRoot()
	altA := altRoot.Add(key(pool, "a"), 0)
	altAC := altA.Add(key(pool, "c"), 2)

	if afterRemove != altAC {
		t.Fatalf("expected removal to reconverge to the shape reached by add(a), add(c); got different shape pointers")
	}
}

func TestLookupWalksAncestorWard(t *testing.T) {
	pool := strpool.New()
	root := NewRoot()
	sA := root.Add(key(pool, "a"), 0)
	sAB := sA.Add(key(pool, "b"), 1)

	if got := sAB.Lookup(key(pool, "a")); got != sA {
		t.Fatalf("expected lookup of 'a' from sAB to find sA")
	}
	if got := sAB.Lookup(key(pool, "z")); got != nil {
		t.Fatalf("expected lookup of absent key to return nil, got %v", got)
	}
}

func TestKeysReturnsRootToLeafOrder(t *testing.T) {
	pool := strpool.New()
	root := NewRoot()
	sA := root.Add(key(pool, "a"), 0)
	sAB := sA.Add(key(pool, "b"), 1)
	sABC := sAB.Add(key(pool, "c"), 2)

	got := sABC.Keys()
	if len(got) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(got))
	}
	want := []string{"a", "b", "c"}
	for i, ks := range got {
		if ks.Key.ToString(pool) != want[i] {
			t.Fatalf("keys[%d] = %s, want %s", i, ks.Key.ToString(pool), want[i])
		}
	}
}

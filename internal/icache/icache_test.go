package icache

import (
	"testing"

	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/shape"
	"github.com/cwbudde/esrt/internal/strpool"
	"github.com/cwbudde/esrt/internal/value"
)

func TestContextCacheHitsAfterStore(t *testing.T) {
	pool := strpool.New()
	key := propkey.FromString(pool, "x")
	m := propmap.New(shape.NewRoot())
	m.Add(pool, key, propmap.DataProperty(value.Undefined))
	ref := m.Lookup(key)

	c := NewContextCache()
	if _, ok := c.Lookup(1, m, key); ok {
		t.Fatalf("expected miss before Store")
	}
	c.Store(1, m, key, ref)
	got, ok := c.Lookup(1, m, key)
	if !ok {
		t.Fatalf("expected hit after Store")
	}
	if got.Slot() != ref.Slot() {
		t.Fatalf("slot mismatch: got %d want %d", got.Slot(), ref.Slot())
	}
}

func TestContextCacheMissesAfterShapeChange(t *testing.T) {
	pool := strpool.New()
	key := propkey.FromString(pool, "x")
	m := propmap.New(shape.NewRoot())
	m.Add(pool, key, propmap.DataProperty(value.Undefined))
	ref := m.Lookup(key)

	c := NewContextCache()
	c.Store(1, m, key, ref)

	other := propkey.FromString(pool, "y")
	m.Add(pool, other, propmap.DataProperty(value.Undefined))

	if _, ok := c.Lookup(1, m, key); ok {
		t.Fatalf("expected miss after map shape changed")
	}
}

func TestPropertyCacheRequiresWholeChainMatch(t *testing.T) {
	root := shape.NewRoot()
	chain := []*shape.Shape{root, shape.NewRoot()}
	pool := strpool.New()
	key := propkey.FromString(pool, "p")
	m := propmap.New(root)
	m.Add(pool, key, propmap.DataProperty(value.Undefined))
	ref := m.Lookup(key)

	c := NewPropertyCache()
	c.Store(1, chain, key, ref, 1)

	if _, _, ok := c.Lookup(1, chain, key); !ok {
		t.Fatalf("expected hit on identical chain")
	}
	differentChain := []*shape.Shape{root, shape.NewRoot()}
	if _, _, ok := c.Lookup(1, differentChain, key); ok {
		t.Fatalf("expected miss when an ancestor map id differs")
	}
}

func TestPropertyCacheDoesNotStoreBeyondMaxDepth(t *testing.T) {
	chain := make([]*shape.Shape, MaxChainDepth+2)
	for i := range chain {
		chain[i] = shape.NewRoot()
	}
	pool := strpool.New()
	key := propkey.FromString(pool, "deep")

	c := NewPropertyCache()
	c.Store(1, chain, key, propmap.Reference{}, MaxChainDepth+1)
	if _, _, ok := c.Lookup(1, chain, key); ok {
		t.Fatalf("expected lookup beyond MaxChainDepth to never hit")
	}
}

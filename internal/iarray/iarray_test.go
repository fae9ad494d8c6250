package iarray

import (
	"testing"

	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
)

func TestIterationOrderIsAscending(t *testing.T) {
	a := New()
	a.Set(5, propmap.DataProperty(value.Undefined))
	a.Set(1, propmap.DataProperty(value.Undefined))
	a.Set(3, propmap.DataProperty(value.Undefined))
	a.Remove(3)

	entries := a.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 live entries, got %d", len(entries))
	}
	if entries[0].Index != 1 || entries[1].Index != 5 {
		t.Fatalf("expected ascending [1,5], got [%d,%d]", entries[0].Index, entries[1].Index)
	}
}

func TestPromotesToSparseBeyondHoleThreshold(t *testing.T) {
	a := New()
	// One present element at a very high index creates far more than
	// HolePromoteCount holes with a ratio over 10%.
	a.Set(1000, propmap.DataProperty(value.Undefined))

	if !a.IsSparse() {
		t.Fatalf("expected promotion to sparse mode after setting index 1000 on an empty array")
	}
	if got := a.MaxIndexPlusOne(); got != 1001 {
		t.Fatalf("expected length 1001, got %d", got)
	}
}

func TestStaysCompactForDenseRuns(t *testing.T) {
	a := New()
	for i := uint32(0); i < 20; i++ {
		a.Set(i, propmap.DataProperty(value.Undefined))
	}
	if a.IsSparse() {
		t.Fatalf("expected dense run to remain compact")
	}
}

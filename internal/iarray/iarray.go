// Package iarray implements the dual-mode indexed-property array (spec
// component F): a dense compact vector until the hole ratio crosses a
// policy threshold, then an ordered sparse map.
package iarray

import (
	"sort"

	"github.com/cwbudde/esrt/internal/propmap"
)

// Thresholds for the compact-to-sparse promotion, confirmed against
// original_source/runtime/property_array.cc. Vars rather than consts so
// internal/config can retune them at process start; nothing after
// bootstrap should assign to them.
var (
	HolePromoteCount = 16
	HolePromoteRatio = 0.1
)

// Array is the dual-mode indexed-property store.
type Array struct {
	sparse   bool
	compact  []slot // index i holds index i's property; slot.present=false is a hole
	holes    int
	sparseM  map[uint32]propmap.Property
	sparseKs []uint32 // kept sorted on every insert by insertSparseKey
}

type slot struct {
	present bool
	prop    propmap.Property
}

// New creates an empty, compact-mode array.
func New() *Array {
	return &Array{sparseM: nil}
}

// Get returns the property at index i and whether it is present.
func (a *Array) Get(i uint32) (propmap.Property, bool) {
	if a.sparse {
		p, ok := a.sparseM[i]
		return p, ok
	}
	if int(i) >= len(a.compact) {
		return propmap.Property{}, false
	}
	s := a.compact[i]
	return s.prop, s.present
}

// Set places prop at index i. In compact mode this pads any new holes
// with absent slots up to i, then checks whether the projected hole
// count/ratio crosses the promotion policy and switches to sparse mode
// if so.
func (a *Array) Set(i uint32, prop propmap.Property) {
	if a.sparse {
		a.sparseM[i] = prop
		a.insertSparseKey(i)
		return
	}

	if int(i) < len(a.compact) {
		if !a.compact[i].present {
			a.holes--
		}
		a.compact[i] = slot{present: true, prop: prop}
		return
	}

	padStart := len(a.compact)
	for j := padStart; j < int(i); j++ {
		a.compact = append(a.compact, slot{})
		a.holes++
	}
	a.compact = append(a.compact, slot{present: true, prop: prop})

	if a.shouldPromote() {
		a.promoteToSparse()
	}
}

// Remove deletes the property at index i, if present.
func (a *Array) Remove(i uint32) {
	if a.sparse {
		delete(a.sparseM, i)
		a.removeSparseKey(i)
		return
	}
	if int(i) >= len(a.compact) {
		return
	}
	if a.compact[i].present {
		a.compact[i] = slot{}
		a.holes++
	}
}

func (a *Array) shouldPromote() bool {
	filled := len(a.compact) - a.holes
	if a.holes <= HolePromoteCount || filled <= 0 {
		return false
	}
	return float64(a.holes)/float64(filled) > HolePromoteRatio
}

func (a *Array) promoteToSparse() {
	a.sparseM = make(map[uint32]propmap.Property)
	a.sparseKs = nil
	for i, s := range a.compact {
		if s.present {
			a.sparseM[uint32(i)] = s.prop
			a.sparseKs = append(a.sparseKs, uint32(i))
		}
	}
	a.compact = nil
	a.sparse = true
}

func (a *Array) insertSparseKey(i uint32) {
	idx := sort.Search(len(a.sparseKs), func(j int) bool { return a.sparseKs[j] >= i })
	if idx < len(a.sparseKs) && a.sparseKs[idx] == i {
		return
	}
	a.sparseKs = append(a.sparseKs, 0)
	copy(a.sparseKs[idx+1:], a.sparseKs[idx:])
	a.sparseKs[idx] = i
}

func (a *Array) removeSparseKey(i uint32) {
	idx := sort.Search(len(a.sparseKs), func(j int) bool { return a.sparseKs[j] >= i })
	if idx < len(a.sparseKs) && a.sparseKs[idx] == i {
		a.sparseKs = append(a.sparseKs[:idx], a.sparseKs[idx+1:]...)
	}
}

// Entry is one live (index, property) pair yielded by iteration.
type Entry struct {
	Index uint32
	Prop  propmap.Property
}

// Entries returns every live index/property pair in strictly ascending
// index order, exactly once per live index — the invariant spec §8
// requires across any sequence of Set/Remove calls.
func (a *Array) Entries() []Entry {
	if a.sparse {
		out := make([]Entry, 0, len(a.sparseKs))
		for _, i := range a.sparseKs {
			out = append(out, Entry{Index: i, Prop: a.sparseM[i]})
		}
		return out
	}
	out := make([]Entry, 0, len(a.compact)-a.holes)
	for i, s := range a.compact {
		if s.present {
			out = append(out, Entry{Index: uint32(i), Prop: s.prop})
		}
	}
	return out
}

// MaxIndexPlusOne returns the smallest length an Array backing a
// length-tracking subkind (e.g. Array, Component G) would need to cover
// every live index, or 0 if the array is empty.
func (a *Array) MaxIndexPlusOne() uint32 {
	if a.sparse {
		if len(a.sparseKs) == 0 {
			return 0
		}
		return a.sparseKs[len(a.sparseKs)-1] + 1
	}
	for i := len(a.compact) - 1; i >= 0; i-- {
		if a.compact[i].present {
			return uint32(i) + 1
		}
	}
	return 0
}

// IsSparse reports the array's current representation, used by tests
// exercising the promotion boundary.
func (a *Array) IsSparse() bool { return a.sparse }

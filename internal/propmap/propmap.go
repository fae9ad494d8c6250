package propmap

import (
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/shape"
	"github.com/cwbudde/esrt/internal/strpool"
)

// Map is a per-object layout handle: a shape pointer identifying the
// object's current layout, a contiguous slot vector, a free-slot list
// for stable-slot reuse on deletion, and an optional hash-table side
// table materialized past HashPromoteThreshold properties.
type Map struct {
	last  *shape.Shape
	slots []Property
	free  []uint32
	hash  map[uint64]uint32 // present once materialized
}

// New creates an empty property map rooted at root.
func New(root *shape.Shape) *Map {
	return &Map{last: root}
}

// ID returns the map's identity: the address of its last shape. Two
// maps compare equal (via ID) iff they currently identify the same
// shape, which implies an identical insertion/deletion history — this
// is exactly the "map id" the inline-cache layer (Component P) compares
// against.
func (m *Map) ID() *shape.Shape { return m.last }

// Count returns the number of live (non-free) slots, i.e. the number of
// own properties tracked by the shape chain.
func (m *Map) Count() int {
	return len(m.slots) - len(m.free)
}

func (m *Map) allocSlot() uint32 {
	if n := len(m.free); n > 0 {
		s := m.free[n-1]
		m.free = m.free[:n-1]
		return s
	}
	s := uint32(len(m.slots))
	m.slots = append(m.slots, Property{})
	return s
}

// Add allocates a slot (reusing the free list when non-empty, else
// appending), advances the shape via shape.Add, and stores prop. When
// the property count exceeds HashPromoteThreshold and no side table
// exists yet, the hash table is materialized by walking the full shape
// chain.
func (m *Map) Add(pool *strpool.Pool, key propkey.Key, prop Property) {
	slot := m.allocSlot()
	m.slots[slot] = prop
	m.last = m.last.Add(key, slot)

	if m.hash == nil {
		if m.Count() > HashPromoteThreshold {
			m.materializeHash()
		}
	} else {
		m.hash[key.Bits()] = slot
	}
}

func (m *Map) materializeHash() {
	m.hash = make(map[uint64]uint32, len(m.slots))
	for _, ks := range m.last.Keys() {
		m.hash[ks.Key.Bits()] = ks.Slot
	}
}

// Remove looks up key's shape; if present, advances the shape via
// shape.Remove, pushes the freed slot back onto the free list, and
// erases the side-table entry if one exists. Reports whether the key
// was present.
func (m *Map) Remove(key propkey.Key) bool {
	found := m.last.Lookup(key)
	if found == nil {
		return false
	}
	slot := found.Slot()
	m.last = m.last.Remove(key)
	m.free = append(m.free, slot)
	m.slots[slot] = Property{}
	if m.hash != nil {
		delete(m.hash, key.Bits())
	}
	return true
}

// Reference is a (map, slot) pair that resolves to a property
// independently of subsequent layout changes — deleted slots go to the
// free list and newly inserted properties claim either the free list or
// the vector tail, so references into a map's slot vector are stable
// across inserts and deletes of *other* properties (spec §4.E).
type Reference struct {
	m    *Map
	slot uint32
	ok   bool
}

// Valid reports whether the reference resolves to a live property.
func (r Reference) Valid() bool { return r.ok }

// Get dereferences the reference, returning the current property value.
func (r Reference) Get() Property {
	return r.m.slots[r.slot]
}

// Set updates the property in place through the reference.
func (r Reference) Set(p Property) {
	r.m.slots[r.slot] = p
}

// Slot returns the raw slot index, used by Component P's cache re-basing
// ("re-base the cached reference to the current property-map").
func (r Reference) Slot() uint32 { return r.slot }

// Lookup resolves key to a Reference: consults the hash side table if
// materialized, else walks the current shape chain.
func (m *Map) Lookup(key propkey.Key) Reference {
	if m.hash != nil {
		if slot, ok := m.hash[key.Bits()]; ok {
			return Reference{m: m, slot: slot, ok: true}
		}
		return Reference{}
	}
	if s := m.last.Lookup(key); s != nil {
		return Reference{m: m, slot: s.Slot(), ok: true}
	}
	return Reference{}
}

// ReferenceForSlot rebuilds a Reference for a slot known (e.g. from an
// inline cache) to still belong to this exact map. Used by Component P
// once the map-id comparison has already confirmed identity.
func (m *Map) ReferenceForSlot(slot uint32) Reference {
	return Reference{m: m, slot: slot, ok: true}
}

// OwnKeys returns the map's own property keys in shape insertion order
// (oldest first), the order Component G's enumeration re-sorts into the
// "integers ascending, then strings in insertion order" rule.
func (m *Map) OwnKeys() []propkey.Key {
	ks := m.last.Keys()
	out := make([]propkey.Key, len(ks))
	for i, k := range ks {
		out[i] = k.Key
	}
	return out
}

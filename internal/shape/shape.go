// Package shape implements the hidden-class tree (spec component D): a
// rooted tree of (parent, key, slot) nodes with refcounted transitions,
// shared structurally across every object that follows the same
// sequence of property additions.
//
// Grounded on runtime/shape.cc and runtime/shape.hh in original_source/:
// the add/remove algorithms, including remove's re-insertion of
// intervening shapes in their original root-to-leaf order, are ported
// from there literally; the teacher repo (go-dws) has no equivalent
// concept since its object model keys properties by a Go map instead of
// a hidden-class tree.
package shape

import (
	"github.com/cwbudde/esrt/internal/enginelog"
	"github.com/cwbudde/esrt/internal/propkey"
)

// InvalidSlot signals "no slot" / "lookup failed".
const InvalidSlot = ^uint32(0)

// deepTransitionLogThreshold is the shape-tree depth interval at which a
// new transition is logged at Debug (a new shape whose depth is a
// multiple of it is logged; the ones between are not): a handful of named properties is
// routine, but an object chaining dozens of ad hoc transitions usually
// means megamorphic code that inline caches (component P) cannot help.
const deepTransitionLogThreshold = 32

type transition struct {
	shape *Shape
	count int
}

// Shape is one node in the hidden-class tree.
type Shape struct {
	parent *Shape
	key    propkey.Key
	slot   uint32
	depth  int
	hasKey bool // false only for the root

	transitions map[uint64]*transition
}

// NewRoot creates a fresh, unique root shape for one object layout
// lineage (e.g. one per distinct builtin prototype or user class).
func NewRoot() *Shape {
	return &Shape{transitions: make(map[uint64]*transition)}
}

// Depth returns the number of property transitions from the root to
// this shape.
func (s *Shape) Depth() int { return s.depth }

// Key returns the property key this shape's transition from its parent
// represents. Only meaningful when Parent() != nil.
func (s *Shape) Key() propkey.Key { return s.key }

// Slot returns the slot index this shape's key maps to.
func (s *Shape) Slot() uint32 { return s.slot }

// Parent returns the shape's parent, or nil at the root.
func (s *Shape) Parent() *Shape { return s.parent }

// Add returns the child shape reached via the key transition, creating
// and refcounting it on demand (spec §4.D).
func (s *Shape) Add(key propkey.Key, slot uint32) *Shape {
	if t, ok := s.transitions[key.Bits()]; ok {
		t.count++
		return t.shape
	}
	child := &Shape{
		parent:      s,
		key:         key,
		slot:        slot,
		depth:       s.depth + 1,
		hasKey:      true,
		transitions: make(map[uint64]*transition),
	}
	t := &transition{shape: child, count: 1}
	s.transitions[key.Bits()] = t
	if child.depth > 0 && child.depth%deepTransitionLogThreshold == 0 {
		enginelog.Debug("deep shape transition", "depth", child.depth)
	}
	return child
}

// Remove rebuilds the hierarchy without the given key, re-adding the
// suffix of shapes below the removal point onto the kept parent in
// their original (root-to-leaf) order — ported from EsShape::remove in
// original_source/runtime/shape.cc.
func (s *Shape) Remove(key propkey.Key) *Shape {
	if s.hasKey && s.key.Equal(key) {
		if s.parent != nil {
			s.parent.decrementTransition(s.key)
		}
		return s.parent
	}

	// Walk ancestor-ward collecting the chain of shapes strictly above
	// the removal point, stopping once the key is found.
	var intervening []*Shape
	cur := s
	for cur.hasKey {
		if cur.key.Equal(key) {
			break
		}
		intervening = append(intervening, cur)
		cur = cur.parent
		if cur == nil {
			// key not found anywhere in the chain; nothing to remove.
			return s
		}
	}
	if !cur.hasKey && cur.parent == nil {
		// cur is the root and never matched key: not present.
		found := false
		for _, node := range append(intervening, cur) {
			if node.hasKey && node.key.Equal(key) {
				found = true
			}
		}
		if !found {
			return s
		}
	}

	grandparent := cur.parent
	if grandparent != nil {
		grandparent.decrementTransition(cur.key)
	}
	kept := grandparent
	if kept == nil {
		// Removing the root's own key is impossible (root has no key);
		// this path is only reached when cur is itself the root, which
		// the loop above prevents via cur.hasKey. Defensive fallback:
		kept = cur
	}

	// Re-issue Add for each intervening shape in original (root-to-leaf)
	// order, i.e. reverse of collection order.
	for i := len(intervening) - 1; i >= 0; i-- {
		node := intervening[i]
		kept = kept.Add(node.key, node.slot)
	}
	return kept
}

func (s *Shape) decrementTransition(key propkey.Key) {
	t, ok := s.transitions[key.Bits()]
	if !ok {
		return
	}
	t.count--
	if t.count <= 0 {
		delete(s.transitions, key.Bits())
	}
}

// Lookup walks ancestor-ward returning the first shape whose key
// matches, or nil.
func (s *Shape) Lookup(key propkey.Key) *Shape {
	for cur := s; cur != nil && cur.hasKey; cur = cur.parent {
		if cur.key.Equal(key) {
			return cur
		}
	}
	return nil
}

// Keys returns the (key, slot) pairs from root to this shape, in
// insertion order — used when a property map must materialize its side
// hash table (Component E) by walking the shape chain.
func (s *Shape) Keys() []KeySlot {
	var chain []*Shape
	for cur := s; cur != nil && cur.hasKey; cur = cur.parent {
		chain = append(chain, cur)
	}
	out := make([]KeySlot, len(chain))
	for i, node := range chain {
		out[len(chain)-1-i] = KeySlot{Key: node.key, Slot: node.slot}
	}
	return out
}

// KeySlot pairs a property key with its slot index.
type KeySlot struct {
	Key  propkey.Key
	Slot uint32
}

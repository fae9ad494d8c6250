// Package icache implements the inline-cache layer (spec component P):
// per-callsite monomorphic caches for context (identifier) lookups and
// for property accesses, keyed by shape-tree pointer identity so a
// cache implicitly invalidates the moment an object's shape changes
// (adding/removing a property moves it to a different *shape.Shape).
//
// Grounded on the teacher's internal/interp's bytecode dispatch cache
// comment in runtime/execution_context.go (a per-context lookup result
// memoized against the defining scope), generalized here to the two
// cache shapes spec component P calls for: a single-slot context cache
// and a bounded prototype-chain property cache.
package icache

import (
	"github.com/cwbudde/esrt/internal/enginelog"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/shape"
)

// invalidationLogThreshold bounds how often a repeated-invalidation
// Debug line is emitted; logging every single miss would drown the
// ambient log in a tight loop over a polymorphic callsite.
const invalidationLogThreshold = 16

// MaxChainDepth bounds how many prototype-chain levels a PropertyCache
// entry may span; lookups deeper than this are never cached.
const MaxChainDepth = 8

// Site is a compile-time-assigned callsite identifier (16 bits per the
// spec), used as the key of the caches' per-site entry maps.
type Site uint16

// ContextEntry caches a single identifier lookup against one object
// (the spec restricts the context cache to the global object, to avoid
// invalidation storms from prototype mutation on ordinary objects).
type ContextEntry struct {
	valid bool
	mapID *shape.Shape
	key   propkey.Key
	ref   propmap.Reference
}

// ContextCache is a table of ContextEntry indexed by Site.
type ContextCache struct {
	entries      map[Site]*ContextEntry
	hits         int
	misses       int
	invalidations int
}

func NewContextCache() *ContextCache {
	return &ContextCache{entries: make(map[Site]*ContextEntry)}
}

// Stats reports cumulative hit/miss counts since creation, used by the
// esrt bench subcommand to report cache effectiveness.
func (c *ContextCache) Stats() (hits, misses int) { return c.hits, c.misses }

// Lookup returns the cached reference for site if the object's current
// map id and key still match, re-based onto the object's current
// property map (a hit requires the live map's id to equal the one
// recorded when the slot was cached; callers pass the live map so
// re-basing is just ReferenceForSlot against it).
func (c *ContextCache) Lookup(site Site, m *propmap.Map, key propkey.Key) (propmap.Reference, bool) {
	e, ok := c.entries[site]
	if !ok || !e.valid {
		c.misses++
		return propmap.Reference{}, false
	}
	if e.mapID != m.ID() || e.key != key {
		c.misses++
		return propmap.Reference{}, false
	}
	ref := m.ReferenceForSlot(e.ref.Slot())
	if !ref.Valid() {
		c.misses++
		return propmap.Reference{}, false
	}
	c.hits++
	return ref, true
}

// Store records a hit for later reuse. A non-cachable property (looked
// up via the hash fallback rather than a stable shape slot) should not
// be stored; callers skip Store in that case, leaving the entry absent
// so future lookups simply miss (the "sentinel map-id that never hits"
// the spec describes, modeled here as "no entry" rather than a
// dedicated sentinel value).
func (c *ContextCache) Store(site Site, m *propmap.Map, key propkey.Key, ref propmap.Reference) {
	if old, ok := c.entries[site]; ok && old.valid && (old.mapID != m.ID() || old.key != key) {
		c.invalidations++
		if c.invalidations%invalidationLogThreshold == 0 {
			enginelog.Debug("context cache invalidated", "site", site, "count", c.invalidations)
		}
	}
	c.entries[site] = &ContextEntry{valid: true, mapID: m.ID(), key: key, ref: ref}
}

// PropertyEntry caches a property lookup that resolved on an ancestor
// up to MaxChainDepth levels up an object's prototype chain.
type PropertyEntry struct {
	valid  bool
	chain  []*shape.Shape // map id at each level, starting at the receiver
	key    propkey.Key
	ref    propmap.Reference
	ownerAt int // index into chain of the object owning the property
}

// PropertyCache is a table of PropertyEntry indexed by Site.
type PropertyCache struct {
	entries       map[Site]*PropertyEntry
	hits          int
	misses        int
	invalidations int
}

func NewPropertyCache() *PropertyCache {
	return &PropertyCache{entries: make(map[Site]*PropertyEntry)}
}

// Stats reports cumulative hit/miss counts since creation, used by the
// esrt bench subcommand to report cache effectiveness.
func (c *PropertyCache) Stats() (hits, misses int) { return c.hits, c.misses }

// Lookup reports a hit only if every map id in chain matches the cached
// chain in order; chain is supplied by the caller by walking the
// receiver's prototype chain (the ops layer owns that walk since it has
// the Heap needed to follow Proto pointers).
func (c *PropertyCache) Lookup(site Site, chain []*shape.Shape, key propkey.Key) (propmap.Reference, int, bool) {
	e, ok := c.entries[site]
	if !ok || !e.valid || e.key != key || len(chain) < len(e.chain) {
		c.misses++
		return propmap.Reference{}, 0, false
	}
	for i, id := range e.chain {
		if chain[i] != id {
			c.misses++
			return propmap.Reference{}, 0, false
		}
	}
	c.hits++
	return e.ref, e.ownerAt, true
}

// Store records a hit spanning chain[:ownerAt+1] levels. Chains longer
// than MaxChainDepth are silently not stored (a permanent miss for that
// callsite, matching the spec's "deeper lookups are uncached").
func (c *PropertyCache) Store(site Site, chain []*shape.Shape, key propkey.Key, ref propmap.Reference, ownerAt int) {
	if ownerAt >= MaxChainDepth {
		return
	}
	if old, ok := c.entries[site]; ok && old.valid && old.key == key {
		c.invalidations++
		if c.invalidations%invalidationLogThreshold == 0 {
			enginelog.Debug("property cache invalidated", "site", site, "count", c.invalidations)
		}
	}
	cp := make([]*shape.Shape, ownerAt+1)
	copy(cp, chain[:ownerAt+1])
	c.entries[site] = &PropertyEntry{valid: true, chain: cp, key: key, ref: ref, ownerAt: ownerAt}
}

// Package propkey implements the uniform property-key representation
// (spec component C): a 64-bit packed word distinguishing an array index
// from an interned-string id.
package propkey

import (
	"strconv"

	"github.com/cwbudde/esrt/internal/strpool"
)

const indexFlag = uint64(1) << 63

// Key is a packed property identifier: either an index key (an unsigned
// 32-bit array index) or a string key (a strpool.ID). Equality is
// bitwise, matching spec §3.
type Key struct {
	bits uint64
}

// FromU32 constructs an index key directly, bypassing the canonical
// parse that FromString performs.
func FromU32(i uint32) Key {
	return Key{bits: indexFlag | uint64(i)}
}

// FromStringID wraps an already-interned string id as a string key
// without attempting index conversion. Used when the caller already
// knows the key is not numeric (e.g. identifiers).
func FromStringID(id strpool.ID) Key {
	return Key{bits: uint64(id)}
}

// FromString interns s in pool and returns its key form. Per spec §4.C,
// any string that parses as a canonical array index — a non-negative
// base-10 integer below 2^32-1 with no leading zeros (except the literal
// "0") and no sign or fraction — is converted to index form.
func FromString(pool *strpool.Pool, s string) Key {
	if idx, ok := parseCanonicalIndex(s); ok {
		return FromU32(idx)
	}
	return FromStringID(pool.Intern(s))
}

func parseCanonicalIndex(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n >= uint64(1)<<32-1 {
		return 0, false
	}
	return uint32(n), true
}

// IsIndex reports whether k is an array-index key.
func (k Key) IsIndex() bool { return k.bits&indexFlag != 0 }

// Index returns the array index; only valid when IsIndex() is true.
func (k Key) Index() uint32 { return uint32(k.bits &^ indexFlag) }

// StringID returns the interned-string id; only valid when IsIndex() is
// false.
func (k Key) StringID() strpool.ID { return strpool.ID(k.bits) }

// ToString renders the key back to its canonical decimal form (for index
// keys) or its interned text (for string keys).
func (k Key) ToString(pool *strpool.Pool) string {
	if k.IsIndex() {
		return strconv.FormatUint(uint64(k.Index()), 10)
	}
	return pool.Lookup(k.StringID())
}

// ToStringID interns and returns the key's string-id form regardless of
// whether it is an index key, for call sites that need a uniform
// strpool.ID (e.g. building an Arguments length property name).
func (k Key) ToStringID(pool *strpool.Pool) strpool.ID {
	if !k.IsIndex() {
		return k.StringID()
	}
	return pool.Intern(k.ToString(pool))
}

// Equal implements bitwise equality (spec §3: "Equality is bitwise").
func (k Key) Equal(other Key) bool { return k.bits == other.bits }

// Bits exposes the raw packed word, used as a map key by property-map
// side tables (Component E).
func (k Key) Bits() uint64 { return k.bits }

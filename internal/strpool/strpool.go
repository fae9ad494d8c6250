// Package strpool implements the interned-string pool (spec component
// B): an immutable, process-wide table mapping Unicode strings to
// monotonically-assigned 32-bit ids, which double as the property-key
// representation for Component C.
//
// Unlike the C++ original, which can point a NaN-boxed Value directly at
// a GC-managed EsString*, strings here live in a Pool's arena slice and
// Values only ever carry the 32-bit index (see internal/value's package
// doc). lookup(id) is therefore an O(1) slice index rather than the
// "linear search, acceptable because ids are not looked up on the hot
// path" of the original design note in spec §4.B — the slice-backed
// arena gives us the fast path for free without changing the contract.
package strpool

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ID is an interned string identifier; also the string-key form consumed
// by internal/propkey. Defined as an alias for uint32 (rather than a
// distinct named type) so it freely interoperates with internal/value's
// Value payload accessors without explicit conversions at every call
// site — the two packages agree on the wire representation, not just a
// compatible one.
type ID = uint32

type entry struct {
	s    string
	hash uint64
	// runes caches the decoded code points for O(1) length/indexing,
	// the same tradeoff the original makes by storing a counted
	// sequence rather than re-scanning UTF-8 on every access.
	runes []rune
}

// Pool is the interned-string table. Create one with New (the zero value
// has no lookup map and is not ready to use); a Pool from New always
// contains the empty string at id 0, matching the "zero-length strings
// are canonicalized to a single sentinel instance" rule.
type Pool struct {
	entries []entry
	byText  map[string]ID
}

// EmptyID is the id of the canonical zero-length string, always 0.
const EmptyID ID = 0

// New creates a Pool with the empty-string sentinel pre-interned.
func New() *Pool {
	p := &Pool{byText: make(map[string]ID)}
	p.Intern("")
	return p
}

// Intern returns the existing id for s, or assigns and returns the next
// monotonically-increasing id. Unintern is not supported during a run,
// per spec §4.B / §9's open question about unbounded growth — long-lived
// hosts would need an id-recycling generation added on top of this.
func (p *Pool) Intern(s string) ID {
	if id, ok := p.byText[s]; ok {
		return id
	}
	id := ID(len(p.entries))
	p.entries = append(p.entries, entry{s: s, hash: djb2(s), runes: []rune(s)})
	p.byText[s] = id
	return id
}

// Lookup returns the string for id. Panics on an out-of-range id since
// ids are only ever handed out by this Pool.
func (p *Pool) Lookup(id ID) string {
	return p.entries[id].s
}

// Hash returns the cached djb2 hash for id.
func (p *Pool) Hash(id ID) uint64 {
	return p.entries[id].hash
}

// Runes returns the decoded code points for id, used by string-indexing
// and length builtins (Component N).
func (p *Pool) Runes(id ID) []rune {
	return p.entries[id].runes
}

// Len returns the code-point length of the interned string.
func (p *Pool) Len(id ID) int {
	return len(p.entries[id].runes)
}

// Concat interns the concatenation of a and b as a new (or existing)
// string, per "all string concatenation ... return new instances; no
// in-place mutation exists."
func (p *Pool) Concat(a, b ID) ID {
	return p.Intern(p.Lookup(a) + p.Lookup(b))
}

// Slice interns the code-point range [start,end) of id.
func (p *Pool) Slice(id ID, start, end int) ID {
	r := p.entries[id].runes
	if start < 0 {
		start = 0
	}
	if end > len(r) {
		end = len(r)
	}
	if start >= end {
		return EmptyID
	}
	return p.Intern(string(r[start:end]))
}

// ToUpper and ToLower implement the locale-invariant casing DWScript's
// teacher lineage leaves to the standard library; here they use
// golang.org/x/text/cases with language.Und (the "undetermined" locale)
// so casing never silently picks up locale-specific rules ECMAScript's
// String.prototype.toUpperCase/toLowerCase do not specify.
func (p *Pool) ToUpper(id ID) ID {
	return p.Intern(cases.Upper(language.Und).String(p.Lookup(id)))
}

func (p *Pool) ToLower(id ID) ID {
	return p.Intern(cases.Lower(language.Und).String(p.Lookup(id)))
}

// Trim removes leading/trailing ECMAScript whitespace (the spec's
// StrWhiteSpace production: space, tab, line/paragraph separators, BOM,
// and line terminators).
func (p *Pool) Trim(id ID) ID {
	r := p.entries[id].runes
	start := 0
	for start < len(r) && isWhiteSpace(r[start]) {
		start++
	}
	end := len(r)
	for end > start && isWhiteSpace(r[end-1]) {
		end--
	}
	if start == 0 && end == len(r) {
		return id
	}
	return p.Intern(string(r[start:end]))
}

func isWhiteSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', 0xA0, 0xFEFF, '\n', '\r', 0x2028, 0x2029:
		return true
	}
	return r == 0x2000 || (r >= 0x2000 && r <= 0x200A) || r == 0x202F || r == 0x205F || r == 0x3000
}

// djb2 is the cached-hash algorithm mandated by spec §4.B.
func djb2(s string) uint64 {
	var h uint64 = 5381
	for i := 0; i < len(s); i++ {
		h = ((h << 5) + h) + uint64(s[i])
	}
	return h
}

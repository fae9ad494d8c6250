package object

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/strpool"
)

// isIntegerKeyName reports whether k is a string key whose text is a
// canonical non-negative integer (e.g. a property literally named "2"
// on a plain object, as opposed to an index key on the indexed array).
func isIntegerKeyName(pool *strpool.Pool, k propkey.Key) bool {
	if k.IsIndex() {
		return false
	}
	s := pool.Lookup(k.StringID())
	if s == "" {
		return false
	}
	if s == "0" {
		return true
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// sortedIntegerStringKeys returns the subset of keys that are integer
// key names, sorted ascending. ECMAScript mandates plain numeric
// ordering here; rather than hand-roll a numeric-string comparator we
// reuse github.com/maruel/natural's natural-order comparison, which
// orders digit runs numerically and coincides with strict ascending
// order for this restricted "pure digits, no leading zero" key set.
func sortedIntegerStringKeys(pool *strpool.Pool, keys []propkey.Key) []propkey.Key {
	var out []propkey.Key
	for _, k := range keys {
		if isIntegerKeyName(pool, k) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return natural.Less(pool.Lookup(out[i].StringID()), pool.Lookup(out[j].StringID()))
	})
	return out
}

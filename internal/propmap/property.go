// Package propmap implements the per-object property map (spec
// component E): a shape handle plus a stable slot vector, promoting to a
// hash-table side index once the property count passes a fixed
// threshold.
package propmap

import "github.com/cwbudde/esrt/internal/value"

// HashPromoteThreshold is the property count above which a Map
// materializes its hash-table side table, per spec §3 and confirmed
// against original_source/runtime/map.cc. A var rather than a const so
// internal/config can retune it at process start; nothing after
// bootstrap should assign to it.
var HashPromoteThreshold = 10

// Property is either a data property (Value, Writable) or an accessor
// property (Getter, Setter), plus the shared flags.
type Property struct {
	IsAccessor bool

	Data Value

	// Getter and Setter hold object-kind Values (the accessor
	// functions), or value.Undefined when absent.
	Getter value.Value
	Setter value.Value

	Enumerable   bool
	Configurable bool
}

// Value is the data-property payload: a Value plus its writable flag.
type Value struct {
	V        value.Value
	Writable bool
}

// DataProperty constructs an enumerable, writable, configurable data
// property — the default flag set new properties receive per §8.12.5
// step 3 ("true, true, true").
func DataProperty(v value.Value) Property {
	return Property{
		Data:         Value{V: v, Writable: true},
		Enumerable:   true,
		Configurable: true,
	}
}

// Descriptor is a partially-specified property used by define/update
// operations (§8.12.9): any field may be absent.
type Descriptor struct {
	HasValue        bool
	Value           value.Value
	HasWritable     bool
	Writable        bool
	HasGetter       bool
	Getter          value.Value
	HasSetter       bool
	Setter          value.Value
	HasEnumerable   bool
	Enumerable      bool
	HasConfigurable bool
	Configurable    bool
}

// IsDataDescriptor reports whether d specifies [[Value]] or [[Writable]].
func (d Descriptor) IsDataDescriptor() bool { return d.HasValue || d.HasWritable }

// IsAccessorDescriptor reports whether d specifies [[Get]] or [[Set]].
func (d Descriptor) IsAccessorDescriptor() bool { return d.HasGetter || d.HasSetter }

// IsGeneric reports whether d specifies neither data nor accessor
// fields (only the shared flags, or nothing at all).
func (d Descriptor) IsGeneric() bool { return !d.IsDataDescriptor() && !d.IsAccessorDescriptor() }

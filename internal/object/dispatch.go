package object

import (
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
)

// classOverrides holds the subset of MOP operations a subkind replaces;
// nil fields fall back to the generic algorithm. This is the "explicit
// per-kind functions chosen by a dispatch table" approach spec §9 asks
// for in place of virtual method overrides.
type classOverrides struct {
	getOwn    func(o *Object, key propkey.Key) (propmap.Property, bool, bool) // (prop, present, handled)
	put       func(o *Object, h *Heap, key propkey.Key, v value.Value, throws bool, setterCall func(value.Value, value.Value, []value.Value) error) error
	delete    func(o *Object, h *Heap, key propkey.Key, throws bool) (bool, error)
	defineOwn func(o *Object, h *Heap, key propkey.Key, desc propmap.Descriptor, throws bool) (bool, error)
}

var dispatchTable = map[ClassTag]*classOverrides{
	ClassArray:     {getOwn: arrayGetOwnProperty, defineOwn: arrayDefineOwnProperty},
	ClassArguments: {getOwn: argumentsGetOwnProperty, put: argumentsPut, delete: argumentsDelete, defineOwn: argumentsDefineOwnProperty},
}

func dispatchFor(c ClassTag) *classOverrides {
	return dispatchTable[c]
}

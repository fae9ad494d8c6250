package object

import (
	"regexp"

	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/propmap"
	"github.com/cwbudde/esrt/internal/value"
)

// RegExpData is the RegExp subkind's payload. Compiled holds the Go
// regexp translated from the ECMAScript pattern at construction time;
// DESIGN.md records why this is the one place the runtime falls back to
// the standard library instead of a pack dependency (no example repo or
// retrieval-pack library implements ECMAScript regex syntax — backtracking
// semantics, backreferences — so translating to RE2 syntax via Go's
// regexp/syntax is the closest available approximation).
type RegExpData struct {
	Source     string
	Flags      string
	Global     bool
	IgnoreCase bool
	Multiline  bool
	Compiled   *regexp.Regexp
	LastIndex  int
}

// NewRegExp allocates a RegExp object with the standard "source",
// "global", "ignoreCase", "multiline" and "lastIndex" own properties.
func (h *Heap) NewRegExp(proto value.Value, data *RegExpData) value.Value {
	o := h.NewWithRoot(proto, ClassRegExp, h.RootFor(ClassRegExp))
	o.RegExp = data

	readonly := func(v value.Value) propmap.Property {
		return propmap.Property{Data: propmap.Value{V: v, Writable: false}, Enumerable: false, Configurable: false}
	}
	o.Props.Add(h.pool, propkey.FromStringID(h.pool.Intern("source")), readonly(value.FromStringID(h.pool.Intern(data.Source))))
	o.Props.Add(h.pool, propkey.FromStringID(h.pool.Intern("global")), readonly(value.FromBool(data.Global)))
	o.Props.Add(h.pool, propkey.FromStringID(h.pool.Intern("ignoreCase")), readonly(value.FromBool(data.IgnoreCase)))
	o.Props.Add(h.pool, propkey.FromStringID(h.pool.Intern("multiline")), readonly(value.FromBool(data.Multiline)))
	o.Props.Add(h.pool, propkey.FromStringID(h.pool.Intern("lastIndex")),
		propmap.Property{Data: propmap.Value{V: value.FromI64(int64(data.LastIndex)), Writable: true}, Enumerable: false, Configurable: false})
	return o.AsValue()
}

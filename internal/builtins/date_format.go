package builtins

import (
	"fmt"
	"time"

	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/value"
)

// Date string conversions (ES5 §15.9.5.2-.10, §15.9.4.2, §15.9.5.43-.44).
// Grounded on the teacher's DateTimeToStr/FormatDateTime family
// (datetime_format.go, since removed), which built its output with
// Go's time.Format layouts rather than hand-rolled digit formatting —
// kept that approach, substituting ES5's fixed ISO-8601/RFC-1123-ish
// layouts for DWScript's user-configurable format strings.
const (
	isoLayout = "2006-01-02T15:04:05.000Z"
	utcLayout = "Mon, 02 Jan 2006 15:04:05 GMT"
)

func installDateFormat(e *evaluator.Evaluator) {
	proto := e.Protos[object.ClassDate]

	thisTime := func(h *object.Heap, this value.Value) (time.Time, error) {
		if !this.IsObject() || h.Resolve(this).Class != object.ClassDate {
			return time.Time{}, h.Throw("TypeError", "Date method called on non-Date")
		}
		return dateTimeOf(h.Resolve(this).DateMS), nil
	}

	format := func(name string, layout string) {
		method(e, proto, name, 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			t, err := thisTime(h, this)
			if err != nil {
				return value.Undefined, err
			}
			return value.FromStringID(h.Pool().Intern(t.Format(layout))), nil
		})
	}
	format("toISOString", isoLayout)
	format("toUTCString", utcLayout)
	format("toGMTString", utcLayout)
	format("toString", utcLayout)
	format("toDateString", "Mon Jan 02 2006")
	format("toTimeString", "15:04:05 GMT+0000")
	format("toLocaleDateString", "Mon Jan 02 2006")
	format("toLocaleTimeString", "15:04:05")
	format("toLocaleString", utcLayout)

	method(e, proto, "toJSON", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		t, err := thisTime(h, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromStringID(h.Pool().Intern(t.Format(isoLayout))), nil
	})
}

// parseDate implements a Date.parse approximation (ES5 §15.9.4.2): the
// spec leaves most string formats implementation-defined, so this
// accepts the ISO-8601 variant toISOString produces plus a handful of
// common RFC layouts, erroring on anything else rather than guessing.
func parseDate(s string) (float64, error) {
	layouts := []string{
		isoLayout,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		time.RFC1123,
		utcLayout,
		"2006-01-02",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return msOf(t.UTC()), nil
		}
	}
	return 0, fmt.Errorf("unrecognized date format: %q", s)
}

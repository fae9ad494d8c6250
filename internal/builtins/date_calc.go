package builtins

import (
	"math"
	"time"

	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
)

// Date arithmetic: the Date constructor plus the get*/set* component
// accessors (ES5 §15.9.5). Grounded on the teacher's EncodeDate/
// EncodeTime/IncYear/IncMonth/DaysBetween family (datetime_calc.go,
// since removed), which already centered all date math on converting
// to/from a single numeric timestamp via the standard library's time
// package — kept that "one numeric representation, time.Time only as a
// scratch conversion" shape, replacing DWScript's OLE-epoch TDateTime
// float with ES5's milliseconds-since-1970-UTC Date internal value.

func dateTimeOf(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

func msOf(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func installDate(e *evaluator.Evaluator) {
	proto := e.Protos[object.ClassDate]

	thisMS := func(h *object.Heap, this value.Value) (float64, error) {
		if !this.IsObject() || h.Resolve(this).Class != object.ClassDate {
			return 0, h.Throw("TypeError", "Date method called on non-Date")
		}
		return h.Resolve(this).DateMS, nil
	}

	method(e, proto, "getTime", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		ms, err := thisMS(h, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromNumber(ms), nil
	})
	method(e, proto, "valueOf", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		ms, err := thisMS(h, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromNumber(ms), nil
	})
	method(e, proto, "setTime", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		if _, err := thisMS(h, this); err != nil {
			return value.Undefined, err
		}
		n, err := ops.ToNumber(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		h.Resolve(this).DateMS = n
		return value.FromNumber(n), nil
	})

	component := func(name string, get func(time.Time) int) {
		method(e, proto, name, 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			ms, err := thisMS(h, this)
			if err != nil {
				return value.Undefined, err
			}
			return value.FromI64(int64(get(dateTimeOf(ms)))), nil
		})
	}
	component("getFullYear", func(t time.Time) int { return t.Year() })
	component("getMonth", func(t time.Time) int { return int(t.Month()) - 1 })
	component("getDate", func(t time.Time) int { return t.Day() })
	component("getDay", func(t time.Time) int { return int(t.Weekday()) })
	component("getHours", func(t time.Time) int { return t.Hour() })
	component("getMinutes", func(t time.Time) int { return t.Minute() })
	component("getSeconds", func(t time.Time) int { return t.Second() })
	component("getMilliseconds", func(t time.Time) int { return t.Nanosecond() / 1e6 })
	// This runtime carries no host timezone (Non-goal-adjacent per the
	// original's time-zone database dependency), so the UTC and local
	// accessor families coincide.
	component("getUTCFullYear", func(t time.Time) int { return t.Year() })
	component("getUTCMonth", func(t time.Time) int { return int(t.Month()) - 1 })
	component("getUTCDate", func(t time.Time) int { return t.Day() })
	component("getUTCDay", func(t time.Time) int { return int(t.Weekday()) })
	component("getUTCHours", func(t time.Time) int { return t.Hour() })
	component("getUTCMinutes", func(t time.Time) int { return t.Minute() })
	component("getUTCSeconds", func(t time.Time) int { return t.Second() })

	setComponent := func(name string, apply func(t time.Time, n int) time.Time) {
		method(e, proto, name, 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			ms, err := thisMS(h, this)
			if err != nil {
				return value.Undefined, err
			}
			n, err := ops.ToNumber(h, arg(args, 0), e)
			if err != nil {
				return value.Undefined, err
			}
			t := apply(dateTimeOf(ms), int(n))
			newMS := msOf(t)
			h.Resolve(this).DateMS = newMS
			return value.FromNumber(newMS), nil
		})
	}
	setComponent("setFullYear", func(t time.Time, n int) time.Time {
		return time.Date(n, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	setComponent("setMonth", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), time.Month(n+1), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	setComponent("setDate", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), t.Month(), n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	setComponent("setHours", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), n, t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	setComponent("setMinutes", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), n, t.Second(), t.Nanosecond(), time.UTC)
	})
	setComponent("setSeconds", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), n, t.Nanosecond(), time.UTC)
	})

	ctorData := &object.FunctionData{
		Name:     "Date",
		IsNative: true,
		NativeFn: func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
			switch len(args) {
			case 0:
				return h.NewDate(e.Protos[object.ClassDate], msOf(time.Now().UTC())), nil
			case 1:
				if args[0].IsString() {
					ms, err := parseDate(h.Pool().Lookup(args[0].AsStringID()))
					if err != nil {
						return h.NewDate(e.Protos[object.ClassDate], math.NaN()), nil
					}
					return h.NewDate(e.Protos[object.ClassDate], ms), nil
				}
				n, err := ops.ToNumber(h, args[0], e)
				if err != nil {
					return value.Undefined, err
				}
				return h.NewDate(e.Protos[object.ClassDate], n), nil
			default:
				ymd := make([]int, 7)
				for i := 0; i < 7 && i < len(args); i++ {
					n, err := ops.ToNumber(h, args[i], e)
					if err != nil {
						return value.Undefined, err
					}
					ymd[i] = int(n)
				}
				if len(args) <= 2 {
					ymd[2] = 1
				}
				t := time.Date(ymd[0], time.Month(ymd[1]+1), ymd[2], ymd[3], ymd[4], ymd[5], ymd[6]*1e6, time.UTC)
				return h.NewDate(e.Protos[object.ClassDate], msOf(t)), nil
			}
		},
		Constructable: true,
	}
	ctor := e.Heap.NewFunction(e.Protos[object.ClassFunction], ctorData, 7)
	linkConstructor(e, ctor, proto)
	defineGlobal(e, "Date", ctor)

	method(e, ctor, "now", 0, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		return value.FromNumber(msOf(time.Now().UTC())), nil
	})
	method(e, ctor, "parse", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		sv, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		ms, err := parseDate(h.Pool().Lookup(sv.AsStringID()))
		if err != nil {
			return value.FromNumber(math.NaN()), nil
		}
		return value.FromNumber(ms), nil
	})
}

package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/match"

	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/value"
)

// unreservedGlob is the glob class matching ES5 §15.1.3's uriUnescaped
// set (letters, digits, and - _ . ! ~ * ' ( )) — tidwall/match's
// bracket-class support lets escape and the encodeURI/encodeURIComponent
// encoders test membership with one
// Match call per rune instead of a hand-rolled switch.
const unreservedGlob = "[A-Za-z0-9\\-_.!~*'()]"

// installGlobals wires the free-standing global functions ES5 §15.1.2
// specifies: isNaN, isFinite, parseInt, parseFloat, and the URI/escape
// family. Grounded on the teacher's global built-in function
// registration (plain functions hung directly off the global
// environment, no owning prototype) rather than the prototype-method
// pattern the rest of this package otherwise follows.
func installGlobals(e *evaluator.Evaluator) {
	globalFunc(e, "isNaN", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		n, err := ops.ToNumber(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromBool(math.IsNaN(n)), nil
	})

	globalFunc(e, "isFinite", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		n, err := ops.ToNumber(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromBool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	})

	globalFunc(e, "parseInt", 2, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		sv, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		s := strings.TrimSpace(h.Pool().Lookup(sv.AsStringID()))
		radix := 10
		if r := arg(args, 1); !r.IsUndefined() {
			rn, err := ops.ToInteger(h, r, e)
			if err != nil {
				return value.Undefined, err
			}
			radix = int(rn)
		}
		neg := false
		if strings.HasPrefix(s, "+") {
			s = s[1:]
		} else if strings.HasPrefix(s, "-") {
			neg = true
			s = s[1:]
		}
		if radix == 0 {
			radix = 10
		}
		if (radix == 16 || radix == 0) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
			s = s[2:]
			radix = 16
		}
		end := 0
		for end < len(s) && digitValue(s[end]) < radix {
			end++
		}
		if end == 0 {
			return value.FromNumber(math.NaN()), nil
		}
		n, err := strconv.ParseInt(s[:end], radix, 64)
		if err != nil {
			return value.FromNumber(math.NaN()), nil
		}
		if neg {
			n = -n
		}
		return value.FromNumber(float64(n)), nil
	})

	globalFunc(e, "parseFloat", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		sv, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		s := strings.TrimSpace(h.Pool().Lookup(sv.AsStringID()))
		end := len(s)
		for end > 0 {
			if _, err := strconv.ParseFloat(s[:end], 64); err == nil {
				break
			}
			end--
		}
		if end == 0 {
			return value.FromNumber(math.NaN()), nil
		}
		n, _ := strconv.ParseFloat(s[:end], 64)
		return value.FromNumber(n), nil
	})

	globalFunc(e, "encodeURIComponent", 1, uriEncoder(e, "-_.!~*'()"))
	globalFunc(e, "encodeURI", 1, uriEncoder(e, "-_.!~*'();/?:@&=+$,#"))
	globalFunc(e, "decodeURIComponent", 1, uriDecoder(e))
	globalFunc(e, "decodeURI", 1, uriDecoder(e))

	globalFunc(e, "escape", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		sv, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		s := h.Pool().Lookup(sv.AsStringID())
		var b strings.Builder
		for _, r := range s {
			if r < 0x80 && match.Match(string(r), unreservedGlob) {
				b.WriteRune(r)
				continue
			}
			if r < 0x100 {
				b.WriteString("%" + strings.ToUpper(strconv.FormatInt(int64(r), 16)))
			} else {
				b.WriteString("%u" + strings.ToUpper(pad4(strconv.FormatInt(int64(r), 16))))
			}
		}
		return value.FromStringID(h.Pool().Intern(b.String())), nil
	})

	globalFunc(e, "unescape", 1, func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		sv, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		s := h.Pool().Lookup(sv.AsStringID())
		var b strings.Builder
		for i := 0; i < len(s); {
			if s[i] == '%' && i+1 < len(s) && s[i+1] == 'u' && i+6 <= len(s) {
				n, err := strconv.ParseInt(s[i+2:i+6], 16, 32)
				if err == nil {
					b.WriteRune(rune(n))
					i += 6
					continue
				}
			}
			if s[i] == '%' && i+3 <= len(s) {
				n, err := strconv.ParseInt(s[i+1:i+3], 16, 32)
				if err == nil {
					b.WriteRune(rune(n))
					i += 3
					continue
				}
			}
			b.WriteByte(s[i])
			i++
		}
		return value.FromStringID(h.Pool().Intern(b.String())), nil
	})
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}

func pad4(s string) string {
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

// uriEncoder returns a native implementing the shared structure of
// encodeURI/encodeURIComponent (ES5 §15.1.3.3-.4): percent-encode every
// byte of a rune's UTF-8 form except the unreserved set plus extraReserved.
func uriEncoder(e *evaluator.Evaluator, extraReserved string) object.Native {
	return func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		sv, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		s := h.Pool().Lookup(sv.AsStringID())
		var b strings.Builder
		for _, r := range s {
			if match.Match(string(r), unreservedGlob) || strings.ContainsRune(extraReserved, r) {
				b.WriteRune(r)
				continue
			}
			for _, by := range []byte(string(r)) {
				b.WriteString("%" + strings.ToUpper(pad2(strconv.FormatInt(int64(by), 16))))
			}
		}
		return value.FromStringID(h.Pool().Intern(b.String())), nil
	}
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func uriDecoder(e *evaluator.Evaluator) object.Native {
	return func(h *object.Heap, this value.Value, args []value.Value) (value.Value, error) {
		sv, err := ops.ToStringValue(h, arg(args, 0), e)
		if err != nil {
			return value.Undefined, err
		}
		s := h.Pool().Lookup(sv.AsStringID())
		var out []byte
		for i := 0; i < len(s); {
			if s[i] == '%' && i+3 <= len(s) {
				n, err := strconv.ParseInt(s[i+1:i+3], 16, 16)
				if err != nil {
					return value.Undefined, h.Throw("URIError", "malformed URI sequence")
				}
				out = append(out, byte(n))
				i += 3
				continue
			}
			out = append(out, s[i])
			i++
		}
		return value.FromStringID(h.Pool().Intern(string(out))), nil
	}
}

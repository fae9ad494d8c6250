package evaluator

import (
	"regexp"
	"strings"

	"github.com/cwbudde/esrt/internal/object"
)

// compileRegExp translates an ECMAScript /pattern/flags literal into Go's
// RE2-based regexp.Regexp. RE2 cannot express backreferences or
// lookahead/lookbehind; patterns using them fail to compile here rather
// than falling back to a backtracking engine, a known gap recorded in
// DESIGN.md alongside the stdlib-regexp justification in
// internal/object/regexp.go.
// CompileRegExp is compileRegExp's exported form, used by the RegExp
// constructor binding (component N) to share one translation path
// between regexp literals the evaluator encounters inline and `new
// RegExp(pattern, flags)` calls.
func CompileRegExp(pattern, flags string) (*object.RegExpData, error) {
	return compileRegExp(pattern, flags)
}

func compileRegExp(pattern, flags string) (*object.RegExpData, error) {
	global := strings.Contains(flags, "g")
	ignoreCase := strings.Contains(flags, "i")
	multiline := strings.Contains(flags, "m")

	goPattern := pattern
	var inlineFlags string
	if ignoreCase {
		inlineFlags += "i"
	}
	if multiline {
		inlineFlags += "m"
	}
	if inlineFlags != "" {
		goPattern = "(?" + inlineFlags + ")" + goPattern
	}
	compiled, err := regexp.Compile(goPattern)
	if err != nil {
		return nil, err
	}
	return &object.RegExpData{
		Source:     pattern,
		Flags:      flags,
		Global:     global,
		IgnoreCase: ignoreCase,
		Multiline:  multiline,
		Compiled:   compiled,
	}, nil
}

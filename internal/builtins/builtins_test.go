package builtins

import (
	"testing"

	"github.com/cwbudde/esrt/internal/bootstrap"
	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/pkg/ast"
)

func run(t *testing.T, src string) (*evaluator.Evaluator, float64, string, bool) {
	t.Helper()
	e := bootstrap.New()
	Install(e)
	prog, err := ast.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result, err := e.Run(prog)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var n float64
	var s string
	var b bool
	if result.IsNumber() {
		n = result.AsNumber()
	}
	if result.IsString() {
		s = e.Heap.Pool().Lookup(result.AsStringID())
	}
	if result.IsBoolean() {
		b = result.AsBoolean()
	}
	return e, n, s, b
}

func expr(e string) string {
	return `{"body": [{"type": "ExpressionStatement", "expression": ` + e + `}]}`
}

func call(object, method string, args ...string) string {
	argsJSON := "["
	for i, a := range args {
		if i > 0 {
			argsJSON += ","
		}
		argsJSON += a
	}
	argsJSON += "]"
	return `{"type": "CallExpression", "callee": {"type": "MemberExpression", "computed": false,
		"object": ` + object + `, "property": {"type": "Identifier", "name": "` + method + `"}},
		"arguments": ` + argsJSON + `}`
}

func num(n string) string    { return `{"type": "NumberLiteral", "value": ` + n + `}` }
func str(s string) string    { return `{"type": "StringLiteral", "value": "` + s + `"}` }
func ident(name string) string { return `{"type": "Identifier", "name": "` + name + `"}` }

func TestMathFloor(t *testing.T) {
	_, n, _, _ := run(t, expr(call(ident("Math"), "floor", num("3.7"))))
	if n != 3 {
		t.Fatalf("expected 3, got %v", n)
	}
}

func TestMathMaxVariadic(t *testing.T) {
	_, n, _, _ := run(t, expr(call(ident("Math"), "max", num("1"), num("9"), num("4"))))
	if n != 9 {
		t.Fatalf("expected 9, got %v", n)
	}
}

func TestStringToUpperCase(t *testing.T) {
	_, _, s, _ := run(t, expr(call(str("abc"), "toUpperCase")))
	if s != "ABC" {
		t.Fatalf("expected ABC, got %q", s)
	}
}

func TestStringSplitAndArrayJoin(t *testing.T) {
	src := `{"body": [
		{"type": "VariableStatement", "declarations": [{"name": "parts", "init": ` +
		call(str("a,b,c"), "split", str(",")) + `}]},
		{"type": "ExpressionStatement", "expression": ` + call(ident("parts"), "join", str("-")) + `}
	]}`
	_, _, s, _ := run(t, src)
	if s != "a-b-c" {
		t.Fatalf("expected a-b-c, got %q", s)
	}
}

func TestArrayPushPop(t *testing.T) {
	src := `{"body": [
		{"type": "VariableStatement", "declarations": [{"name": "a", "init": {"type": "ArrayLiteral", "elements": [` + num("1") + `, ` + num("2") + `]}}]},
		{"type": "ExpressionStatement", "expression": ` + call(ident("a"), "push", num("3")) + `},
		{"type": "ExpressionStatement", "expression": ` + call(ident("a"), "pop") + `}
	]}`
	_, n, _, _ := run(t, src)
	if n != 3 {
		t.Fatalf("expected 3, got %v", n)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	src := `{"body": [
		{"type": "VariableStatement", "declarations": [{"name": "o", "init": ` +
		call(ident("JSON"), "parse", str(`{\"x\":1,\"y\":[2,3]}`)) + `}]},
		{"type": "ExpressionStatement", "expression": ` + call(ident("JSON"), "stringify", ident("o")) + `}
	]}`
	_, _, s, _ := run(t, src)
	if s != `{"x":1,"y":[2,3]}` {
		t.Fatalf("unexpected stringify output: %q", s)
	}
}

func TestDateGetFullYear(t *testing.T) {
	src := `{"body": [
		{"type": "VariableStatement", "declarations": [{"name": "d", "init": {"type": "NewExpression",
			"callee": ` + ident("Date") + `, "arguments": [` + num("2020") + `, ` + num("0") + `, ` + num("15") + `]}}]},
		{"type": "ExpressionStatement", "expression": ` + call(ident("d"), "getFullYear") + `}
	]}`
	_, n, _, _ := run(t, src)
	if n != 2020 {
		t.Fatalf("expected 2020, got %v", n)
	}
}

func TestRegExpTest(t *testing.T) {
	src := `{"body": [
		{"type": "VariableStatement", "declarations": [{"name": "re", "init": {"type": "RegExpLiteral", "pattern": "^[0-9]+$", "flags": ""}}]},
		{"type": "ExpressionStatement", "expression": ` + call(ident("re"), "test", str("12345")) + `}
	]}`
	_, _, _, b := run(t, src)
	if !b {
		t.Fatalf("expected /^[0-9]+$/ to match \"12345\"")
	}
}

func TestStringReplaceWithRegExp(t *testing.T) {
	src := `{"body": [
		{"type": "VariableStatement", "declarations": [{"name": "re", "init": {"type": "RegExpLiteral", "pattern": "o", "flags": "g"}}]},
		{"type": "ExpressionStatement", "expression": ` + call(str("foo bar boo"), "replace", ident("re"), str("0")) + `}
	]}`
	_, _, s, _ := run(t, src)
	if s != "f00 bar b00" {
		t.Fatalf("expected f00 bar b00, got %q", s)
	}
}

func TestParseInt(t *testing.T) {
	_, n, _, _ := run(t, expr(`{"type": "CallExpression", "callee": `+ident("parseInt")+`, "arguments": [`+str("42px")+`]}`))
	if n != 42 {
		t.Fatalf("expected 42, got %v", n)
	}
}

func TestIsNaN(t *testing.T) {
	_, _, _, b := run(t, expr(`{"type": "CallExpression", "callee": `+ident("isNaN")+`, "arguments": [`+str("abc")+`]}`))
	if !b {
		t.Fatalf("expected isNaN(\"abc\") to be true")
	}
}

func TestTypeErrorConstructorMessage(t *testing.T) {
	src := `{"body": [
		{"type": "VariableStatement", "declarations": [{"name": "e", "init": {"type": "NewExpression",
			"callee": ` + ident("TypeError") + `, "arguments": [` + str("bad") + `]}}]},
		{"type": "ExpressionStatement", "expression": ` + call(ident("e"), "toString") + `}
	]}`
	_, _, s, _ := run(t, src)
	if s != "TypeError: bad" {
		t.Fatalf("expected \"TypeError: bad\", got %q", s)
	}
}

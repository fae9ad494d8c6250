package engine

import (
	"fmt"
	"testing"

	"github.com/cwbudde/esrt/internal/config"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
	"github.com/gkampitakis/go-snaps/snaps"
)

func mustDecode(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ast.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return prog
}

func renderResult(v value.Value) string {
	switch {
	case v.IsNumber():
		return fmt.Sprintf("number:%g", v.AsNumber())
	case v.IsBoolean():
		return fmt.Sprintf("boolean:%v", v.AsBoolean())
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "null"
	default:
		return v.Kind().String()
	}
}

// canonicalPrograms is the snapshot corpus drawn from SPEC_FULL.md §5.4:
// ordinary arithmetic and a sparse-array boundary (element far past the
// compact region, forcing the sparse representation).
var canonicalPrograms = map[string]string{
	"arithmetic": `{"body":[
		{"type":"VariableStatement","declarations":[{"name":"x","init":{"type":"NumberLiteral","value":2}}]},
		{"type":"ExpressionStatement","expression":{"type":"BinaryExpression","operator":"*",
			"left":{"type":"Identifier","name":"x"},"right":{"type":"NumberLiteral","value":21}}}
	]}`,
	"sparse_array_boundary": `{"body":[
		{"type":"VariableStatement","declarations":[{"name":"a","init":{"type":"ArrayLiteral","elements":[]}}]},
		{"type":"ExpressionStatement","expression":{"type":"AssignmentExpression","operator":"=",
			"target":{"type":"MemberExpression","object":{"type":"Identifier","name":"a"},
				"property":{"type":"NumberLiteral","value":100000},"computed":true},
			"value":{"type":"NumberLiteral","value":7}}},
		{"type":"ExpressionStatement","expression":{"type":"MemberExpression",
			"object":{"type":"Identifier","name":"a"},"property":{"type":"StringLiteral","value":"length"},"computed":true}}
	]}`,
}

func TestEngineRunCanonicalPrograms(t *testing.T) {
	for name, src := range canonicalPrograms {
		t.Run(name, func(t *testing.T) {
			e := New(config.Default())
			result, err := e.Run(mustDecode(t, src))
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			snaps.MatchSnapshot(t, renderResult(result))
		})
	}
}

func TestEngineCacheStatsTracksRepeatedAccess(t *testing.T) {
	e := New(config.Default())
	src := `{"body":[
		{"type":"VariableStatement","declarations":[{"name":"o","init":
			{"type":"ObjectLiteral","properties":[{"key":{"type":"Identifier","name":"x"},"value":{"type":"NumberLiteral","value":0},"kind":"init"}]}}]},
		{"type":"ForStatement",
			"init":{"type":"VariableStatement","declarations":[{"name":"i","init":{"type":"NumberLiteral","value":0}}]},
			"test":{"type":"BinaryExpression","operator":"<","left":{"type":"Identifier","name":"i"},"right":{"type":"NumberLiteral","value":50}},
			"update":{"type":"AssignmentExpression","operator":"=","target":{"type":"Identifier","name":"i"},
				"value":{"type":"BinaryExpression","operator":"+","left":{"type":"Identifier","name":"i"},"right":{"type":"NumberLiteral","value":1}}},
			"body":{"type":"BlockStatement","body":[
				{"type":"ExpressionStatement","expression":
					{"type":"AssignmentExpression","operator":"=",
					 "target":{"type":"MemberExpression","object":{"type":"Identifier","name":"o"},"property":{"type":"Identifier","name":"x"},"computed":false},
					 "value":{"type":"BinaryExpression","operator":"+",
						"left":{"type":"MemberExpression","object":{"type":"Identifier","name":"o"},"property":{"type":"Identifier","name":"x"},"computed":false},
						"right":{"type":"NumberLiteral","value":1}}}}
			]}}
	]}`
	if _, err := e.Run(mustDecode(t, src)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	_, _, propHits, _ := e.CacheStats()
	if propHits == 0 {
		t.Fatalf("expected repeated o.x access to produce property cache hits, got 0")
	}
}

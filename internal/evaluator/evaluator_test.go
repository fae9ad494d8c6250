package evaluator

import (
	"testing"

	"github.com/cwbudde/esrt/internal/env"
	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/strpool"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	h := object.NewHeap(strpool.New())
	global := h.NewPlainObject(value.Null)
	globalEnv := env.NewObjectEnvironment(h, global, nil, false)
	e := New(h, global, globalEnv)
	e.Protos[object.ClassObject] = value.Null
	e.Protos[object.ClassArray] = value.Null
	e.Protos[object.ClassFunction] = value.Null
	return e
}

func mustDecode(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ast.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return prog
}

func TestRunVarAndArithmetic(t *testing.T) {
	e := newTestEvaluator(t)
	prog := mustDecode(t, `{"body": [
		{"type": "VariableStatement", "declarations": [{"name": "x", "init": {"type": "NumberLiteral", "value": 2}}]},
		{"type": "ExpressionStatement", "expression": {
			"type": "BinaryExpression", "operator": "+",
			"left": {"type": "Identifier", "name": "x"},
			"right": {"type": "NumberLiteral", "value": 3}
		}}
	]}`)
	result, err := e.Run(prog)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.IsNumber() || result.AsNumber() != 5 {
		t.Fatalf("expected 5, got %v", result)
	}
}

func TestRunFunctionCallAndClosure(t *testing.T) {
	e := newTestEvaluator(t)
	prog := mustDecode(t, `{"body": [
		{"type": "FunctionDeclaration", "name": "add", "params": ["a", "b"], "body": [
			{"type": "ReturnStatement", "argument": {
				"type": "BinaryExpression", "operator": "+",
				"left": {"type": "Identifier", "name": "a"},
				"right": {"type": "Identifier", "name": "b"}
			}}
		]},
		{"type": "ExpressionStatement", "expression": {
			"type": "CallExpression",
			"callee": {"type": "Identifier", "name": "add"},
			"arguments": [{"type": "NumberLiteral", "value": 4}, {"type": "NumberLiteral", "value": 5}]
		}}
	]}`)
	result, err := e.Run(prog)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.IsNumber() || result.AsNumber() != 9 {
		t.Fatalf("expected 9, got %v", result)
	}
}

func TestRunIfElseAndLoop(t *testing.T) {
	e := newTestEvaluator(t)
	prog := mustDecode(t, `{"body": [
		{"type": "VariableStatement", "declarations": [{"name": "sum", "init": {"type": "NumberLiteral", "value": 0}}]},
		{"type": "VariableStatement", "declarations": [{"name": "i", "init": {"type": "NumberLiteral", "value": 0}}]},
		{"type": "ForStatement",
			"init": {"type": "AssignmentExpression", "operator": "=",
				"target": {"type": "Identifier", "name": "i"}, "value": {"type": "NumberLiteral", "value": 0}},
			"test": {"type": "BinaryExpression", "operator": "<",
				"left": {"type": "Identifier", "name": "i"}, "right": {"type": "NumberLiteral", "value": 5}},
			"update": {"type": "UpdateExpression", "operator": "++", "prefix": false,
				"argument": {"type": "Identifier", "name": "i"}},
			"body": {"type": "ExpressionStatement", "expression": {
				"type": "AssignmentExpression", "operator": "+=",
				"target": {"type": "Identifier", "name": "sum"},
				"value": {"type": "Identifier", "name": "i"}
			}}
		},
		{"type": "ExpressionStatement", "expression": {"type": "Identifier", "name": "sum"}}
	]}`)
	result, err := e.Run(prog)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.IsNumber() || result.AsNumber() != 10 {
		t.Fatalf("expected 10 (0+1+2+3+4), got %v", result)
	}
}

func TestTryCatchCatchesThrow(t *testing.T) {
	e := newTestEvaluator(t)
	prog := mustDecode(t, `{"body": [
		{"type": "TryStatement",
			"block": {"type": "BlockStatement", "body": [
				{"type": "ThrowStatement", "argument": {"type": "StringLiteral", "value": "boom"}}
			]},
			"handler": {"param": "e", "body": {"type": "BlockStatement", "body": [
				{"type": "ExpressionStatement", "expression": {"type": "Identifier", "name": "e"}}
			]}}
		}
	]}`)
	result, err := e.Run(prog)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.IsString() || e.Heap.Pool().Lookup(result.AsStringID()) != "boom" {
		t.Fatalf("expected caught value \"boom\", got %v", result)
	}
}

package ast

import "testing"

func TestDecodeSimpleProgram(t *testing.T) {
	src := `{"body": [
		{"type": "VariableStatement", "declarations": [
			{"name": "x", "init": {"type": "NumberLiteral", "value": 42}}
		]},
		{"type": "ExpressionStatement", "expression": {
			"type": "BinaryExpression", "operator": "+",
			"left": {"type": "Identifier", "name": "x"},
			"right": {"type": "NumberLiteral", "value": 1}
		}}
	]}`
	prog, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Body))
	}
	varStmt, ok := prog.Body[0].(*VariableStatement)
	if !ok || len(varStmt.Declarations) != 1 || varStmt.Declarations[0].Name != "x" {
		t.Fatalf("unexpected first statement: %#v", prog.Body[0])
	}
	exprStmt, ok := prog.Body[1].(*ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %#v", prog.Body[1])
	}
	bin, ok := exprStmt.Expression.(*BinaryExpression)
	if !ok || bin.Operator != BinaryAdd {
		t.Fatalf("unexpected expression: %#v", exprStmt.Expression)
	}
}

func TestDecodeFunctionDeclarationAndTryCatch(t *testing.T) {
	src := `{"body": [
		{"type": "FunctionDeclaration", "name": "f", "params": ["a", "a"], "body": [
			{"type": "ReturnStatement", "argument": {"type": "Identifier", "name": "a"}}
		]},
		{"type": "TryStatement",
			"block": {"type": "BlockStatement", "body": [
				{"type": "ThrowStatement", "argument": {"type": "StringLiteral", "value": "boom"}}
			]},
			"handler": {"param": "e", "body": {"type": "BlockStatement", "body": []}}
		}
	]}`
	prog, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	fd, ok := prog.Body[0].(*FunctionDeclaration)
	if !ok || fd.Function.Name != "f" || len(fd.Function.Params) != 2 {
		t.Fatalf("unexpected function declaration: %#v", prog.Body[0])
	}
	try, ok := prog.Body[1].(*TryStatement)
	if !ok || try.Handler == nil || try.Handler.Param != "e" {
		t.Fatalf("unexpected try statement: %#v", prog.Body[1])
	}
}

func TestDecodeForStatementWithVarInit(t *testing.T) {
	src := `{"body": [
		{"type": "ForStatement",
			"init": {"type": "VariableStatement", "declarations": [
				{"name": "i", "init": {"type": "NumberLiteral", "value": 0}}
			]},
			"test": {"type": "BinaryExpression", "operator": "<",
				"left": {"type": "Identifier", "name": "i"},
				"right": {"type": "NumberLiteral", "value": 10}},
			"update": {"type": "UpdateExpression", "operator": "++", "prefix": false,
				"argument": {"type": "Identifier", "name": "i"}},
			"body": {"type": "EmptyStatement"}
		}
	]}`
	prog, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	forStmt, ok := prog.Body[0].(*ForStatement)
	if !ok {
		t.Fatalf("expected ForStatement, got %#v", prog.Body[0])
	}
	if _, ok := forStmt.Init.(*VariableStatement); !ok {
		t.Fatalf("expected Init to decode as VariableStatement, got %#v", forStmt.Init)
	}
}

func TestDecodeUnknownTypeFails(t *testing.T) {
	_, err := Decode([]byte(`{"body": [{"type": "NotARealNode"}]}`))
	if err == nil {
		t.Fatalf("expected decode of unknown node type to fail")
	}
}

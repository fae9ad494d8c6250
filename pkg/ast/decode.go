package ast

import (
	"encoding/json"
	"fmt"
)

// Programs reach this runtime as JSON, not source text (parsing is out
// of scope per the spec this runtime implements — see SPEC_FULL.md
// §2.5). Each node is a JSON object with a "type" discriminator field
// naming one of the Go type names in expressions.go/statements.go;
// Decode dispatches on it the way every JS-AST-over-JSON tool does
// (ESTree's own "type" field convention). Using encoding/json's
// RawMessage plus a hand-written type switch is the appropriate stdlib
// use here: none of the retrieval pack's JSON libraries (gjson/sjson,
// used elsewhere for the runtime's own JSON.parse/stringify) decode
// into a polymorphic Go type hierarchy — their value is path-based
// access to schemaless JSON, not struct decoding, so they would not
// simplify this.
type wireNode struct {
	Type string `json:"type"`
}

// Decode parses a JSON-encoded Program (spec §5's canonical "esrt run"
// input format).
func Decode(data []byte) (*Program, error) {
	var wire struct {
		Body []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("ast: decode program: %w", err)
	}
	body := make([]Statement, 0, len(wire.Body))
	for i, raw := range wire.Body {
		stmt, err := DecodeStatement(raw)
		if err != nil {
			return nil, fmt.Errorf("ast: decode program body[%d]: %w", i, err)
		}
		body = append(body, stmt)
	}
	return &Program{Body: body}, nil
}

func decodeBase(data []byte) (base, error) {
	var w struct {
		Position Position `json:"position"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return base{}, err
	}
	var wt wireNode
	_ = json.Unmarshal(data, &wt)
	return base{Position: w.Position, Token: wt.Type}, nil
}

func decodeStatements(raws []json.RawMessage) ([]Statement, error) {
	out := make([]Statement, 0, len(raws))
	for i, raw := range raws {
		s, err := DecodeStatement(raw)
		if err != nil {
			return nil, fmt.Errorf("body[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeExpressions(raws []json.RawMessage) ([]Expression, error) {
	out := make([]Expression, 0, len(raws))
	for i, raw := range raws {
		if len(raw) == 0 || string(raw) == "null" {
			out = append(out, nil)
			continue
		}
		e, err := DecodeExpression(raw)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeOptionalExpression(raw json.RawMessage) (Expression, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return DecodeExpression(raw)
}

// DecodeStatement decodes a single JSON-encoded statement node.
func DecodeStatement(data json.RawMessage) (Statement, error) {
	var wt wireNode
	if err := json.Unmarshal(data, &wt); err != nil {
		return nil, err
	}
	b, err := decodeBase(data)
	if err != nil {
		return nil, err
	}

	switch wt.Type {
	case "ExpressionStatement":
		var w struct {
			Expression json.RawMessage `json:"expression"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		expr, err := DecodeExpression(w.Expression)
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{base: b, Expression: expr}, nil

	case "BlockStatement":
		var w struct {
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		body, err := decodeStatements(w.Body)
		if err != nil {
			return nil, err
		}
		return &BlockStatement{base: b, Body: body}, nil

	case "VariableStatement":
		var w struct {
			Declarations []struct {
				Name string          `json:"name"`
				Init json.RawMessage `json:"init"`
			} `json:"declarations"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		decls := make([]VariableDeclarator, 0, len(w.Declarations))
		for _, d := range w.Declarations {
			init, err := decodeOptionalExpression(d.Init)
			if err != nil {
				return nil, err
			}
			decls = append(decls, VariableDeclarator{Name: d.Name, Init: init})
		}
		return &VariableStatement{base: b, Declarations: decls}, nil

	case "EmptyStatement":
		return &EmptyStatement{base: b}, nil

	case "DebuggerStatement":
		return &DebuggerStatement{base: b}, nil

	case "IfStatement":
		var w struct {
			Test       json.RawMessage `json:"test"`
			Consequent json.RawMessage `json:"consequent"`
			Alternate  json.RawMessage `json:"alternate"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		test, err := DecodeExpression(w.Test)
		if err != nil {
			return nil, err
		}
		cons, err := DecodeStatement(w.Consequent)
		if err != nil {
			return nil, err
		}
		var alt Statement
		if len(w.Alternate) > 0 && string(w.Alternate) != "null" {
			alt, err = DecodeStatement(w.Alternate)
			if err != nil {
				return nil, err
			}
		}
		return &IfStatement{base: b, Test: test, Consequent: cons, Alternate: alt}, nil

	case "WhileStatement":
		var w struct {
			Test json.RawMessage `json:"test"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		test, err := DecodeExpression(w.Test)
		if err != nil {
			return nil, err
		}
		body, err := DecodeStatement(w.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStatement{base: b, Test: test, Body: body}, nil

	case "DoWhileStatement":
		var w struct {
			Test json.RawMessage `json:"test"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		test, err := DecodeExpression(w.Test)
		if err != nil {
			return nil, err
		}
		body, err := DecodeStatement(w.Body)
		if err != nil {
			return nil, err
		}
		return &DoWhileStatement{base: b, Test: test, Body: body}, nil

	case "ForStatement":
		var w struct {
			Init   json.RawMessage `json:"init"`
			Test   json.RawMessage `json:"test"`
			Update json.RawMessage `json:"update"`
			Body   json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		init, err := decodeForInit(w.Init)
		if err != nil {
			return nil, err
		}
		test, err := decodeOptionalExpression(w.Test)
		if err != nil {
			return nil, err
		}
		update, err := decodeOptionalExpression(w.Update)
		if err != nil {
			return nil, err
		}
		body, err := DecodeStatement(w.Body)
		if err != nil {
			return nil, err
		}
		return &ForStatement{base: b, Init: init, Test: test, Update: update, Body: body}, nil

	case "ForInStatement":
		var w struct {
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Body  json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		left, err := decodeForInit(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeExpression(w.Right)
		if err != nil {
			return nil, err
		}
		body, err := DecodeStatement(w.Body)
		if err != nil {
			return nil, err
		}
		return &ForInStatement{base: b, Left: left, Right: right, Body: body}, nil

	case "ContinueStatement":
		var w struct {
			Label string `json:"label"`
		}
		_ = json.Unmarshal(data, &w)
		return &ContinueStatement{base: b, Label: w.Label}, nil

	case "BreakStatement":
		var w struct {
			Label string `json:"label"`
		}
		_ = json.Unmarshal(data, &w)
		return &BreakStatement{base: b, Label: w.Label}, nil

	case "ReturnStatement":
		var w struct {
			Argument json.RawMessage `json:"argument"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		arg, err := decodeOptionalExpression(w.Argument)
		if err != nil {
			return nil, err
		}
		return &ReturnStatement{base: b, Argument: arg}, nil

	case "WithStatement":
		var w struct {
			Object json.RawMessage `json:"object"`
			Body   json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		obj, err := DecodeExpression(w.Object)
		if err != nil {
			return nil, err
		}
		body, err := DecodeStatement(w.Body)
		if err != nil {
			return nil, err
		}
		return &WithStatement{base: b, Object: obj, Body: body}, nil

	case "SwitchStatement":
		var w struct {
			Discriminant json.RawMessage `json:"discriminant"`
			Cases        []struct {
				Test       json.RawMessage   `json:"test"`
				Consequent []json.RawMessage `json:"consequent"`
			} `json:"cases"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		disc, err := DecodeExpression(w.Discriminant)
		if err != nil {
			return nil, err
		}
		cases := make([]SwitchCase, 0, len(w.Cases))
		for _, c := range w.Cases {
			test, err := decodeOptionalExpression(c.Test)
			if err != nil {
				return nil, err
			}
			cons, err := decodeStatements(c.Consequent)
			if err != nil {
				return nil, err
			}
			cases = append(cases, SwitchCase{Test: test, Consequent: cons})
		}
		return &SwitchStatement{base: b, Discriminant: disc, Cases: cases}, nil

	case "LabeledStatement":
		var w struct {
			Label string          `json:"label"`
			Body  json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		body, err := DecodeStatement(w.Body)
		if err != nil {
			return nil, err
		}
		return &LabeledStatement{base: b, Label: w.Label, Body: body}, nil

	case "ThrowStatement":
		var w struct {
			Argument json.RawMessage `json:"argument"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		arg, err := DecodeExpression(w.Argument)
		if err != nil {
			return nil, err
		}
		return &ThrowStatement{base: b, Argument: arg}, nil

	case "TryStatement":
		var w struct {
			Block   json.RawMessage `json:"block"`
			Handler *struct {
				Param string          `json:"param"`
				Body  json.RawMessage `json:"body"`
			} `json:"handler"`
			Finalizer json.RawMessage `json:"finalizer"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		blockStmt, err := DecodeStatement(w.Block)
		if err != nil {
			return nil, err
		}
		block, ok := blockStmt.(*BlockStatement)
		if !ok {
			return nil, fmt.Errorf("ast: TryStatement.block must be a BlockStatement")
		}
		var handler *CatchClause
		if w.Handler != nil {
			hBody, err := DecodeStatement(w.Handler.Body)
			if err != nil {
				return nil, err
			}
			hBlock, ok := hBody.(*BlockStatement)
			if !ok {
				return nil, fmt.Errorf("ast: TryStatement.handler.body must be a BlockStatement")
			}
			handler = &CatchClause{Param: w.Handler.Param, Body: hBlock}
		}
		var finalizer *BlockStatement
		if len(w.Finalizer) > 0 && string(w.Finalizer) != "null" {
			fBody, err := DecodeStatement(w.Finalizer)
			if err != nil {
				return nil, err
			}
			fBlock, ok := fBody.(*BlockStatement)
			if !ok {
				return nil, fmt.Errorf("ast: TryStatement.finalizer must be a BlockStatement")
			}
			finalizer = fBlock
		}
		if handler == nil && finalizer == nil {
			return nil, fmt.Errorf("ast: TryStatement needs a handler or a finalizer")
		}
		return &TryStatement{base: b, Block: block, Handler: handler, Finalizer: finalizer}, nil

	case "FunctionDeclaration":
		fn, err := decodeFunctionLiteral(data)
		if err != nil {
			return nil, err
		}
		return &FunctionDeclaration{base: b, Function: fn}, nil

	default:
		return nil, fmt.Errorf("ast: unknown statement type %q", wt.Type)
	}
}

// decodeForInit decodes a ForStatement's Init or a ForInStatement's Left,
// which is either a VariableStatement (`for (var i ...)`) or a bare
// expression, or absent (nil) for `for (;;)`.
func decodeForInit(data json.RawMessage) (Node, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var wt wireNode
	if err := json.Unmarshal(data, &wt); err != nil {
		return nil, err
	}
	if wt.Type == "VariableStatement" {
		return DecodeStatement(data)
	}
	return DecodeExpression(data)
}

func decodeFunctionLiteral(data json.RawMessage) (*FunctionExpression, error) {
	b, err := decodeBase(data)
	if err != nil {
		return nil, err
	}
	var w struct {
		Name   string            `json:"name"`
		Params []string          `json:"params"`
		Body   []json.RawMessage `json:"body"`
		Strict bool              `json:"strict"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	body, err := decodeStatements(w.Body)
	if err != nil {
		return nil, err
	}
	return &FunctionExpression{base: b, Name: w.Name, Params: w.Params, Body: body, Strict: w.Strict}, nil
}

// DecodeExpression decodes a single JSON-encoded expression node.
func DecodeExpression(data json.RawMessage) (Expression, error) {
	var wt wireNode
	if err := json.Unmarshal(data, &wt); err != nil {
		return nil, err
	}
	b, err := decodeBase(data)
	if err != nil {
		return nil, err
	}

	switch wt.Type {
	case "Identifier":
		var w struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &Identifier{base: b, Name: w.Name}, nil

	case "NumberLiteral":
		var w struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &NumberLiteral{base: b, Value: w.Value}, nil

	case "StringLiteral":
		var w struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &StringLiteral{base: b, Value: w.Value}, nil

	case "BooleanLiteral":
		var w struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &BooleanLiteral{base: b, Value: w.Value}, nil

	case "NullLiteral":
		return &NullLiteral{base: b}, nil

	case "RegExpLiteral":
		var w struct {
			Pattern string `json:"pattern"`
			Flags   string `json:"flags"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &RegExpLiteral{base: b, Pattern: w.Pattern, Flags: w.Flags}, nil

	case "ThisExpression":
		return &ThisExpression{base: b}, nil

	case "ArrayLiteral":
		var w struct {
			Elements []json.RawMessage `json:"elements"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		elems, err := decodeExpressions(w.Elements)
		if err != nil {
			return nil, err
		}
		return &ArrayLiteral{base: b, Elements: elems}, nil

	case "ObjectLiteral":
		var w struct {
			Properties []struct {
				Key      json.RawMessage `json:"key"`
				Value    json.RawMessage `json:"value"`
				Kind     PropertyKind    `json:"kind"`
				Computed bool            `json:"computed"`
			} `json:"properties"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		props := make([]Property, 0, len(w.Properties))
		for _, p := range w.Properties {
			key, err := DecodeExpression(p.Key)
			if err != nil {
				return nil, err
			}
			val, err := DecodeExpression(p.Value)
			if err != nil {
				return nil, err
			}
			kind := p.Kind
			if kind == "" {
				kind = PropertyInit
			}
			props = append(props, Property{Key: key, Value: val, Kind: kind, Computed: p.Computed})
		}
		return &ObjectLiteral{base: b, Properties: props}, nil

	case "FunctionExpression":
		return decodeFunctionLiteral(data)

	case "UnaryExpression":
		var w struct {
			Operator UnaryOperator   `json:"operator"`
			Argument json.RawMessage `json:"argument"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		arg, err := DecodeExpression(w.Argument)
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{base: b, Operator: w.Operator, Argument: arg}, nil

	case "UpdateExpression":
		var w struct {
			Operator UpdateOperator  `json:"operator"`
			Argument json.RawMessage `json:"argument"`
			Prefix   bool            `json:"prefix"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		arg, err := DecodeExpression(w.Argument)
		if err != nil {
			return nil, err
		}
		return &UpdateExpression{base: b, Operator: w.Operator, Argument: arg, Prefix: w.Prefix}, nil

	case "BinaryExpression":
		var w struct {
			Operator BinaryOperator  `json:"operator"`
			Left     json.RawMessage `json:"left"`
			Right    json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		left, err := DecodeExpression(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeExpression(w.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{base: b, Operator: w.Operator, Left: left, Right: right}, nil

	case "LogicalExpression":
		var w struct {
			Operator LogicalOperator `json:"operator"`
			Left     json.RawMessage `json:"left"`
			Right    json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		left, err := DecodeExpression(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeExpression(w.Right)
		if err != nil {
			return nil, err
		}
		return &LogicalExpression{base: b, Operator: w.Operator, Left: left, Right: right}, nil

	case "AssignmentExpression":
		var w struct {
			Operator AssignmentOperator `json:"operator"`
			Target   json.RawMessage    `json:"target"`
			Value    json.RawMessage    `json:"value"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		target, err := DecodeExpression(w.Target)
		if err != nil {
			return nil, err
		}
		val, err := DecodeExpression(w.Value)
		if err != nil {
			return nil, err
		}
		return &AssignmentExpression{base: b, Operator: w.Operator, Target: target, Value: val}, nil

	case "ConditionalExpression":
		var w struct {
			Test       json.RawMessage `json:"test"`
			Consequent json.RawMessage `json:"consequent"`
			Alternate  json.RawMessage `json:"alternate"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		test, err := DecodeExpression(w.Test)
		if err != nil {
			return nil, err
		}
		cons, err := DecodeExpression(w.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := DecodeExpression(w.Alternate)
		if err != nil {
			return nil, err
		}
		return &ConditionalExpression{base: b, Test: test, Consequent: cons, Alternate: alt}, nil

	case "CallExpression":
		var w struct {
			Callee    json.RawMessage   `json:"callee"`
			Arguments []json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		callee, err := DecodeExpression(w.Callee)
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressions(w.Arguments)
		if err != nil {
			return nil, err
		}
		return &CallExpression{base: b, Callee: callee, Arguments: args}, nil

	case "NewExpression":
		var w struct {
			Callee    json.RawMessage   `json:"callee"`
			Arguments []json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		callee, err := DecodeExpression(w.Callee)
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressions(w.Arguments)
		if err != nil {
			return nil, err
		}
		return &NewExpression{base: b, Callee: callee, Arguments: args}, nil

	case "MemberExpression":
		var w struct {
			Object   json.RawMessage `json:"object"`
			Property json.RawMessage `json:"property"`
			Computed bool            `json:"computed"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		obj, err := DecodeExpression(w.Object)
		if err != nil {
			return nil, err
		}
		prop, err := DecodeExpression(w.Property)
		if err != nil {
			return nil, err
		}
		return &MemberExpression{base: b, Object: obj, Property: prop, Computed: w.Computed}, nil

	case "SequenceExpression":
		var w struct {
			Expressions []json.RawMessage `json:"expressions"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		exprs, err := decodeExpressions(w.Expressions)
		if err != nil {
			return nil, err
		}
		return &SequenceExpression{base: b, Expressions: exprs}, nil

	default:
		return nil, fmt.Errorf("ast: unknown expression type %q", wt.Type)
	}
}

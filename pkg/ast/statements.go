package ast

// ExpressionStatement wraps an expression evaluated for its side effects
// (ES5 §12.4).
type ExpressionStatement struct {
	base
	Expression Expression
}

func (*ExpressionStatement) statementNode() {}

// BlockStatement is `{ ... }` (ES5 §12.1).
type BlockStatement struct {
	base
	Body []Statement
}

func (*BlockStatement) statementNode() {}

// VariableDeclarator is one `name` or `name = init` entry in a `var`
// statement (ES5 §12.2).
type VariableDeclarator struct {
	Name string
	Init Expression // nil if no initializer
}

// VariableStatement is `var a, b = 1, ...;`.
type VariableStatement struct {
	base
	Declarations []VariableDeclarator
}

func (*VariableStatement) statementNode() {}

// EmptyStatement is a bare `;`.
type EmptyStatement struct{ base }

func (*EmptyStatement) statementNode() {}

// IfStatement is `if (test) consequent else alternate` (ES5 §12.5);
// Alternate is nil when there is no else clause.
type IfStatement struct {
	base
	Test       Expression
	Consequent Statement
	Alternate  Statement
}

func (*IfStatement) statementNode() {}

// WhileStatement is `while (test) body` (ES5 §12.6.2).
type WhileStatement struct {
	base
	Test Expression
	Body Statement
}

func (*WhileStatement) statementNode() {}

// DoWhileStatement is `do body while (test);` (ES5 §12.6.1).
type DoWhileStatement struct {
	base
	Body Statement
	Test Expression
}

func (*DoWhileStatement) statementNode() {}

// ForStatement is the classic three-clause `for` (ES5 §12.6.3). Any of
// Init/Test/Update may be nil. Init may instead be a *VariableStatement
// for `for (var i = 0; ...)`.
type ForStatement struct {
	base
	Init   Node // Expression, *VariableStatement, or nil
	Test   Expression
	Update Expression
	Body   Statement
}

func (*ForStatement) statementNode() {}

// ForInStatement is `for (left in right) body` (ES5 §12.6.4). Left is an
// Identifier or, for `for (var x in y)`, a *VariableStatement with
// exactly one declarator.
type ForInStatement struct {
	base
	Left  Node
	Right Expression
	Body  Statement
}

func (*ForInStatement) statementNode() {}

// ContinueStatement is `continue;` or `continue label;` (ES5 §12.7).
type ContinueStatement struct {
	base
	Label string
}

func (*ContinueStatement) statementNode() {}

// BreakStatement is `break;` or `break label;` (ES5 §12.8).
type BreakStatement struct {
	base
	Label string
}

func (*BreakStatement) statementNode() {}

// ReturnStatement is `return;` or `return expr;` (ES5 §12.9); Argument
// is nil for the bare form.
type ReturnStatement struct {
	base
	Argument Expression
}

func (*ReturnStatement) statementNode() {}

// WithStatement is `with (object) body` (ES5 §12.10).
type WithStatement struct {
	base
	Object Expression
	Body   Statement
}

func (*WithStatement) statementNode() {}

// SwitchCase is one `case test:`/`default:` clause.
type SwitchCase struct {
	Test         Expression // nil for `default:`
	Consequent   []Statement
}

// SwitchStatement is `switch (discriminant) { cases... }` (ES5 §12.11).
type SwitchStatement struct {
	base
	Discriminant Expression
	Cases        []SwitchCase
}

func (*SwitchStatement) statementNode() {}

// LabeledStatement is `label: body` (ES5 §12.12).
type LabeledStatement struct {
	base
	Label string
	Body  Statement
}

func (*LabeledStatement) statementNode() {}

// ThrowStatement is `throw expr;` (ES5 §12.13).
type ThrowStatement struct {
	base
	Argument Expression
}

func (*ThrowStatement) statementNode() {}

// CatchClause is the `catch (param) { body }` part of a TryStatement.
type CatchClause struct {
	Param string
	Body  *BlockStatement
}

// TryStatement is `try { } catch (e) { } finally { }` (ES5 §12.14).
// Handler and Finalizer are nil when absent (at least one must be
// present, enforced at decode time rather than in this type).
type TryStatement struct {
	base
	Block     *BlockStatement
	Handler   *CatchClause
	Finalizer *BlockStatement
}

func (*TryStatement) statementNode() {}

// FunctionDeclaration is a named function declaration used as a
// statement (ES5 §13); distinct from FunctionExpression only in that
// function declarations are hoisted to the top of their enclosing
// scope, which the evaluator handles based on this node appearing
// directly in a Program or function body rather than on a type
// difference; one nested in a BlockStatement is not hoisted.
type FunctionDeclaration struct {
	base
	Function *FunctionExpression
}

func (*FunctionDeclaration) statementNode() {}

// DebuggerStatement is `debugger;` (ES5 §12.15); evaluates to a no-op in
// this runtime (no debugger to break into).
type DebuggerStatement struct{ base }

func (*DebuggerStatement) statementNode() {}

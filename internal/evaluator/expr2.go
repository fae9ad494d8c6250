package evaluator

import (
	"math"

	"github.com/cwbudde/esrt/internal/ops"
	"github.com/cwbudde/esrt/internal/propkey"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
)

func (e *Evaluator) evalUnary(u *ast.UnaryExpression) (value.Value, error) {
	if u.Operator == ast.UnaryDelete {
		return e.evalDelete(u.Argument)
	}
	if u.Operator == ast.UnaryTypeof {
		if id, ok := u.Argument.(*ast.Identifier); ok {
			ref := e.resolveIdentifier(id.Name)
			if ref.env == nil {
				return value.FromStringID(e.Heap.Pool().Intern("undefined")), nil
			}
		}
		v, err := e.evalExpr(u.Argument)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromStringID(e.Heap.Pool().Intern(ops.Typeof(e.Heap, v))), nil
	}

	v, err := e.evalExpr(u.Argument)
	if err != nil {
		return value.Undefined, err
	}
	switch u.Operator {
	case ast.UnaryVoid:
		return value.Undefined, nil
	case ast.UnaryNot:
		return value.FromBool(!ops.ToBoolean(e.Heap, v)), nil
	case ast.UnaryMinus:
		n, err := ops.ToNumber(e.Heap, v, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromNumber(-n), nil
	case ast.UnaryPlus:
		n, err := ops.ToNumber(e.Heap, v, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromNumber(n), nil
	case ast.UnaryBitNot:
		n, err := ops.ToInt32(e.Heap, v, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromNumber(float64(^n)), nil
	}
	return value.Undefined, e.Heap.Throw("SyntaxError", "unsupported unary operator %q", u.Operator)
}

func (e *Evaluator) evalDelete(arg ast.Expression) (value.Value, error) {
	m, ok := arg.(*ast.MemberExpression)
	if !ok {
		// Deleting a bare identifier or non-reference is a no-op that
		// succeeds in non-strict mode (unresolvable/non-reference),
		// per ES5 §11.4.1 steps 2-3.
		return value.FromBool(true), nil
	}
	ref, err := e.evalMemberReference(m)
	if err != nil {
		return value.Undefined, err
	}
	ok2, err := e.Heap.Resolve(ref.base).Delete(e.Heap, ref.key, e.ctx().Strict)
	if err != nil {
		return value.Undefined, err
	}
	return value.FromBool(ok2), nil
}

func (e *Evaluator) evalUpdate(u *ast.UpdateExpression) (value.Value, error) {
	ref, err := e.referenceFor(u.Argument)
	if err != nil {
		return value.Undefined, err
	}
	old, err := e.getReference(ref, "")
	if err != nil {
		return value.Undefined, err
	}
	oldNum, err := ops.ToNumber(e.Heap, old, e)
	if err != nil {
		return value.Undefined, err
	}
	var newNum float64
	if u.Operator == ast.UpdateIncrement {
		newNum = oldNum + 1
	} else {
		newNum = oldNum - 1
	}
	newVal := value.FromNumber(newNum)
	if err := e.setReference(ref, newVal); err != nil {
		return value.Undefined, err
	}
	if u.Prefix {
		return newVal, nil
	}
	return value.FromNumber(oldNum), nil
}

// referenceFor evaluates an expression used as an assignment/update
// target into a reference without reading its current value.
func (e *Evaluator) referenceFor(target ast.Expression) (reference, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		return e.resolveIdentifier(t.Name), nil
	case *ast.MemberExpression:
		return e.evalMemberReference(t)
	}
	return reference{}, e.Heap.Throw("ReferenceError", "invalid assignment target")
}

func (e *Evaluator) evalBinary(b *ast.BinaryExpression) (value.Value, error) {
	if b.Operator == ast.BinaryIn {
		left, err := e.evalExpr(b.Left)
		if err != nil {
			return value.Undefined, err
		}
		right, err := e.evalExpr(b.Right)
		if err != nil {
			return value.Undefined, err
		}
		keyVal, err := ops.ToStringValue(e.Heap, left, e)
		if err != nil {
			return value.Undefined, err
		}
		has, err := ops.HasProperty(e.Heap, right, propkey.FromStringID(keyVal.AsStringID()))
		if err != nil {
			return value.Undefined, err
		}
		return value.FromBool(has), nil
	}
	if b.Operator == ast.BinaryInstanceOf {
		left, err := e.evalExpr(b.Left)
		if err != nil {
			return value.Undefined, err
		}
		right, err := e.evalExpr(b.Right)
		if err != nil {
			return value.Undefined, err
		}
		ok, err := ops.InstanceOf(e.Heap, left, right, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromBool(ok), nil
	}

	left, err := e.evalExpr(b.Left)
	if err != nil {
		return value.Undefined, err
	}
	right, err := e.evalExpr(b.Right)
	if err != nil {
		return value.Undefined, err
	}
	return e.applyBinary(b.Operator, left, right)
}

func (e *Evaluator) applyBinary(op ast.BinaryOperator, left, right value.Value) (value.Value, error) {
	h := e.Heap
	switch op {
	case ast.BinaryAdd:
		return ops.Add(h, left, right, e)
	case ast.BinarySub, ast.BinaryMul, ast.BinaryDiv, ast.BinaryMod:
		ln, err := ops.ToNumber(h, left, e)
		if err != nil {
			return value.Undefined, err
		}
		rn, err := ops.ToNumber(h, right, e)
		if err != nil {
			return value.Undefined, err
		}
		switch op {
		case ast.BinarySub:
			return value.FromNumber(ln - rn), nil
		case ast.BinaryMul:
			return value.FromNumber(ln * rn), nil
		case ast.BinaryDiv:
			return value.FromNumber(ln / rn), nil
		default:
			return value.FromNumber(math.Mod(ln, rn)), nil
		}
	case ast.BinaryLt, ast.BinaryGt, ast.BinaryLtEq, ast.BinaryGtEq:
		return e.applyRelational(op, left, right)
	case ast.BinaryEq:
		eq, err := ops.AbstractEquals(h, left, right, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromBool(eq), nil
	case ast.BinaryNotEq:
		eq, err := ops.AbstractEquals(h, left, right, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromBool(!eq), nil
	case ast.BinaryStrictEq:
		return value.FromBool(ops.StrictEquals(h, left, right)), nil
	case ast.BinaryStrictNotEq:
		return value.FromBool(!ops.StrictEquals(h, left, right)), nil
	case ast.BinaryBitAnd, ast.BinaryBitOr, ast.BinaryBitXor, ast.BinaryShl, ast.BinaryShr:
		ln, err := ops.ToInt32(h, left, e)
		if err != nil {
			return value.Undefined, err
		}
		rn, err := ops.ToUint32(h, right, e)
		if err != nil {
			return value.Undefined, err
		}
		switch op {
		case ast.BinaryBitAnd:
			return value.FromNumber(float64(ln & int32(rn))), nil
		case ast.BinaryBitOr:
			return value.FromNumber(float64(ln | int32(rn))), nil
		case ast.BinaryBitXor:
			return value.FromNumber(float64(ln ^ int32(rn))), nil
		case ast.BinaryShl:
			return value.FromNumber(float64(ln << (rn & 31))), nil
		default:
			return value.FromNumber(float64(ln >> (rn & 31))), nil
		}
	case ast.BinaryUShr:
		ln, err := ops.ToUint32(h, left, e)
		if err != nil {
			return value.Undefined, err
		}
		rn, err := ops.ToUint32(h, right, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromNumber(float64(ln >> (rn & 31))), nil
	}
	return value.Undefined, e.Heap.Throw("SyntaxError", "unsupported binary operator %q", op)
}

func (e *Evaluator) applyRelational(op ast.BinaryOperator, left, right value.Value) (value.Value, error) {
	switch op {
	case ast.BinaryLt:
		r, defined, err := ops.LessThan(e.Heap, left, right, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromBool(defined && r), nil
	case ast.BinaryGt:
		r, defined, err := ops.LessThan(e.Heap, right, left, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromBool(defined && r), nil
	case ast.BinaryLtEq:
		r, defined, err := ops.LessThan(e.Heap, right, left, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromBool(defined && !r), nil
	default: // BinaryGtEq
		r, defined, err := ops.LessThan(e.Heap, left, right, e)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromBool(defined && !r), nil
	}
}

func (e *Evaluator) evalLogical(l *ast.LogicalExpression) (value.Value, error) {
	left, err := e.evalExpr(l.Left)
	if err != nil {
		return value.Undefined, err
	}
	truthy := ops.ToBoolean(e.Heap, left)
	if l.Operator == ast.LogicalAnd && !truthy {
		return left, nil
	}
	if l.Operator == ast.LogicalOr && truthy {
		return left, nil
	}
	return e.evalExpr(l.Right)
}

func (e *Evaluator) evalAssignment(a *ast.AssignmentExpression) (value.Value, error) {
	ref, err := e.referenceFor(a.Target)
	if err != nil {
		return value.Undefined, err
	}
	rhs, err := e.evalExpr(a.Value)
	if err != nil {
		return value.Undefined, err
	}
	if a.Operator == ast.AssignPlain {
		if err := e.setReference(ref, rhs); err != nil {
			return value.Undefined, err
		}
		return rhs, nil
	}
	cur, err := e.getReference(ref, "")
	if err != nil {
		return value.Undefined, err
	}
	result, err := e.applyBinary(compoundToBinary(a.Operator), cur, rhs)
	if err != nil {
		return value.Undefined, err
	}
	if err := e.setReference(ref, result); err != nil {
		return value.Undefined, err
	}
	return result, nil
}

func compoundToBinary(op ast.AssignmentOperator) ast.BinaryOperator {
	switch op {
	case ast.AssignAdd:
		return ast.BinaryAdd
	case ast.AssignSub:
		return ast.BinarySub
	case ast.AssignMul:
		return ast.BinaryMul
	case ast.AssignDiv:
		return ast.BinaryDiv
	case ast.AssignMod:
		return ast.BinaryMod
	case ast.AssignShl:
		return ast.BinaryShl
	case ast.AssignShr:
		return ast.BinaryShr
	case ast.AssignUShr:
		return ast.BinaryUShr
	case ast.AssignBitAnd:
		return ast.BinaryBitAnd
	case ast.AssignBitOr:
		return ast.BinaryBitOr
	case ast.AssignBitXor:
		return ast.BinaryBitXor
	}
	return ast.BinaryAdd
}

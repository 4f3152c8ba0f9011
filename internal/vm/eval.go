package vm

import (
	"errors"
	"fmt"
	"strconv"

	"flow/internal/ast"
	"flow/internal/parser"
	"flow/internal/token"
	"flow/internal/trace"
)

// ErrHasDiagnostics is returned by EvaluateTree for trees that were parsed with diagnostics.
var ErrHasDiagnostics = errors.New("tree has diagnostics")

// Options configures a VM.
type Options struct {
	Tracer      trace.Tracer
	TraceParent uint64
}

// VM evaluates expression trees. A VM keeps no state between Eval calls
// except its step counter, which is reset on every call.
type VM struct {
	opts  Options
	steps int
}

// New creates a VM.
func New(opts Options) *VM {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &VM{opts: opts}
}

// Evaluate computes the value of expr with a default VM.
func Evaluate(expr ast.Expr) (int64, error) {
	return New(Options{}).Eval(expr)
}

// EvaluateTree evaluates a parse result. Trees with diagnostics are refused:
// their synthetic tokens carry no values.
func EvaluateTree(tree *parser.Tree) (int64, error) {
	return New(Options{}).EvalTree(tree)
}

// EvalTree is EvaluateTree on this VM.
func (vm *VM) EvalTree(tree *parser.Tree) (int64, error) {
	if tree == nil {
		return 0, unknownNode("nil tree")
	}
	if !tree.OK() {
		return 0, fmt.Errorf("%w: %d", ErrHasDiagnostics, len(tree.Diagnostics()))
	}
	return vm.Eval(tree.Root)
}

// Eval computes the value of expr. Faults are returned as *Error.
func (vm *VM) Eval(expr ast.Expr) (int64, error) {
	span := trace.Begin(vm.opts.Tracer, trace.ScopePass, "eval", vm.opts.TraceParent)
	vm.steps = 0

	v, vmErr := vm.eval(expr)
	span = span.WithExtra("steps", strconv.Itoa(vm.steps))
	if vmErr != nil {
		span.End(vmErr.Code.String())
		return 0, vmErr
	}
	span.End(strconv.FormatInt(v, 10))
	return v, nil
}

// Steps returns the number of nodes visited by the last Eval.
func (vm *VM) Steps() int { return vm.steps }

func (vm *VM) eval(expr ast.Expr) (int64, *Error) {
	vm.steps++
	switch e := expr.(type) {
	case *ast.Literal:
		if e == nil {
			return 0, unknownNode("nil literal")
		}
		v, ok := e.Token.Value.Int()
		if !ok {
			return 0, missingValue(e.Token.Span)
		}
		return v, nil

	case *ast.Binary:
		if e == nil {
			return 0, unknownNode("nil binary")
		}
		// левый операнд вычисляется первым
		left, vmErr := vm.eval(e.Left)
		if vmErr != nil {
			return 0, vmErr
		}
		right, vmErr := vm.eval(e.Right)
		if vmErr != nil {
			return 0, vmErr
		}
		return evalBinaryOp(e.Op, left, right)

	case *ast.Paren:
		if e == nil {
			return 0, unknownNode("nil parentheses")
		}
		return vm.eval(e.Inner)

	case *ast.Unary:
		if e == nil {
			return 0, unknownNode("nil unary")
		}
		return 0, unsupportedNode(e.Kind().String(), e.Span())

	case nil:
		return 0, unknownNode("nil")

	default:
		return 0, unknownNode(fmt.Sprintf("%T", expr))
	}
}

// evalBinaryOp applies op with int64 semantics: overflow wraps, division truncates toward zero.
func evalBinaryOp(op token.Token, left, right int64) (int64, *Error) {
	switch op.Kind {
	case token.Plus:
		return left + right, nil
	case token.Minus:
		return left - right, nil
	case token.Multiply:
		return left * right, nil
	case token.Divide:
		if right == 0 {
			return 0, divisionByZero(op.Span)
		}
		return left / right, nil
	default:
		return 0, invalidOperator(op.Kind.String(), op.Span)
	}
}

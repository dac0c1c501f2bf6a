// The evaluator walks the checked tree. By the time it runs, every name has
// been resolved to a table index and every expression knows its type, so
// execution is just arithmetic, scope bookkeeping, and control flow.
//
// Control flow is data, not panic: 'return', 'break' and 'continue' record a
// signal on the scope that owns them, and statement execution between the
// signalling statement and the owning scope just declines to run anything
// further. A 'return' belongs to the nearest Function scope, a 'break' or
// 'continue' to the nearest Loop scope, and the search for the owner never
// crosses a Function scope boundary.
package evaluator

import (
	"fmt"
	"io"

	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/stack"
	"github.com/tim-hardcastle/Minnow/token"
	"github.com/tim-hardcastle/Minnow/typechecker"
)

type ControlFlowKind int

const (
	CONTINUE_SIGNAL ControlFlowKind = iota
	BREAK_SIGNAL
	RETURN_SIGNAL
)

// A ControlFlow is the record of a signalling statement that has run but not
// yet taken effect. Value is what a 'return' carries, nil for the others.
type ControlFlow struct {
	Kind  ControlFlowKind
	Value object.Object
}

type Scope struct {
	kind        typechecker.BlockKind
	controlFlow *ControlFlow
	variables   map[string]object.Object
}

func newScope(kind typechecker.BlockKind) *Scope {
	return &Scope{kind: kind, variables: map[string]object.Object{}}
}

type Evaluator struct {
	types     []*typechecker.Type
	functions []*typechecker.CheckedFunction
	scopes    *stack.Stack[*Scope]
	out       io.Writer
}

func New(tc *typechecker.Typechecker, out io.Writer) *Evaluator {
	return &Evaluator{
		types:     tc.Types(),
		functions: tc.Functions(),
		scopes:    stack.NewStack[*Scope](),
		out:       out,
	}
}

// RunMain runs the program's main function and returns what it returns,
// which for a well-mannered main is the void object.
func (ev *Evaluator) RunMain() (object.Object, *object.Error) {
	result, err := ev.Run("main")
	if err != nil && err.ErrorId == "eval/fn/missing" {
		return nil, object.ThrowAt("eval/main/missing", token.Span{})
	}
	return result, err
}

// Run runs a named function with no arguments. The hub uses this to run
// the synthetic wrappers it builds around REPL input.
func (ev *Evaluator) Run(name string) (object.Object, *object.Error) {
	for id, fn := range ev.functions {
		if fn.Name == name {
			return ev.executeFunction(ev.functions[id], nil, []object.Object{})
		}
	}
	return nil, object.ThrowAt("eval/fn/missing", token.Span{}, name)
}

// executeFunction is the one place a Function scope is pushed and the one
// place a Return signal is consumed. The self receiver is nil for plain
// function calls.
func (ev *Evaluator) executeFunction(fn *typechecker.CheckedFunction, self object.Object,
	args []object.Object) (object.Object, *object.Error) {
	scope := newScope(typechecker.FunctionBlock)
	if self != nil {
		scope.variables["self"] = self
	}
	for i, arg := range args {
		scope.variables[fn.Params[i].Name] = arg
	}
	ev.scopes.Push(scope)
	err := ev.executeStatements(fn.Body.Statements)
	ev.scopes.Pop()
	if err != nil {
		return nil, err
	}
	if scope.controlFlow != nil && scope.controlFlow.Value != nil {
		return scope.controlFlow.Value, nil
	}
	return object.VOID, nil
}

func (ev *Evaluator) executeStatements(statements []typechecker.CheckedStmt) *object.Error {
	for _, s := range statements {
		if err := ev.executeStatement(s); err != nil {
			return err
		}
		if ev.signalPending() {
			return nil
		}
	}
	return nil
}

// signalPending says whether any scope between the top of the stack and the
// current function's own scope carries a signal, in which case no further
// statement should run until the owning scope is reached.
func (ev *Evaluator) signalPending() bool {
	for depth := 0; depth < ev.scopes.Len(); depth++ {
		scope, _ := ev.scopes.At(depth)
		if scope.controlFlow != nil {
			return true
		}
		if scope.kind == typechecker.FunctionBlock {
			return false
		}
	}
	return false
}

// signal records a control flow signal on the scope that owns it. The
// typechecker guarantees the owner exists.
func (ev *Evaluator) signal(flow *ControlFlow) {
	for depth := 0; depth < ev.scopes.Len(); depth++ {
		scope, _ := ev.scopes.At(depth)
		if scope.kind == typechecker.FunctionBlock {
			scope.controlFlow = flow
			return
		}
		if scope.kind == typechecker.LoopBlock && flow.Kind != RETURN_SIGNAL {
			scope.controlFlow = flow
			return
		}
	}
}

func (ev *Evaluator) executeStatement(s typechecker.CheckedStmt) *object.Error {
	switch s := s.(type) {
	case *typechecker.CheckedLet:
		value, err := ev.evaluate(s.Value)
		if err != nil {
			return err
		}
		scope, _ := ev.scopes.HeadValue()
		scope.variables[s.Name] = value
		return nil
	case *typechecker.CheckedAssignment:
		value, err := ev.evaluate(s.Value)
		if err != nil {
			return err
		}
		return ev.assignVariable(s.Name, value, s.Value.Span)
	case *typechecker.CheckedIf:
		condition, err := ev.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if condition == object.TRUE {
			return ev.executeBlock(s.Consequence)
		}
		if s.Alternative != nil {
			return ev.executeBlock(s.Alternative)
		}
		return nil
	case *typechecker.CheckedLoop:
		return ev.executeLoop(s)
	case *typechecker.CheckedReturn:
		value := object.Object(object.VOID)
		if s.Value != nil {
			v, err := ev.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		ev.signal(&ControlFlow{Kind: RETURN_SIGNAL, Value: value})
		return nil
	case *typechecker.CheckedContinue:
		ev.signal(&ControlFlow{Kind: CONTINUE_SIGNAL})
		return nil
	case *typechecker.CheckedBreak:
		ev.signal(&ControlFlow{Kind: BREAK_SIGNAL})
		return nil
	case *typechecker.CheckedBlock:
		return ev.executeBlock(s)
	case *typechecker.CheckedExprStmt:
		_, err := ev.evaluate(s.Value)
		return err
	default:
		// The typechecker produces no other statements.
		return object.ThrowAt("err/misdirect", token.Span{})
	}
}

func (ev *Evaluator) executeBlock(b *typechecker.CheckedBlock) *object.Error {
	ev.scopes.Push(newScope(b.Kind))
	err := ev.executeStatements(b.Statements)
	ev.scopes.Pop()
	return err
}

// executeLoop pushes a fresh Loop scope per iteration, so that variables
// declared in the body don't leak between rounds and a consumed 'break' or
// 'continue' dies with its scope.
func (ev *Evaluator) executeLoop(loop *typechecker.CheckedLoop) *object.Error {
	for {
		scope := newScope(typechecker.LoopBlock)
		ev.scopes.Push(scope)
		err := ev.executeStatements(loop.Body.Statements)
		ev.scopes.Pop()
		if err != nil {
			return err
		}
		if scope.controlFlow != nil && scope.controlFlow.Kind == BREAK_SIGNAL {
			return nil
		}
		if ev.signalPending() { // A 'return' heading for the enclosing function.
			return nil
		}
	}
}

// VARIABLES

func (ev *Evaluator) lookupVariable(name string) (object.Object, bool) {
	for depth := 0; depth < ev.scopes.Len(); depth++ {
		scope, _ := ev.scopes.At(depth)
		if value, ok := scope.variables[name]; ok {
			return value, true
		}
		if scope.kind == typechecker.FunctionBlock {
			return nil, false
		}
	}
	return nil, false
}

func (ev *Evaluator) assignVariable(name string, value object.Object, span token.Span) *object.Error {
	for depth := 0; depth < ev.scopes.Len(); depth++ {
		scope, _ := ev.scopes.At(depth)
		if _, ok := scope.variables[name]; ok {
			scope.variables[name] = value
			return nil
		}
		if scope.kind == typechecker.FunctionBlock {
			break
		}
	}
	return object.ThrowAt("eval/var/missing", span, name)
}

// EXPRESSIONS

func (ev *Evaluator) evaluate(e *typechecker.CheckedExpr) (object.Object, *object.Error) {
	switch e.Kind {
	case typechecker.LiteralExpr:
		return e.Value, nil
	case typechecker.IdentifierExpr:
		value, ok := ev.lookupVariable(e.Name)
		if !ok {
			return nil, object.ThrowAt("eval/var/missing", e.Span, e.Name)
		}
		return value, nil
	case typechecker.CallExpr:
		args, err := ev.evaluateArgs(e.Args)
		if err != nil {
			return nil, err
		}
		return ev.executeFunction(ev.functions[e.Function], nil, args)
	case typechecker.BuiltinCallExpr:
		args, err := ev.evaluateArgs(e.Args)
		if err != nil {
			return nil, err
		}
		return builtinActions[e.Builtin](ev, args)
	case typechecker.MethodCallExpr:
		receiver, err := ev.evaluate(e.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := ev.evaluateArgs(e.Args)
		if err != nil {
			return nil, err
		}
		method := ev.types[e.OnType].Methods[e.Method]
		return ev.executeFunction(method, receiver, args)
	case typechecker.PrefixExpr:
		operand, err := ev.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		return ev.applyPrefix(e.Operator, operand, e.Span)
	case typechecker.InfixExpr:
		// Both sides are evaluated whatever the operator: '&&' and '||'
		// don't short-circuit.
		left, err := ev.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := ev.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		return ev.applyInfix(e.Operator, left, right, e.Span)
	default:
		return nil, object.ThrowAt("err/misdirect", e.Span)
	}
}

func (ev *Evaluator) evaluateArgs(args []*typechecker.CheckedExpr) ([]object.Object, *object.Error) {
	values := []object.Object{}
	for _, a := range args {
		value, err := ev.evaluate(a)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// OPERATORS

func (ev *Evaluator) applyPrefix(op token.TokenType, operand object.Object, span token.Span) (object.Object, *object.Error) {
	switch operand := operand.(type) {
	case *object.Integer:
		if op == token.MINUS {
			return &object.Integer{Value: -operand.Value}, nil
		}
		return operand, nil
	case *object.Float:
		if op == token.MINUS {
			return &object.Float{Value: -operand.Value}, nil
		}
		return operand, nil
	case *object.Boolean:
		return object.MakeBool(!operand.Value), nil
	}
	return nil, object.ThrowAt("eval/void", span)
}

func (ev *Evaluator) applyInfix(op token.TokenType, left, right object.Object, span token.Span) (object.Object, *object.Error) {
	switch left := left.(type) {
	case *object.Integer:
		return ev.integerInfix(op, left, right.(*object.Integer), span)
	case *object.Float:
		return ev.floatInfix(op, left, right.(*object.Float)), nil
	case *object.String:
		return ev.stringInfix(op, left, right.(*object.String)), nil
	case *object.Boolean:
		return ev.booleanInfix(op, left, right.(*object.Boolean)), nil
	}
	return nil, object.ThrowAt("eval/void", span)
}

func (ev *Evaluator) integerInfix(op token.TokenType, left, right *object.Integer, span token.Span) (object.Object, *object.Error) {
	switch op {
	case token.PLUS:
		return &object.Integer{Value: left.Value + right.Value}, nil
	case token.MINUS:
		return &object.Integer{Value: left.Value - right.Value}, nil
	case token.ASTERISK:
		return &object.Integer{Value: left.Value * right.Value}, nil
	case token.SLASH:
		if right.Value == 0 {
			return nil, object.ThrowAt("eval/div/zero", span)
		}
		return &object.Integer{Value: left.Value / right.Value}, nil
	case token.PERCENT:
		if right.Value == 0 {
			return nil, object.ThrowAt("eval/mod/zero", span)
		}
		return &object.Integer{Value: left.Value % right.Value}, nil
	case token.LT:
		return object.MakeBool(left.Value < right.Value), nil
	case token.LT_EQ:
		return object.MakeBool(left.Value <= right.Value), nil
	case token.GT:
		return object.MakeBool(left.Value > right.Value), nil
	case token.GT_EQ:
		return object.MakeBool(left.Value >= right.Value), nil
	case token.EQ:
		return object.MakeBool(left.Value == right.Value), nil
	case token.NOT_EQ:
		return object.MakeBool(left.Value != right.Value), nil
	}
	return nil, object.ThrowAt("err/misdirect", span)
}

func (ev *Evaluator) floatInfix(op token.TokenType, left, right *object.Float) object.Object {
	switch op {
	case token.PLUS:
		return &object.Float{Value: left.Value + right.Value}
	case token.MINUS:
		return &object.Float{Value: left.Value - right.Value}
	case token.ASTERISK:
		return &object.Float{Value: left.Value * right.Value}
	case token.SLASH:
		return &object.Float{Value: left.Value / right.Value}
	case token.LT:
		return object.MakeBool(left.Value < right.Value)
	case token.LT_EQ:
		return object.MakeBool(left.Value <= right.Value)
	case token.GT:
		return object.MakeBool(left.Value > right.Value)
	case token.GT_EQ:
		return object.MakeBool(left.Value >= right.Value)
	case token.EQ:
		return object.MakeBool(left.Value == right.Value)
	}
	return object.MakeBool(left.Value != right.Value)
}

func (ev *Evaluator) stringInfix(op token.TokenType, left, right *object.String) object.Object {
	switch op {
	case token.PLUS:
		return &object.String{Value: left.Value + right.Value}
	case token.EQ:
		return object.MakeBool(left.Value == right.Value)
	}
	return object.MakeBool(left.Value != right.Value)
}

func (ev *Evaluator) booleanInfix(op token.TokenType, left, right *object.Boolean) object.Object {
	switch op {
	case token.AND:
		return object.MakeBool(left.Value && right.Value)
	case token.OR:
		return object.MakeBool(left.Value || right.Value)
	case token.EQ:
		return object.MakeBool(left.Value == right.Value)
	}
	return object.MakeBool(left.Value != right.Value)
}

// BUILTINS

type builtinAction func(ev *Evaluator, args []object.Object) (object.Object, *object.Error)

// builtinActions runs parallel to the builtin table: the id the parser
// resolved indexes straight into it.
var builtinActions = []builtinAction{
	printAction,
}

func printAction(ev *Evaluator, args []object.Object) (object.Object, *object.Error) {
	fmt.Fprintln(ev.out, args[0].Inspect())
	return object.VOID, nil
}

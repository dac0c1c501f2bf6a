// The typechecker turns the parse tree into a checked tree in which every
// expression knows its TypeId, every call knows its FunctionId, and every
// method call knows its type and method index, so that nothing downstream
// ever resolves a name again. Like the parser it is fail-fast: the first
// error wins.
//
// Checking runs in two passes. The first registers the signature of every
// function and method, so that items can call each other whatever their
// order in the script; the second checks the bodies. Variable scoping during
// checking mirrors execution: a stack of scopes, pushed per block, with
// shadowing legal in an inner scope and redeclaration in the same scope an
// error.
package typechecker

import (
	"github.com/tim-hardcastle/Minnow/ast"
	"github.com/tim-hardcastle/Minnow/builtins"
	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/stack"
	"github.com/tim-hardcastle/Minnow/token"
)

type checkScope map[string]TypeId

type Typechecker struct {
	types     []*Type
	functions []*CheckedFunction
	scopes    *stack.Stack[checkScope]

	// Context for the function body being checked.
	returnType TypeId
	fnName     string
	loopDepth  int
}

func New() *Typechecker {
	return &Typechecker{
		types: []*Type{
			{Name: "void"},
			{Name: "int"},
			{Name: "float"},
			{Name: "string"},
			{Name: "bool"},
		},
		functions: []*CheckedFunction{},
		scopes:    stack.NewStack[checkScope](),
	}
}

// Types hands the type table, with its checked method bodies, to the evaluator.
func (tc *Typechecker) Types() []*Type {
	return tc.types
}

// Functions hands the function table to the evaluator.
func (tc *Typechecker) Functions() []*CheckedFunction {
	return tc.functions
}

func (tc *Typechecker) TypeName(t TypeId) string {
	return tc.types[t].Name
}

func (tc *Typechecker) FunctionByName(name string) (FunctionId, bool) {
	for id, fn := range tc.functions {
		if fn.Name == name {
			return FunctionId(id), true
		}
	}
	return 0, false
}

func (tc *Typechecker) typeIdByName(name string) (TypeId, bool) {
	for id, t := range tc.types {
		if t.Name == name {
			return TypeId(id), true
		}
	}
	return 0, false
}

func (tc *Typechecker) methodByName(t TypeId, name string) (int, bool) {
	for i, m := range tc.types[t].Methods {
		if m.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (tc *Typechecker) resolveType(lit *ast.TypeLiteral) (TypeId, *object.Error) {
	if id, ok := tc.typeIdByName(lit.Value); ok {
		return id, nil
	}
	return 0, object.Throw("type/unknown", lit.Token, lit.Value)
}

// CheckTopLevel checks a whole script. On success the Functions and Types
// tables hold everything the evaluator needs; on failure the tables should
// be considered junk.
func (tc *Typechecker) CheckTopLevel(items []ast.Item) *object.Error {
	for _, item := range items {
		switch item := item.(type) {
		case *ast.FnItem:
			if err := tc.declareFunction(item); err != nil {
				return err
			}
		case *ast.ExtendItem:
			if err := tc.declareExtend(item); err != nil {
				return err
			}
		}
	}
	for _, item := range items {
		switch item := item.(type) {
		case *ast.FnItem:
			id, _ := tc.FunctionByName(item.Name.Value)
			if err := tc.checkFunctionBody(item, tc.functions[id], noSelf); err != nil {
				return err
			}
		case *ast.ExtendItem:
			onType, _ := tc.typeIdByName(item.Type.Value)
			for _, method := range item.Methods {
				i, _ := tc.methodByName(onType, method.Name.Value)
				if err := tc.checkFunctionBody(method, tc.types[onType].Methods[i], onType); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// noSelf marks the checking of a plain function, which binds no receiver.
const noSelf TypeId = -1

func (tc *Typechecker) declareFunction(fn *ast.FnItem) *object.Error {
	if _, ok := builtins.FromName(fn.Name.Value); ok {
		return object.Throw("type/exists/fn", fn.Name.Token, fn.Name.Value)
	}
	if _, ok := tc.FunctionByName(fn.Name.Value); ok {
		return object.Throw("type/exists/fn", fn.Name.Token, fn.Name.Value)
	}
	checked, err := tc.declareSignature(fn)
	if err != nil {
		return err
	}
	tc.functions = append(tc.functions, checked)
	return nil
}

func (tc *Typechecker) declareExtend(item *ast.ExtendItem) *object.Error {
	onType, err := tc.resolveType(item.Type)
	if err != nil {
		return err
	}
	if onType == VOID_TYPE_ID {
		return object.Throw("type/void/extend", item.Type.Token)
	}
	for _, method := range item.Methods {
		if _, ok := tc.methodByName(onType, method.Name.Value); ok {
			return object.Throw("type/exists/method", method.Name.Token,
				method.Name.Value, tc.TypeName(onType))
		}
		checked, err := tc.declareSignature(method)
		if err != nil {
			return err
		}
		tc.types[onType].Methods = append(tc.types[onType].Methods, checked)
	}
	return nil
}

// declareSignature resolves a function's signature to TypeIds, leaving the
// body for the second pass.
func (tc *Typechecker) declareSignature(fn *ast.FnItem) (*CheckedFunction, *object.Error) {
	params := []Param{}
	for _, p := range fn.Params {
		ptype, err := tc.resolveType(p.Type)
		if err != nil {
			return nil, err
		}
		if ptype == VOID_TYPE_ID {
			return nil, object.Throw("type/void/param", p.Type.Token, p.Name.Value)
		}
		params = append(params, Param{Name: p.Name.Value, Type: ptype})
	}
	returnType, err := tc.resolveType(fn.ReturnType)
	if err != nil {
		return nil, err
	}
	return &CheckedFunction{Name: fn.Name.Value, Params: params, ReturnType: returnType}, nil
}

func (tc *Typechecker) checkFunctionBody(fn *ast.FnItem, target *CheckedFunction, selfType TypeId) *object.Error {
	tc.returnType = target.ReturnType
	tc.fnName = target.Name
	tc.loopDepth = 0
	tc.pushScope()
	defer tc.popScope()
	if selfType != noSelf {
		scope, _ := tc.scopes.HeadValue()
		scope["self"] = selfType
	}
	for i, p := range fn.Params {
		if err := tc.declareVar(p.Name.Value, target.Params[i].Type, p.Name.Token); err != nil {
			return err
		}
	}
	statements := []CheckedStmt{}
	for _, s := range fn.Body.Statements {
		checked, err := tc.checkStatement(s)
		if err != nil {
			return err
		}
		statements = append(statements, checked)
	}
	target.Body = &CheckedBlock{Kind: FunctionBlock, Statements: statements}
	if target.ReturnType != VOID_TYPE_ID && !blockDefinitelyReturns(target.Body) {
		return object.Throw("type/return/missing", fn.Name.Token,
			target.Name, tc.TypeName(target.ReturnType))
	}
	return nil
}

// SCOPES

func (tc *Typechecker) pushScope() {
	tc.scopes.Push(checkScope{})
}

func (tc *Typechecker) popScope() {
	tc.scopes.Pop()
}

func (tc *Typechecker) declareVar(name string, t TypeId, tok token.Token) *object.Error {
	scope, _ := tc.scopes.HeadValue()
	if _, ok := scope[name]; ok {
		return object.Throw("type/exists/var", tok, name)
	}
	scope[name] = t
	return nil
}

func (tc *Typechecker) lookupVar(name string) (TypeId, bool) {
	for depth := 0; depth < tc.scopes.Len(); depth++ {
		scope, _ := tc.scopes.At(depth)
		if t, ok := scope[name]; ok {
			return t, true
		}
	}
	return 0, false
}

// STATEMENTS

func (tc *Typechecker) checkStatement(s ast.Statement) (CheckedStmt, *object.Error) {
	switch s := s.(type) {
	case *ast.LetStatement:
		return tc.checkLetStatement(s)
	case *ast.AssignmentStatement:
		return tc.checkAssignmentStatement(s)
	case *ast.IfStatement:
		return tc.checkIfStatement(s)
	case *ast.LoopStatement:
		tc.loopDepth++
		body, err := tc.checkBlock(s.Body, LoopBlock)
		tc.loopDepth--
		if err != nil {
			return nil, err
		}
		return &CheckedLoop{Body: body}, nil
	case *ast.ReturnStatement:
		return tc.checkReturnStatement(s)
	case *ast.ContinueStatement:
		if tc.loopDepth == 0 {
			return nil, object.Throw("type/flow/continue", s.Token)
		}
		return &CheckedContinue{}, nil
	case *ast.BreakStatement:
		if tc.loopDepth == 0 {
			return nil, object.Throw("type/flow/break", s.Token)
		}
		return &CheckedBreak{}, nil
	case *ast.Block:
		return tc.checkBlock(s, RegularBlock)
	case *ast.ExpressionStatement:
		value, err := tc.checkExpression(s.Expression)
		if err != nil {
			return nil, err
		}
		return &CheckedExprStmt{Value: value}, nil
	default:
		// The parser produces no other statements.
		return nil, object.Throw("err/misdirect", s.GetToken())
	}
}

func (tc *Typechecker) checkLetStatement(s *ast.LetStatement) (CheckedStmt, *object.Error) {
	declared, err := tc.resolveType(s.Type)
	if err != nil {
		return nil, err
	}
	if declared == VOID_TYPE_ID {
		return nil, object.Throw("type/void/decl", s.Type.Token, s.Name.Value)
	}
	value, err := tc.checkExpression(s.Value)
	if err != nil {
		return nil, err
	}
	if value.Type == VOID_TYPE_ID {
		return nil, object.ThrowAt("type/void/init", value.Span)
	}
	if value.Type != declared {
		return nil, object.ThrowAt("type/mismatch/a", value.Span,
			tc.TypeName(declared), tc.TypeName(value.Type))
	}
	if err := tc.declareVar(s.Name.Value, declared, s.Name.Token); err != nil {
		return nil, err
	}
	return &CheckedLet{Name: s.Name.Value, Type: declared, Value: value}, nil
}

func (tc *Typechecker) checkAssignmentStatement(s *ast.AssignmentStatement) (CheckedStmt, *object.Error) {
	varType, ok := tc.lookupVar(s.Name.Value)
	if !ok {
		return nil, object.Throw("type/missing/var", s.Name.Token, s.Name.Value)
	}
	value, err := tc.checkExpression(s.Value)
	if err != nil {
		return nil, err
	}
	if value.Type == VOID_TYPE_ID {
		return nil, object.ThrowAt("type/void/assign", value.Span)
	}
	if value.Type != varType {
		return nil, object.ThrowAt("type/mismatch/b", value.Span,
			tc.TypeName(varType), tc.TypeName(value.Type))
	}
	return &CheckedAssignment{Name: s.Name.Value, Value: value}, nil
}

func (tc *Typechecker) checkIfStatement(s *ast.IfStatement) (CheckedStmt, *object.Error) {
	condition, err := tc.checkExpression(s.Condition)
	if err != nil {
		return nil, err
	}
	if condition.Type != BOOL_TYPE_ID {
		return nil, object.ThrowAt("type/cond/if", condition.Span, tc.TypeName(condition.Type))
	}
	consequence, err := tc.checkBlock(s.Consequence, RegularBlock)
	if err != nil {
		return nil, err
	}
	checked := &CheckedIf{Condition: condition, Consequence: consequence}
	if s.Alternative != nil {
		alternative, err := tc.checkBlock(s.Alternative, RegularBlock)
		if err != nil {
			return nil, err
		}
		checked.Alternative = alternative
	}
	return checked, nil
}

func (tc *Typechecker) checkReturnStatement(s *ast.ReturnStatement) (CheckedStmt, *object.Error) {
	if s.Value == nil {
		if tc.returnType != VOID_TYPE_ID {
			return nil, object.Throw("type/return/mismatch", s.Token,
				tc.TypeName(tc.returnType), "void")
		}
		return &CheckedReturn{}, nil
	}
	value, err := tc.checkExpression(s.Value)
	if err != nil {
		return nil, err
	}
	if value.Type != tc.returnType {
		if tc.returnType == VOID_TYPE_ID {
			return nil, object.ThrowAt("type/return/void", value.Span, tc.TypeName(value.Type))
		}
		return nil, object.ThrowAt("type/return/mismatch", value.Span,
			tc.TypeName(tc.returnType), tc.TypeName(value.Type))
	}
	return &CheckedReturn{Value: value}, nil
}

func (tc *Typechecker) checkBlock(b *ast.Block, kind BlockKind) (*CheckedBlock, *object.Error) {
	tc.pushScope()
	defer tc.popScope()
	statements := []CheckedStmt{}
	for _, s := range b.Statements {
		checked, err := tc.checkStatement(s)
		if err != nil {
			return nil, err
		}
		statements = append(statements, checked)
	}
	return &CheckedBlock{Kind: kind, Statements: statements}, nil
}

// EXPRESSIONS

func (tc *Typechecker) checkExpression(e ast.Expression) (*CheckedExpr, *object.Error) {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return &CheckedExpr{Kind: LiteralExpr, Type: INT_TYPE_ID, Span: e.GetSpan(),
			Value: &object.Integer{Value: e.Value}}, nil
	case *ast.FloatLiteral:
		return &CheckedExpr{Kind: LiteralExpr, Type: FLOAT_TYPE_ID, Span: e.GetSpan(),
			Value: &object.Float{Value: e.Value}}, nil
	case *ast.StringLiteral:
		return &CheckedExpr{Kind: LiteralExpr, Type: STRING_TYPE_ID, Span: e.GetSpan(),
			Value: &object.String{Value: e.Value}}, nil
	case *ast.BooleanLiteral:
		return &CheckedExpr{Kind: LiteralExpr, Type: BOOL_TYPE_ID, Span: e.GetSpan(),
			Value: object.MakeBool(e.Value)}, nil
	case *ast.Identifier:
		t, ok := tc.lookupVar(e.Value)
		if !ok {
			return nil, object.Throw("type/missing/var", e.Token, e.Value)
		}
		return &CheckedExpr{Kind: IdentifierExpr, Type: t, Span: e.GetSpan(), Name: e.Value}, nil
	case *ast.CallExpression:
		return tc.checkCall(e)
	case *ast.BuiltinCallExpression:
		return tc.checkBuiltinCall(e)
	case *ast.MethodCallExpression:
		return tc.checkMethodCall(e)
	case *ast.PrefixExpression:
		return tc.checkPrefixExpression(e)
	case *ast.InfixExpression:
		return tc.checkInfixExpression(e)
	default:
		// The parser produces no other expressions.
		return nil, object.Throw("err/misdirect", e.GetToken())
	}
}

func (tc *Typechecker) checkCall(e *ast.CallExpression) (*CheckedExpr, *object.Error) {
	id, ok := tc.FunctionByName(e.Name)
	if !ok {
		return nil, object.Throw("type/missing/fn", e.Token, e.Name)
	}
	fn := tc.functions[id]
	args, err := tc.checkArgs(e.Args, fn.Params, e.Name, "type/args/a", e.Span)
	if err != nil {
		return nil, err
	}
	return &CheckedExpr{Kind: CallExpr, Type: fn.ReturnType, Span: e.Span,
		Name: e.Name, Function: id, Args: args}, nil
}

func (tc *Typechecker) checkBuiltinCall(e *ast.BuiltinCallExpression) (*CheckedExpr, *object.Error) {
	b := builtins.Table[e.Builtin]
	if len(e.Args) != b.Arity {
		return nil, object.ThrowAt("type/args/b", e.Span, b.Name, b.Arity, len(e.Args))
	}
	args := []*CheckedExpr{}
	for _, a := range e.Args {
		checked, err := tc.checkExpression(a)
		if err != nil {
			return nil, err
		}
		if checked.Type == VOID_TYPE_ID {
			return nil, object.ThrowAt("type/void/arg", checked.Span)
		}
		args = append(args, checked)
	}
	returnType, _ := tc.typeIdByName(b.Returns)
	return &CheckedExpr{Kind: BuiltinCallExpr, Type: returnType, Span: e.Span,
		Name: b.Name, Builtin: e.Builtin, Args: args}, nil
}

func (tc *Typechecker) checkMethodCall(e *ast.MethodCallExpression) (*CheckedExpr, *object.Error) {
	receiver, err := tc.checkExpression(e.Receiver)
	if err != nil {
		return nil, err
	}
	i, ok := tc.methodByName(receiver.Type, e.Method)
	if !ok {
		return nil, object.Throw("type/missing/method", e.Token, e.Method, tc.TypeName(receiver.Type))
	}
	method := tc.types[receiver.Type].Methods[i]
	args, err := tc.checkArgs(e.Args, method.Params, e.Method, "type/args/c", e.Span)
	if err != nil {
		return nil, err
	}
	return &CheckedExpr{Kind: MethodCallExpr, Type: method.ReturnType, Span: e.Span,
		Name: e.Method, Receiver: receiver, OnType: receiver.Type, Method: i, Args: args}, nil
}

func (tc *Typechecker) checkArgs(args []ast.Expression, params []Param, callName string,
	arityErrorId string, span token.Span) ([]*CheckedExpr, *object.Error) {
	if len(args) != len(params) {
		return nil, object.ThrowAt(arityErrorId, span, callName, len(params), len(args))
	}
	checked := []*CheckedExpr{}
	for i, a := range args {
		arg, err := tc.checkExpression(a)
		if err != nil {
			return nil, err
		}
		if arg.Type == VOID_TYPE_ID {
			return nil, object.ThrowAt("type/void/arg", arg.Span)
		}
		if arg.Type != params[i].Type {
			return nil, object.ThrowAt("type/mismatch/d", arg.Span,
				tc.TypeName(params[i].Type), tc.TypeName(arg.Type))
		}
		checked = append(checked, arg)
	}
	return checked, nil
}

func (tc *Typechecker) checkPrefixExpression(e *ast.PrefixExpression) (*CheckedExpr, *object.Error) {
	operand, err := tc.checkExpression(e.Right)
	if err != nil {
		return nil, err
	}
	if operand.Type == VOID_TYPE_ID {
		return nil, object.ThrowAt("type/void/op", operand.Span, e.Operator)
	}
	resultType, err := tc.prefixResultType(e.Token.Type, operand.Type, e.Span)
	if err != nil {
		return nil, err
	}
	return &CheckedExpr{Kind: PrefixExpr, Type: resultType, Span: e.Span,
		Operator: e.Token.Type, Right: operand}, nil
}

func (tc *Typechecker) checkInfixExpression(e *ast.InfixExpression) (*CheckedExpr, *object.Error) {
	left, err := tc.checkExpression(e.Left)
	if err != nil {
		return nil, err
	}
	if left.Type == VOID_TYPE_ID {
		return nil, object.ThrowAt("type/void/op", left.Span, e.Operator)
	}
	right, err := tc.checkExpression(e.Right)
	if err != nil {
		return nil, err
	}
	if right.Type == VOID_TYPE_ID {
		return nil, object.ThrowAt("type/void/op", right.Span, e.Operator)
	}
	if left.Type != right.Type {
		return nil, object.ThrowAt("type/mismatch/c", right.Span,
			tc.TypeName(left.Type), tc.TypeName(right.Type))
	}
	resultType, err := tc.infixResultType(e.Token.Type, left.Type, e.Span)
	if err != nil {
		return nil, err
	}
	return &CheckedExpr{Kind: InfixExpr, Type: resultType, Span: e.Span,
		Operator: e.Token.Type, Left: left, Right: right}, nil
}

// infixResultType says what type an infix operator yields on two operands of
// the same given type, or that it isn't defined on that type at all. The
// comparisons yield bool whatever they compare.
func (tc *Typechecker) infixResultType(op token.TokenType, operand TypeId, span token.Span) (TypeId, *object.Error) {
	switch op {
	case token.PLUS:
		if operand == INT_TYPE_ID || operand == FLOAT_TYPE_ID || operand == STRING_TYPE_ID {
			return operand, nil
		}
	case token.MINUS, token.ASTERISK, token.SLASH:
		if operand == INT_TYPE_ID || operand == FLOAT_TYPE_ID {
			return operand, nil
		}
	case token.PERCENT:
		if operand == INT_TYPE_ID {
			return operand, nil
		}
	case token.LT, token.LT_EQ, token.GT, token.GT_EQ:
		if operand == INT_TYPE_ID || operand == FLOAT_TYPE_ID {
			return BOOL_TYPE_ID, nil
		}
	case token.EQ, token.NOT_EQ:
		return BOOL_TYPE_ID, nil
	case token.AND, token.OR:
		if operand == BOOL_TYPE_ID {
			return BOOL_TYPE_ID, nil
		}
	}
	return 0, object.ThrowAt("type/op/infix", span, string(op), tc.TypeName(operand))
}

func (tc *Typechecker) prefixResultType(op token.TokenType, operand TypeId, span token.Span) (TypeId, *object.Error) {
	switch op {
	case token.PLUS, token.MINUS:
		if operand == INT_TYPE_ID || operand == FLOAT_TYPE_ID {
			return operand, nil
		}
	case token.BANG:
		if operand == BOOL_TYPE_ID {
			return BOOL_TYPE_ID, nil
		}
	}
	return 0, object.ThrowAt("type/op/prefix", span, string(op), tc.TypeName(operand))
}

// DEFINITE RETURN

// blockDefinitelyReturns says whether every path through the block ends in a
// 'return'. An 'if' counts when both of its branches return; a 'loop' counts
// when it contains no 'break', since returning is then the only way out.
func blockDefinitelyReturns(b *CheckedBlock) bool {
	for _, s := range b.Statements {
		if stmtDefinitelyReturns(s) {
			return true
		}
	}
	return false
}

func stmtDefinitelyReturns(s CheckedStmt) bool {
	switch s := s.(type) {
	case *CheckedReturn:
		return true
	case *CheckedBlock:
		return blockDefinitelyReturns(s)
	case *CheckedIf:
		return s.Alternative != nil &&
			blockDefinitelyReturns(s.Consequence) &&
			blockDefinitelyReturns(s.Alternative)
	case *CheckedLoop:
		return !loopCanBreak(s.Body)
	default:
		return false
	}
}

// loopCanBreak looks for a 'break' belonging to this loop: one not inside
// some further nested loop, whose breaks are its own business.
func loopCanBreak(b *CheckedBlock) bool {
	for _, s := range b.Statements {
		switch s := s.(type) {
		case *CheckedBreak:
			return true
		case *CheckedBlock:
			if loopCanBreak(s) {
				return true
			}
		case *CheckedIf:
			if loopCanBreak(s.Consequence) {
				return true
			}
			if s.Alternative != nil && loopCanBreak(s.Alternative) {
				return true
			}
		}
	}
	return false
}

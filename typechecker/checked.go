package typechecker

import (
	"github.com/tim-hardcastle/Minnow/builtins"
	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/token"
)

// A TypeId is an index into the typechecker's type table, and a FunctionId
// an index into its function table. The first five rows of the type table
// are fixed, so the built-in types can be referred to by these constants.
type TypeId int
type FunctionId int

const (
	VOID_TYPE_ID   TypeId = 0
	INT_TYPE_ID    TypeId = 1
	FLOAT_TYPE_ID  TypeId = 2
	STRING_TYPE_ID TypeId = 3
	BOOL_TYPE_ID   TypeId = 4
)

// A Type is a row in the type table: its name, plus whatever methods
// 'extend' blocks have hung on it.
type Type struct {
	Name    string
	Methods []*CheckedFunction
}

// A CheckedFunction is a function or method with its signature resolved to
// TypeIds and its body checked. Between the registration pass and the
// body-checking pass the Body is nil.
type CheckedFunction struct {
	Name       string
	Params     []Param
	ReturnType TypeId
	Body       *CheckedBlock
}

type Param struct {
	Name string
	Type TypeId
}

// The kind of a block decides which control-flow signals stop at it when
// the evaluator runs it: a Function scope catches Return, a Loop scope
// catches Break and Continue, a Regular scope catches nothing.
type BlockKind int

const (
	RegularBlock BlockKind = iota
	LoopBlock
	FunctionBlock
)

// CHECKED STATEMENTS

type CheckedStmt interface {
	checkedStmt()
}

type CheckedLet struct {
	Name  string
	Type  TypeId
	Value *CheckedExpr
}

type CheckedAssignment struct {
	Name  string
	Value *CheckedExpr
}

type CheckedIf struct {
	Condition   *CheckedExpr
	Consequence *CheckedBlock
	Alternative *CheckedBlock // nil when there is no 'else'
}

type CheckedLoop struct {
	Body *CheckedBlock
}

type CheckedBlock struct {
	Kind       BlockKind
	Statements []CheckedStmt
}

type CheckedReturn struct {
	Value *CheckedExpr // nil for a bare 'return;'
}

type CheckedContinue struct{}

type CheckedBreak struct{}

type CheckedExprStmt struct {
	Value *CheckedExpr
}

func (*CheckedLet) checkedStmt()        {}
func (*CheckedAssignment) checkedStmt() {}
func (*CheckedIf) checkedStmt()         {}
func (*CheckedLoop) checkedStmt()       {}
func (*CheckedBlock) checkedStmt()      {}
func (*CheckedReturn) checkedStmt()     {}
func (*CheckedContinue) checkedStmt()   {}
func (*CheckedBreak) checkedStmt()      {}
func (*CheckedExprStmt) checkedStmt()   {}

// CHECKED EXPRESSIONS

type ExprKind int

const (
	LiteralExpr ExprKind = iota
	IdentifierExpr
	CallExpr
	BuiltinCallExpr
	MethodCallExpr
	PrefixExpr
	InfixExpr
)

// A CheckedExpr is one struct for all the expression kinds, in the manner
// of a tagged union: Kind says which of the other fields mean anything.
// Every checked expression knows its type and keeps its span, which is
// what execution errors point at.
type CheckedExpr struct {
	Kind ExprKind
	Type TypeId
	Span token.Span

	Value    object.Object      // LiteralExpr: the value, made once at check time
	Name     string             // IdentifierExpr; also kept on the calls for messages
	Operator token.TokenType    // PrefixExpr, InfixExpr
	Left     *CheckedExpr       // InfixExpr
	Right    *CheckedExpr       // InfixExpr; also the operand of PrefixExpr
	Function FunctionId         // CallExpr
	Builtin  builtins.BuiltinId // BuiltinCallExpr
	Receiver *CheckedExpr       // MethodCallExpr
	OnType   TypeId             // MethodCallExpr: the receiver's type
	Method   int                // MethodCallExpr: index into OnType's methods
	Args     []*CheckedExpr     // the three call kinds
}

package ast

import (
	"bytes"

	"github.com/tim-hardcastle/Minnow/builtins"
	"github.com/tim-hardcastle/Minnow/token"
)

// The base Node interface. Every node keeps the token that began it and the
// span of source text it covers; composite nodes span from their first token
// to the end of their last.
type Node interface {
	GetToken() token.Token
	GetSpan() token.Span
	String() string
}

// The three grammatical classes. Items live at the top level of a script;
// statements live in blocks; expressions live in statements.
type Item interface {
	Node
	itemNode()
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// ITEMS

type FnItem struct {
	Token      token.Token // the 'fn' token
	Name       *Identifier
	Params     []*Param
	ReturnType *TypeLiteral
	Body       *Block
	Span       token.Span
}

func (fi *FnItem) itemNode()             {}
func (fi *FnItem) GetToken() token.Token { return fi.Token }
func (fi *FnItem) GetSpan() token.Span   { return fi.Span }
func (fi *FnItem) String() string {
	var out bytes.Buffer
	out.WriteString("fn " + fi.Name.Value + "(")
	for i, p := range fi.Params {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.String())
	}
	out.WriteString(") -> " + fi.ReturnType.Value + " ")
	out.WriteString(fi.Body.String())
	return out.String()
}

// A Param is a typed parameter declaration, type first, like 'let'.
type Param struct {
	Type *TypeLiteral
	Name *Identifier
}

func (p *Param) String() string { return p.Type.Value + " " + p.Name.Value }

type ExtendItem struct {
	Token   token.Token // the 'extend' token
	Type    *TypeLiteral
	Methods []*FnItem
	Span    token.Span
}

func (ei *ExtendItem) itemNode()             {}
func (ei *ExtendItem) GetToken() token.Token { return ei.Token }
func (ei *ExtendItem) GetSpan() token.Span   { return ei.Span }
func (ei *ExtendItem) String() string {
	var out bytes.Buffer
	out.WriteString("extend " + ei.Type.Value + " {")
	for _, m := range ei.Methods {
		out.WriteString(" " + m.String())
	}
	out.WriteString(" }")
	return out.String()
}

// STATEMENTS

type LetStatement struct {
	Token token.Token // the 'let' token
	Type  *TypeLiteral
	Name  *Identifier
	Value Expression
	Span  token.Span
}

func (ls *LetStatement) statementNode()        {}
func (ls *LetStatement) GetToken() token.Token { return ls.Token }
func (ls *LetStatement) GetSpan() token.Span   { return ls.Span }
func (ls *LetStatement) String() string {
	return "let " + ls.Type.Value + " " + ls.Name.Value + " = " + ls.Value.String() + ";"
}

type AssignmentStatement struct {
	Token token.Token // the name being assigned to
	Name  *Identifier
	Value Expression
	Span  token.Span
}

func (as *AssignmentStatement) statementNode()        {}
func (as *AssignmentStatement) GetToken() token.Token { return as.Token }
func (as *AssignmentStatement) GetSpan() token.Span   { return as.Span }
func (as *AssignmentStatement) String() string {
	return as.Name.Value + " = " + as.Value.String() + ";"
}

type IfStatement struct {
	Token       token.Token // the 'if' token
	Condition   Expression
	Consequence *Block
	Alternative *Block // nil when there is no 'else'
	Span        token.Span
}

func (is *IfStatement) statementNode()        {}
func (is *IfStatement) GetToken() token.Token { return is.Token }
func (is *IfStatement) GetSpan() token.Span   { return is.Span }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if " + is.Condition.String() + " " + is.Consequence.String())
	if is.Alternative != nil {
		out.WriteString(" else " + is.Alternative.String())
	}
	return out.String()
}

type LoopStatement struct {
	Token token.Token // the 'loop' token
	Body  *Block
	Span  token.Span
}

func (ls *LoopStatement) statementNode()        {}
func (ls *LoopStatement) GetToken() token.Token { return ls.Token }
func (ls *LoopStatement) GetSpan() token.Span   { return ls.Span }
func (ls *LoopStatement) String() string        { return "loop " + ls.Body.String() }

type ReturnStatement struct {
	Token token.Token // the 'return' token
	Value Expression  // nil for a bare 'return;'
	Span  token.Span
}

func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }
func (rs *ReturnStatement) GetSpan() token.Span   { return rs.Span }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}

type ContinueStatement struct {
	Token token.Token
	Span  token.Span
}

func (cs *ContinueStatement) statementNode()        {}
func (cs *ContinueStatement) GetToken() token.Token { return cs.Token }
func (cs *ContinueStatement) GetSpan() token.Span   { return cs.Span }
func (cs *ContinueStatement) String() string        { return "continue;" }

type BreakStatement struct {
	Token token.Token
	Span  token.Span
}

func (bs *BreakStatement) statementNode()        {}
func (bs *BreakStatement) GetToken() token.Token { return bs.Token }
func (bs *BreakStatement) GetSpan() token.Span   { return bs.Span }
func (bs *BreakStatement) String() string        { return "break;" }

// A Block is itself a statement: a bare '{ ... }' opens a fresh scope.
type Block struct {
	Token      token.Token // the '{' token
	Statements []Statement
	Span       token.Span
}

func (b *Block) statementNode()        {}
func (b *Block) GetToken() token.Token { return b.Token }
func (b *Block) GetSpan() token.Span   { return b.Span }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for _, s := range b.Statements {
		out.WriteString(" " + s.String())
	}
	out.WriteString(" }")
	return out.String()
}

type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
	Span       token.Span
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }
func (es *ExpressionStatement) GetSpan() token.Span   { return es.Span }
func (es *ExpressionStatement) String() string        { return es.Expression.String() + ";" }

// EXPRESSIONS

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) GetSpan() token.Span   { return i.Token.Span }
func (i *Identifier) String() string        { return i.Value }

// A TypeLiteral is a type name in a declaring position: after 'let', in a
// parameter, after '->', or after 'extend'.
type TypeLiteral struct {
	Token token.Token
	Value string
}

func (t *TypeLiteral) expressionNode()       {}
func (t *TypeLiteral) GetToken() token.Token { return t.Token }
func (t *TypeLiteral) GetSpan() token.Span   { return t.Token.Span }
func (t *TypeLiteral) String() string        { return t.Value }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }
func (il *IntegerLiteral) GetSpan() token.Span   { return il.Token.Span }
func (il *IntegerLiteral) String() string        { return il.Token.Literal }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }
func (fl *FloatLiteral) GetSpan() token.Span   { return fl.Token.Span }
func (fl *FloatLiteral) String() string        { return fl.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string // the contents, without the quotes
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }
func (sl *StringLiteral) GetSpan() token.Span   { return sl.Token.Span }
func (sl *StringLiteral) String() string        { return sl.Token.Literal }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }
func (bl *BooleanLiteral) GetSpan() token.Span   { return bl.Token.Span }
func (bl *BooleanLiteral) String() string        { return bl.Token.Literal }

type PrefixExpression struct {
	Token    token.Token // the operator token
	Operator string
	Right    Expression
	Span     token.Span
}

func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }
func (pe *PrefixExpression) GetSpan() token.Span   { return pe.Span }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

type InfixExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
	Span     token.Span
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }
func (ie *InfixExpression) GetSpan() token.Span   { return ie.Span }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

type CallExpression struct {
	Token token.Token // the function name
	Name  string
	Args  []Expression
	Span  token.Span
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) GetToken() token.Token { return ce.Token }
func (ce *CallExpression) GetSpan() token.Span   { return ce.Span }
func (ce *CallExpression) String() string {
	return ce.Name + stringArgs(ce.Args)
}

// A call to a name in the builtin table becomes a BuiltinCallExpression at
// parse time; nothing downstream ever looks a builtin up by name again.
type BuiltinCallExpression struct {
	Token   token.Token // the builtin's name
	Builtin builtins.BuiltinId
	Name    string
	Args    []Expression
	Span    token.Span
}

func (bc *BuiltinCallExpression) expressionNode()       {}
func (bc *BuiltinCallExpression) GetToken() token.Token { return bc.Token }
func (bc *BuiltinCallExpression) GetSpan() token.Span   { return bc.Span }
func (bc *BuiltinCallExpression) String() string {
	return bc.Name + stringArgs(bc.Args)
}

type MethodCallExpression struct {
	Token    token.Token // the method's name
	Receiver Expression
	Method   string
	Args     []Expression
	Span     token.Span
}

func (mc *MethodCallExpression) expressionNode()       {}
func (mc *MethodCallExpression) GetToken() token.Token { return mc.Token }
func (mc *MethodCallExpression) GetSpan() token.Span   { return mc.Span }
func (mc *MethodCallExpression) String() string {
	return mc.Receiver.String() + "." + mc.Method + stringArgs(mc.Args)
}

func stringArgs(args []Expression) string {
	var out bytes.Buffer
	out.WriteString("(")
	for i, a := range args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(a.String())
	}
	out.WriteString(")")
	return out.String()
}

// The parser is recursive-descent for items and statements, and Pratt-style
// precedence climbing for expressions. It is fail-fast: the first error wins,
// there is no recovery and no harvest of further errors from a script already
// known to be bad.
//
// Infix operators carry a pair of binding powers, one for each side; the
// left power decides whether the operator captures the expression so far, the
// right power is the floor for parsing its right operand. Making the right
// power the higher of the two is what makes every operator left-associative.
package parser

import (
	"strconv"

	"github.com/tim-hardcastle/Minnow/ast"
	"github.com/tim-hardcastle/Minnow/builtins"
	"github.com/tim-hardcastle/Minnow/lexer"
	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/source"
	"github.com/tim-hardcastle/Minnow/token"
)

var bindingPowers = map[token.TokenType][2]int{
	token.OR:       {1, 2},
	token.AND:      {3, 4},
	token.EQ:       {5, 6},
	token.NOT_EQ:   {5, 6},
	token.LT:       {7, 8},
	token.LT_EQ:    {7, 8},
	token.GT:       {7, 8},
	token.GT_EQ:    {7, 8},
	token.PLUS:     {9, 10},
	token.MINUS:    {9, 10},
	token.ASTERISK: {11, 12},
	token.SLASH:    {11, 12},
	token.PERCENT:  {11, 12},
}

// The prefix operators bind tighter than any infix operator, so -a * b is
// (-a) * b.
const prefixBindingPower = 50

type Parser struct {
	src       *source.Source
	lex       *lexer.Lexer
	curToken  token.Token
	peekToken token.Token
}

func New(src *source.Source) *Parser {
	p := &Parser{src: src, lex: lexer.New(src)}
	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	for {
		tok := p.lex.NextToken()
		if tok.Type != token.WHITESPACE && tok.Type != token.COMMENT {
			p.peekToken = tok
			return
		}
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expect advances onto the next token if it is of the wanted type, and
// otherwise makes the error for it.
func (p *Parser) expect(t token.TokenType) *object.Error {
	if p.peekTokenIs(t) {
		p.nextToken()
		return nil
	}
	return p.unexpected(p.peekToken, describeType(t))
}

// unexpected sorts the offending token into the right error for it: error
// tokens and end-of-file each get their own, and the rest get "unexpected
// token", with or without a note of what was wanted instead.
func (p *Parser) unexpected(tok token.Token, expected string) *object.Error {
	switch {
	case tok.Type == token.ERROR:
		return object.Throw("parse/token", tok, tok.Literal)
	case tok.Type == token.EOF && expected == "":
		return object.Throw("parse/eof/a", tok)
	case tok.Type == token.EOF:
		return object.Throw("parse/eof/b", tok, expected)
	case expected == "":
		return object.Throw("parse/unexpected", tok, tok.Literal)
	default:
		return object.Throw("parse/expected", tok, tok.Literal, expected)
	}
}

func describeType(t token.TokenType) string {
	if t == token.IDENT {
		return "identifier"
	}
	return string(t)
}

// ITEMS

// ParseTopLevel parses a whole script: a sequence of 'fn' and 'extend'
// items running up to end of file.
func (p *Parser) ParseTopLevel() ([]ast.Item, *object.Error) {
	items := []ast.Item{}
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.FN:
			item, err := p.parseFnItem()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		case token.EXTEND:
			item, err := p.parseExtendItem()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		default:
			return nil, p.unexpected(p.curToken, "fn")
		}
		p.nextToken()
	}
	return items, nil
}

func (p *Parser) parseFnItem() (*ast.FnItem, *object.Error) {
	fnToken := p.curToken
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params := []*ast.Param{}
	if !p.peekTokenIs(token.RPAREN) {
		for {
			if err := p.expect(token.IDENT); err != nil {
				return nil, err
			}
			ptype := &ast.TypeLiteral{Token: p.curToken, Value: p.curToken.Literal}
			if err := p.expect(token.IDENT); err != nil {
				return nil, err
			}
			pname := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			params = append(params, &ast.Param{Type: ptype, Name: pname})
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if err := p.expect(token.RIGHTARROW); err != nil {
		return nil, err
	}
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	returnType := &ast.TypeLiteral{Token: p.curToken, Value: p.curToken.Literal}
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FnItem{Token: fnToken, Name: name, Params: params, ReturnType: returnType,
		Body: body, Span: token.Span{Start: fnToken.Span.Start, End: body.Span.End}}, nil
}

func (p *Parser) parseExtendItem() (*ast.ExtendItem, *object.Error) {
	extendToken := p.curToken
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	extendedType := &ast.TypeLiteral{Token: p.curToken, Value: p.curToken.Literal}
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	methods := []*ast.FnItem{}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if !p.curTokenIs(token.FN) {
			return nil, p.unexpected(p.curToken, "fn")
		}
		method, err := p.parseFnItem()
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
		p.nextToken()
	}
	return &ast.ExtendItem{Token: extendToken, Type: extendedType, Methods: methods,
		Span: token.Span{Start: extendToken.Span.Start, End: p.curToken.Span.End}}, nil
}

// STATEMENTS

// Each parse method comes in on its first token and goes out on its last,
// the terminating ';' or '}'; it is parseBlock that moves between statements.
func (p *Parser) parseStatement() (ast.Statement, *object.Error) {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.LOOP:
		return p.parseLoopStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken, Span: p.curToken.Span}
		return p.terminate(stmt, &stmt.Span)
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken, Span: p.curToken.Span}
		return p.terminate(stmt, &stmt.Span)
	case token.LBRACE:
		return p.parseBlock()
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			return p.parseAssignmentStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// terminate eats the trailing ';' of a simple statement and stretches the
// statement's span over it.
func (p *Parser) terminate(stmt ast.Statement, span *token.Span) (ast.Statement, *object.Error) {
	if err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	span.End = p.curToken.Span.End
	return stmt, nil
}

func (p *Parser) parseLetStatement() (ast.Statement, *object.Error) {
	letToken := p.curToken
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	letType := &ast.TypeLiteral{Token: p.curToken, Value: p.curToken.Literal}
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	p.nextToken()
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	stmt := &ast.LetStatement{Token: letToken, Type: letType, Name: name, Value: value,
		Span: token.Span{Start: letToken.Span.Start}}
	return p.terminate(stmt, &stmt.Span)
}

func (p *Parser) parseAssignmentStatement() (ast.Statement, *object.Error) {
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken() // onto the '='
	p.nextToken()
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	stmt := &ast.AssignmentStatement{Token: name.Token, Name: name, Value: value,
		Span: token.Span{Start: name.Token.Span.Start}}
	return p.terminate(stmt, &stmt.Span)
}

func (p *Parser) parseIfStatement() (ast.Statement, *object.Error) {
	ifToken := p.curToken
	p.nextToken()
	condition, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	consequence, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Token: ifToken, Condition: condition, Consequence: consequence,
		Span: token.Span{Start: ifToken.Span.Start, End: consequence.Span.End}}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if err := p.expect(token.LBRACE); err != nil {
			return nil, err
		}
		alternative, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Alternative = alternative
		stmt.Span.End = alternative.Span.End
	}
	return stmt, nil
}

func (p *Parser) parseLoopStatement() (ast.Statement, *object.Error) {
	loopToken := p.curToken
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.LoopStatement{Token: loopToken, Body: body,
		Span: token.Span{Start: loopToken.Span.Start, End: body.Span.End}}, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, *object.Error) {
	returnToken := p.curToken
	stmt := &ast.ReturnStatement{Token: returnToken, Span: returnToken.Span}
	if p.peekTokenIs(token.SEMICOLON) {
		return p.terminate(stmt, &stmt.Span)
	}
	p.nextToken()
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	stmt.Value = value
	return p.terminate(stmt, &stmt.Span)
}

func (p *Parser) parseBlock() (*ast.Block, *object.Error) {
	block := &ast.Block{Token: p.curToken, Statements: []ast.Statement{},
		Span: token.Span{Start: p.curToken.Span.Start}}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			return nil, p.unexpected(p.curToken, "}")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}
	block.Span.End = p.curToken.Span.End
	return block, nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, *object.Error) {
	first := p.curToken
	expression, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	stmt := &ast.ExpressionStatement{Token: first, Expression: expression,
		Span: token.Span{Start: first.Span.Start}}
	return p.terminate(stmt, &stmt.Span)
}

// EXPRESSIONS

func (p *Parser) parseExpression(minPower int) (ast.Expression, *object.Error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		powers, ok := bindingPowers[p.peekToken.Type]
		if !ok || powers[0] < minPower {
			return left, nil
		}
		p.nextToken()
		opToken := p.curToken
		p.nextToken()
		right, err := p.parseExpression(powers[1])
		if err != nil {
			return nil, err
		}
		left = &ast.InfixExpression{Token: opToken, Left: left, Operator: opToken.Literal, Right: right,
			Span: token.Span{Start: left.GetSpan().Start, End: right.GetSpan().End}}
	}
}

func (p *Parser) parsePrefix() (ast.Expression, *object.Error) {
	switch p.curToken.Type {
	case token.INT:
		return p.parseIntegerLiteral()
	case token.FLOAT:
		return p.parseFloatLiteral()
	case token.STRING:
		lit := p.curToken.Literal
		return &ast.StringLiteral{Token: p.curToken, Value: lit[1 : len(lit)-1]}, nil
	case token.BOOL:
		return &ast.BooleanLiteral{Token: p.curToken, Value: p.curToken.Literal == "true"}, nil
	case token.IDENT:
		return p.parseName()
	case token.LPAREN:
		p.nextToken()
		expression, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expression, nil
	case token.PLUS, token.MINUS, token.BANG:
		opToken := p.curToken
		p.nextToken()
		right, err := p.parseExpression(prefixBindingPower)
		if err != nil {
			return nil, err
		}
		return &ast.PrefixExpression{Token: opToken, Operator: opToken.Literal, Right: right,
			Span: token.Span{Start: opToken.Span.Start, End: right.GetSpan().End}}, nil
	case token.ERROR:
		return nil, object.Throw("parse/token", p.curToken, p.curToken.Literal)
	case token.EOF:
		return nil, object.Throw("parse/eof/a", p.curToken)
	default:
		return nil, object.Throw("parse/expr/start", p.curToken, p.curToken.Literal)
	}
}

// parseName handles everything that begins with an identifier: a function
// call, a method call on an identifier, or a plain variable.
func (p *Parser) parseName() (ast.Expression, *object.Error) {
	nameToken := p.curToken
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		span := token.Span{Start: nameToken.Span.Start, End: p.curToken.Span.End}
		if id, ok := builtins.FromName(nameToken.Literal); ok {
			return &ast.BuiltinCallExpression{Token: nameToken, Builtin: id,
				Name: nameToken.Literal, Args: args, Span: span}, nil
		}
		return &ast.CallExpression{Token: nameToken, Name: nameToken.Literal,
			Args: args, Span: span}, nil
	}
	if p.peekTokenIs(token.DOT) {
		receiver := &ast.Identifier{Token: nameToken, Value: nameToken.Literal}
		p.nextToken() // onto the '.'
		if err := p.expect(token.IDENT); err != nil {
			return nil, err
		}
		methodToken := p.curToken
		if err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return &ast.MethodCallExpression{Token: methodToken, Receiver: receiver,
			Method: methodToken.Literal, Args: args,
			Span: token.Span{Start: nameToken.Span.Start, End: p.curToken.Span.End}}, nil
	}
	return &ast.Identifier{Token: nameToken, Value: nameToken.Literal}, nil
}

// parseCallArgs comes in on the '(' and goes out on the ')'.
func (p *Parser) parseCallArgs() ([]ast.Expression, *object.Error) {
	args := []ast.Expression{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args, nil
	}
	for {
		p.nextToken()
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, *object.Error) {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		return nil, object.Throw("parse/int", p.curToken, p.curToken.Literal)
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}, nil
}

func (p *Parser) parseFloatLiteral() (ast.Expression, *object.Error) {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		return nil, object.Throw("parse/float", p.curToken, p.curToken.Literal)
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}, nil
}

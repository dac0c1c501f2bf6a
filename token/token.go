package token

type TokenType string

const (
	ERROR      = "ERROR" // a run of source no rule could match
	EOF        = "EOF"
	WHITESPACE = "WHITESPACE"
	COMMENT    = "COMMENT" // // foo bar zort troz

	// Identifiers + literals
	IDENT  = "IDENT"  // add, foobar, x, y, ...
	INT    = "int"    // 1343456
	FLOAT  = "float"  // 1.23
	STRING = "string" // "foo"
	BOOL   = "bool"   // true, false

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	BANG     = "!"

	EQ     = "=="
	NOT_EQ = "!="
	LT     = "<"
	GT     = ">"
	LT_EQ  = "<="
	GT_EQ  = ">="
	AND    = "&&"
	OR     = "||"

	RIGHTARROW = "->"

	// Punctuation
	DOT       = "."
	COMMA     = ","
	SEMICOLON = ";"

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"
	LBRACK = "["
	RBRACK = "]"

	// Keywords
	FN       = "fn"
	LET      = "let"
	IF       = "if"
	ELSE     = "else"
	LOOP     = "loop"
	RETURN   = "return"
	CONTINUE = "continue"
	BREAK    = "break"
	EXTEND   = "extend"
)

// A Span is a half-open range of byte offsets into the source text. The
// EOF token gets the empty span at the end of the input.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

type Token struct {
	Type    TokenType
	Literal string
	Span    Span
}

// The lexer works through the source text with a fixed, ordered list of rules.
// Every rule is tried against the text at the current position and says how many
// bytes it could consume there; the longest match wins, and a tie goes to
// whichever rule comes first in the list. This is why the keyword rules sit
// above the identifier rule: on `loop` they tie at four bytes and the keyword
// wins, while on `loopy` the identifier rule wins outright at five.
//
// Punctuation that can't begin anything longer is looked up directly in a byte
// table and never goes through the rules at all. A byte that satisfies neither
// the table nor any rule begins an ERROR token, which swallows everything up to
// the next position where something does match; the parser turns that into a
// diagnostic, so a bad character can never crash the pipeline.
//
// The lexer is forward-only and is not restartable: to scan the same source
// twice, make a new Lexer.
package lexer

import (
	"strings"

	"github.com/tim-hardcastle/Minnow/source"
	"github.com/tim-hardcastle/Minnow/token"
)

type Lexer struct {
	src  *source.Source
	text string
	pos  int
}

func New(src *source.Source) *Lexer {
	return &Lexer{src: src, text: src.Text()}
}

// A rule reports how many bytes it matches at the start of s, 0 for no match.
type rule struct {
	ttype token.TokenType
	match func(s string) int
}

func literalRule(ttype token.TokenType, lit string) rule {
	return rule{ttype, func(s string) int {
		if strings.HasPrefix(s, lit) {
			return len(lit)
		}
		return 0
	}}
}

// The order of this list is load-bearing: see the comment at the top of the file.
var rules = []rule{
	literalRule(token.MINUS, "-"),
	literalRule(token.BANG, "!"),
	literalRule(token.ASSIGN, "="),
	literalRule(token.LT, "<"),
	literalRule(token.GT, ">"),
	literalRule(token.PERCENT, "%"),
	literalRule(token.SLASH, "/"),
	{token.COMMENT, matchComment},
	{token.WHITESPACE, matchWhitespace},
	literalRule(token.EQ, "=="),
	literalRule(token.NOT_EQ, "!="),
	literalRule(token.AND, "&&"),
	literalRule(token.OR, "||"),
	literalRule(token.LT_EQ, "<="),
	literalRule(token.GT_EQ, ">="),
	literalRule(token.RIGHTARROW, "->"),
	literalRule(token.EXTEND, "extend"),
	literalRule(token.FN, "fn"),
	literalRule(token.LET, "let"),
	literalRule(token.IF, "if"),
	literalRule(token.ELSE, "else"),
	literalRule(token.LOOP, "loop"),
	literalRule(token.RETURN, "return"),
	literalRule(token.CONTINUE, "continue"),
	literalRule(token.BREAK, "break"),
	literalRule(token.BOOL, "true"),
	literalRule(token.BOOL, "false"),
	{token.STRING, matchString},
	{token.FLOAT, matchFloat},
	{token.INT, matchInt},
	{token.IDENT, matchIdent},
}

// Characters that are tokens all by themselves and can't begin anything longer.
var punctuation = map[byte]token.TokenType{
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'[': token.LBRACK,
	']': token.RBRACK,
	';': token.SEMICOLON,
	'.': token.DOT,
	',': token.COMMA,
	'+': token.PLUS,
	'*': token.ASTERISK,
}

// NextToken returns the next token in the source, including WHITESPACE and
// COMMENT tokens, which it is the caller's business to filter out. Once the
// input is exhausted it returns the EOF token, whose span is the empty span
// at the end of the text, and goes on returning it however often it's asked.
func (l *Lexer) NextToken() token.Token {
	if l.pos >= len(l.text) {
		return token.Token{Type: token.EOF, Literal: "", Span: l.src.EOFSpan()}
	}
	if ttype, ok := punctuation[l.text[l.pos]]; ok {
		tok := token.Token{Type: ttype, Literal: l.text[l.pos : l.pos+1],
			Span: token.Span{Start: l.pos, End: l.pos + 1}}
		l.pos++
		return tok
	}
	ttype, length := matchAt(l.text[l.pos:])
	if length == 0 {
		return l.errorToken()
	}
	tok := token.Token{Type: ttype, Literal: l.text[l.pos : l.pos+length],
		Span: token.Span{Start: l.pos, End: l.pos + length}}
	l.pos += length
	return tok
}

// Tokenize drains the lexer, up to and including the EOF token.
func (l *Lexer) Tokenize() []token.Token {
	result := []token.Token{}
	for {
		tok := l.NextToken()
		result = append(result, tok)
		if tok.Type == token.EOF {
			return result
		}
	}
}

func matchAt(s string) (token.TokenType, int) {
	best, bestLength := token.TokenType(token.ERROR), 0
	for _, r := range rules {
		if n := r.match(s); n > bestLength {
			best, bestLength = r.ttype, n
		}
	}
	return best, bestLength
}

// errorToken consumes everything from the current position up to the next
// position at which some rule or punctuation byte matches, or end of input.
func (l *Lexer) errorToken() token.Token {
	start := l.pos
	for l.pos < len(l.text) {
		if _, ok := punctuation[l.text[l.pos]]; ok {
			break
		}
		if _, length := matchAt(l.text[l.pos:]); length > 0 {
			break
		}
		l.pos++
	}
	return token.Token{Type: token.ERROR, Literal: l.text[start:l.pos],
		Span: token.Span{Start: start, End: l.pos}}
}

func matchWhitespace(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func matchComment(s string) int {
	if !strings.HasPrefix(s, "//") {
		return 0
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return i
	}
	return len(s)
}

// A string literal runs from one '"' to the next: there are no escape
// sequences. An unterminated string matches nothing, so the lone '"' falls
// through to the error-token path.
func matchString(s string) int {
	if s[0] != '"' {
		return 0
	}
	if i := strings.IndexByte(s[1:], '"'); i >= 0 {
		return i + 2
	}
	return 0
}

// A float needs digits on both sides of the point, so `3.` is an int
// followed by a dot.
func matchFloat(s string) int {
	whole := matchInt(s)
	if whole == 0 || whole >= len(s) || s[whole] != '.' {
		return 0
	}
	frac := matchInt(s[whole+1:])
	if frac == 0 {
		return 0
	}
	return whole + 1 + frac
}

func matchInt(s string) int {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func matchIdent(s string) int {
	if !isLetter(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && (isLetter(s[i]) || isDigit(s[i])) {
		i++
	}
	return i
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

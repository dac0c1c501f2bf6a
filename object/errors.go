package object

import (
	"github.com/tim-hardcastle/Minnow/token"
)

// An ErrorCreator pairs the terse message shown when an error is thrown
// with the longer explanation shown by 'hub why'.
type ErrorCreator struct {
	Message     func(tok token.Token, args ...any) string
	Explanation func(errors Errors, pos int, tok token.Token, args ...any) string
}

type Errors []*Error

// Throw creates an error from the catalog. Every error the pipeline can
// return to a user passes through here; an id missing from the catalog is
// a bug in the error system itself.
func Throw(errorId string, tok token.Token, args ...any) *Error {
	creator, ok := ErrorCreatorMap[errorId]
	if !ok {
		return &Error{ErrorId: "err/misdirect", Message: "the error system has failed", Info: []any{errorId}, Token: tok}
	}
	return &Error{ErrorId: errorId, Message: creator.Message(tok, args...), Info: args, Token: tok}
}

// ThrowAt is Throw for the stages past the parser, which mostly have a span
// in hand rather than a token.
func ThrowAt(errorId string, span token.Span, args ...any) *Error {
	return Throw(errorId, token.Token{Span: span}, args...)
}

// Explain reruns an error through its Explanation closure.
func Explain(e *Error) string {
	creator, ok := ErrorCreatorMap[e.ErrorId]
	if !ok {
		return "There is no explanation on record for this error, which shouldn't happen. Please report this as a bug."
	}
	return creator.Explanation(Errors{e}, 0, e.Token, e.Info...)
}

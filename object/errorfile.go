package object

import (
	"fmt"

	"github.com/tim-hardcastle/Minnow/token"
)

// A map from error identifiers to functions that supply the corresponding error
// messages and explanations.
//
// Errors in the map are in alphabetical order of their identifiers.
//
// Major categories are err, eval, parse, and type.
//
// Two otherwise identical errors thrown in different places in the Go code must
// be assigned different identifiers, if only by suffixing /a, /b, etc to the
// identifier, so that an error identifier always picks out a unique point in
// the Minnow code.

var ErrorCreatorMap = map[string]ErrorCreator{

	// TEMPLATE
	"": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return ""
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return ""
		},
	},

	"err/misdirect": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "the error system has failed: please report this as a bug"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "You tripped over an error so unexpected that the error system has no record of it. " +
				"This is an error in Minnow itself rather than in your script, and the maintainers would " +
				"be grateful if you reported it."
		},
	},

	"eval/div/zero": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Division by zero"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The right-hand side of an integer division worked out as zero at runtime. Since " +
				"'x * 0 == y * 0' for any integers 'x' and 'y', there is no right answer Minnow could " +
				"give you, so it throws this error instead."
		},
	},

	"eval/fn/missing": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "No function found with name: `" + args[0].(string) + "`"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The evaluator was asked to run a function that isn't in the function table. " +
				"The typechecker should have caught this long before the evaluator saw it, so this " +
				"is an error in Minnow itself rather than in your script, and the maintainers would " +
				"be grateful if you reported it."
		},
	},

	"eval/main/missing": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "No main function found"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "A Minnow script starts running at a function called 'main', taking no parameters " +
				"and returning 'void'. Without one there is nowhere to start, so the script won't run."
		},
	},

	"eval/mod/zero": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Modulo by zero"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The right-hand side of a '%' operation worked out as zero at runtime, and the " +
				"remainder after dividing by zero is as undefined as the quotient, so Minnow throws " +
				"this error instead."
		},
	},

	"eval/var/missing": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "No variable found with name: `" + args[0].(string) + "`"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The evaluator went looking for a variable that wasn't in scope. The typechecker " +
				"should have caught this long before the evaluator saw it, so this is an error in " +
				"Minnow itself rather than in your script, and the maintainers would be grateful if " +
				"you reported it."
		},
	},

	"eval/void": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "`void` used as a value"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "Something with no value at all ended up somewhere a value was needed. The " +
				"typechecker should have caught this long before the evaluator saw it, so this is an " +
				"error in Minnow itself rather than in your script, and the maintainers would be " +
				"grateful if you reported it."
		},
	},

	"parse/eof/a": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Unexpected end of file"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The parser was still in the middle of something when the script stopped. This " +
				"usually means that a '}' or a ';' has gone missing further up."
		},
	},

	"parse/eof/b": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Unexpected end of file, expected: `%v`", args[0])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return fmt.Sprintf("The parser needed a '%v' to finish what it was reading, but the "+
				"script stopped first. This usually means that a delimiter has gone missing "+
				"further up.", args[0])
		},
	},

	"parse/expected": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Unexpected token: `%v`, expected: `%v`", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return fmt.Sprintf("At this point in the script only '%v' would do, and '%v' isn't it. "+
				"The caret in the error points at the exact place where the parser gave up.",
				args[1], args[0])
		},
	},

	"parse/expr/start": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Invalid start of expression: `%v`", args[0])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "An expression has to begin with a literal, a variable, a function call, one of " +
				"the prefix operators '+', '-' and '!', or a '('. What the parser found at this " +
				"point was none of those."
		},
	},

	"parse/float": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Could not parse `" + args[0].(string) + "` as a float"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The text has the shape of a float literal but doesn't fit in a 64-bit " +
				"floating-point number."
		},
	},

	"parse/int": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Could not parse `" + args[0].(string) + "` as an integer"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The text is all digits but doesn't fit in a 64-bit signed integer, which is " +
				"what a Minnow 'int' is."
		},
	},

	"parse/token": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Unknown token: `" + args[0].(string) + "`"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The tokenizer found a run of characters that doesn't belong to the language at " +
				"all, and handed the parser an error token to show where. Anything outside Minnow's " +
				"repertoire of literals, names, operators and delimiters ends up here."
		},
	},

	"parse/unexpected": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Unexpected token: `%v`", args[0])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The token is a perfectly good one, but it doesn't belong where the parser found " +
				"it. The caret in the error points at the exact place where the parser gave up."
		},
	},

	"type/args/a": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Function `%v` expected %v argument(s), found %v", args[0], args[1], args[2])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "A function has to be called with exactly as many arguments as it has " +
				"parameters, one for each, in order. There are no optional or variadic parameters."
		},
	},

	"type/args/b": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Builtin function `%v` expected %v argument(s), found %v", args[0], args[1], args[2])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The builtin functions are no different from your own in this respect: each has " +
				"to be called with exactly as many arguments as it has parameters."
		},
	},

	"type/args/c": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Method `%v` expected %v argument(s), found %v", args[0], args[1], args[2])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "A method has to be called with exactly as many arguments as it has parameters, " +
				"not counting the value it's called on, which the method body sees as 'self'."
		},
	},

	"type/cond/if": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Type mismatch: expected `bool`, found `%v`", args[0])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The condition of an 'if' has to work out as 'true' or 'false'. Minnow doesn't " +
				"treat any other type as truthy or falsy: if you want to test whether a number is " +
				"zero, say so."
		},
	},

	"type/exists/fn": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Function `" + args[0].(string) + "` already exists"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "Every function in a Minnow script has to have a distinct name: there is no " +
				"overloading. Note that the builtin functions take up some of the names."
		},
	},

	"type/exists/method": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Method `%v` already exists on type `%v`", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "Several 'extend' blocks may extend the same type, but between them each method " +
				"name can only be declared once per type."
		},
	},

	"type/exists/var": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Variable `" + args[0].(string) + "` already exists"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "A 'let' declares a new variable, and this name is already taken in the current " +
				"scope. If you meant to change the existing variable, leave off the 'let' and the " +
				"type and just assign to it."
		},
	},

	"type/flow/break": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "`break` outside of a loop"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "A 'break' stops the innermost enclosing 'loop', so it means nothing where there " +
				"is no enclosing 'loop'. Note that a function body is a world of its own: you can't " +
				"'break' out of a function and into a loop in whatever called it."
		},
	},

	"type/flow/continue": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "`continue` outside of a loop"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "A 'continue' sends the innermost enclosing 'loop' round again, so it means " +
				"nothing where there is no enclosing 'loop'. Note that a function body is a world " +
				"of its own: a function called inside a loop can't 'continue' that loop."
		},
	},

	"type/mismatch/a": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Type mismatch: expected `%v`, found `%v`", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return fmt.Sprintf("The variable is declared '%v', so that's the only type it can be "+
				"initialized to: Minnow never converts one type to another behind your back.", args[0])
		},
	},

	"type/mismatch/b": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Type mismatch: expected `%v`, found `%v`", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return fmt.Sprintf("The variable was declared '%v', so that's the only type that can "+
				"ever be assigned to it: Minnow never converts one type to another behind your "+
				"back.", args[0])
		},
	},

	"type/mismatch/c": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Type mismatch: expected `%v`, found `%v`", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The two sides of an infix operator have to be the same type: Minnow never " +
				"converts one type to another behind your back."
		},
	},

	"type/mismatch/d": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Type mismatch: expected `%v`, found `%v`", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return fmt.Sprintf("The parameter is declared '%v', so that's the only type of "+
				"argument that can be passed through it: Minnow never converts one type to "+
				"another behind your back.", args[0])
		},
	},

	"type/missing/fn": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Function `" + args[0].(string) + "` not found"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "Nothing with this name has been declared with 'fn', and it isn't the name of a " +
				"builtin function either. Note that the order of declarations doesn't matter, so " +
				"this isn't a matter of the function being declared too late: it isn't declared " +
				"at all."
		},
	},

	"type/missing/method": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Method `%v` not found for type `%v`", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return fmt.Sprintf("No 'extend %v' block declares a method with this name. Methods "+
				"belong to one type each: extending 'int' with a method does nothing for "+
				"'float'.", args[1])
		},
	},

	"type/missing/var": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Variable `" + args[0].(string) + "` not found"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "No variable with this name is in scope here. Variables have to be declared " +
				"with 'let' before use, and a variable declared inside a block can't be seen from " +
				"outside the block."
		},
	},

	"type/op/infix": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Operator `%v` is not defined on `%v`", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "'+' works on ints, floats and strings; '-', '*' and '/' on ints and floats; " +
				"'%' on ints only; '<', '<=', '>' and '>=' on ints and floats; '&&' and '||' on " +
				"bools; and '==' and '!=' on any two values of the same type."
		},
	},

	"type/op/prefix": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Operator `%v` is not defined on `%v`", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "Prefix '+' and '-' work on ints and floats, and prefix '!' on bools."
		},
	},

	"type/return/mismatch": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Expected `%v` return value, found `%v`", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return fmt.Sprintf("The function's signature says '-> %v', so that's the type every "+
				"'return' in its body has to supply: Minnow never converts one type to another "+
				"behind your back.", args[0])
		},
	},

	"type/return/missing": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Function `%v` should return `%v` but may reach the end of its body without doing so", args[0], args[1])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The typechecker has to be able to see that every path through the function ends " +
				"in a 'return'. An 'if' counts when both of its branches return; a 'loop' counts " +
				"when it contains no 'break', since returning is then the only way out of it."
		},
	},

	"type/return/void": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Expected no return value, found `%v`", args[0])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The function's signature says '-> void', so any 'return' in its body has to be " +
				"a bare 'return;' with no value after it."
		},
	},

	"type/unknown": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Unknown type: `" + args[0].(string) + "`"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "The types of Minnow are 'int', 'float', 'string' and 'bool', plus 'void' in a " +
				"return signature. There is as yet no way to declare a type of your own."
		},
	},

	"type/void/arg": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Argument can't be `void`"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "A call to a 'void' function produces no value at all, not even some nothing-like " +
				"value, so there is nothing there to pass as an argument."
		},
	},

	"type/void/assign": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Variable can't be assigned to `void`"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "A call to a 'void' function produces no value at all, not even some nothing-like " +
				"value, so there is nothing there to assign to a variable."
		},
	},

	"type/void/decl": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Variable `" + args[0].(string) + "` can't be declared `void`"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "'void' is the absence of a value, so while a function can return it, in the " +
				"sense of returning nothing, a variable can't hold it."
		},
	},

	"type/void/extend": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Type `void` can't be extended"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "'void' is the absence of a value, so there could never be anything for a " +
				"method of 'void' to be called on."
		},
	},

	"type/void/init": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Variable can't be initialized to `void`"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "A call to a 'void' function produces no value at all, not even some nothing-like " +
				"value, so there is nothing there to initialize a variable to."
		},
	},

	"type/void/op": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return fmt.Sprintf("Operator `%v` can't be applied to `void`", args[0])
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "A call to a 'void' function produces no value at all, not even some nothing-like " +
				"value, so there is nothing there for an operator to operate on."
		},
	},

	"type/void/param": ErrorCreator{
		Message: func(tok token.Token, args ...any) string {
			return "Parameter `" + args[0].(string) + "` can't be declared `void`"
		},
		Explanation: func(errors Errors, pos int, tok token.Token, args ...any) string {
			return "'void' is the absence of a value, so nothing could ever be passed through a " +
				"parameter of type 'void'."
		},
	},
}

package typechecker

import (
	"testing"

	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/parser"
	"github.com/tim-hardcastle/Minnow/source"
)

func checkProgram(t *testing.T, input string) *Typechecker {
	t.Helper()
	items, err := parser.New(source.New("test", input)).ParseTopLevel()
	if err != nil {
		t.Fatalf("parse error: %s", err.Message)
	}
	tc := New()
	if err := tc.CheckTopLevel(items); err != nil {
		t.Fatalf("check error: %s", err.Message)
	}
	return tc
}

func checkError(t *testing.T, input string) *object.Error {
	t.Helper()
	items, err := parser.New(source.New("test", input)).ParseTopLevel()
	if err != nil {
		t.Fatalf("parse error: %s", err.Message)
	}
	if err := New().CheckTopLevel(items); err != nil {
		return err
	}
	t.Fatalf("expected a check error, got none")
	return nil
}

func TestCheckedProgram(t *testing.T) {
	input := `
fn add(int x, int y) -> int {
	return x + y;
}

extend int {
	fn double() -> int {
		return self * 2;
	}
}

fn main() -> void {
	let int a = add(2, 3);
	let int b = a.double();
	print(b);
}
`
	tc := checkProgram(t, input)
	if len(tc.Functions()) != 2 {
		t.Fatalf("function table has %d entries, expected 2", len(tc.Functions()))
	}
	addId, ok := tc.FunctionByName("add")
	if !ok {
		t.Fatalf("function table doesn't contain 'add'")
	}
	add := tc.Functions()[addId]
	if len(add.Params) != 2 || add.Params[0].Type != INT_TYPE_ID || add.Params[1].Type != INT_TYPE_ID {
		t.Fatalf("'add' params checked wrongly: %v", add.Params)
	}
	if add.ReturnType != INT_TYPE_ID {
		t.Fatalf("'add' return type is %s, expected int", tc.TypeName(add.ReturnType))
	}
	intType := tc.Types()[INT_TYPE_ID]
	if len(intType.Methods) != 1 || intType.Methods[0].Name != "double" {
		t.Fatalf("int type methods checked wrongly: %v", intType.Methods)
	}
	if intType.Methods[0].Body == nil {
		t.Fatalf("method body wasn't checked")
	}
	mainId, ok := tc.FunctionByName("main")
	if !ok {
		t.Fatalf("function table doesn't contain 'main'")
	}
	body := tc.Functions()[mainId].Body
	if body.Kind != FunctionBlock {
		t.Fatalf("main body kind is %d, expected FunctionBlock", body.Kind)
	}
	if len(body.Statements) != 3 {
		t.Fatalf("main body has %d statements, expected 3", len(body.Statements))
	}

	letA, ok := body.Statements[0].(*CheckedLet)
	if !ok {
		t.Fatalf("statement 0 is %T, not *CheckedLet", body.Statements[0])
	}
	if letA.Value.Kind != CallExpr || letA.Value.Function != addId {
		t.Fatalf("'add' call resolved wrongly: kind=%d function=%d", letA.Value.Kind, letA.Value.Function)
	}
	arg := letA.Value.Args[0]
	if arg.Kind != LiteralExpr {
		t.Fatalf("argument kind is %d, expected LiteralExpr", arg.Kind)
	}
	if i, ok := arg.Value.(*object.Integer); !ok || i.Value != 2 {
		t.Fatalf("literal wasn't prebuilt, got %v", arg.Value)
	}

	letB, ok := body.Statements[1].(*CheckedLet)
	if !ok {
		t.Fatalf("statement 1 is %T, not *CheckedLet", body.Statements[1])
	}
	call := letB.Value
	if call.Kind != MethodCallExpr || call.OnType != INT_TYPE_ID || call.Method != 0 {
		t.Fatalf("method call resolved wrongly: kind=%d onType=%d method=%d",
			call.Kind, call.OnType, call.Method)
	}
	if call.Receiver.Kind != IdentifierExpr || call.Receiver.Type != INT_TYPE_ID {
		t.Fatalf("method receiver checked wrongly: kind=%d type=%d",
			call.Receiver.Kind, call.Receiver.Type)
	}

	stmt, ok := body.Statements[2].(*CheckedExprStmt)
	if !ok {
		t.Fatalf("statement 2 is %T, not *CheckedExprStmt", body.Statements[2])
	}
	if stmt.Value.Kind != BuiltinCallExpr || stmt.Value.Type != VOID_TYPE_ID {
		t.Fatalf("builtin call resolved wrongly: kind=%d type=%d", stmt.Value.Kind, stmt.Value.Type)
	}
}

func TestValidPrograms(t *testing.T) {
	tests := []string{
		// Comparisons yield bool, usable as a condition and with '&&'.
		`fn main() -> void {
			let int x = 3;
			if x < 5 && x >= 0 {
				x = 4;
			}
		}`,
		// Shadowing in an inner scope, with the outer binding restored after.
		`fn main() -> void {
			let int x = 1;
			{
				let string x = "shadowed";
				print(x);
			}
			x = 2;
		}`,
		// Items can be called before they're defined.
		`fn main() -> void {
			let int x = later();
		}
		fn later() -> int {
			return 1;
		}`,
		// Mutual recursion.
		`fn isEven(int n) -> bool {
			if n == 0 {
				return true;
			}
			return isOdd(n - 1);
		}
		fn isOdd(int n) -> bool {
			if n == 0 {
				return false;
			}
			return isEven(n - 1);
		}
		fn main() -> void {
			print(isEven(10));
		}`,
		// Returning a void call from a void function.
		`fn noop() -> void {}
		fn main() -> void {
			return noop();
		}`,
		// A loop with no 'break' of its own counts as a definite return,
		// even when a nested loop breaks.
		`fn forever() -> int {
			loop {
				loop {
					break;
				}
				if true {
					return 1;
				}
			}
		}
		fn main() -> void {
			print(forever());
		}`,
		// 'break' and 'continue' belong to the innermost loop.
		`fn main() -> void {
			let int i = 0;
			loop {
				i = i + 1;
				if i % 2 == 0 {
					continue;
				}
				if i > 10 {
					break;
				}
			}
		}`,
	}
	for i, input := range tests {
		items, err := parser.New(source.New("test", input)).ParseTopLevel()
		if err != nil {
			t.Fatalf("tests[%d] - parse error: %s", i, err.Message)
		}
		if err := New().CheckTopLevel(items); err != nil {
			t.Fatalf("tests[%d] - check error: %s", i, err.Message)
		}
	}
}

func TestTypecheckerErrors(t *testing.T) {
	tests := []struct {
		input   string
		errorId string
	}{
		{`fn main() -> void { let int x = "foo"; }`, "type/mismatch/a"},
		{`fn main() -> void { let int x = 1; x = true; }`, "type/mismatch/b"},
		{`fn main() -> void { let int x = 1 + 2.0; }`, "type/mismatch/c"},
		{`fn f(int x) -> int { return x; }
		  fn main() -> void { let int x = f("foo"); }`, "type/mismatch/d"},
		{`fn main() -> void { let int x = 1; let int x = 2; }`, "type/exists/var"},
		{`fn main() -> void { x = 1; }`, "type/missing/var"},
		{`fn main() -> void { let int x = self; }`, "type/missing/var"},
		{`fn main() -> void { let int x = f(); }`, "type/missing/fn"},
		{`fn main() -> void { let int x = 5; let int y = x.frob(); }`, "type/missing/method"},
		{`fn f() -> void {} fn f() -> void {} fn main() -> void {}`, "type/exists/fn"},
		{`fn print(int x) -> void {} fn main() -> void {}`, "type/exists/fn"},
		{`extend int { fn f() -> void {} fn f() -> void {} }
		  fn main() -> void {}`, "type/exists/method"},
		{`extend void { fn f() -> void {} } fn main() -> void {}`, "type/void/extend"},
		{`extend wibble { fn f() -> void {} } fn main() -> void {}`, "type/unknown"},
		{`fn f(wibble x) -> void {} fn main() -> void {}`, "type/unknown"},
		{`fn main() -> void { let wibble x = 1; }`, "type/unknown"},
		{`fn f(void x) -> void {} fn main() -> void {}`, "type/void/param"},
		{`fn main() -> void { let void x = 1; }`, "type/void/decl"},
		{`fn noop() -> void {}
		  fn main() -> void { let int x = noop(); }`, "type/void/init"},
		{`fn noop() -> void {}
		  fn main() -> void { let int x = 1; x = noop(); }`, "type/void/assign"},
		{`fn noop() -> void {}
		  fn main() -> void { print(noop()); }`, "type/void/arg"},
		{`fn noop() -> void {}
		  fn main() -> void { let int x = noop() + 1; }`, "type/void/op"},
		{`fn main() -> void { if 1 { print(1); } }`, "type/cond/if"},
		{`fn main() -> void { let string x = "a" - "b"; }`, "type/op/infix"},
		{`fn main() -> void { let bool x = true < false; }`, "type/op/infix"},
		{`fn main() -> void { let bool x = 1 && 2; }`, "type/op/infix"},
		{`fn main() -> void { let float x = 1.5 % 0.5; }`, "type/op/infix"},
		{`fn main() -> void { let bool x = -true; }`, "type/op/prefix"},
		{`fn main() -> void { let int x = !1; }`, "type/op/prefix"},
		{`fn main() -> void { break; }`, "type/flow/break"},
		{`fn main() -> void { continue; }`, "type/flow/continue"},
		{`fn main() -> void { return 1; }`, "type/return/void"},
		{`fn f() -> int { return; } fn main() -> void {}`, "type/return/mismatch"},
		{`fn f() -> int { return "foo"; } fn main() -> void {}`, "type/return/mismatch"},
		{`fn f() -> int { let int x = 1; } fn main() -> void {}`, "type/return/missing"},
		{`fn f() -> int { if true { return 1; } } fn main() -> void {}`, "type/return/missing"},
		{`fn f() -> int { loop { break; } } fn main() -> void {}`, "type/return/missing"},
		{`fn f(int x) -> int { return x; }
		  fn main() -> void { let int x = f(1, 2); }`, "type/args/a"},
		{`fn main() -> void { print(); }`, "type/args/b"},
		{`extend int { fn double() -> int { return self * 2; } }
		  fn main() -> void { let int x = 5; let int y = x.double(1); }`, "type/args/c"},
	}
	for i, test := range tests {
		err := checkError(t, test.input)
		if err.ErrorId != test.errorId {
			t.Fatalf("tests[%d] - errorId wrong. expected=%q, got=%q (%s)",
				i, test.errorId, err.ErrorId, err.Message)
		}
	}
}

func TestDefiniteReturn(t *testing.T) {
	tests := []struct {
		input   string
		returns bool
	}{
		{`fn f() -> int { return 1; }`, true},
		{`fn f() -> int { if true { return 1; } else { return 2; } }`, true},
		{`fn f() -> int { if true { return 1; } return 2; }`, true},
		{`fn f() -> int { { return 1; } }`, true},
		{`fn f() -> int { loop { return 1; } }`, true},
		{`fn f() -> int { loop { loop { break; } return 1; } }`, true},
		{`fn f() -> int { if true { return 1; } }`, false},
		{`fn f() -> int { if true { return 1; } else { let int x = 2; } }`, false},
		{`fn f() -> int { loop { break; } }`, false},
		{`fn f() -> int { loop { if true { break; } return 1; } }`, false},
	}
	for i, test := range tests {
		input := test.input + " fn main() -> void {}"
		items, err := parser.New(source.New("test", input)).ParseTopLevel()
		if err != nil {
			t.Fatalf("tests[%d] - parse error: %s", i, err.Message)
		}
		checkErr := New().CheckTopLevel(items)
		if test.returns && checkErr != nil {
			t.Fatalf("tests[%d] - unexpected error: %s", i, checkErr.Message)
		}
		if !test.returns {
			if checkErr == nil {
				t.Fatalf("tests[%d] - expected type/return/missing, got no error", i)
			}
			if checkErr.ErrorId != "type/return/missing" {
				t.Fatalf("tests[%d] - errorId wrong. expected=%q, got=%q",
					i, "type/return/missing", checkErr.ErrorId)
			}
		}
	}
}

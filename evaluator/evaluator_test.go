package evaluator

import (
	"bytes"
	"testing"

	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/parser"
	"github.com/tim-hardcastle/Minnow/source"
	"github.com/tim-hardcastle/Minnow/typechecker"
)

func run(t *testing.T, input string) (object.Object, string) {
	t.Helper()
	items, err := parser.New(source.New("test", input)).ParseTopLevel()
	if err != nil {
		t.Fatalf("parse error: %s", err.Message)
	}
	tc := typechecker.New()
	if err := tc.CheckTopLevel(items); err != nil {
		t.Fatalf("check error: %s", err.Message)
	}
	out := &bytes.Buffer{}
	result, runErr := New(tc, out).RunMain()
	if runErr != nil {
		t.Fatalf("execution error: %s", runErr.Message)
	}
	return result, out.String()
}

func runError(t *testing.T, input string) *object.Error {
	t.Helper()
	items, err := parser.New(source.New("test", input)).ParseTopLevel()
	if err != nil {
		t.Fatalf("parse error: %s", err.Message)
	}
	tc := typechecker.New()
	if err := tc.CheckTopLevel(items); err != nil {
		t.Fatalf("check error: %s", err.Message)
	}
	_, runErr := New(tc, &bytes.Buffer{}).RunMain()
	if runErr == nil {
		t.Fatalf("expected an execution error, got none")
	}
	return runErr
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`fn main() -> void { print("hello, world!"); }`,
			"hello, world!\n"},
		{`fn main() -> void { print(2 + 3 * 4); }`,
			"14\n"},
		{`fn main() -> void { print((2 + 3) * 4); }`,
			"20\n"},
		{`fn main() -> void { print(7 / 2); }`,
			"3\n"},
		{`fn main() -> void { print(7.5 / 2.5); }`,
			"3\n"},
		{`fn main() -> void { print(7 % 3); }`,
			"1\n"},
		{`fn main() -> void { print(-5 + +3); }`,
			"-2\n"},
		{`fn main() -> void { print(!true); }`,
			"false\n"},
		{`fn main() -> void { print("foo" + "bar"); }`,
			"foobar\n"},
		{`fn main() -> void { print(1 < 2 && 4 < 3); }`,
			"false\n"},
		{`fn main() -> void { print(1 < 2 || 4 < 3); }`,
			"true\n"},
		{`fn main() -> void { print("cat" == "cat"); print(1.5 != 2.5); }`,
			"true\ntrue\n"},
		{`fn main() -> void {
			if 2 > 1 {
				print("then");
			} else {
				print("else");
			}
		}`,
			"then\n"},
		{`fn main() -> void {
			let int x = 1;
			{
				let string x = "shadowed";
				print(x);
			}
			print(x);
		}`,
			"shadowed\n1\n"},
		{`fn main() -> void {
			let int i = 0;
			loop {
				if i == 3 {
					break;
				}
				print(i);
				i = i + 1;
			}
		}`,
			"0\n1\n2\n"},
		{`fn main() -> void {
			let int sum = 0;
			let int i = 0;
			loop {
				i = i + 1;
				if i >= 10 {
					break;
				}
				if i % 2 == 0 {
					continue;
				}
				sum = sum + i;
			}
			print(sum);
		}`,
			"25\n"},
		{`fn fib(int n) -> int {
			if n < 2 {
				return n;
			}
			return fib(n - 1) + fib(n - 2);
		}
		fn main() -> void { print(fib(10)); }`,
			"55\n"},
		{`fn fact(int n) -> int {
			let int result = 1;
			let int i = 1;
			loop {
				if i > n {
					break;
				}
				result = result * i;
				i = i + 1;
			}
			return result;
		}
		fn main() -> void { print(fact(5)); }`,
			"120\n"},
		{`fn firstSquareAbove(int limit) -> int {
			let int n = 1;
			loop {
				if n * n > limit {
					return n * n;
				}
				n = n + 1;
			}
		}
		fn main() -> void { print(firstSquareAbove(50)); }`,
			"64\n"},
		{`fn isEven(int n) -> bool {
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
		fn main() -> void { print(isEven(10)); }`,
			"true\n"},
		{`extend int {
			fn plus(int other) -> int {
				return self + other;
			}
			fn double() -> int {
				return self * 2;
			}
		}
		fn main() -> void {
			let int x = 4;
			print(x.plus(3));
			print(x.double());
		}`,
			"7\n8\n"},
		{`extend string {
			fn shout() -> void {
				print(self + "!");
			}
		}
		fn main() -> void {
			let string s = "minnow";
			s.shout();
		}`,
			"minnow!\n"},
	}
	for i, test := range tests {
		_, output := run(t, test.input)
		if output != test.expected {
			t.Fatalf("tests[%d] - output wrong. expected=%q, got=%q", i, test.expected, output)
		}
	}
}

func TestMainResult(t *testing.T) {
	result, _ := run(t, `fn main() -> int { return 42; }`)
	integer, ok := result.(*object.Integer)
	if !ok {
		t.Fatalf("result is %T, not *object.Integer", result)
	}
	if integer.Value != 42 {
		t.Fatalf("result wrong. expected=42, got=%d", integer.Value)
	}
	result, _ = run(t, `fn main() -> void { print(1); }`)
	if result != object.VOID {
		t.Fatalf("result is %v, not the void object", result)
	}
}

func TestReturnStopsExecution(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`fn main() -> void {
			print("a");
			return;
			print("b");
		}`,
			"a\n"},
		{`fn main() -> void {
			{
				print("a");
				return;
			}
			print("b");
		}`,
			"a\n"},
		{`fn deepReturn() -> int {
			loop {
				loop {
					return 1;
				}
			}
		}
		fn main() -> void { print(deepReturn()); }`,
			"1\n"},
		{`fn main() -> void {
			let int i = 0;
			loop {
				i = i + 1;
				if i > 5 {
					break;
				}
				{
					if i % 2 == 0 {
						continue;
					}
				}
				print(i);
			}
		}`,
			"1\n3\n5\n"},
	}
	for i, test := range tests {
		_, output := run(t, test.input)
		if output != test.expected {
			t.Fatalf("tests[%d] - output wrong. expected=%q, got=%q", i, test.expected, output)
		}
	}
}

func TestExecutionErrors(t *testing.T) {
	tests := []struct {
		input   string
		errorId string
	}{
		{`fn main() -> void { print(1 / 0); }`, "eval/div/zero"},
		{`fn main() -> void { print(1 % 0); }`, "eval/mod/zero"},
		{`fn f() -> void {}`, "eval/main/missing"},
		// '||' and '&&' evaluate both sides, so the division happens even
		// when the left side already settles the answer.
		{`fn main() -> void {
			let int x = 0;
			let bool b = x == 0 || 10 / x > 0;
		}`, "eval/div/zero"},
		{`fn main() -> void {
			let int x = 0;
			let bool b = x != 0 && 10 / x > 0;
		}`, "eval/div/zero"},
	}
	for i, test := range tests {
		err := runError(t, test.input)
		if err.ErrorId != test.errorId {
			t.Fatalf("tests[%d] - errorId wrong. expected=%q, got=%q (%s)",
				i, test.errorId, err.ErrorId, err.Message)
		}
	}
}

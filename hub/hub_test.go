package hub

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/tim-hardcastle/Minnow/text"
)

// newTestHub makes a hub in a fresh working directory, so that config
// files, databases and snap tests don't leak between tests, and with color
// turned off so that we can compare output as plain text.
func newTestHub(t *testing.T, in string) (*Hub, *bytes.Buffer) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(wd)
		text.UseColor(true)
	})
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	hub := New(strings.NewReader(in), out)
	hub.Do("hub set $color false")
	out.Reset()
	return hub, out
}

func do(hub *Hub, out *bytes.Buffer, line string) string {
	out.Reset()
	hub.Do(line)
	return strings.TrimRight(out.String(), "\n")
}

func TestReplSession(t *testing.T) {
	hub, out := newTestHub(t, "")

	steps := []struct {
		input string
		want  string
	}{
		{`2 + 2;`, "4"},
		{`let int x = 5;`, "ok"},
		{`print("hello");`, "hello"},
		{`fn double(int x) -> int { return x * 2; }`, "ok"},
		{`double(21);`, "42"},
		{`extend string { fn yell() -> string { return self + "?!"; } }`, "ok"},
		{`fn excited(string s) -> string { return s.yell(); }`, "ok"},
		{`excited("what");`, "what?!"},
		{`hub undo`, "ok"},
		{`double(21);`, "42"},
	}
	for i, step := range steps {
		got := do(hub, out, step.input)
		if got != step.want {
			t.Fatalf("steps[%d] - output wrong. expected=%q, got=%q", i, step.want, got)
		}
	}
}

func TestReplErrors(t *testing.T) {
	hub, out := newTestHub(t, "")

	got := do(hub, out, "womble;")
	if !strings.HasPrefix(got, "error") || !strings.Contains(got, "womble") {
		t.Fatalf("unknown variable not reported, got=%q", got)
	}

	got = do(hub, out, "1 / 0;")
	if got != "error: Division by zero" {
		t.Fatalf("division by zero not reported, got=%q", got)
	}

	got = do(hub, out, "hub why")
	if strings.HasPrefix(got, "error") {
		t.Fatalf("'hub why' had no explanation to give, got=%q", got)
	}

	got = do(hub, out, "hub undo")
	if !strings.Contains(got, "nothing to undo") {
		t.Fatalf("undo on empty service wrong, got=%q", got)
	}
}

func TestHubCommands(t *testing.T) {
	hub, out := newTestHub(t, "")

	steps := []struct {
		input string
		want  string
	}{
		{`hub get $color`, "'false'"},
		{`hub set $prompt >>`, "ok"},
		{`hub get $prompt`, "'>>'"},
		{`hub set $color womble`, "error: system variable '$color' is of type 'bool'"},
		{`hub get $borogove`, "error: the hub doesn't have a system variable '$borogove'"},
		{`hub frimble`, "error: the hub doesn't recognize the command 'frimble'"},
		{`hub why`, "error: there is no error to explain"},
		{`hub quit extra`, "error: the 'hub quit' command takes no parameters"},
	}
	for i, step := range steps {
		got := do(hub, out, step.input)
		if got != step.want {
			t.Fatalf("steps[%d] - output wrong. expected=%q, got=%q", i, step.want, got)
		}
	}
	if hub.Prompt() != ">>" {
		t.Fatalf("prompt wrong. expected=%q, got=%q", ">>", hub.Prompt())
	}
}

func TestRunScript(t *testing.T) {
	hub, out := newTestHub(t, "")

	script := `fn main() -> void {
print("hello from main");
}

fn greet(string name) -> string {
return "hello, " + name;
}
`
	if err := os.WriteFile("test.mnw", []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	got := do(hub, out, "hub run test.mnw as myservice")
	if !strings.Contains(got, "Starting script 'test.mnw' as service 'myservice'.") {
		t.Fatalf("start message missing, got=%q", got)
	}
	if !strings.Contains(got, "hello from main") {
		t.Fatalf("main didn't run at startup, got=%q", got)
	}
	if hub.GetCurrentServiceName() != "myservice" {
		t.Fatalf("current service wrong. expected=%q, got=%q",
			"myservice", hub.GetCurrentServiceName())
	}
	if hub.Prompt() != "myservice "+text.PROMPT {
		t.Fatalf("prompt wrong. expected=%q, got=%q", "myservice "+text.PROMPT, hub.Prompt())
	}

	got = do(hub, out, `greet("minnow");`)
	if got != "hello, minnow" {
		t.Fatalf("service call wrong. expected=%q, got=%q", "hello, minnow", got)
	}

	got = do(hub, out, "hub services")
	if !strings.Contains(got, "'myservice'") || !strings.Contains(got, "'test.mnw'") {
		t.Fatalf("services listing wrong, got=%q", got)
	}

	got = do(hub, out, "hub reset")
	if !strings.Contains(got, "Restarting") || !strings.Contains(got, "hello from main") {
		t.Fatalf("reset wrong, got=%q", got)
	}

	do(hub, out, "hub run")
	if hub.GetCurrentServiceName() != "" {
		t.Fatalf("'hub run' didn't return to the REPL")
	}

	got = do(hub, out, "myservice")
	if got != "ok" || hub.GetCurrentServiceName() != "myservice" {
		t.Fatalf("switching service by name failed, got=%q", got)
	}

	got = do(hub, out, "myservice greet(\"fish\");")
	if got != "hello, fish" {
		t.Fatalf("addressing a service by name failed, got=%q", got)
	}

	do(hub, out, "hub halt")
	if hub.GetCurrentServiceName() != "" {
		t.Fatalf("halting the current service should return to the REPL")
	}

	// A script that doesn't build is reported and not registered.
	if err := os.WriteFile("broken.mnw", []byte(`fn main() -> void { let int x = "foo"; }`), 0644); err != nil {
		t.Fatal(err)
	}
	got = do(hub, out, "hub run broken.mnw as b2")
	if !strings.Contains(got, "error") {
		t.Fatalf("broken script not reported, got=%q", got)
	}
	if _, ok := hub.services["b2"]; ok {
		t.Fatalf("broken script was registered as a service")
	}
}

func TestSnapAndTest(t *testing.T) {
	hub, out := newTestHub(t, "")

	if err := os.WriteFile("double.mnw",
		[]byte("fn double(int x) -> int {\nreturn x * 2;\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got := do(hub, out, "hub snap double.mnw")
	if !strings.Contains(got, "Recording is ON.") {
		t.Fatalf("snap didn't start, got=%q", got)
	}
	if got := do(hub, out, "double(2);"); got != "4" {
		t.Fatalf("snapped line wrong, got=%q", got)
	}
	if got := do(hub, out, "double(21);"); got != "42" {
		t.Fatalf("snapped line wrong, got=%q", got)
	}

	got = do(hub, out, "hub snap good")
	if got != "Created test as file 'tst/double_mnw/double_mnw_1'." {
		t.Fatalf("snap not saved, got=%q", got)
	}
	if hub.GetCurrentServiceName() != "" {
		t.Fatalf("snap didn't restore the current service")
	}

	dat, err := os.ReadFile("tst/double_mnw/double_mnw_1")
	if err != nil {
		t.Fatal(err)
	}
	want := "snap: good\nscript: double.mnw\n\n-> double(2);\n4\n-> double(21);\n42"
	if string(dat) != want {
		t.Fatalf("snap file wrong.\nexpected=%q\ngot=%q", want, string(dat))
	}

	got = do(hub, out, "hub test double.mnw")
	if !strings.Contains(got, "Test passed!") {
		t.Fatalf("test should have passed, got=%q", got)
	}

	got = do(hub, out, "hub replay tst/double_mnw/double_mnw_1")
	if !strings.Contains(got, "#test → double(2);") || !strings.Contains(got, "\n4\n") {
		t.Fatalf("replay wrong, got=%q", got)
	}

	// Change the script's behavior and the test should catch it.
	if err := os.WriteFile("double.mnw",
		[]byte("fn double(int x) -> int {\nreturn x * 3;\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got = do(hub, out, "hub test double.mnw")
	if !strings.Contains(got, "good behavior not reproduced by test") {
		t.Fatalf("test should have failed, got=%q", got)
	}
	if !strings.Contains(got, "was: 4") || !strings.Contains(got, "got: 6") {
		t.Fatalf("diff missing from failed test, got=%q", got)
	}
}

func TestJournal(t *testing.T) {
	// The prompted answers, in order: the db init dialogue, then register,
	// then a good log in, then a bad one.
	in := "6\n\n\njournal.db\n\n\n" +
		"alice\nalice@example.com\nsecret\n" +
		"alice\nsecret\n" +
		"alice\nwrong\n"
	hub, out := newTestHub(t, in)

	got := do(hub, out, "hub db init")
	if !strings.Contains(got, "SQLite") || !strings.HasSuffix(got, "ok") {
		t.Fatalf("db init failed, got=%q", got)
	}

	got = do(hub, out, "hub db status")
	if !strings.Contains(got, "'SQLite'") || !strings.Contains(got, "connected") {
		t.Fatalf("db status wrong, got=%q", got)
	}

	got = do(hub, out, "hub register")
	if !strings.HasSuffix(got, "ok") {
		t.Fatalf("register failed, got=%q", got)
	}
	got = do(hub, out, "hub log out")
	if got != "ok" {
		t.Fatalf("log out failed, got=%q", got)
	}
	got = do(hub, out, "hub log in")
	if !strings.HasSuffix(got, "ok") {
		t.Fatalf("log in failed, got=%q", got)
	}
	got = do(hub, out, "hub log in")
	if !strings.Contains(got, "doesn't recognize that combination") {
		t.Fatalf("bad password accepted, got=%q", got)
	}

	if got = do(hub, out, "hub set $journal true"); got != "ok" {
		t.Fatalf("setting $journal failed, got=%q", got)
	}
	script := "fn main() -> void {\nprint(\"ran\");\n}\n"
	if err := os.WriteFile("logged.mnw", []byte(script), 0644); err != nil {
		t.Fatal(err)
	}
	do(hub, out, "hub run logged.mnw as logged")
	got = do(hub, out, "hub runs")
	if !strings.Contains(got, "logged.mnw") || !strings.Contains(got, "ok") {
		t.Fatalf("journal has no record of the run, got=%q", got)
	}

	// The config file should bring a new hub up with the same database and
	// system variables.
	out2 := &bytes.Buffer{}
	hub2 := New(strings.NewReader(""), out2)
	if hub2.db == nil {
		t.Fatalf("new hub didn't reconnect to the database")
	}
	out2.Reset()
	hub2.Do("hub get $journal")
	if got := strings.TrimRight(out2.String(), "\n"); got != "'true'" {
		t.Fatalf("new hub didn't reload system variables, got=%q", got)
	}
}

package hub

import (
	"bytes"
	"strings"

	"src.elv.sh/pkg/persistent/vector"

	"github.com/tim-hardcastle/Minnow/ast"
	"github.com/tim-hardcastle/Minnow/initializer"
	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/parser"
	"github.com/tim-hardcastle/Minnow/source"
	"github.com/tim-hardcastle/Minnow/text"
)

// replWrapperName is what REPL input gets wrapped in. If you declare a
// function with this name yourself then you deserve whatever happens.
const replWrapperName = "repl__"

// A Service is a running script together with the declarations that have
// been fed to it at the REPL. Evaluating a line rebuilds the whole pipeline
// from source: cheap at this scale, and it means a failing line can never
// corrupt the service, because the accepted declarations live in a
// persistent vector that only grows when a build has succeeded.
type Service struct {
	scriptFilepath string
	scriptText     string
	declarations   vector.Vector
	lastSource     *source.Source
}

func NewService(scriptFilepath, scriptText string) *Service {
	return &Service{scriptFilepath: scriptFilepath, scriptText: scriptText,
		declarations: vector.Empty}
}

func (service *Service) GetScriptFilepath() string {
	return service.scriptFilepath
}

// GetSource returns the source of the last program the service built, which
// is what the spans in any error it returned refer to.
func (service *Service) GetSource() *source.Source {
	return service.lastSource
}

// program assembles the Minnow source the service currently stands for,
// with extra code appended at the end.
func (service *Service) program(extra string) string {
	var sb strings.Builder
	sb.WriteString(service.scriptText)
	for it := service.declarations.Iterator(); it.HasElem(); it.Next() {
		sb.WriteString("\n")
		sb.WriteString(it.Elem().(string))
	}
	if extra != "" {
		sb.WriteString("\n")
		sb.WriteString(extra)
	}
	return sb.String()
}

// build runs the pipeline over the given program text, capturing anything
// printed in the returned buffer.
func (service *Service) build(program string) (*initializer.Service, *bytes.Buffer, *object.Error) {
	out := &bytes.Buffer{}
	path := service.scriptFilepath
	if path == "" {
		path = "REPL input"
	}
	src := source.New(path, program)
	service.lastSource = src
	compiled, err := initializer.NewService(src, out)
	if err != nil {
		return nil, nil, err
	}
	return compiled, out, nil
}

// Validate builds the service as it stands, without running anything. The
// hub calls this once at startup so that a broken script is reported at
// once.
func (service *Service) Validate() *object.Error {
	_, _, err := service.build(service.program(""))
	return err
}

// RunMain builds the service and runs its main function, returning whatever
// it printed.
func (service *Service) RunMain() (string, *object.Error) {
	compiled, out, err := service.build(service.program(""))
	if err != nil {
		return "", err
	}
	if _, err := compiled.RunMain(); err != nil {
		return strings.TrimRight(out.String(), "\n"), err
	}
	return strings.TrimRight(out.String(), "\n"), nil
}

// Do takes one line of REPL input. A line opening with a declaration
// headword joins the service's declarations if it builds; anything else is
// wrapped in a synthetic function and run. The returned string is what the
// hub should show, and the error, if any, is kept for 'hub why'.
func (service *Service) Do(line string) (string, *object.Error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return text.OK, nil
	}
	if fields[0] == "fn" || fields[0] == "extend" {
		return service.declare(line)
	}
	return service.evaluate(line)
}

func (service *Service) declare(line string) (string, *object.Error) {
	if _, _, err := service.build(service.program(line)); err != nil {
		return "", err
	}
	service.declarations = service.declarations.Conj(line)
	return text.OK, nil
}

// Undo takes back the last declaration the REPL accepted.
func (service *Service) Undo() (string, *object.Error) {
	if service.declarations.Len() == 0 {
		return text.ERROR + "there is nothing to undo", nil
	}
	service.declarations = service.declarations.Pop()
	return text.OK, nil
}

func (service *Service) evaluate(line string) (string, *object.Error) {
	statement := strings.TrimSpace(line)
	if !strings.HasSuffix(statement, ";") && !strings.HasSuffix(statement, "}") {
		statement = statement + ";"
	}
	wrapped := "fn " + replWrapperName + "() -> void {\n" + statement + "\n}"

	// A line that is a bare expression gets an implicit print, if its type
	// allows one.
	if isExpressionStatement(wrapped) {
		expression := strings.TrimSuffix(statement, ";")
		echoed := "fn " + replWrapperName + "() -> void {\nprint(" + expression + ");\n}"
		if compiled, out, err := service.build(service.program(echoed)); err == nil {
			return service.run(compiled, out)
		}
	}

	compiled, out, err := service.build(service.program(wrapped))
	if err != nil {
		return "", err
	}
	return service.run(compiled, out)
}

func (service *Service) run(compiled *initializer.Service, out *bytes.Buffer) (string, *object.Error) {
	if _, err := compiled.Evaluator.Run(replWrapperName); err != nil {
		return strings.TrimRight(out.String(), "\n"), err
	}
	result := strings.TrimRight(out.String(), "\n")
	if result == "" {
		result = text.OK
	}
	return result, nil
}

// isExpressionStatement says whether the wrapped line parses as a single
// expression statement, in which case the REPL will try to echo its value.
func isExpressionStatement(wrapped string) bool {
	items, err := parser.New(source.New("REPL input", wrapped)).ParseTopLevel()
	if err != nil || len(items) != 1 {
		return false
	}
	fn, ok := items[0].(*ast.FnItem)
	if !ok || len(fn.Body.Statements) != 1 {
		return false
	}
	_, ok = fn.Body.Statements[0].(*ast.ExpressionStatement)
	return ok
}

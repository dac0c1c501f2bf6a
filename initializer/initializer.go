// The initializer strings the pipeline together: it runs the prelude and
// the user's script through parsing and checking and hands back a Service
// that the CLI, the hub and the tests can run things on. Every way of
// getting Minnow source into the system comes through here.
package initializer

import (
	_ "embed"
	"io"

	"github.com/tim-hardcastle/Minnow/ast"
	"github.com/tim-hardcastle/Minnow/evaluator"
	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/parser"
	"github.com/tim-hardcastle/Minnow/source"
	"github.com/tim-hardcastle/Minnow/text"
	"github.com/tim-hardcastle/Minnow/typechecker"
)

// The prelude is written in Minnow and parsed in front of every script, so
// its functions and methods are visible without any importing.
//
//go:embed prelude.mnw
var preludeText string

type Service struct {
	Source    *source.Source
	Parsed    []ast.Item
	Checker   *typechecker.Typechecker
	Evaluator *evaluator.Evaluator
}

func NewService(src *source.Source, out io.Writer) (*Service, *object.Error) {
	prelude, err := parser.New(source.New("prelude", preludeText)).ParseTopLevel()
	if err != nil {
		return nil, err
	}
	items, err := parser.New(src).ParseTopLevel()
	if err != nil {
		return nil, err
	}
	items = append(prelude, items...)
	tc := typechecker.New()
	if err := tc.CheckTopLevel(items); err != nil {
		return nil, err
	}
	return &Service{
		Source:    src,
		Parsed:    items,
		Checker:   tc,
		Evaluator: evaluator.New(tc, out),
	}, nil
}

func (service *Service) RunMain() (object.Object, *object.Error) {
	return service.Evaluator.RunMain()
}

// DescribeError renders an error the way the CLI and hub show it: against
// the source with a caret when it has a location, bare when it doesn't.
func DescribeError(err *object.Error, src *source.Source) string {
	if src != nil && err.HasLocation() {
		return text.DescribeError(err.Message, err.Token.Span, src)
	}
	return text.ERROR + err.Message + "\n"
}

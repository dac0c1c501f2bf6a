//
// Minnow version 0.1
//
// Acknowledgments
//
// I began with Thorsten Ball’s Writing An Interpreter In Go (https://interpreterbook.com/) and the
// accompanying code, and although his language and mine differ very much in their syntax, semantics,
// implementation, and ambitions, I still owe him a considerable debt.
//

package main

import (
	"fmt"
	"os"

	"github.com/tim-hardcastle/Minnow/hub"
	"github.com/tim-hardcastle/Minnow/initializer"
	"github.com/tim-hardcastle/Minnow/lsp"
	"github.com/tim-hardcastle/Minnow/repl"
	"github.com/tim-hardcastle/Minnow/source"
	"github.com/tim-hardcastle/Minnow/text"
)

func main() {
	switch {
	case len(os.Args) == 1:
		fmt.Print(text.Logo())
		repl.Start(hub.New(os.Stdin, os.Stdout))
	case os.Args[1] == "lsp":
		lsp.Run(os.Stdin, os.Stdout)
	default:
		os.Exit(runScript(os.Args[1]))
	}
}

// runScript runs the script at the given path. Anything it prints goes to
// stdout and any diagnostic goes to stderr, so the two can be piped apart.
func runScript(scriptFilepath string) int {
	src, err := source.FromFile(scriptFilepath)
	if err != nil {
		fmt.Fprintln(os.Stderr, text.ERROR+err.Error())
		return 1
	}
	service, buildErr := initializer.NewService(src, os.Stdout)
	if buildErr != nil {
		fmt.Fprint(os.Stderr, initializer.DescribeError(buildErr, src))
		return 1
	}
	if _, runErr := service.RunMain(); runErr != nil {
		fmt.Fprint(os.Stderr, initializer.DescribeError(runErr, src))
		return 1
	}
	return 0
}

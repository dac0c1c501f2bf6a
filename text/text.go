// Package text is the styling layer: everything the hub and REPL say to
// the user goes through here, so that color can be turned off in one
// place when $color is unset or the output isn't a terminal.
package text

import (
	"strconv"
	"strings"

	"path/filepath"

	"github.com/tim-hardcastle/Minnow/source"
	"github.com/tim-hardcastle/Minnow/token"
)

const (
	VERSION = "0.1"
	BULLET  = " ▪ "
	PROMPT  = "→ "
)

var useColor = true

// UseColor turns ANSI styling on or off for everything in this package.
func UseColor(on bool) {
	useColor = on
	if on {
		ERROR = Red("error") + ": "
		OK = Green("ok")
	} else {
		ERROR = "error: "
		OK = "ok"
	}
}

func paint(color, s string) string {
	if !useColor {
		return s
	}
	return color + s + RESET
}

func Emph(s string) string {
	return paint(CYAN, "'"+s+"'")
}

func Red(s string) string {
	return paint(RED, s)
}

func Green(s string) string {
	return paint(GREEN, s)
}

func Yellow(s string) string {
	return paint(YELLOW, s)
}

func Cyan(s string) string {
	return paint(CYAN, s)
}

func FlattenedFilename(s string) string {
	s = filepath.Base(s)
	s = strings.Replace(s, ".", "_", -1)
	return s
}

func Logo() string {
	var padding string
	if len(VERSION)%2 != 0 {
		padding = ","
	}
	titleText := " Minnow" + padding + " version " + VERSION + " "
	minnow := Cyan("><>")
	leftMargin := "  "
	bar := strings.Repeat("═", len(titleText)/2-1)
	logoString := "\n" +
		leftMargin + "╔" + bar + minnow + bar + "╗\n" +
		leftMargin + "║" + titleText + "║\n" +
		leftMargin + "╚" + bar + minnow + bar + "╝\n\n"
	return logoString
}

// DescribeError renders a message against the source that produced it: the
// message, a locator, and the offending line with a caret under the span.
// Errors with no location should not come here; they are just ERROR plus
// the message.
func DescribeError(message string, span token.Span, src *source.Source) string {
	line, column := src.LineAndColumn(span.Start)
	locator := src.Path() + ":" + strconv.Itoa(line) + ":" + strconv.Itoa(column)
	sourceLine := src.Line(line)
	carets := span.Len()
	if carets < 1 || column-1+carets > len(sourceLine) {
		carets = len(sourceLine) - (column - 1)
		if carets < 1 {
			carets = 1
		}
	}
	number := strconv.Itoa(line)
	gutter := strings.Repeat(" ", len(number))
	return ERROR + message + "\n" +
		gutter + "---> " + Yellow(locator) + "\n" +
		gutter + " |\n" +
		number + " | " + sourceLine + "\n" +
		gutter + " | " + strings.Repeat(" ", column-1) + Red(strings.Repeat("^", carets)) + "\n"
}

var (
	RESET  = "\033[0m"
	RED    = "\033[31m"
	GREEN  = "\033[32m"
	YELLOW = "\033[33m"
	BLUE   = "\033[34m"
	PURPLE = "\033[35m"
	CYAN   = "\033[36m"
	GRAY   = "\033[37m"
	WHITE  = "\033[97m"
	ERROR  = Red("error") + ": "
	OK     = Green("ok")
)

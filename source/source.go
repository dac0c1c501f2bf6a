// Package source owns the text of a Minnow program. Tabs are normalized
// to four spaces before anything else sees the text, so that byte offsets,
// columns and caret diagnostics all agree about where things are.
package source

import (
	"os"
	"strings"

	"github.com/tim-hardcastle/Minnow/token"
)

const tabStop = "    "

type Source struct {
	path string
	text string
}

func New(path, text string) *Source {
	return &Source{path: path, text: strings.ReplaceAll(text, "\t", tabStop)}
}

func FromFile(path string) (*Source, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, string(bytes)), nil
}

func (src *Source) Path() string {
	return src.path
}

func (src *Source) Text() string {
	return src.text
}

func (src *Source) Slice(span token.Span) string {
	return src.text[span.Start:span.End]
}

func (src *Source) EOFSpan() token.Span {
	return token.Span{Start: len(src.text), End: len(src.text)}
}

func (src *Source) LineCount() int {
	return strings.Count(src.text, "\n") + 1
}

// Line returns the text of the 1-based line number n, without its
// terminating newline.
func (src *Source) Line(n int) string {
	lines := strings.Split(src.text, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// LineAndColumn finds the 1-based line and column of a byte offset by
// scanning from the start of the text.
func (src *Source) LineAndColumn(offset int) (int, int) {
	line, column := 1, 1
	for i := 0; i < offset && i < len(src.text); i++ {
		if src.text[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

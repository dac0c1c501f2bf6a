package source

import (
	"testing"

	"github.com/tim-hardcastle/Minnow/token"
)

func TestTabNormalization(t *testing.T) {
	src := New("dummy.mnw", "\tfoo\n\t\tbar")
	if src.Text() != "    foo\n        bar" {
		t.Fatalf("tabs not normalized, got=%q", src.Text())
	}
}

func TestLineAndColumn(t *testing.T) {
	src := New("dummy.mnw", "fn main() -> void {\n    print(42);\n}")
	tests := []struct {
		offset         int
		expectedLine   int
		expectedColumn int
	}{
		{0, 1, 1},
		{3, 1, 4},
		{18, 1, 19},
		{20, 2, 1},
		{24, 2, 5},
		{33, 2, 14},
	}
	for i, tt := range tests {
		line, column := src.LineAndColumn(tt.offset)
		if line != tt.expectedLine || column != tt.expectedColumn {
			t.Fatalf("tests[%d] - wrong position for offset %d. expected=%d:%d, got=%d:%d",
				i, tt.offset, tt.expectedLine, tt.expectedColumn, line, column)
		}
	}
}

func TestLine(t *testing.T) {
	src := New("dummy.mnw", "one\ntwo\nthree")
	if src.LineCount() != 3 {
		t.Fatalf("wrong line count. expected=3, got=%d", src.LineCount())
	}
	tests := []struct {
		n        int
		expected string
	}{
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{4, ""},
	}
	for i, tt := range tests {
		if got := src.Line(tt.n); got != tt.expected {
			t.Fatalf("tests[%d] - wrong line %d. expected=%q, got=%q", i, tt.n, tt.expected, got)
		}
	}
}

func TestSliceAndEOFSpan(t *testing.T) {
	src := New("dummy.mnw", "let int x = 1;")
	if got := src.Slice(token.Span{Start: 4, End: 7}); got != "int" {
		t.Fatalf("wrong slice. expected=%q, got=%q", "int", got)
	}
	eof := src.EOFSpan()
	if eof.Start != 14 || eof.End != 14 || eof.Len() != 0 {
		t.Fatalf("wrong EOF span, got=%+v", eof)
	}
}

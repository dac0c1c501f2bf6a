package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/tim-hardcastle/Minnow/source"
)

func TestEncodeTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []uint32
	}{
		{"fn add(int x) -> int {\nreturn x + 1;\n}",
			[]uint32{
				0, 0, 2, 1, 0, // fn
				0, 3, 3, 7, 0, // add
				0, 4, 3, 7, 0, // int
				0, 4, 1, 7, 0, // x
				0, 6, 3, 7, 0, // int
				1, 0, 6, 1, 0, // return
				0, 7, 1, 7, 0, // x
				0, 2, 1, 2, 0, // +
				0, 2, 1, 3, 0, // 1
			}},
		{"let x = 1.5; // fin",
			[]uint32{
				0, 0, 3, 1, 0, // let
				0, 4, 1, 7, 0, // x
				0, 4, 3, 3, 0, // 1.5
			}},
		{`let done = s == "yes";`,
			[]uint32{
				0, 0, 3, 1, 0, // let
				0, 4, 4, 7, 0, // done
				0, 7, 1, 7, 0, // s
				0, 2, 2, 2, 0, // ==
				0, 3, 5, 4, 0, // "yes"
			}},
	}
	for i, tt := range tests {
		got := encodeTokens(source.New("test", tt.input))
		if len(got) != len(tt.want) {
			t.Fatalf("tests[%d] - wrong number of values. expected=%v, got=%v",
				i, tt.want, got)
		}
		for j := range tt.want {
			if got[j] != tt.want[j] {
				t.Fatalf("tests[%d] - data wrong at %d. expected=%v, got=%v",
					i, j, tt.want, got)
			}
		}
	}
}

func request(t *testing.T, id int, method string, params any) string {
	t.Helper()
	req := map[string]any{"jsonrpc": "2.0", "method": method}
	if id != 0 {
		req["id"] = id
	}
	if params != nil {
		req["params"] = params
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func readFrame(t *testing.T, reader *bufio.Reader) []byte {
	t.Helper()
	contentLength := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatal(err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "Content-Length:") {
			contentLength, _ = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:")))
		}
	}
	body := make([]byte, contentLength)
	if _, err := io.ReadFull(reader, body); err != nil {
		t.Fatal(err)
	}
	return body
}

type rpcReply struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *ResponseError  `json:"error"`
}

func decode(t *testing.T, body []byte) rpcReply {
	t.Helper()
	var reply rpcReply
	if err := json.Unmarshal(body, &reply); err != nil {
		t.Fatal(err)
	}
	return reply
}

func TestServerSession(t *testing.T) {
	uri := "file:///fish.mnw"
	var input strings.Builder
	input.WriteString(request(t, 1, "initialize", map[string]any{}))
	input.WriteString(request(t, 0, "initialized", map[string]any{}))
	input.WriteString(request(t, 0, "textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, LanguageID: "minnow", Version: 1,
			Text: "fn main() -> void {}"}}))
	input.WriteString(request(t, 2, "textDocument/semanticTokens/full", SemanticTokensParams{
		TextDocument: TextDocumentIdentifier{URI: uri}}))
	input.WriteString(request(t, 0, "textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument:   TextDocumentIdentifier{URI: uri},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: "1 + 2;"}}}))
	input.WriteString(request(t, 3, "textDocument/semanticTokens/full", SemanticTokensParams{
		TextDocument: TextDocumentIdentifier{URI: uri}}))
	input.WriteString(request(t, 4, "textDocument/madeUp", map[string]any{}))
	input.WriteString(request(t, 5, "shutdown", nil))
	input.WriteString(request(t, 0, "exit", nil))

	out := &bytes.Buffer{}
	Run(strings.NewReader(input.String()), out)
	reader := bufio.NewReader(out)

	reply := decode(t, readFrame(t, reader))
	if reply.ID != 1 {
		t.Fatalf("initialize reply has wrong id. expected=%d, got=%d", 1, reply.ID)
	}
	var initResult InitializeResult
	if err := json.Unmarshal(reply.Result, &initResult); err != nil {
		t.Fatal(err)
	}
	if initResult.Capabilities.TextDocumentSync != 1 {
		t.Fatalf("server should advertise full sync, got=%d",
			initResult.Capabilities.TextDocumentSync)
	}
	legend := initResult.Capabilities.SemanticTokensProvider.Legend
	if len(legend.TokenTypes) != 8 || legend.TokenTypes[1] != "keyword" ||
		legend.TokenTypes[7] != "variable" {
		t.Fatalf("legend wrong, got=%v", legend.TokenTypes)
	}
	if !initResult.Capabilities.SemanticTokensProvider.Full {
		t.Fatalf("server should advertise full semantic tokens")
	}

	checkTokens := func(wantId int, want []uint32) {
		t.Helper()
		reply := decode(t, readFrame(t, reader))
		if reply.ID != wantId {
			t.Fatalf("reply has wrong id. expected=%d, got=%d", wantId, reply.ID)
		}
		var tokens SemanticTokens
		if err := json.Unmarshal(reply.Result, &tokens); err != nil {
			t.Fatal(err)
		}
		if len(tokens.Data) != len(want) {
			t.Fatalf("wrong number of values. expected=%v, got=%v", want, tokens.Data)
		}
		for i := range want {
			if tokens.Data[i] != want[i] {
				t.Fatalf("data wrong at %d. expected=%v, got=%v", i, want, tokens.Data)
			}
		}
	}

	// fn main() -> void {}
	checkTokens(2, []uint32{
		0, 0, 2, 1, 0, // fn
		0, 3, 4, 7, 0, // main
		0, 10, 4, 7, 0, // void
	})

	// The didChange replaced the document wholesale.
	checkTokens(3, []uint32{
		0, 0, 1, 3, 0, // 1
		0, 2, 1, 2, 0, // +
		0, 2, 1, 3, 0, // 2
	})

	reply = decode(t, readFrame(t, reader))
	if reply.ID != 4 || reply.Error == nil || reply.Error.Code != -32601 {
		t.Fatalf("unknown method should get a method-not-found error, got=%+v", reply)
	}

	reply = decode(t, readFrame(t, reader))
	if reply.ID != 5 || string(reply.Result) != "null" {
		t.Fatalf("shutdown reply wrong, got=%+v", reply)
	}

	if _, err := reader.ReadByte(); err != io.EOF {
		t.Fatalf("server wrote past the exit notification")
	}
}

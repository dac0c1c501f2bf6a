// The language server gives an editor what it needs to color Minnow code.
// It speaks JSON-RPC with Content-Length framing, keeps the text of the
// documents the editor has open, and answers semantic token requests from
// the lexer's output alone: highlighting shouldn't stop working just
// because the program doesn't typecheck yet.
package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tim-hardcastle/Minnow/lexer"
	"github.com/tim-hardcastle/Minnow/source"
	"github.com/tim-hardcastle/Minnow/text"
	"github.com/tim-hardcastle/Minnow/token"
)

type Server struct {
	in   *bufio.Reader
	out  io.Writer
	docs map[string]string // uri → text
}

func New(in io.Reader, out io.Writer) *Server {
	return &Server{in: bufio.NewReader(in), out: out, docs: map[string]string{}}
}

// Run serves until the client says 'exit' or the connection drops.
func Run(in io.Reader, out io.Writer) {
	New(in, out).Run()
}

func (server *Server) Run() {
	for {
		body, err := server.readMessage()
		if err != nil {
			return
		}
		var request Request
		if err := json.Unmarshal(body, &request); err != nil {
			continue
		}
		if server.handle(&request) {
			return
		}
	}
}

func (server *Server) handle(request *Request) bool {
	switch request.Method {
	case "initialize":
		server.initialize(request.ID)
	case "initialized":
		// Just an acknowledgment.
	case "shutdown":
		server.respond(request.ID, nil)
	case "exit":
		return true
	case "textDocument/didOpen":
		server.didOpen(request.Params)
	case "textDocument/didChange":
		server.didChange(request.Params)
	case "textDocument/semanticTokens/full":
		server.semanticTokens(request.ID, request.Params)
	default:
		// Unknown notifications are ignored; unknown requests get an error.
		if len(request.ID) > 0 {
			server.respondError(request.ID, -32601, "method not found")
		}
	}
	return false
}

func (server *Server) initialize(id json.RawMessage) {
	legend := SemanticTokensLegend{
		TokenTypes: []string{"comment", "keyword", "operator", "number",
			"string", "type", "parameter", "variable"},
		TokenModifiers: []string{},
	}
	server.respond(id, InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:       1,
			SemanticTokensProvider: &SemanticTokensOptions{Legend: legend, Full: true},
		},
		ServerInfo: map[string]string{"name": "minnow", "version": text.VERSION},
	})
}

func (server *Server) didOpen(params json.RawMessage) {
	var p DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return
	}
	server.docs[p.TextDocument.URI] = p.TextDocument.Text
}

func (server *Server) didChange(params json.RawMessage) {
	var p DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil || len(p.ContentChanges) == 0 {
		return
	}
	// Sync is full, so the last change is the whole document.
	server.docs[p.TextDocument.URI] = p.ContentChanges[len(p.ContentChanges)-1].Text
}

func (server *Server) semanticTokens(id, params json.RawMessage) {
	var p SemanticTokensParams
	if err := json.Unmarshal(params, &p); err != nil {
		server.respondError(id, -32602, "invalid params")
		return
	}
	docText, ok := server.docs[p.TextDocument.URI]
	if !ok {
		server.respond(id, SemanticTokens{Data: []uint32{}})
		return
	}
	server.respond(id, SemanticTokens{Data: encodeTokens(source.New(p.TextDocument.URI, docText))})
}

// encodeTokens lexes the document and delta-encodes the colorable tokens
// the way the protocol wants them: five numbers per token, the line and
// start column as deltas from the previous token, then the length, the
// index into the legend, and an empty modifier set.
func encodeTokens(src *source.Source) []uint32 {
	data := []uint32{}
	prevLine, prevStart := 0, 0
	for _, tok := range lexer.New(src).Tokenize() {
		tokenType, ok := semanticTokenType(tok.Type)
		if !ok {
			continue
		}
		line, column := src.LineAndColumn(tok.Span.Start)
		line, column = line-1, column-1 // the protocol counts from zero
		deltaLine := line - prevLine
		deltaStart := column
		if line == prevLine {
			deltaStart = column - prevStart
		}
		data = append(data, uint32(deltaLine), uint32(deltaStart),
			uint32(tok.Span.Len()), tokenType, 0)
		prevLine, prevStart = line, column
	}
	return data
}

func semanticTokenType(ttype token.TokenType) (uint32, bool) {
	switch ttype {
	case token.FN, token.EXTEND, token.LET, token.IF, token.ELSE, token.LOOP,
		token.RETURN, token.CONTINUE, token.BREAK:
		return 1, true // keyword
	case token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.BANG, token.LT, token.GT, token.EQ, token.NOT_EQ, token.LT_EQ,
		token.GT_EQ, token.AND, token.OR:
		return 2, true // operator
	case token.INT, token.FLOAT, token.BOOL:
		return 3, true // number
	case token.STRING:
		return 4, true // string
	case token.IDENT:
		return 7, true // variable
	}
	// '=', '->', punctuation, comments, whitespace, EOF and error runs
	// aren't colored.
	return 0, false
}

func (server *Server) readMessage() ([]byte, error) {
	contentLength := 0
	for {
		line, err := server.in.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if colon := strings.IndexByte(line, ':'); colon >= 0 {
			key := strings.ToLower(strings.TrimSpace(line[:colon]))
			if key == "content-length" {
				contentLength, _ = strconv.Atoi(strings.TrimSpace(line[colon+1:]))
			}
		}
	}
	if contentLength <= 0 {
		return nil, io.EOF
	}
	body := make([]byte, contentLength)
	if _, err := io.ReadFull(server.in, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (server *Server) writeMessage(v any) {
	body, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(server.out, "Content-Length: %d\r\n\r\n", len(body))
	server.out.Write(body)
}

func (server *Server) respond(id json.RawMessage, result any) {
	if result == nil {
		result = json.RawMessage("null")
	}
	server.writeMessage(Response{JSONRPC: "2.0", ID: id, Result: result})
}

func (server *Server) respondError(id json.RawMessage, code int, message string) {
	server.writeMessage(Response{JSONRPC: "2.0", ID: id,
		Error: &ResponseError{Code: code, Message: message}})
}

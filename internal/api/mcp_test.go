package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/docchat/internal/composer"
)

func callToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func docxBase64(t *testing.T, paragraphs ...string) string {
	t.Helper()
	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		doc.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	if _, err := fw.Write([]byte(doc.String())); err != nil {
		t.Fatalf("writing zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestMCPExtractText(t *testing.T) {
	handler := mcpExtractText()

	req := callToolRequest("extract_text", map[string]any{
		"filename":       "report.docx",
		"content_base64": docxBase64(t, "alpha", "beta"),
	})
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != "alpha\nbeta" {
		t.Errorf("text = %q, want alpha\\nbeta", got)
	}
}

func TestMCPExtractText_BadBase64(t *testing.T) {
	handler := mcpExtractText()

	req := callToolRequest("extract_text", map[string]any{
		"filename":       "report.docx",
		"content_base64": "!!! not base64 !!!",
	})
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("want IsError for invalid base64")
	}
}

func TestMCPExtractText_UnsupportedType(t *testing.T) {
	handler := mcpExtractText()

	req := callToolRequest("extract_text", map[string]any{
		"filename":       "notes.txt",
		"content_base64": base64.StdEncoding.EncodeToString([]byte("hello")),
	})
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("want IsError for unsupported type")
	}
	if !strings.Contains(resultText(t, res), "unsupported") {
		t.Errorf("text = %q", resultText(t, res))
	}
}

func TestMCPAsk_WithContext(t *testing.T) {
	gen := &scriptedGenerator{reply: "the answer"}
	handler := mcpAsk(MCPDeps{Generator: gen, Composer: composer.New()})

	req := callToolRequest("ask", map[string]any{
		"question": "what does it say?",
		"context":  "the document text",
	})
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != "the answer" {
		t.Errorf("text = %q", got)
	}
}

func TestMCPAsk_ModelFailure(t *testing.T) {
	gen := &scriptedGenerator{err: context.DeadlineExceeded}
	handler := mcpAsk(MCPDeps{Generator: gen, Composer: composer.New()})

	req := callToolRequest("ask", map[string]any{"question": "hello?"})
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("want IsError when the model call fails")
	}
}

func TestMCPAsk_MissingQuestion(t *testing.T) {
	handler := mcpAsk(MCPDeps{Generator: &scriptedGenerator{}, Composer: composer.New()})

	res, err := handler(context.Background(), callToolRequest("ask", map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("want IsError for a missing question")
	}
}

func TestNewMCPServer(t *testing.T) {
	s := NewMCPServer(MCPDeps{Generator: &scriptedGenerator{}, Composer: composer.New()})
	if s == nil {
		t.Fatal("NewMCPServer returned nil")
	}
}

package api

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/docchat/internal/composer"
	"github.com/kalambet/docchat/internal/engine"
	"github.com/kalambet/docchat/internal/extract"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Generator engine.Generator
	Composer  *composer.Composer
}

// NewMCPServer creates an MCP server exposing docchat's extraction and
// question answering as tools. Calls through MCP are one-shot: they never
// touch the web session's transcript or pending context.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"docchat",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("docchat — extract text from documents and ask Gemini about them."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("extract_text",
			mcp.WithDescription("Extract plain text from a document (pdf, docx, pptx, xlsx) or validate an image (png, jpg)."),
			mcp.WithString("filename", mcp.Description("Original file name; the extension selects the extractor"), mcp.Required()),
			mcp.WithString("content_base64", mcp.Description("File bytes, base64-encoded"), mcp.Required()),
		),
		mcpExtractText(),
	)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Ask Gemini a question, optionally constrained to supplied document text."),
			mcp.WithString("question", mcp.Description("The question to answer"), mcp.Required()),
			mcp.WithString("context", mcp.Description("Optional document text; when present the answer is restricted to it")),
		),
		mcpAsk(deps),
	)

	return s
}

func mcpExtractText() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filename, err := req.RequireString("filename")
		if err != nil {
			return mcpError("filename is required"), nil
		}
		encoded, err := req.RequireString("content_base64")
		if err != nil {
			return mcpError("content_base64 is required"), nil
		}

		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return mcpError("invalid base64 content"), nil
		}

		content, err := extract.Extract(filename, data)
		if err != nil {
			return mcpError(fmt.Sprintf("extraction failed: %v", err)), nil
		}

		switch content.Kind {
		case extract.KindText:
			return mcpText(content.Text), nil
		case extract.KindImage:
			return mcpText(fmt.Sprintf("image (%s, %dx%d); upload it through the web UI to ask about it", content.Format, content.Width, content.Height)), nil
		default:
			return mcpError(fmt.Sprintf("unsupported file type: %s", filename)), nil
		}
	}
}

func mcpAsk(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}

		var pending extract.Content
		if docText := req.GetString("context", ""); docText != "" {
			pending = extract.Content{Kind: extract.KindText, Text: docText}
		}

		parts := deps.Composer.Build(question, pending)
		reply, err := deps.Generator.Generate(ctx, nil, parts)
		if err != nil {
			return mcpError(fmt.Sprintf("model call failed: %v", err)), nil
		}
		return mcpText(reply), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

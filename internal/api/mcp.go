package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/msmohankumar/nx-codebot/internal/corpus"
	"github.com/msmohankumar/nx-codebot/internal/matcher"
	"github.com/msmohankumar/nx-codebot/internal/pipeline"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Generator GenerateRunner
	Explainer ExplainRunner // optional; if nil, explain_code returns an error
	Corpus    *corpus.Store
}

// NewMCPServer creates an MCP server with all nxbot tools and resources
// registered. It speaks stdio; run it with server.ServeStdio.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"nxbot",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("nxbot — NXOpen journal script generation from natural-language CAD requests."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("generate_code",
			mcp.WithDescription("Generate an NXOpen Python journal script from a natural-language CAD request."),
			mcp.WithString("request", mcp.Description("The CAD operation to script, e.g. 'create a block 100 100 50'"), mcp.Required()),
			mcp.WithArray("params", mcp.Description("Optional parameter values substituted into the script in order")),
		),
		mcpGenerateCode(deps),
	)

	s.AddTool(
		mcp.NewTool("match_example",
			mcp.WithDescription("Find the corpus example best matching a CAD request, with the strategy and confidence used."),
			mcp.WithString("request", mcp.Description("The CAD request to match"), mcp.Required()),
		),
		mcpMatchExample(deps),
	)

	s.AddTool(
		mcp.NewTool("explain_code",
			mcp.WithDescription("Explain an NXOpen Python code snippet in plain language. Results are cached by content."),
			mcp.WithString("code", mcp.Description("The code to explain"), mcp.Required()),
		),
		mcpExplainCode(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"corpus://examples",
			"Example Corpus",
			mcp.WithResourceDescription("All loaded example scripts as a JSON array of {filename, content}"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCorpus(deps),
	)

	return s
}

func mcpGenerateCode(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		request, err := req.RequireString("request")
		if err != nil {
			return mcpError("request is required"), nil
		}
		params := req.GetStringSlice("params", nil)

		res := deps.Generator.Generate(ctx, request, params)
		switch res.Status {
		case pipeline.StatusProviderFailed:
			return mcpError(fmt.Sprintf("generation failed: %v", res.Err)), nil
		case pipeline.StatusNoCode:
			return mcpError("provider answered but no code block could be recovered"), nil
		}

		return mcpText(res.Code), nil
	}
}

func mcpMatchExample(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		request, err := req.RequireString("request")
		if err != nil {
			return mcpError("request is required"), nil
		}

		res := matcher.Match(deps.Corpus.Snapshot(), request)
		out := MatchResponse{Matched: res.Matched(), Confidence: res.Confidence}
		if res.Matched() {
			out.Example = res.Document.Name
			out.Strategy = string(res.Strategy)
		}

		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpExplainCode(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Explainer == nil {
			return mcpError("explanation not available: no provider configured"), nil
		}

		code, err := req.RequireString("code")
		if err != nil {
			return mcpError("code is required"), nil
		}

		res, err := deps.Explainer.Explain(ctx, code)
		if err != nil {
			return mcpError(fmt.Sprintf("explanation failed: %v", err)), nil
		}
		return mcpText(res.Explanation), nil
	}
}

func mcpResourceCorpus(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snapshot := deps.Corpus.Snapshot()

		type entry struct {
			Filename string `json:"filename"`
			Content  string `json:"content"`
		}
		entries := make([]entry, snapshot.Len())
		for i, d := range snapshot.Docs {
			entries[i] = entry{Filename: d.Name, Content: d.Text}
		}

		b, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal corpus: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
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

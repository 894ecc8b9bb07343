package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

const Version = "1.0.0"

// NewMCPServer registers the legal advisor tools on an MCP server.
func NewMCPServer(name string, a Asker) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		name,
		Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithInstructions("Multilingual (English, Hindi, Nepali) assistant for Indian criminal law: Bharatiya Nyaya Sanhita, Bharatiya Sakshya Adhiniyam and Bharatiya Nagarik Suraksha Sanhita"),
	)

	s.AddTool(
		mcp.NewToolWithRawSchema("legal-chat", "Answer a legal question from the indexed legal codes, citing the sections used", GetLegalChatSchema()),
		HandleLegalChat(a),
	)
	s.AddTool(
		mcp.NewToolWithRawSchema("list-datasets", "List the legal codes and languages the assistant can answer from", GetListDatasetsSchema()),
		HandleListDatasets(),
	)
	return s
}

// ServeStdio serves the MCP server over stdin/stdout until the input closes.
func ServeStdio(s *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(s)
}

// NewMCPHTTPHandler exposes the MCP server over streamable HTTP.
func NewMCPHTTPHandler(s *mcpserver.MCPServer) *mcpserver.StreamableHTTPServer {
	return mcpserver.NewStreamableHTTPServer(s)
}

func GetLegalChatSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {
      "type": "string",
      "description": "The legal question"
    },
    "language": {
      "type": "string",
      "enum": ["en", "hi", "ne"],
      "description": "Language of the question and the answer (default en)"
    }
  },
  "required": ["query"]
}`)
}

func GetListDatasetsSchema() json.RawMessage {
	return json.RawMessage(`{
  "type": "object",
  "properties": {}
}`)
}

// HandleLegalChat answers a question through the pipeline.
func HandleLegalChat(a Asker) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		query, ok := args["query"].(string)
		if !ok {
			return nil, errors.New("invalid query argument")
		}
		lang, _ := args["language"].(string)

		resp, err := a.Ask(ctx, schema.ChatRequest{Query: query, Language: lang})
		if err != nil {
			if errors.Is(err, schema.ErrUnsupportedLanguage) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, fmt.Errorf("legal chat failed: %w", err)
		}
		return buildCallToolResult(resp)
	}
}

type datasetInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type listDatasetsResult struct {
	Datasets  []datasetInfo `json:"datasets"`
	Languages []string      `json:"languages"`
}

// HandleListDatasets lists the legal codes and supported languages.
func HandleListDatasets() mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out := listDatasetsResult{Languages: schema.SupportedLanguages()}
		for _, code := range schema.Datasets {
			out.Datasets = append(out.Datasets, datasetInfo{Code: code, Name: schema.DatasetName(code)})
		}
		return buildCallToolResult(out)
	}
}

func buildCallToolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

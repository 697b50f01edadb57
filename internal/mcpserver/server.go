package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all screening tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("crowsnest", "1.0.0")
	client := NewScreeningClient(cfg)
	h := NewHandlers(client)

	s.AddTool(ToolAnalyzeCharacter, h.HandleAnalyzeCharacter)
	s.AddTool(ToolGetVerdict, h.HandleGetVerdict)
	s.AddTool(ToolListVerdicts, h.HandleListVerdicts)
	s.AddTool(ToolCharacterHistory, h.HandleCharacterHistory)
	s.AddTool(ToolListRules, h.HandleListRules)

	return s
}

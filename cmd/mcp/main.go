// Crowsnest MCP Server - Exposes the screening API as MCP tools for LLMs
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/skarkon/crowsnest/internal/mcpserver"
)

func main() {
	cfg := mcpserver.Config{
		APIURL:      envOrDefault("CROWSNEST_API_URL", "http://localhost:8080"),
		AdminSecret: os.Getenv("CROWSNEST_ADMIN_SECRET"),
		RequestedBy: envOrDefault("CROWSNEST_REQUESTED_BY", "mcp"),
	}

	s := mcpserver.NewMCPServer(cfg)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

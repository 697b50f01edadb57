package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *ScreeningClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *ScreeningClient) *Handlers {
	return &Handlers{client: client}
}

// HandleAnalyzeCharacter runs a screening and summarizes the verdict.
func (h *Handlers) HandleAnalyzeCharacter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetArguments()["profile"]
	if raw == nil {
		return mcp.NewToolResultError("profile is required"), nil
	}
	profileJSON, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid profile: %v", err)), nil
	}

	result, err := h.client.Analyze(ctx, profileJSON)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Analysis failed: %v", err)), nil
	}

	text, err := formatVerdict(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse verdict: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleGetVerdict fetches one stored verdict.
func (h *Handlers) HandleGetVerdict(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("verdict_id", "")
	if id == "" {
		return mcp.NewToolResultError("verdict_id is required"), nil
	}

	raw, err := h.client.GetVerdict(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch verdict: %v", err)), nil
	}

	text, err := formatVerdict(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse verdict: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleListVerdicts lists recent verdicts.
func (h *Handlers) HandleListVerdicts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)

	raw, err := h.client.ListVerdicts(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list verdicts: %v", err)), nil
	}

	text, err := formatVerdictList(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse verdicts: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleCharacterHistory lists verdicts for one character.
func (h *Handlers) HandleCharacterHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	characterID := int64(req.GetInt("character_id", 0))
	if characterID == 0 {
		return mcp.NewToolResultError("character_id is required"), nil
	}
	limit := req.GetInt("limit", 20)

	raw, err := h.client.ListCharacterVerdicts(ctx, characterID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch history: %v", err)), nil
	}

	text, err := formatVerdictList(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse verdicts: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleListRules lists the configured screening rules.
func (h *Handlers) HandleListRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ListRules(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list rules: %v", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// -----------------------------------------------------------------------------
// Formatting
// -----------------------------------------------------------------------------

type verdictView struct {
	ID            string  `json:"id"`
	CharacterID   int64   `json:"characterId"`
	CharacterName string  `json:"characterName"`
	OverallRisk   string  `json:"overallRisk"`
	Confidence    float64 `json:"confidence"`
	Flags         []struct {
		Severity string `json:"severity"`
		Code     string `json:"code"`
		Reason   string `json:"reason"`
	} `json:"flags"`
	RedCount        int      `json:"redCount"`
	YellowCount     int      `json:"yellowCount"`
	GreenCount      int      `json:"greenCount"`
	Recommendations []string `json:"recommendations"`
	Errors          []string `json:"errors"`
}

func formatVerdict(raw json.RawMessage) (string, error) {
	var v verdictView
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Verdict %s for %s (%d)\n", v.ID, v.CharacterName, v.CharacterID)
	fmt.Fprintf(&sb, "Risk: %s (confidence %.2f)\n", strings.ToUpper(v.OverallRisk), v.Confidence)
	fmt.Fprintf(&sb, "Flags: %d red, %d yellow, %d green\n", v.RedCount, v.YellowCount, v.GreenCount)

	if len(v.Flags) > 0 {
		sb.WriteString("\n")
		for _, f := range v.Flags {
			fmt.Fprintf(&sb, "[%s] %s: %s\n", strings.ToUpper(f.Severity), f.Code, f.Reason)
		}
	}
	if len(v.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, r := range v.Recommendations {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
	}
	if len(v.Errors) > 0 {
		sb.WriteString("\nEvaluator errors (partial result):\n")
		for _, e := range v.Errors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
	}
	return sb.String(), nil
}

func formatVerdictList(raw json.RawMessage) (string, error) {
	var resp struct {
		Verdicts []verdictView `json:"verdicts"`
		Count    int           `json:"count"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if resp.Count == 0 {
		return "No verdicts found.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d verdict(s):\n\n", resp.Count)
	for _, v := range resp.Verdicts {
		fmt.Fprintf(&sb, "%s  %-8s  %s (%d)  %dR/%dY/%dG\n",
			v.ID, strings.ToUpper(v.OverallRisk), v.CharacterName, v.CharacterID,
			v.RedCount, v.YellowCount, v.GreenCount)
	}
	return sb.String(), nil
}

func formatJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

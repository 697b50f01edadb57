package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the screening MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolAnalyzeCharacter = mcp.NewTool("analyze_character",
	mcp.WithDescription(
		"Run a full risk analysis on a character applying to join the corporation. "+
			"Takes an assembled profile (identity, corp history, combat stats, journal, assets) "+
			"and returns a verdict with an overall risk level (red/yellow/green), confidence, "+
			"and the individual flags that drove it."),
	mcp.WithObject("profile",
		mcp.Required(),
		mcp.Description("The subject profile JSON: character_id, name, corp_history, combat_stats, activity, assets, journal, standings, alts")),
)

var ToolGetVerdict = mcp.NewTool("get_verdict",
	mcp.WithDescription(
		"Fetch a stored screening verdict by its ID. "+
			"Returns the full verdict including every flag with its evidence."),
	mcp.WithString("verdict_id",
		mcp.Required(),
		mcp.Description("The verdict ID (e.g. 'vrd_...')")),
)

var ToolListVerdicts = mcp.NewTool("list_verdicts",
	mcp.WithDescription(
		"List the most recent screening verdicts, newest first. "+
			"Use this to review what has been screened lately."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of verdicts to return (default 20)")),
)

var ToolCharacterHistory = mcp.NewTool("character_history",
	mcp.WithDescription(
		"List all past screening verdicts for one character. "+
			"Useful for re-applicants: compare how their risk profile changed between applications."),
	mcp.WithNumber("character_id",
		mcp.Required(),
		mcp.Description("The character's numeric ID")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of verdicts to return (default 20)")),
)

var ToolListRules = mcp.NewTool("list_rules",
	mcp.WithDescription(
		"List the operator-defined screening rules currently configured, "+
			"including their condition, severity, and enabled state."),
)

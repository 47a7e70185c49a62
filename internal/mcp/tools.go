// ABOUTME: MCP tool definitions and registration for the hometalk server
// ABOUTME: Exposes summaries, vocabulary, and conversation history to MCP clients
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/junwei/hometalk/internal/core"
	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server.
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage, agg *core.Aggregator,
	vocab *core.VocabularyExtractor, log *logger.Logger) *Handlers {
	handlers := &Handlers{
		store: store,
		agg:   agg,
		vocab: vocab,
		log:   log,
	}

	// 1. generate_daily_summary - build (or rebuild) a day's digest
	server.AddTool(mcp.Tool{
		Name:        "generate_daily_summary",
		Description: "Generate the bilingual daily summary with five key phrases for a household's local calendar date. Regenerating an existing date replaces it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"household_id": map[string]interface{}{
					"type":        "string",
					"description": "Household to summarize",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Local date YYYY-MM-DD (default: today in the household's timezone)",
				},
			},
			Required: []string{"household_id"},
		},
	}, handlers.GenerateDailySummary)

	// 2. get_daily_summary - read a stored digest without regenerating
	server.AddTool(mcp.Tool{
		Name:        "get_daily_summary",
		Description: "Get the stored daily summary and key phrases for a household and date.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"household_id": map[string]interface{}{
					"type":        "string",
					"description": "Household to read",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Local date YYYY-MM-DD",
				},
			},
			Required: []string{"household_id", "date"},
		},
	}, handlers.GetDailySummary)

	// 3. get_vocabulary - extract the day's study vocabulary
	server.AddTool(mcp.Tool{
		Name:        "get_vocabulary",
		Description: "Extract ranked study vocabulary (nouns, verbs, phrases with translations) from a household's conversations on a local date.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"household_id": map[string]interface{}{
					"type":        "string",
					"description": "Household to extract from",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Local date YYYY-MM-DD (default: today in the household's timezone)",
				},
			},
			Required: []string{"household_id"},
		},
	}, handlers.GetVocabulary)

	// 4. list_turns - raw conversation history for a date
	server.AddTool(mcp.Tool{
		Name:        "list_turns",
		Description: "List a household's conversation turns (both languages, with situation tags) for a local date.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"household_id": map[string]interface{}{
					"type":        "string",
					"description": "Household to list",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Local date YYYY-MM-DD",
				},
			},
			Required: []string{"household_id", "date"},
		},
	}, handlers.ListTurns)

	return handlers
}

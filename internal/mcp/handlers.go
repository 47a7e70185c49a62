// ABOUTME: MCP tool handler implementations for the hometalk server
// ABOUTME: Thin adapters over the aggregator, vocabulary extractor, and storage
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/junwei/hometalk/internal/core"
	"github.com/junwei/hometalk/internal/errs"
	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools.
type Handlers struct {
	store *sqlite.Storage
	agg   *core.Aggregator
	vocab *core.VocabularyExtractor
	log   *logger.Logger
}

// GenerateDailySummary handles the generate_daily_summary tool.
func (h *Handlers) GenerateDailySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	householdID, err := request.RequireString("household_id")
	if err != nil {
		return mcp.NewToolResultError("household_id argument is required and must be a string"), nil
	}
	date := request.GetString("date", "")

	result, err := h.agg.Generate(ctx, householdID, date)
	if err != nil {
		if errors.Is(err, errs.ErrNoConversations) {
			return mcp.NewToolResultError(errs.UserMessage(err)), nil
		}
		h.log.Error("summary generation failed", "household", householdID, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("summary generation failed: %v", err)), nil
	}
	return jsonResult(result)
}

// GetDailySummary handles the get_daily_summary tool.
func (h *Handlers) GetDailySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	householdID, err := request.RequireString("household_id")
	if err != nil {
		return mcp.NewToolResultError("household_id argument is required and must be a string"), nil
	}
	date, err := request.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date argument is required and must be a string"), nil
	}

	summary, err := h.store.Summaries.Get(householdID, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading summary: %v", err)), nil
	}
	if summary == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no summary stored for %s on %s", householdID, date)), nil
	}
	phrases, err := h.store.Summaries.GetPhrases(householdID, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading phrases: %v", err)), nil
	}
	return jsonResult(core.SummaryResult{Summary: summary, Phrases: phrases})
}

// GetVocabulary handles the get_vocabulary tool.
func (h *Handlers) GetVocabulary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	householdID, err := request.RequireString("household_id")
	if err != nil {
		return mcp.NewToolResultError("household_id argument is required and must be a string"), nil
	}
	date := request.GetString("date", "")

	result, err := h.vocab.Extract(ctx, householdID, date)
	if err != nil {
		if errors.Is(err, errs.ErrNoConversations) {
			return mcp.NewToolResultError(errs.UserMessage(err)), nil
		}
		h.log.Error("vocabulary extraction failed", "household", householdID, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("vocabulary extraction failed: %v", err)), nil
	}
	return jsonResult(result)
}

// ListTurns handles the list_turns tool.
func (h *Handlers) ListTurns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	householdID, err := request.RequireString("household_id")
	if err != nil {
		return mcp.NewToolResultError("household_id argument is required and must be a string"), nil
	}
	date, err := request.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date argument is required and must be a string"), nil
	}

	hh, err := h.store.Households.Get(householdID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("household not found: %v", err)), nil
	}
	loc, err := hh.Location()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("household timezone: %v", err)), nil
	}
	from, to, err := core.DayWindowUTC(date, loc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v", err)), nil
	}

	turns, err := h.store.Turns.ListByEndedRange(householdID, from, to)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing turns: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"date": date, "turns": turns})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

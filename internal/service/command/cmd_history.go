package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/service/dialogue"
)

const defaultHistoryLimit = 10

type HistoryCommand struct {
	history   core.HistoryCache
	formatter *ResponseFormatter
}

func NewHistoryCommand(history core.HistoryCache) *HistoryCommand {
	return &HistoryCommand{history: history, formatter: NewResponseFormatter()}
}

func (c *HistoryCommand) Name() string {
	return "history"
}

func (c *HistoryCommand) Description() string {
	return "Show recent conversation turns"
}

func (c *HistoryCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return c.formatter.Usage("/history [count]"), nil
		}
		limit = n
	}

	entries, err := c.history.GetRecent(ctx, userID, limit)
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}
	if len(entries) == 0 {
		return c.formatter.Empty("history"), nil
	}
	return c.formatter.Combine(c.formatter.Info("Recent turns"), dialogue.FormatHistory(entries)), nil
}

// SummaryCommand condenses recent history with the generator.
type SummaryCommand struct {
	history   core.HistoryCache
	gen       core.Generator
	formatter *ResponseFormatter
}

func NewSummaryCommand(history core.HistoryCache, gen core.Generator) *SummaryCommand {
	return &SummaryCommand{history: history, gen: gen, formatter: NewResponseFormatter()}
}

func (c *SummaryCommand) Name() string {
	return "summary"
}

func (c *SummaryCommand) Description() string {
	return "Summarize our recent conversation"
}

func (c *SummaryCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	entries, err := c.history.GetRecent(ctx, userID, defaultHistoryLimit)
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}
	if len(entries) == 0 {
		return c.formatter.Empty("conversation to summarize"), nil
	}
	return c.formatter.Combine(
		c.formatter.Info("Summary"),
		c.gen.Summarize(ctx, dialogue.FormatHistory(entries)),
	), nil
}

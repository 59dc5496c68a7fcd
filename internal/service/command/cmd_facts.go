package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/recallbot/internal/core"
)

// FactLister is the fact store surface the fact commands need.
type FactLister interface {
	ListFacts(ctx context.Context, owner string) ([]core.FactRecord, error)
	DeleteFact(ctx context.Context, owner, key string) error
}

type FactsCommand struct {
	facts     FactLister
	formatter *ResponseFormatter
}

func NewFactsCommand(facts FactLister) *FactsCommand {
	return &FactsCommand{facts: facts, formatter: NewResponseFormatter()}
}

func (c *FactsCommand) Name() string {
	return "facts"
}

func (c *FactsCommand) Description() string {
	return "List what I remember about you"
}

func (c *FactsCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	records, err := c.facts.ListFacts(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list facts: %w", err)
	}
	if len(records) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Your facts"),
			c.formatter.Empty("facts"),
			c.formatter.Tip("say \"remember my city is Pune\""),
		), nil
	}

	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(c.formatter.Label(r.Key, r.Value))
	}
	return c.formatter.Combine(c.formatter.Info("Your facts"), sb.String()), nil
}

type ForgetCommand struct {
	facts     FactLister
	formatter *ResponseFormatter
}

func NewForgetCommand(facts FactLister) *ForgetCommand {
	return &ForgetCommand{facts: facts, formatter: NewResponseFormatter()}
}

func (c *ForgetCommand) Name() string {
	return "forget"
}

func (c *ForgetCommand) Description() string {
	return "Forget one fact by key"
}

func (c *ForgetCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Usage("/forget [key]"), nil
	}

	key := strings.ToLower(strings.Join(args, " "))
	if err := c.facts.DeleteFact(ctx, userID, key); err != nil {
		return "", fmt.Errorf("forget %q: %w", key, err)
	}
	return c.formatter.Success(fmt.Sprintf("Forgot `%s`", key)), nil
}

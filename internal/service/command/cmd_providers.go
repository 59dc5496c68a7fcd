package command

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/recallbot/internal/core"
)

type ProvidersCommand struct {
	gen       core.Generator
	formatter *ResponseFormatter
	now       func() time.Time
}

func NewProvidersCommand(gen core.Generator) *ProvidersCommand {
	return &ProvidersCommand{gen: gen, formatter: NewResponseFormatter(), now: time.Now}
}

func (c *ProvidersCommand) Name() string {
	return "providers"
}

func (c *ProvidersCommand) Description() string {
	return "Show AI provider availability"
}

func (c *ProvidersCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	statuses := c.gen.Status()
	if len(statuses) == 0 {
		return c.formatter.Empty("providers configured"), nil
	}

	items := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if s.Available {
			items = append(items, fmt.Sprintf("%s: available", s.Name))
			continue
		}
		wait := s.RetryAt.Sub(c.now()).Round(time.Second)
		items = append(items, fmt.Sprintf("%s: cooling down, retry in %s", s.Name, wait))
	}
	return c.formatter.Combine(c.formatter.Info("Providers"), c.formatter.List(items)), nil
}

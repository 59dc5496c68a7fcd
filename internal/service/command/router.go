package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
)

type Router struct {
	commands map[string]core.Command
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	return c
}

// Execute runs a slash command. The bool reports whether input was a
// command at all; plain text goes to the agent instead.
func (c *Router) Execute(ctx context.Context, userID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	// telegram appends @botname in groups
	name, _, _ := strings.Cut(strings.TrimPrefix(parts[0], "/"), "@")
	args := parts[1:]

	if name == "help" || name == "start" {
		return c.help(), true
	}

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s", name), true
	}

	result, err := cmd.Execute(ctx, userID, args)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("command", name).Msg("command failed")
		return NewResponseFormatter().Error(name, err), true
	}
	return result, true
}

// ListCommands returns commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}

func (c *Router) help() string {
	f := NewResponseFormatter()
	items := make([]string, 0, len(c.commands))
	for _, cmd := range c.ListCommands() {
		items = append(items, fmt.Sprintf("/%s  %s", cmd.Name(), cmd.Description()))
	}
	return f.Combine(
		f.Info(core.AppName+" commands"),
		f.List(items),
		f.Tip("anything without a leading slash is sent to the assistant"),
	)
}

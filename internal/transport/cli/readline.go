package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/service/ui"
	"github.com/sandevgo/recallbot/pkg/conv"
	"github.com/sandevgo/recallbot/pkg/log"
)

const DefaultUserID = "cli-local"

type ReadLine struct {
	cfg      core.AppConfig
	handler  core.TurnHandler
	commands core.CmdRouter
	rl       *readline.Instance
	userID   string
}

func NewReadLine(handler core.TurnHandler, commands core.CmdRouter, cfg core.AppConfig, userID string) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}
	if userID == "" {
		userID = DefaultUserID
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ui.PromptStyle.Render(">>>") + " ",
		HistoryFile:     filepath.Join(cfg.GetRuntimePath(), "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:      cfg,
		handler:  handler,
		commands: commands,
		rl:       rl,
		userID:   userID,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	fmt.Fprintln(r.rl.Stdout(), ui.TitleStyle.Render(core.AppName+" chat. Type /help for commands, 'exit' to quit."))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		reply := Turn(ctx, r.handler, r.commands, r.userID, line)
		logger.Debug().Int("reply_len", len(reply)).Msg("turn done")
		fmt.Fprintln(r.rl.Stdout(), ui.ReplyStyle.Render(conv.MarkdownToPlain([]byte(reply))))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// Turn answers one line: slash commands first, then the handler.
func Turn(ctx context.Context, handler core.TurnHandler, commands core.CmdRouter, userID, line string) string {
	if commands != nil {
		if out, ok := commands.Execute(ctx, userID, line); ok {
			return out
		}
	}
	return handler.Handle(ctx, userID, line)
}

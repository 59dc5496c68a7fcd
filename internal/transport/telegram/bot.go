package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Handler answers a turn that keeps its telegram chat id.
type Handler interface {
	HandleTurn(ctx context.Context, turn core.ConversationTurn) string
}

type Bot struct {
	bot      *tele.Bot
	cfg      core.TelegramConfig
	handler  Handler
	commands core.CmdRouter
	sender   *sender
	allowed  allowList
}

func NewBot(
	ctx context.Context,
	cfg core.TelegramConfig,
	handler Handler,
	commands core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		cfg:      cfg,
		handler:  handler,
		commands: commands,
		sender:   newSender(b),
		allowed:  newAllowList(cfg.GetAllowedIDs()),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !bot.allowed.permits(c.Sender().ID) {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Int("allowed_users", len(b.allowed)).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx).With().Int64("chat_id", c.Chat().ID).Logger()
	ctx = logger.WithContext(ctx)

	userID := UserID(c.Sender().ID)
	_ = c.Notify(tele.Typing)

	reply, isCommand := b.commands.Execute(ctx, userID, c.Text())
	if !isCommand {
		reply = b.handler.HandleTurn(ctx, core.ConversationTurn{
			UserID:         userID,
			Text:           c.Text(),
			ConversationID: strconv.FormatInt(c.Chat().ID, 10),
			At:             c.Message().Time(),
		})
	}

	if err := b.sender.sendMarkdown(ctx, c.Recipient(), reply, false); err != nil {
		logger.Error().Err(err).Msg("failed to deliver reply")
	}
	return nil
}

// UserID namespaces telegram senders so they never collide with CLI or
// MCP users in shared stores.
func UserID(senderID int64) string {
	return fmt.Sprintf("tg-%d", senderID)
}

type allowList map[int64]struct{}

func newAllowList(ids []int64) allowList {
	out := make(allowList, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func (a allowList) permits(id int64) bool {
	_, ok := a[id]
	return ok
}

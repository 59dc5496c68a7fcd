package telegram

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/recallbot/pkg/conv"
	"github.com/sandevgo/recallbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks.
// A chunk telegram rejects as HTML is resent as plain text.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, silent bool) error {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		html = conv.Truncate(md, maxTelegramMsgLen)
	}

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		opts := []interface{}{tele.ModeHTML}
		if silent && i == 0 {
			opts = append(opts, tele.Silent)
		}

		if _, err := s.bot.Send(to, chunk, opts...); err != nil {
			logger.Warn().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("html send rejected, retrying as plain text")
			plain, convErr := conv.HTMLToText(chunk)
			if convErr != nil {
				plain = chunk
			}
			if _, err := s.bot.Send(to, plain); err != nil {
				logger.Error().Err(err).Int("chunk", i).Msg("failed to send telegram chunk")
				return err
			}
		}
	}
	return nil
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It prefers newlines and never cuts inside a UTF-8 sequence.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxLen
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}

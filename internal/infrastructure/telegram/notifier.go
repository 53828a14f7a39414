// Package telegram delivers end-of-cycle digests to a Telegram chat.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"HealthNewsRelay/internal/ports"
)

// Notifier sends digests via the bot API. The bot handle is created lazily so
// a misconfigured token surfaces on first use, not at wiring time.
type Notifier struct {
	token  string
	chatID int64
	bot    *tgbotapi.BotAPI
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers the bot token and chat identifier.
func NewNotifier(token string, chatID int64) *Notifier {
	return &Notifier{token: token, chatID: chatID}
}

// Configured reports whether the notifier has a token and chat.
func (n *Notifier) Configured() bool {
	return n.token != "" && n.chatID != 0
}

// PublishDigest posts a Markdown message to the configured chat.
func (n *Notifier) PublishDigest(ctx context.Context, digest string) error {
	if !n.Configured() {
		return fmt.Errorf("telegram notifier misconfigured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if n.bot == nil {
		bot, err := tgbotapi.NewBotAPI(n.token)
		if err != nil {
			return fmt.Errorf("telegram bot init: %w", err)
		}
		n.bot = bot
	}

	msg := tgbotapi.NewMessage(n.chatID, digest)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

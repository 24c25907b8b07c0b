// Package telegram posts operator log lines to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/csg33k/ldpr-reports/internal/ports"
)

// maxMessageLen is the Telegram limit for one text message, in runes.
const maxMessageLen = 4096

type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Notifier sends every notification as one message to a fixed chat.
type Notifier struct {
	sender messageSender
	chatID int64
	now    func() time.Time
}

var _ ports.Notifier = (*Notifier)(nil)

// New creates a notifier for the bot token. The token is not checked against
// the Telegram API until the first message is sent.
func New(token string, chatID int64) (*Notifier, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return newNotifier(b, chatID), nil
}

func newNotifier(s messageSender, chatID int64) *Notifier {
	return &Notifier{sender: s, chatID: chatID, now: time.Now}
}

func (n *Notifier) Notify(ctx context.Context, level, message string, extra map[string]any) error {
	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   n.format(level, message, extra),
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

func (n *Notifier) format(level, message string, extra map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(level), message)
	fmt.Fprintf(&b, "log_id: %s\n", uuid.NewString()[:16])
	fmt.Fprintf(&b, "time: %s\n", n.now().Format(time.RFC3339))

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, extra[k])
	}
	return truncate(strings.TrimRight(b.String(), "\n"), maxMessageLen)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// Nop discards notifications. It is used when no bot token is configured.
type Nop struct{}

func (Nop) Notify(context.Context, string, string, map[string]any) error { return nil }

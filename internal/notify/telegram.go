package notify

import (
	"context"

	"github.com/thekoalas/koalabot/internal/platform/telegram"
)

// TelegramSender delivers notifications through the Telegram Bot API.
type TelegramSender struct {
	client *telegram.Client
}

// NewTelegramSender wraps a Telegram client as a Sender.
func NewTelegramSender(client *telegram.Client) *TelegramSender {
	return &TelegramSender{client: client}
}

// SendTo posts the message to the given chat.
func (t *TelegramSender) SendTo(ctx context.Context, chatID int64, message string) error {
	return t.client.SendMessage(ctx, chatID, message)
}

// Name returns the sender identifier.
func (t *TelegramSender) Name() string {
	return "telegram"
}

// Package notify delivers rendered messages to chats and owns the message
// renderer that turns orders and opportunities into display text.
package notify

import "context"

// Sender delivers a ready-to-display message to one destination chat.
type Sender interface {
	// SendTo delivers an HTML message to the given chat.
	SendTo(ctx context.Context, chatID int64, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}

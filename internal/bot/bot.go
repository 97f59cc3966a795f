// Package bot is the Telegram command layer: it long-polls for updates and
// routes commands onto the ads, arbitrage, and watch services.
package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/thekoalas/koalabot/internal/arbitrage"
	"github.com/thekoalas/koalabot/internal/notify"
	"github.com/thekoalas/koalabot/internal/platform/telegram"
	"github.com/thekoalas/koalabot/internal/service"
	"github.com/thekoalas/koalabot/internal/watch"
)

const brandingText = "⚡ by https://t.me/TheKoalas"

// pollRetryDelay is how long the update loop backs off after a failed poll.
const pollRetryDelay = 3 * time.Second

// Config holds the bot's default trade pair and polling settings.
type Config struct {
	Asset string
	Fiat  string
	// PollTimeout is the getUpdates long-poll timeout in seconds.
	PollTimeout int
}

// Bot routes chat commands to the underlying services and replies with
// rendered listings.
type Bot struct {
	tg       *telegram.Client
	ads      *service.AdsService
	detector *arbitrage.Detector
	watcher  *watch.Watcher
	renderer *notify.Renderer
	cfg      Config
	logger   *slog.Logger
}

// New creates a Bot wired to the given services.
func New(
	tg *telegram.Client,
	ads *service.AdsService,
	detector *arbitrage.Detector,
	watcher *watch.Watcher,
	renderer *notify.Renderer,
	cfg Config,
	logger *slog.Logger,
) *Bot {
	return &Bot{
		tg:       tg,
		ads:      ads,
		detector: detector,
		watcher:  watcher,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "bot")),
	}
}

// Run long-polls for updates and dispatches each incoming message until the
// context is cancelled. Poll failures are logged and retried with a short
// backoff rather than terminating the loop.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.InfoContext(ctx, "bot update loop started")
	defer b.logger.Info("bot update loop stopped")

	var offset int64
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		updates, err := b.tg.PollUpdates(ctx, offset, b.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.WarnContext(ctx, "poll updates failed", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handle(ctx, update.Message)
		}
	}
}

// reply sends a rendered message back to the chat, logging delivery failures.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.tg.SendMessage(ctx, chatID, text); err != nil {
		b.logger.ErrorContext(ctx, "reply failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

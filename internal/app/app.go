// Package app provides the top-level application lifecycle for the koala
// bot. It wires together the marketplace client, services, watcher, notifier,
// and the Telegram command loop, and runs them until shutdown.
package app

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/thekoalas/koalabot/internal/arbitrage"
	"github.com/thekoalas/koalabot/internal/bot"
	"github.com/thekoalas/koalabot/internal/config"
	"github.com/thekoalas/koalabot/internal/notify"
	"github.com/thekoalas/koalabot/internal/platform/binance"
	"github.com/thekoalas/koalabot/internal/platform/telegram"
	"github.com/thekoalas/koalabot/internal/service"
	"github.com/thekoalas/koalabot/internal/watch"
)

// App is the root application object.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies and blocks on the bot update loop until the
// context is cancelled. Watch subscriptions run as children of the same
// context, so shutdown cancels them too.
func (a *App) Run(ctx context.Context) error {
	market := binance.NewClient(a.cfg.Binance.BaseURL, a.cfg.Binance.Rows)
	ads := service.NewAdsService(market, a.logger)

	detector := arbitrage.NewDetector(ads, arbitrage.DetectorConfig{
		Asset: a.cfg.Binance.Asset,
		Fiat:  a.cfg.Binance.Fiat,
	}, a.logger)

	tg := telegram.NewClient(a.cfg.Telegram.Token)
	sender := notify.NewTelegramSender(tg)
	renderer := notify.NewRenderer(a.cfg.Binance.BaseURL)

	// The watch loop's signature is the rendered notification text itself.
	detect := func(ctx context.Context) (string, error) {
		opp, err := detector.Detect(ctx)
		if err != nil {
			return "", err
		}
		return renderer.Opportunity(opp), nil
	}
	watcher := watch.New(detect, sender, a.cfg.Watch.Interval.Duration, a.logger)

	koala := bot.New(tg, ads, detector, watcher, renderer, bot.Config{
		Asset:       a.cfg.Binance.Asset,
		Fiat:        a.cfg.Binance.Fiat,
		PollTimeout: a.cfg.Telegram.PollTimeout,
	}, a.logger)

	a.logger.InfoContext(ctx, "starting application",
		slog.String("asset", a.cfg.Binance.Asset),
		slog.String("fiat", a.cfg.Binance.Fiat),
		slog.Duration("watch_interval", a.cfg.Watch.Interval.Duration),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return koala.Run(gctx)
	})
	return g.Wait()
}

// Package arbitrage detects cross-side spreads on the P2P marketplace: cases
// where the best buyer pays strictly more than the best seller asks.
package arbitrage

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/thekoalas/koalabot/internal/domain"
)

// AdSource supplies advertisements already ranked in selection order
// (price ascending, finish rate descending on ties).
type AdSource interface {
	TopAds(ctx context.Context, query domain.AdQuery) ([]domain.Order, error)
}

// DetectorConfig configures the detector's asset/fiat pair.
type DetectorConfig struct {
	Asset string
	Fiat  string
}

// Detector compares the best Buy-direction ad against the best Sell-direction
// ad for one asset/fiat pair.
type Detector struct {
	ads    AdSource
	cfg    DetectorConfig
	logger *slog.Logger
}

// NewDetector creates a detector for the configured pair.
func NewDetector(ads AdSource, cfg DetectorConfig, logger *slog.Logger) *Detector {
	return &Detector{
		ads:    ads,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "arb_detector")),
	}
}

// Detect fetches both sides concurrently and returns the current opportunity,
// or nil when there is none. There is no opportunity when either side has no
// ads or when the best sell price does not strictly exceed the best buy
// price. A transport failure on either side fails the whole detection.
func (d *Detector) Detect(ctx context.Context) (*domain.Opportunity, error) {
	var buySide, sellSide []domain.Order

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		buySide, err = d.ads.TopAds(gctx, domain.AdQuery{
			Asset:     d.cfg.Asset,
			Fiat:      d.cfg.Fiat,
			TradeType: domain.TradeTypeBuy,
		})
		return err
	})
	g.Go(func() error {
		var err error
		sellSide, err = d.ads.TopAds(gctx, domain.AdQuery{
			Asset:     d.cfg.Asset,
			Fiat:      d.cfg.Fiat,
			TradeType: domain.TradeTypeSell,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Selection order is ascending by price, so the highest-paying buyer on
	// the sell side is the last element; reverse to bring it to the front.
	sellSide = slices.Clone(sellSide)
	slices.Reverse(sellSide)

	if len(buySide) == 0 || len(sellSide) == 0 {
		d.logger.DebugContext(ctx, "no opportunity: one side empty",
			slog.Int("buy_ads", len(buySide)),
			slog.Int("sell_ads", len(sellSide)),
		)
		return nil, nil
	}

	bestBuy := buySide[0]
	bestSell := sellSide[0]
	if bestSell.Price <= bestBuy.Price {
		return nil, nil
	}

	spread := bestSell.Price - bestBuy.Price
	opp := &domain.Opportunity{
		ID:         uuid.Must(uuid.NewRandom()).String(),
		Asset:      d.cfg.Asset,
		Fiat:       d.cfg.Fiat,
		Buy:        bestBuy,
		Sell:       bestSell,
		Spread:     spread,
		SpreadPct:  (spread / bestSell.Price) * 100,
		DetectedAt: time.Now(),
	}

	d.logger.InfoContext(ctx, "opportunity detected",
		slog.Float64("buy_price", bestBuy.Price),
		slog.Float64("sell_price", bestSell.Price),
		slog.Float64("spread_pct", opp.SpreadPct),
	)
	return opp, nil
}

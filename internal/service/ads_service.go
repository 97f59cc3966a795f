// Package service holds the thin application services between the platform
// clients and the bot/watch layers.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thekoalas/koalabot/internal/domain"
	"github.com/thekoalas/koalabot/internal/rank"
)

// AdSearcher is the marketplace capability AdsService needs.
type AdSearcher interface {
	SearchAds(ctx context.Context, query domain.AdQuery) ([]domain.Order, error)
}

// AdsService fetches advertisements and ranks them with the selection
// ordering (price ascending, finish rate descending on ties).
type AdsService struct {
	client AdSearcher
	logger *slog.Logger
}

// NewAdsService creates an AdsService backed by the given marketplace client.
func NewAdsService(client AdSearcher, logger *slog.Logger) *AdsService {
	return &AdsService{
		client: client,
		logger: logger.With(slog.String("component", "ads_service")),
	}
}

// TopAds validates the query, fetches one page of advertisements, and returns
// them in selection order. An empty result is a normal outcome (no liquidity),
// not an error.
func (s *AdsService) TopAds(ctx context.Context, query domain.AdQuery) ([]domain.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("ads: %w", err)
	}

	orders, err := s.client.SearchAds(ctx, query)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "ads fetched",
		slog.String("trade_type", string(query.TradeType)),
		slog.String("asset", query.Asset),
		slog.String("fiat", query.Fiat),
		slog.Int("count", len(orders)),
	)

	return rank.ByPriceThenFinishRate(orders), nil
}

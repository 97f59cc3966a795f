package domain

import "time"

// Opportunity is a detected cross-side arbitrage spread: the best sell-side
// ad pays strictly more than the best buy-side ad asks.
type Opportunity struct {
	ID    string
	Asset string
	Fiat  string
	// Buy is the best Buy-direction ad: the lowest price at which the asset
	// can be acquired.
	Buy Order
	// Sell is the best Sell-direction ad: the highest price a counter-party
	// pays for the asset.
	Sell Order
	// Spread is Sell.Price - Buy.Price, always positive.
	Spread float64
	// SpreadPct is (Spread / Sell.Price) * 100. The percentage is relative to
	// the sell price, not the buy price or the mid-price; downstream output
	// depends on this exact definition.
	SpreadPct  float64
	DetectedAt time.Time
}

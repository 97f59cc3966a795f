// Package rank provides the pure ordering functions for advertisement lists.
// Both sorts are stable so exact ties keep their original marketplace order.
package rank

import (
	"cmp"
	"slices"

	"github.com/thekoalas/koalabot/internal/domain"
)

// ByPriceThenFinishRate returns the orders sorted ascending by price, with
// ties broken by descending monthly finish rate. This is the selection
// ordering: the cheapest ad wins, and among equally priced ads the more
// reliable advertiser ranks first. The input slice is not modified.
func ByPriceThenFinishRate(orders []domain.Order) []domain.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b domain.Order) int {
		if c := cmp.Compare(a.Price, b.Price); c != 0 {
			return c
		}
		return cmp.Compare(b.Advertiser.MonthFinishRate, a.Advertiser.MonthFinishRate)
	})
	return sorted
}

// ByPrice returns the orders sorted ascending by price only. It is the
// display ordering applied after a top-N set has already been selected. The
// input slice is not modified.
func ByPrice(orders []domain.Order) []domain.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b domain.Order) int {
		return cmp.Compare(a.Price, b.Price)
	})
	return sorted
}

// ForDisplay orders the ads for presentation: ascending by price, reversed
// for Sell direction so the first listing shown is always the most favorable
// one for the reader (cheapest seller, or highest-paying buyer).
func ForDisplay(orders []domain.Order, tradeType domain.TradeType) []domain.Order {
	sorted := ByPrice(orders)
	if tradeType == domain.TradeTypeSell {
		slices.Reverse(sorted)
	}
	return sorted
}

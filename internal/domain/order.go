// Package domain defines the core types shared across the bot: marketplace
// queries, advertisements, detected opportunities, and sentinel errors.
package domain

import (
	"fmt"
	"strconv"
)

// TradeType is the direction of an advertisement from the advertiser's point
// of view: a "Buy" ad is someone offering to buy the asset, a "Sell" ad is
// someone offering to sell it.
type TradeType string

const (
	TradeTypeBuy  TradeType = "Buy"
	TradeTypeSell TradeType = "Sell"
)

// UserTypeMerchant marks verified merchant advertisers; any other value is an
// ordinary user.
const UserTypeMerchant = "merchant"

// AdQuery describes one marketplace search: which asset is traded against
// which fiat currency, in which direction, optionally filtered by a target
// transaction amount.
type AdQuery struct {
	Asset     string
	Fiat      string
	TradeType TradeType
	// TransAmount filters ads by a target fiat amount. Empty means no filter;
	// when set it must be a non-negative numeric string (the marketplace API
	// takes it as a string).
	TransAmount string
	Page        int
}

// Validate checks the query invariants: a non-empty asset/fiat pair, one of
// the two trade directions, and a well-formed amount filter.
func (q AdQuery) Validate() error {
	if q.Asset == "" {
		return fmt.Errorf("%w: asset must not be empty", ErrInvalidQuery)
	}
	if q.Fiat == "" {
		return fmt.Errorf("%w: fiat must not be empty", ErrInvalidQuery)
	}
	if q.TradeType != TradeTypeBuy && q.TradeType != TradeTypeSell {
		return fmt.Errorf("%w: trade type must be %q or %q, got %q",
			ErrInvalidQuery, TradeTypeBuy, TradeTypeSell, q.TradeType)
	}
	if q.TransAmount != "" {
		v, err := strconv.ParseFloat(q.TransAmount, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("%w: trans amount %q is not a non-negative number",
				ErrInvalidQuery, q.TransAmount)
		}
	}
	return nil
}

// Advertiser identifies the counter-party behind an advertisement.
type Advertiser struct {
	NickName string
	// UserNo is the advertiser's stable marketplace identifier, used to build
	// profile links.
	UserNo   string
	UserType string
	// MonthFinishRate is the advertiser's monthly completion ratio in [0,1].
	MonthFinishRate float64
}

// IsMerchant reports whether the advertiser is a verified merchant.
func (a Advertiser) IsMerchant() bool { return a.UserType == UserTypeMerchant }

// Order is one marketplace advertisement. Price and Available are parsed from
// the API's string fields exactly once, at ingestion; downstream code never
// re-parses numerics.
type Order struct {
	Advertiser Advertiser
	// Price is the unit price in fiat.
	Price float64
	// Available is the remaining quantity of the asset on offer.
	Available float64
	// PaymentMethods lists accepted payment method names in the advertiser's
	// order. Entries may be empty strings; renderers skip those.
	PaymentMethods []string
}

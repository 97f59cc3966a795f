package notify

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/thekoalas/koalabot/internal/domain"
	"github.com/thekoalas/koalabot/internal/rank"
)

// Renderer formats orders and opportunities as Telegram HTML text.
type Renderer struct {
	// marketURL is the marketplace root used for advertiser profile links.
	marketURL string
}

// NewRenderer creates a Renderer linking advertisers against the given
// marketplace root, e.g. "https://p2p.binance.com".
func NewRenderer(marketURL string) *Renderer {
	return &Renderer{marketURL: strings.TrimRight(marketURL, "/")}
}

// Listings renders the given orders in display order: ascending by price,
// reversed for Sell direction so the most favorable counter-party comes
// first.
func (r *Renderer) Listings(orders []domain.Order, query domain.AdQuery) string {
	var b strings.Builder
	for _, order := range rank.ForDisplay(orders, query.TradeType) {
		b.WriteString(r.Listing(order, query.Asset, query.Fiat, query.TradeType))
		b.WriteString("\n")
	}
	return b.String()
}

// Listing renders one advertisement block: price, available amount, the
// counter-party with a profile link (tagged when a merchant), and the
// accepted payment methods. Payment entries with no name are skipped.
func (r *Renderer) Listing(order domain.Order, asset, fiat string, tradeType domain.TradeType) string {
	var b strings.Builder

	// The original bot printed prices truncated to whole fiat units.
	fmt.Fprintf(&b, "Price %s: %s\n", fiat, Thousands(math.Trunc(order.Price), 0))
	fmt.Fprintf(&b, "Available %s: %s\n", asset, Thousands(order.Available, 2))

	// A Buy-direction ad means the counter-party sells to you, and vice versa.
	if tradeType == domain.TradeTypeBuy {
		b.WriteString("Seller: ")
	} else {
		b.WriteString("Buyer: ")
	}

	name := order.Advertiser.NickName
	if order.Advertiser.IsMerchant() {
		name = fmt.Sprintf("%s (%s)", name, order.Advertiser.UserType)
	}
	fmt.Fprintf(&b, "<a href='%s/en/advertiserDetail?advertiserNo=%s'>%s</a>\n",
		r.marketURL, order.Advertiser.UserNo, html.EscapeString(name))

	b.WriteString("Payments: ")
	var methods []string
	for _, m := range order.PaymentMethods {
		if m != "" {
			methods = append(methods, html.EscapeString(m))
		}
	}
	b.WriteString(strings.Join(methods, ", "))
	b.WriteString("\n")

	return b.String()
}

// Opportunity renders a detected spread as the notification message. The same
// text doubles as the opportunity signature compared between watch cycles, so
// it must be deterministic for a given best-buy/best-sell pairing. A nil
// opportunity renders as the empty string.
func (r *Renderer) Opportunity(opp *domain.Opportunity) string {
	if opp == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💰 %s/%s spread: %.2f%%\n\n", opp.Asset, opp.Fiat, opp.SpreadPct)
	b.WriteString("Buy from:\n")
	b.WriteString(r.Listing(opp.Buy, opp.Asset, opp.Fiat, domain.TradeTypeBuy))
	b.WriteString("\nSell to:\n")
	b.WriteString(r.Listing(opp.Sell, opp.Asset, opp.Fiat, domain.TradeTypeSell))
	return b.String()
}

// Thousands formats v with comma thousand separators and the given number of
// fraction digits.
func Thousands(v float64, fractionDigits int) string {
	s := strconv.FormatFloat(v, 'f', fractionDigits, 64)

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

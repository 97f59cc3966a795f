package notify

import (
	"strings"
	"testing"

	"github.com/thekoalas/koalabot/internal/domain"
)

func sampleOrder() domain.Order {
	return domain.Order{
		Advertiser: domain.Advertiser{
			NickName:        "koala",
			UserNo:          "abc123",
			UserType:        "user",
			MonthFinishRate: 0.97,
		},
		Price:          2100.75,
		Available:      1512.5,
		PaymentMethods: []string{"Wave Money", "", "KBZ Bank"},
	}
}

func TestThousands(t *testing.T) {
	cases := []struct {
		v    float64
		frac int
		want string
	}{
		{0, 0, "0"},
		{999, 0, "999"},
		{1000, 0, "1,000"},
		{1234567, 0, "1,234,567"},
		{1234.5, 2, "1,234.50"},
		{100000, 0, "100,000"},
	}

	for _, tc := range cases {
		if got := Thousands(tc.v, tc.frac); got != tc.want {
			t.Errorf("Thousands(%v, %d) = %q, want %q", tc.v, tc.frac, got, tc.want)
		}
	}
}

func TestListing_Buy(t *testing.T) {
	r := NewRenderer("https://p2p.binance.com")
	got := r.Listing(sampleOrder(), "USDT", "MMK", domain.TradeTypeBuy)

	if !strings.Contains(got, "Price MMK: 2,100\n") {
		t.Errorf("expected truncated, separated price line, got:\n%s", got)
	}
	if !strings.Contains(got, "Available USDT: 1,512.50\n") {
		t.Errorf("expected available line with two fraction digits, got:\n%s", got)
	}
	if !strings.Contains(got, "Seller: ") {
		t.Errorf("buy-direction ad should label the counter-party a seller, got:\n%s", got)
	}
	if !strings.Contains(got, "<a href='https://p2p.binance.com/en/advertiserDetail?advertiserNo=abc123'>koala</a>") {
		t.Errorf("expected advertiser profile link, got:\n%s", got)
	}
	// Empty payment names are skipped on display.
	if !strings.Contains(got, "Payments: Wave Money, KBZ Bank\n") {
		t.Errorf("expected payments line skipping empty names, got:\n%s", got)
	}
}

func TestListing_SellLabelsBuyer(t *testing.T) {
	r := NewRenderer("https://p2p.binance.com")
	got := r.Listing(sampleOrder(), "USDT", "MMK", domain.TradeTypeSell)

	if !strings.Contains(got, "Buyer: ") {
		t.Errorf("sell-direction ad should label the counter-party a buyer, got:\n%s", got)
	}
}

func TestListing_MerchantTag(t *testing.T) {
	order := sampleOrder()
	order.Advertiser.UserType = domain.UserTypeMerchant

	r := NewRenderer("https://p2p.binance.com")
	got := r.Listing(order, "USDT", "MMK", domain.TradeTypeBuy)

	if !strings.Contains(got, ">koala (merchant)</a>") {
		t.Errorf("expected merchant tag on the advertiser name, got:\n%s", got)
	}
}

func TestListings_SellShowsHighestFirst(t *testing.T) {
	low := sampleOrder()
	low.Price = 2000
	low.Advertiser.NickName = "low"
	high := sampleOrder()
	high.Price = 2200
	high.Advertiser.NickName = "high"

	r := NewRenderer("https://p2p.binance.com")
	got := r.Listings([]domain.Order{low, high}, domain.AdQuery{
		Asset:     "USDT",
		Fiat:      "MMK",
		TradeType: domain.TradeTypeSell,
	})

	if strings.Index(got, "high") > strings.Index(got, "low") {
		t.Errorf("sell listings should show the highest-paying buyer first, got:\n%s", got)
	}
}

func TestOpportunity_RendersPercentageWithTwoDigits(t *testing.T) {
	buy := sampleOrder()
	buy.Price = 100
	sell := sampleOrder()
	sell.Price = 105

	opp := &domain.Opportunity{
		Asset:     "USDT",
		Fiat:      "MMK",
		Buy:       buy,
		Sell:      sell,
		Spread:    5,
		SpreadPct: (5.0 / 105.0) * 100,
	}

	r := NewRenderer("https://p2p.binance.com")
	got := r.Opportunity(opp)

	if !strings.Contains(got, "USDT/MMK spread: 4.76%") {
		t.Errorf("expected 4.76%% headline, got:\n%s", got)
	}
	if !strings.Contains(got, "Buy from:\n") || !strings.Contains(got, "Sell to:\n") {
		t.Errorf("expected both sides rendered, got:\n%s", got)
	}
}

func TestOpportunity_NilRendersEmptySignature(t *testing.T) {
	r := NewRenderer("https://p2p.binance.com")
	if got := r.Opportunity(nil); got != "" {
		t.Fatalf("nil opportunity must render the empty signature, got %q", got)
	}
}

func TestOpportunity_IsDeterministic(t *testing.T) {
	buy := sampleOrder()
	buy.Price = 100
	sell := sampleOrder()
	sell.Price = 105
	opp := &domain.Opportunity{Asset: "USDT", Fiat: "MMK", Buy: buy, Sell: sell, Spread: 5, SpreadPct: 4.76}

	r := NewRenderer("https://p2p.binance.com")
	a := r.Opportunity(opp)
	opp.ID = "different-id" // identity fields must not leak into the signature
	b := r.Opportunity(opp)
	if a != b {
		t.Fatal("signature must depend only on the best-buy/best-sell pairing")
	}
}

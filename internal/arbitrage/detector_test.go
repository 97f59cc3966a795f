package arbitrage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/thekoalas/koalabot/internal/domain"
)

// fakeAds serves canned ads per trade direction, already in selection order.
type fakeAds struct {
	buy  []domain.Order
	sell []domain.Order
	err  error
}

func (f *fakeAds) TopAds(_ context.Context, query domain.AdQuery) ([]domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	if query.TradeType == domain.TradeTypeBuy {
		return f.buy, nil
	}
	return f.sell, nil
}

func priced(prices ...float64) []domain.Order {
	orders := make([]domain.Order, len(prices))
	for i, p := range prices {
		orders[i] = domain.Order{Price: p, Available: 100}
	}
	return orders
}

func newTestDetector(ads AdSource) *Detector {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDetector(ads, DetectorConfig{Asset: "USDT", Fiat: "MMK"}, logger)
}

func TestDetect_ProfitableSpread(t *testing.T) {
	d := newTestDetector(&fakeAds{
		buy:  priced(100, 102, 110),
		sell: priced(99, 101, 105), // selection order ascending; best = 105
	})

	opp, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.Buy.Price != 100 {
		t.Errorf("expected best buy price 100, got %v", opp.Buy.Price)
	}
	if opp.Sell.Price != 105 {
		t.Errorf("expected best sell price 105, got %v", opp.Sell.Price)
	}
	if opp.Spread != 5 {
		t.Errorf("expected spread 5, got %v", opp.Spread)
	}
	// Percentage is relative to the sell price: (5/105)*100.
	want := (5.0 / 105.0) * 100
	if math.Abs(opp.SpreadPct-want) > 1e-9 {
		t.Errorf("expected spread pct %v, got %v", want, opp.SpreadPct)
	}
	if opp.ID == "" {
		t.Error("expected a non-empty opportunity ID")
	}
}

func TestDetect_InvertedPricesNoOpportunity(t *testing.T) {
	d := newTestDetector(&fakeAds{
		buy:  priced(105),
		sell: priced(100),
	})

	opp, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opp != nil {
		t.Fatalf("expected no opportunity, got %+v", opp)
	}
}

func TestDetect_EqualPricesNoOpportunity(t *testing.T) {
	d := newTestDetector(&fakeAds{
		buy:  priced(100),
		sell: priced(100),
	})

	opp, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opp != nil {
		t.Fatal("equal prices must not count as an opportunity")
	}
}

func TestDetect_EmptySideShortCircuits(t *testing.T) {
	cases := []struct {
		name string
		ads  *fakeAds
	}{
		{"empty buy side", &fakeAds{buy: nil, sell: priced(105)}},
		{"empty sell side", &fakeAds{buy: priced(100), sell: nil}},
		{"both empty", &fakeAds{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opp, err := newTestDetector(tc.ads).Detect(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if opp != nil {
				t.Fatalf("expected no opportunity, got %+v", opp)
			}
		})
	}
}

func TestDetect_FetchErrorPropagates(t *testing.T) {
	wantErr := errors.New("marketplace down")
	d := newTestDetector(&fakeAds{err: wantErr})

	_, err := d.Detect(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}
}

func TestDetect_DoesNotModifySellSlice(t *testing.T) {
	sell := priced(99, 101, 105)
	d := newTestDetector(&fakeAds{buy: priced(100), sell: sell})

	if _, err := d.Detect(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sell[0].Price != 99 {
		t.Fatalf("sell-side input slice was reversed in place: %v", sell)
	}
}

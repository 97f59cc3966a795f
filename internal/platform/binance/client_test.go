package binance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thekoalas/koalabot/internal/domain"
)

const adsPayload = `{
	"code": "000000",
	"message": null,
	"data": [
		{
			"adv": {
				"price": "2100.50",
				"surplusAmount": "512.25",
				"tradeMethods": [
					{"tradeMethodName": "Wave Money"},
					{"tradeMethodName": ""}
				]
			},
			"advertiser": {
				"nickName": "koala",
				"userNo": "abc123",
				"userType": "merchant",
				"monthFinishRate": 0.97
			}
		}
	],
	"success": true
}`

func testQuery() domain.AdQuery {
	return domain.AdQuery{
		Asset:     "USDT",
		Fiat:      "MMK",
		TradeType: domain.TradeTypeBuy,
	}
}

func TestSearchAds_Success(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != searchPath {
			t.Errorf("expected path %s, got %s", searchPath, r.URL.Path)
		}
		if cc := r.Header.Get("Cache-Control"); cc != "no-cache" {
			t.Errorf("expected Cache-Control no-cache, got %q", cc)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(adsPayload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	orders, err := client.SearchAds(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotBody["rows"] != float64(5) {
		t.Errorf("expected rows 5 in request, got %v", gotBody["rows"])
	}
	if gotBody["page"] != float64(1) {
		t.Errorf("expected page 1 in request, got %v", gotBody["page"])
	}
	if gotBody["tradeType"] != "Buy" {
		t.Errorf("expected tradeType Buy, got %v", gotBody["tradeType"])
	}

	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	o := orders[0]
	if o.Price != 2100.50 {
		t.Errorf("expected price 2100.50, got %v", o.Price)
	}
	if o.Available != 512.25 {
		t.Errorf("expected available 512.25, got %v", o.Available)
	}
	if !o.Advertiser.IsMerchant() {
		t.Errorf("expected merchant advertiser")
	}
	if o.Advertiser.MonthFinishRate != 0.97 {
		t.Errorf("expected finish rate 0.97, got %v", o.Advertiser.MonthFinishRate)
	}
	// Empty payment names survive ingestion; they are skipped on display only.
	if len(o.PaymentMethods) != 2 || o.PaymentMethods[0] != "Wave Money" || o.PaymentMethods[1] != "" {
		t.Errorf("unexpected payment methods: %v", o.PaymentMethods)
	}
}

func TestSearchAds_RemoteErrorEnvelopeIsFailSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"400001","message":"invalid trans amount","data":[],"success":false}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	orders, err := client.SearchAds(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("remote error envelope must not surface as error, got %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected empty result, got %d orders", len(orders))
	}
}

func TestSearchAds_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, 5)
	_, err := client.SearchAds(context.Background(), testQuery())
	if !errors.Is(err, domain.ErrNoResponse) {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}
}

func TestSearchAds_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>502 Bad Gateway</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	_, err := client.SearchAds(context.Background(), testQuery())
	if !errors.Is(err, domain.ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}

func TestSearchAds_MalformedPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"000000","data":[{"adv":{"price":"not-a-number","surplusAmount":"1","tradeMethods":[]},"advertiser":{"nickName":"x","userNo":"1","userType":"user","monthFinishRate":0.5}}],"success":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	_, err := client.SearchAds(context.Background(), testQuery())
	if !errors.Is(err, domain.ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse for malformed price, got %v", err)
	}
}

// Package binance is the REST client for the Binance P2P (C2C) advertisement
// search API.
package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thekoalas/koalabot/internal/domain"
)

// searchPath is the friendly C2C ad search endpoint.
const searchPath = "/bapi/c2c/v2/friendly/c2c/adv/search"

// Client searches P2P advertisements. The page size (rows) is fixed at
// construction and not adjustable per call.
type Client struct {
	baseURL    string
	rows       int
	httpClient *http.Client
}

// NewClient creates a search client for the given API root, e.g.
// "https://p2p.binance.com".
func NewClient(baseURL string, rows int) *Client {
	return &Client{
		baseURL: baseURL,
		rows:    rows,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SearchAds runs one advertisement search and returns the matching orders.
//
// The call is fail-soft: when the API rejects the request but still returns a
// structured error envelope (same shape as a success, normally with an empty
// data list), that envelope's orders are returned as an ordinary result. Only
// a pure transport failure — no response body obtainable at all — or a body
// that does not decode as the envelope is reported as an error. Callers must
// treat an empty slice as a normal "no liquidity" outcome.
func (c *Client) SearchAds(ctx context.Context, query domain.AdQuery) ([]domain.Order, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	reqBody := searchRequest{
		Page:        page,
		Rows:        c.rows,
		Asset:       query.Asset,
		TradeType:   string(query.TradeType),
		Fiat:        query.Fiat,
		TransAmount: query.TransAmount,
	}

	body, err := c.doPost(ctx, searchPath, reqBody)
	if err != nil {
		return nil, fmt.Errorf("binance: search ads: %w", err)
	}

	var envelope searchResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("binance: decode search response: %w: %v", domain.ErrBadResponse, err)
	}

	orders := make([]domain.Order, 0, len(envelope.Data))
	for i := range envelope.Data {
		order, err := envelope.Data[i].toDomainOrder()
		if err != nil {
			return nil, fmt.Errorf("binance: decode ad %d: %w", i, err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// doPost sends a JSON POST and returns the raw response body. Non-2xx
// statuses are NOT treated as errors here: the remote reports application
// failures with the same envelope shape, so the body is handed back for
// decoding either way.
func (c *Client) doPost(ctx context.Context, path string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoResponse, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrNoResponse, err)
	}

	return body, nil
}

// Package telegram is a minimal Telegram Bot API client covering the two
// calls the bot needs: getUpdates long polling and sendMessage.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiBase = "https://api.telegram.org"

// Client talks to the Telegram Bot API for one bot token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Client for the given bot token against the public API.
func NewClient(token string) *Client {
	return NewClientWithBase(apiBase, token)
}

// NewClientWithBase creates a Client against a custom API root (used by
// tests).
//
// The HTTP timeout must stay above the getUpdates long-poll timeout, which is
// capped at 50s by PollUpdates.
func NewClientWithBase(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendMessage posts an HTML-formatted message to a chat with link previews
// disabled.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload := sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}

	var result json.RawMessage
	if err := c.call(ctx, "sendMessage", payload, &result); err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	return nil
}

// PollUpdates long-polls for updates newer than offset. The timeout is in
// seconds; a zero timeout makes it a short poll.
func (c *Client) PollUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	if timeout < 0 {
		timeout = 0
	}
	if timeout > 50 {
		timeout = 50
	}
	payload := getUpdatesRequest{
		Offset:         offset,
		Timeout:        timeout,
		AllowedUpdates: []string{"message"},
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, fmt.Errorf("telegram: get updates: %w", err)
	}
	return updates, nil
}

// call posts a JSON payload to one Bot API method and decodes the "result"
// field of the response envelope into out.
func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("API error %d: %s", envelope.ErrorCode, envelope.Description)
	}

	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	defaultAPIBase     = "https://api.line.me"
	defaultHTTPTimeout = 10 * time.Second
)

// Client sends messages via the LINE Messaging API.
type Client struct {
	channelAccessToken string
	apiBase            string
	httpClient         *http.Client
}

// NewClient creates a new Messaging API client.
func NewClient(channelAccessToken string) *Client {
	return &Client{
		channelAccessToken: channelAccessToken,
		apiBase:            defaultAPIBase,
		httpClient:         &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// SetAPIBase overrides the Messaging API base URL (useful for testing).
func (c *Client) SetAPIBase(base string) {
	c.apiBase = base
}

// ReplyText answers an inbound event with a plain text message. The reply
// token is single-use; a second call with the same token fails at the API.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	req := ReplyRequest{
		ReplyToken: replyToken,
		Messages:   []TextMessage{{Type: "text", Text: text}},
	}
	return c.post(ctx, "/v2/bot/message/reply", req, nil)
}

// PushText sends a plain text message outside a reply context. A fresh
// retry key makes accidental double-submission safe on the API side.
func (c *Client) PushText(ctx context.Context, to, text string) error {
	req := PushRequest{
		To:       to,
		Messages: []TextMessage{{Type: "text", Text: text}},
	}
	headers := map[string]string{"X-Line-Retry-Key": uuid.NewString()}
	return c.post(ctx, "/v2/bot/message/push", req, headers)
}

func (c *Client) post(ctx context.Context, path string, payload any, headers map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("line: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("line: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.channelAccessToken)
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("line: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("line: API status %d, read response: %w", resp.StatusCode, err)
	}

	var apiErr APIError
	if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("line: API status %d: %s", resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("line: unexpected status %d: %s", resp.StatusCode, string(respBody))
}

// Package telegram wraps the Bot HTTP API. Sends are best-effort: callers log
// failures and move on, a notification must never abort an order.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const apiBase = "https://api.telegram.org"

type Client struct {
	token string
	base  string
	http  *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		token: token,
		base:  apiBase,
		http:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBase points the client at a test server.
func NewClientWithBase(token, base string) *Client {
	c := NewClient(token)
	c.base = base
	return c
}

// Enabled reports whether a bot token is configured at all.
func (c *Client) Enabled() bool { return c.token != "" }

type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage delivers already-sanitized Telegram HTML to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if !c.Enabled() {
		return fmt.Errorf("telegram: bot token not configured")
	}
	body, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.base, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("telegram: decode response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("telegram: sendMessage failed: %s", out.Description)
	}
	return nil
}

// Update is the subset of the webhook payload the activation flow needs.
type Update struct {
	Message struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

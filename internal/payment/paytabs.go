// Package payment wraps the PayTabs managed-form gateway: payment page
// creation, transaction query, refund/void, and the HMAC check on inbound
// callbacks. Gateway failures are reported as values, never panics; the order
// itself must survive a broken gateway.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

type Client struct {
	profileID string
	serverKey string
	base      string
	http      *http.Client
}

func NewClient(profileID, serverKey, baseURL string) *Client {
	return &Client{
		profileID: profileID,
		serverKey: serverKey,
		base:      strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Enabled() bool { return c.profileID != "" && c.serverKey != "" }

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PageRequest struct {
	OrderID     string
	Amount      float64
	Currency    string
	Description string
	Customer    Customer
	CallbackURL string
	ReturnURL   string
}

type Page struct {
	TranRef     string `json:"tran_ref"`
	RedirectURL string `json:"redirect_url"`
}

// RequestPage creates a hosted payment page for an order.
func (c *Client) RequestPage(ctx context.Context, req PageRequest) (*Page, error) {
	payload := map[string]any{
		"profile_id":       c.profileID,
		"tran_type":        "sale",
		"tran_class":       "ecom",
		"cart_id":          req.OrderID,
		"cart_currency":    req.Currency,
		"cart_amount":      req.Amount,
		"cart_description": req.Description,
		"customer_details": req.Customer,
		"callback":         req.CallbackURL,
		"return":           req.ReturnURL,
	}
	var page Page
	if err := c.post(ctx, "/payment/request", payload, &page); err != nil {
		return nil, err
	}
	if page.TranRef == "" || page.RedirectURL == "" {
		return nil, fmt.Errorf("paytabs: incomplete payment page response")
	}
	return &page, nil
}

type QueryResult struct {
	TranRef       string `json:"tran_ref"`
	PaymentResult struct {
		ResponseStatus  string `json:"response_status"` // A = authorized
		ResponseMessage string `json:"response_message"`
	} `json:"payment_result"`
}

func (q QueryResult) Authorized() bool { return q.PaymentResult.ResponseStatus == "A" }

// Verify queries the gateway for the state of a transaction.
func (c *Client) Verify(ctx context.Context, tranRef string) (*QueryResult, error) {
	payload := map[string]any{"profile_id": c.profileID, "tran_ref": tranRef}
	var out QueryResult
	if err := c.post(ctx, "/payment/query", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refund issues a follow-up refund against a captured transaction.
func (c *Client) Refund(ctx context.Context, tranRef string, amount float64, reason string) (*QueryResult, error) {
	return c.followUp(ctx, "refund", tranRef, amount, reason)
}

// Void cancels an authorized but uncaptured transaction.
func (c *Client) Void(ctx context.Context, tranRef string, amount float64) (*QueryResult, error) {
	return c.followUp(ctx, "void", tranRef, amount, "void")
}

func (c *Client) followUp(ctx context.Context, tranType, tranRef string, amount float64, desc string) (*QueryResult, error) {
	payload := map[string]any{
		"profile_id":       c.profileID,
		"tran_type":        tranType,
		"tran_class":       "ecom",
		"tran_ref":         tranRef,
		"cart_id":          tranRef,
		"cart_currency":    "SAR",
		"cart_amount":      amount,
		"cart_description": desc,
	}
	var out QueryResult
	if err := c.post(ctx, "/payment/request", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.serverKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paytabs: %s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CallbackSignature computes the HMAC-SHA256 the gateway sends with server
// callbacks: fields sorted by name, empty values dropped, URL-encoded as a
// query string, signed with the server key, hex-encoded.
func CallbackSignature(fields map[string]string, serverKey string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == "signature" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fields[k]))
	}

	mac := hmac.New(sha256.New, []byte(serverKey))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback checks a callback post against this client's server key.
func (c *Client) VerifyCallback(fields map[string]string, signature string) bool {
	return VerifyCallback(fields, signature, c.serverKey)
}

// VerifyCallback checks the signature field of a callback post in constant
// time.
func VerifyCallback(fields map[string]string, signature, serverKey string) bool {
	if signature == "" {
		return false
	}
	expected := CallbackSignature(fields, serverKey)
	return hmac.Equal([]byte(expected), []byte(signature))
}

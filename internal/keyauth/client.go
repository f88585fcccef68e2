// Package keyauth is a client for the KeyAuth seller API. All three
// operations are GET requests against one base URL distinguished by the
// "type" query parameter; responses are a flat JSON object.
package keyauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://keyauth.win/api/seller/"

// Response is the seller API's reply. A transport or decode failure is
// reported as an error by the client; Success=false is a logical "no".
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UsedBy  string `json:"usedby"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Verify checks whether licenseKey is a valid key of the seller.
func (c *Client) Verify(ctx context.Context, sellerKey, licenseKey string) (*Response, error) {
	return c.call(ctx, url.Values{
		"sellerkey": {sellerKey},
		"type":      {"verify"},
		"key":       {licenseKey},
	})
}

// Info resolves licenseKey to its usage details, including the bound
// identity in UsedBy when the key has been claimed.
func (c *Client) Info(ctx context.Context, sellerKey, licenseKey string) (*Response, error) {
	return c.call(ctx, url.Values{
		"sellerkey": {sellerKey},
		"type":      {"info"},
		"key":       {licenseKey},
	})
}

// ResetUser clears the hardware binding of the given bound identity.
func (c *Client) ResetUser(ctx context.Context, sellerKey, user string) (*Response, error) {
	return c.call(ctx, url.Values{
		"sellerkey": {sellerKey},
		"type":      {"resetuser"},
		"user":      {user},
	})
}

func (c *Client) call(ctx context.Context, params url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("keyauth: unexpected status %d", resp.StatusCode)
	}

	out := new(Response)
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("keyauth: decoding response: %w", err)
	}
	return out, nil
}

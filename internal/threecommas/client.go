// Package threecommas is the REST client for the 3Commas platform API.
//
// API documentation: https://github.com/3commas-io/3commas-official-api-docs
package threecommas

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	requestTimeout = 10 * time.Second

	// A single retry on 502 with a short backoff covers the platform's
	// occasional gateway hiccups without masking real outages.
	retryStatusCode = http.StatusBadGateway
	maxRetries      = 1
	retryBackoff    = 100 * time.Millisecond
)

// Client is the signed REST client for the 3Commas API. All calls pass
// through a fixed-interval throttle, including individual pages of paginated
// listings.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	throttle   *Throttle
}

// NewClient creates a new 3Commas REST client.
//
// baseURL is the API root, e.g. "https://api.3commas.io".
func NewClient(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		throttle: NewThrottle(APICallInterval),
	}
}

// AccountInfo returns metadata for a single exchange account.
func (c *Client) AccountInfo(ctx context.Context, accountID int64) (*Account, error) {
	path := fmt.Sprintf("/public/api/ver1/accounts/%d", accountID)

	body, err := c.doSignedRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("threecommas: get account %d: %w", accountID, err)
	}

	var acct Account
	if err := json.Unmarshal(body, &acct); err != nil {
		return nil, fmt.Errorf("threecommas: decode account: %w", err)
	}
	return &acct, nil
}

// ListBots returns one page of the account's DCA bots using limit/offset
// pagination.
func (c *Client) ListBots(ctx context.Context, accountID int64, limit, offset int) ([]Bot, error) {
	params := url.Values{}
	params.Set("account_id", fmt.Sprintf("%d", accountID))
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("offset", fmt.Sprintf("%d", offset))

	path := "/public/api/ver1/bots?" + params.Encode()

	body, err := c.doSignedRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("threecommas: list bots for account %d: %w", accountID, err)
	}

	var bots []Bot
	if err := json.Unmarshal(body, &bots); err != nil {
		return nil, fmt.Errorf("threecommas: decode bots: %w", err)
	}
	return bots, nil
}

// BotInfo returns metadata for a single DCA bot.
func (c *Client) BotInfo(ctx context.Context, botID int64) (*Bot, error) {
	path := fmt.Sprintf("/public/api/ver1/bots/%d/show", botID)

	body, err := c.doSignedRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("threecommas: get bot %d: %w", botID, err)
	}

	var bot Bot
	if err := json.Unmarshal(body, &bot); err != nil {
		return nil, fmt.Errorf("threecommas: decode bot: %w", err)
	}
	return &bot, nil
}

// ListActiveDeals returns one page of the bot's active deals using
// limit/offset pagination. The active scope is a property of the platform
// query, not filtered client-side.
func (c *Client) ListActiveDeals(ctx context.Context, botID int64, limit, offset int) ([]Deal, error) {
	params := url.Values{}
	params.Set("bot_id", fmt.Sprintf("%d", botID))
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("offset", fmt.Sprintf("%d", offset))
	params.Set("scope", "active")

	path := "/public/api/ver1/deals?" + params.Encode()

	body, err := c.doSignedRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("threecommas: list active deals for bot %d: %w", botID, err)
	}

	var deals []Deal
	if err := json.Unmarshal(body, &deals); err != nil {
		return nil, fmt.Errorf("threecommas: decode deals: %w", err)
	}
	return deals, nil
}

// DealInfo returns a fresh snapshot of a single deal.
func (c *Client) DealInfo(ctx context.Context, dealID int64) (*Deal, error) {
	path := fmt.Sprintf("/public/api/ver1/deals/%d/show", dealID)

	body, err := c.doSignedRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("threecommas: get deal %d: %w", dealID, err)
	}

	var deal Deal
	if err := json.Unmarshal(body, &deal); err != nil {
		return nil, fmt.Errorf("threecommas: decode deal: %w", err)
	}
	return &deal, nil
}

// UpdateDealStopLoss sets the deal's stop-loss to the plain kind at the given
// true percentage. The value is negated on the wire: DCA bot deals store the
// stop-loss sign-inverted on 3Commas, the mirror image of the flip applied by
// Deal.StopLossPercent on reads.
func (c *Client) UpdateDealStopLoss(ctx context.Context, dealID int64, percentage float64) error {
	path := fmt.Sprintf("/public/api/ver1/deals/%d/update_deal", dealID)

	payload := map[string]any{
		"deal_id":              dealID,
		"stop_loss_type":       string(StopLossPlain),
		"stop_loss_percentage": -percentage,
	}

	if _, err := c.doSignedRequest(ctx, http.MethodPost, path, payload); err != nil {
		return fmt.Errorf("threecommas: update stop-loss for deal %d: %w", dealID, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doSignedRequest throttles, builds, signs (HMAC-SHA256), sends, and reads an
// HTTP request against the 3Commas API. A 502 response is retried once after
// a short backoff; everything else is returned as-is.
func (c *Client) doSignedRequest(ctx context.Context, method, path string, reqBody any) ([]byte, error) {
	var bodyBytes []byte
	if reqBody != nil {
		var err error
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		c.throttle.Wait(ctx)

		respBody, status, err := c.do(ctx, method, path, bodyBytes)
		if err != nil {
			return nil, err
		}
		if status == retryStatusCode {
			lastErr = c.checkStatus(status, respBody)
			continue
		}
		if err := c.checkStatus(status, respBody); err != nil {
			return nil, err
		}
		return respBody, nil
	}
	return nil, lastErr
}

// do performs a single signed HTTP round trip.
func (c *Client) do(ctx context.Context, method, path string, bodyBytes []byte) ([]byte, int, error) {
	var bodyReader io.Reader
	if bodyBytes != nil {
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	if bodyBytes != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.signRequest(req, path, bodyBytes)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// signRequest adds 3Commas authentication headers. The signature is the
// hex-encoded HMAC-SHA256 of the request path (including the query string)
// plus the JSON body, keyed with the API secret.
func (c *Client) signRequest(req *http.Request, path string, bodyBytes []byte) {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(path))
	if bodyBytes != nil {
		mac.Write(bodyBytes)
	}

	req.Header.Set("APIKEY", c.apiKey)
	req.Header.Set("Signature", hex.EncodeToString(mac.Sum(nil)))
}

// checkStatus maps non-2xx HTTP status codes to errors carrying the API's
// error envelope when one is present.
func (c *Client) checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)

	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("not found: %s (%s)", apiErr.ErrorDescription, apiErr.Error)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("unauthorized: %s (%s)", apiErr.ErrorDescription, apiErr.Error)
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited: %s (%s)", apiErr.ErrorDescription, apiErr.Error)
	case http.StatusBadRequest:
		return fmt.Errorf("bad request: %s (%s)", apiErr.ErrorDescription, apiErr.Error)
	default:
		return fmt.Errorf("HTTP %d: %s (%s)", statusCode, apiErr.ErrorDescription, apiErr.Error)
	}
}

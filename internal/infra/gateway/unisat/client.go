package unisat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kislikjeka/brc20dash/pkg/logger"
)

const (
	defaultBaseURL = "https://open-api.unisat.io/v1/indexer/brc20"
	defaultTicker  = "TRAC"
	requestTimeout = 30 * time.Second

	// maxBodyBytes caps how much of a single response is read into memory
	maxBodyBytes = 16 << 20
)

// Config holds client settings. Zero values fall back to defaults.
type Config struct {
	APIKey  string
	BaseURL string
	Ticker  string
	Timeout time.Duration
}

// Client is an HTTP client for the UniSat open API BRC-20 indexer
type Client struct {
	apiKey     string
	ticker     string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new UniSat API client
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Ticker == "" {
		cfg.Ticker = defaultTicker
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = requestTimeout
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		apiKey: cfg.APIKey,
		ticker: cfg.Ticker,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		logger:  log.WithField("component", "unisat"),
	}
}

// SetBaseURL overrides the base URL (useful for testing)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Ticker returns the BRC-20 ticker this client queries
func (c *Client) Ticker() string {
	return c.ticker
}

// historyURL builds {baseURL}/{ticker}/history
func (c *Client) historyURL() string {
	return fmt.Sprintf("%s/%s/history", c.baseURL, url.PathEscape(c.ticker))
}

// doRequest performs one authenticated GET. There is no retry: a failed
// request is reported to the caller as-is.
func (c *Client) doRequest(ctx context.Context, reqURL string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		reqURL = reqURL + "?" + params.Encode()
	}

	c.logger.Debug("API request", "method", http.MethodGet, "url", reqURL)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("API error", "status_code", resp.StatusCode)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	c.logger.Debug("API response", "status_code", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return body, nil
}

// GetHistoryPage fetches one page of BRC-20 history events of the given type,
// starting at offset start and returning at most limit events.
func (c *Client) GetHistoryPage(ctx context.Context, txType string, start, limit int) (*HistoryPage, error) {
	params := url.Values{}
	params.Set("type", txType)
	params.Set("start", strconv.Itoa(start))
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, c.historyURL(), params)
	if err != nil {
		return nil, fmt.Errorf("GetHistoryPage failed: %w", err)
	}

	var resp HistoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &SchemaError{Reason: "failed to decode response", Err: err}
	}

	if resp.Code != 0 {
		c.logger.Error("API error", "code", resp.Code, "msg", resp.Msg)
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Code:       resp.Code,
			Message:    resp.Msg,
		}
	}

	if resp.Data == nil {
		return nil, &SchemaError{Reason: "missing data"}
	}
	if resp.Data.Detail == nil {
		return nil, &SchemaError{Reason: "missing data.detail"}
	}

	return &HistoryPage{
		Start:  start,
		Limit:  limit,
		Total:  resp.Data.Total,
		Height: resp.Data.Height,
		Detail: resp.Data.Detail,
	}, nil
}

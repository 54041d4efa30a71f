// Package api is the REST client for the trading bot backend. It exposes one
// method per backend capability, attaches the host identity token when one is
// configured, and normalizes transport failures into typed errors. Every call
// is a single attempt: no retries, no backoff.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// initDataHeader carries the host-supplied init token when the client runs
// inside the embedding Telegram host.
const initDataHeader = "X-Telegram-Init-Data"

// Client is the REST client for the trading bot backend.
type Client struct {
	baseURL    string
	initData   string
	httpClient *http.Client
}

// NewClient creates a backend client rooted at baseURL, e.g.
// "http://localhost:8000/api". initData is the optional host identity token;
// pass "" when running outside the embedding host.
func NewClient(baseURL, initData string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		initData: initData,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetPortfolio returns the current portfolio snapshot.
func (c *Client) GetPortfolio(ctx context.Context) (PortfolioSnapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/portfolio", nil)
	if err != nil {
		return PortfolioSnapshot{}, fmt.Errorf("api: get portfolio: %w", err)
	}

	var snap PortfolioSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return PortfolioSnapshot{}, fmt.Errorf("api: get portfolio: %w", &DecodeError{Err: err})
	}

	// Positions are keyed by symbol; copy the key into each value.
	for sym, pos := range snap.Positions {
		pos.Symbol = sym
		snap.Positions[sym] = pos
	}

	return snap, nil
}

// GetSignals returns the current trading signals. With no arguments every
// monitored symbol is returned; otherwise the list is filtered server-side.
func (c *Client) GetSignals(ctx context.Context, symbols ...string) ([]Signal, error) {
	path := "/signals"
	if len(symbols) > 0 {
		params := url.Values{}
		params.Set("symbols", strings.Join(symbols, ","))
		path += "?" + params.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("api: get signals: %w", err)
	}

	var resp struct {
		Signals []Signal `json:"signals"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: get signals: %w", &DecodeError{Err: err})
	}

	return resp.Signals, nil
}

// GetHistory returns the most recent closed trades (newest first) together
// with the derived stats block.
func (c *Client) GetHistory(ctx context.Context, limit int) (History, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.do(ctx, http.MethodGet, "/history?"+params.Encode(), nil)
	if err != nil {
		return History{}, fmt.Errorf("api: get history: %w", err)
	}

	var hist History
	if err := json.Unmarshal(body, &hist); err != nil {
		return History{}, fmt.Errorf("api: get history: %w", &DecodeError{Err: err})
	}

	return hist, nil
}

// GetDailyStats returns the equity curve over the last days days.
func (c *Client) GetDailyStats(ctx context.Context, days int) ([]EquityPoint, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	body, err := c.do(ctx, http.MethodGet, "/stats/daily?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("api: get daily stats: %w", err)
	}

	var resp struct {
		EquityChart []EquityPoint `json:"equity_chart"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: get daily stats: %w", &DecodeError{Err: err})
	}

	return resp.EquityChart, nil
}

// GetChart returns OHLCV bars for one symbol.
func (c *Client) GetChart(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	params := url.Values{}
	params.Set("timeframe", timeframe)
	params.Set("limit", strconv.Itoa(limit))

	path := fmt.Sprintf("/chart/%s?%s", url.PathEscape(symbol), params.Encode())

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("api: get chart %s: %w", symbol, err)
	}

	var resp struct {
		Candles []Candle `json:"candles"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: get chart %s: %w", symbol, &DecodeError{Err: err})
	}

	return resp.Candles, nil
}

// GetSettings returns the backend trading settings blob.
func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	body, err := c.do(ctx, http.MethodGet, "/settings", nil)
	if err != nil {
		return Settings{}, fmt.Errorf("api: get settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(body, &settings); err != nil {
		return Settings{}, fmt.Errorf("api: get settings: %w", &DecodeError{Err: err})
	}

	return settings, nil
}

// Buy submits a manual buy of amountUSDT worth of symbol.
func (c *Client) Buy(ctx context.Context, symbol string, amountUSDT float64) (TradeResult, error) {
	req := struct {
		Symbol     string  `json:"symbol"`
		AmountUSDT float64 `json:"amount_usdt"`
	}{Symbol: symbol, AmountUSDT: amountUSDT}

	body, err := c.do(ctx, http.MethodPost, "/trade/buy", req)
	if err != nil {
		return TradeResult{}, fmt.Errorf("api: buy %s: %w", symbol, err)
	}

	var res TradeResult
	if err := json.Unmarshal(body, &res); err != nil {
		return TradeResult{}, fmt.Errorf("api: buy %s: %w", symbol, &DecodeError{Err: err})
	}

	return res, nil
}

// Sell closes the open position in symbol at the current market price.
func (c *Client) Sell(ctx context.Context, symbol string) (TradeResult, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.do(ctx, http.MethodPost, "/trade/sell?"+params.Encode(), nil)
	if err != nil {
		return TradeResult{}, fmt.Errorf("api: sell %s: %w", symbol, err)
	}

	var res TradeResult
	if err := json.Unmarshal(body, &res); err != nil {
		return TradeResult{}, fmt.Errorf("api: sell %s: %w", symbol, &DecodeError{Err: err})
	}

	return res, nil
}

// ToggleAI flips the AI-trading flag and returns the authoritative new state.
func (c *Client) ToggleAI(ctx context.Context) (ToggleResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/toggle-ai", nil)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("api: toggle ai: %w", err)
	}

	var res ToggleResult
	if err := json.Unmarshal(body, &res); err != nil {
		return ToggleResult{}, fmt.Errorf("api: toggle ai: %w", &DecodeError{Err: err})
	}

	return res, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// do builds, sends, and reads an HTTP request against the backend. A non-2xx
// status is returned as *TransportError; the raw body is returned otherwise.
func (c *Client) do(ctx context.Context, method, path string, reqBody any) ([]byte, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	fullURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.initData != "" {
		req.Header.Set(initDataHeader, c.initData)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			Status: resp.StatusCode,
			Body:   truncate(string(respBody), 256),
		}
	}

	return respBody, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

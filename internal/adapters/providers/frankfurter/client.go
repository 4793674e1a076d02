// Package frankfurter is a client for the Frankfurter exchange-rate API
// (https://www.frankfurter.app).
package frankfurter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/SscSPs/currency_rates_bot/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

const DefaultBaseURL = "https://api.frankfurter.app"

// Client queries the /latest endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

var _ gateways.RateProvider = (*Client)(nil)

// NewClient builds a client. timeout bounds every request end to end.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With(slog.String("component", "frankfurter")),
	}
}

type latestResponse struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// LatestRates calls GET /latest?from=BASE&to=T1,T2.
func (c *Client) LatestRates(ctx context.Context, base domain.CurrencyCode, targets ...domain.CurrencyCode) (map[domain.CurrencyCode]decimal.Decimal, error) {
	params := url.Values{"from": {base.String()}}
	if len(targets) > 0 {
		to := make([]string, len(targets))
		for i, t := range targets {
			to[i] = t.String()
		}
		params.Set("to", strings.Join(to, ","))
	}
	endpoint := c.baseURL + "/latest?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewTransportError("build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewTransportError("GET /latest", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.NewTransportError("read response", err)
	}

	// Frankfurter answers 404 {"message":"not found"} for unknown base codes.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity {
		c.logger.Debug("provider does not know currency", slog.String("base", base.String()), slog.Int("status", resp.StatusCode))
		return map[domain.CurrencyCode]decimal.Decimal{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewTransportError(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200)), nil)
	}

	var parsed latestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewTransportError("decode response", err)
	}

	rates := make(map[domain.CurrencyCode]decimal.Decimal, len(parsed.Rates))
	for code, value := range parsed.Rates {
		normalized, err := domain.NormalizeCurrencyCode(code)
		if err != nil {
			c.logger.Warn("skipping malformed currency code from provider", slog.String("code", code))
			continue
		}
		rates[normalized] = value
	}
	return rates, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

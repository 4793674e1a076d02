// Package telegram sends bot messages through the Telegram Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/ports/gateways"
	"golang.org/x/time/rate"
)

const DefaultAPIURL = "https://api.telegram.org"

// Client provides the sendMessage call used for notifications.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ gateways.MessageSender = (*Client)(nil)

// Config holds the client settings.
type Config struct {
	APIURL string
	Token  string
	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration
	// MessagesPerSecond throttles outgoing sends. Zero disables throttling.
	MessagesPerSecond float64
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.MessagesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MessagesPerSecond), 1)
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		token:      cfg.Token,
		limiter:    limiter,
		logger:     logger.With(slog.String("component", "telegram")),
	}
}

type responseParameters struct {
	RetryAfter int `json:"retry_after,omitempty"`
}

type tgResponse[T any] struct {
	Ok          bool                `json:"ok"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
	Parameters  *responseParameters `json:"parameters,omitempty"`
	Result      T                   `json:"result"`
}

type message struct {
	MessageID int64 `json:"message_id"`
}

// SendMessage posts text to chatID. Any failure wraps apperrors.ErrTransport.
func (c *Client) SendMessage(ctx context.Context, chatID string, text string) error {
	if chatID == "" {
		return apperrors.NewValidationError("chat id is required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.NewTransportError("send throttled", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)
	params := url.Values{"chat_id": {chatID}, "text": {text}}

	var result tgResponse[message]
	status, err := c.makeRequest(ctx, endpoint, params, &result)
	if err != nil {
		return apperrors.NewTransportError("sendMessage", err)
	}
	if !result.Ok {
		reason := result.Description
		if result.Parameters != nil && result.Parameters.RetryAfter > 0 {
			reason = fmt.Sprintf("%s (retry_after=%ds)", reason, result.Parameters.RetryAfter)
		}
		return apperrors.NewTransportError(fmt.Sprintf("telegram API error %d: %s", status, reason), nil)
	}

	c.logger.Debug("message sent", slog.String("chat_id", chatID), slog.Int64("message_id", result.Result.MessageID))
	return nil
}

func (c *Client) makeRequest(ctx context.Context, endpoint string, data url.Values, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return 0, c.redact(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, c.redact(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

// redact strips the request URL, which carries the bot token, from client
// errors before they reach logs or send results.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = fmt.Errorf("%s sendMessage: %w", urlErr.Op, urlErr.Err)
	}
	if c.token != "" && strings.Contains(err.Error(), c.token) {
		return errors.New(strings.ReplaceAll(err.Error(), c.token, "<redacted>"))
	}
	return err
}

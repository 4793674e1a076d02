package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/SscSPs/currency_rates_bot/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/currency_rates_bot/internal/core/ports/services"
	"github.com/SscSPs/currency_rates_bot/internal/utils"
)

const (
	// UpdateTitle prefixes the periodic update message.
	UpdateTitle = "📢 Update"
	// DailyDigestTitle prefixes the once-a-day summary message.
	DailyDigestTitle = "📅 Daily Update"
)

type notifierService struct {
	BaseService
	sender      gateways.MessageSender
	title       string
	precision   int
	callTimeout time.Duration
}

// NewNotifierService creates a notifier that sends "<title>: 1 BASE = rate TARGET".
func NewNotifierService(sender gateways.MessageSender, title string, precision int, callTimeout time.Duration, opts ...Option) portssvc.NotifierSvc {
	return &notifierService{
		BaseService: newBaseService(opts),
		sender:      sender,
		title:       title,
		precision:   precision,
		callTimeout: callTimeout,
	}
}

var _ portssvc.NotifierSvc = (*notifierService)(nil)

// FormatRateMessage renders the notification text for an observation.
func FormatRateMessage(title string, obs domain.RateObservation, precision int) string {
	return fmt.Sprintf("%s: 1 %s = %s %s", title, obs.Base, utils.FormatWithPrecision(obs.Value, precision), obs.Target)
}

func (s *notifierService) Notify(ctx context.Context, sub domain.Subscription, obs domain.RateObservation) (result domain.SendResult) {
	logger := s.GetLogger(ctx).With(slog.String("user_id", sub.UserID), slog.String("pair", obs.Pair.String()))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Notification send panicked", slog.Any("panic", r))
			result = domain.SendResult{Status: domain.SendTransportFailed, Reason: fmt.Sprintf("panic: %v", r)}
		}
		s.Metrics.RecordNotification(string(result.Status))
	}()

	text := FormatRateMessage(s.title, obs, s.precision)

	callCtx, cancel := withTimeout(ctx, s.callTimeout)
	defer cancel()
	if err := s.sender.SendMessage(callCtx, sub.UserID, text); err != nil {
		logger.Warn("Notification not delivered", slog.String("error", err.Error()))
		return domain.SendResult{Status: domain.SendTransportFailed, Reason: err.Error()}
	}

	logger.Debug("Notification delivered")
	return domain.SendResult{Status: domain.SendDelivered}
}

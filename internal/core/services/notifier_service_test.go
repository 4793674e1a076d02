package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/SscSPs/currency_rates_bot/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testObservation(value string) domain.RateObservation {
	return domain.RateObservation{
		RateID:     1,
		Pair:       domain.Pair{Base: "EUR", Target: "USD"},
		Value:      decimal.RequireFromString(value),
		ObservedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestFormatRateMessage(t *testing.T) {
	assert.Equal(t, "📢 Update: 1 EUR = 1.08 USD", services.FormatRateMessage(services.UpdateTitle, testObservation("1.08"), 4))
	assert.Equal(t, "📅 Daily Update: 1 EUR = 1.0834 USD", services.FormatRateMessage(services.DailyDigestTitle, testObservation("1.083449"), 4))
}

func TestNotify_Delivered(t *testing.T) {
	sender := new(MockMessageSender)
	sender.On("SendMessage", mock.Anything, "user1", "📢 Update: 1 EUR = 1.08 USD").Return(nil).Once()
	notifier := services.NewNotifierService(sender, services.UpdateTitle, 4, time.Second)

	result := notifier.Notify(context.Background(), domain.Subscription{UserID: "user1", Pair: domain.Pair{Base: "EUR", Target: "USD"}}, testObservation("1.08"))

	assert.True(t, result.Delivered())
	assert.Empty(t, result.Reason)
	sender.AssertExpectations(t)
}

func TestNotify_TransportFailed(t *testing.T) {
	sender := new(MockMessageSender)
	sender.On("SendMessage", mock.Anything, "user1", mock.Anything).Return(errors.New("chat not found")).Once()
	notifier := services.NewNotifierService(sender, services.UpdateTitle, 4, time.Second)

	result := notifier.Notify(context.Background(), domain.Subscription{UserID: "user1"}, testObservation("1.08"))

	assert.Equal(t, domain.SendTransportFailed, result.Status)
	assert.Contains(t, result.Reason, "chat not found")
}

func TestNotify_PanicIsContained(t *testing.T) {
	sender := new(MockMessageSender)
	sender.On("SendMessage", mock.Anything, "user1", mock.Anything).Run(func(mock.Arguments) {
		panic("sender exploded")
	}).Once()
	notifier := services.NewNotifierService(sender, services.UpdateTitle, 4, time.Second)

	var result domain.SendResult
	assert.NotPanics(t, func() {
		result = notifier.Notify(context.Background(), domain.Subscription{UserID: "user1"}, testObservation("1.08"))
	})
	assert.Equal(t, domain.SendTransportFailed, result.Status)
	assert.Contains(t, result.Reason, "sender exploded")
}

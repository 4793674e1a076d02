package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portssvc "github.com/SscSPs/currency_rates_bot/internal/core/ports/services"
	"github.com/SscSPs/currency_rates_bot/internal/dto"
	"github.com/SscSPs/currency_rates_bot/internal/middleware"
	"github.com/gin-gonic/gin"
)

// subscriptionHandler handles HTTP requests related to subscriptions.
type subscriptionHandler struct {
	subscriptionService portssvc.SubscriptionSvcFacade
}

func newSubscriptionHandler(ss portssvc.SubscriptionSvcFacade) *subscriptionHandler {
	return &subscriptionHandler{subscriptionService: ss}
}

func registerSubscriptionRoutes(rg *gin.RouterGroup, subscriptionService portssvc.SubscriptionSvcFacade) {
	h := newSubscriptionHandler(subscriptionService)

	subs := rg.Group("/subscriptions")
	{
		subs.POST("", h.subscribe)
		subs.DELETE("", h.unsubscribe)
		subs.GET("/:userID", h.listSubscriptions)
	}
}

// subscribe godoc
// @Summary Subscribe to a pair
// @Description Creates the subscription unless it already exists
// @Tags subscriptions
// @Accept  json
// @Produce  json
// @Param   subscription body dto.SubscriptionRequest true "Subscription"
// @Success 200 {object} dto.SubscribeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to subscribe"
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *subscriptionHandler) subscribe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Subscribe", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	status, err := h.subscriptionService.Subscribe(c.Request.Context(), req.UserID, req.Base, req.Target)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to subscribe", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.SubscribeResponse{Status: status})
}

// unsubscribe godoc
// @Summary Unsubscribe from a pair
// @Tags subscriptions
// @Produce  json
// @Param   user_id query string true "User ID"
// @Param   base    query string true "Base currency code"
// @Param   target  query string true "Target currency code"
// @Success 200 {object} dto.UnsubscribeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to unsubscribe"
// @Security BearerAuth
// @Router /subscriptions [delete]
func (h *subscriptionHandler) unsubscribe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubscriptionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for Unsubscribe", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	status, err := h.subscriptionService.Unsubscribe(c.Request.Context(), req.UserID, req.Base, req.Target)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to unsubscribe", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		}
		return
	}

	msg := "Subscription removed"
	if status == domain.UnsubscribeNotFound {
		msg = "No such subscription"
	}
	c.JSON(http.StatusOK, dto.UnsubscribeResponse{Status: status, Message: msg})
}

// listSubscriptions godoc
// @Summary List a user's subscriptions
// @Tags subscriptions
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} dto.ListSubscriptionsResponse
// @Failure 500 {object} map[string]string "Failed to list subscriptions"
// @Security BearerAuth
// @Router /subscriptions/{userID} [get]
func (h *subscriptionHandler) listSubscriptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	subs, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), c.Param("userID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list subscriptions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subscriptions"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListSubscriptionsResponse(subs))
}

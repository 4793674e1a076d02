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

const (
	fetchStatusQueued         = "queued"
	fetchStatusAlreadyRunning = "already_running"
	fetchStatusUnavailable    = "unavailable"
)

// FetchTrigger starts a background fetch of a pair. It reports false when a
// fetch of that pair is already running and an error when fetches cannot be
// started at all.
type FetchTrigger interface {
	TriggerFetch(pair domain.Pair) (bool, error)
}

// rateHandler handles HTTP requests related to currency rates.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
	trigger     FetchTrigger
}

func newRateHandler(rs portssvc.RateSvcFacade, trigger FetchTrigger) *rateHandler {
	return &rateHandler{
		rateService: rs,
		trigger:     trigger,
	}
}

// registerRateRoutes registers routes related to rates.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade, trigger FetchTrigger) {
	h := newRateHandler(rateService, trigger)

	rates := rg.Group("/rates")
	{
		rates.POST("", h.recordRate)
		rates.GET("/:base/:target", h.getLatestRate)
		rates.POST("/fetch/:base/:target", h.triggerFetch)
	}
}

// getLatestRate godoc
// @Summary Get the latest rate
// @Description Returns the most recent stored rate of a pair. When none is stored a background fetch is queued.
// @Tags rates
// @Produce  json
// @Param   base   path string true "Base currency code" MinLength(3) MaxLength(3)
// @Param   target path string true "Target currency code" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Failure 404 {object} map[string]string "No rate stored yet"
// @Failure 500 {object} map[string]string "Failed to retrieve rate"
// @Security BearerAuth
// @Router /rates/{base}/{target} [get]
func (h *rateHandler) getLatestRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base, target := c.Param("base"), c.Param("target")
	logger = logger.With(slog.String("base", base), slog.String("target", target))

	rate, err := h.rateService.GetLatestRate(c.Request.Context(), base, target)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error getting rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			pair, _ := domain.NewPair(base, target)
			status, fetchErr := h.queueFetch(pair)
			if fetchErr != nil {
				logger.Warn("Could not queue fetch for missing rate", slog.String("error", fetchErr.Error()))
			}
			logger.Info("Rate not stored yet", slog.String("fetch", status))
			c.JSON(http.StatusNotFound, gin.H{"error": "Rate not found", "fetch": status})
		default:
			logger.Error("Failed to get rate from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRateResponse(rate))
}

// triggerFetch godoc
// @Summary Fetch a rate now
// @Description Queues an immediate fetch of the pair from the rate provider
// @Tags rates
// @Produce  json
// @Param   base   path string true "Base currency code"
// @Param   target path string true "Target currency code"
// @Success 202 {object} dto.FetchQueuedResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Failure 503 {object} map[string]string "Scheduler stopped"
// @Security BearerAuth
// @Router /rates/fetch/{base}/{target} [post]
func (h *rateHandler) triggerFetch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pair, err := domain.NewPair(c.Param("base"), c.Param("target"))
	if err != nil {
		logger.Warn("Validation error triggering fetch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.queueFetch(pair)
	if err != nil {
		logger.Warn("Failed to queue fetch", slog.String("pair", pair.String()), slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler unavailable"})
		return
	}
	logger.Info("Fetch requested", slog.String("pair", pair.String()), slog.String("status", status))
	c.JSON(http.StatusAccepted, dto.FetchQueuedResponse{Pair: pair.String(), Status: status})
}

// recordRate godoc
// @Summary Record a rate manually
// @Description Appends an operator supplied observation for a pair
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateRateRequest true "Rate details"
// @Success 201 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to record rate"
// @Security BearerAuth
// @Router /rates [post]
func (h *rateHandler) recordRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rate, err := h.rateService.RecordRate(c.Request.Context(), req.Base, req.Target, req.Rate)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record rate in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record rate"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToRateResponse(rate))
}

func (h *rateHandler) queueFetch(pair domain.Pair) (string, error) {
	started, err := h.trigger.TriggerFetch(pair)
	switch {
	case err != nil:
		return fetchStatusUnavailable, err
	case !started:
		return fetchStatusAlreadyRunning, nil
	}
	return fetchStatusQueued, nil
}

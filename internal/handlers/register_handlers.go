package handlers

import (
	portssvc "github.com/SscSPs/currency_rates_bot/internal/core/ports/services"
	"github.com/SscSPs/currency_rates_bot/internal/middleware"
	"github.com/SscSPs/currency_rates_bot/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ulule/limiter/v3"
)

// RouteDeps are the non-service collaborators of the HTTP API.
type RouteDeps struct {
	FetchTrigger FetchTrigger
	Jobs         JobController
	Gatherer     prometheus.Gatherer
	Limiter      *limiter.Limiter
	HealthChecks map[string]HealthCheck
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	registerHealthRoutes(r, deps.HealthChecks, deps.Gatherer)

	setupAPIV1Routes(r, cfg, services, deps)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	var mw []gin.HandlerFunc
	if deps.Limiter != nil {
		mw = append(mw, middleware.RateLimit(deps.Limiter))
	}
	if cfg.APIJWTSecret != "" {
		mw = append(mw, middleware.AuthMiddleware(cfg.APIJWTSecret))
	}
	v1 := r.Group("/api/v1", mw...)

	registerUserRoutes(v1, service.User)
	registerSubscriptionRoutes(v1, service.Subscription)
	registerRateRoutes(v1, service.Rate, deps.FetchTrigger)
	if deps.Jobs != nil {
		registerJobRoutes(v1, deps.Jobs)
	}
}

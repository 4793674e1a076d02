package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/currency_rates_bot/internal/dto"
	"github.com/SscSPs/currency_rates_bot/internal/middleware"
	"github.com/SscSPs/currency_rates_bot/internal/scheduler"
	"github.com/gin-gonic/gin"
)

// JobController is the part of the scheduler exposed over HTTP.
type JobController interface {
	Statuses() []scheduler.Status
	Trigger(name string) (bool, error)
}

type jobHandler struct {
	jobs JobController
}

func registerJobRoutes(rg *gin.RouterGroup, jobs JobController) {
	h := &jobHandler{jobs: jobs}

	group := rg.Group("/jobs")
	{
		group.GET("", h.listJobs)
		// Job names contain "/" (fetch-rate:EUR/USD), hence the wildcard.
		group.POST("/trigger/*name", h.triggerJob)
	}
}

// listJobs godoc
// @Summary List scheduled jobs
// @Tags jobs
// @Produce  json
// @Success 200 {object} dto.ListJobsResponse
// @Security BearerAuth
// @Router /jobs [get]
func (h *jobHandler) listJobs(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToListJobsResponse(h.jobs.Statuses()))
}

// triggerJob godoc
// @Summary Run a job now
// @Tags jobs
// @Produce  json
// @Param   name path string true "Job name"
// @Success 202 {object} map[string]string
// @Failure 404 {object} map[string]string "Unknown job"
// @Failure 503 {object} map[string]string "Scheduler stopped"
// @Security BearerAuth
// @Router /jobs/trigger/{name} [post]
func (h *jobHandler) triggerJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := strings.TrimPrefix(c.Param("name"), "/")

	started, err := h.jobs.Trigger(name)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrUnknownJob):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown job"})
		default:
			logger.Warn("Failed to trigger job", slog.String("job", name), slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler unavailable"})
		}
		return
	}

	status := fetchStatusQueued
	if !started {
		status = fetchStatusAlreadyRunning
	}
	logger.Info("Job triggered", slog.String("job", name), slog.String("status", status))
	c.JSON(http.StatusAccepted, gin.H{"job": name, "status": status})
}

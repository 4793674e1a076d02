package dto

import (
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/scheduler"
)

// JobStatusResponse describes one scheduled job.
type JobStatusResponse struct {
	Name           string     `json:"name"`
	Schedule       string     `json:"schedule,omitempty"`
	State          string     `json:"state"`
	Runs           int64      `json:"runs"`
	Failures       int64      `json:"failures"`
	Skipped        int64      `json:"skipped"`
	LastStartedAt  *time.Time `json:"lastStartedAt,omitempty"`
	LastFinishedAt *time.Time `json:"lastFinishedAt,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
	NextRunAt      *time.Time `json:"nextRunAt,omitempty"`
}

// ListJobsResponse wraps the list of job statuses.
type ListJobsResponse struct {
	Jobs []JobStatusResponse `json:"jobs"`
}

// ToJobStatusResponse converts a scheduler status to its API view.
func ToJobStatusResponse(st scheduler.Status) JobStatusResponse {
	return JobStatusResponse{
		Name:           st.Name,
		Schedule:       st.Schedule,
		State:          string(st.State),
		Runs:           st.Runs,
		Failures:       st.Failures,
		Skipped:        st.Skipped,
		LastStartedAt:  timePtr(st.LastStartedAt),
		LastFinishedAt: timePtr(st.LastFinishedAt),
		LastError:      st.LastError,
		NextRunAt:      timePtr(st.NextRunAt),
	}
}

// ToListJobsResponse converts all statuses, keeping their order.
func ToListJobsResponse(statuses []scheduler.Status) ListJobsResponse {
	jobs := make([]JobStatusResponse, len(statuses))
	for i, st := range statuses {
		jobs[i] = ToJobStatusResponse(st)
	}
	return ListJobsResponse{Jobs: jobs}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Package jobs holds the bodies of the scheduled jobs and registers them
// with the scheduler.
package jobs

import "github.com/SscSPs/currency_rates_bot/internal/core/domain"

const (
	NotifySubscribersJobName    = "notify-subscribers"
	DailyDigestJobName          = "daily-digest"
	FetchSubscribedPairsJobName = "fetch-subscribed-pairs"
)

// FetchRateJobName is the job, and single-flight guard, name for a pair.
func FetchRateJobName(pair domain.Pair) string {
	return "fetch-rate:" + pair.String()
}

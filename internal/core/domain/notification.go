package domain

// SendStatus is the outcome of a single notification attempt.
type SendStatus string

const (
	SendDelivered       SendStatus = "delivered"
	SendTransportFailed SendStatus = "transport_failed"
)

// SendResult describes one notification attempt. Reason is set on failure.
type SendResult struct {
	Status SendStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// Delivered reports whether the message reached the transport successfully.
func (r SendResult) Delivered() bool {
	return r.Status == SendDelivered
}

// NotifyRunSummary aggregates one notify-subscribers run.
type NotifyRunSummary struct {
	Total     int `json:"total"`
	Skipped   int `json:"skipped"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

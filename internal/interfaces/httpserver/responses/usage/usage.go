// Package usageresponses holds the response shapes for the usage endpoint.
package usageresponses

import (
	"time"

	"github.com/relaybase/chat-api/internal/domain/usage"
)

// UsageResponse reports per-model token spend over the requested window.
type UsageResponse struct {
	From time.Time       `json:"from"`
	To   time.Time       `json:"to"`
	Data []usage.Summary `json:"data"`
}

// NewUsageResponse wraps the summaries with the window they cover.
func NewUsageResponse(from, to time.Time, summaries []usage.Summary) UsageResponse {
	if summaries == nil {
		summaries = []usage.Summary{}
	}
	return UsageResponse{From: from, To: to, Data: summaries}
}

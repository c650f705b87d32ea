package utils

import (
	"fmt"
	"time"
)

// Context keys carried on request contexts
const (
	RequestIDKey = "X-Request-ID"
	UserAgentKey = "User-Agent"
	IPAddressKey = "IP-Address"
	EndpointKey  = "Endpoint"
	TimeoutKey   = "Timeout"

	// CancelFuncKey carries the request context's cancel func so deferred
	// cleanup can release the timer.
	CancelFuncKey = "CancelFunc"
)

// Planning grid constants
const (
	// DefaultClipDurationSeconds is used for pricing when a plan has no clips
	DefaultClipDurationSeconds = 30

	// FirstBroadcastHour and LastBroadcastHour bound the plannable half-hour grid
	FirstBroadcastHour = 7
	LastBroadcastHour  = 20

	// DefaultTargetAudience is used when a plan does not name one
	DefaultTargetAudience = "All"
)

// External service constants
const (
	// ExternalFetchTimeout bounds calls to the CRM and seasonal-adjustments services
	ExternalFetchTimeout = 10 * time.Second

	// MonthsPerYear is the length of the seasonal adjustment table
	MonthsPerYear = 12
)

// CORS constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// TimeSlots returns the canonical half-hour planning grid from 07:00 to
// 20:00 ("07:00-07:30", "07:30-08:00", ..., "19:30-20:00").
func TimeSlots() []string {
	slots := make([]string, 0, (LastBroadcastHour-FirstBroadcastHour)*2)
	for hour := FirstBroadcastHour; hour < LastBroadcastHour; hour++ {
		slots = append(slots,
			fmt.Sprintf("%02d:00-%02d:30", hour, hour),
			fmt.Sprintf("%02d:30-%02d:00", hour, hour+1),
		)
	}
	return slots
}

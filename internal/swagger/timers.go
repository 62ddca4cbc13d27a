package swagger

import "github.com/antonio-alexander/go-employee-pipeline/internal/data"

// swagger:route GET /timers Timers ReadTimers
// Reads the per endpoint timings, only populated when SERVICE_TIMERS_ENABLED
// is set.
//
//     Produces:
//     - application/json
//
// responses:
//   200: TimersGetResponseOk

// swagger:response TimersGetResponseOk
type TimersGetResponseOk struct {
	// in:body
	Timers data.Timers `json:"timers"`
}

// swagger:route DELETE /timers Timers DeleteTimers
// Resets all timers.
//
// responses:
//   204: TimersDeleteResponseNoContent

// swagger:response TimersDeleteResponseNoContent
type TimersDeleteResponseNoContent struct{}

// swagger:parameters ReadTimers DeleteTimers ReadCounters DeleteCounters
type MetricsParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

package swagger

import "github.com/antonio-alexander/go-employee-pipeline/internal/data"

// swagger:route GET /counters Counters ReadCounters
// Reads the valid/skipped block counts per binary file.
//
//     Produces:
//     - application/json
//
// responses:
//   200: CountersGetResponseOk

// swagger:response CountersGetResponseOk
type CountersGetResponseOk struct {
	// in:body
	Counters data.BlockCounters `json:"counters"`
}

// swagger:route DELETE /counters Counters DeleteCounters
// Resets all block counters.
//
// responses:
//   204: CountersDeleteResponseNoContent

// swagger:response CountersDeleteResponseNoContent
type CountersDeleteResponseNoContent struct{}

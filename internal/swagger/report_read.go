package swagger

import "github.com/antonio-alexander/go-employee-pipeline/internal/data"

// swagger:route GET /report Report ReadReport
// Generates a salary report, rows are sorted by employee id.
//
//     Produces:
//     - application/json
//
// responses:
//   200: ReportGetResponseOk
//   400: ErrorResponse
//   404: ErrorResponse

// swagger:response ReportGetResponseOk
type ReportGetResponseOk struct {
	// in:body
	Report data.Report `json:"report"`
}

// swagger:parameters ReadReport
type ReportGetParams struct {
	// must be positive
	// in:query
	Rate float64 `json:"rate"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// Package Swagger go-employee-pipeline
//
// A read-only API over a binary file of employee records; it serves the
// records, salary reports generated from them and the counters/timers of
// the service.
//
//	Schemes: http, https
//	Version: 1.0
//	Host: localhost:8080
//	BasePath:/
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package swagger

import "github.com/antonio-alexander/go-employee-pipeline/internal/data"

// swagger:response ErrorResponse
type ErrorResponse struct {
	// in:body
	Error data.ErrorResponse `json:"error"`
}

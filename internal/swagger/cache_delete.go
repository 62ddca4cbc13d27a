package swagger

// swagger:route DELETE /cache Cache DeleteCache
// Evicts every cached snapshot of the binary file.
//
// responses:
//   204: CacheDeleteResponseNoContent
//   500: ErrorResponse

// swagger:response CacheDeleteResponseNoContent
type CacheDeleteResponseNoContent struct{}

// swagger:parameters DeleteCache
type CacheDeleteParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

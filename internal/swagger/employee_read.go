package swagger

import "github.com/antonio-alexander/go-employee-pipeline/internal/data"

// swagger:route GET /employees Employee ReadEmployees
// Reads every valid record of the binary file in file order.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesGetResponseOk
//   404: ErrorResponse

// swagger:response EmployeesGetResponseOk
type EmployeesGetResponseOk struct {
	// in:body
	Employees data.Employees `json:"employees"`
}

// swagger:parameters ReadEmployees
type EmployeesGetParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

// swagger:route GET /employees/{EmpNo} Employee ReadEmployee
// Reads the first record with the given id.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeGetResponseOk
//   400: ErrorResponse
//   404: ErrorResponse

// swagger:response EmployeeGetResponseOk
type EmployeeGetResponseOk struct {
	// in:body
	Employee data.Employee `json:"employee"`
}

// swagger:parameters ReadEmployee
type EmployeeGetParams struct {
	// in:path
	EmpNo int32 `json:"EmpNo"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

package data

const (
	RouteEmployees       string = "/employees"
	RouteEmployeesEmpNo  string = RouteEmployees + "/{" + PathEmpNo + "}"
	RouteEmployeesEmpNof string = RouteEmployees + "/%d"
	RouteReport          string = "/report"
	RouteCounters        string = "/counters"
	RouteTimers          string = "/timers"
	RouteCache           string = "/cache"
)

const PathEmpNo string = "EmpNo"

const HeaderCorrelationId string = "Correlation-Id"

const ParameterRate string = "rate"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type Response struct {
	Employee  *Employee `json:"employee,omitempty"`
	Employees Employees `json:"employees,omitempty"`
	Report    *Report   `json:"report,omitempty"`
}

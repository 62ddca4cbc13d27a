package data

import "encoding/json"

type ReportRow struct {
	EmpNo  int32   `json:"emp_no"`
	Name   string  `json:"name"`
	Hours  float64 `json:"hours"`
	Salary float64 `json:"salary"`
}

type Report struct {
	Source string      `json:"source"`
	Rate   float64     `json:"rate"`
	Rows   []ReportRow `json:"rows"`
}

func (r *Report) MarshalBinary() ([]byte, error) {
	return json.Marshal(r)
}

func (r *Report) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, r)
}

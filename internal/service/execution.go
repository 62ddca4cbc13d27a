package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"

	"github.com/pkg/errors"
)

func getCorrelationId(request *http.Request) string {
	if correlationId := request.Header.Get(data.HeaderCorrelationId); correlationId != "" {
		return correlationId
	}
	return internal.GenerateId()
}

func empNoFromPath(pathVariables map[string]string) (int32, error) {
	empNo, err := strconv.ParseInt(pathVariables[data.PathEmpNo], 10, 32)
	if err != nil {
		return 0, data.Wrapf(data.ErrUsage, err, "invalid employee id")
	}
	return int32(empNo), nil
}

func rateFromQuery(request *http.Request) (float64, error) {
	rate, err := strconv.ParseFloat(request.URL.Query().Get(data.ParameterRate), 64)
	if err != nil {
		return 0, data.Wrapf(data.ErrUsage, err, "invalid hourly rate")
	}
	return rate, nil
}

func statusCode(err error) int {
	switch {
	default:
		return http.StatusInternalServerError
	case errors.Is(err, data.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, data.ErrUsage), errors.Is(err, data.ErrValidation):
		return http.StatusBadRequest
	}
}

func handleResponse(writer http.ResponseWriter, err error, items ...interface{}) {
	var bytes []byte

	if err == nil {
		switch {
		default:
			bytes, err = json.Marshal(items[0])
		case len(items) <= 0 || items[0] == nil:
			writer.WriteHeader(http.StatusNoContent)
			return
		}
	}
	if err != nil {
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(statusCode(err))
		bytes, err = json.Marshal(&data.ErrorResponse{Error: err.Error()})
		if err != nil {
			fmt.Printf("error handling response: %s\n", err)
			return
		}
		if _, err := writer.Write(bytes); err != nil {
			fmt.Printf("error handling response: %s\n", err)
		}
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := writer.Write(bytes); err != nil {
		fmt.Printf("error handling response: %s\n", err)
	}
}

// Package response holds the JSON envelope shared by every HTTP handler.
package response

import (
	"errors"
	"net/http"

	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// Response is the standard JSON body returned by the API.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"

	// FetchFailedMessage is the only detail exposed when the billing source fails.
	FetchFailedMessage = "Failed to fetch cost data"
)

// OK returns a successful Response carrying data.
func OK(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error returns an error Response with msg.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// FromError maps a domain error to an HTTP status and body.
// Upstream failures hide their cause from the client.
func FromError(err error) (int, Response) {
	switch {
	case errors.Is(err, types.ErrInvalidRecord), errors.Is(err, types.ErrInvalidPeriod), errors.Is(err, types.ErrInvalidTag):
		return http.StatusBadRequest, Error(err.Error())
	case errors.Is(err, types.ErrEmptyInput):
		return http.StatusUnprocessableEntity, Error(err.Error())
	default:
		return http.StatusBadGateway, Error(FetchFailedMessage)
	}
}

// Outcome labels an aggregation result for the metrics counter.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, types.ErrInvalidRecord), errors.Is(err, types.ErrInvalidPeriod), errors.Is(err, types.ErrInvalidTag):
		return "invalid"
	case errors.Is(err, types.ErrEmptyInput):
		return "empty"
	default:
		return "upstream_error"
	}
}

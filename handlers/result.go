package handlers

import (
	"errors"
	"net/http"

	"github.com/kova98/harvest/sources"
)

type Handler func(http.ResponseWriter, *http.Request) Result

type Result struct {
	Error error
	Code  int
	Body  interface{}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// UpstreamErrorResponse describes a failed call to a scraped platform.
type UpstreamErrorResponse struct {
	Error          string `json:"error"`
	Platform       string `json:"platform"`
	Operation      string `json:"operation"`
	Target         string `json:"target"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

func BadRequest(message string) Result {
	return Result{
		Code: http.StatusBadRequest,
		Body: ErrorResponse{message},
	}
}

func InternalError(error error, message string) Result {
	return Result{
		Error: errors.Join(errors.New(message), error),
		Code:  http.StatusInternalServerError,
	}
}

func NotFound(message string) Result {
	return Result{
		Code: http.StatusNotFound,
		Body: ErrorResponse{message},
	}
}

func Ok(body interface{}) Result {
	return Result{
		Code: http.StatusOK,
		Body: body,
	}
}

func BadGateway(err error, body UpstreamErrorResponse) Result {
	return Result{
		Error: err,
		Code:  http.StatusBadGateway,
		Body:  body,
	}
}

// SourceError maps an operation failure to a response. Upstream failures and
// unexpected upstream shapes are the platform's fault (502); anything else is ours.
func SourceError(err error, message string) Result {
	var fetchErr *sources.FetchError
	if errors.As(err, &fetchErr) {
		return BadGateway(err, UpstreamErrorResponse{
			Error:          "Upstream request failed.",
			Platform:       string(fetchErr.Platform),
			Operation:      fetchErr.Operation,
			Target:         fetchErr.Target,
			UpstreamStatus: fetchErr.StatusCode,
		})
	}

	var shapeErr *sources.ShapeError
	if errors.As(err, &shapeErr) {
		return BadGateway(err, UpstreamErrorResponse{
			Error:     "Upstream response had an unexpected shape.",
			Platform:  string(shapeErr.Platform),
			Operation: shapeErr.Operation,
			Target:    shapeErr.Target,
		})
	}

	return InternalError(err, message)
}

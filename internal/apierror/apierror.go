// Package apierror renders every API error as the common
// {"success":false,"message":...,"error":...} envelope.
package apierror

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Error is the failure half of the response envelope.
type Error struct {
	Status  int    `json:"-"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e *Error) GetStatus() int {
	return e.Status
}

// New builds an error response. detail is an optional short code or
// validation hint shown to clients.
func New(status int, message, detail string) *Error {
	return &Error{Status: status, Message: message, Detail: detail}
}

func NotFound(message string) *Error { return New(http.StatusNotFound, message, "not_found") }
func Conflict(message string) *Error { return New(http.StatusConflict, message, "duplicate") }

// fromHuma adapts the framework's own errors (body decoding, parameter
// validation) to the envelope. Validation failures are reported as 400.
func fromHuma(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	details := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			details = append(details, err.Error())
		}
	}

	if msg == "" {
		msg = http.StatusText(status)
	}
	return New(status, msg, strings.Join(details, "; "))
}

func init() {
	huma.NewError = fromHuma
}

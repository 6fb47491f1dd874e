// Package apierror carries the error taxonomy shared by all backend clients:
// HTTP failures with a parsed message, client-side validation failures, and
// plain network errors (which stay ordinary wrapped errors).
package apierror

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// APIError represents a backend error response.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Validation builds a client-side validation failure that never hit the wire.
func Validation(message string) *APIError {
	return &APIError{Message: message, Code: "validation"}
}

// FromResponse builds an APIError from a non-2xx response. The human-readable
// message comes from the JSON body ("error" or "message" field) when the body
// parses, else from the HTTP status text.
func FromResponse(resp *http.Response) *APIError {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(body, &errResp)
	msg := errResp.Error
	if msg == "" {
		msg = errResp.Message
	}
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: msg, Code: strings.TrimSpace(errResp.Code)}
}

func statusIs(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }
func IsForbidden(err error) bool    { return statusIs(err, http.StatusForbidden) }
func IsNotFound(err error) bool     { return statusIs(err, http.StatusNotFound) }

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 0 && apiErr.Code == "validation"
}

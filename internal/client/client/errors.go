package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	// Code is the "error" field of the body (e.g. "Unauthorized").
	Code string
	// Message is the "message" field of the body.
	Message string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	case e.Code != "":
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Code)
	default:
		return fmt.Sprintf("api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// Is lets errors.Is match an APIError against the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// parseError builds an APIError from a response body. Bodies that are not
// JSON objects are kept as the message when short and printable.
func parseError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}

	var fields struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &fields); err == nil {
		apiErr.Message = fields.Message
		apiErr.Code = fields.Error
		return apiErr
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		apiErr.Message = text
	}
	return apiErr
}

// Message returns the best user-facing text for err: the response body's
// message field, then its error field, then validation and connectivity
// texts, and finally fallback. An expired session always reports itself.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrSessionExpired) {
		return ErrSessionExpired.Error()
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Code != "" {
			return apiErr.Code
		}
		return fallback
	}

	switch {
	case models.IsValidation(err):
		return err.Error()
	case errors.Is(err, ErrUnavailable):
		return ErrUnavailable.Error()
	}
	return fallback
}

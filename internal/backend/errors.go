package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/lmendo/tripdesk/internal/app/models"
)

// APIError is the only error shape the gateway lets out of a failed call.
// Message is always safe to show to a user; the wrapped sentinel drives
// control flow (session clearing, redirects).
type APIError struct {
	Status  int
	Message string
	cause   error
}

func (e *APIError) Error() string { return e.Message }
func (e *APIError) Unwrap() error { return e.cause }

// errorBody is the conventional Laravel-style error payload: a top-level
// message plus optional field-level validation messages.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// firstFieldMessage returns the first field-level validation message, with
// field names sorted so the choice is deterministic.
func (b errorBody) firstFieldMessage() string {
	fields := make([]string, 0, len(b.Errors))
	for f := range b.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if len(b.Errors[f]) > 0 && b.Errors[f][0] != "" {
			return b.Errors[f][0]
		}
	}
	return ""
}

// transportError wraps a failure to reach the backend at all.
func transportError(err error) error {
	return &APIError{
		Status:  0,
		Message: "cannot reach server",
		cause:   fmt.Errorf("%w: %w", models.ErrUnreachable, err),
	}
}

// statusError translates a non-2xx response into the error taxonomy. The raw
// body never escapes: it is mined for a human-readable message and dropped.
func statusError(status int, body []byte) error {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)

	switch {
	case status == http.StatusUnauthorized:
		msg := parsed.Message
		if msg == "" {
			msg = "invalid credentials or session expired"
		}
		return &APIError{Status: status, Message: msg, cause: models.ErrUnauthenticated}
	case status == http.StatusForbidden:
		return &APIError{Status: status, Message: "access denied", cause: models.ErrForbidden}
	case status == http.StatusConflict:
		msg := parsed.Message
		if msg == "" {
			msg = "item already exists"
		}
		return &APIError{Status: status, Message: msg, cause: models.ErrConflict}
	case status == http.StatusNotFound:
		msg := parsed.Message
		if msg == "" {
			msg = "requested item not found"
		}
		return &APIError{Status: status, Message: msg, cause: models.ErrNotFound}
	case status == http.StatusUnprocessableEntity:
		msg := parsed.firstFieldMessage()
		if msg == "" {
			msg = parsed.Message
		}
		if msg == "" {
			msg = "the submitted data was rejected"
		}
		return &APIError{Status: status, Message: msg, cause: models.ErrValidation}
	default:
		return &APIError{Status: status, Message: "something went wrong, please try again", cause: models.ErrServer}
	}
}

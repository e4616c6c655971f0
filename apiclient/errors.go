package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
	"github.com/tidwall/gjson"
)

// HTTPError is returned for every response with a status of 400 or above.
type HTTPError struct {
	Method  string
	Path    string
	Status  int
	Message string // Server supplied message, empty when the body carried none
	Body    []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Is lets callers match status errors against the package sentinels.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case bookerrors.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case bookerrors.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// messageKeys are the body fields the API uses for human readable errors, in
// order of preference.
var messageKeys = []string{"message", "error", "msg"}

func extractMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	results := gjson.GetManyBytes(body, messageKeys...)
	for _, r := range results {
		if r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}

// ServerMessage returns the message the server attached to err, or "" when
// err is not an HTTPError or carried no message.
func ServerMessage(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return ""
}

// StatusCode returns the HTTP status of err, or 0 for transport failures.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

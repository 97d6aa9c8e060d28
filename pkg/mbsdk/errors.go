package mbsdk

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrNetwork wraps transport failures and timeouts.
	ErrNetwork = errors.New("mbsdk: backend unreachable")

	// ErrUnexpectedResponse is returned for success-shaped answers that lack
	// required fields, or bodies that are not JSON at all.
	ErrUnexpectedResponse = errors.New("mbsdk: unexpected response shape")

	// ErrEmptyToken is returned when VerifyToken is called without a token.
	ErrEmptyToken = errors.New("mbsdk: empty login token")
)

// APIError is an explicit rejection by the backend: a non-2xx status, or a
// 2xx body carrying success:false.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mbsdk: backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("mbsdk: backend returned HTTP %d: %s", e.StatusCode, e.Message)
}

// IsRejected reports whether err is an explicit backend rejection.
func IsRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// maxPlainMessage caps how much of a non-JSON error body is surfaced.
const maxPlainMessage = 200

// newAPIError builds an APIError from a response body, falling back to the
// status text when the body carries no message.
func newAPIError(status int, body []byte) *APIError {
	var msg string
	if gjson.ValidBytes(body) {
		msg = messageOf(decodeDocument(body))
	} else if text := strings.TrimSpace(string(body)); len(text) <= maxPlainMessage {
		msg = text
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}

func messageOf(doc gjson.Result) string {
	return firstString(doc,
		"message",
		"error_description",
		"error",
		"msg",
		"data.message",
	)
}

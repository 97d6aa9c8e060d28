package miniappsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
)

// Error codes of the mini-app API.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeLoginRequired      = "login_required"
	ErrorCodeWrongContext       = "wrong_context"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeRateLimited        = "rate_limit_exceeded"
	ErrorCodeBackendUnavailable = "backend_unavailable"
	ErrorCodeBackendRejected    = "backend_rejected"
	ErrorCodeServerError        = "server_error"
)

// APIError is an error answer of the mini-app API. It is used by the server to
// write errors and by the client to report them.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as the response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

// WithDescription returns a copy of e with another description.
func (e *APIError) WithDescription(description string) *APIError {
	return &APIError{StatusCode: e.StatusCode, Code: e.Code, Description: description}
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrUnsupportedMediaType = &APIError{
		StatusCode:  http.StatusUnsupportedMediaType,
		Code:        ErrorCodeInvalidRequest,
		Description: "content-type must be application/json",
	}

	// ErrLoginRequired is returned when the tab has no verified session.
	ErrLoginRequired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeLoginRequired,
		Description: "Bạn cần đăng nhập để tiếp tục.",
	}

	// ErrWrongContext is returned when a login token arrives outside the
	// banking app's launch route.
	ErrWrongContext = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeWrongContext,
		Description: "Không thể xác thực phiên đăng nhập. Vui lòng mở mini app từ ứng dụng MB Bank.",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	// ErrBackendUnavailable is returned when the mini-app backend could not
	// be reached or answered with something unreadable.
	ErrBackendUnavailable = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeBackendUnavailable,
		Description: "Không thể kết nối tới máy chủ. Vui lòng kiểm tra kết nối mạng và thử lại.",
	}

	// ErrBackendRejected is returned when the backend refused the request.
	ErrBackendRejected = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeBackendRejected,
		Description: "the backend rejected the request",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx answer into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp httpx.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

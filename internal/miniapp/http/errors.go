package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/bridge"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/service"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/miniappsdk"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
)

// apiError maps service and backend errors to API errors.
func apiError(err error) *miniappsdk.APIError {
	var backendErr *mbsdk.APIError

	switch {
	case errors.Is(err, service.ErrNotVerified):
		return miniappsdk.ErrLoginRequired
	case errors.Is(err, domain.ErrMissingIdentity):
		return miniappsdk.ErrLoginRequired.WithDescription(domain.MsgCannotPay)
	case errors.Is(err, domain.ErrInvalidPackageID):
		return miniappsdk.ErrInvalidRequest.WithDescription("package_id must be a 24-character hex object id")
	case errors.Is(err, service.ErrNoTransaction):
		return miniappsdk.ErrNotFound.WithDescription("no pending transaction for this tab")
	case errors.As(err, &backendErr):
		return miniappsdk.ErrBackendRejected.WithDescription(backendErr.Message)
	case errors.Is(err, mbsdk.ErrNetwork),
		errors.Is(err, mbsdk.ErrUnexpectedResponse),
		errors.Is(err, bridge.ErrEmptyTransaction),
		errors.Is(err, context.DeadlineExceeded):
		return miniappsdk.ErrBackendUnavailable
	default:
		return miniappsdk.ErrServerError
	}
}

// writeError logs err and writes the matching API error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := apiError(err)

	log := slogx.FromContext(r.Context())
	if e.StatusCode >= http.StatusInternalServerError {
		log.Error("request failed", "code", e.Code, "error", err)
	} else {
		log.Warn("request rejected", "code", e.Code, "error", err)
	}
	e.WriteError(w)
}

// writeDecodeError answers a body DecodeJSON could not read.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, httpx.ErrUnsupportedMediaType) {
		miniappsdk.ErrUnsupportedMediaType.WriteError(w)
		return
	}
	miniappsdk.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
}

package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/service"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/session"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/miniappsdk"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/urltoken"
)

const (
	// verifySlack is added to the exchange timeout so a verify request
	// normally sees the outcome instead of pending.
	verifySlack = 2 * time.Second

	// eventPing keeps idle event streams open through proxies.
	eventPing = 25 * time.Second
)

// SessionHandler serves the session endpoints of a tab.
type SessionHandler struct {
	Verification *service.VerificationService
	Sessions     *session.Store
	Payments     *service.PaymentService

	// Closing ends open event streams when the server shuts down.
	Closing <-chan struct{}
}

// HandleVerify handles POST /v1/session/verify
//
//	@Summary		Verify Login Token
//	@Description	Submits the login token carried by the page URL, query or fragment, for the calling tab.
//	@Description	The same token is exchanged at most once per tab; repeated calls join or report the first exchange.
//	@Description	clean_url is the page URL without the token and should be applied with history.replaceState.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		miniappsdk.VerifyRequest	true	"Full page URL"
//	@Success		200		{object}	miniappsdk.VerifyResponse	"verified, failed, pending, no_token or cancelled"
//	@Failure		400		{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	miniappsdk.VerifyResponse	"wrong_context"
//	@Failure		429		{object}	httpx.ErrorResponse			"error, error_description"
//	@Router			/v1/session/verify [post].
func (h *SessionHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tabID := httpx.TabFromContext(ctx)

	var req miniappsdk.VerifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	u, err := urltoken.Parse(req.URL)
	if err != nil || req.URL == "" {
		miniappsdk.ErrInvalidRequest.WithDescription("url must be the page URL").WriteError(w)
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, h.Verification.Gate.Timeout()+verifySlack)
	res := h.Verification.Verify(waitCtx, tabID, u)
	cancel()

	clean := relativeURL(res.CleanURL)
	resp := miniappsdk.VerifyResponse{
		Status:   string(res.Status),
		CleanURL: clean,
		Message:  res.Message(),
		Reason:   string(res.Reason),
	}

	onLoginPage := res.CleanURL != nil && res.CleanURL.Path == requireLoginPath
	next := clean
	if onLoginPage {
		next = safeNext(res.CleanURL.Query().Get("next"))
	}

	switch res.Status {
	case service.VerifyVerified:
		if onLoginPage {
			resp.Redirect = next
		}
	case service.VerifyFailed:
		resp.Redirect = requireLoginURL(next, res.Reason)
	case service.VerifyWrongContext:
		httpx.WriteJSON(w, http.StatusForbidden, resp)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/session
//
//	@Summary		Current Session
//	@Description	Returns the verification state of the calling tab and, when verified, who it belongs to.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	miniappsdk.SessionResponse
//	@Failure		500	{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tabID := httpx.TabFromContext(ctx)

	sess, ok, err := h.Sessions.Get(ctx, tabID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	state, reason := h.Verification.State(ctx, tabID)
	resp := miniappsdk.SessionResponse{
		Verified: ok,
		State:    string(state),
	}
	switch {
	case ok:
		resp.CIF = sess.CIF
		resp.Fullname = sess.Fullname
	case state == domain.StateFailed:
		resp.Reason = string(reason)
		resp.Message = reason.Message()
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleLogout handles POST /v1/session/logout
//
//	@Summary		Logout
//	@Description	Ends the session of the calling tab. A running token exchange is abandoned silently.
//	@Tags			Session
//	@Success		204	"No Content"
//	@Failure		500	{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/session/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tabID := httpx.TabFromContext(ctx)

	if err := h.Verification.Logout(ctx, tabID); err != nil {
		writeError(w, r, err)
		return
	}
	if h.Payments != nil {
		if err := h.Payments.Forget(ctx, tabID); err != nil {
			slogx.FromContext(ctx).Warn("failed to forget last transaction", "error", err)
		}
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleEvents handles GET /v1/session/events
//
//	@Summary		Session Events
//	@Description	Server-sent events for the calling tab: "verified" when a session is stored, "logout" when it is cleared.
//	@Description	A tab that is already verified receives "verified" right away.
//	@Tags			Session
//	@Produce		text/event-stream
//	@Success		200	{string}	string	"event stream"
//	@Router			/v1/session/events [get].
func (h *SessionHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	tabID := httpx.TabFromContext(ctx)
	rc := http.NewResponseController(w)

	// Subscribe before reading state so no change slips in between.
	events, cancel := h.Sessions.Subscribe(tabID)
	defer cancel()

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if h.Sessions.IsVerified(ctx, tabID) {
		writeEvent(w, session.EventVerified)
	} else {
		_, _ = fmt.Fprint(w, ": connected\n\n")
	}
	if err := rc.Flush(); err != nil {
		log.Debug("event stream not flushable", "error", err)
		return
	}

	ping := time.NewTicker(eventPing)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.Closing:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, ev.Type)
		case <-ping.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, t session.EventType) {
	_, _ = fmt.Fprintf(w, "event: %s\ndata: {\"type\":%q}\n\n", t, t)
}

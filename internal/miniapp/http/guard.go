package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/gate"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/service"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
)

// DefaultGrace is how long a guarded page waits for a query token exchange
// before it falls back to the verifying page.
const DefaultGrace = 1200 * time.Millisecond

// Guard lets verified tabs through to protected pages and sends everything
// else to verification or to the login-required view.
type Guard struct {
	Verification *service.VerificationService
	Views        *Views
	Grace        time.Duration
}

func (g *Guard) grace() time.Duration {
	if g.Grace <= 0 {
		return DefaultGrace
	}
	return g.Grace
}

// Require wraps a protected page.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := slogx.FromContext(ctx)
		tabID := httpx.TabFromContext(ctx)
		v := g.Verification

		if v.Token(r.URL) == "" {
			g.withoutToken(w, r, next)
			return
		}

		if v.RequireMarker {
			// The marker lives in the fragment, which only the page can see.
			g.Views.Render(w, r, http.StatusOK, pageVerifying, Page{
				Title:    "Đang xác thực",
				TokenKey: v.TokenKey,
				Verify:   true,
			})
			return
		}

		waitCtx, cancel := context.WithTimeout(ctx, g.grace())
		res := v.Verify(waitCtx, tabID, r.URL)
		cancel()

		clean := relativeURL(res.CleanURL)
		log.Debug("guard verification", "status", res.Status, "reason", res.Reason)

		switch res.Status {
		case service.VerifyVerified:
			http.Redirect(w, r, clean, http.StatusSeeOther)
		case service.VerifyFailed:
			http.Redirect(w, r, requireLoginURL(clean, res.Reason), http.StatusSeeOther)
		case service.VerifyPending:
			// The page re-submits the same token and joins the running exchange.
			g.Views.Render(w, r, http.StatusOK, pageVerifying, Page{
				Title:    "Đang xác thực",
				TokenKey: v.TokenKey,
				Verify:   true,
			})
		case service.VerifyCancelled:
			// A newer token took over this tab. Wait for its outcome.
			g.Views.Render(w, r, http.StatusOK, pageVerifying, Page{
				Title:    "Đang xác thực",
				TokenKey: v.TokenKey,
				Listen:   true,
				Next:     safeNext(clean),
			})
		case service.VerifyWrongContext:
			g.Views.Render(w, r, http.StatusForbidden, pageWrongContext, Page{
				Title:   "Không thể xác thực",
				Message: res.Message(),
			})
		default:
			http.Redirect(w, r, requireLoginURL(clean, domain.ReasonNone), http.StatusSeeOther)
		}
	})
}

func (g *Guard) withoutToken(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := r.Context()
	tabID := httpx.TabFromContext(ctx)
	v := g.Verification

	if v.Sessions.IsVerified(ctx, tabID) {
		next.ServeHTTP(w, r)
		return
	}

	snap := v.Gate.Snapshot(tabID)
	if snap.State == gate.StateInFlight {
		g.Views.Render(w, r, http.StatusOK, pageVerifying, Page{
			Title:    "Đang xác thực",
			TokenKey: v.TokenKey,
			Listen:   true,
			Next:     safeNext(r.URL.RequestURI()),
		})
		return
	}

	reason := domain.ReasonNone
	if snap.State == gate.StateFailed {
		reason = snap.Reason
	}
	http.Redirect(w, r, requireLoginURL(r.URL.RequestURI(), reason), http.StatusSeeOther)
}

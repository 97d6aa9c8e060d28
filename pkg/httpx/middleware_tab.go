package httpx

import (
	"net/http"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/idx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/jwtx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
)

// DefaultTabCookie is the cookie holding the signed tab id.
const DefaultTabCookie = "miniapp_tab"

// TabConfig configures TabMiddleware.
type TabConfig struct {
	CookieName string
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Issuer     string
	Audience   []string
	TTL        time.Duration
	Secure     bool
	Now        func() time.Time
}

// TabMiddleware identifies the browser tab of every request. A valid cookie is
// reused; otherwise a new tab id is minted and set as a session cookie, so a
// freshly launched webview always starts as a new tab.
func TabMiddleware(cfg TabConfig) Middleware {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultTabCookie
	}
	if cfg.TTL <= 0 {
		cfg.TTL = jwtx.DefaultTabTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			tabID := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil && c.Value != "" {
				claims, err := cfg.Verifier.Verify(c.Value)
				if err == nil {
					tabID = claims.TabID()
				} else {
					log.Debug("tab cookie rejected", "err", err)
				}
			}

			if _, err := idx.Parse(tabID); err != nil {
				tabID = idx.New().String()
				token, err := cfg.Signer.Sign(jwtx.NewTabClaims(tabID, cfg.Issuer, cfg.Audience, cfg.TTL, cfg.Now()))
				if err != nil {
					log.Error("tab cookie sign failed", "err", err)
					WriteError(w, http.StatusInternalServerError, "server_error", "failed to start session")
					return
				}

				// No Max-Age: the cookie dies with the webview.
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = ContextWithTab(ctx, tabID)
			ctx = slogx.With(ctx, "tab_id", tabID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

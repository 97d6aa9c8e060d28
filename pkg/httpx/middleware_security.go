package httpx

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/cryptox"
)

// SecurityHeaders sets conservative response headers and a per-response
// script nonce used by the page templates.
//
// Referrer-Policy is no-referrer because page URLs may carry login tokens
// until the page has sanitized them.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "server_error", "")
			return
		}

		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", fmt.Sprintf(
			"default-src 'self'; script-src 'self' 'nonce-%s'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'; frame-ancestors 'none'; base-uri 'none'",
			nonce,
		))

		ctx := context.WithValue(r.Context(), CtxKeyNonce, nonce)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

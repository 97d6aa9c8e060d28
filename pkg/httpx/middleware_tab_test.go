package httpx_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/idx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func tabConfig(t *testing.T) httpx.TabConfig {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("k1", priv)
	require.NoError(t, err)

	return httpx.TabConfig{
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA("k1", signer.PublicKey(), "miniapp", nil),
		Issuer:   "miniapp",
		TTL:      time.Hour,
	}
}

func TestTabMiddleware(t *testing.T) {
	cfg := tabConfig(t)

	var seen string
	h := httpx.TabMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httpx.TabFromContext(r.Context())
	}))

	// First request mints a tab.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := idx.Parse(seen)
	require.NoError(t, err)
	first := seen

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, httpx.DefaultTabCookie, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.Zero(t, cookies[0].MaxAge, "session cookie")

	// The cookie keeps the tab.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, first, seen)
	require.Empty(t, rec.Result().Cookies())

	// A forged cookie starts a new tab.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: httpx.DefaultTabCookie, Value: "forged"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.NotEqual(t, first, seen)
	require.Len(t, rec.Result().Cookies(), 1)
}

func TestSecurityHeaders(t *testing.T) {
	var nonce string
	h := httpx.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce = httpx.NonceFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, nonce)
	require.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	require.Contains(t, rec.Header().Get("Content-Security-Policy"), "'nonce-"+nonce+"'")
}

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/bridge"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/gate"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/service"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/session"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/store/drivers/sqlite"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/cryptox"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/jwtx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/miniappsdk"
	"github.com/stretchr/testify/require"
)

const (
	testPackageID = "64b7f0c2a1b2c3d4e5f60718"
	testIssuer    = "miniapp-test"
)

var testAudience = []string{"miniapp-web"}

// backend is a scripted mini-app backend.
//
// Tokens starting with "expired" are rejected with HTTP 400, tokens starting
// with "slow" block until release is closed. Token XYZ maps to session S1.
type backend struct {
	srv *httptest.Server

	mu      sync.Mutex
	calls   []string
	release chan struct{}
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	b := &backend{release: make(chan struct{})}
	mux := http.NewServeMux()

	mux.HandleFunc("POST "+mbsdk.PathVerifyToken, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		token := r.PostForm.Get("token")

		b.mu.Lock()
		b.calls = append(b.calls, token)
		b.mu.Unlock()

		switch {
		case strings.HasPrefix(token, "expired"):
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"token expired"}`)
			return
		case strings.HasPrefix(token, "slow"):
			select {
			case <-b.release:
			case <-r.Context().Done():
				return
			}
		}

		sid := "S-" + token
		if token == "XYZ" {
			sid = "S1"
		}
		writeBody(w, map[string]any{"sessionId": sid, "cif": "C1", "fullname": "Nguyen Van A"})
	})

	mux.HandleFunc("GET "+mbsdk.PathPackagesByType, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string]any{"data": []map[string]any{{
			"_id":      testPackageID,
			"name":     "Gói cơ bản",
			"price":    99000,
			"duration": 30,
			"type":     r.URL.Query().Get("type"),
		}}})
	})

	txn := func(id, description string) map[string]any {
		return map[string]any{"data": map[string]any{
			"transactionId": id,
			"amount":        99000,
			"merchant":      map[string]any{"code": "JBAAI", "name": "JBA AI"},
			"type":          map[string]any{"code": "PACKAGE", "name": "Mua gói", "allowCard": true},
			"description":   description,
			"status":        "PENDING",
		}}
	}
	mux.HandleFunc("POST "+mbsdk.PathTransactions, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		writeBody(w, txn("AW0000000001", r.PostForm.Get("description")))
	})
	mux.HandleFunc("GET "+mbsdk.PathTransactions+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, txn(r.PathValue("id"), "Thanh toán gói dịch vụ "+testPackageID))
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func writeBody(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) verifyCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

type fixture struct {
	srv      *httptest.Server
	backend  *backend
	sessions *session.Store
	gate     *gate.Gate
	verifier jwtx.Verifier
}

type fixtureOption func(*Router)

func withRequireMarker(r *Router) {
	r.Verification.RequireMarker = true
}

func withGrace(d time.Duration) fixtureOption {
	return func(r *Router) { r.Grace = d }
}

func withLoginURL(u string) fixtureOption {
	return func(r *Router) { r.LoginURL = u }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	be := newBackend(t)

	db, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	sealer, err := cryptox.NewSealer([]byte("http-test-secret-material"), "session id")
	require.NoError(t, err)

	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	key, err := cryptox.ParseEd25519Key(pemBytes)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test", key)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierEdDSA("test", signer.PublicKey(), testIssuer, testAudience)

	client := mbsdk.NewClient(be.srv.URL)
	client.RetryInterval = time.Millisecond

	sessions := session.NewStore(db, sealer, time.Hour)
	g := gate.New(gate.Config{
		Exchanger: client,
		Sessions:  sessions,
		Consumed:  db.ConsumedTokens(),
		Timeout:   2 * time.Second,
	})
	t.Cleanup(g.Close)

	views, err := NewViews()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(httpx.TabConfig{
		Signer:   signer,
		Verifier: verifier,
		Issuer:   testIssuer,
		Audience: testAudience,
	}, "test", db, views, logger)

	router.Sessions = sessions
	router.Verification = &service.VerificationService{
		Gate:     g,
		Sessions: sessions,
		TokenKey: "loginToken",
		Marker:   "MBAPP",
	}
	router.Catalog = service.NewCatalogService(client, time.Minute)
	router.Payments = &service.PaymentService{
		Backend:  client,
		Sessions: sessions,
		Store:    db,
		Port:     bridge.WebviewPort{},
	}
	router.LoginURL = "/login"
	router.Grace = time.Second

	for _, opt := range opts {
		opt(router)
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &fixture{
		srv:      srv,
		backend:  be,
		sessions: sessions,
		gate:     g,
		verifier: verifier,
	}
}

// tab returns a client with its own tab cookie already set.
func (f *fixture) tab(t *testing.T) *miniappsdk.SDKClient {
	t.Helper()

	c := miniappsdk.NewSDKClient(f.srv.URL)
	_, err := c.GetSession(t.Context())
	require.NoError(t, err)
	return c
}

// tabID reads the tab id out of the client's cookie.
func (f *fixture) tabID(t *testing.T, c *miniappsdk.SDKClient) string {
	t.Helper()

	u, err := url.Parse(f.srv.URL)
	require.NoError(t, err)
	for _, ck := range c.HTTPClient.Jar.Cookies(u) {
		if ck.Name == httpx.DefaultTabCookie {
			claims, err := f.verifier.Verify(ck.Value)
			require.NoError(t, err)
			return claims.TabID()
		}
	}
	t.Fatal("no tab cookie")
	return ""
}

// get fetches a page without following redirects.
func get(t *testing.T, c *miniappsdk.SDKClient, path string) (*http.Response, string) {
	t.Helper()

	resp, err := c.HTTPClient.Get(c.BaseURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func pageURL(format string, args ...any) string {
	return "https://miniapp.example.com" + fmt.Sprintf(format, args...)
}

package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFrom(map[string]string{
		"MINIAPP_BACKEND_URL": "https://backend.example.com",
	})
	require.NoError(t, err)

	require.Equal(t, "https://backend.example.com", cfg.BackendURL)
	require.Equal(t, 20*time.Second, cfg.BackendTimeout)
	require.Equal(t, "token", cfg.TokenField)
	require.Equal(t, []string{"loginToken"}, cfg.TokenAliases)
	require.Equal(t, "loginToken", cfg.TokenKey)
	require.Equal(t, "MBAPP", cfg.ContextMarker)
	require.False(t, cfg.RequireMarker)
	require.Equal(t, "webview", cfg.BridgePort)
	require.Equal(t, 1200*time.Millisecond, cfg.VerifyGrace)
	require.Equal(t, 10*time.Minute, cfg.TransactionTTL)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, 8080, cfg.Port)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFrom(map[string]string{
		"MINIAPP_BACKEND_URL":    "http://localhost:3000",
		"MINIAPP_TOKEN_ALIASES":  "loginToken,mbToken",
		"MINIAPP_REQUIRE_MARKER": "true",
		"MINIAPP_BRIDGE_PORT":    "log",
		"MINIAPP_VERIFY_GRACE":   "0s",
		"PORT":                   "9090",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"loginToken", "mbToken"}, cfg.TokenAliases)
	require.True(t, cfg.RequireMarker)
	require.Equal(t, "log", cfg.BridgePort)
	require.Zero(t, cfg.VerifyGrace)
	require.Equal(t, 9090, cfg.Port)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]map[string]string{
		"missing backend": {},
		"unknown bridge port": {
			"MINIAPP_BACKEND_URL": "http://localhost:3000",
			"MINIAPP_BRIDGE_PORT": "carrier-pigeon",
		},
		"zero exchange timeout": {
			"MINIAPP_BACKEND_URL":      "http://localhost:3000",
			"MINIAPP_EXCHANGE_TIMEOUT": "0s",
		},
		"port out of range": {
			"MINIAPP_BACKEND_URL": "http://localhost:3000",
			"PORT":                "70000",
		},
	}

	for name, environ := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadConfigFrom(environ)
			require.Error(t, err)
		})
	}
}

// TestNewApplication wires the whole service against a file database and
// serves the liveness probe.
func TestNewApplication(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFrom(map[string]string{
		"MINIAPP_BACKEND_URL":    "http://127.0.0.1:1",
		"MINIAPP_DATABASE_FILE":  filepath.Join(t.TempDir(), "miniapp.db"),
		"MINIAPP_SESSION_SECRET": "app-test-secret-material",
		"LOG_LEVEL":              "error",
	})
	require.NoError(t, err)

	application, err := New(cfg)
	require.NoError(t, err)

	application.housekeepingService.Start()
	t.Cleanup(func() { require.NoError(t, application.Shutdown()) })

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Result().Cookies())
}

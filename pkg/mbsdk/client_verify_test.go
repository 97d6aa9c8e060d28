package mbsdk_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"github.com/stretchr/testify/require"
)

// capture records the form of the last exchange request.
type capture struct {
	mu   sync.Mutex
	form url.Values
}

func (c *capture) Form() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// backend returns a test server answering the token exchange with status and body.
func backend(t *testing.T, status int, body string) (*httptest.Server, *capture) {
	t.Helper()

	seen := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, mbsdk.PathVerifyToken, r.URL.Path)
		require.NoError(t, r.ParseForm())

		seen.mu.Lock()
		seen.form = r.PostForm
		seen.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestVerifyTokenShapes(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"root object":       `{"sessionId":"S1","cif":"C1","fullname":"Nguyen Van A"}`,
		"data wrapper":      `{"success":true,"data":{"sessionID":"S1","CIF":"C1","fullName":"Nguyen Van A"}}`,
		"json string":       `"{\"sessionId\":\"S1\",\"cif\":\"C1\",\"name\":\"Nguyen Van A\"}"`,
		"access token":      `{"data":{"accessToken":"S1","customerId":"C1","fullname":"Nguyen Van A"}}`,
		"token and profile": `{"token":"S1","profile":{"cif":"C1","fullname":"Nguyen Van A"}}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := backend(t, http.StatusOK, body)

			info, err := mbsdk.NewClient(srv.URL).VerifyToken(context.Background(), "XYZ")
			require.NoError(t, err)
			require.Equal(t, "S1", info.SessionID)
			require.Equal(t, "C1", info.CIF)
			require.Equal(t, "Nguyen Van A", info.Fullname)
		})
	}
}

func TestVerifyTokenFormFields(t *testing.T) {
	t.Parallel()

	t.Run("default field and alias", func(t *testing.T) {
		srv, seen := backend(t, http.StatusOK, `{"sessionId":"S1"}`)

		_, err := mbsdk.NewClient(srv.URL).VerifyToken(context.Background(), " XYZ ")
		require.NoError(t, err)
		require.Equal(t, "XYZ", seen.Form().Get("token"))
		require.Equal(t, "XYZ", seen.Form().Get("loginToken"))
	})

	t.Run("custom field", func(t *testing.T) {
		srv, seen := backend(t, http.StatusOK, `{"sessionId":"S1"}`)

		client := mbsdk.NewClient(srv.URL)
		client.TokenField = "login_token"
		client.TokenAliases = nil

		_, err := client.VerifyToken(context.Background(), "XYZ")
		require.NoError(t, err)
		require.Equal(t, "XYZ", seen.Form().Get("login_token"))
		require.Empty(t, seen.Form().Get("token"))
	})

	t.Run("empty token makes no call", func(t *testing.T) {
		_, err := mbsdk.NewClient("http://127.0.0.1:1").VerifyToken(context.Background(), "  ")
		require.ErrorIs(t, err, mbsdk.ErrEmptyToken)
	})
}

func TestVerifyTokenFailures(t *testing.T) {
	t.Parallel()

	t.Run("non-2xx is a rejection", func(t *testing.T) {
		srv, _ := backend(t, http.StatusBadRequest, `{"message":"token expired"}`)

		_, err := mbsdk.NewClient(srv.URL).VerifyToken(context.Background(), "XYZ")
		var apiErr *mbsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "token expired", apiErr.Message)
		require.True(t, mbsdk.IsRejected(err))
	})

	t.Run("success false is a rejection", func(t *testing.T) {
		srv, _ := backend(t, http.StatusOK, `{"success":false,"message":"token already used"}`)

		_, err := mbsdk.NewClient(srv.URL).VerifyToken(context.Background(), "XYZ")
		var apiErr *mbsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "token already used", apiErr.Message)
	})

	t.Run("missing session id is unexpected", func(t *testing.T) {
		srv, _ := backend(t, http.StatusOK, `{"success":true,"data":{"cif":"C1"}}`)

		_, err := mbsdk.NewClient(srv.URL).VerifyToken(context.Background(), "XYZ")
		require.ErrorIs(t, err, mbsdk.ErrUnexpectedResponse)
		require.False(t, mbsdk.IsRejected(err))
	})

	t.Run("non-json body is unexpected", func(t *testing.T) {
		srv, _ := backend(t, http.StatusOK, `<html>gateway</html>`)

		_, err := mbsdk.NewClient(srv.URL).VerifyToken(context.Background(), "XYZ")
		require.ErrorIs(t, err, mbsdk.ErrUnexpectedResponse)
	})

	t.Run("unreachable backend is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := mbsdk.NewClient(srv.URL).VerifyToken(context.Background(), "XYZ")
		require.ErrorIs(t, err, mbsdk.ErrNetwork)
	})

	t.Run("timeout is a network error", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		client := mbsdk.NewClient(srv.URL)
		client.HTTPClient.Timeout = 50 * time.Millisecond

		_, err := client.VerifyToken(context.Background(), "XYZ")
		require.ErrorIs(t, err, mbsdk.ErrNetwork)
	})

	t.Run("cancellation is preserved", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		_, err := mbsdk.NewClient(srv.URL).VerifyToken(ctx, "XYZ")
		require.True(t, errors.Is(err, context.Canceled))
	})
}

package http

import (
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/gate"
	"github.com/stretchr/testify/require"
)

func TestGuardQueryToken(t *testing.T) {
	t.Parallel()

	t.Run("accepted token redirects to the clean URL", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		c := f.tab(t)

		resp, _ := get(t, c, "/instruction?loginToken=XYZ&lang=vi")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/instruction?lang=vi", resp.Header.Get("Location"))

		resp, _ = get(t, c, "/instruction?lang=vi")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("rejected token redirects to login with the reason", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		c := f.tab(t)

		resp, _ := get(t, c, "/instruction?loginToken=expired")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		loc, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		require.Equal(t, requireLoginPath, loc.Path)
		require.Equal(t, "/instruction", loc.Query().Get("next"))
		require.Equal(t, string(domain.ReasonRejected), loc.Query().Get("reason"))
	})

	t.Run("slow exchange renders the verifying page", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, withGrace(50*time.Millisecond))
		c := f.tab(t)

		resp, body := get(t, c, "/instruction?loginToken=slow-guard")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, `data-verify="1"`)
		close(f.backend.release)
	})

	t.Run("superseded token waits for the newer exchange", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, withGrace(3*time.Second))
		c := f.tab(t)
		tabID := f.tabID(t, c)

		type result struct {
			resp *http.Response
			body string
			err  error
		}
		fetch := func(path string) <-chan result {
			ch := make(chan result, 1)
			go func() {
				resp, err := c.HTTPClient.Get(c.BaseURL + path)
				if err != nil {
					ch <- result{err: err}
					return
				}
				defer resp.Body.Close()
				body, err := io.ReadAll(resp.Body)
				ch <- result{resp: resp, body: string(body), err: err}
			}()
			return ch
		}

		first := fetch("/instruction?loginToken=slow-T1")
		require.Eventually(t, func() bool {
			return f.gate.State(tabID) == gate.StateInFlight
		}, 2*time.Second, 5*time.Millisecond)

		second := fetch("/instruction?loginToken=slow-T2")

		res := <-first
		require.NoError(t, res.err)
		require.Equal(t, http.StatusOK, res.resp.StatusCode)
		require.Contains(t, res.body, `data-listen="1"`)
		require.Contains(t, res.body, `data-next="/instruction"`)

		close(f.backend.release)

		res = <-second
		require.NoError(t, res.err)
		require.Equal(t, http.StatusSeeOther, res.resp.StatusCode)
		require.Equal(t, "/instruction", res.resp.Header.Get("Location"))

		sess, ok, err := f.sessions.Get(t.Context(), tabID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "S-slow-T2", sess.SessionID)
	})
}

func TestGuardWithoutToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	c := f.tab(t)

	resp, _ := get(t, c, "/payment?packageId="+testPackageID)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, requireLoginPath, loc.Path)
	require.Equal(t, "/payment?packageId="+testPackageID, loc.Query().Get("next"))
	require.Empty(t, loc.Query().Get("reason"))
}

// TestGuardRequiresMarker leaves marker checks to the page, which is the only
// side that sees the fragment.
func TestGuardRequiresMarker(t *testing.T) {
	t.Parallel()
	f := newFixture(t, withRequireMarker)
	c := f.tab(t)

	resp, body := get(t, c, "/instruction?loginToken=XYZ")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `data-verify="1"`)
	require.Empty(t, f.backend.verifyCalls())
}

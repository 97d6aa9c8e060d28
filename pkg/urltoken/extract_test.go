package urltoken_test

import (
	"net/url"
	"testing"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/urltoken"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := urltoken.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestExtractSupportedShapes(t *testing.T) {
	t.Parallel()

	shapes := map[string]string{
		"query":          "https://host/app?loginToken=T123",
		"flat fragment":  "https://host/app#loginToken=T123&lang=vi",
		"embedded query": "https://host/app#MBAPP?loginToken=T123&lang=vi",
	}

	for name, raw := range shapes {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, "T123", urltoken.Extract(mustParse(t, raw)))
		})
	}
}

func TestExtractAbsent(t *testing.T) {
	t.Parallel()

	require.Empty(t, urltoken.Extract(mustParse(t, "https://host/app?packageId=1#MBAPP")))
	require.Empty(t, urltoken.Extract(mustParse(t, "https://host/app")))
	require.Empty(t, urltoken.Extract(nil))

	// Whitespace only is the same as no token at all.
	require.Empty(t, urltoken.Extract(mustParse(t, "https://host/app?loginToken=+++")))
	require.False(t, urltoken.HasIncoming(mustParse(t, "https://host/app?loginToken=%20")))
}

func TestExtractOrdering(t *testing.T) {
	t.Parallel()

	t.Run("query wins over fragment", func(t *testing.T) {
		u := mustParse(t, "https://host/app?loginToken=Q#loginToken=F")
		require.Equal(t, "Q", urltoken.Extract(u))
	})

	t.Run("blank query falls through to fragment", func(t *testing.T) {
		u := mustParse(t, "https://host/app?loginToken=%20#loginToken=F")
		require.Equal(t, "F", urltoken.Extract(u))
	})

	t.Run("values are trimmed", func(t *testing.T) {
		u := mustParse(t, "https://host/app?loginToken=%20T1%20")
		require.Equal(t, "T1", urltoken.Extract(u))
	})
}

func TestExtractSteps(t *testing.T) {
	t.Parallel()

	t.Run("fragment query skips route-like fragments", func(t *testing.T) {
		u := mustParse(t, "https://host/app#/mbapp?loginToken=T")
		require.Empty(t, urltoken.FromFragmentQuery(u, urltoken.Key))
		require.Equal(t, "T", urltoken.FromEmbeddedQuery(u, urltoken.Key))
	})

	t.Run("embedded query needs a question mark", func(t *testing.T) {
		u := mustParse(t, "https://host/app#loginToken=T")
		require.Empty(t, urltoken.FromEmbeddedQuery(u, urltoken.Key))
	})

	t.Run("pattern fallback is case-insensitive and decodes", func(t *testing.T) {
		u := mustParse(t, "https://host/app#/route/x&LOGINTOKEN=abc%2Bd")
		require.Empty(t, urltoken.FromFragmentQuery(u, urltoken.Key))
		require.Empty(t, urltoken.FromEmbeddedQuery(u, urltoken.Key))
		require.Equal(t, "abc+d", urltoken.FromFragmentPattern(u, urltoken.Key))
		require.Equal(t, "abc+d", urltoken.Extract(u))
	})

	t.Run("broken escapes are kept literally", func(t *testing.T) {
		u := mustParse(t, "https://host/app#x&loginToken=%ZZ")
		require.Equal(t, "%ZZ", urltoken.Extract(u))
	})

	t.Run("custom key", func(t *testing.T) {
		u := mustParse(t, "https://host/app?token=abc")
		require.Equal(t, "abc", urltoken.ExtractKey(u, "token"))
		require.Empty(t, urltoken.Extract(u))
	})
}

func TestHasMarker(t *testing.T) {
	t.Parallel()

	require.True(t, urltoken.HasMarker(mustParse(t, "https://host/app?loginToken=x#mbapp"), "MBAPP"))
	require.True(t, urltoken.HasMarker(mustParse(t, "https://host/app#MBAPP?loginToken=x"), "MBAPP"))
	require.True(t, urltoken.HasMarker(mustParse(t, "https://host/app#/MBAPP"), "MBAPP"))
	require.False(t, urltoken.HasMarker(mustParse(t, "https://host/app#other"), "MBAPP"))
	require.False(t, urltoken.HasMarker(mustParse(t, "https://host/app#MBAPP"), ""))
	require.Equal(t, "MBAPP", urltoken.Route(mustParse(t, "https://host/app#MBAPP?loginToken=x")))
}

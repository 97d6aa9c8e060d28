package urltoken

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
)

// Key is the parameter name the host banking app uses for the one-time login token.
const Key = "loginToken"

// Step looks for the token under key in one shape of the URL. It returns the
// trimmed value, or "" when this shape does not carry a token.
type Step func(u *url.URL, key string) string

// Pipeline is the ordered list of extraction steps. The first non-empty result wins.
var Pipeline = []Step{
	FromQuery,
	FromFragmentQuery,
	FromEmbeddedQuery,
	FromFragmentPattern,
}

// Extract returns the login token carried by u, or "" if there is none.
func Extract(u *url.URL) string {
	return ExtractKey(u, Key)
}

// ExtractKey is Extract with a custom parameter name.
func ExtractKey(u *url.URL, key string) string {
	if u == nil || key == "" {
		return ""
	}

	for _, step := range Pipeline {
		if v := step(u, key); v != "" {
			return v
		}
	}
	return ""
}

// Parse is url.Parse tolerant of broken percent-escapes in the fragment, which
// webviews pass through untouched. Such a fragment is kept literally.
func Parse(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err == nil {
		return u, nil
	}

	head, frag, ok := strings.Cut(raw, "#")
	if !ok {
		return nil, err
	}
	u, herr := url.Parse(head)
	if herr != nil {
		return nil, err
	}
	u.Fragment = frag
	u.RawFragment = frag
	return u, nil
}

// HasIncoming reports whether the navigation to u carries a login token.
func HasIncoming(u *url.URL) bool {
	return Extract(u) != ""
}

// FromQuery reads the token from the regular query string.
func FromQuery(u *url.URL, key string) string {
	values, _ := url.ParseQuery(u.RawQuery)
	return strings.TrimSpace(values.Get(key))
}

// FromFragmentQuery treats the whole fragment as a flat query string
// ("#loginToken=T&x=1"). Fragments that look like a route (contain "/") are skipped.
func FromFragmentQuery(u *url.URL, key string) string {
	frag := rawFragment(u)
	if frag == "" || strings.Contains(frag, "/") || !strings.Contains(frag, key+"=") {
		return ""
	}

	// ParseQuery keeps every well-formed pair even when another pair is broken.
	values, _ := url.ParseQuery(frag)
	return strings.TrimSpace(values.Get(key))
}

// FromEmbeddedQuery reads the token from the query string embedded after the
// first "?" of the fragment ("#MBAPP?loginToken=T").
func FromEmbeddedQuery(u *url.URL, key string) string {
	_, query, ok := strings.Cut(rawFragment(u), "?")
	if !ok {
		return ""
	}

	values, _ := url.ParseQuery(query)
	return strings.TrimSpace(values.Get(key))
}

// FromFragmentPattern is the permissive fallback: it matches key=value anywhere
// in the fragment, case-insensitively, and percent-decodes the capture. A capture
// that fails to decode is returned as-is.
func FromFragmentPattern(u *url.URL, key string) string {
	frag := rawFragment(u)
	if frag == "" {
		return ""
	}

	m := patternFor(key).FindStringSubmatch(frag)
	if m == nil {
		return ""
	}

	raw := m[1]
	if decoded, err := url.PathUnescape(raw); err == nil {
		return strings.TrimSpace(decoded)
	}
	return strings.TrimSpace(raw)
}

// Route returns the route segment of the fragment: the text before an embedded
// query string, without surrounding slashes ("#/MBAPP?x=1" gives "MBAPP").
func Route(u *url.URL) string {
	if u == nil {
		return ""
	}
	route, _, _ := strings.Cut(u.Fragment, "?")
	return strings.Trim(strings.TrimSpace(route), "/")
}

// HasMarker reports whether the fragment route equals marker, ignoring case.
func HasMarker(u *url.URL, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.EqualFold(Route(u), marker)
}

// rawFragment returns the fragment in its escaped form so that query parsing
// decodes every value exactly once. A literal fragment is returned as is.
func rawFragment(u *url.URL) string {
	if u.Fragment == "" {
		return ""
	}
	if literalFragment(u) {
		return u.RawFragment
	}
	return u.EscapedFragment()
}

// literalFragment reports whether u carries a fragment with broken escapes
// that Parse kept as received.
func literalFragment(u *url.URL) bool {
	if u.RawFragment == "" || u.RawFragment != u.Fragment {
		return false
	}
	_, err := url.PathUnescape(u.RawFragment)
	return err != nil
}

var patterns sync.Map // map[string]*regexp.Regexp

func patternFor(key string) *regexp.Regexp {
	if re, ok := patterns.Load(key); ok {
		return re.(*regexp.Regexp)
	}

	re := regexp.MustCompile(`(?i)(?:^|[?&#])` + regexp.QuoteMeta(key) + `=([^&#]+)`)
	actual, _ := patterns.LoadOrStore(key, re)
	return actual.(*regexp.Regexp)
}

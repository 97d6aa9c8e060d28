package urltoken

import (
	"net/url"
	"strings"
)

// Strip returns a copy of u with the login token removed from the query string
// and from the fragment. Every other parameter keeps its position and encoding.
// An empty query or fragment is dropped together with its "?" or "#".
func Strip(u *url.URL) *url.URL {
	return StripKey(u, Key)
}

// StripKey is Strip with a custom parameter name.
func StripKey(u *url.URL, key string) *url.URL {
	if u == nil {
		return nil
	}

	out := *u
	out.RawQuery = removeKey(u.RawQuery, key, false)
	out.ForceQuery = false
	setRawFragment(&out, stripFragment(rawFragment(u), key))
	return &out
}

// StripString parses raw, strips the token and returns the result as a string.
func StripString(raw string) (string, error) {
	u, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return String(Strip(u)), nil
}

// String is url.URL.String except that a literal fragment kept by Parse is
// written back unchanged instead of being escaped again.
func String(u *url.URL) string {
	if !literalFragment(u) {
		return u.String()
	}
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	return c.String() + "#" + u.RawFragment
}

func stripFragment(frag, key string) string {
	if frag == "" {
		return ""
	}

	prefix, query, ok := strings.Cut(frag, "?")
	if ok {
		query = removeKey(query, key, true)
		if query == "" {
			return prefix
		}
		return prefix + "?" + query
	}

	// A fragment without "?" is only rewritten when it is itself a key=value list.
	return removeKey(frag, key, true)
}

// removeKey drops every pair of a raw query string whose decoded name is key.
// Fragment keys are matched ignoring case, like FromFragmentPattern does.
func removeKey(raw, key string, fold bool) string {
	if raw == "" {
		return ""
	}

	pairs := strings.Split(raw, "&")
	kept := pairs[:0]
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		name, _, _ := strings.Cut(pair, "=")
		if decoded, err := url.QueryUnescape(name); err == nil {
			name = decoded
		}
		if name == key || fold && strings.EqualFold(name, key) {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

func setRawFragment(u *url.URL, raw string) {
	if raw == "" {
		u.Fragment = ""
		u.RawFragment = ""
		return
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	u.Fragment = decoded
	u.RawFragment = raw
}

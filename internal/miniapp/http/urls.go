package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/urltoken"
)

const requireLoginPath = "/require-login"

// relativeURL drops scheme and host from u so it can be handed to
// history.replaceState or a Location header on the same origin.
func relativeURL(u *url.URL) string {
	if u == nil {
		return "/"
	}

	c := *u
	c.Scheme = ""
	c.Opaque = ""
	c.User = nil
	c.Host = ""
	if c.Path == "" {
		c.Path = "/"
		c.RawPath = ""
	}
	return urltoken.String(&c)
}

// safeNext accepts only same-origin absolute paths.
func safeNext(next string) string {
	switch {
	case next == "",
		!strings.HasPrefix(next, "/"),
		strings.HasPrefix(next, "//"),
		strings.HasPrefix(next, "/\\"):
		return "/"
	default:
		return next
	}
}

// requireLoginURL is the login-required view resuming next.
func requireLoginURL(next string, reason domain.FailureReason) string {
	v := url.Values{"next": {safeNext(next)}}
	if reason != domain.ReasonNone {
		v.Set("reason", string(reason))
	}
	return requireLoginPath + "?" + v.Encode()
}

// resolveLoginURL turns the configured login entry point into a URL the
// browser can follow. Placeholders are treated as unset.
func resolveLoginURL(r *http.Request, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "<") {
		return ""
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}

	base := &url.URL{Scheme: "http", Host: r.Host, Path: "/"}
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		base.Scheme = "https"
	}
	return base.ResolveReference(ref).String()
}

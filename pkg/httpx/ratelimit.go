package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// Profiles used by the router. The app may override them from configuration.
var (
	// VerifyLimit guards token submission; a tab submits a handful of tokens
	// at most, anything more is a script.
	VerifyLimit = RateLimitConfig{RequestsPerWindow: 30, Window: time.Minute, Burst: 10}

	// PaymentLimit guards transaction creation per tab.
	PaymentLimit = RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 5}

	// APILimit covers the remaining JSON endpoints.
	APILimit = RateLimitConfig{RequestsPerWindow: 120, Window: time.Minute, Burst: 60}

	// PageLimit covers page renders and static assets.
	PageLimit = RateLimitConfig{RequestsPerWindow: 600, Window: time.Minute, Burst: 200}
)

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address from the request.
// It handles X-Forwarded-For and X-Real-IP headers for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// TabKeyExtractor keys on the tab id set by TabMiddleware.
func TabKeyExtractor(r *http.Request) string {
	return TabFromContext(r.Context())
}

// CompositeKeyExtractor combines multiple key extractors with a separator,
// skipping empty parts.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// Limiter holds one token bucket per key.
type Limiter struct {
	cfg   RateLimitConfig
	limit rate.Limit

	limiters sync.Map // map[string]*rate.Limiter

	mu          sync.Mutex
	lastCleanup time.Time
}

// NewLimiter creates a Limiter for cfg.
func NewLimiter(cfg RateLimitConfig) *Limiter {
	return &Limiter{
		cfg:         cfg,
		limit:       rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		lastCleanup: time.Now(),
	}
}

// Allow consumes a token for key. When the bucket is empty it reports how
// long until the next token.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	limiter := l.get(key)
	if limiter.Allow() {
		return true, 0
	}

	res := limiter.Reserve()
	delay := res.Delay()
	res.Cancel()
	return false, delay
}

func (l *Limiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	v, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.limit, l.cfg.Burst))
	l.maybeCleanup()
	return v.(*rate.Limiter)
}

// maybeCleanup drops idle buckets at most every five minutes. A bucket that
// is full again has been idle.
func (l *Limiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) < 5*time.Minute {
		return
	}
	l.lastCleanup = time.Now()

	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(l.cfg.Burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware creates a rate limiting middleware with the given
// configuration. Requests without a key pass through.
func RateLimitMiddleware(cfg RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	limiter := NewLimiter(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			ok, delay := limiter.Allow(key)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(delay.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			log.Warn("rate limit exceeded", "endpoint", r.URL.Path, "retry_after", retryAfter)
			WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests. Please try again later.")
		})
	}
}

// RateLimitByIP limits by client IP only.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor)
}

// RateLimitByTab limits by tab, falling back to the client IP when the
// request carries no tab.
func RateLimitByTab(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, func(r *http.Request) string {
		if tab := TabKeyExtractor(r); tab != "" {
			return "tab:" + tab
		}
		return "ip:" + IPKeyExtractor(r)
	})
}

package mbsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
)

const maxBodySize = 1 << 20

var formHeaders = map[string]string{
	"Content-Type": "application/x-www-form-urlencoded",
	"Accept":       "application/json",
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request and reads the whole body. Transport
// failures are wrapped with ErrNetwork and keep the original cause, so a
// cancelled context still matches context.Canceled.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return 0, nil, fmt.Errorf("mbsdk: failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}

	return resp.StatusCode, data, nil
}

// postForm sends a form-encoded POST once and returns the body of a 2xx answer.
func (c *Client) postForm(ctx context.Context, path string, form string) ([]byte, error) {
	status, body, err := c.doRequest(ctx, http.MethodPost, path, strings.NewReader(form), formHeaders)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, newAPIError(status, body)
	}
	return body, nil
}

// getWithRetry performs an idempotent GET, retrying network errors and 5xx
// answers with exponential backoff. Client errors are returned immediately.
func (c *Client) getWithRetry(ctx context.Context, path string) ([]byte, error) {
	var out []byte

	op := func() error {
		status, body, err := c.doRequest(ctx, http.MethodGet, path, nil, map[string]string{
			"Accept": "application/json",
		})
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if status >= 500 {
			return newAPIError(status, body)
		}
		if status < 200 || status >= 300 {
			return backoff.Permanent(newAPIError(status, body))
		}
		out = body
		return nil
	}

	if err := backoff.Retry(op, c.retryPolicy(ctx)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.RetryInterval > 0 {
		b.InitialInterval = c.RetryInterval
	}
	b.MaxElapsedTime = DefaultTimeout

	retries := max(c.Retries, 0)
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// decodeDocument parses a response body. Some backend builds double-encode the
// payload as a JSON string; that inner document is unwrapped.
func decodeDocument(body []byte) gjson.Result {
	return unwrapString(gjson.ParseBytes(body))
}

func unwrapString(r gjson.Result) gjson.Result {
	if r.Type == gjson.String && gjson.Valid(r.Str) {
		return gjson.Parse(r.Str)
	}
	return r
}

// firstString returns the first non-blank value found under paths.
func firstString(r gjson.Result, paths ...string) string {
	if !r.Exists() {
		return ""
	}
	for _, p := range paths {
		v := r.Get(p)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

// isFalse reports whether a success flag explicitly says no.
func isFalse(v gjson.Result) bool {
	switch v.Type {
	case gjson.False:
		return true
	case gjson.String:
		return strings.EqualFold(strings.TrimSpace(v.Str), "false")
	default:
		return false
	}
}

// rejection returns an APIError when the body carries success:false at the
// root or under the data wrapper.
func rejection(status int, doc gjson.Result) *APIError {
	if isFalse(doc.Get("success")) || isFalse(unwrapString(doc.Get("data")).Get("success")) {
		return &APIError{StatusCode: status, Message: messageOf(doc)}
	}
	return nil
}

// payload returns the data wrapper when it holds an object, otherwise the root.
func payload(doc gjson.Result) gjson.Result {
	if data := unwrapString(doc.Get("data")); data.IsObject() {
		return data
	}
	return doc
}

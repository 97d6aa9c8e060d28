package mbsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	sessionIDKeys = []string{"sessionId", "sessionID", "accessToken", "token"}
	cifKeys       = []string{"cif", "CIF", "customerId", "profile.cif", "profile.CIF"}
	fullnameKeys  = []string{"fullname", "fullName", "name", "profile.fullname", "profile.fullName", "profile.name"}
)

// VerifyToken exchanges a one-time login token for a backend session.
// The call is made exactly once; callers own any deduplication.
func (c *Client) VerifyToken(ctx context.Context, token string) (*SessionInfo, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}

	field := c.tokenField()
	form := url.Values{field: {token}}
	for _, alias := range c.TokenAliases {
		if alias != "" && alias != field {
			form.Set(alias, token)
		}
	}

	status, body, err := c.doRequest(ctx, http.MethodPost, PathVerifyToken, strings.NewReader(form.Encode()), formHeaders)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, newAPIError(status, body)
	}

	return parseSession(status, body)
}

// parseSession normalizes the exchange answer. The session may sit at the root
// or under "data", and cif/fullname may be nested in a "profile" object.
func parseSession(status int, body []byte) (*SessionInfo, error) {
	doc := decodeDocument(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrUnexpectedResponse)
	}

	if apiErr := rejection(status, doc); apiErr != nil {
		return nil, apiErr
	}

	for _, obj := range []gjson.Result{unwrapString(doc.Get("data")), doc} {
		if !obj.IsObject() {
			continue
		}

		sid := firstString(obj, sessionIDKeys...)
		if sid == "" {
			continue
		}

		return &SessionInfo{
			SessionID: sid,
			CIF:       firstString(obj, cifKeys...),
			Fullname:  firstString(obj, fullnameKeys...),
			Extra:     extraFields(obj),
		}, nil
	}

	return nil, fmt.Errorf("%w: no session id in response", ErrUnexpectedResponse)
}

// extraFields returns the remaining top-level fields, without credentials.
func extraFields(obj gjson.Result) map[string]any {
	m, ok := obj.Value().(map[string]any)
	if !ok {
		return nil
	}
	for _, k := range sessionIDKeys {
		delete(m, k)
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

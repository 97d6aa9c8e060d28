package miniappsdk

import (
	"context"
	"net/http"
)

// Verify hands the full page URL to the server, which exchanges its login
// token for a session. A wrong-context answer is returned as a response, not
// an error.
func (c *SDKClient) Verify(ctx context.Context, pageURL string) (*VerifyResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/session/verify",
		jsonBody(VerifyRequest{URL: pageURL}),
		map[string]string{"Content-Type": "application/json", "Accept": "application/json"},
	)
	if err != nil {
		return nil, err
	}

	expected := http.StatusOK
	if resp.StatusCode == http.StatusForbidden {
		expected = http.StatusForbidden
	}

	var out VerifyResponse
	if err := decodeJSON(resp, &out, expected); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession returns the session state of the tab.
func (c *SDKClient) GetSession(ctx context.Context) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/session", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the tab's session.
func (c *SDKClient) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/session/logout", nil, nil, http.StatusNoContent)
}

package miniappsdk

import (
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// SDKClient is a client for the mini-app API. Each client is one tab.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client with its own cookie jar.
func NewSDKClient(baseURL string) *SDKClient {
	jar, _ := cookiejar.New(nil)
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
			// Page redirects are answers, not something to follow.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// NewTab returns a client for a fresh tab on the same server.
func (c *SDKClient) NewTab() *SDKClient {
	tab := NewSDKClient(c.BaseURL)
	tab.HTTPClient.Timeout = c.HTTPClient.Timeout
	tab.HTTPClient.Transport = c.HTTPClient.Transport
	return tab
}

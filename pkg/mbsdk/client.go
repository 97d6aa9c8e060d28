package mbsdk

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds every backend call, including the token exchange.
	DefaultTimeout = 20 * time.Second

	// DefaultTokenField is the form field the login token is posted under.
	DefaultTokenField = "token"

	// DefaultRetries is the number of extra attempts for idempotent reads.
	DefaultRetries = 2
)

// Backend endpoints.
const (
	PathVerifyToken    = "/api/v1/mb/verify-token"
	PathTransactions   = "/api/v1/mb/transactions"
	PathPackagesByType = "/api/v1/package/get-by-type"
)

// Client talks to the mini-app backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// TokenField is the primary form field for the login token.
	TokenField string

	// TokenAliases are extra form fields that receive the same token value.
	TokenAliases []string

	// Retries and RetryInterval tune the backoff used for idempotent reads.
	Retries       int
	RetryInterval time.Duration
}

// NewClient creates a backend client with the default timeout and field names.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		TokenField:    DefaultTokenField,
		TokenAliases:  []string{"loginToken"},
		Retries:       DefaultRetries,
		RetryInterval: 200 * time.Millisecond,
	}
}

func (c *Client) tokenField() string {
	if c.TokenField == "" {
		return DefaultTokenField
	}
	return c.TokenField
}

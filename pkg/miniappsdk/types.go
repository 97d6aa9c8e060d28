package miniappsdk

import "encoding/json"

// Verification statuses.
const (
	StatusVerified     = "verified"
	StatusFailed       = "failed"
	StatusPending      = "pending"
	StatusNoToken      = "no_token"
	StatusWrongContext = "wrong_context"
	StatusCancelled    = "cancelled"
)

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// ============================================================================
// Session Types
// ============================================================================

// VerifyRequest carries the full URL of the page, fragment included.
type VerifyRequest struct {
	URL string `json:"url" example:"https://miniapp.example.com/#MBAPP?loginToken=abc"`
}

// VerifyResponse tells the page what became of its login token.
type VerifyResponse struct {
	// Status is one of verified, failed, pending, no_token, wrong_context
	// or cancelled.
	Status string `json:"status" example:"verified"`

	// CleanURL is the page URL without the login token. Pages apply it with
	// history.replaceState.
	CleanURL string `json:"clean_url"`

	// Redirect is set when the page should navigate elsewhere.
	Redirect string `json:"redirect,omitempty"`

	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty" example:"rejected"`
}

// SessionResponse describes the session of the calling tab.
type SessionResponse struct {
	Verified bool   `json:"verified"`
	State    string `json:"state" example:"verified"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
	CIF      string `json:"cif,omitempty"`
	Fullname string `json:"fullname,omitempty"`
}

// ============================================================================
// Catalog Types
// ============================================================================

// PackageResponse is one entry of the pricing catalog.
type PackageResponse struct {
	ID          string `json:"id" example:"64b7f0c2a1b2c3d4e5f60718"`
	Name        string `json:"name"`
	Price       int64  `json:"price" example:"99000"`
	PriceText   string `json:"price_text" example:"99.000 ₫"`
	Duration    int64  `json:"duration"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// PackagesResponse lists the packages of one type.
type PackagesResponse struct {
	Type     string            `json:"type"`
	Packages []PackageResponse `json:"packages"`
}

// ============================================================================
// Payment Types
// ============================================================================

// CreatePaymentRequest starts a payment for a package.
type CreatePaymentRequest struct {
	PackageID string `json:"package_id" example:"64b7f0c2a1b2c3d4e5f60718"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// PaymentResponse is a backend transaction as the pages show it.
type PaymentResponse struct {
	TransactionID string `json:"transaction_id" example:"AW00R800009L"`
	Amount        int64  `json:"amount" example:"99000"`
	AmountText    string `json:"amount_text" example:"99.000 ₫"`
	Description   string `json:"description"`
	Merchant      string `json:"merchant,omitempty"`
	Status        string `json:"status,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

// HandoffResponse tells the page whether to post Message to the native bridge.
type HandoffResponse struct {
	Port    string          `json:"port" example:"webview"`
	Forward bool            `json:"forward"`
	Message json.RawMessage `json:"message" swaggertype:"object"`
}

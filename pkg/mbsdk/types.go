package mbsdk

// SessionInfo is the identity returned by a successful token exchange.
type SessionInfo struct {
	// SessionID is the opaque credential for later backend calls. Never empty.
	SessionID string `json:"sessionId"`

	// CIF is the bank customer identifier. May be empty on degraded answers.
	CIF string `json:"cif"`

	// Fullname is the display name. May be empty on degraded answers.
	Fullname string `json:"fullname"`

	// Extra keeps every other field the backend sent along.
	Extra map[string]any `json:"extra,omitempty"`
}

// Package is one entry of the pricing catalog.
type Package struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Duration    int64  `json:"duration"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// CreateTransactionRequest is the form posted to start a payment.
type CreateTransactionRequest struct {
	SessionID   string
	CIF         string
	PackageID   string
	Description string
	Email       string
	Phone       string
}

// Merchant identifies the payee of a transaction.
type Merchant struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TransactionType describes how the host app should process a transaction.
type TransactionType struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	AllowCard bool   `json:"allowCard"`
}

// Transaction is a payment transaction as the backend reports it.
type Transaction struct {
	TransactionID  string          `json:"transactionId"`
	Amount         int64           `json:"amount"`
	Merchant       Merchant        `json:"merchant"`
	Type           TransactionType `json:"type"`
	Description    string          `json:"description"`
	SuccessMessage string          `json:"successMessage,omitempty"`
	Status         string          `json:"status,omitempty"`
	PackageName    string          `json:"packageName,omitempty"`
	CreatedAt      string          `json:"createdAt,omitempty"`
}

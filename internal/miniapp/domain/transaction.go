package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	// PaymentMessageType is the message type the host app listens for.
	PaymentMessageType = "PAYMENT_HUB_TRANSACTION"

	MaxTransactionIDLen = 45
	MaxDescriptionLen   = 200

	unknownCode = "UNKNOWN"
)

var (
	ErrInvalidPackageID = errors.New("domain: package id must be a 24-character hex object id")
	ErrMissingIdentity  = errors.New("domain: session id and cif are required to pay")
)

var objectIDPattern = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)

// Merchant identifies the payee.
type Merchant struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TransactionType tells the host app how to process the payment.
type TransactionType struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	AllowCard bool   `json:"allowCard"`
}

// TransactionRecord is a backend-created payment transaction.
type TransactionRecord struct {
	TransactionID  string          `json:"transactionId"`
	Amount         int64           `json:"amount"`
	Merchant       Merchant        `json:"merchant"`
	Type           TransactionType `json:"type"`
	Description    string          `json:"description"`
	SuccessMessage string          `json:"successMessage,omitempty"`
	Status         string          `json:"status,omitempty"`
}

// LastTransaction is the most recent transaction started from a tab.
type LastTransaction struct {
	TabID         string
	TransactionID string
	ExpiresAt     time.Time
	CreatedAt     time.Time
}

// PaymentData is the payload the host app's payment hub expects.
type PaymentData struct {
	Merchant       Merchant        `json:"merchant"`
	Type           TransactionType `json:"type"`
	ID             string          `json:"id"`
	Amount         int64           `json:"amount"`
	Description    string          `json:"description"`
	SuccessMessage string          `json:"successMessage,omitempty"`
}

// PaymentMessage is the envelope posted to the native bridge.
type PaymentMessage struct {
	Type string      `json:"type"`
	Data PaymentData `json:"data"`
}

// NewPaymentMessage builds the bridge message from a transaction, applying the
// host app's limits: unknown codes default to UNKNOWN, the id is capped at 45
// characters, the amount is never negative and the description is capped at 200.
func NewPaymentMessage(rec TransactionRecord) PaymentMessage {
	return PaymentMessage{
		Type: PaymentMessageType,
		Data: PaymentData{
			Merchant: Merchant{
				Code: orUnknown(rec.Merchant.Code),
				Name: orUnknown(rec.Merchant.Name),
			},
			Type: TransactionType{
				Code:      orUnknown(rec.Type.Code),
				Name:      orUnknown(rec.Type.Name),
				AllowCard: rec.Type.AllowCard,
			},
			ID:             Truncate(strings.TrimSpace(rec.TransactionID), MaxTransactionIDLen),
			Amount:         max(rec.Amount, 0),
			Description:    Truncate(rec.Description, MaxDescriptionLen),
			SuccessMessage: rec.SuccessMessage,
		},
	}
}

// ValidatePackageID checks the backend object id format.
func ValidatePackageID(id string) error {
	if !objectIDPattern.MatchString(strings.TrimSpace(id)) {
		return ErrInvalidPackageID
	}
	return nil
}

// PaymentDescription is the transaction description shown in the bank app.
func PaymentDescription(packageID string) string {
	if packageID == "" {
		return "Thanh toán gói dịch vụ"
	}
	return Truncate("Thanh toán gói dịch vụ "+packageID, MaxDescriptionLen)
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unknownCode
	}
	return s
}

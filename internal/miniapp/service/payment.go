package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/bridge"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/session"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/store"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
)

const (
	// DefaultTransactionTTL is how long the last transaction of a tab is kept.
	DefaultTransactionTTL = 10 * time.Minute

	// MinTransactionTTL is the floor applied to configured TTLs.
	MinTransactionTTL = 30 * time.Second
)

var (
	ErrNotVerified   = errors.New("service: tab has no verified session")
	ErrNoTransaction = errors.New("service: no pending transaction for this tab")
)

// PaymentBackend creates and reads payment transactions.
type PaymentBackend interface {
	CreateTransaction(ctx context.Context, req mbsdk.CreateTransactionRequest) (*mbsdk.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*mbsdk.Transaction, error)
}

// InitiateRequest is what the user picked on the payment page.
type InitiateRequest struct {
	PackageID string
	Email     string
	Phone     string
}

// Payment is a transaction ready to be handed to the host app.
type Payment struct {
	Record    domain.TransactionRecord
	Message   domain.PaymentMessage
	ExpiresAt time.Time
}

// PaymentService starts payments for verified tabs and hands them to the
// host app.
type PaymentService struct {
	Backend  PaymentBackend
	Sessions *session.Store
	Store    store.Store
	Port     bridge.Port

	// TTL of the remembered transaction. Values below MinTransactionTTL are
	// raised to it; zero uses DefaultTransactionTTL.
	TTL time.Duration

	Now func() time.Time
}

func (s *PaymentService) ttl() time.Duration {
	if s.TTL == 0 {
		return DefaultTransactionTTL
	}
	return max(s.TTL, MinTransactionTTL)
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Initiate creates a backend transaction for a package and remembers it as
// the tab's last transaction.
func (s *PaymentService) Initiate(ctx context.Context, tabID string, req InitiateRequest) (Payment, error) {
	log := slogx.FromContext(ctx)

	sess, err := s.session(ctx, tabID)
	if err != nil {
		return Payment{}, err
	}

	packageID := strings.TrimSpace(req.PackageID)
	if err := domain.ValidatePackageID(packageID); err != nil {
		return Payment{}, err
	}
	if strings.TrimSpace(sess.SessionID) == "" || strings.TrimSpace(sess.CIF) == "" {
		return Payment{}, domain.ErrMissingIdentity
	}

	txn, err := s.Backend.CreateTransaction(ctx, mbsdk.CreateTransactionRequest{
		SessionID:   sess.SessionID,
		CIF:         sess.CIF,
		PackageID:   packageID,
		Description: domain.PaymentDescription(packageID),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
	})
	if err != nil {
		return Payment{}, fmt.Errorf("create transaction: %w", err)
	}

	rec := toRecord(txn)
	expiresAt := s.now().Add(s.ttl())
	if err := s.Store.Transactions().SetLastTransaction(ctx, domain.LastTransaction{
		TabID:         tabID,
		TransactionID: rec.TransactionID,
		ExpiresAt:     expiresAt,
	}); err != nil {
		return Payment{}, fmt.Errorf("remember transaction: %w", err)
	}

	log.Info("payment initiated", "txn_id", rec.TransactionID, "package_id", packageID, "amount", rec.Amount)
	return Payment{
		Record:    rec,
		Message:   domain.NewPaymentMessage(rec),
		ExpiresAt: expiresAt,
	}, nil
}

// Handoff posts the tab's last transaction to the bridge port. txnID must be
// that transaction.
func (s *PaymentService) Handoff(ctx context.Context, tabID, txnID string) (bridge.Delivery, error) {
	if _, err := s.session(ctx, tabID); err != nil {
		return bridge.Delivery{}, err
	}

	last, err := s.last(ctx, tabID)
	if err != nil {
		return bridge.Delivery{}, err
	}
	if last.TransactionID != strings.TrimSpace(txnID) {
		return bridge.Delivery{}, ErrNoTransaction
	}

	txn, err := s.Backend.GetTransaction(ctx, last.TransactionID)
	if err != nil {
		return bridge.Delivery{}, fmt.Errorf("load transaction: %w", err)
	}

	return s.Port.Post(ctx, tabID, domain.NewPaymentMessage(toRecord(txn)))
}

// LastResult reads the tab's last transaction back from the backend.
func (s *PaymentService) LastResult(ctx context.Context, tabID string) (domain.TransactionRecord, error) {
	last, err := s.last(ctx, tabID)
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	txn, err := s.Backend.GetTransaction(ctx, last.TransactionID)
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("load transaction: %w", err)
	}
	return toRecord(txn), nil
}

// Forget drops the tab's last transaction.
func (s *PaymentService) Forget(ctx context.Context, tabID string) error {
	return s.Store.Transactions().DeleteLastTransaction(ctx, tabID)
}

func (s *PaymentService) session(ctx context.Context, tabID string) (domain.Session, error) {
	sess, ok, err := s.Sessions.Get(ctx, tabID)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{}, ErrNotVerified
	}
	return sess, nil
}

func (s *PaymentService) last(ctx context.Context, tabID string) (domain.LastTransaction, error) {
	last, err := s.Store.Transactions().GetLastTransaction(ctx, tabID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.LastTransaction{}, ErrNoTransaction
	}
	if err != nil {
		return domain.LastTransaction{}, fmt.Errorf("load last transaction: %w", err)
	}
	return last, nil
}

func toRecord(txn *mbsdk.Transaction) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID: txn.TransactionID,
		Amount:        txn.Amount,
		Merchant: domain.Merchant{
			Code: txn.Merchant.Code,
			Name: txn.Merchant.Name,
		},
		Type: domain.TransactionType{
			Code:      txn.Type.Code,
			Name:      txn.Type.Name,
			AllowCard: txn.Type.AllowCard,
		},
		Description:    txn.Description,
		SuccessMessage: txn.SuccessMessage,
		Status:         txn.Status,
	}
}

package store

import (
	"context"
	"errors"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose one sub-repository per table so transactions stay explicit.
type Store interface {
	TabSessions() TabSessions
	ConsumedTokens() ConsumedTokens
	Transactions() Transactions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type TabSessions interface {
	// UpsertTabSession writes the session for a tab, replacing any previous one.
	UpsertTabSession(ctx context.Context, s domain.TabSession) error

	// GetTabSession returns the unexpired session for a tab.
	GetTabSession(ctx context.Context, tabID string) (domain.TabSession, error)

	// DeleteTabSession removes the session for a tab. Missing rows are not an error.
	DeleteTabSession(ctx context.Context, tabID string) error

	// DeleteExpiredTabSessions is housekeeping.
	DeleteExpiredTabSessions(ctx context.Context) (int64, error)
}

type ConsumedTokens interface {
	// MarkConsumed records a token fingerprint for a tab. It reports false when
	// the fingerprint was already recorded.
	MarkConsumed(ctx context.Context, t domain.ConsumedToken) (bool, error)

	// IsConsumed reports whether the fingerprint was submitted from the tab.
	IsConsumed(ctx context.Context, tabID, fingerprint string) (bool, error)

	// DeleteExpiredConsumedTokens is housekeeping.
	DeleteExpiredConsumedTokens(ctx context.Context) (int64, error)
}

type Transactions interface {
	// SetLastTransaction remembers the most recent transaction of a tab.
	SetLastTransaction(ctx context.Context, t domain.LastTransaction) error

	// GetLastTransaction returns the unexpired last transaction of a tab.
	GetLastTransaction(ctx context.Context, tabID string) (domain.LastTransaction, error)

	DeleteLastTransaction(ctx context.Context, tabID string) error

	// DeleteExpiredTransactions is housekeeping.
	DeleteExpiredTransactions(ctx context.Context) (int64, error)
}

package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/gate"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/session"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/store/drivers/sqlite"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/cryptox"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory stand-in for the mini-app backend.
type fakeBackend struct {
	mu       sync.Mutex
	verify   map[string]error
	hold     map[string]chan struct{}
	verified []string
	created  []mbsdk.CreateTransactionRequest
	txns     map[string]*mbsdk.Transaction
	createFn func(req mbsdk.CreateTransactionRequest) (*mbsdk.Transaction, error)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		verify: make(map[string]error),
		hold:   make(map[string]chan struct{}),
		txns:   make(map[string]*mbsdk.Transaction),
	}
}

func (b *fakeBackend) VerifyToken(ctx context.Context, token string) (*mbsdk.SessionInfo, error) {
	b.mu.Lock()
	hold := b.hold[token]
	b.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.verified = append(b.verified, token)
	if err := b.verify[token]; err != nil {
		return nil, err
	}
	return &mbsdk.SessionInfo{SessionID: "sid-" + token, CIF: "CIF-" + token, Fullname: "Nguyen Van A"}, nil
}

func (b *fakeBackend) CreateTransaction(_ context.Context, req mbsdk.CreateTransactionRequest) (*mbsdk.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.created = append(b.created, req)
	if b.createFn != nil {
		return b.createFn(req)
	}

	txn := &mbsdk.Transaction{
		TransactionID: fmt.Sprintf("AW%010d", len(b.created)),
		Amount:        99000,
		Merchant:      mbsdk.Merchant{Code: "JBAAI", Name: "JBA AI"},
		Description:   req.Description,
		Status:        "PENDING",
	}
	b.txns[txn.TransactionID] = txn
	return txn, nil
}

func (b *fakeBackend) GetTransaction(_ context.Context, id string) (*mbsdk.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	txn, ok := b.txns[id]
	if !ok {
		return nil, &mbsdk.APIError{StatusCode: 404, Message: "not found"}
	}
	return txn, nil
}

func (b *fakeBackend) verifyCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.verified...)
}

type fixture struct {
	db       *sqlite.Store
	backend  *fakeBackend
	sessions *session.Store
	gate     *gate.Gate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	sealer, err := cryptox.NewSealer([]byte("service-test-secret-material"), "session id")
	require.NoError(t, err)

	f := &fixture{
		db:       db,
		backend:  newFakeBackend(),
		sessions: session.NewStore(db, sealer, time.Hour),
	}
	f.gate = gate.New(gate.Config{
		Exchanger: f.backend,
		Sessions:  f.sessions,
		Consumed:  db.ConsumedTokens(),
		Timeout:   time.Second,
	})
	t.Cleanup(f.gate.Close)
	return f
}

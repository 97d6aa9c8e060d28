package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/session"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/store/drivers/sqlite"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*session.Store, *sqlite.Store) {
	t.Helper()

	db, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	sealer, err := cryptox.NewSealer([]byte("session-test-secret-material"), "session id")
	require.NoError(t, err)

	return session.NewStore(db, sealer, time.Hour), db
}

func TestSetThenClear(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)
	ctx := context.Background()

	require.False(t, s.IsVerified(ctx, "TAB1"))

	require.NoError(t, s.Set(ctx, "TAB1", domain.Session{SessionID: "s1", CIF: "C1", Fullname: "Nguyen Van A"}))
	require.True(t, s.IsVerified(ctx, "TAB1"))
	require.False(t, s.IsVerified(ctx, "TAB2"), "sessions are tab scoped")

	got, ok, err := s.Get(ctx, "TAB1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "s1", got.SessionID)
	require.Equal(t, "C1", got.CIF)
	require.False(t, got.VerifiedAt.IsZero())

	require.NoError(t, s.Clear(ctx, "TAB1"))
	require.False(t, s.IsVerified(ctx, "TAB1"))

	_, ok, err = s.Get(ctx, "TAB1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetRejectsEmptySessionID(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)
	err := s.Set(context.Background(), "TAB1", domain.Session{CIF: "C1"})
	require.ErrorIs(t, err, domain.ErrInvalidSession)
	require.False(t, s.IsVerified(context.Background(), "TAB1"))
}

func TestSessionIDIsSealedAtRest(t *testing.T) {
	t.Parallel()

	s, db := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "TAB1", domain.Session{SessionID: "SECRET-SID"}))

	rec, err := db.TabSessions().GetTabSession(ctx, "TAB1")
	require.NoError(t, err)
	require.NotContains(t, string(rec.SessionIDEncrypted), "SECRET-SID")

	// A row copied to another tab does not open.
	rec.TabID = "TAB2"
	require.NoError(t, db.TabSessions().UpsertTabSession(ctx, rec))
	_, ok, err := s.Get(ctx, "TAB2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEventsFollowState(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)
	ctx := context.Background()

	events, cancel := s.Subscribe("TAB1")
	defer cancel()
	other, cancelOther := s.Subscribe("TAB2")
	defer cancelOther()

	require.NoError(t, s.Set(ctx, "TAB1", domain.Session{SessionID: "s1"}))
	select {
	case ev := <-events:
		require.Equal(t, session.EventVerified, ev.Type)
		require.True(t, s.IsVerified(ctx, "TAB1"), "state is visible when the event arrives")
	case <-time.After(time.Second):
		t.Fatal("no verified event")
	}

	require.NoError(t, s.Clear(ctx, "TAB1"))
	ev := <-events
	require.Equal(t, session.EventLogout, ev.Type)
	require.False(t, s.IsVerified(ctx, "TAB1"))

	require.Empty(t, other, "other tabs are not notified")
}

func TestSubscribeCancel(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)
	events, cancel := s.Subscribe("TAB1")
	require.Equal(t, 1, s.Subscribers("TAB1"))

	cancel()
	cancel()
	require.Zero(t, s.Subscribers("TAB1"))

	_, open := <-events
	require.False(t, open)

	// Publishing after cancel must not panic.
	require.NoError(t, s.Set(context.Background(), "TAB1", domain.Session{SessionID: "s1"}))
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)
	_, cancel := s.Subscribe("TAB1")
	defer cancel()

	for range 10 {
		require.NoError(t, s.Set(context.Background(), "TAB1", domain.Session{SessionID: "s1"}))
	}
}

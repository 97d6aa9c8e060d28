// Package session keeps the verified session of each tab and tells observers
// when it changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/store"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/cryptox"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
)

// EventType names a session change.
type EventType string

const (
	EventVerified EventType = "verified"
	EventLogout   EventType = "logout"
)

// Event is published after the change it describes is durable.
type Event struct {
	Type  EventType `json:"type"`
	TabID string    `json:"-"`
	At    time.Time `json:"at"`
}

// subscriberBuffer is the number of undelivered events kept per subscriber.
// Events only prompt observers to re-read state, so dropping extras is safe.
const subscriberBuffer = 4

// Store is the tab-scoped session store. It is safe for concurrent use.
type Store struct {
	store  store.Store
	sealer *cryptox.Sealer
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan Event
}

// NewStore creates a Store. ttl bounds how long a session row is kept; the
// tab cookie normally ends the session first.
func NewStore(st store.Store, sealer *cryptox.Sealer, ttl time.Duration) *Store {
	return &Store{
		store:  st,
		sealer: sealer,
		ttl:    ttl,
		now:    time.Now,
		subs:   make(map[string]map[uint64]chan Event),
	}
}

// WithClock replaces the clock. Tests only.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Set stores the session for a tab and then publishes EventVerified.
func (s *Store) Set(ctx context.Context, tabID string, sess domain.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	sealed, err := s.sealer.Seal([]byte(sess.SessionID), []byte(tabID))
	if err != nil {
		return fmt.Errorf("seal session id: %w", err)
	}

	now := s.now()
	if sess.VerifiedAt.IsZero() {
		sess.VerifiedAt = now
	}

	if err := s.store.TabSessions().UpsertTabSession(ctx, domain.TabSession{
		TabID:              tabID,
		SessionIDEncrypted: sealed,
		CIF:                sess.CIF,
		Fullname:           sess.Fullname,
		Extra:              sess.Extra,
		VerifiedAt:         sess.VerifiedAt,
		ExpiresAt:          now.Add(s.ttl),
	}); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	s.publish(ctx, Event{Type: EventVerified, TabID: tabID, At: now})
	return nil
}

// Get returns the session of a tab. The boolean is false when the tab has no
// session.
func (s *Store) Get(ctx context.Context, tabID string) (domain.Session, bool, error) {
	rec, err := s.store.TabSessions().GetTabSession(ctx, tabID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("load session: %w", err)
	}

	sid, err := s.sealer.Open(rec.SessionIDEncrypted, []byte(tabID))
	if err != nil {
		// A row sealed under another secret is as good as absent.
		slogx.FromContext(ctx).Warn("session unreadable, dropping", "err", err)
		_ = s.store.TabSessions().DeleteTabSession(ctx, tabID)
		return domain.Session{}, false, nil
	}

	return domain.Session{
		SessionID:  string(sid),
		CIF:        rec.CIF,
		Fullname:   rec.Fullname,
		Extra:      rec.Extra,
		VerifiedAt: rec.VerifiedAt,
	}, true, nil
}

// IsVerified reports whether the tab holds a session. Storage errors count as
// not verified.
func (s *Store) IsVerified(ctx context.Context, tabID string) bool {
	_, ok, err := s.Get(ctx, tabID)
	if err != nil {
		slogx.FromContext(ctx).Error("session lookup failed", "err", err)
		return false
	}
	return ok
}

// Clear removes the session and the remembered transaction of a tab together,
// then publishes EventLogout.
func (s *Store) Clear(ctx context.Context, tabID string) error {
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.TabSessions().DeleteTabSession(ctx, tabID); err != nil {
			return err
		}
		return tx.Transactions().DeleteLastTransaction(ctx, tabID)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.publish(ctx, Event{Type: EventLogout, TabID: tabID, At: s.now()})
	return nil
}

// Subscribe returns a channel of events for a tab and a function that ends
// the subscription. The channel is closed by the cancel function.
func (s *Store) Subscribe(tabID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if s.subs[tabID] == nil {
		s.subs[tabID] = make(map[uint64]chan Event)
	}
	s.subs[tabID][id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			delete(s.subs[tabID], id)
			if len(s.subs[tabID]) == 0 {
				delete(s.subs, tabID)
			}
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscriptions of a tab.
func (s *Store) Subscribers(tabID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs[tabID])
}

func (s *Store) publish(ctx context.Context, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs[ev.TabID] {
		select {
		case ch <- ev:
		default:
			slogx.FromContext(ctx).Debug("session event dropped, subscriber is behind", "event", ev.Type)
		}
	}
}

// Package gate exchanges login tokens for sessions at most once per token and
// tab, however often the HTTP layer asks.
package gate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/store"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/cryptox"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
)

const (
	// DefaultTimeout bounds a single exchange.
	DefaultTimeout = 20 * time.Second

	// DefaultConsumedTTL is how long a submitted token is remembered.
	DefaultConsumedTTL = 12 * time.Hour
)

// Exchanger trades a login token for a backend session.
type Exchanger interface {
	VerifyToken(ctx context.Context, token string) (*mbsdk.SessionInfo, error)
}

// Sessions is where terminal outcomes are written.
type Sessions interface {
	Set(ctx context.Context, tabID string, s domain.Session) error
	Clear(ctx context.Context, tabID string) error
}

// Config holds the gate's collaborators and limits.
type Config struct {
	Exchanger   Exchanger
	Sessions    Sessions
	Consumed    store.ConsumedTokens
	Timeout     time.Duration
	ConsumedTTL time.Duration
}

// Gate is the per-tab verification state machine.
type Gate struct {
	exchanger   Exchanger
	sessions    Sessions
	consumed    store.ConsumedTokens
	timeout     time.Duration
	consumedTTL time.Duration
	now         func() time.Time

	mu     sync.Mutex
	tabs   map[string]*tab
	closed bool
	wg     sync.WaitGroup
}

// tab is the state of one tab. Its mutex serializes submissions and terminal
// transitions, which is what keeps stale outcomes from being written.
type tab struct {
	mu       sync.Mutex
	state    State
	inflight *attempt
	last     Outcome
	lastFP   string
	touched  time.Time

	// reserved counts submissions between reserve and start. Prune keeps
	// such tabs so their attempt stays reachable.
	reserved int
}

type attempt struct {
	fp     string
	token  string
	cancel context.CancelFunc
	done   chan struct{}
	out    Outcome
}

// New creates a Gate.
func New(cfg Config) *Gate {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ConsumedTTL <= 0 {
		cfg.ConsumedTTL = DefaultConsumedTTL
	}

	return &Gate{
		exchanger:   cfg.Exchanger,
		sessions:    cfg.Sessions,
		consumed:    cfg.Consumed,
		timeout:     cfg.Timeout,
		consumedTTL: cfg.ConsumedTTL,
		now:         time.Now,
		tabs:        make(map[string]*tab),
	}
}

// Timeout is the exchange timeout.
func (g *Gate) Timeout() time.Duration { return g.timeout }

// Submit offers a token seen in a tab's URL. It starts an exchange, joins the
// one already running for the same token, or reports that the token was
// consumed earlier. It waits until the outcome is known or ctx ends; leaving
// early never cancels the exchange.
func (g *Gate) Submit(ctx context.Context, tabID, token string) Outcome {
	token = strings.TrimSpace(token)
	if token == "" {
		return Outcome{Status: StatusNoToken}
	}

	a, out, started := g.start(ctx, tabID, token)
	if a == nil {
		return out
	}
	if !started {
		slogx.FromContext(ctx).Debug("token exchange joined", "fp", cryptox.ShortFingerprint(token))
	}
	return wait(ctx, a)
}

// Wait blocks until the running exchange of a tab ends or ctx ends. Without
// a running exchange it returns the last outcome.
func (g *Gate) Wait(ctx context.Context, tabID string) Outcome {
	t := g.lookup(tabID)
	if t == nil {
		return Outcome{Status: StatusNoToken}
	}

	t.mu.Lock()
	a := t.inflight
	last := t.last
	t.mu.Unlock()

	if a == nil {
		return last
	}
	return wait(ctx, a)
}

// Cancel silently aborts the running exchange of a tab. The session is left
// as it was and no failure is recorded.
func (g *Gate) Cancel(tabID string) {
	t := g.lookup(tabID)
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inflight != nil {
		t.inflight.cancel()
	}
}

// Snapshot returns the state of a tab.
func (g *Gate) Snapshot(tabID string) Snapshot {
	t := g.lookup(tabID)
	if t == nil {
		return Snapshot{State: StateIdle}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{State: t.state, Reason: t.last.Reason}
}

// State returns the gate state of a tab.
func (g *Gate) State(tabID string) State {
	return g.Snapshot(tabID).State
}

// Prune forgets idle tabs not touched since before. Persisted consumed tokens
// keep one-time use intact after a tab is pruned.
func (g *Gate) Prune(before time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for id, t := range g.tabs {
		t.mu.Lock()
		idle := t.inflight == nil && t.reserved == 0 && t.touched.Before(before)
		t.mu.Unlock()
		if idle {
			delete(g.tabs, id)
			n++
		}
	}
	return n
}

// Close cancels running exchanges and waits for them to finish.
func (g *Gate) Close() {
	g.mu.Lock()
	g.closed = true
	for _, t := range g.tabs {
		t.mu.Lock()
		if t.inflight != nil {
			t.inflight.cancel()
		}
		t.mu.Unlock()
	}
	g.mu.Unlock()

	g.wg.Wait()
}

func (g *Gate) lookup(tabID string) *tab {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tabs[tabID]
}

// reserve returns the tab and holds a slot in the wait group for a possible
// exchange. The caller releases it with wg.Done unless it spawns run.
func (g *Gate) reserve(tabID string) (*tab, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, false
	}
	g.wg.Add(1)
	t, ok := g.tabs[tabID]
	if !ok {
		t = &tab{state: StateIdle}
		g.tabs[tabID] = t
	}

	t.mu.Lock()
	t.reserved++
	t.touched = g.now()
	t.mu.Unlock()
	return t, true
}

// start decides what a submission does. It returns the attempt to wait on,
// or an immediate outcome when there is nothing to wait for.
func (g *Gate) start(ctx context.Context, tabID, token string) (*attempt, Outcome, bool) {
	log := slogx.FromContext(ctx)
	fp := cryptox.FingerprintToken(token)

	t, ok := g.reserve(tabID)
	if !ok {
		return nil, Outcome{Status: StatusCancelled}, false
	}
	spawned := false
	defer func() {
		if !spawned {
			g.wg.Done()
		}
	}()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.reserved--
	t.touched = g.now()

	if t.inflight != nil && t.inflight.fp == fp {
		return t.inflight, Outcome{}, false
	}

	inserted, err := g.consumed.MarkConsumed(ctx, domain.ConsumedToken{
		TabID:       tabID,
		Fingerprint: fp,
		ExpiresAt:   g.now().Add(g.consumedTTL),
	})
	if err != nil {
		log.Error("token bookkeeping failed", "err", err)
		return nil, Outcome{Status: StatusFailed, Reason: domain.ReasonConnectivity, Err: err}, false
	}
	if !inserted {
		out := Outcome{Status: StatusConsumed}
		if t.lastFP == fp {
			out.Previous = t.last.Status
			out.Reason = t.last.Reason
		}
		return nil, out, false
	}

	if t.inflight != nil {
		log.Info("token exchange superseded", "fp", t.inflight.fp[:8])
		t.inflight.cancel()
	}

	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	a := &attempt{
		fp:     fp,
		token:  token,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	t.inflight = a
	t.state = StateInFlight

	spawned = true
	go g.run(actx, tabID, t, a)

	log.Info("token exchange started", "fp", fp[:8])
	return a, Outcome{}, true
}

func (g *Gate) run(ctx context.Context, tabID string, t *tab, a *attempt) {
	defer g.wg.Done()
	defer a.cancel()

	log := slogx.FromContext(ctx).With("fp", a.fp[:8])
	info, err := g.exchanger.VerifyToken(ctx, a.token)
	if err == nil && info == nil {
		err = mbsdk.ErrUnexpectedResponse
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	defer close(a.done)

	// Superseded or torn down: nothing is written.
	if t.inflight != a || errors.Is(ctx.Err(), context.Canceled) {
		a.out = Outcome{Status: StatusCancelled}
		if t.inflight == a {
			t.inflight = nil
			t.state = StateIdle
		}
		log.Debug("token exchange cancelled")
		return
	}

	t.inflight = nil
	t.lastFP = a.fp
	t.touched = g.now()

	// Writes outlive the exchange deadline.
	wctx := context.WithoutCancel(ctx)

	if err == nil {
		sess := domain.Session{
			SessionID:  info.SessionID,
			CIF:        info.CIF,
			Fullname:   info.Fullname,
			Extra:      info.Extra,
			VerifiedAt: g.now(),
		}
		serr := g.sessions.Set(wctx, tabID, sess)
		if serr == nil {
			a.out = Outcome{Status: StatusSucceeded, Session: sess}
			t.state = StateSucceeded
			t.last = a.out
			log.Info("token exchange succeeded")
			return
		}
		err = serr
	}

	reason := Classify(err)
	switch reason {
	case domain.ReasonMalformed:
		log.Warn("token exchange failed: malformed backend response", "err", err)
	case domain.ReasonRejected:
		log.Info("token exchange failed: rejected", "err", err)
	default:
		log.Warn("token exchange failed: connectivity", "err", err)
	}

	if cerr := g.sessions.Clear(wctx, tabID); cerr != nil {
		log.Error("clear session after failed exchange", "err", cerr)
	}

	a.out = Outcome{Status: StatusFailed, Reason: reason, Err: err}
	t.state = StateFailed
	t.last = a.out
}

func wait(ctx context.Context, a *attempt) Outcome {
	select {
	case <-a.done:
		return a.out
	case <-ctx.Done():
		return Outcome{Status: StatusPending}
	}
}

// Classify maps an exchange error to a failure reason.
func Classify(err error) domain.FailureReason {
	switch {
	case err == nil:
		return domain.ReasonNone
	case mbsdk.IsRejected(err):
		return domain.ReasonRejected
	case errors.Is(err, mbsdk.ErrUnexpectedResponse), errors.Is(err, domain.ErrInvalidSession):
		return domain.ReasonMalformed
	default:
		return domain.ReasonConnectivity
	}
}

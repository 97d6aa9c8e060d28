package gate

import "github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"

// State is the gate state of a tab.
type State string

const (
	StateIdle      State = "idle"
	StateInFlight  State = "in_flight"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Status is what a submission resolved to.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusConsumed  Status = "consumed"  // token submitted before, no call made
	StatusCancelled Status = "cancelled" // superseded or torn down, nothing written
	StatusPending   Status = "pending"   // caller stopped waiting
	StatusNoToken   Status = "no_token"
)

// Outcome is the result of Submit or Wait.
type Outcome struct {
	Status  Status
	Reason  domain.FailureReason
	Session domain.Session
	Err     error

	// Previous is the status of the earlier exchange when Status is
	// StatusConsumed and the gate still remembers it.
	Previous Status
}

// Snapshot is a read-only view of a tab's gate state.
type Snapshot struct {
	State  State
	Reason domain.FailureReason
}

// Verification maps the gate state to what views show. verified is whether
// the session store currently holds a session.
func (s Snapshot) Verification(verified bool) domain.VerificationState {
	switch {
	case s.State == StateInFlight:
		return domain.StateVerifying
	case verified:
		return domain.StateVerified
	case s.State == StateFailed:
		return domain.StateFailed
	default:
		return domain.StateUnverified
	}
}

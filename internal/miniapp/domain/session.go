package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidSession is returned when a session without a session id is stored.
var ErrInvalidSession = errors.New("domain: session id must not be empty")

// Session is the identity obtained by exchanging a login token. It lives as
// long as the webview tab that produced it.
type Session struct {
	SessionID  string         `json:"-"`   // backend credential, never sent to the browser
	CIF        string         `json:"cif"` // may be empty on degraded backend answers
	Fullname   string         `json:"fullname"`
	Extra      map[string]any `json:"extra,omitempty"`
	VerifiedAt time.Time      `json:"verified_at"`
}

// Validate enforces that a usable session carries a session id.
func (s Session) Validate() error {
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	return nil
}

// TabSession is the stored record behind a tab. The backend session id is
// kept sealed; only the session package opens it.
type TabSession struct {
	TabID              string
	SessionIDEncrypted []byte
	CIF                string
	Fullname           string
	Extra              map[string]any
	VerifiedAt         time.Time
	ExpiresAt          time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ConsumedToken records that a login token was submitted from a tab. Only the
// token fingerprint is kept.
type ConsumedToken struct {
	TabID       string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

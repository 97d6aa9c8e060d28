package service

import (
	"context"
	"net/url"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/gate"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/session"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/cryptox"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/urltoken"
)

// VerifyStatus is the answer to a verification request.
type VerifyStatus string

const (
	VerifyVerified     VerifyStatus = "verified"
	VerifyFailed       VerifyStatus = "failed"
	VerifyPending      VerifyStatus = "pending"
	VerifyNoToken      VerifyStatus = "no_token"
	VerifyWrongContext VerifyStatus = "wrong_context"

	// VerifyCancelled means a newer token or a logout took over the exchange.
	// Callers stay silent and leave the outcome to whoever took over.
	VerifyCancelled VerifyStatus = "cancelled"
)

// VerifyResult describes what happened to the token of a URL.
type VerifyResult struct {
	Status   VerifyStatus
	Reason   domain.FailureReason
	CleanURL *url.URL
	HadToken bool

	// Gate is the raw gate outcome. Zero when no token was submitted.
	Gate gate.Outcome
}

// Message is the text shown to the user for the result.
func (r VerifyResult) Message() string {
	switch r.Status {
	case VerifyVerified, VerifyPending, VerifyCancelled:
		return ""
	case VerifyWrongContext:
		return domain.MsgWrongContext
	default:
		return r.Reason.Message()
	}
}

// VerificationService turns the URL a tab navigated to into a verification
// attempt and tells the caller which URL the tab should show instead.
type VerificationService struct {
	Gate     *gate.Gate
	Sessions *session.Store

	// TokenKey is the URL parameter of the login token. Defaults to loginToken.
	TokenKey string

	// Marker is the route marker expected in the fragment of launch URLs.
	// When RequireMarker is set, a token without it is not exchanged.
	Marker        string
	RequireMarker bool
}

func (s *VerificationService) key() string {
	if s.TokenKey == "" {
		return urltoken.Key
	}
	return s.TokenKey
}

// Token returns the login token carried by u.
func (s *VerificationService) Token(u *url.URL) string {
	return urltoken.ExtractKey(u, s.key())
}

// Clean returns u without its login token.
func (s *VerificationService) Clean(u *url.URL) *url.URL {
	return urltoken.StripKey(u, s.key())
}

// WrongContext reports whether u carries a token but lacks the required marker.
func (s *VerificationService) WrongContext(u *url.URL) bool {
	if !s.RequireMarker || s.Marker == "" {
		return false
	}
	return s.Token(u) != "" && !urltoken.HasMarker(u, s.Marker)
}

// Verify submits the token carried by u for the tab and waits until the
// exchange ends or ctx ends. The tab keeps its session when u has no token.
func (s *VerificationService) Verify(ctx context.Context, tabID string, u *url.URL) VerifyResult {
	res := VerifyResult{CleanURL: s.Clean(u)}

	token := s.Token(u)
	if token == "" {
		res.Status = VerifyNoToken
		if s.Sessions.IsVerified(ctx, tabID) {
			res.Status = VerifyVerified
		}
		return res
	}
	res.HadToken = true

	if s.WrongContext(u) {
		slogx.FromContext(ctx).Warn("login token outside app context",
			"fp", cryptox.ShortFingerprint(token),
			"route", urltoken.Route(u),
		)
		res.Status = VerifyWrongContext
		return res
	}

	out := s.Gate.Submit(ctx, tabID, token)
	res.Gate = out
	return s.resolve(ctx, tabID, res, out)
}

// Await waits for the running exchange of a tab, if any.
func (s *VerificationService) Await(ctx context.Context, tabID string) VerifyResult {
	return s.resolve(ctx, tabID, VerifyResult{}, s.Gate.Wait(ctx, tabID))
}

func (s *VerificationService) resolve(ctx context.Context, tabID string, res VerifyResult, out gate.Outcome) VerifyResult {
	res.Gate = out

	switch out.Status {
	case gate.StatusSucceeded:
		// A logout may have followed the exchange.
		res.Status = VerifyNoToken
		if s.Sessions.IsVerified(ctx, tabID) {
			res.Status = VerifyVerified
		}
	case gate.StatusFailed:
		res.Status = VerifyFailed
		res.Reason = out.Reason
	case gate.StatusPending:
		res.Status = VerifyPending
	case gate.StatusConsumed:
		// The token was handled before. The tab's current session decides,
		// and a remembered failure explains why there is none.
		if s.Sessions.IsVerified(ctx, tabID) {
			res.Status = VerifyVerified
		} else {
			res.Status = VerifyFailed
			res.Reason = out.Reason
		}
	case gate.StatusCancelled:
		res.Status = VerifyCancelled
		if s.Sessions.IsVerified(ctx, tabID) {
			res.Status = VerifyVerified
		}
	default:
		if s.Sessions.IsVerified(ctx, tabID) {
			res.Status = VerifyVerified
		} else {
			res.Status = VerifyNoToken
		}
	}
	return res
}

// State returns the verification state shown in views.
func (s *VerificationService) State(ctx context.Context, tabID string) (domain.VerificationState, domain.FailureReason) {
	snap := s.Gate.Snapshot(tabID)
	return snap.Verification(s.Sessions.IsVerified(ctx, tabID)), snap.Reason
}

// Logout clears the tab's session and aborts a running exchange silently.
func (s *VerificationService) Logout(ctx context.Context, tabID string) error {
	s.Gate.Cancel(tabID)
	return s.Sessions.Clear(ctx, tabID)
}

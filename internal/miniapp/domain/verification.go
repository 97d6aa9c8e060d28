package domain

// VerificationState is the state of a tab as seen by views. It is derived from
// the gate and the session store, never stored.
type VerificationState string

const (
	StateUnverified VerificationState = "unverified"
	StateVerifying  VerificationState = "verifying"
	StateVerified   VerificationState = "verified"
	StateFailed     VerificationState = "failed"
)

// FailureReason classifies a failed token exchange.
type FailureReason string

const (
	ReasonNone         FailureReason = ""
	ReasonConnectivity FailureReason = "connectivity" // network error or timeout
	ReasonRejected     FailureReason = "rejected"     // backend refused the token
	ReasonMalformed    FailureReason = "malformed"    // success-shaped answer without a session id
)

// User-facing messages. The login-required view is the only place they appear.
const (
	MsgLoginRequired  = "Bạn cần đăng nhập để tiếp tục."
	MsgSessionExpired = "Phiên đăng nhập không hợp lệ hoặc đã hết hạn. Vui lòng đăng nhập lại."
	MsgConnectivity   = "Không thể kết nối tới máy chủ. Vui lòng kiểm tra kết nối mạng và thử lại."
	MsgMalformed      = "Máy chủ trả về dữ liệu không hợp lệ. Vui lòng thử lại sau."
	MsgWrongContext   = "Không thể xác thực phiên đăng nhập. Vui lòng mở mini app từ ứng dụng MB Bank."
	MsgCannotPay      = "Vui lòng mở mini app từ ứng dụng MB Bank để đăng nhập rồi thử lại."
)

// Message returns the user-facing text for a failure reason.
func (r FailureReason) Message() string {
	switch r {
	case ReasonConnectivity:
		return MsgConnectivity
	case ReasonRejected:
		return MsgSessionExpired
	case ReasonMalformed:
		return MsgMalformed
	default:
		return MsgLoginRequired
	}
}

// ParseFailureReason maps a query value back to a known reason.
func ParseFailureReason(s string) FailureReason {
	switch FailureReason(s) {
	case ReasonConnectivity, ReasonRejected, ReasonMalformed:
		return FailureReason(s)
	default:
		return ReasonNone
	}
}

package core

import "errors"

// Error codes surfaced to clients through the protocol layer.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotJoined   = "not_joined"
	ErrCodeAuthFailed  = "auth_failed"
	ErrCodeNoTeam      = "no_team"
	ErrCodeUnknownType = "unknown_type"
)

var (
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrSessionNotFound       = errors.New("session not found")

	// Auth failures are distinguished for server-side logs only; clients
	// receive the same generic failure for both.
	ErrUnknownTeam = errors.New("unknown team")
	ErrWrongKey    = errors.New("wrong author key")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

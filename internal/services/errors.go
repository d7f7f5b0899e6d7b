package services

import "errors"

// Sentinel errors the handlers map onto HTTP status codes. Credential
// failures stay uniform between unknown-email and wrong-password so the API
// does not leak which accounts exist.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrAdminOnly          = errors.New("access restricted to admin users only")
	ErrInvalidOTP         = errors.New("invalid or expired otp")

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("not enough permissions")

	ErrSessionEnded    = errors.New("session already ended")
	ErrSessionNotEnded = errors.New("session not ended yet")
	ErrFeedbackExists  = errors.New("feedback already submitted")
)

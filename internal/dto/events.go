package dto

// Kafka event keys consumed by the mail worker.
const (
	EventVerifyEmail   = "user.verify_email"
	EventResetPassword = "user.reset_password"
)

type MailCodeEvent struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Code      string `json:"code"`
	ExpiresAt string `json:"expires_at"`
}

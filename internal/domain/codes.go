package domain

import "time"

// ResetCodeStatus tracks consumption of a password reset code.
type ResetCodeStatus int16

const (
	ResetCodeUnused ResetCodeStatus = 0
	ResetCodeUsed   ResetCodeStatus = 1
)

// PasswordResetCode is a one-time code permitting a password change without the old password.
type PasswordResetCode struct {
	ID       int64
	Code     string
	Email    string
	IssuedAt time.Time
	Status   ResetCodeStatus
	UsedAt   *time.Time
}

// RegistrationCode links a pending member to the code mailed at registration.
type RegistrationCode struct {
	ID             int64
	MemberID       int64
	Code           string
	RegisteredDate time.Time
}

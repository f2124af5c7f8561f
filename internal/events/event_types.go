package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/member-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMemberRegistered       EventType = "member_registered"
	EventMemberActivated        EventType = "member_activated"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordChanged        EventType = "password_changed"
	EventMemberStatusChanged    EventType = "member_status_changed"
	EventMemberEmailChanged     EventType = "member_email_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	MemberID  int64       `json:"member_id"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, memberID int64, email string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		MemberID:  memberID,
		Email:     email,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// MemberRegisteredPayload carries what the confirmation mail needs.
type MemberRegisteredPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Code      string `json:"-"`
}

// PasswordResetRequestedPayload carries what the reset mail needs.
type PasswordResetRequestedPayload struct {
	FirstName string `json:"first_name"`
	Code      string `json:"-"`
}

// PasswordChangedPayload notes whether a reset code authorized the change.
type PasswordChangedPayload struct {
	ViaResetCode bool `json:"via_reset_code"`
}

// MemberStatusChangedPayload payload.
type MemberStatusChangedPayload struct {
	OldStatus domain.MemberStatus `json:"old_status"`
	NewStatus domain.MemberStatus `json:"new_status"`
}

// MemberEmailChangedPayload payload.
type MemberEmailChangedPayload struct {
	OldEmail string `json:"old_email"`
}

package domain

import (
	"strings"
	"time"
)

// MemberStatus represents lifecycle states for a member account.
type MemberStatus int16

const (
	MemberStatusPending     MemberStatus = 1
	MemberStatusActive      MemberStatus = 2
	MemberStatusDeactivated MemberStatus = 3
)

func (s MemberStatus) String() string {
	switch s {
	case MemberStatusPending:
		return "pending"
	case MemberStatusActive:
		return "active"
	case MemberStatusDeactivated:
		return "deactivated"
	default:
		return "unknown"
	}
}

// CanAuthenticate reports whether password login is permitted in this status.
// Deactivated members are still allowed to log in.
func (s MemberStatus) CanAuthenticate() bool {
	return s == MemberStatusActive || s == MemberStatusDeactivated
}

// statusTransitions lists the legal lifecycle moves. The credential store does
// not enforce it; callers consult CanTransition.
var statusTransitions = map[MemberStatus][]MemberStatus{
	MemberStatusPending:     {MemberStatusActive},
	MemberStatusActive:      {MemberStatusDeactivated},
	MemberStatusDeactivated: {MemberStatusActive},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to MemberStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Member is the credential record together with the profile fields returned at login.
type Member struct {
	ID               int64
	Email            string
	Password         string
	Status           MemberStatus
	SecurityQuestion int32
	SecurityAnswer   string
	Profile          Profile
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Profile holds the public member details captured at registration.
type Profile struct {
	FirstName   string
	LastName    string
	Gender      string
	BirthMonth  string
	BirthDay    string
	BirthYear   string
	ProfileType string
	PicturePath string
	Title       string
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Deactivation captures why a member switched their account off.
type Deactivation struct {
	Reason       int32
	Explanation  string
	FutureEmails bool
}

package domain

import "time"

// Token is a signed credential together with its expiry instant.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenPair bundles the short-lived access token and the long-lived refresh token.
type TokenPair struct {
	Access  Token
	Refresh Token
}

// Session is what a successful login or confirmation hands back to the caller.
type Session struct {
	Member *Member
	Tokens TokenPair
}

// RegisterResult distinguishes a fresh registration from a duplicate email.
type RegisterResult string

const (
	RegisterNewEmail      RegisterResult = "NewEmail"
	RegisterExistingEmail RegisterResult = "ExistingEmail"
)

// ResetResult reports whether a reset request matched a known member.
type ResetResult string

const (
	ResetSuccess ResetResult = "success"
	ResetFail    ResetResult = "fail"
)

// Registration carries the fields collected by the sign-up form.
type Registration struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Gender      string
	Month       string
	Day         string
	Year        string
	ProfileType string
}

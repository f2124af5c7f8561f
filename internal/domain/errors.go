package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCode        = errors.New("invalid or expired reset code")
	ErrStorage            = errors.New("storage error")
	ErrForbidden          = errors.New("forbidden")
)

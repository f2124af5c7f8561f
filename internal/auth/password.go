package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// IsBcryptHash reports whether stored looks like a bcrypt hash.
func IsBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// PasswordScheme hashes new passwords with bcrypt and still verifies values
// written by the legacy DES scheme when a legacy cipher is configured.
type PasswordScheme struct {
	cost   int
	legacy *LegacyCipher
}

// NewPasswordScheme builds a scheme. legacy may be nil.
func NewPasswordScheme(cost int, legacy *LegacyCipher) *PasswordScheme {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordScheme{cost: cost, legacy: legacy}
}

// Hash returns the bcrypt hash for plain.
func (p *PasswordScheme) Hash(plain string) (string, error) {
	return HashPassword(plain, p.cost)
}

// Verify compares plain against stored. needsRehash is true when stored was
// written by the legacy scheme and should be replaced by a bcrypt hash.
func (p *PasswordScheme) Verify(stored, plain string) (ok bool, needsRehash bool) {
	if stored == "" {
		return false, false
	}
	if IsBcryptHash(stored) {
		return ComparePassword(stored, plain) == nil, false
	}
	if p.legacy == nil {
		return false, false
	}
	candidate, err := p.legacy.Encrypt(plain)
	if err != nil {
		return false, false
	}
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) != 1 {
		return false, false
	}
	return true, true
}

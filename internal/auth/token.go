package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/member-service/internal/domain"
)

// TokenCodec issues and verifies signed, time-bounded subject tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenCodecOption customizes a TokenCodec.
type TokenCodecOption func(*TokenCodec)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(tc *TokenCodec) {
		if now != nil {
			tc.now = now
		}
	}
}

// NewTokenCodec builds a codec for the given HMAC algorithm (HS256, HS384 or HS512).
func NewTokenCodec(secret, algorithm string, accessTTL, refreshTTL time.Duration, opts ...TokenCodecOption) (*TokenCodec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unsupported signing algorithm: " + algorithm)
	}
	if accessTTL <= 0 {
		accessTTL = 60 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	tc := &TokenCodec{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc, nil
}

// IssueAccessToken signs a short-lived token for subject.
func (tc *TokenCodec) IssueAccessToken(subject string) (domain.Token, error) {
	return tc.issue(subject, tc.accessTTL)
}

// IssueRefreshToken signs a long-lived token for subject.
func (tc *TokenCodec) IssueRefreshToken(subject string) (domain.Token, error) {
	return tc.issue(subject, tc.refreshTTL)
}

// IssuePair signs both tokens for subject.
func (tc *TokenCodec) IssuePair(subject string) (domain.TokenPair, error) {
	access, err := tc.IssueAccessToken(subject)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := tc.IssueRefreshToken(subject)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (tc *TokenCodec) issue(subject string, ttl time.Duration) (domain.Token, error) {
	// exp has second precision on the wire
	expiresAt := tc.now().Add(ttl).UTC().Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(tc.method, claims)
	tokenString, err := token.SignedString(tc.secret)
	if err != nil {
		return domain.Token{}, err
	}
	return domain.Token{Value: tokenString, ExpiresAt: expiresAt}, nil
}

// Verify checks signature and expiry and returns the subject.
// Every failure, including a well-formed expired token, yields domain.ErrInvalidToken.
func (tc *TokenCodec) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{tc.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tc.now),
	)
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

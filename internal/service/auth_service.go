package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/member-service/internal/auth"
	"github.com/spec-kit/member-service/internal/config"
	"github.com/spec-kit/member-service/internal/domain"
	"github.com/spec-kit/member-service/internal/events"
	"github.com/spec-kit/member-service/internal/repository"
)

// AuthService coordinates login, registration, refresh and the password
// credential lifecycle.
type AuthService struct {
	repos      repository.Repositories
	tx         repository.TxManager
	tokens     *auth.TokenCodec
	passwords  *auth.PasswordScheme
	dispatcher events.Dispatcher
	logger     *zap.Logger
	resetTTL   time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Repos      repository.Repositories
	Tx         repository.TxManager
	Tokens     *auth.TokenCodec
	Passwords  *auth.PasswordScheme
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithAuthClock overrides the time source used for reset code expiry.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *AuthService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies, opts ...AuthOption) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuthService{
		repos:      deps.Repos,
		tx:         deps.Tx,
		tokens:     deps.Tokens,
		passwords:  deps.Passwords,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		resetTTL:   cfg.PasswordResetTTL(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks email and password and issues a token pair keyed on the email.
// Unknown email and wrong password fail identically with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	member, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.session(member)
}

// ConfirmRegistration activates the pending member matching email and code
// and signs it in.
func (s *AuthService) ConfirmRegistration(ctx context.Context, email, code string) (*domain.Session, error) {
	var member *domain.Member
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		m, err := repos.Credentials.FindPendingByEmailCode(ctx, email, code)
		if err != nil {
			return err
		}
		if err := repos.Credentials.Activate(ctx, m.ID); err != nil {
			return err
		}
		m.Status = domain.MemberStatusActive
		member = m
		return nil
	})
	if err != nil {
		return nil, passthrough(s.logger, "confirm registration", err, domain.ErrNotFound)
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventMemberActivated, member.ID, member.Email, nil))
	return s.session(member)
}

// Refresh verifies a refresh token and re-issues both tokens for its subject.
// The presented token stays valid until it expires.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (domain.TokenPair, error) {
	subject, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return domain.TokenPair{}, domain.ErrInvalidToken
	}
	pair, err := s.tokens.IssuePair(subject)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}

// Register creates a pending member and queues the confirmation mail. A
// duplicate email is reported as RegisterExistingEmail, not as an error.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (domain.RegisterResult, error) {
	if _, err := s.repos.Credentials.GetByEmail(ctx, reg.Email); err == nil {
		return domain.RegisterExistingEmail, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", storageError(s.logger, "lookup email", err)
	}

	hash, err := s.passwords.Hash(reg.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	member := &domain.Member{
		Email:    reg.Email,
		Password: hash,
		Profile: domain.Profile{
			FirstName:   reg.FirstName,
			LastName:    reg.LastName,
			Gender:      reg.Gender,
			BirthMonth:  reg.Month,
			BirthDay:    reg.Day,
			BirthYear:   reg.Year,
			ProfileType: reg.ProfileType,
		},
	}
	code := uuid.NewString()

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Credentials.CreatePending(ctx, member, code)
	})
	if errors.Is(err, domain.ErrDuplicateEmail) {
		// lost a race with a concurrent registration
		return domain.RegisterExistingEmail, nil
	}
	if err != nil {
		return "", storageError(s.logger, "create member", err)
	}

	s.logger.Info("member registered", zap.Int64("member_id", member.ID))
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventMemberRegistered, member.ID, member.Email,
		events.MemberRegisteredPayload{
			FirstName: reg.FirstName,
			LastName:  reg.LastName,
			Code:      code,
		}))
	return domain.RegisterNewEmail, nil
}

// RequestPasswordReset issues a reset code for email and queues the reset
// mail. It reports ResetFail when no member owns the email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (domain.ResetResult, error) {
	member, err := s.repos.Credentials.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info("password reset requested for unknown email")
		return domain.ResetFail, nil
	}
	if err != nil {
		return "", storageError(s.logger, "lookup email", err)
	}

	code := &domain.PasswordResetCode{
		Code:     uuid.NewString(),
		Email:    member.Email,
		IssuedAt: s.now().UTC(),
	}
	if err := s.repos.PasswordResets.Create(ctx, code); err != nil {
		return "", storageError(s.logger, "create reset code", err)
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventPasswordResetRequested, member.ID, member.Email,
		events.PasswordResetRequestedPayload{
			FirstName: member.Profile.FirstName,
			Code:      code.Code,
		}))
	return domain.ResetSuccess, nil
}

// IsResetCodeExpired reports whether code can no longer be used. Used and
// unknown codes are both expired, as are codes older than the reset TTL when
// one is configured.
func (s *AuthService) IsResetCodeExpired(ctx context.Context, code string) (bool, error) {
	rc, err := s.repos.PasswordResets.FindUnused(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, storageError(s.logger, "find reset code", err)
	}
	if s.resetTTL > 0 && !rc.IssuedAt.After(s.issuedAfter()) {
		return true, nil
	}
	return false, nil
}

// ChangePassword sets a new password for email. When code is non-empty it is
// consumed in the same transaction, and the whole change fails with
// ErrInvalidCode if it cannot be. On success it returns "member_id:email"
// for the re-validated credential, or "" if re-validation fails.
func (s *AuthService) ChangePassword(ctx context.Context, email, newPassword, code string) (string, error) {
	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if code != "" {
			if err := repos.PasswordResets.Consume(ctx, code, email, s.issuedAfter()); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.ErrInvalidCode
				}
				return err
			}
		}
		return repos.Credentials.UpdatePassword(ctx, email, hash)
	})
	if err != nil {
		return "", passthrough(s.logger, "change password", err, domain.ErrInvalidCode, domain.ErrNotFound)
	}

	member, err := s.authenticate(ctx, email, newPassword)
	if err != nil {
		s.logger.Warn("password changed but re-validation failed", zap.Error(err))
		return "", nil
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventPasswordChanged, member.ID, member.Email,
		events.PasswordChangedPayload{ViaResetCode: code != ""}))
	return fmt.Sprintf("%d:%s", member.ID, member.Email), nil
}

// GetByEmail resolves a member for the bearer middleware.
func (s *AuthService) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	member, err := s.repos.Credentials.GetByEmail(ctx, email)
	if err != nil {
		return nil, passthrough(s.logger, "lookup email", err, domain.ErrNotFound)
	}
	return member, nil
}

// TokenCodec exposes the codec for middleware usage.
func (s *AuthService) TokenCodec() *auth.TokenCodec {
	return s.tokens
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.Member, error) {
	member, err := s.repos.Credentials.FindActiveByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, storageError(s.logger, "find active member", err)
	}

	ok, needsRehash := s.passwords.Verify(member.Password, password)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if needsRehash {
		s.rehash(ctx, member, password)
	}
	return member, nil
}

// rehash replaces a legacy ciphertext with a bcrypt hash. Failure is logged;
// the login itself already succeeded.
func (s *AuthService) rehash(ctx context.Context, member *domain.Member, password string) {
	hash, err := s.passwords.Hash(password)
	if err == nil {
		err = s.repos.Credentials.UpdatePasswordByID(ctx, member.ID, hash)
	}
	if err != nil {
		s.logger.Warn("legacy password rehash failed", zap.Int64("member_id", member.ID), zap.Error(err))
		return
	}
	member.Password = hash
	s.logger.Info("legacy password migrated to bcrypt", zap.Int64("member_id", member.ID))
}

func (s *AuthService) session(member *domain.Member) (*domain.Session, error) {
	pair, err := s.tokens.IssuePair(member.Email)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &domain.Session{Member: member, Tokens: pair}, nil
}

// issuedAfter is the oldest issue instant a reset code may carry. The zero
// time disables the age check.
func (s *AuthService) issuedAfter() time.Time {
	if s.resetTTL <= 0 {
		return time.Time{}
	}
	return s.now().UTC().Add(-s.resetTTL)
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/member-service/internal/auth"
	"github.com/spec-kit/member-service/internal/domain"
	"github.com/spec-kit/member-service/internal/events"
	"github.com/spec-kit/member-service/internal/repository"
)

// SettingsService applies account changes requested by the signed-in member.
type SettingsService struct {
	repos      repository.Repositories
	tx         repository.TxManager
	passwords  *auth.PasswordScheme
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// SettingsDependencies encapsulates collaborators for the settings service.
type SettingsDependencies struct {
	Repos      repository.Repositories
	Tx         repository.TxManager
	Passwords  *auth.PasswordScheme
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewSettingsService builds the service.
func NewSettingsService(deps SettingsDependencies) *SettingsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		repos:      deps.Repos,
		tx:         deps.Tx,
		passwords:  deps.Passwords,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// SavePassword replaces the password of memberID.
func (s *SettingsService) SavePassword(ctx context.Context, memberID int64, newPassword string) error {
	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repos.Credentials.UpdatePasswordByID(ctx, memberID, hash); err != nil {
		return passthrough(s.logger, "save password", err, domain.ErrNotFound)
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventPasswordChanged, memberID, "",
		events.PasswordChangedPayload{}))
	return nil
}

// SaveSecurityQuestion stores the security question id and its answer.
func (s *SettingsService) SaveSecurityQuestion(ctx context.Context, memberID int64, questionID int32, answer string) error {
	if err := s.repos.Credentials.UpdateSecurityQuestion(ctx, memberID, questionID, answer); err != nil {
		return passthrough(s.logger, "save security question", err, domain.ErrNotFound)
	}
	return nil
}

// Deactivate moves the member to Deactivated and records the reason.
func (s *SettingsService) Deactivate(ctx context.Context, memberID int64, d domain.Deactivation) error {
	return s.changeStatus(ctx, memberID, domain.MemberStatusDeactivated, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Credentials.Deactivate(ctx, memberID, d)
	})
}

// Reactivate moves the member back to Active.
func (s *SettingsService) Reactivate(ctx context.Context, memberID int64) error {
	return s.changeStatus(ctx, memberID, domain.MemberStatusActive, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Credentials.SetStatus(ctx, memberID, domain.MemberStatusActive)
	})
}

// UpdateEmail changes the sign-in email. Tokens issued for the old email stop
// resolving to a member.
func (s *SettingsService) UpdateEmail(ctx context.Context, memberID int64, email string) error {
	var oldEmail string
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		member, err := repos.Credentials.GetByID(ctx, memberID)
		if err != nil {
			return err
		}
		oldEmail = member.Email
		return repos.Credentials.UpdateEmail(ctx, memberID, email)
	})
	if err != nil {
		return passthrough(s.logger, "update email", err, domain.ErrNotFound, domain.ErrDuplicateEmail)
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventMemberEmailChanged, memberID, email,
		events.MemberEmailChangedPayload{OldEmail: oldEmail}))
	return nil
}

// changeStatus applies a status change through apply. Transitions outside
// the table are logged and still applied.
func (s *SettingsService) changeStatus(ctx context.Context, memberID int64, to domain.MemberStatus, apply func(context.Context, repository.Repositories) error) error {
	var member *domain.Member
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		m, err := repos.Credentials.GetByID(ctx, memberID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(m.Status, to) {
			s.logger.Warn("illegal status transition applied",
				zap.Int64("member_id", memberID),
				zap.Stringer("from", m.Status),
				zap.Stringer("to", to))
		}
		member = m
		return apply(ctx, repos)
	})
	if err != nil {
		return passthrough(s.logger, "change status", err, domain.ErrNotFound)
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventMemberStatusChanged, memberID, member.Email,
		events.MemberStatusChangedPayload{OldStatus: member.Status, NewStatus: to}))
	return nil
}

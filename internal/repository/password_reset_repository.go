package repository

import (
	"context"
	"time"

	"github.com/spec-kit/member-service/internal/domain"
)

// PasswordResetRepository is the ledger of one-time password reset codes.
type PasswordResetRepository interface {
	Create(ctx context.Context, code *domain.PasswordResetCode) error
	// FindUnused returns the code while it is still in the unused state.
	FindUnused(ctx context.Context, code string) (*domain.PasswordResetCode, error)
	// Consume flips an unused code issued to email (and after issuedAfter,
	// when non-zero) to used. It fails with domain.ErrNotFound otherwise.
	Consume(ctx context.Context, code, email string, issuedAfter time.Time) error
}

type passwordResetRepository struct {
	db DBTX
}

// NewPasswordResetRepository constructs repository.
func NewPasswordResetRepository(db DBTX) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, code *domain.PasswordResetCode) error {
	const query = `
        INSERT INTO password_reset_codes (code, email, code_date, status)
        VALUES ($1, $2, $3, $4)
        RETURNING code_id`
	if err := r.db.QueryRow(ctx, query,
		code.Code,
		code.Email,
		code.IssuedAt,
		int16(domain.ResetCodeUnused),
	).Scan(&code.ID); err != nil {
		return translate(err)
	}
	code.Status = domain.ResetCodeUnused
	return nil
}

func (r *passwordResetRepository) FindUnused(ctx context.Context, code string) (*domain.PasswordResetCode, error) {
	const query = `
        SELECT code_id, code, email, code_date
        FROM password_reset_codes WHERE code = $1 AND status = $2`
	rc := domain.PasswordResetCode{Status: domain.ResetCodeUnused}
	if err := r.db.QueryRow(ctx, query, code, int16(domain.ResetCodeUnused)).Scan(
		&rc.ID,
		&rc.Code,
		&rc.Email,
		&rc.IssuedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &rc, nil
}

func (r *passwordResetRepository) Consume(ctx context.Context, code, email string, issuedAfter time.Time) error {
	const query = `
        UPDATE password_reset_codes SET status = $1, used_at = NOW()
        WHERE code = $2 AND email = $3 AND status = $4 AND code_date > $5`
	cmd, err := r.db.Exec(ctx, query,
		int16(domain.ResetCodeUsed),
		code,
		email,
		int16(domain.ResetCodeUnused),
		issuedAfter,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

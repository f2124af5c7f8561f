package repository

import (
	"context"
	"time"

	"github.com/spec-kit/member-service/internal/domain"
)

// CredentialRepository is the credential store for members.
type CredentialRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	// FindActiveByEmail returns the member only when its status permits login.
	FindActiveByEmail(ctx context.Context, email string) (*domain.Member, error)
	FindPendingByEmailCode(ctx context.Context, email, code string) (*domain.Member, error)
	CreatePending(ctx context.Context, member *domain.Member, code string) error
	Activate(ctx context.Context, memberID int64) error
	SetStatus(ctx context.Context, memberID int64, status domain.MemberStatus) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdatePasswordByID(ctx context.Context, memberID int64, passwordHash string) error
	UpdateEmail(ctx context.Context, memberID int64, email string) error
	UpdateSecurityQuestion(ctx context.Context, memberID int64, questionID int32, answer string) error
	Deactivate(ctx context.Context, memberID int64, d domain.Deactivation) error
}

type credentialRepository struct {
	db DBTX
}

// NewCredentialRepository returns a Postgres-backed implementation.
func NewCredentialRepository(db DBTX) CredentialRepository {
	return &credentialRepository{db: db}
}

const memberColumns = `
        m.member_id, m.email, m.password, m.status,
        COALESCE(m.security_question, 0), COALESCE(m.security_answer, ''),
        COALESCE(p.first_name, ''), COALESCE(p.last_name, ''), COALESCE(p.gender, ''),
        COALESCE(p.birth_month, ''), COALESCE(p.birth_day, ''), COALESCE(p.birth_year, ''),
        COALESCE(p.profile_type, ''), COALESCE(p.picture_path, ''), COALESCE(p.title_desc, ''),
        m.created_at, m.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	var (
		m      domain.Member
		status int16
	)
	if err := row.Scan(
		&m.ID,
		&m.Email,
		&m.Password,
		&status,
		&m.SecurityQuestion,
		&m.SecurityAnswer,
		&m.Profile.FirstName,
		&m.Profile.LastName,
		&m.Profile.Gender,
		&m.Profile.BirthMonth,
		&m.Profile.BirthDay,
		&m.Profile.BirthYear,
		&m.Profile.ProfileType,
		&m.Profile.PicturePath,
		&m.Profile.Title,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	m.Status = domain.MemberStatus(status)
	return &m, nil
}

func (r *credentialRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	query := `
        SELECT` + memberColumns + `
        FROM members m LEFT JOIN member_profiles p ON p.member_id = m.member_id
        WHERE m.member_id = $1`
	return scanMember(r.db.QueryRow(ctx, query, id))
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := `
        SELECT` + memberColumns + `
        FROM members m LEFT JOIN member_profiles p ON p.member_id = m.member_id
        WHERE m.email = $1`
	return scanMember(r.db.QueryRow(ctx, query, email))
}

func (r *credentialRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := `
        SELECT` + memberColumns + `
        FROM members m LEFT JOIN member_profiles p ON p.member_id = m.member_id
        WHERE m.email = $1 AND m.status IN ($2, $3)`
	return scanMember(r.db.QueryRow(ctx, query, email,
		int16(domain.MemberStatusActive), int16(domain.MemberStatusDeactivated)))
}

func (r *credentialRepository) FindPendingByEmailCode(ctx context.Context, email, code string) (*domain.Member, error) {
	query := `
        SELECT` + memberColumns + `
        FROM members m
        JOIN members_registered r ON r.member_id = m.member_id
        LEFT JOIN member_profiles p ON p.member_id = m.member_id
        WHERE m.email = $1 AND r.code = $2 AND m.status = $3`
	return scanMember(r.db.QueryRow(ctx, query, email, code, int16(domain.MemberStatusPending)))
}

// CreatePending inserts the member, its profile and the registration code.
// Run it inside a transaction.
func (r *credentialRepository) CreatePending(ctx context.Context, member *domain.Member, code string) error {
	const insertMember = `
        INSERT INTO members (email, password, status)
        VALUES ($1, $2, $3)
        RETURNING member_id, created_at, updated_at`
	if err := r.db.QueryRow(ctx, insertMember,
		member.Email,
		member.Password,
		int16(domain.MemberStatusPending),
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt); err != nil {
		return translate(err)
	}
	member.Status = domain.MemberStatusPending

	const insertProfile = `
        INSERT INTO member_profiles (member_id, first_name, last_name, gender, birth_month, birth_day, birth_year, profile_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	p := member.Profile
	if _, err := r.db.Exec(ctx, insertProfile,
		member.ID, p.FirstName, p.LastName, p.Gender, p.BirthMonth, p.BirthDay, p.BirthYear, p.ProfileType,
	); err != nil {
		return translate(err)
	}

	const insertCode = `
        INSERT INTO members_registered (member_id, code, registered_date)
        VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, insertCode, member.ID, code, time.Now().UTC()); err != nil {
		return translate(err)
	}
	return nil
}

func (r *credentialRepository) Activate(ctx context.Context, memberID int64) error {
	const query = `
        UPDATE members SET status = $1, updated_at = NOW()
        WHERE member_id = $2 AND status = $3`
	return r.execOne(ctx, query, int16(domain.MemberStatusActive), memberID, int16(domain.MemberStatusPending))
}

// SetStatus overwrites the status without checking the transition.
func (r *credentialRepository) SetStatus(ctx context.Context, memberID int64, status domain.MemberStatus) error {
	const query = `
        UPDATE members SET status = $1, updated_at = NOW()
        WHERE member_id = $2`
	return r.execOne(ctx, query, int16(status), memberID)
}

func (r *credentialRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	const query = `
        UPDATE members SET password = $1, updated_at = NOW()
        WHERE email = $2`
	return r.execOne(ctx, query, passwordHash, email)
}

func (r *credentialRepository) UpdatePasswordByID(ctx context.Context, memberID int64, passwordHash string) error {
	const query = `
        UPDATE members SET password = $1, updated_at = NOW()
        WHERE member_id = $2`
	return r.execOne(ctx, query, passwordHash, memberID)
}

func (r *credentialRepository) UpdateEmail(ctx context.Context, memberID int64, email string) error {
	const query = `
        UPDATE members SET email = $1, updated_at = NOW()
        WHERE member_id = $2`
	return r.execOne(ctx, query, email, memberID)
}

func (r *credentialRepository) UpdateSecurityQuestion(ctx context.Context, memberID int64, questionID int32, answer string) error {
	const query = `
        UPDATE members SET security_question = $1, security_answer = $2, updated_at = NOW()
        WHERE member_id = $3`
	return r.execOne(ctx, query, questionID, answer, memberID)
}

func (r *credentialRepository) Deactivate(ctx context.Context, memberID int64, d domain.Deactivation) error {
	const query = `
        UPDATE members
        SET status = $1, deactivate_reason = $2, deactivate_explanation = $3, future_emails = $4, updated_at = NOW()
        WHERE member_id = $5`
	return r.execOne(ctx, query, int16(domain.MemberStatusDeactivated), d.Reason, d.Explanation, d.FutureEmails, memberID)
}

func (r *credentialRepository) execOne(ctx context.Context, query string, args ...any) error {
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

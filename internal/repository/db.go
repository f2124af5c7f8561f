package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/member-service/internal/domain"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner starts transactions; *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repositories groups the stores an operation may touch.
type Repositories struct {
	Credentials    CredentialRepository
	PasswordResets PasswordResetRepository
}

// NewRepositories binds every store to db.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Credentials:    NewCredentialRepository(db),
		PasswordResets: NewPasswordResetRepository(db),
	}
}

// TxManager runs fn inside one database transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type pgxTxManager struct {
	db TxBeginner
}

// NewTxManager returns a TxManager backed by pgx transactions.
func NewTxManager(db TxBeginner) TxManager {
	return &pgxTxManager{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

const uniqueViolation = "23505"

// translate maps driver errors onto the domain taxonomy where one applies.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateEmail
	}
	return err
}

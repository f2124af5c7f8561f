package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/member-service/internal/domain"
)

func TestTxManagerCommits(t *testing.T) {
	mock := newMock(t)
	tm := NewTxManager(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE password_reset_codes`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE members SET password`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := tm.WithinTx(context.Background(), func(ctx context.Context, repos Repositories) error {
		if err := repos.PasswordResets.Consume(ctx, "code-1", "bob@example.com", time.Time{}); err != nil {
			return err
		}
		return repos.Credentials.UpdatePassword(ctx, "bob@example.com", "hash")
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerRollsBack(t *testing.T) {
	mock := newMock(t)
	tm := NewTxManager(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE password_reset_codes`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE members SET password`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := tm.WithinTx(context.Background(), func(ctx context.Context, repos Repositories) error {
		if err := repos.PasswordResets.Consume(ctx, "code-1", "bob@example.com", time.Time{}); err != nil {
			return err
		}
		return repos.Credentials.UpdatePassword(ctx, "bob@example.com", "hash")
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	other := errors.New("x")
	assert.Equal(t, other, translate(other))
	assert.ErrorIs(t, translate(domain.ErrNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, translate(pgx.ErrNoRows), domain.ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("scan: %w", pgx.ErrNoRows)), domain.ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), domain.ErrDuplicateEmail)

	fk := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(fk), translate(fk))
}

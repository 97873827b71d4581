package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/referral-service/internal/domain"
	"github.com/spec-kit/referral-service/internal/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestAccountRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := repository.NewAccountRepository(mock)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs("Maria", "maria@x.com", "hashed", 0, "MARI1234", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("acc-1", now, now))

	account := &domain.Account{
		Name:         "Maria",
		Email:        "maria@x.com",
		PasswordHash: "hashed",
		ReferralCode: "MARI1234",
	}
	require.NoError(t, repo.Create(context.Background(), account))
	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, now, account.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := repository.NewAccountRepository(mock)

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "accounts_email_unique",
		})

	err := repo.Create(context.Background(), &domain.Account{Email: "maria@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestAccountRepository_Create_DuplicateReferralCode(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := repository.NewAccountRepository(mock)

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "accounts_referral_code_unique",
		})

	err := repo.Create(context.Background(), &domain.Account{ReferralCode: "MARI1234"})
	assert.ErrorIs(t, err, repository.ErrDuplicateReferralCode)
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := repository.NewAccountRepository(mock)
	now := time.Now()

	mock.ExpectQuery("FROM accounts WHERE email").
		WithArgs("maria@x.com").
		WillReturnRows(accountRows().
			AddRow("acc-1", "Maria", "maria@x.com", "hashed", 2, "MARI1234", nil, now, now))

	account, err := repo.GetByEmail(context.Background(), "maria@x.com")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, 2, account.Score)
	assert.Nil(t, account.ReferredByID)
}

func TestAccountRepository_GetByReferralCode_Missing(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := repository.NewAccountRepository(mock)

	mock.ExpectQuery("FROM accounts WHERE referral_code").
		WithArgs("NOPE0000").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByReferralCode(context.Background(), "NOPE0000")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestAccountRepository_IncrementScore(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := repository.NewAccountRepository(mock)

	mock.ExpectExec("UPDATE accounts SET score = score").
		WithArgs("acc-1", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.IncrementScore(context.Background(), "acc-1", 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_IncrementScore_MissingRow(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	repo := repository.NewAccountRepository(mock)

	mock.ExpectExec("UPDATE accounts SET score = score").
		WithArgs("gone", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.IncrementScore(context.Background(), "gone", 1)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func accountRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "email", "password_hash", "score",
		"referral_code", "referred_by_id", "created_at", "updated_at",
	})
}

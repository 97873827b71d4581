package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/referral-service/internal/domain"
)

// Duplicate-key sentinels surfaced when the storage-level unique
// constraints fire. The pre-checks in the registration workflow are a
// fast path only; these are the authoritative uniqueness mechanism.
var (
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrDuplicateReferralCode = errors.New("referral code already taken")
)

// AccountRepository defines persistence access for accounts. All
// operations are atomic with respect to concurrent callers; missing
// rows report pgx.ErrNoRows.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByReferralCode(ctx context.Context, code string) (*domain.Account, error)
	IncrementScore(ctx context.Context, id string, by int) error
}

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it too.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type accountRepository struct {
	db DB
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(db DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (name, email, password_hash, score, referral_code, referred_by_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Score,
		account.ReferralCode,
		account.ReferredByID,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return classifyUniqueViolation(err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, name, email, password_hash, score, referral_code, referred_by_id, created_at, updated_at
        FROM accounts WHERE id=$1`

	return r.scanOne(ctx, query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, name, email, password_hash, score, referral_code, referred_by_id, created_at, updated_at
        FROM accounts WHERE email=$1`

	return r.scanOne(ctx, query, email)
}

func (r *accountRepository) GetByReferralCode(ctx context.Context, code string) (*domain.Account, error) {
	const query = `
        SELECT id, name, email, password_hash, score, referral_code, referred_by_id, created_at, updated_at
        FROM accounts WHERE referral_code=$1`

	return r.scanOne(ctx, query, code)
}

// IncrementScore performs the read-modify-write inside the database so
// concurrent referrals of the same account never lose updates.
func (r *accountRepository) IncrementScore(ctx context.Context, id string, by int) error {
	const query = `
        UPDATE accounts SET score = score + $2, updated_at = NOW()
        WHERE id=$1`

	cmd, err := r.db.Exec(ctx, query, id, by)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Score,
		&account.ReferralCode,
		&account.ReferredByID,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func classifyUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "accounts_email_unique":
		return ErrDuplicateEmail
	case "accounts_referral_code_unique":
		return ErrDuplicateReferralCode
	}
	return err
}

package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/referral-service/internal/domain"
)

// memoryAccountRepository keeps accounts in process memory. It backs
// the service when POSTGRES_DSN is unset and the unit tests. It
// enforces the same contract as the Postgres implementation: unique
// email and referral code, atomic score increments, pgx.ErrNoRows for
// misses.
type memoryAccountRepository struct {
	mu      sync.Mutex
	byID    map[string]*domain.Account
	byEmail map[string]string
	byCode  map[string]string
}

// NewMemoryAccountRepository returns an empty in-memory registry.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]string),
		byCode:  make(map[string]string),
	}
}

func (r *memoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(account.Email)
	if _, exists := r.byEmail[email]; exists {
		return ErrDuplicateEmail
	}
	if _, exists := r.byCode[account.ReferralCode]; exists {
		return ErrDuplicateReferralCode
	}

	now := time.Now()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	stored := *account
	r.byID[account.ID] = &stored
	r.byEmail[email] = account.ID
	r.byCode[account.ReferralCode] = account.ID
	return nil
}

func (r *memoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *memoryAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.get(id)
}

func (r *memoryAccountRepository) GetByReferralCode(_ context.Context, code string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byCode[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.get(id)
}

func (r *memoryAccountRepository) IncrementScore(_ context.Context, id string, by int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.Score += by
	account.UpdatedAt = time.Now()
	return nil
}

// get returns a copy so callers cannot mutate stored state.
func (r *memoryAccountRepository) get(id string) (*domain.Account, error) {
	account, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

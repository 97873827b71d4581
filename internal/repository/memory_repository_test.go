package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/referral-service/internal/domain"
	"github.com/spec-kit/referral-service/internal/repository"
)

func TestMemoryRepository_CreateAndLookups(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryAccountRepository()
	ctx := context.Background()

	account := &domain.Account{
		Name:         "Maria",
		Email:        "maria@x.com",
		PasswordHash: "hashed",
		ReferralCode: "MARI1234",
	}
	require.NoError(t, repo.Create(ctx, account))
	require.NotEmpty(t, account.ID)

	byID, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "maria@x.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "maria@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	byCode, err := repo.GetByReferralCode(ctx, "MARI1234")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byCode.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryRepository_DuplicateKeys(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryAccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Account{
		Email: "maria@x.com", ReferralCode: "MARI1234",
	}))

	err := repo.Create(ctx, &domain.Account{
		Email: "maria@x.com", ReferralCode: "OTHR5678",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	err = repo.Create(ctx, &domain.Account{
		Email: "other@x.com", ReferralCode: "MARI1234",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateReferralCode)
}

func TestMemoryRepository_ConcurrentCreateSameEmail(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryAccountRepository()
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	results := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := string(rune('A'+i)) + "BCD1234"
			results[i] = repo.Create(ctx, &domain.Account{
				Email: "maria@x.com", ReferralCode: code,
			})
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
		}
	}
	assert.Equal(t, 1, successes)
}

func TestMemoryRepository_ConcurrentIncrements(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryAccountRepository()
	ctx := context.Background()

	account := &domain.Account{Email: "maria@x.com", ReferralCode: "MARI1234"}
	require.NoError(t, repo.Create(ctx, account))

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.IncrementScore(ctx, account.ID, 1)
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, n, stored.Score)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryAccountRepository()
	ctx := context.Background()

	account := &domain.Account{Email: "maria@x.com", ReferralCode: "MARI1234"}
	require.NoError(t, repo.Create(ctx, account))

	first, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	first.Score = 99

	second, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Score)
}

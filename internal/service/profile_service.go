package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/referral-service/internal/cache"
	"github.com/spec-kit/referral-service/internal/config"
	"github.com/spec-kit/referral-service/internal/domain"
	"github.com/spec-kit/referral-service/internal/repository"
	apperrors "github.com/spec-kit/referral-service/pkg/util"
)

// ProfileService serves public account views with the shareable
// referral link attached.
type ProfileService struct {
	accounts repository.AccountRepository
	profiles *cache.ProfileCache
	baseURL  string
}

// NewProfileService builds the service.
func NewProfileService(cfg config.Config, accounts repository.AccountRepository, profiles *cache.ProfileCache) *ProfileService {
	return &ProfileService{
		accounts: accounts,
		profiles: profiles,
		baseURL:  cfg.Referral.PublicBaseURL,
	}
}

// GetProfile returns the public view for the account.
func (s *ProfileService) GetProfile(ctx context.Context, accountID string) (domain.Profile, error) {
	if cached, ok := s.profiles.Get(ctx, accountID); ok {
		return cached, nil
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, apperrors.NewNotFound("account", map[string]any{"id": accountID})
	} else if err != nil {
		return domain.Profile{}, err
	}

	profile := account.PublicProfile()
	profile.ReferralLink = s.ReferralLink(account.ReferralCode)

	s.profiles.Set(ctx, accountID, profile)
	return profile, nil
}

// ReferralLink builds the shareable signup link for a code.
func (s *ProfileService) ReferralLink(code string) string {
	return fmt.Sprintf("%s?ref=%s", s.baseURL, code)
}

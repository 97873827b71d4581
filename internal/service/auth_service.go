package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/referral-service/internal/auth"
	"github.com/spec-kit/referral-service/internal/cache"
	"github.com/spec-kit/referral-service/internal/config"
	"github.com/spec-kit/referral-service/internal/domain"
	"github.com/spec-kit/referral-service/internal/events"
	"github.com/spec-kit/referral-service/internal/referral"
	"github.com/spec-kit/referral-service/internal/repository"
	apperrors "github.com/spec-kit/referral-service/pkg/util"
)

// invalidCredentialsMsg is shared between the unknown-email and
// wrong-password paths so login failures cannot be used to enumerate
// registered emails.
const invalidCredentialsMsg = "invalid email or password"

// createAttempts bounds retries when the database rejects a generated
// referral code that raced another registration.
const createAttempts = 3

// ErrCodeSpaceExhausted signals the generate-check-retry loop ran out
// of attempts. Operational, not user-facing.
var ErrCodeSpaceExhausted = errors.New("unable to generate a unique referral code")

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts        repository.AccountRepository
	tokenMgr        *auth.TokenManager
	dispatcher      events.Dispatcher
	profiles        *cache.ProfileCache
	logger          *zap.Logger
	bcryptCost      int
	maxCodeAttempts int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	AccountRepo  repository.AccountRepository
	Dispatcher   events.Dispatcher
	ProfileCache *cache.ProfileCache
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	maxAttempts := cfg.Referral.MaxCodeAttempts
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:        deps.AccountRepo,
		tokenMgr:        auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		dispatcher:      deps.Dispatcher,
		profiles:        deps.ProfileCache,
		logger:          logger,
		bcryptCost:      cfg.Auth.BcryptCost,
		maxCodeAttempts: maxAttempts,
	}
}

// Register creates a new account, attributing the signup to a referrer
// when a referral code is supplied.
func (s *AuthService) Register(ctx context.Context, name, email, password, referralCode string) (*domain.Account, string, time.Time, error) {
	name = normalizeName(name)
	email = normalizeEmail(email)

	if violations := validateRegistration(name, email, password); len(violations) > 0 {
		return nil, "", time.Time{}, apperrors.NewValidationError("invalid registration data", violations)
	}

	// Fast-path duplicate check; the unique constraint in the registry
	// remains the authoritative guard against concurrent registrations.
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	var referrer *domain.Account
	if referralCode != "" {
		code := referral.Normalize(referralCode)
		found, err := s.accounts.GetByReferralCode(ctx, code)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidReferralCode(code)
		} else if err != nil {
			return nil, "", time.Time{}, err
		}
		referrer = found
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	account, err := s.createWithUniqueCode(ctx, name, email, hash, referrer)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if referrer != nil {
		s.creditReferrer(ctx, referrer.ID, account.ID)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountRegistered,
		AccountID: account.ID,
		Payload: events.AccountRegisteredPayload{
			Email:        account.Email,
			ReferralCode: account.ReferralCode,
			ReferredByID: account.ReferredByID,
		},
	})

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return account, token, exp, nil
}

// Login authenticates an account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	email = normalizeEmail(email)

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(invalidCredentialsMsg)
	} else if err != nil {
		return nil, "", time.Time{}, err
	}

	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(invalidCredentialsMsg)
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return account, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// createWithUniqueCode persists the account, regenerating the referral
// code if the insert loses a uniqueness race on it.
func (s *AuthService) createWithUniqueCode(ctx context.Context, name, email, hash string, referrer *domain.Account) (*domain.Account, error) {
	var referredByID *string
	if referrer != nil {
		id := referrer.ID
		referredByID = &id
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := s.generateUniqueCode(ctx, name)
		if err != nil {
			return nil, err
		}

		account := &domain.Account{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Score:        0,
			ReferralCode: code,
			ReferredByID: referredByID,
		}

		err = s.accounts.Create(ctx, account)
		switch {
		case err == nil:
			return account, nil
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.NewConflict("email already registered", nil)
		case errors.Is(err, repository.ErrDuplicateReferralCode):
			s.logger.Warn("referral code collided on insert, regenerating",
				zap.String("code", code))
			continue
		default:
			return nil, err
		}
	}
	return nil, apperrors.NewInternalError(ErrCodeSpaceExhausted)
}

// generateUniqueCode tries name-based codes first, then fully random
// ones, each checked against the registry.
func (s *AuthService) generateUniqueCode(ctx context.Context, name string) (string, error) {
	for i := 0; i < s.maxCodeAttempts; i++ {
		code := referral.FromName(name)
		free, err := s.codeAvailable(ctx, code)
		if err != nil {
			return "", err
		}
		if free {
			return code, nil
		}
	}

	for i := 0; i < s.maxCodeAttempts; i++ {
		code := referral.Random()
		free, err := s.codeAvailable(ctx, code)
		if err != nil {
			return "", err
		}
		if free {
			return code, nil
		}
	}

	return "", apperrors.NewInternalError(ErrCodeSpaceExhausted)
}

func (s *AuthService) codeAvailable(ctx context.Context, code string) (bool, error) {
	_, err := s.accounts.GetByReferralCode(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// creditReferrer increments the referrer's score. The new account is
// already durable, so a failure here is logged and swallowed rather
// than failing the registration; the credit is lost in that case.
func (s *AuthService) creditReferrer(ctx context.Context, referrerID, accountID string) {
	if err := s.accounts.IncrementScore(ctx, referrerID, 1); err != nil {
		s.logger.Warn("referral credit failed",
			zap.String("referrer_id", referrerID),
			zap.String("account_id", accountID),
			zap.Error(err))
		return
	}

	s.profiles.Invalidate(ctx, referrerID)
	s.publish(ctx, events.Event{
		Type:      events.EventReferralCredited,
		AccountID: referrerID,
		Payload:   events.ReferralCreditedPayload{ReferredAccountID: accountID},
	})
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

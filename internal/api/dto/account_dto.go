package dto

import (
	"time"

	"github.com/spec-kit/referral-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referralCode"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AccountResponse is the public account view returned from auth
// endpoints. PasswordHash is deliberately absent.
type AccountResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Score        int       `json:"score"`
	ReferralCode string    `json:"referralCode"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewAccountResponse projects a domain account.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:           account.ID,
		Name:         account.Name,
		Email:        account.Email,
		Score:        account.Score,
		ReferralCode: account.ReferralCode,
		CreatedAt:    account.CreatedAt,
	}
}

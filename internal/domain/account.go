package domain

import "time"

// Account is the domain model for a registered user. Score counts
// successful referrals attributed to the account.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Score        int
	ReferralCode string
	ReferredByID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of an account. PasswordHash never crosses
// this boundary.
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Score        int       `json:"score"`
	ReferralCode string    `json:"referralCode"`
	ReferralLink string    `json:"referralLink,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicProfile projects an account to its public view.
func (a *Account) PublicProfile() Profile {
	return Profile{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Score:        a.Score,
		ReferralCode: a.ReferralCode,
		CreatedAt:    a.CreatedAt,
	}
}

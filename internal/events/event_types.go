package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventReferralCredited  EventType = "referral_credited"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Email        string  `json:"email"`
	ReferralCode string  `json:"referral_code"`
	ReferredByID *string `json:"referred_by_id,omitempty"`
}

// ReferralCreditedPayload payload. AccountID on the event is the
// referrer receiving the credit.
type ReferralCreditedPayload struct {
	ReferredAccountID string `json:"referred_account_id"`
}

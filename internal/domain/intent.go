package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type IntentStatus string

const (
	IntentPending    IntentStatus = "pending"
	IntentUsed       IntentStatus = "used"
	IntentSuperseded IntentStatus = "superseded"
)

// TransferIntent is a proposed peer-to-peer transfer gated by a one-time
// code. A sender has at most one pending intent at a time; issuing a new one
// transitions the previous intent to superseded rather than deleting it, so
// the audit trail keeps every issued code.
//
// The recipient is stored by card id and resolved again at execution time.
type TransferIntent struct {
	ID              string
	SenderID        string
	RecipientCardID string
	Amount          decimal.Decimal
	Note            string
	Code            string
	Status          IntentStatus
	CreatedAt       time.Time
	ExpiresAt       time.Time
	VerifiedAt      *time.Time
}

// Expired reports whether the intent's window has passed. Expiry is checked
// lazily at verification time; nothing actively expires intents.
func (i TransferIntent) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

package repo_interfaces

import (
	"context"

	"github.com/genglo/coop-kiosk/internal/domain"
)

type TransferIntentRepository interface {
	// Create persists a new pending intent and, in the same transaction,
	// transitions every prior pending intent of the sender to superseded.
	// There is never a window in which two pending intents coexist for one
	// sender.
	Create(ctx context.Context, intent domain.TransferIntent) (domain.TransferIntent, error)

	// FindByCode returns the most recent intent matching sender and code,
	// whatever its status. The caller decides how to report used,
	// superseded or expired intents.
	FindByCode(ctx context.Context, senderID, code string) (domain.TransferIntent, error)
}

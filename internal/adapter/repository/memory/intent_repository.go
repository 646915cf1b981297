package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/genglo/coop-kiosk/internal/domain"
)

type TransferIntentRepository struct {
	store *Store
}

func NewTransferIntentRepository(store *Store) *TransferIntentRepository {
	return &TransferIntentRepository{store: store}
}

func (r *TransferIntentRepository) Create(ctx context.Context, intent domain.TransferIntent) (domain.TransferIntent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.intents {
		if existing.SenderID == intent.SenderID && existing.Status == domain.IntentPending {
			existing.Status = domain.IntentSuperseded
		}
	}

	if intent.ID == "" {
		intent.ID = uuid.NewString()
	}
	intent.Status = domain.IntentPending
	intent.CreatedAt = r.store.now()

	copied := intent
	r.store.intents = append(r.store.intents, &copied)

	return intent, nil
}

func (r *TransferIntentRepository) FindByCode(ctx context.Context, senderID, code string) (domain.TransferIntent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Insertion order is creation order; the last match is the most recent.
	for i := len(r.store.intents) - 1; i >= 0; i-- {
		intent := r.store.intents[i]
		if intent.SenderID == senderID && intent.Code == code {
			return cloneIntent(intent), nil
		}
	}

	return domain.TransferIntent{}, domain.ErrRecordNotFound
}

func cloneIntent(intent *domain.TransferIntent) domain.TransferIntent {
	copied := *intent
	if intent.VerifiedAt != nil {
		value := *intent.VerifiedAt
		copied.VerifiedAt = &value
	}
	return copied
}

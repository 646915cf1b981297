package memory

import (
	"context"

	"github.com/genglo/coop-kiosk/internal/domain"
)

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) IncrementStock(ctx context.Context, productID string, quantity int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.stock[productID]; !ok {
		return domain.ErrRecordNotFound
	}
	r.store.stock[productID] += quantity

	return nil
}

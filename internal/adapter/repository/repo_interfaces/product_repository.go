package repo_interfaces

import "context"

// ProductRepository is the external inventory counter consumed by the
// refund engine. Stock restores are best-effort and sit outside the
// financial atomic unit.
type ProductRepository interface {
	IncrementStock(ctx context.Context, productID string, quantity int) error
}

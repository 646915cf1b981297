package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/logger"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) IncrementStock(ctx context.Context, productID string, quantity int) error {
	logger.Info("product repository increment stock", logger.Fields{
		"productId": productID,
		"quantity":  quantity,
	})

	const query = `
UPDATE products
SET stock_quantity = stock_quantity + $2, updated_at = NOW()
WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		logger.Error("product repository increment stock failed", err, logger.Fields{
			"productId": productID,
		})
		return fmt.Errorf("increment stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment stock rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

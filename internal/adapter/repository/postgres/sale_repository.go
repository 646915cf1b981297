package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/genglo/coop-kiosk/internal/domain"
)

type SaleRepository struct {
	db *sql.DB
}

func NewSaleRepository(db *sql.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

const saleColumns = `id, number, member_id, subtotal, vatable_sale, vat_amount, total_amount, payment_method, status, note, created_at, updated_at`

func (r *SaleRepository) GetByID(ctx context.Context, id string) (domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`

	sale, err := r.scanSale(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sale{}, domain.ErrRecordNotFound
		}
		return domain.Sale{}, fmt.Errorf("get sale by id: %w", err)
	}

	items, err := r.loadItems(ctx, sale.ID)
	if err != nil {
		return domain.Sale{}, err
	}
	sale.Items = items

	return sale, nil
}

func (r *SaleRepository) Create(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("begin sale transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const saleQuery = `
INSERT INTO sales (
	number,
	member_id,
	subtotal,
	vatable_sale,
	vat_amount,
	total_amount,
	payment_method,
	status,
	note
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`

	var memberID any
	if sale.MemberID != nil {
		memberID = *sale.MemberID
	}

	if err = tx.QueryRowContext(
		ctx,
		saleQuery,
		sale.Number,
		memberID,
		sale.Subtotal,
		sale.VatableSale,
		sale.VATAmount,
		sale.TotalAmount,
		sale.PaymentMethod,
		sale.Status,
		sale.Note,
	).Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt); err != nil {
		err = fmt.Errorf("create sale: %w", err)
		return domain.Sale{}, err
	}

	const itemQuery = `
INSERT INTO sale_items (sale_id, product_id, product_name, quantity, unit_price, total_price)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	for i := range sale.Items {
		item := &sale.Items[i]
		item.SaleID = sale.ID

		var productID any
		if item.ProductID != nil {
			productID = *item.ProductID
		}

		if err = tx.QueryRowContext(
			ctx,
			itemQuery,
			item.SaleID,
			productID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
		).Scan(&item.ID); err != nil {
			err = fmt.Errorf("create sale item: %w", err)
			return domain.Sale{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Sale{}, fmt.Errorf("commit sale transaction: %w", err)
	}

	return sale, nil
}

func (r *SaleRepository) ListCompletedByMember(ctx context.Context, memberID string, page, limit int) ([]domain.Sale, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := `SELECT ` + saleColumns + `
FROM sales
WHERE member_id = $1 AND status = 'completed'
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, limit)
	for rows.Next() {
		sale, scanErr := r.scanSaleRows(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", scanErr)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sales: %w", err)
	}

	for i := range sales {
		items, itemsErr := r.loadItems(ctx, sales[i].ID)
		if itemsErr != nil {
			return nil, 0, itemsErr
		}
		sales[i].Items = items
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sales WHERE member_id = $1 AND status = 'completed'`, memberID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	return sales, total, nil
}

func (r *SaleRepository) MonthlySpend(ctx context.Context, memberID string, year int, month time.Month) (decimal.Decimal, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	const query = `
SELECT COALESCE(SUM(total_amount), 0)
FROM sales
WHERE member_id = $1 AND status = 'completed' AND created_at >= $2 AND created_at < $3`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, memberID, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("monthly spend: %w", err)
	}

	return total, nil
}

func (r *SaleRepository) SalesTotals(ctx context.Context, from, to time.Time) (domain.SalesTotals, error) {
	const salesQuery = `
SELECT COUNT(1), COALESCE(SUM(total_amount), 0)
FROM sales
WHERE status = 'completed' AND created_at >= $1 AND created_at < $2`

	var totals domain.SalesTotals
	if err := r.db.QueryRowContext(ctx, salesQuery, from, to).Scan(&totals.SalesCount, &totals.SalesTotal); err != nil {
		return domain.SalesTotals{}, fmt.Errorf("sales totals: %w", err)
	}

	// Refunds are counted when the cancellation happened in the window,
	// regardless of when the sale was made.
	const refundsQuery = `
SELECT COUNT(1), COALESCE(SUM(total_amount), 0)
FROM sales
WHERE status = 'cancelled' AND updated_at >= $1 AND updated_at < $2`

	if err := r.db.QueryRowContext(ctx, refundsQuery, from, to).Scan(&totals.RefundCount, &totals.RefundTotal); err != nil {
		return domain.SalesTotals{}, fmt.Errorf("refund totals: %w", err)
	}

	return totals, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SaleRepository) scanSale(row *sql.Row) (domain.Sale, error) {
	return scanSaleFrom(row)
}

func (r *SaleRepository) scanSaleRows(rows *sql.Rows) (domain.Sale, error) {
	return scanSaleFrom(rows)
}

func scanSaleFrom(scanner rowScanner) (domain.Sale, error) {
	var (
		sale     domain.Sale
		memberID sql.NullString
		note     sql.NullString
	)

	err := scanner.Scan(
		&sale.ID,
		&sale.Number,
		&memberID,
		&sale.Subtotal,
		&sale.VatableSale,
		&sale.VATAmount,
		&sale.TotalAmount,
		&sale.PaymentMethod,
		&sale.Status,
		&note,
		&sale.CreatedAt,
		&sale.UpdatedAt,
	)
	if err != nil {
		return domain.Sale{}, err
	}

	if memberID.Valid {
		value := memberID.String
		sale.MemberID = &value
	}
	sale.Note = note.String

	return sale, nil
}

func (r *SaleRepository) loadItems(ctx context.Context, saleID string) ([]domain.SaleItem, error) {
	const query = `
SELECT id, sale_id, product_id, product_name, quantity, unit_price, total_price
FROM sale_items
WHERE sale_id = $1
ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()

	var items []domain.SaleItem
	for rows.Next() {
		var (
			item      domain.SaleItem
			productID sql.NullString
		)
		if err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&productID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		if productID.Valid {
			value := productID.String
			item.ProductID = &value
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale items: %w", err)
	}

	return items, nil
}

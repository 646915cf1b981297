package repo_interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/genglo/coop-kiosk/internal/domain"
)

type SaleRepository interface {
	// GetByID returns the sale with its line items.
	GetByID(ctx context.Context, id string) (domain.Sale, error)

	Create(ctx context.Context, sale domain.Sale) (domain.Sale, error)

	// ListCompletedByMember returns completed sales newest first plus the
	// total count.
	ListCompletedByMember(ctx context.Context, memberID string, page, limit int) ([]domain.Sale, int, error)

	// MonthlySpend sums completed sale totals for the member in the given
	// calendar month.
	MonthlySpend(ctx context.Context, memberID string, year int, month time.Month) (decimal.Decimal, error)

	// SalesTotals is an idempotent aggregate over [from, to) used by the
	// daily report. Refunds are identified by sale status, not by note
	// matching.
	SalesTotals(ctx context.Context, from, to time.Time) (domain.SalesTotals, error)
}

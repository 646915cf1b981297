package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/genglo/coop-kiosk/internal/domain"
)

type SaleRepository struct {
	store *Store
}

func NewSaleRepository(store *Store) *SaleRepository {
	return &SaleRepository{store: store}
}

func (r *SaleRepository) GetByID(ctx context.Context, id string) (domain.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sale, ok := r.store.sales[id]
	if !ok {
		return domain.Sale{}, domain.ErrRecordNotFound
	}
	return cloneSale(sale), nil
}

func (r *SaleRepository) Create(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	now := r.store.now()
	sale.CreatedAt = now
	sale.UpdatedAt = now
	for i := range sale.Items {
		if sale.Items[i].ID == "" {
			sale.Items[i].ID = uuid.NewString()
		}
		sale.Items[i].SaleID = sale.ID
	}

	copied := sale
	copied.Items = append([]domain.SaleItem(nil), sale.Items...)
	r.store.sales[sale.ID] = &copied

	return sale, nil
}

func (r *SaleRepository) ListCompletedByMember(ctx context.Context, memberID string, page, limit int) ([]domain.Sale, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*domain.Sale
	for _, sale := range r.store.sales {
		if sale.MemberID != nil && *sale.MemberID == memberID && sale.Status == domain.SaleStatusCompleted {
			matched = append(matched, sale)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	offset := (page - 1) * limit
	sales := make([]domain.Sale, 0, limit)
	for i := offset; i < total && len(sales) < limit; i++ {
		sales = append(sales, cloneSale(matched[i]))
	}

	return sales, total, nil
}

func (r *SaleRepository) MonthlySpend(ctx context.Context, memberID string, year int, month time.Month) (decimal.Decimal, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	total := decimal.Zero
	for _, sale := range r.store.sales {
		if sale.MemberID == nil || *sale.MemberID != memberID || sale.Status != domain.SaleStatusCompleted {
			continue
		}
		if sale.CreatedAt.Before(start) || !sale.CreatedAt.Before(end) {
			continue
		}
		total = total.Add(sale.TotalAmount)
	}

	return total, nil
}

func (r *SaleRepository) SalesTotals(ctx context.Context, from, to time.Time) (domain.SalesTotals, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	totals := domain.SalesTotals{
		SalesTotal:  decimal.Zero,
		RefundTotal: decimal.Zero,
	}
	for _, sale := range r.store.sales {
		switch sale.Status {
		case domain.SaleStatusCompleted:
			if !sale.CreatedAt.Before(from) && sale.CreatedAt.Before(to) {
				totals.SalesCount++
				totals.SalesTotal = totals.SalesTotal.Add(sale.TotalAmount)
			}
		case domain.SaleStatusCancelled:
			if !sale.UpdatedAt.Before(from) && sale.UpdatedAt.Before(to) {
				totals.RefundCount++
				totals.RefundTotal = totals.RefundTotal.Add(sale.TotalAmount)
			}
		}
	}

	return totals, nil
}

func cloneSale(sale *domain.Sale) domain.Sale {
	copied := *sale
	if sale.MemberID != nil {
		value := *sale.MemberID
		copied.MemberID = &value
	}
	copied.Items = append([]domain.SaleItem(nil), sale.Items...)
	return copied
}

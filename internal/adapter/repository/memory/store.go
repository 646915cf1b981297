// Package memory implements the repository contracts against in-process
// maps. It backs the service tests and the kiosk demo mode; a single mutex
// per store stands in for the row locks the postgres implementations take,
// preserving the same visible semantics.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/genglo/coop-kiosk/internal/domain"
)

type Store struct {
	mu      sync.Mutex
	members map[string]*domain.Member
	entries map[string][]domain.LedgerEntry
	intents []*domain.TransferIntent
	sales   map[string]*domain.Sale
	stock   map[string]int
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		members: make(map[string]*domain.Member),
		entries: make(map[string][]domain.LedgerEntry),
		sales:   make(map[string]*domain.Sale),
		stock:   make(map[string]int),
		now:     time.Now,
	}
}

// SetNow overrides the store clock. Tests use it to drive OTP expiry.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddMember seeds a member, assigning an id when absent.
func (s *Store) AddMember(member domain.Member) domain.Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := s.now()
	member.CreatedAt = now
	member.UpdatedAt = now

	copied := member
	s.members[member.ID] = &copied
	return member
}

// AddSale seeds a sale with its items, assigning ids when absent.
func (s *Store) AddSale(sale domain.Sale) domain.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	now := s.now()
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
	s.sales[sale.ID] = &copied
	return sale
}

// AddProduct seeds an inventory counter.
func (s *Store) AddProduct(productID string, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[productID] = stock
}

// StockOf returns the current counter for a product.
func (s *Store) StockOf(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[productID]
}

// SeedIntent inserts an intent directly, bypassing supersession. Tests use
// it to construct states the public contract would not normally allow.
func (s *Store) SeedIntent(intent domain.TransferIntent) domain.TransferIntent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if intent.ID == "" {
		intent.ID = uuid.NewString()
	}
	if intent.Status == "" {
		intent.Status = domain.IntentPending
	}
	copied := intent
	s.intents = append(s.intents, &copied)
	return intent
}

// EntriesOf returns every ledger entry for a member, oldest first.
func (s *Store) EntriesOf(memberID string) []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LedgerEntry(nil), s.entries[memberID]...)
}

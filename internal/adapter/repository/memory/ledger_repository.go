package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/genglo/coop-kiosk/internal/adapter/repository/repo_interfaces"
	"github.com/genglo/coop-kiosk/internal/domain"
)

type LedgerRepository struct {
	store *Store
}

func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) GetBalance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	member, ok := r.store.members[memberID]
	if !ok {
		return decimal.Zero, domain.ErrRecordNotFound
	}
	return member.Balance, nil
}

func (r *LedgerRepository) ListByMember(ctx context.Context, memberID string, page, limit int) ([]domain.LedgerEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all := r.store.entries[memberID]
	total := len(all)

	// Stored oldest first; the contract is newest first.
	offset := (page - 1) * limit
	entries := make([]domain.LedgerEntry, 0, limit)
	for i := total - 1 - offset; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, all[i])
	}

	return entries, total, nil
}

func (r *LedgerRepository) ApplyDelta(ctx context.Context, memberID string, kind domain.EntryKind, amount decimal.Decimal, note string, saleID *string) (domain.LedgerEntry, error) {
	if amount.Sign() <= 0 {
		return domain.LedgerEntry{}, domain.ErrInvalidAmount
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	member, ok := r.store.members[memberID]
	if !ok {
		return domain.LedgerEntry{}, domain.ErrRecordNotFound
	}

	entry, err := r.applyLocked(member, kind, amount, note, saleID)
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	return entry, nil
}

func (r *LedgerRepository) ExecuteTransfer(ctx context.Context, params repo_interfaces.ExecuteTransferParams) (domain.LedgerEntry, domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var intent *domain.TransferIntent
	for _, candidate := range r.store.intents {
		if candidate.ID == params.IntentID {
			intent = candidate
			break
		}
	}
	if intent == nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, domain.ErrOtpNotFound
	}
	if intent.Status != domain.IntentPending {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, domain.ErrOtpAlreadyUsed
	}

	sender, ok := r.store.members[params.SenderID]
	if !ok {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, domain.ErrRecordNotFound
	}
	recipient, ok := r.store.members[params.RecipientID]
	if !ok {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, domain.ErrRecordNotFound
	}

	if sender.Balance.Sub(params.Amount).Sign() < 0 {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, domain.ErrInsufficientBalance
	}

	intent.Status = domain.IntentUsed
	verified := r.store.now()
	intent.VerifiedAt = &verified

	debit, err := r.applyLocked(sender, domain.EntryDeduction, params.Amount, params.SenderNote, nil)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}
	credit, err := r.applyLocked(recipient, domain.EntryDeposit, params.Amount, params.RecipientNote, nil)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	return debit, credit, nil
}

func (r *LedgerRepository) RefundSale(ctx context.Context, params repo_interfaces.RefundSaleParams) (*domain.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sale, ok := r.store.sales[params.SaleID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	if sale.Status != domain.SaleStatusCompleted {
		return nil, domain.ErrNotRefundable
	}

	if params.MemberID == nil {
		sale.Status = domain.SaleStatusCancelled
		sale.Note = params.SaleNote
		sale.UpdatedAt = r.store.now()
		return nil, nil
	}

	member, ok := r.store.members[*params.MemberID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	saleID := params.SaleID
	entry, err := r.applyLocked(member, domain.EntryDeposit, params.Amount, params.Note, &saleID)
	if err != nil {
		return nil, err
	}

	sale.Status = domain.SaleStatusCancelled
	sale.Note = params.SaleNote
	sale.UpdatedAt = r.store.now()

	return &entry, nil
}

// applyLocked mutates a member balance and appends the matching ledger
// entry. Callers hold the store mutex.
func (r *LedgerRepository) applyLocked(member *domain.Member, kind domain.EntryKind, amount decimal.Decimal, note string, saleID *string) (domain.LedgerEntry, error) {
	amount = amount.Round(2)
	before := member.Balance

	var after decimal.Decimal
	switch kind {
	case domain.EntryDeposit:
		after = before.Add(amount)
	case domain.EntryDeduction:
		after = before.Sub(amount)
		if after.Sign() < 0 {
			return domain.LedgerEntry{}, domain.ErrInsufficientBalance
		}
	default:
		return domain.LedgerEntry{}, domain.ErrInvalidAmount
	}

	now := r.store.now()
	member.Balance = after
	stampLastTransaction(member, now)

	entry := domain.LedgerEntry{
		ID:            uuid.NewString(),
		MemberID:      member.ID,
		Kind:          kind,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Note:          note,
		CreatedAt:     now,
	}
	if saleID != nil {
		value := *saleID
		entry.SaleID = &value
	}
	r.store.entries[member.ID] = append(r.store.entries[member.ID], entry)

	return entry, nil
}

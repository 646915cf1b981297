package repo_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/genglo/coop-kiosk/internal/domain"
)

// ExecuteTransferParams carries everything the two-account atomic unit
// needs. The repository marks the intent used, locks both member rows in
// ascending id order, moves the balances and appends both ledger entries in
// one transaction.
type ExecuteTransferParams struct {
	IntentID      string
	SenderID      string
	RecipientID   string
	Amount        decimal.Decimal
	SenderNote    string
	RecipientNote string
}

// RefundSaleParams carries the refund atomic unit: transition the sale from
// completed to cancelled, credit the owning member and append the deposit
// entry. MemberID is nil for guest sales, which skip the balance credit.
type RefundSaleParams struct {
	SaleID   string
	MemberID *string
	Amount   decimal.Decimal
	Note     string
	SaleNote string
}

// LedgerRepository is the account balance store and ledger entry store in
// one contract: every balance mutation and its ledger entry commit together
// or not at all. There is no update or delete operation on entries.
type LedgerRepository interface {
	GetBalance(ctx context.Context, memberID string) (decimal.Decimal, error)

	// ListByMember returns entries newest first plus the total count.
	ListByMember(ctx context.Context, memberID string, page, limit int) ([]domain.LedgerEntry, int, error)

	// ApplyDelta is the sole single-account mutation entry point. Amount
	// must be strictly positive; the kind carries the sign. A deduction
	// that would leave the balance negative fails with
	// ErrInsufficientBalance and writes nothing.
	ApplyDelta(ctx context.Context, memberID string, kind domain.EntryKind, amount decimal.Decimal, note string, saleID *string) (domain.LedgerEntry, error)

	// ExecuteTransfer runs the transfer atomic unit. On any failure the
	// whole unit rolls back: the intent stays pending, no balances change
	// and no entries are written.
	ExecuteTransfer(ctx context.Context, params ExecuteTransferParams) (domain.LedgerEntry, domain.LedgerEntry, error)

	// RefundSale runs the refund atomic unit. Returns nil for guest sales.
	// Fails with ErrNotRefundable unless the sale is currently completed.
	RefundSale(ctx context.Context, params RefundSaleParams) (*domain.LedgerEntry, error)
}

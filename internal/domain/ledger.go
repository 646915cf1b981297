package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryDeposit   EntryKind = "deposit"
	EntryDeduction EntryKind = "deduction"
)

// LedgerEntry is one immutable balance-affecting event. Entries are written
// once, inside the same transaction as the balance mutation they record, and
// are never updated or deleted.
//
// Invariant: BalanceAfter == BalanceBefore + Amount for deposits,
// BalanceAfter == BalanceBefore - Amount for deductions. Amount is always
// positive; the kind carries the sign.
type LedgerEntry struct {
	ID            string
	MemberID      string
	Kind          EntryKind
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Note          string
	SaleID        *string
	CreatedAt     time.Time
}

// SignedAmount returns the entry's effect on the balance.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Kind == EntryDeduction {
		return e.Amount.Neg()
	}
	return e.Amount
}

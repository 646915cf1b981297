package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type RefillBalanceRequest struct {
	MemberID string          `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

func (r RefillBalanceRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.MemberID) == "" {
		errs = append(errs, "memberId is required")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type RefillBalanceResponse struct {
	Entry      LedgerEntryView `json:"entry"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

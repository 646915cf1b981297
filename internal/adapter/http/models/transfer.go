package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type RequestTransferRequest struct {
	RecipientCardID string          `json:"recipientCardId"`
	Amount          decimal.Decimal `json:"amount"`
	Note            string          `json:"note"`
}

func (r RequestTransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.RecipientCardID) == "" {
		errs = append(errs, "recipientCardId is required")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// RequestTransferResponse deliberately never carries the code itself; the
// code travels only over the notification sink.
type RequestTransferResponse struct {
	RecipientName string `json:"recipientName"`
	ExpiresIn     int    `json:"expiresIn"`
}

type ExecuteTransferRequest struct {
	Code string `json:"code"`
}

func (r ExecuteTransferRequest) Validate() error {
	if !isDigits(strings.TrimSpace(r.Code), 6) {
		return errors.New("code must be exactly 6 digits")
	}
	return nil
}

type ExecuteTransferResponse struct {
	Amount         decimal.Decimal `json:"amount"`
	RecipientName  string          `json:"recipientName"`
	NewBalance     decimal.Decimal `json:"newBalance"`
	SenderEntry    LedgerEntryView `json:"senderEntry"`
	RecipientEntry LedgerEntryView `json:"recipientEntry"`
}

type SearchMemberResponse struct {
	CardID   string `json:"cardId"`
	FullName string `json:"fullName"`
}

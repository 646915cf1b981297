package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ProcessRefundRequest struct {
	SaleID string `json:"saleId"`
	Reason string `json:"reason"`
}

func (r ProcessRefundRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.SaleID) == "" {
		errs = append(errs, "saleId is required")
	}
	if strings.TrimSpace(r.Reason) == "" {
		errs = append(errs, "reason is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// RefundReceipt is the raw data a kiosk needs to print a refund slip.
// Rendering is out of scope; this carries numbers and labels only.
type RefundReceipt struct {
	SaleID        string           `json:"saleId"`
	SaleNumber    string           `json:"saleNumber"`
	MemberName    string           `json:"memberName,omitempty"`
	Reason        string           `json:"reason"`
	RefundedAt    time.Time        `json:"refundedAt"`
	Items         []SaleItemView   `json:"items"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	VatableSale   decimal.Decimal  `json:"vatableSale"`
	VATAmount     decimal.Decimal  `json:"vatAmount"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	BalanceBefore *decimal.Decimal `json:"balanceBefore,omitempty"`
	BalanceAfter  *decimal.Decimal `json:"balanceAfter,omitempty"`
}

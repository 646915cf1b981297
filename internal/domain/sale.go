package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Sale is a completed kiosk purchase. The refund engine transitions
// completed sales to cancelled exactly once; a cancelled sale can never be
// refunded again.
type Sale struct {
	ID            string
	Number        string
	MemberID      *string
	Subtotal      decimal.Decimal
	VatableSale   decimal.Decimal
	VATAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Status        SaleStatus
	Note          string
	Items         []SaleItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   *string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

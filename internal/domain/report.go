package domain

import "github.com/shopspring/decimal"

// SalesTotals is the daily-report aggregate. Refund figures come from sale
// status transitions, never from note matching.
type SalesTotals struct {
	SalesCount  int
	SalesTotal  decimal.Decimal
	RefundCount int
	RefundTotal decimal.Decimal
}

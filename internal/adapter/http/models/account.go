package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/genglo/coop-kiosk/internal/commons"
	"github.com/genglo/coop-kiosk/internal/domain"
)

type MemberView struct {
	ID              string          `json:"id"`
	CardID          string          `json:"cardId"`
	Username        string          `json:"username,omitempty"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	FullName        string          `json:"fullName"`
	Email           string          `json:"email,omitempty"`
	Role            string          `json:"role"`
	Balance         decimal.Decimal `json:"balance"`
	LastTransaction *time.Time      `json:"lastTransaction,omitempty"`
}

func NewMemberView(member domain.Member) MemberView {
	return MemberView{
		ID:              member.ID,
		CardID:          member.CardID,
		Username:        member.Username,
		FirstName:       member.FirstName,
		LastName:        member.LastName,
		FullName:        member.FullName(),
		Email:           member.Email,
		Role:            string(member.Role),
		Balance:         member.Balance,
		LastTransaction: member.LastTransaction,
	}
}

type LedgerEntryView struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	Note          string          `json:"note,omitempty"`
	SaleID        *string         `json:"saleId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func NewLedgerEntryView(entry domain.LedgerEntry) LedgerEntryView {
	return LedgerEntryView{
		ID:            entry.ID,
		Kind:          string(entry.Kind),
		Amount:        entry.Amount,
		BalanceBefore: entry.BalanceBefore,
		BalanceAfter:  entry.BalanceAfter,
		Note:          entry.Note,
		SaleID:        entry.SaleID,
		CreatedAt:     entry.CreatedAt,
	}
}

func NewLedgerEntryViews(entries []domain.LedgerEntry) []LedgerEntryView {
	views := make([]LedgerEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, NewLedgerEntryView(entry))
	}
	return views
}

type LedgerHistoryResponse struct {
	Entries    []LedgerEntryView  `json:"entries"`
	Pagination commons.Pagination `json:"pagination"`
}

type SaleItemView struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type SaleView struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	Items       []SaleItemView  `json:"items"`
}

func NewSaleView(sale domain.Sale) SaleView {
	view := SaleView{
		ID:          sale.ID,
		Number:      sale.Number,
		Status:      string(sale.Status),
		TotalAmount: sale.TotalAmount,
		CreatedAt:   sale.CreatedAt,
		Items:       make([]SaleItemView, 0, len(sale.Items)),
	}
	for _, item := range sale.Items {
		view.Items = append(view.Items, SaleItemView{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return view
}

type AccountSummaryResponse struct {
	Member        MemberView        `json:"member"`
	MonthSpend    decimal.Decimal   `json:"monthSpend"`
	RecentSales   []SaleView        `json:"recentSales"`
	RecentEntries []LedgerEntryView `json:"recentEntries"`
}

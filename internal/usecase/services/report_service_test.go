package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genglo/coop-kiosk/internal/adapter/repository/memory"
	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/notify"
	"github.com/genglo/coop-kiosk/internal/usecase/services"
)

func TestDailySummaryCountsSalesAndRefunds(t *testing.T) {
	store := memory.NewStore()
	recorder := notify.NewRecorder()
	member := store.AddMember(domain.Member{CardID: "1001", Role: domain.RoleMember, IsActive: true})

	store.AddSale(domain.Sale{
		Number: "SALE-0001", MemberID: &member.ID,
		TotalAmount: decimal.NewFromInt(100), Status: domain.SaleStatusCompleted,
	})
	store.AddSale(domain.Sale{
		Number: "SALE-0002", MemberID: &member.ID,
		TotalAmount: decimal.NewFromInt(40), Status: domain.SaleStatusCompleted,
	})
	// Cancelled today counts as a refund regardless of sale date.
	store.AddSale(domain.Sale{
		Number: "SALE-0003", MemberID: &member.ID,
		TotalAmount: decimal.NewFromInt(25), Status: domain.SaleStatusCancelled,
	})

	service := services.NewReportService(memory.NewSaleRepository(store), recorder, "admin@example.test")

	totals, err := service.DailySummary(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, totals.SalesCount)
	assert.True(t, totals.SalesTotal.Equal(decimal.NewFromInt(140)))
	assert.Equal(t, 1, totals.RefundCount)
	assert.True(t, totals.RefundTotal.Equal(decimal.NewFromInt(25)))
}

func TestSendDailySummaryEmailsAdmin(t *testing.T) {
	store := memory.NewStore()
	recorder := notify.NewRecorder()
	service := services.NewReportService(memory.NewSaleRepository(store), recorder, "admin@example.test")

	require.NoError(t, service.SendDailySummary(context.Background(), time.Now()))

	messages := recorder.SentTo("admin@example.test")
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Subject, "Daily kiosk summary")
}

func TestSendDailySummaryWithoutAdminAddress(t *testing.T) {
	store := memory.NewStore()
	recorder := notify.NewRecorder()
	service := services.NewReportService(memory.NewSaleRepository(store), recorder, "")

	require.NoError(t, service.SendDailySummary(context.Background(), time.Now()))
	assert.Empty(t, recorder.Sent())
}

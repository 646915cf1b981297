package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genglo/coop-kiosk/internal/adapter/http/models"
	"github.com/genglo/coop-kiosk/internal/adapter/repository/memory"
	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/notify"
	"github.com/genglo/coop-kiosk/internal/usecase/services"
)

const adminEmail = "admin@example.test"

type balanceFixture struct {
	store    *memory.Store
	recorder *notify.Recorder
	service  *services.BalanceService
	admin    domain.Member
	staff    domain.Member
	member   domain.Member
}

func newBalanceFixture(t *testing.T) *balanceFixture {
	t.Helper()

	store := memory.NewStore()
	recorder := notify.NewRecorder()

	admin := store.AddMember(domain.Member{
		CardID: "9001", Username: "admin", FirstName: "Alma", LastName: "Reyes",
		Role: domain.RoleAdmin, IsActive: true,
	})
	staff := store.AddMember(domain.Member{
		CardID: "9002", Username: "staff", FirstName: "Bayani", LastName: "Cruz",
		Role: domain.RoleStaff, IsActive: true,
	})
	member := store.AddMember(domain.Member{
		CardID: "1001", FirstName: "Ana", LastName: "Santos",
		Role: domain.RoleMember, Balance: decimal.NewFromInt(100), IsActive: true,
	})

	service := services.NewBalanceService(
		memory.NewMemberRepository(store),
		memory.NewLedgerRepository(store),
		memory.NewSaleRepository(store),
		recorder,
		adminEmail,
	)

	return &balanceFixture{store: store, recorder: recorder, service: service, admin: admin, staff: staff, member: member}
}

func TestRefillBalanceByAdmin(t *testing.T) {
	f := newBalanceFixture(t)

	response, err := f.service.RefillBalance(context.Background(), f.admin.ID, models.RefillBalanceRequest{
		MemberID: f.member.ID,
		Amount:   decimal.NewFromInt(250),
	})
	require.NoError(t, err)
	require.NotNil(t, response.Data)

	assert.True(t, response.Data.NewBalance.Equal(decimal.NewFromInt(350)))
	assert.Contains(t, response.Data.Entry.Note, "admin")
	// Admin refills do not trigger the staff audit email.
	assert.Empty(t, f.recorder.SentTo(adminEmail))
}

func TestRefillBalanceByStaffNotifiesAdmin(t *testing.T) {
	f := newBalanceFixture(t)

	_, err := f.service.RefillBalance(context.Background(), f.staff.ID, models.RefillBalanceRequest{
		MemberID: f.member.ID,
		Amount:   decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	audits := f.recorder.SentTo(adminEmail)
	require.Len(t, audits, 1)
	assert.Contains(t, audits[0].Body, "Bayani Cruz")
	assert.Contains(t, audits[0].Body, "50.00")
}

func TestRefillBalanceDeniedForMember(t *testing.T) {
	f := newBalanceFixture(t)

	_, err := f.service.RefillBalance(context.Background(), f.member.ID, models.RefillBalanceRequest{
		MemberID: f.member.ID,
		Amount:   decimal.NewFromInt(50),
	})
	require.ErrorIs(t, err, domain.ErrPermissionDenied)

	balance := f.storeBalance(t)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))
}

func TestRefillBalanceValidation(t *testing.T) {
	f := newBalanceFixture(t)

	_, err := f.service.RefillBalance(context.Background(), f.admin.ID, models.RefillBalanceRequest{
		MemberID: f.member.ID,
		Amount:   decimal.Zero,
	})
	require.Error(t, err)
}

func TestLedgerHistoryPagination(t *testing.T) {
	f := newBalanceFixture(t)
	ledger := memory.NewLedgerRepository(f.store)

	for i := 0; i < 5; i++ {
		_, err := ledger.ApplyDelta(context.Background(), f.member.ID, domain.EntryDeposit, decimal.NewFromInt(int64(i+1)), "", nil)
		require.NoError(t, err)
	}

	response, err := f.service.LedgerHistory(context.Background(), f.member.ID, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, response.Data)

	assert.Len(t, response.Data.Entries, 2)
	assert.Equal(t, 5, response.Data.Pagination.Total)
	assert.True(t, response.Data.Pagination.HasNext)
	assert.False(t, response.Data.Pagination.HasPrevious)
	// Newest first: the last deposit of 5 leads the page.
	assert.True(t, response.Data.Entries[0].Amount.Equal(decimal.NewFromInt(5)))
}

func TestAccountSummary(t *testing.T) {
	f := newBalanceFixture(t)
	ledger := memory.NewLedgerRepository(f.store)

	_, err := ledger.ApplyDelta(context.Background(), f.member.ID, domain.EntryDeduction, decimal.NewFromInt(30), "purchase", nil)
	require.NoError(t, err)

	sale := f.store.AddSale(domain.Sale{
		Number:      "SALE-0001",
		MemberID:    &f.member.ID,
		TotalAmount: decimal.NewFromInt(30),
		Status:      domain.SaleStatusCompleted,
	})

	response, err := f.service.AccountSummary(context.Background(), f.member.ID, sale.CreatedAt.Year(), sale.CreatedAt.Month())
	require.NoError(t, err)
	require.NotNil(t, response.Data)

	assert.Equal(t, "Ana Santos", response.Data.Member.FullName)
	assert.True(t, response.Data.MonthSpend.Equal(decimal.NewFromInt(30)))
	require.Len(t, response.Data.RecentSales, 1)
	assert.Equal(t, "SALE-0001", response.Data.RecentSales[0].Number)
	require.Len(t, response.Data.RecentEntries, 1)
	assert.Equal(t, "deduction", response.Data.RecentEntries[0].Kind)
}

func (f *balanceFixture) storeBalance(t *testing.T) decimal.Decimal {
	t.Helper()
	balance, err := memory.NewLedgerRepository(f.store).GetBalance(context.Background(), f.member.ID)
	require.NoError(t, err)
	return balance
}

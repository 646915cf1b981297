package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genglo/coop-kiosk/internal/adapter/repository/memory"
	"github.com/genglo/coop-kiosk/internal/adapter/repository/repo_interfaces"
	"github.com/genglo/coop-kiosk/internal/domain"
)

func seedMember(t *testing.T, store *memory.Store, cardID string, balance int64) domain.Member {
	t.Helper()
	return store.AddMember(domain.Member{
		CardID:    cardID,
		FirstName: "Test",
		LastName:  cardID,
		Role:      domain.RoleMember,
		Balance:   decimal.NewFromInt(balance),
		IsActive:  true,
	})
}

func TestApplyDeltaDepositAndDeduction(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewLedgerRepository(store)
	member := seedMember(t, store, "1001", 100)

	entry, err := repo.ApplyDelta(context.Background(), member.ID, domain.EntryDeposit, decimal.NewFromInt(50), "refill", nil)
	require.NoError(t, err)
	assert.True(t, entry.BalanceBefore.Equal(decimal.NewFromInt(100)))
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(150)))

	entry, err = repo.ApplyDelta(context.Background(), member.ID, domain.EntryDeduction, decimal.NewFromInt(30), "purchase", nil)
	require.NoError(t, err)
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(120)))

	balance, err := repo.GetBalance(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(120)))
}

func TestApplyDeltaRejectsOverdraft(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewLedgerRepository(store)
	member := seedMember(t, store, "1001", 100)

	_, err := repo.ApplyDelta(context.Background(), member.ID, domain.EntryDeduction, decimal.NewFromInt(101), "too much", nil)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Nothing was written.
	assert.Empty(t, store.EntriesOf(member.ID))
	balance, err := repo.GetBalance(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))
}

func TestApplyDeltaRejectsNonPositiveAmount(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewLedgerRepository(store)
	member := seedMember(t, store, "1001", 100)

	_, err := repo.ApplyDelta(context.Background(), member.ID, domain.EntryDeposit, decimal.Zero, "", nil)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = repo.ApplyDelta(context.Background(), member.ID, domain.EntryDeposit, decimal.NewFromInt(-5), "", nil)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestLedgerSumMatchesBalance(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewLedgerRepository(store)
	member := seedMember(t, store, "1001", 0)

	amounts := []struct {
		kind  domain.EntryKind
		value int64
	}{
		{domain.EntryDeposit, 200},
		{domain.EntryDeduction, 75},
		{domain.EntryDeposit, 10},
		{domain.EntryDeduction, 40},
		{domain.EntryDeposit, 5},
	}
	for _, a := range amounts {
		_, err := repo.ApplyDelta(context.Background(), member.ID, a.kind, decimal.NewFromInt(a.value), "", nil)
		require.NoError(t, err)
	}

	sum := decimal.Zero
	for _, entry := range store.EntriesOf(member.ID) {
		sum = sum.Add(entry.SignedAmount())
	}

	balance, err := repo.GetBalance(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(balance), "ledger sum %s != balance %s", sum, balance)
}

func TestConcurrentDeductionsNeverOverdraw(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewLedgerRepository(store)
	member := seedMember(t, store, "1001", 100)

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ApplyDelta(context.Background(), member.ID, domain.EntryDeduction, decimal.NewFromInt(60), "race", nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientBalance)
		}
	}

	// 100 only covers one deduction of 60.
	assert.Equal(t, 1, succeeded)
	balance, err := repo.GetBalance(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(40)))
}

func TestConcurrentTransfersRespectBalance(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewLedgerRepository(store)
	sender := seedMember(t, store, "1001", 100)
	recipient := seedMember(t, store, "1002", 0)

	// Two pending intents seeded directly; their combined amount exceeds
	// the sender's balance, so at most one transfer may go through.
	first := store.SeedIntent(domain.TransferIntent{
		SenderID:        sender.ID,
		RecipientCardID: recipient.CardID,
		Amount:          decimal.NewFromInt(70),
		Code:            "111111",
		ExpiresAt:       time.Now().Add(time.Hour),
	})
	second := store.SeedIntent(domain.TransferIntent{
		SenderID:        sender.ID,
		RecipientCardID: recipient.CardID,
		Amount:          decimal.NewFromInt(70),
		Code:            "222222",
		ExpiresAt:       time.Now().Add(time.Hour),
	})

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, intent := range []domain.TransferIntent{first, second} {
		intent := intent
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.ExecuteTransfer(context.Background(), repo_interfaces.ExecuteTransferParams{
				IntentID:    intent.ID,
				SenderID:    sender.ID,
				RecipientID: recipient.ID,
				Amount:      intent.Amount,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	require.Equal(t, 1, succeeded)

	senderBalance, err := repo.GetBalance(context.Background(), sender.ID)
	require.NoError(t, err)
	recipientBalance, err := repo.GetBalance(context.Background(), recipient.ID)
	require.NoError(t, err)

	assert.True(t, senderBalance.Equal(decimal.NewFromInt(30)))
	assert.True(t, recipientBalance.Equal(decimal.NewFromInt(70)))
	// Money is conserved across the pair.
	assert.True(t, senderBalance.Add(recipientBalance).Equal(decimal.NewFromInt(100)))
}

func TestExecuteTransferConsumesIntentOnce(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewLedgerRepository(store)
	sender := seedMember(t, store, "1001", 100)
	recipient := seedMember(t, store, "1002", 0)

	intent := store.SeedIntent(domain.TransferIntent{
		SenderID:        sender.ID,
		RecipientCardID: recipient.CardID,
		Amount:          decimal.NewFromInt(25),
		Code:            "333333",
		ExpiresAt:       time.Now().Add(time.Hour),
	})

	params := repo_interfaces.ExecuteTransferParams{
		IntentID:    intent.ID,
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Amount:      intent.Amount,
	}

	debit, credit, err := repo.ExecuteTransfer(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, debit.BalanceAfter.Equal(decimal.NewFromInt(75)))
	assert.True(t, credit.BalanceAfter.Equal(decimal.NewFromInt(25)))

	_, _, err = repo.ExecuteTransfer(context.Background(), params)
	require.ErrorIs(t, err, domain.ErrOtpAlreadyUsed)
}

func TestRefundSaleTransitionsOnce(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewLedgerRepository(store)
	member := seedMember(t, store, "1001", 10)

	sale := store.AddSale(domain.Sale{
		Number:      "SALE-0001",
		MemberID:    &member.ID,
		TotalAmount: decimal.NewFromInt(90),
		Status:      domain.SaleStatusCompleted,
	})

	params := repo_interfaces.RefundSaleParams{
		SaleID:   sale.ID,
		MemberID: &member.ID,
		Amount:   sale.TotalAmount,
		Note:     "Refund for sale SALE-0001",
		SaleNote: "Refunded: damaged",
	}

	entry, err := repo.RefundSale(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, entry.SaleID)
	assert.Equal(t, sale.ID, *entry.SaleID)

	_, err = repo.RefundSale(context.Background(), params)
	require.ErrorIs(t, err, domain.ErrNotRefundable)
}

func TestRefundSaleGuestSkipsCredit(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewLedgerRepository(store)

	sale := store.AddSale(domain.Sale{
		Number:      "SALE-0002",
		TotalAmount: decimal.NewFromInt(40),
		Status:      domain.SaleStatusCompleted,
	})

	entry, err := repo.RefundSale(context.Background(), repo_interfaces.RefundSaleParams{
		SaleID:   sale.ID,
		Amount:   sale.TotalAmount,
		SaleNote: "Refunded: guest return",
	})
	require.NoError(t, err)
	assert.Nil(t, entry)

	saleRepo := memory.NewSaleRepository(store)
	updated, err := saleRepo.GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusCancelled, updated.Status)
}

func TestIntentCreateSupersedesPending(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewTransferIntentRepository(store)

	first, err := repo.Create(context.Background(), domain.TransferIntent{
		SenderID:        "sender",
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(10),
		Code:            "111111",
		ExpiresAt:       time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	second, err := repo.Create(context.Background(), domain.TransferIntent{
		SenderID:        "sender",
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(20),
		Code:            "222222",
		ExpiresAt:       time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	found, err := repo.FindByCode(context.Background(), "sender", first.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSuperseded, found.Status)

	found, err = repo.FindByCode(context.Background(), "sender", second.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentPending, found.Status)
}

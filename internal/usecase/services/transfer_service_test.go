package services_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genglo/coop-kiosk/internal/adapter/http/models"
	"github.com/genglo/coop-kiosk/internal/adapter/repository/memory"
	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/notify"
	"github.com/genglo/coop-kiosk/internal/usecase/services"
)

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

type transferFixture struct {
	store     *memory.Store
	recorder  *notify.Recorder
	service   *services.TransferService
	sender    domain.Member
	recipient domain.Member
}

func newTransferFixture(t *testing.T, otpTTL time.Duration) *transferFixture {
	t.Helper()

	store := memory.NewStore()
	recorder := notify.NewRecorder()

	sender := store.AddMember(domain.Member{
		CardID:    "1001",
		FirstName: "Ana",
		LastName:  "Santos",
		Email:     "ana@example.test",
		Role:      domain.RoleMember,
		Balance:   decimal.NewFromInt(500),
		IsActive:  true,
	})
	recipient := store.AddMember(domain.Member{
		CardID:    "1002",
		FirstName: "Ben",
		LastName:  "Lim",
		Email:     "ben@example.test",
		Role:      domain.RoleMember,
		Balance:   decimal.NewFromInt(50),
		IsActive:  true,
	})

	service := services.NewTransferService(
		memory.NewMemberRepository(store),
		memory.NewLedgerRepository(store),
		memory.NewTransferIntentRepository(store),
		recorder,
		otpTTL,
	)

	return &transferFixture{
		store:     store,
		recorder:  recorder,
		service:   service,
		sender:    sender,
		recipient: recipient,
	}
}

// lastCode pulls the most recently emailed one-time code.
func (f *transferFixture) lastCode(t *testing.T) string {
	t.Helper()

	messages := f.recorder.SentTo(f.sender.Email)
	require.NotEmpty(t, messages, "expected a code email to the sender")

	match := codePattern.FindStringSubmatch(messages[len(messages)-1].Body)
	require.Len(t, match, 2, "expected a 6-digit code in the email body")
	return match[1]
}

func TestRequestTransferSendsCodeNotResponse(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)

	response, err := f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	require.NotNil(t, response.Data)
	assert.Equal(t, 600, response.Data.ExpiresIn)
	assert.Equal(t, "Ben Lim", response.Data.RecipientName)

	code := f.lastCode(t)
	assert.Len(t, code, 6)
}

func TestTransferHappyPath(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)

	_, err := f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(200),
		Note:            "groceries",
	})
	require.NoError(t, err)
	code := f.lastCode(t)

	response, err := f.service.ExecuteTransfer(context.Background(), f.sender.ID, models.ExecuteTransferRequest{Code: code})
	require.NoError(t, err)
	require.NotNil(t, response.Data)

	assert.True(t, response.Data.NewBalance.Equal(decimal.NewFromInt(300)))
	assert.True(t, response.Data.SenderEntry.BalanceAfter.Equal(decimal.NewFromInt(300)))
	assert.True(t, response.Data.RecipientEntry.BalanceAfter.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "deduction", response.Data.SenderEntry.Kind)
	assert.Equal(t, "deposit", response.Data.RecipientEntry.Kind)
	assert.Contains(t, response.Data.SenderEntry.Note, "groceries")

	// Completion notifications reached both parties.
	assert.Len(t, f.recorder.SentTo(f.sender.Email), 2)
	assert.Len(t, f.recorder.SentTo(f.recipient.Email), 1)
}

func TestRequestTransferValidation(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)

	_, err := f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(-5),
	})
	require.Error(t, err)
	assert.Empty(t, f.recorder.Sent())
}

func TestRequestTransferInsufficientBalance(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)

	_, err := f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(600),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestRequestTransferToSelf(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)

	_, err := f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: f.sender.CardID,
		Amount:          decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, domain.ErrSelfTransfer)
}

func TestRequestTransferWithoutEmail(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)
	noEmail := f.store.AddMember(domain.Member{
		CardID:   "1003",
		Role:     domain.RoleMember,
		Balance:  decimal.NewFromInt(100),
		IsActive: true,
	})

	_, err := f.service.RequestTransfer(context.Background(), noEmail.ID, models.RequestTransferRequest{
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, domain.ErrMissingContact)
}

func TestRequestTransferUnknownRecipient(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)

	_, err := f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: "9999",
		Amount:          decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestExecuteTransferWrongCode(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)

	_, err := f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = f.service.ExecuteTransfer(context.Background(), f.sender.ID, models.ExecuteTransferRequest{Code: "000000"})
	require.ErrorIs(t, err, domain.ErrOtpNotFound)
}

func TestExecuteTransferExpiredCode(t *testing.T) {
	// A negative TTL makes every issued code already expired.
	f := newTransferFixture(t, -time.Minute)

	_, err := f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	code := f.lastCode(t)

	_, err = f.service.ExecuteTransfer(context.Background(), f.sender.ID, models.ExecuteTransferRequest{Code: code})
	require.ErrorIs(t, err, domain.ErrOtpExpired)
}

func TestExecuteTransferReusedCode(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)

	_, err := f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	code := f.lastCode(t)

	_, err = f.service.ExecuteTransfer(context.Background(), f.sender.ID, models.ExecuteTransferRequest{Code: code})
	require.NoError(t, err)

	_, err = f.service.ExecuteTransfer(context.Background(), f.sender.ID, models.ExecuteTransferRequest{Code: code})
	require.ErrorIs(t, err, domain.ErrOtpAlreadyUsed)
}

func TestNewRequestSupersedesOldCode(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)

	_, err := f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	oldCode := f.lastCode(t)

	_, err = f.service.RequestTransfer(context.Background(), f.sender.ID, models.RequestTransferRequest{
		RecipientCardID: "1002",
		Amount:          decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	newCode := f.lastCode(t)

	if oldCode != newCode {
		_, err = f.service.ExecuteTransfer(context.Background(), f.sender.ID, models.ExecuteTransferRequest{Code: oldCode})
		require.ErrorIs(t, err, domain.ErrOtpNotFound)
	}

	response, err := f.service.ExecuteTransfer(context.Background(), f.sender.ID, models.ExecuteTransferRequest{Code: newCode})
	require.NoError(t, err)
	assert.True(t, response.Data.NewBalance.Equal(decimal.NewFromInt(480)))
}

func TestSearchMember(t *testing.T) {
	f := newTransferFixture(t, 10*time.Minute)

	response, err := f.service.SearchMember(context.Background(), f.sender.ID, "1002")
	require.NoError(t, err)
	require.NotNil(t, response.Data)
	assert.Equal(t, "Ben Lim", response.Data.FullName)

	_, err = f.service.SearchMember(context.Background(), f.sender.ID, f.sender.CardID)
	require.ErrorIs(t, err, domain.ErrSelfTransfer)

	_, err = f.service.SearchMember(context.Background(), f.sender.ID, "9999")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, LoginRequest{Username: "ana", PIN: "1234"}.Validate())
	assert.NoError(t, LoginRequest{CardID: "1001", PIN: "1234"}.Validate())

	assert.Error(t, LoginRequest{PIN: "1234"}.Validate(), "needs username or card")
	assert.Error(t, LoginRequest{Username: "ana", CardID: "1001", PIN: "1234"}.Validate(), "not both")
	assert.Error(t, LoginRequest{Username: "ana", PIN: "123"}.Validate(), "short pin")
	assert.Error(t, LoginRequest{Username: "ana", PIN: "12ab"}.Validate(), "non-digit pin")
}

func TestRequestTransferRequestValidate(t *testing.T) {
	valid := RequestTransferRequest{RecipientCardID: "1002", Amount: decimal.NewFromInt(10)}
	assert.NoError(t, valid.Validate())

	assert.Error(t, RequestTransferRequest{Amount: decimal.NewFromInt(10)}.Validate())
	assert.Error(t, RequestTransferRequest{RecipientCardID: "1002"}.Validate())
	assert.Error(t, RequestTransferRequest{RecipientCardID: "1002", Amount: decimal.NewFromInt(-1)}.Validate())
}

func TestExecuteTransferRequestValidate(t *testing.T) {
	assert.NoError(t, ExecuteTransferRequest{Code: "123456"}.Validate())
	assert.Error(t, ExecuteTransferRequest{Code: "12345"}.Validate())
	assert.Error(t, ExecuteTransferRequest{Code: "12345a"}.Validate())
	assert.Error(t, ExecuteTransferRequest{}.Validate())
}

func TestRefillBalanceRequestValidate(t *testing.T) {
	assert.NoError(t, RefillBalanceRequest{MemberID: "m1", Amount: decimal.NewFromInt(5)}.Validate())
	assert.Error(t, RefillBalanceRequest{Amount: decimal.NewFromInt(5)}.Validate())
	assert.Error(t, RefillBalanceRequest{MemberID: "m1"}.Validate())
}

func TestProcessRefundRequestValidate(t *testing.T) {
	assert.NoError(t, ProcessRefundRequest{SaleID: "s1", Reason: "damaged"}.Validate())
	assert.Error(t, ProcessRefundRequest{Reason: "damaged"}.Validate())
	assert.Error(t, ProcessRefundRequest{SaleID: "s1"}.Validate())
}

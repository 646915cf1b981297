package service_interfaces

import (
	"context"
	"time"

	"github.com/genglo/coop-kiosk/internal/adapter/http/models"
	"github.com/genglo/coop-kiosk/internal/commons"
)

type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error)

	// ResolveSession maps a bearer token to a member id. The second return
	// is false for unknown or expired tokens.
	ResolveSession(token string) (string, bool)
}

type TransferService interface {
	RequestTransfer(ctx context.Context, senderID string, req models.RequestTransferRequest) (commons.Response[models.RequestTransferResponse], error)
	ExecuteTransfer(ctx context.Context, senderID string, req models.ExecuteTransferRequest) (commons.Response[models.ExecuteTransferResponse], error)
	SearchMember(ctx context.Context, requesterID string, cardID string) (commons.Response[models.SearchMemberResponse], error)
}

type BalanceService interface {
	Account(ctx context.Context, memberID string) (commons.Response[models.MemberView], error)
	AccountSummary(ctx context.Context, memberID string, year int, month time.Month) (commons.Response[models.AccountSummaryResponse], error)
	LedgerHistory(ctx context.Context, memberID string, page, limit int) (commons.Response[models.LedgerHistoryResponse], error)
	RefillBalance(ctx context.Context, actorID string, req models.RefillBalanceRequest) (commons.Response[models.RefillBalanceResponse], error)
}

type RefundService interface {
	Refund(ctx context.Context, actorID string, req models.ProcessRefundRequest) (commons.Response[models.RefundReceipt], error)
}

type ReportService interface {
	SendDailySummary(ctx context.Context, date time.Time) error
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/genglo/coop-kiosk/internal/adapter/http/models"
	"github.com/genglo/coop-kiosk/internal/adapter/repository/repo_interfaces"
	"github.com/genglo/coop-kiosk/internal/commons"
	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/logger"
	"github.com/genglo/coop-kiosk/internal/notify"
)

const (
	summaryRecentSales   = 5
	summaryRecentEntries = 5
	maxHistoryLimit      = 100
)

type BalanceService struct {
	memberRepo repo_interfaces.MemberRepository
	ledgerRepo repo_interfaces.LedgerRepository
	saleRepo   repo_interfaces.SaleRepository
	notifier   notify.Notifier
	adminEmail string
}

func NewBalanceService(
	memberRepo repo_interfaces.MemberRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
	saleRepo repo_interfaces.SaleRepository,
	notifier notify.Notifier,
	adminEmail string,
) *BalanceService {
	return &BalanceService{
		memberRepo: memberRepo,
		ledgerRepo: ledgerRepo,
		saleRepo:   saleRepo,
		notifier:   notifier,
		adminEmail: strings.TrimSpace(adminEmail),
	}
}

func (s *BalanceService) Account(ctx context.Context, memberID string) (commons.Response[models.MemberView], error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.MemberView]("Member not found"), err
		}
		return commons.ErrorResponse[models.MemberView]("failed to load account", "Unable to load account right now"), err
	}

	return commons.SuccessResponse("Account loaded", models.NewMemberView(member)), nil
}

func (s *BalanceService) AccountSummary(ctx context.Context, memberID string, year int, month time.Month) (commons.Response[models.AccountSummaryResponse], error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountSummaryResponse]("Member not found"), err
		}
		return commons.ErrorResponse[models.AccountSummaryResponse]("failed to load summary", "Unable to load summary right now"), err
	}

	spend, err := s.saleRepo.MonthlySpend(ctx, memberID, year, month)
	if err != nil {
		return commons.ErrorResponse[models.AccountSummaryResponse]("failed to load summary", "Unable to load summary right now"), err
	}

	sales, _, err := s.saleRepo.ListCompletedByMember(ctx, memberID, 1, summaryRecentSales)
	if err != nil {
		return commons.ErrorResponse[models.AccountSummaryResponse]("failed to load summary", "Unable to load summary right now"), err
	}

	entries, _, err := s.ledgerRepo.ListByMember(ctx, memberID, 1, summaryRecentEntries)
	if err != nil {
		return commons.ErrorResponse[models.AccountSummaryResponse]("failed to load summary", "Unable to load summary right now"), err
	}

	summary := models.AccountSummaryResponse{
		Member:        models.NewMemberView(member),
		MonthSpend:    spend,
		RecentSales:   make([]models.SaleView, 0, len(sales)),
		RecentEntries: models.NewLedgerEntryViews(entries),
	}
	for _, sale := range sales {
		summary.RecentSales = append(summary.RecentSales, models.NewSaleView(sale))
	}

	return commons.SuccessResponse("Summary loaded", summary), nil
}

func (s *BalanceService) LedgerHistory(ctx context.Context, memberID string, page, limit int) (commons.Response[models.LedgerHistoryResponse], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, total, err := s.ledgerRepo.ListByMember(ctx, memberID, page, limit)
	if err != nil {
		return commons.ErrorResponse[models.LedgerHistoryResponse]("failed to load transactions", "Unable to load transactions right now"), err
	}

	return commons.SuccessResponse("Transactions loaded", models.LedgerHistoryResponse{
		Entries:    models.NewLedgerEntryViews(entries),
		Pagination: commons.NewPagination(page, limit, total),
	}), nil
}

func (s *BalanceService) RefillBalance(ctx context.Context, actorID string, req models.RefillBalanceRequest) (commons.Response[models.RefillBalanceResponse], error) {
	logger.Info("balance service refill request", logger.Fields{
		"actorId": actorID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.RefillBalanceResponse]("validation failed", err.Error()), err
	}

	actor, err := s.memberRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.RefillBalanceResponse]("Member not found"), err
		}
		return commons.ErrorResponse[models.RefillBalanceResponse]("failed to refill balance", "Unable to refill balance right now"), err
	}
	if !Allowed(actor.Role, ActionRefill) {
		err = domain.ErrPermissionDenied
		return commons.ErrorResponse[models.RefillBalanceResponse]("Not allowed to refill balances"), err
	}

	member, err := s.memberRepo.GetByID(ctx, strings.TrimSpace(req.MemberID))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.RefillBalanceResponse]("Member not found"), err
		}
		return commons.ErrorResponse[models.RefillBalanceResponse]("failed to refill balance", "Unable to refill balance right now"), err
	}
	if !member.IsActive {
		err = domain.ErrAccountInactive
		return commons.ErrorResponse[models.RefillBalanceResponse]("Account is inactive"), err
	}

	note := "Balance refill by " + string(actor.Role)
	if trimmed := strings.TrimSpace(req.Note); trimmed != "" {
		note += ": " + trimmed
	}

	entry, err := s.ledgerRepo.ApplyDelta(ctx, member.ID, domain.EntryDeposit, req.Amount, note, nil)
	if err != nil {
		logger.Error("balance service refill failed", err, logger.Fields{
			"actorId":  actorID,
			"memberId": member.ID,
		})
		return commons.ErrorResponse[models.RefillBalanceResponse]("failed to refill balance", "Unable to refill balance right now"), err
	}

	// Staff refills are audited to the admin address. Admin refills are
	// their own audit trail.
	if actor.Role == domain.RoleStaff && s.adminEmail != "" {
		s.notifier.Dispatch(notify.Message{
			To:      s.adminEmail,
			Subject: "Balance refill by staff",
			Body: fmt.Sprintf(
				"Staff %s refilled %s for member %s (card %s). New balance: %s.\n",
				actor.FullName(), entry.Amount.StringFixed(2), member.FullName(), member.CardID, entry.BalanceAfter.StringFixed(2),
			),
		})
	}

	logger.Info("balance service refill success", logger.Fields{
		"actorId":  actorID,
		"memberId": member.ID,
		"entryId":  entry.ID,
	})

	return commons.SuccessResponse("Balance refilled", models.RefillBalanceResponse{
		Entry:      models.NewLedgerEntryView(entry),
		NewBalance: entry.BalanceAfter,
	}), nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/genglo/coop-kiosk/internal/adapter/http/models"
	"github.com/genglo/coop-kiosk/internal/adapter/repository/repo_interfaces"
	"github.com/genglo/coop-kiosk/internal/commons"
	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/logger"
)

type RefundService struct {
	memberRepo  repo_interfaces.MemberRepository
	ledgerRepo  repo_interfaces.LedgerRepository
	saleRepo    repo_interfaces.SaleRepository
	productRepo repo_interfaces.ProductRepository
	now         func() time.Time
}

func NewRefundService(
	memberRepo repo_interfaces.MemberRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
	saleRepo repo_interfaces.SaleRepository,
	productRepo repo_interfaces.ProductRepository,
) *RefundService {
	return &RefundService{
		memberRepo:  memberRepo,
		ledgerRepo:  ledgerRepo,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

func (s *RefundService) Refund(ctx context.Context, actorID string, req models.ProcessRefundRequest) (commons.Response[models.RefundReceipt], error) {
	logger.Info("refund service process request", logger.Fields{
		"actorId": actorID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.RefundReceipt]("validation failed", err.Error()), err
	}

	actor, err := s.memberRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.RefundReceipt]("Member not found"), err
		}
		return commons.ErrorResponse[models.RefundReceipt]("failed to process refund", "Unable to process refund right now"), err
	}

	sale, err := s.saleRepo.GetByID(ctx, strings.TrimSpace(req.SaleID))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.RefundReceipt]("Sale not found"), err
		}
		return commons.ErrorResponse[models.RefundReceipt]("failed to process refund", "Unable to process refund right now"), err
	}

	if sale.Status != domain.SaleStatusCompleted {
		err = domain.ErrNotRefundable
		return commons.ErrorResponse[models.RefundReceipt]("Only completed sales can be refunded"), err
	}

	ownsSale := sale.MemberID != nil && *sale.MemberID == actor.ID
	if !ownsSale && !Allowed(actor.Role, ActionRefundAny) {
		err = domain.ErrPermissionDenied
		return commons.ErrorResponse[models.RefundReceipt]("Not allowed to refund this sale"), err
	}

	reason := strings.TrimSpace(req.Reason)
	note := fmt.Sprintf("Refund for sale %s: %s", sale.Number, reason)
	saleNote := "Refunded: " + reason

	entry, err := s.ledgerRepo.RefundSale(ctx, repo_interfaces.RefundSaleParams{
		SaleID:   sale.ID,
		MemberID: sale.MemberID,
		Amount:   sale.TotalAmount,
		Note:     note,
		SaleNote: saleNote,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotRefundable):
			return commons.ErrorResponse[models.RefundReceipt]("Only completed sales can be refunded"), err
		case errors.Is(err, domain.ErrRecordNotFound):
			return commons.ErrorResponse[models.RefundReceipt]("Sale not found"), err
		default:
			logger.Error("refund service atomic unit failed", err, logger.Fields{
				"saleId": sale.ID,
			})
			return commons.ErrorResponse[models.RefundReceipt]("failed to process refund", "Unable to process refund right now"), err
		}
	}

	// The financial side is committed. Stock restore is best effort per
	// item; a failed item never blocks the others.
	s.restoreStock(ctx, sale)

	receipt := models.RefundReceipt{
		SaleID:      sale.ID,
		SaleNumber:  sale.Number,
		Reason:      reason,
		RefundedAt:  s.now(),
		Items:       models.NewSaleView(sale).Items,
		Subtotal:    sale.Subtotal,
		VatableSale: sale.VatableSale,
		VATAmount:   sale.VATAmount,
		TotalAmount: sale.TotalAmount,
	}
	if entry != nil {
		before := entry.BalanceBefore
		after := entry.BalanceAfter
		receipt.BalanceBefore = &before
		receipt.BalanceAfter = &after
	}
	if sale.MemberID != nil {
		if member, memberErr := s.memberRepo.GetByID(ctx, *sale.MemberID); memberErr == nil {
			receipt.MemberName = member.FullName()
		}
	}

	logger.Info("refund service process success", logger.Fields{
		"saleId":  sale.ID,
		"actorId": actorID,
	})

	return commons.SuccessResponse("Refund processed", receipt), nil
}

func (s *RefundService) restoreStock(ctx context.Context, sale domain.Sale) {
	g, ctx := errgroup.WithContext(ctx)
	for _, item := range sale.Items {
		if item.ProductID == nil {
			continue
		}
		item := item
		g.Go(func() error {
			if err := s.productRepo.IncrementStock(ctx, *item.ProductID, item.Quantity); err != nil {
				logger.Error("refund service stock restore failed", err, logger.Fields{
					"saleId":    sale.ID,
					"productId": *item.ProductID,
				})
			}
			return nil
		})
	}
	_ = g.Wait()
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/genglo/coop-kiosk/internal/adapter/repository/repo_interfaces"
	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/logger"
	"github.com/genglo/coop-kiosk/internal/notify"
)

type ReportService struct {
	saleRepo   repo_interfaces.SaleRepository
	notifier   notify.Notifier
	adminEmail string
}

func NewReportService(saleRepo repo_interfaces.SaleRepository, notifier notify.Notifier, adminEmail string) *ReportService {
	return &ReportService{
		saleRepo:   saleRepo,
		notifier:   notifier,
		adminEmail: strings.TrimSpace(adminEmail),
	}
}

// DailySummary aggregates one local calendar day. The query is a pure read,
// so re-running a day is always safe.
func (s *ReportService) DailySummary(ctx context.Context, date time.Time) (domain.SalesTotals, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, 1)

	totals, err := s.saleRepo.SalesTotals(ctx, from, to)
	if err != nil {
		return domain.SalesTotals{}, fmt.Errorf("daily summary for %s: %w", from.Format("2006-01-02"), err)
	}

	return totals, nil
}

func (s *ReportService) SendDailySummary(ctx context.Context, date time.Time) error {
	totals, err := s.DailySummary(ctx, date)
	if err != nil {
		logger.Error("report service daily summary failed", err, nil)
		return err
	}

	if s.adminEmail == "" {
		logger.Warn("report service has no admin email, summary not sent", nil)
		return nil
	}

	day := date.Format("2006-01-02")
	s.notifier.Dispatch(notify.Message{
		To:      s.adminEmail,
		Subject: "Daily kiosk summary for " + day,
		Body: fmt.Sprintf(
			"Summary for %s\n\nSales: %d totalling %s\nRefunds: %d totalling %s\n",
			day, totals.SalesCount, totals.SalesTotal.StringFixed(2), totals.RefundCount, totals.RefundTotal.StringFixed(2),
		),
	})

	logger.Info("report service daily summary sent", logger.Fields{
		"date":       day,
		"salesCount": totals.SalesCount,
	})

	return nil
}

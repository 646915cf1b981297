package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/genglo/coop-kiosk/internal/adapter/http/models"
	"github.com/genglo/coop-kiosk/internal/adapter/repository/repo_interfaces"
	"github.com/genglo/coop-kiosk/internal/commons"
	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/logger"
	"github.com/genglo/coop-kiosk/internal/notify"
)

type TransferService struct {
	memberRepo repo_interfaces.MemberRepository
	ledgerRepo repo_interfaces.LedgerRepository
	intentRepo repo_interfaces.TransferIntentRepository
	notifier   notify.Notifier
	otpTTL     time.Duration
	now        func() time.Time
}

func NewTransferService(
	memberRepo repo_interfaces.MemberRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
	intentRepo repo_interfaces.TransferIntentRepository,
	notifier notify.Notifier,
	otpTTL time.Duration,
) *TransferService {
	return &TransferService{
		memberRepo: memberRepo,
		ledgerRepo: ledgerRepo,
		intentRepo: intentRepo,
		notifier:   notifier,
		otpTTL:     otpTTL,
		now:        time.Now,
	}
}

func (s *TransferService) RequestTransfer(ctx context.Context, senderID string, req models.RequestTransferRequest) (commons.Response[models.RequestTransferResponse], error) {
	logger.Info("transfer service request otp", logger.Fields{
		"senderId": senderID,
		"payload":  logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.RequestTransferResponse]("validation failed", err.Error()), err
	}

	sender, recipient, err := s.resolveParties(ctx, senderID, req.RecipientCardID)
	if err != nil {
		return transferPartyError[models.RequestTransferResponse](err), err
	}

	if strings.TrimSpace(sender.Email) == "" {
		err = domain.ErrMissingContact
		return commons.ErrorResponse[models.RequestTransferResponse]("No email address on record", "Add an email address to your account to receive transfer codes"), err
	}
	if sender.Balance.LessThan(req.Amount) {
		err = domain.ErrInsufficientBalance
		return commons.ErrorResponse[models.RequestTransferResponse]("Insufficient balance"), err
	}

	code, err := generateCode()
	if err != nil {
		return commons.ErrorResponse[models.RequestTransferResponse]("failed to request transfer", "Unable to process transfer right now"), err
	}

	intent := domain.TransferIntent{
		SenderID:        sender.ID,
		RecipientCardID: recipient.CardID,
		Amount:          req.Amount.Round(2),
		Note:            strings.TrimSpace(req.Note),
		Code:            code,
		ExpiresAt:       s.now().Add(s.otpTTL),
	}
	intent, err = s.intentRepo.Create(ctx, intent)
	if err != nil {
		logger.Error("transfer service create intent failed", err, logger.Fields{
			"senderId": sender.ID,
		})
		return commons.ErrorResponse[models.RequestTransferResponse]("failed to request transfer", "Unable to process transfer right now"), err
	}

	s.notifier.Dispatch(notify.Message{
		To:      sender.Email,
		Subject: "Your fund transfer code",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour one-time code for the transfer of %s to %s is:\n\n\t%s\n\nThe code expires in %d minutes. If you did not request this transfer, ignore this message.\n",
			sender.FirstName, intent.Amount.StringFixed(2), recipient.FullName(), code, int(s.otpTTL.Minutes()),
		),
	})

	logger.Info("transfer service request otp success", logger.Fields{
		"intentId": intent.ID,
		"senderId": sender.ID,
	})

	return commons.SuccessResponse("Transfer code sent", models.RequestTransferResponse{
		RecipientName: recipient.FullName(),
		ExpiresIn:     int(s.otpTTL.Seconds()),
	}), nil
}

func (s *TransferService) ExecuteTransfer(ctx context.Context, senderID string, req models.ExecuteTransferRequest) (commons.Response[models.ExecuteTransferResponse], error) {
	logger.Info("transfer service verify otp", logger.Fields{
		"senderId": senderID,
		"payload":  logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.ExecuteTransferResponse]("validation failed", err.Error()), err
	}

	intent, err := s.resolveIntent(ctx, senderID, strings.TrimSpace(req.Code))
	if err != nil {
		return intentError[models.ExecuteTransferResponse](err), err
	}

	sender, recipient, err := s.resolveParties(ctx, senderID, intent.RecipientCardID)
	if err != nil {
		return transferPartyError[models.ExecuteTransferResponse](err), err
	}

	if sender.Balance.LessThan(intent.Amount) {
		err = domain.ErrInsufficientBalance
		return commons.ErrorResponse[models.ExecuteTransferResponse]("Insufficient balance"), err
	}

	senderNote := "Fund transfer to " + recipient.FullName()
	recipientNote := "Fund transfer from " + sender.FullName()
	if intent.Note != "" {
		senderNote += ": " + intent.Note
		recipientNote += ": " + intent.Note
	}

	debit, credit, err := s.ledgerRepo.ExecuteTransfer(ctx, repo_interfaces.ExecuteTransferParams{
		IntentID:      intent.ID,
		SenderID:      sender.ID,
		RecipientID:   recipient.ID,
		Amount:        intent.Amount,
		SenderNote:    senderNote,
		RecipientNote: recipientNote,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOtpAlreadyUsed):
			return commons.ErrorResponse[models.ExecuteTransferResponse]("Code already used"), err
		case errors.Is(err, domain.ErrInsufficientBalance):
			return commons.ErrorResponse[models.ExecuteTransferResponse]("Insufficient balance"), err
		default:
			logger.Error("transfer service execute failed", err, logger.Fields{
				"intentId": intent.ID,
			})
			return commons.ErrorResponse[models.ExecuteTransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
		}
	}

	// The money has moved; notifications are best effort from here on.
	s.dispatchCompletion(sender, recipient, intent.Amount.StringFixed(2))

	logger.Info("transfer service verify otp success", logger.Fields{
		"intentId":    intent.ID,
		"senderId":    sender.ID,
		"recipientId": recipient.ID,
	})

	return commons.SuccessResponse("Transfer completed", models.ExecuteTransferResponse{
		Amount:         intent.Amount,
		RecipientName:  recipient.FullName(),
		NewBalance:     debit.BalanceAfter,
		SenderEntry:    models.NewLedgerEntryView(debit),
		RecipientEntry: models.NewLedgerEntryView(credit),
	}), nil
}

func (s *TransferService) SearchMember(ctx context.Context, requesterID string, cardID string) (commons.Response[models.SearchMemberResponse], error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		err := fmt.Errorf("cardId is required")
		return commons.ErrorResponse[models.SearchMemberResponse]("validation failed", err.Error()), err
	}

	_, recipient, err := s.resolveParties(ctx, requesterID, cardID)
	if err != nil {
		return transferPartyError[models.SearchMemberResponse](err), err
	}

	return commons.SuccessResponse("Member found", models.SearchMemberResponse{
		CardID:   recipient.CardID,
		FullName: recipient.FullName(),
	}), nil
}

// resolveParties loads the sender by id and the recipient by card id,
// enforcing the shared transfer preconditions.
func (s *TransferService) resolveParties(ctx context.Context, senderID, recipientCardID string) (domain.Member, domain.Member, error) {
	sender, err := s.memberRepo.GetByID(ctx, senderID)
	if err != nil {
		return domain.Member{}, domain.Member{}, err
	}
	if !sender.IsActive {
		return domain.Member{}, domain.Member{}, domain.ErrAccountInactive
	}

	recipient, err := s.memberRepo.GetByCardID(ctx, strings.TrimSpace(recipientCardID))
	if err != nil {
		return domain.Member{}, domain.Member{}, err
	}
	if recipient.ID == sender.ID {
		return domain.Member{}, domain.Member{}, domain.ErrSelfTransfer
	}

	return sender, recipient, nil
}

// resolveIntent maps the stored intent state to the caller-visible one-time
// code errors. Expiry is checked lazily here, nothing expires codes in the
// background.
func (s *TransferService) resolveIntent(ctx context.Context, senderID, code string) (domain.TransferIntent, error) {
	intent, err := s.intentRepo.FindByCode(ctx, senderID, code)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.TransferIntent{}, domain.ErrOtpNotFound
		}
		return domain.TransferIntent{}, err
	}

	switch intent.Status {
	case domain.IntentUsed:
		return domain.TransferIntent{}, domain.ErrOtpAlreadyUsed
	case domain.IntentSuperseded:
		return domain.TransferIntent{}, domain.ErrOtpNotFound
	}

	if intent.Expired(s.now()) {
		return domain.TransferIntent{}, domain.ErrOtpExpired
	}

	return intent, nil
}

func (s *TransferService) dispatchCompletion(sender, recipient domain.Member, amount string) {
	if strings.TrimSpace(sender.Email) != "" {
		s.notifier.Dispatch(notify.Message{
			To:      sender.Email,
			Subject: "Fund transfer sent",
			Body: fmt.Sprintf(
				"Hi %s,\n\nYour transfer of %s to %s has been completed.\n",
				sender.FirstName, amount, recipient.FullName(),
			),
		})
	}
	if strings.TrimSpace(recipient.Email) != "" {
		s.notifier.Dispatch(notify.Message{
			To:      recipient.Email,
			Subject: "Fund transfer received",
			Body: fmt.Sprintf(
				"Hi %s,\n\nYou received a transfer of %s from %s.\n",
				recipient.FirstName, amount, sender.FullName(),
			),
		})
	}
}

func transferPartyError[T any](err error) commons.Response[T] {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return commons.ErrorResponse[T]("Member not found")
	case errors.Is(err, domain.ErrAccountInactive):
		return commons.ErrorResponse[T]("Account is inactive")
	case errors.Is(err, domain.ErrSelfTransfer):
		return commons.ErrorResponse[T]("Cannot transfer to your own account")
	default:
		return commons.ErrorResponse[T]("failed to process transfer", "Unable to process transfer right now")
	}
}

func intentError[T any](err error) commons.Response[T] {
	switch {
	case errors.Is(err, domain.ErrOtpNotFound):
		return commons.ErrorResponse[T]("Invalid code")
	case errors.Is(err, domain.ErrOtpExpired):
		return commons.ErrorResponse[T]("Code has expired, request a new one")
	case errors.Is(err, domain.ErrOtpAlreadyUsed):
		return commons.ErrorResponse[T]("Code already used")
	default:
		return commons.ErrorResponse[T]("failed to process transfer", "Unable to process transfer right now")
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

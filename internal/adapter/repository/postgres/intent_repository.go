package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/logger"
)

type TransferIntentRepository struct {
	db *sql.DB
}

func NewTransferIntentRepository(db *sql.DB) *TransferIntentRepository {
	return &TransferIntentRepository{db: db}
}

func (r *TransferIntentRepository) Create(ctx context.Context, intent domain.TransferIntent) (domain.TransferIntent, error) {
	logger.Info("transfer intent repository create", logger.Fields{
		"senderId":        intent.SenderID,
		"recipientCardId": intent.RecipientCardID,
		"amount":          intent.Amount.StringFixed(2),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.TransferIntent{}, fmt.Errorf("begin intent transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Supersede rather than delete: the sender keeps at most one pending
	// intent, but every issued intent stays on record.
	const supersedeQuery = `
UPDATE transfer_intents
SET status = 'superseded'
WHERE sender_id = $1 AND status = 'pending'`

	if _, execErr := tx.ExecContext(ctx, supersedeQuery, intent.SenderID); execErr != nil {
		err = fmt.Errorf("supersede pending intents: %w", execErr)
		return domain.TransferIntent{}, err
	}

	const insertQuery = `
INSERT INTO transfer_intents (
	sender_id,
	recipient_card_id,
	amount,
	note,
	code,
	status,
	expires_at
) VALUES ($1, $2, $3, $4, $5, 'pending', $6)
RETURNING id, created_at`

	if err = tx.QueryRowContext(
		ctx,
		insertQuery,
		intent.SenderID,
		intent.RecipientCardID,
		intent.Amount,
		intent.Note,
		intent.Code,
		intent.ExpiresAt,
	).Scan(&intent.ID, &intent.CreatedAt); err != nil {
		err = fmt.Errorf("create transfer intent: %w", err)
		return domain.TransferIntent{}, err
	}
	intent.Status = domain.IntentPending

	if err = tx.Commit(); err != nil {
		return domain.TransferIntent{}, fmt.Errorf("commit intent transaction: %w", err)
	}

	logger.Info("transfer intent repository create success", logger.Fields{
		"intentId": intent.ID,
		"senderId": intent.SenderID,
	})

	return intent, nil
}

func (r *TransferIntentRepository) FindByCode(ctx context.Context, senderID, code string) (domain.TransferIntent, error) {
	const query = `
SELECT id, sender_id, recipient_card_id, amount, note, code, status, created_at, expires_at, verified_at
FROM transfer_intents
WHERE sender_id = $1 AND code = $2
ORDER BY created_at DESC
LIMIT 1`

	var (
		intent     domain.TransferIntent
		verifiedAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, senderID, code).Scan(
		&intent.ID,
		&intent.SenderID,
		&intent.RecipientCardID,
		&intent.Amount,
		&intent.Note,
		&intent.Code,
		&intent.Status,
		&intent.CreatedAt,
		&intent.ExpiresAt,
		&verifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TransferIntent{}, domain.ErrRecordNotFound
		}
		return domain.TransferIntent{}, fmt.Errorf("find transfer intent: %w", err)
	}

	if verifiedAt.Valid {
		value := verifiedAt.Time
		intent.VerifiedAt = &value
	}

	return intent, nil
}

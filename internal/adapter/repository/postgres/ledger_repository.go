package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/genglo/coop-kiosk/internal/adapter/repository/repo_interfaces"
	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/logger"
)

// LedgerRepository owns every balance-affecting transaction. Each public
// mutation is a single sql.Tx: member rows are locked with FOR UPDATE, the
// balance write and the ledger append commit together, and any failure rolls
// the whole unit back.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) GetBalance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT balance FROM members WHERE id = $1`, memberID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, domain.ErrRecordNotFound
		}
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

func (r *LedgerRepository) ListByMember(ctx context.Context, memberID string, page, limit int) ([]domain.LedgerEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	const query = `
SELECT id, member_id, kind, amount, balance_before, balance_after, note, sale_id, created_at
FROM ledger_entries
WHERE member_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, limit)
	for rows.Next() {
		var (
			entry  domain.LedgerEntry
			saleID sql.NullString
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.MemberID,
			&entry.Kind,
			&entry.Amount,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.Note,
			&saleID,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan ledger entry: %w", err)
		}
		if saleID.Valid {
			value := saleID.String
			entry.SaleID = &value
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate ledger entries: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM ledger_entries WHERE member_id = $1`, memberID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	return entries, total, nil
}

func (r *LedgerRepository) ApplyDelta(ctx context.Context, memberID string, kind domain.EntryKind, amount decimal.Decimal, note string, saleID *string) (domain.LedgerEntry, error) {
	logger.Info("ledger repository apply delta", logger.Fields{
		"memberId": memberID,
		"kind":     kind,
		"amount":   amount.StringFixed(2),
	})

	if !amount.IsPositive() {
		return domain.LedgerEntry{}, domain.ErrInvalidAmount
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("begin apply delta transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	before, lockErr := lockBalance(ctx, tx, memberID)
	if lockErr != nil {
		err = lockErr
		return domain.LedgerEntry{}, err
	}

	after := before.Add(amount)
	if kind == domain.EntryDeduction {
		after = before.Sub(amount)
	}
	if after.IsNegative() {
		err = domain.ErrInsufficientBalance
		return domain.LedgerEntry{}, err
	}

	if err = writeBalance(ctx, tx, memberID, after); err != nil {
		return domain.LedgerEntry{}, err
	}

	entry, appendErr := appendEntry(ctx, tx, domain.LedgerEntry{
		MemberID:      memberID,
		Kind:          kind,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Note:          note,
		SaleID:        saleID,
	})
	if appendErr != nil {
		err = appendErr
		return domain.LedgerEntry{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("commit apply delta transaction: %w", err)
	}

	logger.Info("ledger repository apply delta success", logger.Fields{
		"memberId":     memberID,
		"entryId":      entry.ID,
		"balanceAfter": after.StringFixed(2),
	})

	return entry, nil
}

func (r *LedgerRepository) ExecuteTransfer(ctx context.Context, params repo_interfaces.ExecuteTransferParams) (domain.LedgerEntry, domain.LedgerEntry, error) {
	logger.Info("ledger repository execute transfer", logger.Fields{
		"intentId":    params.IntentID,
		"senderId":    params.SenderID,
		"recipientId": params.RecipientID,
		"amount":      params.Amount.StringFixed(2),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Consume the intent first; a zero-row update means another worker got
	// here before us.
	const consumeQuery = `
UPDATE transfer_intents
SET status = 'used', verified_at = NOW()
WHERE id = $1 AND status = 'pending'`

	result, execErr := tx.ExecContext(ctx, consumeQuery, params.IntentID)
	if execErr != nil {
		err = fmt.Errorf("consume transfer intent: %w", execErr)
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}
	rows, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		err = fmt.Errorf("consume transfer intent rows affected: %w", rowsErr)
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}
	if rows == 0 {
		err = domain.ErrOtpAlreadyUsed
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	// Lock both member rows in ascending id order regardless of role so two
	// opposing transfers between the same pair can never deadlock.
	firstID, secondID := params.SenderID, params.RecipientID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	balances := make(map[string]decimal.Decimal, 2)
	for _, id := range []string{firstID, secondID} {
		balance, lockErr := lockBalance(ctx, tx, id)
		if lockErr != nil {
			err = lockErr
			return domain.LedgerEntry{}, domain.LedgerEntry{}, err
		}
		balances[id] = balance
	}

	senderBefore := balances[params.SenderID]
	recipientBefore := balances[params.RecipientID]

	senderAfter := senderBefore.Sub(params.Amount)
	if senderAfter.IsNegative() {
		err = domain.ErrInsufficientBalance
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}
	recipientAfter := recipientBefore.Add(params.Amount)

	if err = writeBalance(ctx, tx, params.SenderID, senderAfter); err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}
	if err = writeBalance(ctx, tx, params.RecipientID, recipientAfter); err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	senderEntry, appendErr := appendEntry(ctx, tx, domain.LedgerEntry{
		MemberID:      params.SenderID,
		Kind:          domain.EntryDeduction,
		Amount:        params.Amount,
		BalanceBefore: senderBefore,
		BalanceAfter:  senderAfter,
		Note:          params.SenderNote,
	})
	if appendErr != nil {
		err = appendErr
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	recipientEntry, appendErr := appendEntry(ctx, tx, domain.LedgerEntry{
		MemberID:      params.RecipientID,
		Kind:          domain.EntryDeposit,
		Amount:        params.Amount,
		BalanceBefore: recipientBefore,
		BalanceAfter:  recipientAfter,
		Note:          params.RecipientNote,
	})
	if appendErr != nil {
		err = appendErr
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, fmt.Errorf("commit transfer transaction: %w", err)
	}

	logger.Info("ledger repository execute transfer success", logger.Fields{
		"intentId":         params.IntentID,
		"senderEntryId":    senderEntry.ID,
		"recipientEntryId": recipientEntry.ID,
	})

	return senderEntry, recipientEntry, nil
}

func (r *LedgerRepository) RefundSale(ctx context.Context, params repo_interfaces.RefundSaleParams) (*domain.LedgerEntry, error) {
	logger.Info("ledger repository refund sale", logger.Fields{
		"saleId": params.SaleID,
		"amount": params.Amount.StringFixed(2),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin refund transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Guarded transition: only a currently completed sale can be refunded.
	const cancelQuery = `
UPDATE sales
SET status = 'cancelled', note = $2, updated_at = NOW()
WHERE id = $1 AND status = 'completed'`

	result, execErr := tx.ExecContext(ctx, cancelQuery, params.SaleID, params.SaleNote)
	if execErr != nil {
		err = fmt.Errorf("cancel sale for refund: %w", execErr)
		return nil, err
	}
	rows, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		err = fmt.Errorf("cancel sale rows affected: %w", rowsErr)
		return nil, err
	}
	if rows == 0 {
		err = domain.ErrNotRefundable
		return nil, err
	}

	if params.MemberID == nil {
		if err = tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit guest refund transaction: %w", err)
		}
		return nil, nil
	}

	memberID := *params.MemberID
	before, lockErr := lockBalance(ctx, tx, memberID)
	if lockErr != nil {
		err = lockErr
		return nil, err
	}
	after := before.Add(params.Amount)

	if err = writeBalance(ctx, tx, memberID, after); err != nil {
		return nil, err
	}

	saleID := params.SaleID
	entry, appendErr := appendEntry(ctx, tx, domain.LedgerEntry{
		MemberID:      memberID,
		Kind:          domain.EntryDeposit,
		Amount:        params.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Note:          params.Note,
		SaleID:        &saleID,
	})
	if appendErr != nil {
		err = appendErr
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit refund transaction: %w", err)
	}

	logger.Info("ledger repository refund sale success", logger.Fields{
		"saleId":  params.SaleID,
		"entryId": entry.ID,
	})

	return &entry, nil
}

func lockBalance(ctx context.Context, tx *sql.Tx, memberID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx, `SELECT balance FROM members WHERE id = $1 FOR UPDATE`, memberID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, domain.ErrRecordNotFound
		}
		return decimal.Zero, fmt.Errorf("lock member balance: %w", err)
	}
	return balance, nil
}

func writeBalance(ctx context.Context, tx *sql.Tx, memberID string, balance decimal.Decimal) error {
	const query = `
UPDATE members
SET balance = $2, last_transaction = NOW(), updated_at = NOW()
WHERE id = $1`

	if _, err := tx.ExecContext(ctx, query, memberID, balance); err != nil {
		return fmt.Errorf("write member balance: %w", err)
	}
	return nil
}

func appendEntry(ctx context.Context, tx *sql.Tx, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	const query = `
INSERT INTO ledger_entries (
	member_id,
	kind,
	amount,
	balance_before,
	balance_after,
	note,
	sale_id
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at`

	var saleID any
	if entry.SaleID != nil {
		saleID = *entry.SaleID
	}

	if err := tx.QueryRowContext(
		ctx,
		query,
		entry.MemberID,
		entry.Kind,
		entry.Amount,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.Note,
		saleID,
	).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("append ledger entry: %w", err)
	}

	return entry, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/logger"
)

type MemberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `id, card_id, username, first_name, last_name, email, role, balance, pin_hash, is_active, last_transaction, created_at, updated_at`

func scanMember(row *sql.Row) (domain.Member, error) {
	var (
		member          domain.Member
		username        sql.NullString
		email           sql.NullString
		lastTransaction sql.NullTime
	)

	err := row.Scan(
		&member.ID,
		&member.CardID,
		&username,
		&member.FirstName,
		&member.LastName,
		&email,
		&member.Role,
		&member.Balance,
		&member.PinHash,
		&member.IsActive,
		&lastTransaction,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return domain.Member{}, err
	}

	member.Username = username.String
	member.Email = email.String
	if lastTransaction.Valid {
		value := lastTransaction.Time
		member.LastTransaction = &value
	}

	return member, nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	member, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Member{}, domain.ErrRecordNotFound
		}
		return domain.Member{}, fmt.Errorf("get member by id: %w", err)
	}

	return member, nil
}

func (r *MemberRepository) GetByCardID(ctx context.Context, cardID string) (domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE card_id = $1 AND is_active = TRUE`

	member, err := scanMember(r.db.QueryRowContext(ctx, query, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Member{}, domain.ErrRecordNotFound
		}
		return domain.Member{}, fmt.Errorf("get member by card id: %w", err)
	}

	return member, nil
}

func (r *MemberRepository) GetByUsername(ctx context.Context, username string) (domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE username = $1 AND is_active = TRUE`

	member, err := scanMember(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Member{}, domain.ErrRecordNotFound
		}
		return domain.Member{}, fmt.Errorf("get member by username: %w", err)
	}

	return member, nil
}

func (r *MemberRepository) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	logger.Info("member repository create", logger.Fields{
		"cardId": member.CardID,
		"role":   member.Role,
	})

	const query = `
INSERT INTO members (
	card_id,
	username,
	first_name,
	last_name,
	email,
	role,
	balance,
	pin_hash,
	is_active
) VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6, $7, $8, $9)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		member.CardID,
		member.Username,
		member.FirstName,
		member.LastName,
		member.Email,
		member.Role,
		member.Balance,
		member.PinHash,
		member.IsActive,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt); err != nil {
		logger.Error("member repository create failed", err, logger.Fields{
			"cardId": member.CardID,
		})
		return domain.Member{}, fmt.Errorf("create member: %w", err)
	}

	return member, nil
}

package repo_interfaces

import (
	"context"

	"github.com/genglo/coop-kiosk/internal/domain"
)

type MemberRepository interface {
	// GetByID returns the member regardless of active flag so callers can
	// distinguish ErrAccountInactive from ErrRecordNotFound.
	GetByID(ctx context.Context, id string) (domain.Member, error)

	// GetByCardID and GetByUsername resolve active members only.
	GetByCardID(ctx context.Context, cardID string) (domain.Member, error)
	GetByUsername(ctx context.Context, username string) (domain.Member, error)

	Create(ctx context.Context, member domain.Member) (domain.Member, error)
}

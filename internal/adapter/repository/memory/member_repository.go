package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/genglo/coop-kiosk/internal/domain"
)

type MemberRepository struct {
	store *Store
}

func NewMemberRepository(store *Store) *MemberRepository {
	return &MemberRepository{store: store}
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (domain.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	member, ok := r.store.members[id]
	if !ok {
		return domain.Member{}, domain.ErrRecordNotFound
	}
	return cloneMember(member), nil
}

func (r *MemberRepository) GetByCardID(ctx context.Context, cardID string) (domain.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, member := range r.store.members {
		if member.CardID == cardID && member.IsActive {
			return cloneMember(member), nil
		}
	}
	return domain.Member{}, domain.ErrRecordNotFound
}

func (r *MemberRepository) GetByUsername(ctx context.Context, username string) (domain.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, member := range r.store.members {
		if member.Username == username && member.IsActive {
			return cloneMember(member), nil
		}
	}
	return domain.Member{}, domain.ErrRecordNotFound
}

func (r *MemberRepository) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := r.store.now()
	member.CreatedAt = now
	member.UpdatedAt = now

	copied := member
	r.store.members[member.ID] = &copied

	return member, nil
}

func cloneMember(member *domain.Member) domain.Member {
	copied := *member
	if member.LastTransaction != nil {
		value := *member.LastTransaction
		copied.LastTransaction = &value
	}
	return copied
}

func stampLastTransaction(member *domain.Member, at time.Time) {
	value := at
	member.LastTransaction = &value
	member.UpdatedAt = at
}

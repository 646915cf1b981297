package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/genglo/coop-kiosk/internal/adapter/http/models"
	"github.com/genglo/coop-kiosk/internal/adapter/repository/repo_interfaces"
	"github.com/genglo/coop-kiosk/internal/commons"
	"github.com/genglo/coop-kiosk/internal/domain"
	"github.com/genglo/coop-kiosk/internal/logger"
)

// HashPin derives the stored hash for a 4-digit PIN.
func HashPin(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type session struct {
	memberID  string
	expiresAt time.Time
}

type AuthService struct {
	memberRepo repo_interfaces.MemberRepository
	sessionTTL time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]session
}

func NewAuthService(memberRepo repo_interfaces.MemberRepository, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		memberRepo: memberRepo,
		sessionTTL: sessionTTL,
		now:        time.Now,
		sessions:   make(map[string]session),
	}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error) {
	logger.Info("auth service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.LoginResponse]("validation failed", err.Error()), err
	}

	username := strings.TrimSpace(req.Username)
	cardID := strings.TrimSpace(req.CardID)
	pin := strings.TrimSpace(req.PIN)

	var (
		member domain.Member
		err    error
	)
	if username != "" {
		member, err = s.memberRepo.GetByUsername(ctx, username)
	} else {
		member, err = s.memberRepo.GetByCardID(ctx, cardID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			// Same message as a wrong PIN so login probing learns nothing.
			return commons.ErrorResponse[models.LoginResponse]("Invalid credentials"), domain.ErrInvalidCredentials
		}
		return commons.ErrorResponse[models.LoginResponse]("failed to login", "Unable to login right now"), err
	}

	// Card login is only for plain member accounts that never got a
	// username. Staff and admins must authenticate by username.
	if cardID != "" && (member.Role != domain.RoleMember || !member.CardOnly()) {
		return commons.ErrorResponse[models.LoginResponse]("Invalid credentials"), domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(member.PinHash), []byte(pin)) != nil {
		return commons.ErrorResponse[models.LoginResponse]("Invalid credentials"), domain.ErrInvalidCredentials
	}

	token := uuid.NewString()
	expiresAt := s.now().Add(s.sessionTTL)

	s.mu.Lock()
	s.sessions[token] = session{memberID: member.ID, expiresAt: expiresAt}
	s.mu.Unlock()

	logger.Info("auth service login success", logger.Fields{
		"memberId": member.ID,
		"role":     member.Role,
	})

	return commons.SuccessResponse("Login successful", models.LoginResponse{
		SessionToken: token,
		ExpiresAt:    expiresAt,
		Member:       models.NewMemberView(member),
	}), nil
}

func (s *AuthService) ResolveSession(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return "", false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return "", false
	}

	return entry.memberID, true
}

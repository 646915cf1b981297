package models

import (
	"errors"
	"strings"
	"time"
)

// LoginRequest authenticates either by username or by card id, never both.
// Card login is reserved for plain member accounts without a username.
type LoginRequest struct {
	Username string `json:"username"`
	CardID   string `json:"cardId"`
	PIN      string `json:"pin"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	username := strings.TrimSpace(r.Username)
	cardID := strings.TrimSpace(r.CardID)

	if username == "" && cardID == "" {
		errs = append(errs, "username or cardId is required")
	}
	if username != "" && cardID != "" {
		errs = append(errs, "provide either username or cardId, not both")
	}
	if !isDigits(strings.TrimSpace(r.PIN), 4) {
		errs = append(errs, "pin must be exactly 4 digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type LoginResponse struct {
	SessionToken string     `json:"sessionToken"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	Member       MemberView `json:"member"`
}

package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleMember  Role = "member"
	RoleStaff   Role = "staff"
	RoleCashier Role = "cashier"
	RoleAdmin   Role = "admin"
)

func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleMember:
		return RoleMember, true
	case RoleStaff:
		return RoleStaff, true
	case RoleCashier:
		return RoleCashier, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Member is an enrolled account. Balance is the materialized projection of
// the member's ledger entries; every mutation goes through the ledger
// repository so the two can never drift.
type Member struct {
	ID              string
	CardID          string
	Username        string
	FirstName       string
	LastName        string
	Email           string
	Role            Role
	Balance         decimal.Decimal
	PinHash         string
	IsActive        bool
	LastTransaction *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (m Member) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(m.FirstName) + " " + strings.TrimSpace(m.LastName))
}

// CardOnly reports whether the member can only authenticate by card and PIN.
func (m Member) CardOnly() bool {
	return strings.TrimSpace(m.Username) == ""
}

package services

import "github.com/genglo/coop-kiosk/internal/domain"

// Action names a privileged operation gated by role.
type Action string

const (
	// ActionRefill credits another member's balance.
	ActionRefill Action = "balance.refill"

	// ActionRefundAny refunds sales the actor does not own.
	ActionRefundAny Action = "refund.any"
)

var rolePolicy = map[Action]map[domain.Role]struct{}{
	ActionRefill: {
		domain.RoleAdmin: {},
		domain.RoleStaff: {},
	},
	ActionRefundAny: {
		domain.RoleAdmin:   {},
		domain.RoleCashier: {},
	},
}

// Allowed reports whether a role may perform an action. Unknown actions are
// always denied.
func Allowed(role domain.Role, action Action) bool {
	roles, ok := rolePolicy[action]
	if !ok {
		return false
	}
	_, ok = roles[role]
	return ok
}

// Package access decides which staff actions an account may perform.
//
// Checks return false for an ordinary denial. Errors are reserved for bad input
// (ErrInvalidArgument) and for attempts that break a platform rule, such as a
// second super admin (ErrPolicyViolation).
package access

import (
	"errors"
	"fmt"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

var (
	ErrInvalidArgument     = errors.New("access: invalid argument")
	ErrAuthorizationDenied = errors.New("access: authorization denied")
	ErrPolicyViolation     = errors.New("access: policy violation")
)

// HasCapability reports whether account holds capability. Super and senior admins
// hold every capability; every other role holds exactly its explicit set.
func HasCapability(account *domain.Account, capability domain.Permission) bool {
	if account == nil || !capability.Valid() {
		return false
	}

	switch account.Role {
	case domain.RoleSuperAdmin, domain.RoleSeniorAdmin:
		return true
	case domain.RoleAdmin, domain.RoleFinanceAdmin, domain.RoleUser:
		return account.Permissions.Has(capability)
	default:
		return false
	}
}

// Authorize is HasCapability in error form, for request middleware. A blocked
// account is denied whatever it holds.
func Authorize(account *domain.Account, capability domain.Permission) error {
	if account != nil && account.IsBlocked {
		return fmt.Errorf("%w: account is blocked", ErrAuthorizationDenied)
	}
	if !HasCapability(account, capability) {
		return fmt.Errorf("%w: %s required", ErrAuthorizationDenied, capability)
	}
	return nil
}

// CanPromote reports whether actor may assign newRole to some account. The super
// admin role is a singleton: asking for a second one is a policy violation no
// matter who asks.
func CanPromote(actor *domain.Account, newRole domain.Role, superAdminExists bool) (bool, error) {
	if !newRole.Valid() {
		return false, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, newRole)
	}
	if newRole == domain.RoleSuperAdmin && superAdminExists {
		return false, fmt.Errorf("%w: super admin role is already held", ErrPolicyViolation)
	}
	if actor == nil || actor.Role != domain.RoleSuperAdmin || actor.IsBlocked {
		return false, nil
	}
	return true, nil
}

// CanMutateAccount reports whether actor may change target using capability.
// A super admin target can only be changed by itself.
func CanMutateAccount(actor, target *domain.Account, capability domain.Permission) bool {
	if actor == nil || target == nil {
		return false
	}

	if target.Role == domain.RoleSuperAdmin {
		return actor.ID == target.ID
	}
	if actor.IsBlocked {
		return false
	}
	if actor.Role == domain.RoleSuperAdmin {
		return true
	}
	if !actor.Role.IsStaff() {
		return false
	}
	if target.Role.IsStaff() && !HasCapability(actor, domain.PermManageStaff) {
		return false
	}
	return HasCapability(actor, capability)
}

func CanIssueDirective(actor *domain.Account) bool {
	return actor != nil && actor.Role == domain.RoleSuperAdmin && !actor.IsBlocked
}

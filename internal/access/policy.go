package access

import (
	"fmt"

	"github.com/josphatwangui51-hash/survey-market/internal/domain"
)

// CheckRoleChange validates moving target to newRole on behalf of actor.
func CheckRoleChange(actor, target *domain.Account, newRole domain.Role, superAdminExists bool) error {
	if actor == nil || target == nil {
		return fmt.Errorf("%w: missing account", ErrInvalidArgument)
	}
	if target.Role == domain.RoleSuperAdmin {
		return fmt.Errorf("%w: super admin role cannot be reassigned", ErrPolicyViolation)
	}
	if actor.ID == target.ID {
		return fmt.Errorf("%w: accounts cannot change their own role", ErrPolicyViolation)
	}

	ok, err := CanPromote(actor, newRole, superAdminExists)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: only the super admin assigns roles", ErrAuthorizationDenied)
	}
	return nil
}

// CheckPermissionGrant validates toggling capability on target's explicit set.
func CheckPermissionGrant(actor, target *domain.Account, capability domain.Permission) error {
	if actor == nil || target == nil {
		return fmt.Errorf("%w: missing account", ErrInvalidArgument)
	}
	if !capability.Valid() {
		return fmt.Errorf("%w: unknown capability", ErrInvalidArgument)
	}
	if actor.ID == target.ID {
		return fmt.Errorf("%w: accounts cannot change their own permissions", ErrPolicyViolation)
	}
	if target.Role == domain.RoleSuperAdmin {
		return fmt.Errorf("%w: super admin permissions are fixed", ErrPolicyViolation)
	}
	if !target.Role.IsStaff() {
		return fmt.Errorf("%w: permissions apply to staff accounts only", ErrInvalidArgument)
	}
	if !HasCapability(actor, domain.PermManageStaff) || !CanMutateAccount(actor, target, domain.PermManageStaff) {
		return fmt.Errorf("%w: %s required", ErrAuthorizationDenied, domain.PermManageStaff)
	}
	if actor.Role != domain.RoleSuperAdmin && !HasCapability(actor, capability) {
		return fmt.Errorf("%w: cannot grant %s without holding it", ErrAuthorizationDenied, capability)
	}
	return nil
}

// CheckBalanceEdit validates setting target's balance on behalf of actor. Nobody
// edits their own funds, the super admin included.
func CheckBalanceEdit(actor, target *domain.Account) error {
	if actor == nil || target == nil {
		return fmt.Errorf("%w: missing account", ErrInvalidArgument)
	}
	if actor.ID == target.ID {
		return fmt.Errorf("%w: accounts cannot change their own balance", ErrPolicyViolation)
	}
	if !CanMutateAccount(actor, target, domain.PermEditFunds) {
		return fmt.Errorf("%w: %s required", ErrAuthorizationDenied, domain.PermEditFunds)
	}
	return nil
}

// ApplyRoleChange returns target with newRole applied. Demotion to user drops
// every explicit permission.
func ApplyRoleChange(target domain.Account, newRole domain.Role) domain.Account {
	target.Role = newRole
	if newRole == domain.RoleUser {
		target.Permissions = 0
	}
	return target
}

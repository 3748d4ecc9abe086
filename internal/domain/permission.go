package domain

import (
	"encoding/json"
	"fmt"
)

// Permission is a single administrative capability.
type Permission uint8

const (
	PermBlockUsers Permission = 1 << iota
	PermEditFunds
	PermApproveWithdrawals
	PermManageStaff
	PermViewAnalytics
	PermViewRevenue
)

var permissionNames = map[Permission]string{
	PermBlockUsers:         "canBlockUsers",
	PermEditFunds:          "canEditFunds",
	PermApproveWithdrawals: "canApproveWithdrawals",
	PermManageStaff:        "canManageStaff",
	PermViewAnalytics:      "canViewAnalytics",
	PermViewRevenue:        "canViewRevenue",
}

// Permissions is the full enumeration in display order.
var Permissions = []Permission{
	PermBlockUsers,
	PermEditFunds,
	PermApproveWithdrawals,
	PermManageStaff,
	PermViewAnalytics,
	PermViewRevenue,
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Permission(%d)", uint8(p))
}

func (p Permission) Valid() bool {
	_, ok := permissionNames[p]
	return ok
}

func ParsePermission(name string) (Permission, error) {
	for p, n := range permissionNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown permission %q", name)
}

// PermissionSet is a bitset of Permission values. It is stored as SMALLINT and
// serialized as a JSON array of permission names.
type PermissionSet uint8

func NewPermissionSet(perms ...Permission) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		s = s.With(p)
	}
	return s
}

func (s PermissionSet) Has(p Permission) bool {
	return p.Valid() && s&PermissionSet(p) != 0
}

func (s PermissionSet) With(p Permission) PermissionSet {
	if !p.Valid() {
		return s
	}
	return s | PermissionSet(p)
}

func (s PermissionSet) Without(p Permission) PermissionSet {
	return s &^ PermissionSet(p)
}

func (s PermissionSet) Toggle(p Permission) PermissionSet {
	if s.Has(p) {
		return s.Without(p)
	}
	return s.With(p)
}

func (s PermissionSet) List() []Permission {
	perms := make([]Permission, 0, len(Permissions))
	for _, p := range Permissions {
		if s.Has(p) {
			perms = append(perms, p)
		}
	}
	return perms
}

func (s PermissionSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(Permissions))
	for _, p := range s.List() {
		names = append(names, p.String())
	}
	return json.Marshal(names)
}

func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}

	var set PermissionSet
	for _, name := range names {
		p, err := ParsePermission(name)
		if err != nil {
			return err
		}
		set = set.With(p)
	}
	*s = set
	return nil
}

package domain

type Role string

const (
	RoleUser         Role = "user"
	RoleAdmin        Role = "admin"
	RoleSeniorAdmin  Role = "senior_admin"
	RoleFinanceAdmin Role = "finance_admin"
	RoleSuperAdmin   Role = "super_admin"
)

// Roles lists every role, lowest clearance first.
var Roles = []Role{
	RoleUser,
	RoleAdmin,
	RoleSeniorAdmin,
	RoleFinanceAdmin,
	RoleSuperAdmin,
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSeniorAdmin, RoleFinanceAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func (r Role) IsStaff() bool {
	return r.Valid() && r != RoleUser
}

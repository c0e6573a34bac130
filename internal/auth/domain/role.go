package domain

import "fmt"

// Role is the closed set of staff roles. Each role carries a fixed default
// permission set; per-user custom grants are additive on top.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
	RoleClerk   Role = "clerk"
	RoleViewer  Role = "viewer"
)

// AllRoles lists every defined role.
var AllRoles = []Role{RoleAdmin, RoleManager, RoleCashier, RoleClerk, RoleViewer}

// ParseRole validates a role identifier.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleManager, RoleCashier, RoleClerk, RoleViewer:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// rolePermissions is the static role to default-permission table. It is not
// user-editable. Admin is absent on purpose: it short-circuits to every
// permission in HasPermission.
var rolePermissions = map[Role]map[Permission]struct{}{
	RoleManager: permissionSet(managerPermissions()),
	RoleCashier: permissionSet([]Permission{
		PermCreateSale,
		PermViewSales,
		PermCreatePayment,
	}),
	RoleClerk: permissionSet([]Permission{
		PermViewInventory,
		PermUpdateInventory,
	}),
	RoleViewer: permissionSet(viewerPermissions()),
}

// managerPermissions is every permission except user management.
func managerPermissions() []Permission {
	perms := make([]Permission, 0, len(AllPermissions))
	for _, p := range AllPermissions {
		if p == PermManageUsers || p == PermDeleteUsers {
			continue
		}
		perms = append(perms, p)
	}
	return perms
}

// viewerPermissions is every view_* permission.
func viewerPermissions() []Permission {
	var perms []Permission
	for _, p := range AllPermissions {
		switch p {
		case PermViewSales, PermViewPayments, PermViewInventory, PermViewLedger,
			PermViewCashbook, PermViewProduction, PermViewFormulas, PermViewReports:
			perms = append(perms, p)
		}
	}
	return perms
}

func permissionSet(perms []Permission) map[Permission]struct{} {
	m := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		m[p] = struct{}{}
	}
	return m
}

// DefaultPermissions returns the role's default permission set as a slice.
func (r Role) DefaultPermissions() []Permission {
	if r == RoleAdmin {
		return append([]Permission(nil), AllPermissions...)
	}

	set := rolePermissions[r]
	perms := make([]Permission, 0, len(set))
	for _, p := range AllPermissions {
		if _, ok := set[p]; ok {
			perms = append(perms, p)
		}
	}
	return perms
}

// grants reports whether the role's default set contains p.
func (r Role) grants(p Permission) bool {
	if r == RoleAdmin {
		return true
	}
	_, ok := rolePermissions[r][p]
	return ok
}

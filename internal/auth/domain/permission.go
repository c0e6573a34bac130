package domain

import "fmt"

// Permission identifies a single guarded action in the application. The set
// is closed: permission checks are made against these constants, never
// free-form strings.
type Permission string

const (
	PermManageUsers      Permission = "manage_users"
	PermDeleteUsers      Permission = "delete_users"
	PermCreateSale       Permission = "create_sale"
	PermViewSales        Permission = "view_sales"
	PermCreatePayment    Permission = "create_payment"
	PermViewPayments     Permission = "view_payments"
	PermViewInventory    Permission = "view_inventory"
	PermUpdateInventory  Permission = "update_inventory"
	PermViewLedger       Permission = "view_ledger"
	PermUpdateLedger     Permission = "update_ledger"
	PermViewCashbook     Permission = "view_cashbook"
	PermUpdateCashbook   Permission = "update_cashbook"
	PermViewProduction   Permission = "view_production"
	PermUpdateProduction Permission = "update_production"
	PermViewFormulas     Permission = "view_formulas"
	PermUpdateFormulas   Permission = "update_formulas"
	PermViewReports      Permission = "view_reports"
	PermManageSettings   Permission = "manage_settings"
)

// AllPermissions lists every defined permission.
var AllPermissions = []Permission{
	PermManageUsers,
	PermDeleteUsers,
	PermCreateSale,
	PermViewSales,
	PermCreatePayment,
	PermViewPayments,
	PermViewInventory,
	PermUpdateInventory,
	PermViewLedger,
	PermUpdateLedger,
	PermViewCashbook,
	PermUpdateCashbook,
	PermViewProduction,
	PermUpdateProduction,
	PermViewFormulas,
	PermUpdateFormulas,
	PermViewReports,
	PermManageSettings,
}

var knownPermissions = func() map[Permission]struct{} {
	m := make(map[Permission]struct{}, len(AllPermissions))
	for _, p := range AllPermissions {
		m[p] = struct{}{}
	}
	return m
}()

// ParsePermission validates a permission identifier.
func ParsePermission(s string) (Permission, error) {
	p := Permission(s)
	if _, ok := knownPermissions[p]; !ok {
		return "", fmt.Errorf("unknown permission %q", s)
	}
	return p, nil
}

func (p Permission) String() string { return string(p) }

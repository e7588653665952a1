package entities

// Permission is a named capability granted by role.
type Permission string

const (
	PermViewDashboard       Permission = "view_dashboard"
	PermManageUsers         Permission = "manage_users"
	PermManageParcels       Permission = "manage_parcels"
	PermManageRoutes        Permission = "manage_routes"
	PermManagePayments      Permission = "manage_payments"
	PermManageDisputes      Permission = "manage_disputes"
	PermManageSubscriptions Permission = "manage_subscriptions"
	PermViewAnalytics       Permission = "view_analytics"
	PermViewReports         Permission = "view_reports"
)

var rolePermissions = map[Role][]Permission{
	RoleUser:    {PermViewDashboard},
	RoleCarrier: {PermViewDashboard, PermManageRoutes},
	RoleAdmin: {
		PermViewDashboard,
		PermManageUsers,
		PermManageParcels,
		PermManageRoutes,
		PermManagePayments,
		PermManageDisputes,
		PermManageSubscriptions,
		PermViewAnalytics,
		PermViewReports,
	},
}

// Permissions returns the capabilities of role.
func Permissions(role Role) []Permission {
	return rolePermissions[role]
}

// HasPermission reports whether role grants perm.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

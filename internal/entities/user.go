// Package entities contains core business entities.
package entities

import "time"

// Role is a platform role.
type Role string

const (
	// RoleUser is the default sender/receiver role.
	RoleUser Role = "user"
	// RoleCarrier marks users who publish routes.
	RoleCarrier Role = "carrier"
	// RoleAdmin grants dashboard access.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCarrier, RoleAdmin:
		return true
	}
	return false
}

// User is a marketplace account.
type User struct {
	ID                  string
	Name                string
	Email               string
	Phone               *string
	PasswordHash        string
	Rating              float64
	Verified            bool
	Role                Role
	Suspended           bool
	SubscriptionTier    SubscriptionTier
	SubscriptionStatus  SubscriptionState
	SubscriptionStart   *time.Time
	SubscriptionEnd     *time.Time
	MonthlyParcelCount  int
	LastParcelResetDate *time.Time
	WalletBalance       int64
	CreatedAt           time.Time
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID    string
	Role  Role
	Email string
}

// IsAdmin reports whether the caller has the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// SignUp carries registration input.
type SignUp struct {
	Name     string
	Email    string
	Password string
	Phone    *string
}

// Session is an issued access token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// ProfileUpdate holds user-editable fields.
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// AdminUserUpdate holds admin-editable fields.
type AdminUserUpdate struct {
	Verified  *bool
	Suspended *bool
	Role      *Role
}

// UserFilter narrows admin user listing.
type UserFilter struct {
	Search    string
	Role      *Role
	Verified  *bool
	Suspended *bool
	Page      Page
}

// UserActivity counts a user's footprint on the platform.
type UserActivity struct {
	SentParcels        int64 `json:"sentParcels"`
	TransportedParcels int64 `json:"transportedParcels"`
	Reviews            int64 `json:"reviews"`
	Disputes           int64 `json:"disputes"`
}

// UserDetail is an admin view of a user with activity counters.
type UserDetail struct {
	User  User
	Stats UserActivity
}

// SubscriptionChange is applied to a user's subscription fields.
type SubscriptionChange struct {
	Tier   SubscriptionTier
	Status SubscriptionState
	Start  *time.Time
	End    *time.Time
}

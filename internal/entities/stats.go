// Package entities contains core business entities.
package entities

// AdminStats aggregates platform counters for the dashboard.
type AdminStats struct {
	Users    UserCounters    `json:"users"`
	Parcels  ParcelCounters  `json:"parcels"`
	Payments PaymentCounters `json:"payments"`
	Disputes DisputeCounters `json:"disputes"`
}

// UserCounters counts accounts.
type UserCounters struct {
	Total  int64 `json:"total"`
	Recent int64 `json:"recent"`
}

// ParcelCounters counts parcels by status.
type ParcelCounters struct {
	Total           int64             `json:"total"`
	Pending         int64             `json:"pending"`
	StatusBreakdown []ParcelStatusCnt `json:"statusBreakdown"`
}

// ParcelStatusCnt is the number of parcels in one status.
type ParcelStatusCnt struct {
	Status ParcelStatus `json:"status"`
	Count  int64        `json:"count"`
}

// PaymentCounters summarizes gateway and wallet payments.
type PaymentCounters struct {
	Total           int64              `json:"total"`
	Revenue         int64              `json:"revenue"`
	PlatformFees    int64              `json:"platformFees"`
	StatusBreakdown []PaymentStatusCnt `json:"statusBreakdown"`
}

// PaymentStatusCnt is the number of payments in one status.
type PaymentStatusCnt struct {
	Status PaymentStatus `json:"status"`
	Count  int64         `json:"count"`
}

// DisputeCounters counts disputes needing attention.
type DisputeCounters struct {
	Open int64 `json:"open"`
}

// SweepResult reports one pass of the expiry sweeper.
type SweepResult struct {
	ExpiredParcels int `json:"expiredParcels"`
	Refunded       int `json:"refunded"`
	ClosedDisputes int `json:"closedDisputes"`
}

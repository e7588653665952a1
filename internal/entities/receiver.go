package entities

import (
	"math"
	"strings"
	"time"
)

const (
	earthRadiusKm    = 6371.0
	averageSpeedKmh  = 40.0
	nearbyDistanceKm = 2.0
	nearbyETAMinutes = 10
)

// ReceiverMatch identifies the receiver of a parcel. Parcels may name the
// receiver by account or only by email.
type ReceiverMatch struct {
	ID    string
	Email string
}

// IsReceiver reports whether the user with id and email receives p.
func (p Parcel) IsReceiver(id, email string) bool {
	if p.ReceiverID != nil && *p.ReceiverID == id {
		return true
	}
	return email != "" && p.ReceiverEmail != nil && strings.EqualFold(*p.ReceiverEmail, email)
}

// CarrierLocation is a position report from the carrier of a parcel.
type CarrierLocation struct {
	ID        string
	ParcelID  string
	CarrierID string
	Lat       float64
	Lng       float64
	Speed     *float64
	CreatedAt time.Time
}

// ETA is the delivery estimate shown to a receiver.
type ETA struct {
	Available       bool
	Message         string
	DistanceKm      float64
	Minutes         int
	CarrierLocation *CarrierLocation
}

// Nearby reports whether the carrier is close enough to alert the receiver.
func (e ETA) Nearby() bool {
	return e.Available && e.DistanceKm < nearbyDistanceKm && e.Minutes < nearbyETAMinutes
}

// DistanceKm is the great-circle distance between two points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ETAMinutes converts a road distance into minutes at urban speed.
func ETAMinutes(distanceKm float64) int {
	return int(math.Round(distanceKm / averageSpeedKmh * 60))
}

// EstimateETA computes the receiver-facing estimate from the latest carrier
// position to the drop-off point.
func EstimateETA(loc CarrierLocation, destLat, destLng float64) ETA {
	d := DistanceKm(loc.Lat, loc.Lng, destLat, destLng)
	return ETA{
		Available:       true,
		DistanceKm:      math.Round(d*10) / 10,
		Minutes:         ETAMinutes(d),
		CarrierLocation: &loc,
	}
}

// ReceiverStats counts the parcels addressed to a user.
type ReceiverStats struct {
	TotalReceived int64
	Delivered     int64
	InTransit     int64
	Pending       int64
}

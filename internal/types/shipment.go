package types

import (
	"time"

	"gorm.io/datatypes"
)

// ShipmentTracking is the merged view of one physical shipment. Every Shippo
// webhook event referencing the same transaction converges into this row.
type ShipmentTracking struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	TransactionID  string  `gorm:"column:transaction_id;uniqueIndex;not null" json:"transaction_id"`
	TrackingNumber *string `gorm:"index" json:"tracking_number"`
	Carrier        *string `json:"carrier"`
	Status         string  `gorm:"not null;default:UNKNOWN;index" json:"status"`
	StatusDetails  *string `json:"status_details"`
	StatusDate     *string `json:"status_date"`
	Metadata       *string `gorm:"index" json:"metadata"`
	LabelURL       *string `json:"label_url"`
	TrackingURL    *string `json:"tracking_url"`
	ETA            *string `gorm:"column:eta" json:"eta"`

	// Address To (from track_updated)
	ToName    *string `json:"to_name"`
	ToCity    *string `json:"to_city"`
	ToState   *string `json:"to_state"`
	ToZip     *string `json:"to_zip"`
	ToCountry *string `json:"to_country"`

	// Address From
	FromCity    *string `json:"from_city"`
	FromState   *string `json:"from_state"`
	FromZip     *string `json:"from_zip"`
	FromCountry *string `json:"from_country"`

	// Service info
	ServiceName  *string `json:"service_name"`
	ServiceToken *string `json:"service_token"`

	// Full history as delivered by the carrier, replaced wholesale on every
	// track_updated event.
	TrackingHistory datatypes.JSON `json:"-"`

	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
	DeliveredAt *string   `json:"delivered_at"`
}

func (ShipmentTracking) TableName() string { return "shippo_tracking" }

// MergePolicy says what an incoming event value does to the stored column.
type MergePolicy int

const (
	// CoalescePreserve: incoming null leaves the stored value untouched,
	// non-null overwrites.
	CoalescePreserve MergePolicy = iota
	// UnconditionalReplace: incoming value (even null) always overwrites.
	UnconditionalReplace
	// WriteOnce: accepted only while the stored value is still null.
	WriteOnce
)

// The three event kinds carry partially-overlapping payloads and arrive in
// any order. Each kind gets one policy table; the repository turns these
// into SQL so all reconciliation paths share the same merge semantics.

// CreatedEventPolicies applies on the conflict branch of transaction_created.
var CreatedEventPolicies = map[string]MergePolicy{
	"tracking_number": UnconditionalReplace,
	"status":          UnconditionalReplace,
	"metadata":        CoalescePreserve,
	"label_url":       CoalescePreserve,
	"tracking_url":    CoalescePreserve,
	"eta":             CoalescePreserve,
}

// UpdatedEventPolicies applies on transaction_updated.
var UpdatedEventPolicies = map[string]MergePolicy{
	"tracking_number": CoalescePreserve,
	"status":          UnconditionalReplace,
	"eta":             CoalescePreserve,
}

// TrackEventPolicies applies on track_updated, the source of truth for
// carrier, status, addresses, service info and history.
var TrackEventPolicies = map[string]MergePolicy{
	"tracking_number":  CoalescePreserve,
	"carrier":          UnconditionalReplace,
	"status":           UnconditionalReplace,
	"status_details":   UnconditionalReplace,
	"status_date":      UnconditionalReplace,
	"eta":              CoalescePreserve,
	"to_name":          CoalescePreserve,
	"to_city":          UnconditionalReplace,
	"to_state":         UnconditionalReplace,
	"to_zip":           UnconditionalReplace,
	"to_country":       UnconditionalReplace,
	"from_city":        UnconditionalReplace,
	"from_state":       UnconditionalReplace,
	"from_zip":         UnconditionalReplace,
	"from_country":     UnconditionalReplace,
	"service_name":     UnconditionalReplace,
	"service_token":    UnconditionalReplace,
	"tracking_history": UnconditionalReplace,
	"delivered_at":     WriteOnce,
}

package shippo

import (
	"bytes"
	"encoding/json"
)

// Webhook event names Shippo sends for label and tracking lifecycles.
const (
	EventTransactionCreated = "transaction_created"
	EventTransactionUpdated = "transaction_updated"
	EventTrackUpdated       = "track_updated"
)

// Envelope is the webhook body: {"event": <name>, "data": {...}}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// TransactionData is the payload of transaction_created and
// transaction_updated. Fields Shippo omits decode to nil.
type TransactionData struct {
	ObjectID            *string `json:"object_id"`
	ObjectCreated       *string `json:"object_created"`
	TrackingNumber      *string `json:"tracking_number"`
	TrackingStatus      *string `json:"tracking_status"`
	Metadata            *string `json:"metadata"`
	LabelURL            *string `json:"label_url"`
	TrackingURLProvider *string `json:"tracking_url_provider"`
	ETA                 *string `json:"eta"`
}

// Address covers both shipment endpoints and history-entry locations.
type Address struct {
	Name    *string `json:"name,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Zip     *string `json:"zip,omitempty"`
	Country *string `json:"country,omitempty"`
}

type ServiceLevel struct {
	Name  *string `json:"name"`
	Token *string `json:"token"`
}

// TrackingStatus arrives either as a structured object or as a bare status
// string, depending on the carrier feed.
type TrackingStatus struct {
	Status        *string `json:"status"`
	StatusDetails *string `json:"status_details"`
	StatusDate    *string `json:"status_date"`
}

func (t *TrackingStatus) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = TrackingStatus{Status: &s}
		return nil
	}
	type plain TrackingStatus
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = TrackingStatus(p)
	return nil
}

// TrackingEvent is one snapshot in the history array.
type TrackingEvent struct {
	ObjectCreated *string  `json:"object_created,omitempty"`
	ObjectUpdated *string  `json:"object_updated,omitempty"`
	ObjectID      *string  `json:"object_id,omitempty"`
	Status        *string  `json:"status,omitempty"`
	StatusDetails *string  `json:"status_details,omitempty"`
	StatusDate    *string  `json:"status_date,omitempty"`
	Location      *Address `json:"location,omitempty"`
}

// TrackData is the payload of track_updated.
type TrackData struct {
	TrackingNumber  *string         `json:"tracking_number"`
	Transaction     *string         `json:"transaction"`
	Carrier         *string         `json:"carrier"`
	ETA             *string         `json:"eta"`
	AddressTo       Address         `json:"address_to"`
	AddressFrom     Address         `json:"address_from"`
	ServiceLevel    ServiceLevel    `json:"servicelevel"`
	TrackingStatus  TrackingStatus  `json:"tracking_status"`
	TrackingHistory json.RawMessage `json:"tracking_history"`
}

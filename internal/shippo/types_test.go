package shippo

import (
	"encoding/json"
	"testing"
)

func TestTrackingStatus_DecodesObjectShape(t *testing.T) {
	raw := `{"status": "TRANSIT", "status_details": "Departed facility", "status_date": "2025-01-02T03:04:05Z"}`
	var ts TrackingStatus
	if err := json.Unmarshal([]byte(raw), &ts); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if ts.Status == nil || *ts.Status != "TRANSIT" {
		t.Fatalf("unexpected status: %v", ts.Status)
	}
	if ts.StatusDetails == nil || *ts.StatusDetails != "Departed facility" {
		t.Fatalf("unexpected status_details: %v", ts.StatusDetails)
	}
	if ts.StatusDate == nil || *ts.StatusDate != "2025-01-02T03:04:05Z" {
		t.Fatalf("unexpected status_date: %v", ts.StatusDate)
	}
}

func TestTrackingStatus_DecodesBareString(t *testing.T) {
	var ts TrackingStatus
	if err := json.Unmarshal([]byte(`"DELIVERED"`), &ts); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if ts.Status == nil || *ts.Status != "DELIVERED" {
		t.Fatalf("unexpected status: %v", ts.Status)
	}
	if ts.StatusDetails != nil || ts.StatusDate != nil {
		t.Fatalf("details/date must stay nil for the bare-string shape")
	}
}

func TestTrackingStatus_NullLeavesZeroValue(t *testing.T) {
	var ts TrackingStatus
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if ts.Status != nil {
		t.Fatalf("expected nil status for null input, got %v", ts.Status)
	}
}

func TestTrackData_MissingFieldsDecodeToNil(t *testing.T) {
	raw := `{"tracking_number": "TRACK1"}`
	var data TrackData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if data.TrackingNumber == nil || *data.TrackingNumber != "TRACK1" {
		t.Fatalf("unexpected tracking_number: %v", data.TrackingNumber)
	}
	if data.Transaction != nil || data.Carrier != nil || data.ETA != nil {
		t.Fatalf("absent fields must decode to nil")
	}
	if data.AddressTo.City != nil || data.ServiceLevel.Name != nil {
		t.Fatalf("absent nested fields must decode to nil")
	}
	if data.TrackingHistory != nil {
		t.Fatalf("absent history must decode to nil")
	}
}

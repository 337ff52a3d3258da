package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/HCD2016-hash/shippo-missive/internal/types"
)

func TestShipments_ConfiguredDefaultsApplyToList(t *testing.T) {
	router, gdb := newTestRouterWithDefaults(t, 7, 1)

	now := time.Now().UTC()
	rows := []*types.ShipmentTracking{
		{TransactionID: "tx-old", Status: "TRANSIT", CreatedAt: now.AddDate(0, 0, -30)},
		{TransactionID: "tx-recent", Status: "TRANSIT", CreatedAt: now.AddDate(0, 0, -2)},
		{TransactionID: "tx-new", Status: "TRANSIT", CreatedAt: now.AddDate(0, 0, -1)},
	}
	for _, row := range rows {
		if err := gdb.Create(row).Error; err != nil {
			t.Fatalf("seed %s: %v", row.TransactionID, err)
		}
	}

	// No query params: the configured 7-day window excludes tx-old and the
	// configured limit keeps only the newest remaining row.
	w := doRequest(t, router, http.MethodGet, "/api/shippo/shipments", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list returned %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["count"] != float64(1) {
		t.Fatalf("want 1 row under configured defaults, got %v", body["count"])
	}
	shipment := body["shipments"].([]any)[0].(map[string]any)
	if shipment["transaction_id"] != "tx-new" {
		t.Fatalf("want tx-new, got %v", shipment["transaction_id"])
	}

	// Explicit query params override the configured defaults.
	w = doRequest(t, router, http.MethodGet, "/api/shippo/shipments?days=60&limit=10", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list with params returned %d", w.Code)
	}
	body = decodeBody(t, w)
	if body["count"] != float64(3) {
		t.Fatalf("want all 3 rows with explicit params, got %v", body["count"])
	}
}

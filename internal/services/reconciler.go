package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/HCD2016-hash/shippo-missive/internal/carrier"
	"github.com/HCD2016-hash/shippo-missive/internal/logger"
	"github.com/HCD2016-hash/shippo-missive/internal/repos"
	"github.com/HCD2016-hash/shippo-missive/internal/shippo"
	"github.com/HCD2016-hash/shippo-missive/internal/types"
)

// ReconcilerService merges the three Shippo webhook event kinds into the
// single stored row per shipment. Events can arrive out of order, duplicated
// or with partial data; each handler applies the per-field merge policies
// from the types package so the row converges regardless of arrival order.
type ReconcilerService interface {
	HandleTransactionCreated(ctx context.Context, tx *gorm.DB, data shippo.TransactionData) error
	HandleTransactionUpdated(ctx context.Context, tx *gorm.DB, data shippo.TransactionData) error
	HandleTrackUpdated(ctx context.Context, tx *gorm.DB, data shippo.TrackData) error
}

type reconcilerService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ShipmentRepo
}

func NewReconcilerService(db *gorm.DB, baseLog *logger.Logger, repo repos.ShipmentRepo) ReconcilerService {
	return &reconcilerService{
		db:   db,
		log:  baseLog.With("service", "ReconcilerService"),
		repo: repo,
	}
}

// HandleTransactionCreated upserts when a label is created. Replays are
// idempotent: the conflict branch replaces tracking_number/status and
// coalesce-preserves metadata, label_url, tracking_url and eta.
func (s *reconcilerService) HandleTransactionCreated(ctx context.Context, tx *gorm.DB, data shippo.TransactionData) error {
	if data.ObjectID == nil || strings.TrimSpace(*data.ObjectID) == "" {
		return fmt.Errorf("transaction_created payload has no object_id")
	}

	trackingNumber := deref(data.TrackingNumber)
	s.log.Info("Transaction created", "transaction_id", *data.ObjectID, "tracking_number", trackingNumber)

	status := "PRE_TRANSIT"
	if data.TrackingStatus != nil {
		status = *data.TrackingStatus
	}

	detected := carrier.Detect(trackingNumber)
	row := &types.ShipmentTracking{
		TransactionID:  *data.ObjectID,
		TrackingNumber: data.TrackingNumber,
		Carrier:        &detected,
		Status:         status,
		Metadata:       data.Metadata,
		LabelURL:       data.LabelURL,
		TrackingURL:    data.TrackingURLProvider,
		ETA:            data.ETA,
	}
	// created_at comes from the label's own creation time when Shippo sends
	// one; the conflict branch never touches it, so it stays immutable.
	if data.ObjectCreated != nil {
		if t, err := time.Parse(time.RFC3339, *data.ObjectCreated); err == nil {
			row.CreatedAt = t.UTC()
		}
	}

	return s.repo.UpsertCreated(ctx, tx, row)
}

// HandleTransactionUpdated merges a status change by transaction id. When the
// update outruns the create it falls back to HandleTransactionCreated, so a
// row for the transaction id exists after every call.
func (s *reconcilerService) HandleTransactionUpdated(ctx context.Context, tx *gorm.DB, data shippo.TransactionData) error {
	if data.ObjectID == nil || strings.TrimSpace(*data.ObjectID) == "" {
		return fmt.Errorf("transaction_updated payload has no object_id")
	}

	status := "UNKNOWN"
	if data.TrackingStatus != nil {
		status = *data.TrackingStatus
	}
	s.log.Info("Transaction updated", "transaction_id", *data.ObjectID, "status", status)

	affected, err := s.repo.UpdateByTransactionID(ctx, tx, *data.ObjectID, map[string]any{
		"tracking_number": data.TrackingNumber,
		"status":          status,
		"eta":             data.ETA,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.HandleTransactionCreated(ctx, tx, data)
	}
	return nil
}

// HandleTrackUpdated applies the richest event: addresses, service level,
// nested status and the full history array. It looks up by transaction id
// when the payload carries one, else by tracking number, and inserts a new
// row (synthesizing track_<tracking_number> as the id) when neither matches.
func (s *reconcilerService) HandleTrackUpdated(ctx context.Context, tx *gorm.DB, data shippo.TrackData) error {
	trackingNumber := deref(data.TrackingNumber)
	s.log.Info("Track updated", "tracking_number", trackingNumber)

	var existing *types.ShipmentTracking
	var err error
	if data.Transaction != nil && *data.Transaction != "" {
		existing, err = s.repo.GetByTransactionID(ctx, tx, *data.Transaction)
	} else {
		existing, err = s.repo.GetByTrackingNumber(ctx, tx, trackingNumber)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	carrierTag := strings.ToUpper(deref(data.Carrier))
	if carrierTag == "" {
		carrierTag = carrier.Detect(trackingNumber)
	}

	status := "UNKNOWN"
	if data.TrackingStatus.Status != nil {
		status = *data.TrackingStatus.Status
	}

	// delivered_at only ever takes the first delivery timestamp.
	var deliveredAt *string
	if status == "DELIVERED" {
		deliveredAt = data.TrackingStatus.StatusDate
	}

	history := datatypes.JSON("[]")
	if len(data.TrackingHistory) > 0 {
		history = datatypes.JSON(data.TrackingHistory)
	}

	if existing != nil {
		return s.repo.ApplyTrackUpdate(ctx, tx, existing.ID, map[string]any{
			"tracking_number":  data.TrackingNumber,
			"carrier":          carrierTag,
			"status":           status,
			"status_details":   data.TrackingStatus.StatusDetails,
			"status_date":      data.TrackingStatus.StatusDate,
			"eta":              data.ETA,
			"to_name":          data.AddressTo.Name,
			"to_city":          data.AddressTo.City,
			"to_state":         data.AddressTo.State,
			"to_zip":           data.AddressTo.Zip,
			"to_country":       data.AddressTo.Country,
			"from_city":        data.AddressFrom.City,
			"from_state":       data.AddressFrom.State,
			"from_zip":         data.AddressFrom.Zip,
			"from_country":     data.AddressFrom.Country,
			"service_name":     data.ServiceLevel.Name,
			"service_token":    data.ServiceLevel.Token,
			"tracking_history": history,
			"delivered_at":     deliveredAt,
		})
	}

	transactionID := deref(data.Transaction)
	if transactionID == "" {
		transactionID = "track_" + trackingNumber
	}
	return s.repo.Insert(ctx, tx, &types.ShipmentTracking{
		TransactionID:   transactionID,
		TrackingNumber:  data.TrackingNumber,
		Carrier:         &carrierTag,
		Status:          status,
		StatusDetails:   data.TrackingStatus.StatusDetails,
		StatusDate:      data.TrackingStatus.StatusDate,
		ETA:             data.ETA,
		ToName:          data.AddressTo.Name,
		ToCity:          data.AddressTo.City,
		ToState:         data.AddressTo.State,
		ToZip:           data.AddressTo.Zip,
		ToCountry:       data.AddressTo.Country,
		FromCity:        data.AddressFrom.City,
		FromState:       data.AddressFrom.State,
		FromZip:         data.AddressFrom.Zip,
		FromCountry:     data.AddressFrom.Country,
		ServiceName:     data.ServiceLevel.Name,
		ServiceToken:    data.ServiceLevel.Token,
		TrackingHistory: history,
		DeliveredAt:     deliveredAt,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

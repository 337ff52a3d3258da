package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/HCD2016-hash/shippo-missive/internal/logger"
	"github.com/HCD2016-hash/shippo-missive/internal/repos"
	"github.com/HCD2016-hash/shippo-missive/internal/shippo"
	"github.com/HCD2016-hash/shippo-missive/internal/types"
)

var ErrShipmentNotFound = fmt.Errorf("shipment not found")

// ShipmentView is the dashboard-facing shape: the stored row with the
// serialized history decoded back into a structured array.
type ShipmentView struct {
	types.ShipmentTracking
	TrackingHistory []shippo.TrackingEvent `json:"tracking_history"`
}

type StatsResult struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// ShipmentService is the read side: pure queries over the store, no mutation.
type ShipmentService interface {
	List(ctx context.Context, tx *gorm.DB, filter repos.ShipmentFilter) ([]ShipmentView, error)
	Get(ctx context.Context, tx *gorm.DB, key string) (*ShipmentView, error)
	Stats(ctx context.Context, tx *gorm.DB, days int) (*StatsResult, error)
}

type shipmentService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ShipmentRepo
}

func NewShipmentService(db *gorm.DB, baseLog *logger.Logger, repo repos.ShipmentRepo) ShipmentService {
	return &shipmentService{
		db:   db,
		log:  baseLog.With("service", "ShipmentService"),
		repo: repo,
	}
}

func (s *shipmentService) List(ctx context.Context, tx *gorm.DB, filter repos.ShipmentFilter) ([]ShipmentView, error) {
	if filter.Days <= 0 {
		filter.Days = 90
	}
	if filter.Limit <= 0 {
		filter.Limit = 200
	}

	rows, err := s.repo.List(ctx, tx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]ShipmentView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(row))
	}
	return views, nil
}

func (s *shipmentService) Get(ctx context.Context, tx *gorm.DB, key string) (*ShipmentView, error) {
	row, err := s.repo.GetByAnyKey(ctx, tx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	view := toView(row)
	return &view, nil
}

func (s *shipmentService) Stats(ctx context.Context, tx *gorm.DB, days int) (*StatsResult, error) {
	if days <= 0 {
		days = 90
	}

	counts, err := s.repo.CountByStatus(ctx, tx, days)
	if err != nil {
		return nil, err
	}

	result := &StatsResult{ByStatus: make(map[string]int64, len(counts))}
	for _, c := range counts {
		result.ByStatus[c.Status] = c.Count
		result.Total += c.Count
	}
	return result, nil
}

func toView(row *types.ShipmentTracking) ShipmentView {
	return ShipmentView{
		ShipmentTracking: *row,
		TrackingHistory:  decodeHistory(row),
	}
}

// decodeHistory degrades to an empty array when the stored blob is absent or
// corrupt; a broken history never fails a whole response.
func decodeHistory(row *types.ShipmentTracking) []shippo.TrackingEvent {
	if len(row.TrackingHistory) == 0 {
		return []shippo.TrackingEvent{}
	}
	var events []shippo.TrackingEvent
	if err := json.Unmarshal(row.TrackingHistory, &events); err != nil || events == nil {
		return []shippo.TrackingEvent{}
	}
	return events
}

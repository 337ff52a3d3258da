package repos

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HCD2016-hash/shippo-missive/internal/logger"
	"github.com/HCD2016-hash/shippo-missive/internal/types"
)

// ShipmentFilter narrows List results. Zero values mean "no filter" except
// Days and Limit, which the service defaults before calling.
type ShipmentFilter struct {
	Status string
	Search string
	Days   int
	Limit  int
}

type StatusCount struct {
	Status string
	Count  int64
}

type ShipmentRepo interface {
	UpsertCreated(ctx context.Context, tx *gorm.DB, row *types.ShipmentTracking) error
	UpdateByTransactionID(ctx context.Context, tx *gorm.DB, transactionID string, values map[string]any) (int64, error)
	ApplyTrackUpdate(ctx context.Context, tx *gorm.DB, id uint, values map[string]any) error
	Insert(ctx context.Context, tx *gorm.DB, row *types.ShipmentTracking) error
	GetByTransactionID(ctx context.Context, tx *gorm.DB, transactionID string) (*types.ShipmentTracking, error)
	GetByTrackingNumber(ctx context.Context, tx *gorm.DB, trackingNumber string) (*types.ShipmentTracking, error)
	GetByAnyKey(ctx context.Context, tx *gorm.DB, key string) (*types.ShipmentTracking, error)
	List(ctx context.Context, tx *gorm.DB, filter ShipmentFilter) ([]*types.ShipmentTracking, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, days int) ([]StatusCount, error)
}

type shipmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShipmentRepo(db *gorm.DB, baseLog *logger.Logger) ShipmentRepo {
	repoLog := baseLog.With("repo", "ShipmentRepo")
	return &shipmentRepo{db: db, log: repoLog}
}

const tableName = "shippo_tracking"

// UpsertCreated inserts the row or, when the transaction id already exists,
// merges it in one atomic statement per the created-event policy table.
// Replaying the same event is therefore safe, and concurrent writers for the
// same transaction serialize on the unique constraint.
func (r *shipmentRepo) UpsertCreated(ctx context.Context, tx *gorm.DB, row *types.ShipmentTracking) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	assign := make(map[string]any, len(types.CreatedEventPolicies)+1)
	for col, policy := range types.CreatedEventPolicies {
		if policy == types.CoalescePreserve {
			assign[col] = gorm.Expr("COALESCE(excluded." + col + ", " + tableName + "." + col + ")")
		} else {
			assign[col] = gorm.Expr("excluded." + col)
		}
	}
	assign["updated_at"] = gorm.Expr("CURRENT_TIMESTAMP")

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoUpdates: clause.Assignments(assign),
		}).
		Create(row).Error; err != nil {
		return err
	}
	return nil
}

// UpdateByTransactionID merges values into the row for the transaction id and
// reports how many rows matched, so callers can fall back to an insert when
// the update raced ahead of the create.
func (r *shipmentRepo) UpdateByTransactionID(ctx context.Context, tx *gorm.DB, transactionID string, values map[string]any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.ShipmentTracking{}).
		Where("transaction_id = ?", transactionID).
		Updates(policyAssignments(values, types.UpdatedEventPolicies))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ApplyTrackUpdate merges a track_updated payload into an existing row.
func (r *shipmentRepo) ApplyTrackUpdate(ctx context.Context, tx *gorm.DB, id uint, values map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ShipmentTracking{}).
		Where("id = ?", id).
		Updates(policyAssignments(values, types.TrackEventPolicies)).Error; err != nil {
		return err
	}
	return nil
}

func (r *shipmentRepo) Insert(ctx context.Context, tx *gorm.DB, row *types.ShipmentTracking) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *shipmentRepo) GetByTransactionID(ctx context.Context, tx *gorm.DB, transactionID string) (*types.ShipmentTracking, error) {
	return r.getOne(ctx, tx, "transaction_id = ?", transactionID)
}

func (r *shipmentRepo) GetByTrackingNumber(ctx context.Context, tx *gorm.DB, trackingNumber string) (*types.ShipmentTracking, error) {
	return r.getOne(ctx, tx, "tracking_number = ?", trackingNumber)
}

// GetByAnyKey resolves a dashboard path key against row id, tracking number
// and transaction id. The numeric id clause only applies when the key parses
// as an integer; postgres rejects text compared against the serial column.
func (r *shipmentRepo) GetByAnyKey(ctx context.Context, tx *gorm.DB, key string) (*types.ShipmentTracking, error) {
	if n, err := strconv.Atoi(key); err == nil {
		return r.getOne(ctx, tx, "id = ? OR tracking_number = ? OR transaction_id = ?", n, key, key)
	}
	return r.getOne(ctx, tx, "tracking_number = ? OR transaction_id = ?", key, key)
}

func (r *shipmentRepo) getOne(ctx context.Context, tx *gorm.DB, query string, args ...any) (*types.ShipmentTracking, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.ShipmentTracking
	if err := transaction.WithContext(ctx).
		Where(query, args...).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *shipmentRepo) List(ctx context.Context, tx *gorm.DB, filter ShipmentFilter) ([]*types.ShipmentTracking, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.ShipmentTracking{}).
		Where("created_at >= ?", time.Now().UTC().AddDate(0, 0, -filter.Days)).
		Where("status <> ?", "ERROR")

	if status := strings.ToUpper(strings.TrimSpace(filter.Status)); status != "" && status != "ALL" {
		q = q.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(tracking_number) LIKE ? OR LOWER(metadata) LIKE ? OR LOWER(to_city) LIKE ? OR LOWER(carrier) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var rows []*types.ShipmentTracking
	if err := q.Order("created_at DESC").
		Limit(filter.Limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *shipmentRepo) CountByStatus(ctx context.Context, tx *gorm.DB, days int) ([]StatusCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var counts []StatusCount
	if err := transaction.WithContext(ctx).
		Model(&types.ShipmentTracking{}).
		Select("status, COUNT(*) as count").
		Where("created_at >= ?", time.Now().UTC().AddDate(0, 0, -days)).
		Where("status <> ?", "ERROR").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// policyAssignments rewrites a column→value map into UPDATE assignments per
// the given policy table, keeping the merge semantics in SQL so concurrent
// events for the same shipment cannot lose each other's writes.
func policyAssignments(values map[string]any, policies map[string]types.MergePolicy) map[string]any {
	out := make(map[string]any, len(values)+1)
	for col, v := range values {
		switch policies[col] {
		case types.CoalescePreserve:
			out[col] = gorm.Expr("COALESCE(?, "+col+")", v)
		case types.WriteOnce:
			out[col] = gorm.Expr("COALESCE("+col+", ?)", v)
		default:
			out[col] = v
		}
	}
	out["updated_at"] = time.Now().UTC()
	return out
}

package services

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/HCD2016-hash/shippo-missive/internal/logger"
	"github.com/HCD2016-hash/shippo-missive/internal/repos"
	"github.com/HCD2016-hash/shippo-missive/internal/types"
)

// newTestDB opens a per-test in-memory sqlite database with the tracking
// table migrated. cache=shared keeps the pool's connections on one database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gdb.AutoMigrate(&types.ShipmentTracking{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gdb
}

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func newTestRepo(t *testing.T) (*gorm.DB, repos.ShipmentRepo) {
	t.Helper()
	gdb := newTestDB(t)
	return gdb, repos.NewShipmentRepo(gdb, newTestLogger())
}

func listAll() repos.ShipmentFilter {
	return repos.ShipmentFilter{Days: 90, Limit: 200}
}

func ptr(s string) *string { return &s }

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

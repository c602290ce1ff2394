// Package testutil opens throwaway SQLite databases carrying the engine schema.
package testutil

import (
	"testing"

	"atelier-backend/config"
	"atelier-backend/models"
	"atelier-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// OpenDB opens an empty in-memory database. The pool is pinned to one connection so
// the database outlives individual queries and concurrent callers queue on the pool.
func OpenDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// DB opens an in-memory database with every engine table migrated.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db := OpenDB(tb)
	if err := config.Migrate(db, utils.NopLogger()); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// CloseDB closes the underlying pool so later queries fail like an unreachable server.
func CloseDB(tb testing.TB, db *gorm.DB) {
	tb.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite pool: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		tb.Fatalf("close sqlite: %v", err)
	}
}

func SeedTicket(tb testing.TB, db *gorm.DB) *models.Ticket {
	tb.Helper()
	t := &models.Ticket{Description: "révision complète", Status: "open"}
	if err := db.Create(t).Error; err != nil {
		tb.Fatalf("seed ticket: %v", err)
	}
	return t
}

func SeedCatalogEntry(tb testing.TB, db *gorm.DB, e models.CatalogEntry) *models.CatalogEntry {
	tb.Helper()
	if e.Category == "" {
		e.Category = "Freins"
	}
	if e.PartLabel == "" {
		e.PartLabel = models.DefaultPartLabel
	}
	if e.DurationMin == 0 {
		e.DurationMin = models.DefaultDurationMin
	}
	if err := db.Create(&e).Error; err != nil {
		tb.Fatalf("seed catalog entry %s: %v", e.ID, err)
	}
	return &e
}

// Brakes is the catalog entry used across the engine tests.
func Brakes() models.CatalogEntry {
	return models.CatalogEntry{
		ID:         "PREST_AB12",
		Category:   "Freinage",
		Label:      "Freinage avant",
		LaborPrice: decimal.RequireFromString("25.00"),
		PartLabel:  "Plaquettes",
		PartPrice:  decimal.RequireFromString("12.00"),
		TaxRate:    decimal.RequireFromString("20.0"),
	}
}

// Price is shorthand for an exact decimal in table tests.
func Price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// PricePtr is Price for optional overrides.
func PricePtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

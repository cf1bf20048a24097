package database

import (
	"testing"

	"subscription-tracker/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// childFirst lists tables so that deleting in order never orphans a row
var childFirst = []string{
	"notifications",
	"transactions",
	"subscriptions",
	"payment_methods",
	"categories",
}

type TestDB struct {
	*DB
	t *testing.T
}

// NewTestDB opens a migrated in-memory sqlite database that is closed when t ends.
// Every :memory: connection is its own database, so the pool holds exactly one.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"}
	db, err := open(sqlite.Open(cfg.SQLitePath), cfg, logger.Silent)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return &TestDB{DB: db, t: t}
}

// Gorm returns the underlying gorm handle
func (tdb *TestDB) Gorm() *gorm.DB {
	return tdb.DB.DB
}

// Cleanup empties every table while keeping the schema
func (tdb *TestDB) Cleanup() {
	tdb.t.Helper()

	for _, table := range childFirst {
		if err := tdb.DB.Exec("DELETE FROM " + table).Error; err != nil {
			tdb.t.Errorf("cleanup %s: %v", table, err)
		}
	}
}

// Package testutil provides the shared Postgres harness for repository and
// service integration tests. Tests are skipped unless TEST_POSTGRES_DSN
// points at a disposable database.
package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/types"
)

var (
	openOnce sync.Once
	shared   *gorm.DB
	openErr  error
)

// OpenTestDB returns a migrated connection to the test database, or skips
// the test when none is configured. The connection is shared per process.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set, skipping database test")
	}

	openOnce.Do(func() {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			openErr = err
			return
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
			openErr = err
			return
		}
		openErr = db.AutoMigrate(
			&types.User{},
			&types.UserToken{},
			&types.Strategy{},
			&types.Restaurant{},
			&types.Tutorial{},
			&types.TutorialCompletion{},
			&types.MissionTemplate{},
			&types.Mission{},
			&types.UserStreak{},
			&types.Badge{},
			&types.UserBadge{},
			&types.Notification{},
			&types.DailyStat{},
		)
		if openErr == nil {
			shared = db
		}
	})
	if openErr != nil {
		t.Fatalf("test database setup failed: %v", openErr)
	}
	return shared
}

// RollbackTx begins a transaction that is rolled back when the test ends,
// so tests leave no rows behind.
func RollbackTx(t *testing.T, db *gorm.DB) *gorm.DB {
	t.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin test transaction: %v", tx.Error)
	}
	t.Cleanup(func() {
		tx.Rollback()
	})
	return tx
}

// TestLogger returns a development-mode logger for tests.
func TestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

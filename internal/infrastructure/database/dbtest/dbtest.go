// internal/infrastructure/database/dbtest/dbtest.go
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/your-org/cafe-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/cafe-backend/internal/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var counter atomic.Int64

// New opens a private in-memory SQLite database with the production schema
// and the built-in seed applied. The database is closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db := Empty(t)

	migration := postgres.NewMigration(db, logger.Discard())
	data, err := postgres.LoadSeed("")
	require.NoError(t, err)
	require.NoError(t, migration.SeedInitialData(context.Background(), data))

	return db
}

// Empty opens a migrated database without seed data
func Empty(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:cafe_test_%d?mode=memory&cache=private&_foreign_keys=on", counter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and serialises access
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	migration := postgres.NewMigration(db, logger.Discard())
	require.NoError(t, migration.RunAutoMigrations())
	require.NoError(t, migration.CreateIndexes())

	return db
}

// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"pcns-backend/internal/dataaccess"
	"pcns-backend/internal/infrastructure/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a fresh in-memory database with every migration applied.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.NewMigrator(db).Migrate(context.Background()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Chain returns the default interception chain over a fresh database.
func Chain(t testing.TB) (*dataaccess.Chain, *gorm.DB) {
	t.Helper()
	db := Open(t)
	return dataaccess.NewDefaultChain(database.NewStore(db)), db
}

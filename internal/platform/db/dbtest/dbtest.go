// Package dbtest opens throwaway SQLite databases for repository tests.
package dbtest

import (
	"testing"

	"spotlight/internal/platform/db"

	"gorm.io/gorm"
)

type Migrator interface {
	AutoMigrate() error
}

// Open returns a private in-memory database closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLite("")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// Migrate runs every migrator in order and fails the test on error.
func Migrate(t testing.TB, migrators ...Migrator) {
	t.Helper()
	for _, migrator := range migrators {
		if err := migrator.AutoMigrate(); err != nil {
			t.Fatalf("auto migrate: %v", err)
		}
	}
}

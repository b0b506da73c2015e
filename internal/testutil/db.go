// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/pkg/database"
)

// NewDB opens a migrated in-memory SQLite database that lives for the
// duration of the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.New(&database.Config{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db, domain.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

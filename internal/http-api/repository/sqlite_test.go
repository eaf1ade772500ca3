package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reviewhub/database"
	"reviewhub/internal/http-api/models"
)

// setupTestDB opens a fresh in-memory database with the full schema.
// Foreign keys are enforced so the ON DELETE actions behave as in postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createTestTitle(t *testing.T, db *gorm.DB, name string) *models.Title {
	t.Helper()
	title := &models.Title{Name: name, Year: 1994}
	if err := db.Create(title).Error; err != nil {
		t.Fatalf("create test title: %v", err)
	}
	return title
}

package store

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ideaboard/backend/internal/models"
)

// setupTestDB opens a per-test in-memory database so tests cannot see each
// other's rows.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Idea{},
		&models.Vote{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
	return user
}

// categorySeq keeps seeded category names unique across repeated seedIdea
// calls within one test (categories.name carries a unique constraint).
var categorySeq atomic.Int64

func seedIdea(t *testing.T, db *gorm.DB, author models.User) models.Idea {
	t.Helper()
	category := models.Category{Name: fmt.Sprintf("category-%s-%d", t.Name(), categorySeq.Add(1))}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	idea := models.Idea{
		Title:       "Dark mode",
		Description: "Please add a dark mode",
		AuthorID:    author.ID,
		CategoryID:  category.ID,
		Status:      models.StatusPending,
	}
	if err := db.Create(&idea).Error; err != nil {
		t.Fatalf("failed to seed idea: %v", err)
	}
	return idea
}

func voteCount(t *testing.T, db *gorm.DB, ideaID int) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Vote{}).Where("idea_id = ?", ideaID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count votes: %v", err)
	}
	return count
}

func commentCount(t *testing.T, db *gorm.DB, ideaID int) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Comment{}).Where("idea_id = ?", ideaID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count comments: %v", err)
	}
	return count
}

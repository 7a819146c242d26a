package services

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/extraclasseshub/zonkehub-backend/internal/config"
	"github.com/extraclasseshub/zonkehub-backend/internal/database"
	"github.com/extraclasseshub/zonkehub-backend/internal/models"
	"github.com/extraclasseshub/zonkehub-backend/pkg/utils"
)

// setupTestDB initializes a fresh in-memory SQLite DB for testing
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	database.DB = db

	// Shared-cache memory DB persists across opens; drop for isolation
	database.DB.Migrator().DropTable(
		&models.User{},
		&models.Provider{},
		&models.Rating{},
		&models.Message{},
		&models.ConversationParticipant{},
	)

	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Provider{},
		&models.Rating{},
		&models.Message{},
		&models.ConversationParticipant{},
	); err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	config.AppConfig = &config.Config{
		JWTSecret:           "test_secret_key_12345",
		RatingRecomputeMode: config.RecomputeBestEffort,
	}
}

func createTestUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{
		ID:        utils.GenerateID(),
		Username:  username,
		Email:     username + "@example.com",
		Name:      username,
		CreatedAt: time.Now(),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func createTestProvider(t *testing.T, ownerUsername string) models.Provider {
	t.Helper()
	owner := createTestUser(t, ownerUsername)
	provider := models.Provider{
		ID:           utils.GenerateID(),
		UserID:       owner.ID,
		BusinessName: ownerUsername + " services",
		ServiceType:  "Plumbing",
		City:         "Cape Town",
	}
	if err := database.DB.Create(&provider).Error; err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return provider
}

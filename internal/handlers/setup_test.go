package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/extraclasseshub/zonkehub-backend/internal/config"
	"github.com/extraclasseshub/zonkehub-backend/internal/database"
	"github.com/extraclasseshub/zonkehub-backend/internal/models"
	"github.com/extraclasseshub/zonkehub-backend/pkg/utils"
)

// SetupTestDB initializes an in-memory SQLite DB for testing
func SetupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	database.DB = db

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

func seedUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{
		ID:       utils.GenerateID(),
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func seedProvider(t *testing.T, ownerUsername string) models.Provider {
	t.Helper()
	owner := seedUser(t, ownerUsername)
	provider := models.Provider{
		ID:           utils.GenerateID(),
		UserID:       owner.ID,
		BusinessName: ownerUsername + " services",
		ServiceType:  "Electrical",
		City:         "Johannesburg",
	}
	if err := database.DB.Create(&provider).Error; err != nil {
		t.Fatalf("Failed to seed provider: %v", err)
	}
	return provider
}

// testContext builds a gin test context authenticated as userID
func testContext(t *testing.T, method, target string, body interface{}, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, target, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	if userID != "" {
		c.Set("userId", userID)
	}
	return c, w
}

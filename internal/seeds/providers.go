package seeds

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/extraclasseshub/zonkehub-backend/internal/database"
	"github.com/extraclasseshub/zonkehub-backend/internal/models"
)

type providerSeed struct {
	Username     string
	Name         string
	BusinessName string
	ServiceType  string
	Suburb       string
	City         string
}

var demoProviders = []providerSeed{
	{"thandi-plumbing", "Thandi Nkosi", "Thandi's Plumbing", "Plumbing", "Khayelitsha", "Cape Town"},
	{"sipho-electric", "Sipho Dlamini", "Sipho Electrical Works", "Electrical", "Soweto", "Johannesburg"},
	{"ayanda-gardens", "Ayanda Mthembu", "Ayanda Garden Services", "Gardening", "Umlazi", "Durban"},
}

// SeedProviders creates a few demo provider accounts for development.
// Idempotent: existing usernames are skipped.
func SeedProviders() error {
	log.Println("Seeding demo providers...")

	hash, _ := bcrypt.GenerateFromPassword([]byte("DemoProvider2024!"), bcrypt.DefaultCost)

	for _, seed := range demoProviders {
		var user models.User
		err := database.DB.Where("username = ?", seed.Username).First(&user).Error
		if err == nil {
			continue
		}

		user = models.User{
			ID:        uuid.New().String(),
			Username:  seed.Username,
			Email:     seed.Username + "@zonkehub.example",
			Password:  string(hash),
			Role:      models.RoleProvider,
			Name:      seed.Name,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return err
		}

		provider := models.Provider{
			ID:           uuid.New().String(),
			UserID:       user.ID,
			BusinessName: seed.BusinessName,
			ServiceType:  seed.ServiceType,
			Suburb:       seed.Suburb,
			City:         seed.City,
		}
		if err := database.DB.Create(&provider).Error; err != nil {
			return err
		}

		log.Printf("   Created provider: %s (%s)", seed.BusinessName, seed.City)
	}

	return nil
}

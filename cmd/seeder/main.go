package main

import (
	"log"

	"github.com/extraclasseshub/zonkehub-backend/internal/config"
	"github.com/extraclasseshub/zonkehub-backend/internal/database"
	"github.com/extraclasseshub/zonkehub-backend/internal/models"
	"github.com/extraclasseshub/zonkehub-backend/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Provider{},
		&models.Rating{},
		&models.Message{},
		&models.ConversationParticipant{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := seeds.SeedProviders(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}

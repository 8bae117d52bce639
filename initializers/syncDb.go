package initializers

import (
	"log"

	"github.com/medikart/medikart-api/models"
	"gorm.io/gorm"
)

func SyncDatabase(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.Prescription{},
		&models.Feature{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("Database synced successfully.")
}

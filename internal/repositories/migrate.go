package repositories

import (
	"log"

	"github.com/anonto42/yatube/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema of every model
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		return err
	}
	log.Println("Auto-migrations completed for all models.")
	return nil
}

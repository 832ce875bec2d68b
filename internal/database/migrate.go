package database

import (
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// Migrate applies the schema using GORM auto-migration. Association tables
// carry the composite unique indexes that back the toggle-entity contracts.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.RecipeTag{},
		&models.Favorite{},
		&models.CartItem{},
		&models.Follow{},
	)
}

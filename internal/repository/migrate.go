package repository

import (
	"agriconnect-api/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the marketplace tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.FarmProduct{},
		&model.Order{},
		&model.WeatherReport{},
		&model.FarmingUpdate{},
	)
}

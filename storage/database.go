// storage/database.go
package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"saraih-server/models"
)

// Open connects to Postgres and runs migrations. The handle is returned
// to the caller and injected into the stores; nothing here is global.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := performMigrations(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func performMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Guest{},
		&models.Room{},
		&models.SeasonalRate{},
		&models.PromoCode{},
		&models.Booking{},
	)
}

package database

import (
	"log"

	"nontonin-api/config"
	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/domain/billing"
	"nontonin-api/internal/domain/library"
	"nontonin-api/internal/domain/movies"
	"nontonin-api/internal/domain/reviews"
	"nontonin-api/internal/domain/settings"
	"nontonin-api/internal/domain/users"
	"nontonin-api/internal/infra/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	db, err := gorm.Open(postgres.Open(config.DB_URL), &gorm.Config{
		Logger: logging.GormLogger(),
		// unique violations come back as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	DB = db

	// gen_random_uuid()
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("Failed to enable pgcrypto extension: ", err)
	}

	if err := DB.AutoMigrate(
		&users.Profile{},
		&users.ResetToken{},
		&movies.Movie{},
		&billing.Transaction{},
		&library.WatchHistory{},
		&reviews.Review{},
		&activity.Log{},
		&settings.AppSetting{},
	); err != nil {
		log.Fatal("AutoMigrate error: ", err)
	}

	logging.LogInfo("Connected and migrated successfully")
}

package database

import (
	"fmt"

	"github.com/pmarkota/dreamlog-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds the Postgres connection settings.
type Config struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

// New opens the Postgres connection and migrates the schema. The returned
// handle is passed into services explicitly; there is no package-global.
func New(cfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Dream{},
		&models.Tag{},
		&models.Mood{},
		&models.DreamMood{},
		&models.DreamAnalysis{},
		&models.AIUsage{},
		&models.DreamPrompt{},
		&models.WaitlistEntry{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return db, nil
}

package database

import (
	"fmt"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the PostgreSQL catalog database and migrates the schema.
// TranslateError is enabled so uniqueness violations surface as
// gorm.ErrDuplicatedKey, which the repositories map to their own sentinel.
func Connect(databaseURL string, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Anime{},
		&models.AnimeSiteLink{},
		&models.LibFile{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

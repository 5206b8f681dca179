package repository

import (
	"context"
	"fmt"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"

	"gorm.io/gorm"
)

type LibFileRepository interface {
	// BulkReassign points every listed file at the given catalog entry and
	// reports how many rows actually changed. Removed files and files
	// already associated with the target are left alone, so a repeated call
	// with the same arguments reports zero.
	BulkReassign(ctx context.Context, fileIDs []uint, animeID uint) (int64, error)
}

type libFileRepository struct {
	db *gorm.DB
}

func NewLibFileRepository(db *gorm.DB) LibFileRepository {
	return &libFileRepository{db: db}
}

func (r *libFileRepository) BulkReassign(ctx context.Context, fileIDs []uint, animeID uint) (int64, error) {
	if len(fileIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.LibFile{}).
		Where("id IN ?", fileIDs).
		Where("removed = ?", false).
		Where("anime_id IS NULL OR anime_id <> ?", animeID).
		Update("anime_id", animeID)
	if result.Error != nil {
		return 0, fmt.Errorf("reassign %d files to anime %d: %w", len(fileIDs), animeID, result.Error)
	}
	return result.RowsAffected, nil
}

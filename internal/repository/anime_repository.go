package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert collides with a uniqueness
// constraint. Callers treat it as an item-level conflict, not a fatal error.
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type AnimeRepository interface {
	Create(ctx context.Context, anime *models.Anime) error
	GetByID(ctx context.Context, id uint) (*models.Anime, error)
	// UpdateMetadata rewrites descriptive fields of one entry. Used by site
	// updaters during refresh; the reconciler never calls it.
	UpdateMetadata(ctx context.Context, id uint, fields map[string]interface{}) error
	// FindWithStaleLinks returns entries having at least one site link whose
	// last_update is null or not after cutoff, with all links preloaded.
	FindWithStaleLinks(ctx context.Context, cutoff time.Time) ([]models.Anime, error)
}

type animeRepository struct {
	db *gorm.DB
}

func NewAnimeRepository(db *gorm.DB) AnimeRepository {
	return &animeRepository{db: db}
}

func (r *animeRepository) Create(ctx context.Context, anime *models.Anime) error {
	if err := r.db.WithContext(ctx).Create(anime).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create anime %q: %w", anime.Name, ErrDuplicate)
		}
		return fmt.Errorf("create anime %q: %w", anime.Name, err)
	}
	return nil
}

func (r *animeRepository) GetByID(ctx context.Context, id uint) (*models.Anime, error) {
	var anime models.Anime
	err := r.db.WithContext(ctx).Preload("Sites").First(&anime, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("anime %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get anime %d: %w", id, err)
	}
	return &anime, nil
}

func (r *animeRepository) UpdateMetadata(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Anime{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update anime %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("anime %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *animeRepository) FindWithStaleLinks(ctx context.Context, cutoff time.Time) ([]models.Anime, error) {
	var list []models.Anime
	err := r.db.WithContext(ctx).
		Preload("Sites").
		Where("id IN (?)", r.db.
			Model(&models.AnimeSiteLink{}).
			Select("anime_id").
			Where("last_update IS NULL OR last_update <= ?", cutoff)).
		Order("id").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("find anime with stale links: %w", err)
	}
	return list, nil
}

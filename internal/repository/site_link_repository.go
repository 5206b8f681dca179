package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"

	"gorm.io/gorm"
)

type SiteLinkRepository interface {
	// Upsert attaches a site link by its (site_type, site_id) natural key.
	// If the key already exists the stored row is returned untouched; in
	// particular the existing owner is never reassigned.
	Upsert(ctx context.Context, link *models.AnimeSiteLink) (*models.AnimeSiteLink, error)
	// ListBySite returns every link carrying the given external identifier.
	// One external record may fan out to several catalog entries.
	ListBySite(ctx context.Context, siteType models.SiteType, siteID string) ([]models.AnimeSiteLink, error)
	// Touch marks all links with the given natural key as refreshed at t.
	Touch(ctx context.Context, siteType models.SiteType, siteID string, t time.Time) error
}

type siteLinkRepository struct {
	db *gorm.DB
}

func NewSiteLinkRepository(db *gorm.DB) SiteLinkRepository {
	return &siteLinkRepository{db: db}
}

func (r *siteLinkRepository) Upsert(ctx context.Context, link *models.AnimeSiteLink) (*models.AnimeSiteLink, error) {
	var stored models.AnimeSiteLink
	// The lookup must stay on the natural key alone: the proposed owner is
	// only an Attrs default for the create path. Folding it into the query
	// would miss a row held by another entry and insert a duplicate.
	err := r.db.WithContext(ctx).
		Where(models.AnimeSiteLink{SiteType: link.SiteType, SiteID: link.SiteID}).
		Attrs(models.AnimeSiteLink{AnimeID: link.AnimeID}).
		FirstOrCreate(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("upsert site link %s/%s: %w", link.SiteType, link.SiteID, err)
	}
	return &stored, nil
}

func (r *siteLinkRepository) ListBySite(ctx context.Context, siteType models.SiteType, siteID string) ([]models.AnimeSiteLink, error) {
	var links []models.AnimeSiteLink
	err := r.db.WithContext(ctx).
		Where("site_type = ? AND site_id = ?", siteType, siteID).
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list site links %s/%s: %w", siteType, siteID, err)
	}
	return links, nil
}

func (r *siteLinkRepository) Touch(ctx context.Context, siteType models.SiteType, siteID string, t time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.AnimeSiteLink{}).
		Where("site_type = ? AND site_id = ?", siteType, siteID).
		Update("last_update", t).Error
	if err != nil {
		return fmt.Errorf("touch site link %s/%s: %w", siteType, siteID, err)
	}
	return nil
}

package models

import "time"

// SiteType tags the external metadata provider a site link points at.
type SiteType string

const (
	SiteTypeBangumi SiteType = "Bangumi"
)

// AnimeSiteLink ties one Anime to an identifier on an external metadata
// site. The (site_type, site_id) pair is globally unique: attaching a link
// that already exists must reuse the existing row instead of duplicating it.
type AnimeSiteLink struct {
	ID       uint     `json:"id" gorm:"primaryKey;autoIncrement"`
	AnimeID  uint     `json:"anime_id" gorm:"not null;index"`
	SiteType SiteType `json:"site_type" gorm:"size:32;not null;uniqueIndex:idx_site_natural_key"`
	SiteID   string   `json:"site_id" gorm:"size:64;not null;uniqueIndex:idx_site_natural_key"`

	// LastUpdate is when a site updater last refreshed metadata through this
	// link. Nil means the link has never been refreshed.
	LastUpdate *time.Time `json:"last_update,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (AnimeSiteLink) TableName() string {
	return "anime_site_links"
}

// StaleAt reports whether the link needs a refresh relative to cutoff.
// A never-refreshed link is stale against every cutoff.
func (l AnimeSiteLink) StaleAt(cutoff time.Time) bool {
	if l.LastUpdate == nil {
		return true
	}
	return !l.LastUpdate.After(cutoff)
}

package models

import "time"

// Anime is a persisted catalog entry for one title.
// Rows are created exclusively by the library reconciler; site updaters
// only rewrite the descriptive metadata fields afterwards.
type Anime struct {
	ID           uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string  `json:"name" gorm:"not null"`
	OriginalName string  `json:"original_name"`
	BDRip        bool    `json:"bdrip" gorm:"column:bdrip"`
	NSFW         bool    `json:"nsfw" gorm:"column:nsfw"`
	Platform     *string `json:"platform,omitempty"`

	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	ReleaseYear   *int       `json:"release_year,omitempty"`
	ReleaseSeason *string    `json:"release_season,omitempty"`
	Region        *string    `json:"region,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Sites []AnimeSiteLink `json:"sites,omitempty" gorm:"foreignKey:AnimeID"`
}

func (Anime) TableName() string {
	return "anime"
}

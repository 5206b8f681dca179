package models

import "time"

// LibFile is a scanned filesystem path inside a media library. The
// reconciler never creates or deletes these rows; it only repoints the
// anime association computed by the scraper.
type LibFile struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	LibraryID uint   `json:"library_id" gorm:"not null;index"`
	DirPath   string `json:"dir_path" gorm:"not null"`
	FileName  string `json:"file_name" gorm:"not null"`

	// AnimeID is nil until the scraper matches the file to a catalog entry.
	AnimeID *uint `json:"anime_id,omitempty" gorm:"index"`

	// Removed marks files that disappeared from disk between scans.
	Removed bool `json:"removed" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (LibFile) TableName() string {
	return "lib_files"
}

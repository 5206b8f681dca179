package models

// SiteLinkSeed is a proposed external-site identifier for a new catalog
// entry, as reported by the library scraper.
type SiteLinkSeed struct {
	SiteType SiteType `json:"site_type"`
	SiteID   string   `json:"site_id"`
}

// NewAnimeEntry proposes a catalog entry the scraper could not match to an
// existing one, together with the site links and files that belong to it.
type NewAnimeEntry struct {
	Anime   Anime          `json:"anime"`
	Sites   []SiteLinkSeed `json:"sites"`
	FileIDs []uint         `json:"file_ids"`
}

// ExistingAnimeEntry associates scanned files with an already-persisted
// catalog entry.
type ExistingAnimeEntry struct {
	AnimeID uint   `json:"anime_id"`
	FileIDs []uint `json:"file_ids"`
}

// ScrapeResult is the ephemeral output of one library scan run. It is never
// persisted; the reconciler consumes it synchronously. File-id sets across
// entries are expected to be disjoint, but this is not enforced: a file
// named twice simply ends up with the last association written.
type ScrapeResult struct {
	NewAnimes      []NewAnimeEntry      `json:"new_animes"`
	ExistingAnimes []ExistingAnimeEntry `json:"existing_animes"`
}

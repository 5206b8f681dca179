package refresh

import "github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"

// Registry maps a site type to the updater that can refresh it. It is
// populated once at startup; lookups for unregistered site types report
// absence instead of an error, and callers skip those links.
type Registry struct {
	updaters map[models.SiteType]AnimeUpdater
}

func NewRegistry() *Registry {
	return &Registry{updaters: make(map[models.SiteType]AnimeUpdater)}
}

// Register binds an updater to a site type, replacing any previous binding.
func (r *Registry) Register(siteType models.SiteType, updater AnimeUpdater) {
	r.updaters[siteType] = updater
}

// Resolve returns the updater for a site type, or (nil, false) when the
// provider is unsupported.
func (r *Registry) Resolve(siteType models.SiteType) (AnimeUpdater, bool) {
	updater, ok := r.updaters[siteType]
	return updater, ok
}

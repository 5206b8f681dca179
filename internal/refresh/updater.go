package refresh

import "context"

// AnimeUpdater is the per-provider refresh capability. Given an external
// identifier, an implementation fetches current metadata from its site and
// rewrites the descriptive fields of every catalog entry linked to that
// identifier, setting the links' last_update as a side effect.
//
// Implementations must be idempotent: refreshing already-fresh data is a
// harmless rewrite. Network and decode failures propagate to the caller;
// the staleness scanner isolates them per link.
type AnimeUpdater interface {
	RefreshRelatedEntries(ctx context.Context, siteID string) error
}

package library

import (
	"context"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/notify"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Reconciler applies one scrape result to the catalog: it creates entries
// the scraper proposed, attaches their site links, and repoints file
// associations. Every item is best-effort; a failure is recorded in the
// batch report and processing moves on to the next item. The only way a
// batch aborts is a panic-level programming error, never partial data.
type Reconciler struct {
	animes   repository.AnimeRepository
	links    repository.SiteLinkRepository
	files    repository.LibFileRepository
	notifier *notify.Notifier
	logger   *logrus.Logger
}

func NewReconciler(
	animes repository.AnimeRepository,
	links repository.SiteLinkRepository,
	files repository.LibFileRepository,
	notifier *notify.Notifier,
	logger *logrus.Logger,
) *Reconciler {
	return &Reconciler{
		animes:   animes,
		links:    links,
		files:    files,
		notifier: notifier,
		logger:   logger,
	}
}

// ApplyScrapeResult runs every new-entry item in input order, then every
// existing-entry item. There is no rollback across items: this is an
// at-least-once batch apply, and the report tells the operator what stuck.
func (r *Reconciler) ApplyScrapeResult(ctx context.Context, result *models.ScrapeResult) *BatchReport {
	report := &BatchReport{BatchID: uuid.NewString()}

	r.logger.WithFields(logrus.Fields{
		"batch_id": report.BatchID,
		"new":      len(result.NewAnimes),
		"existing": len(result.ExistingAnimes),
	}).Info("Applying scrape result")

	for _, item := range result.NewAnimes {
		outcome := r.applyNewAnime(ctx, item)
		report.add(outcome)
		r.logOutcome(report.BatchID, outcome)
	}

	for _, item := range result.ExistingAnimes {
		outcome := r.applyExistingAnime(ctx, item)
		report.add(outcome)
		r.logOutcome(report.BatchID, outcome)
	}

	r.logger.WithFields(logrus.Fields{
		"batch_id":         report.BatchID,
		"created":          report.Created,
		"failed":           report.Failed,
		"files_reassigned": report.FilesReassigned,
	}).Info("Scrape result applied")

	return report
}

// applyNewAnime creates the catalog entry, attaches its site links, and
// reassigns its files. A create failure aborts only this item; a link
// failure aborts only that link.
func (r *Reconciler) applyNewAnime(ctx context.Context, item models.NewAnimeEntry) ItemOutcome {
	outcome := ItemOutcome{Kind: ItemNew, Name: item.Anime.Name, FilesRequested: len(item.FileIDs)}

	anime := item.Anime
	if err := r.animes.Create(ctx, &anime); err != nil {
		// Duplicate-key conflicts and store errors alike abort only this item.
		outcome.Err = err
		return outcome
	}
	outcome.AnimeID = anime.ID
	outcome.Created = true

	for _, seed := range item.Sites {
		link := models.AnimeSiteLink{
			AnimeID:  anime.ID,
			SiteType: seed.SiteType,
			SiteID:   seed.SiteID,
		}
		if _, err := r.links.Upsert(ctx, &link); err != nil {
			outcome.LinkErrors = append(outcome.LinkErrors, err)
			r.logger.WithError(err).WithFields(logrus.Fields{
				"anime_id":  anime.ID,
				"site_type": seed.SiteType,
				"site_id":   seed.SiteID,
			}).Warn("Failed to attach site link")
			continue
		}
		outcome.LinksAttached++
	}

	count, err := r.files.BulkReassign(ctx, item.FileIDs, anime.ID)
	if err != nil {
		outcome.FileErr = err
		return outcome
	}
	outcome.FilesReassigned = count

	r.notifier.NotifyAnimeCreated(anime.ID, anime.Name)
	return outcome
}

// applyExistingAnime repoints the item's files at an already-persisted
// entry. Same per-item isolation as the new-entry path.
func (r *Reconciler) applyExistingAnime(ctx context.Context, item models.ExistingAnimeEntry) ItemOutcome {
	outcome := ItemOutcome{Kind: ItemExisting, AnimeID: item.AnimeID, FilesRequested: len(item.FileIDs)}

	count, err := r.files.BulkReassign(ctx, item.FileIDs, item.AnimeID)
	if err != nil {
		outcome.FileErr = err
		return outcome
	}
	outcome.FilesReassigned = count
	return outcome
}

func (r *Reconciler) logOutcome(batchID string, o ItemOutcome) {
	fields := logrus.Fields{
		"batch_id":         batchID,
		"kind":             o.Kind,
		"anime_id":         o.AnimeID,
		"files_requested":  o.FilesRequested,
		"files_reassigned": o.FilesReassigned,
	}
	if o.Name != "" {
		fields["name"] = o.Name
	}

	switch {
	case o.Err != nil:
		r.logger.WithError(o.Err).WithFields(fields).Warn("Item skipped")
	case o.FileErr != nil:
		r.logger.WithError(o.FileErr).WithFields(fields).Warn("File reassignment failed")
	case int64(o.FilesRequested) != o.FilesReassigned:
		// Normal when files were removed between scan and apply.
		r.logger.WithFields(fields).Info("Item applied with fewer files than requested")
	default:
		r.logger.WithFields(fields).Debug("Item applied")
	}
}

package bangumi

import (
	"context"
	"fmt"
	"time"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/notify"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/repository"

	"github.com/sirupsen/logrus"
)

// Updater refreshes catalog metadata from Bangumi. One subject id may be
// linked to several catalog entries (split cours, specials filed apart);
// a refresh rewrites all of them and touches their shared links.
type Updater struct {
	client   *Client
	animes   repository.AnimeRepository
	links    repository.SiteLinkRepository
	notifier *notify.Notifier
	logger   *logrus.Logger
}

func NewUpdater(
	client *Client,
	animes repository.AnimeRepository,
	links repository.SiteLinkRepository,
	notifier *notify.Notifier,
	logger *logrus.Logger,
) *Updater {
	return &Updater{
		client:   client,
		animes:   animes,
		links:    links,
		notifier: notifier,
		logger:   logger,
	}
}

// RefreshRelatedEntries fetches the subject and rewrites every entry linked
// to it. Safe to call repeatedly: rewriting fresh data is a no-op in
// effect. Errors propagate so the staleness scanner can isolate them per
// link.
func (u *Updater) RefreshRelatedEntries(ctx context.Context, siteID string) error {
	subject, err := u.client.GetSubject(ctx, siteID)
	if err != nil {
		return err
	}

	links, err := u.links.ListBySite(ctx, models.SiteTypeBangumi, siteID)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		u.logger.WithField("site_id", siteID).Debug("No entries linked to subject, nothing to refresh")
		return nil
	}

	fields := metadataFields(subject)

	animeIDs := make([]uint, 0, len(links))
	for _, link := range links {
		if err := u.animes.UpdateMetadata(ctx, link.AnimeID, fields); err != nil {
			return fmt.Errorf("refresh anime %d from subject %s: %w", link.AnimeID, siteID, err)
		}
		animeIDs = append(animeIDs, link.AnimeID)
	}

	if err := u.links.Touch(ctx, models.SiteTypeBangumi, siteID, time.Now()); err != nil {
		return fmt.Errorf("mark subject %s refreshed: %w", siteID, err)
	}

	u.logger.WithFields(logrus.Fields{
		"site_id": siteID,
		"name":    subject.DisplayName(),
		"entries": len(animeIDs),
	}).Info("Refreshed metadata from Bangumi")

	u.notifier.NotifyMetadataRefreshed(string(models.SiteTypeBangumi), siteID, animeIDs)
	return nil
}

// metadataFields maps a subject onto the catalog columns a refresh may
// rewrite. Fields Bangumi does not know about (region, bdrip) are left out
// so the reconciler-assigned values survive.
func metadataFields(subject *Subject) map[string]interface{} {
	fields := map[string]interface{}{
		"name":          subject.DisplayName(),
		"original_name": subject.Name,
		"nsfw":          subject.NSFW,
	}

	if subject.Platform != "" {
		fields["platform"] = subject.Platform
	}

	if date, err := time.Parse("2006-01-02", subject.Date); err == nil {
		year := date.Year()
		fields["release_date"] = date
		fields["release_year"] = year
		fields["release_season"] = seasonOf(date.Month())
	}

	return fields
}

// seasonOf buckets an air month into its broadcast cour.
func seasonOf(month time.Month) string {
	switch {
	case month <= time.March:
		return "1月"
	case month <= time.June:
		return "4月"
	case month <= time.September:
		return "7月"
	default:
		return "10月"
	}
}

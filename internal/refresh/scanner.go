package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/repository"

	"github.com/sirupsen/logrus"
)

// Scanner finds site links whose metadata has gone stale and drives the
// registered updater for each one. It never touches last_update itself;
// only updaters move a link back to fresh.
type Scanner struct {
	animes   repository.AnimeRepository
	registry *Registry
	logger   *logrus.Logger
}

func NewScanner(animes repository.AnimeRepository, registry *Registry, logger *logrus.Logger) *Scanner {
	return &Scanner{
		animes:   animes,
		registry: registry,
		logger:   logger,
	}
}

// ScanReport summarizes one staleness scan.
type ScanReport struct {
	Cutoff     time.Time `json:"cutoff"`
	Stale      int       `json:"stale"`
	Dispatched int       `json:"dispatched"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// Scan refreshes every site link whose last_update is null or not after
// cutoff. Links are dispatched sequentially; an updater failure is logged
// and counted, and the scan continues with the next link. The returned
// error covers only the initial store query.
func (s *Scanner) Scan(ctx context.Context, cutoff time.Time) (*ScanReport, error) {
	animes, err := s.animes.FindWithStaleLinks(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("staleness scan: %w", err)
	}

	report := &ScanReport{Cutoff: cutoff}

	for _, anime := range animes {
		for _, link := range anime.Sites {
			// An entry can hold both stale and fresh links; re-check each
			// one instead of trusting the entry-level query.
			if !link.StaleAt(cutoff) {
				continue
			}
			report.Stale++
			s.dispatch(ctx, link, report)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"cutoff":     cutoff,
		"stale":      report.Stale,
		"dispatched": report.Dispatched,
		"skipped":    report.Skipped,
		"failed":     report.Failed,
	}).Info("Staleness scan completed")

	return report, nil
}

func (s *Scanner) dispatch(ctx context.Context, link models.AnimeSiteLink, report *ScanReport) {
	updater, ok := s.registry.Resolve(link.SiteType)
	if !ok {
		// Unsupported providers are not errors, just not ours to refresh.
		report.Skipped++
		s.logger.WithFields(logrus.Fields{
			"site_type": link.SiteType,
			"site_id":   link.SiteID,
		}).Debug("No updater registered, skipping link")
		return
	}

	if err := updater.RefreshRelatedEntries(ctx, link.SiteID); err != nil {
		report.Failed++
		s.logger.WithError(err).WithFields(logrus.Fields{
			"site_type": link.SiteType,
			"site_id":   link.SiteID,
		}).Warn("Site refresh failed")
		return
	}
	report.Dispatched++
}

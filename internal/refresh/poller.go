package refresh

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Poller runs a staleness scan on a fixed interval until its context is
// cancelled. Each run uses cutoff = now - staleAfter, so links refreshed
// within the window are left alone.
type Poller struct {
	scanner    *Scanner
	interval   time.Duration
	staleAfter time.Duration
	logger     *logrus.Logger
}

func NewPoller(scanner *Scanner, interval, staleAfter time.Duration, logger *logrus.Logger) *Poller {
	return &Poller{
		scanner:    scanner,
		interval:   interval,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

// Start launches the polling loop in a goroutine. A scan runs immediately,
// then once per interval.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		p.logger.WithFields(logrus.Fields{
			"interval":    p.interval,
			"stale_after": p.staleAfter,
		}).Info("Refresh poller started")

		p.run(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("Refresh poller stopped")
				return
			case <-ticker.C:
				p.run(ctx)
			}
		}
	}()
}

func (p *Poller) run(ctx context.Context) {
	cutoff := time.Now().Add(-p.staleAfter)
	if _, err := p.scanner.Scan(ctx, cutoff); err != nil {
		p.logger.WithError(err).Error("Scheduled staleness scan failed")
	}
}

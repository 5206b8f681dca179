package server

import (
	"context"
	"fmt"
	"time"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/library"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/refresh"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ScrapeApplier is the slice of the reconciler the HTTP layer needs.
type ScrapeApplier interface {
	ApplyScrapeResult(ctx context.Context, result *models.ScrapeResult) *library.BatchReport
}

// StalenessScanner is the slice of the refresh scanner the HTTP layer needs.
type StalenessScanner interface {
	Scan(ctx context.Context, cutoff time.Time) (*refresh.ScanReport, error)
}

// Server exposes the trigger surface: the scraper posts its results here,
// and operators can kick a staleness scan by hand.
type Server struct {
	engine     *gin.Engine
	port       int
	staleAfter time.Duration
	applier    ScrapeApplier
	scanner    StalenessScanner
	logger     *logrus.Logger
}

func NewServer(port int, staleAfter time.Duration, applier ScrapeApplier, scanner StalenessScanner, logger *logrus.Logger) *Server {
	s := &Server{
		port:       port,
		staleAfter: staleAfter,
		applier:    applier,
		scanner:    scanner,
		logger:     logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	s.engine = engine
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.POST("/library/scrape-result", s.handleScrapeResult)
	api.POST("/refresh/scan", s.handleRefreshScan)
}

// Run blocks serving HTTP until the listener fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.WithField("addr", addr).Info("Starting HTTP server")
	return s.engine.Run(addr)
}

package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleScrapeResult accepts one scrape result from the library scanner
// and applies it. Per-item failures are reported in the body, not as an
// HTTP error: partial success is the normal outcome of a batch.
func (s *Server) handleScrapeResult(c *gin.Context) {
	var result models.ScrapeResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scrape result: " + err.Error()})
		return
	}

	report := s.applier.ApplyScrapeResult(c.Request.Context(), &result)
	c.JSON(http.StatusOK, report)
}

type refreshScanRequest struct {
	// StaleAfter overrides the configured staleness window, e.g. "72h".
	StaleAfter string `json:"stale_after"`
}

// handleRefreshScan runs a staleness scan immediately. The cutoff defaults
// to now minus the configured window.
func (s *Server) handleRefreshScan(c *gin.Context) {
	staleAfter := s.staleAfter

	var req refreshScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An empty body means "use the configured window"; anything else
		// unparseable is a caller mistake, not a default.
		if !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scan request: " + err.Error()})
			return
		}
	} else if req.StaleAfter != "" {
		parsed, err := time.ParseDuration(req.StaleAfter)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stale_after: " + err.Error()})
			return
		}
		staleAfter = parsed
	}

	report, err := s.scanner.Scan(c.Request.Context(), time.Now().Add(-staleAfter))
	if err != nil {
		s.logger.WithError(err).Error("Manual staleness scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

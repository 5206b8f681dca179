package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/library"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/refresh"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApplier struct {
	received *models.ScrapeResult
	report   *library.BatchReport
}

func (f *fakeApplier) ApplyScrapeResult(ctx context.Context, result *models.ScrapeResult) *library.BatchReport {
	f.received = result
	return f.report
}

type fakeScanner struct {
	cutoff  time.Time
	report  *refresh.ScanReport
	scanErr error
}

func (f *fakeScanner) Scan(ctx context.Context, cutoff time.Time) (*refresh.ScanReport, error) {
	f.cutoff = cutoff
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.report, nil
}

func newTestServer(applier *fakeApplier, scanner *fakeScanner) *Server {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewServer(8080, 72*time.Hour, applier, scanner, log)
}

func TestHandleScrapeResult(t *testing.T) {
	applier := &fakeApplier{report: &library.BatchReport{BatchID: "batch-1", Created: 1}}
	srv := newTestServer(applier, &fakeScanner{})

	body := `{
		"new_animes": [
			{"anime": {"name": "Show A"}, "sites": [{"site_type": "Bangumi", "site_id": "1"}], "file_ids": [10, 11]}
		],
		"existing_animes": []
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/library/scrape-result", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, applier.received)
	require.Len(t, applier.received.NewAnimes, 1)
	assert.Equal(t, "Show A", applier.received.NewAnimes[0].Anime.Name)
	assert.Equal(t, []uint{10, 11}, applier.received.NewAnimes[0].FileIDs)

	var report library.BatchReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "batch-1", report.BatchID)
	assert.Equal(t, 1, report.Created)
}

func TestHandleScrapeResult_InvalidBody(t *testing.T) {
	applier := &fakeApplier{}
	srv := newTestServer(applier, &fakeScanner{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/library/scrape-result", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, applier.received)
}

func TestHandleRefreshScan_DefaultWindow(t *testing.T) {
	scanner := &fakeScanner{report: &refresh.ScanReport{Dispatched: 3}}
	srv := newTestServer(&fakeApplier{}, scanner)

	before := time.Now().Add(-72 * time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/refresh/scan", nil)
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Cutoff is now - configured window.
	assert.WithinDuration(t, before, scanner.cutoff, time.Minute)

	var report refresh.ScanReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 3, report.Dispatched)
}

func TestHandleRefreshScan_WindowOverride(t *testing.T) {
	scanner := &fakeScanner{report: &refresh.ScanReport{}}
	srv := newTestServer(&fakeApplier{}, scanner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/refresh/scan", bytes.NewBufferString(`{"stale_after": "1h"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.WithinDuration(t, time.Now().Add(-time.Hour), scanner.cutoff, time.Minute)
}

func TestHandleRefreshScan_InvalidOverride(t *testing.T) {
	srv := newTestServer(&fakeApplier{}, &fakeScanner{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/refresh/scan", bytes.NewBufferString(`{"stale_after": "soon"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRefreshScan_MalformedBodyIsRejected(t *testing.T) {
	scanner := &fakeScanner{report: &refresh.ScanReport{}}
	srv := newTestServer(&fakeApplier{}, scanner)

	// A body that fails to bind must not fall back to the default window.
	for _, body := range []string{`{"stale_after": 5}`, `{broken`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/refresh/scan", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		srv.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.True(t, scanner.cutoff.IsZero(), "scan ran for body %q", body)
	}
}

func TestHandleRefreshScan_ScanError(t *testing.T) {
	scanner := &fakeScanner{scanErr: errors.New("store unreachable")}
	srv := newTestServer(&fakeApplier{}, scanner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/refresh/scan", nil)
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeApplier{}, &fakeScanner{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

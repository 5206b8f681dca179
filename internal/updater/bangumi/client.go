package bangumi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.bgm.tv"

	// Bangumi asks clients to stay well under a handful of requests per
	// second and to always send an identifying User-Agent.
	rateLimit = 2
	rateBurst = 4
	userAgent = "LavaAnimeLibServer/2.0"

	maxRetries   = 3
	initialDelay = 1 * time.Second
	maxDelay     = 16 * time.Second
)

// ErrSubjectNotFound is returned when Bangumi has no subject for an id.
var ErrSubjectNotFound = errors.New("bangumi subject not found")

// Client wraps the Bangumi v0 HTTP API with rate limiting and bounded
// retry on transient failures.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *logrus.Logger
}

// NewClient creates a Bangumi API client. An empty baseURL selects the
// public API endpoint.
func NewClient(baseURL string, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		logger:      logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// GetSubject fetches one subject (anime entry) by its Bangumi id.
func (c *Client) GetSubject(ctx context.Context, subjectID string) (*Subject, error) {
	var subject Subject
	endpoint := fmt.Sprintf("/v0/subjects/%s", subjectID)
	if err := c.doRequest(ctx, endpoint, &subject); err != nil {
		return nil, fmt.Errorf("fetch subject %s: %w", subjectID, err)
	}
	return &subject, nil
}

// doRequest performs a GET with rate limiting and exponential-backoff
// retry on 429/5xx and network errors. 404 maps to ErrSubjectNotFound
// without retrying.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	fullURL := c.baseURL + endpoint

	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				c.logger.WithError(err).WithFields(logrus.Fields{
					"url":     fullURL,
					"attempt": attempt + 1,
				}).Warn("Bangumi request failed, retrying")
				time.Sleep(delay)
				delay = minDuration(delay*2, maxDelay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return ErrSubjectNotFound
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			if shouldRetry(resp.StatusCode) && attempt < maxRetries {
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
				c.logger.WithFields(logrus.Fields{
					"url":     fullURL,
					"status":  resp.StatusCode,
					"attempt": attempt + 1,
				}).Warn("Bangumi returned retryable status")
				time.Sleep(delay)
				delay = minDuration(delay*2, maxDelay)
				continue
			}
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const eventChannel = "library:events"

// Notifier publishes library events over Redis pub/sub. A nil Notifier is
// valid and drops every event, so callers never have to branch on whether
// notifications are configured. Publish failures are logged and swallowed:
// notifications must never affect reconciliation or refresh outcomes.
type Notifier struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewNotifier connects to Redis using a redis:// URL. An empty URL disables
// notifications and returns a nil Notifier.
func NewNotifier(redisURL string, logger *logrus.Logger) (*Notifier, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Notifier{client: client, logger: logger}, nil
}

// Close releases the Redis connection.
func (n *Notifier) Close() error {
	if n == nil || n.client == nil {
		return nil
	}
	return n.client.Close()
}

// NotifyAnimeCreated announces a catalog entry created by the reconciler.
func (n *Notifier) NotifyAnimeCreated(animeID uint, name string) {
	n.publish(map[string]interface{}{
		"type":     "anime_created",
		"anime_id": animeID,
		"name":     name,
	})
}

// NotifyMetadataRefreshed announces that a site updater rewrote metadata
// for the entries linked to an external identifier.
func (n *Notifier) NotifyMetadataRefreshed(siteType, siteID string, animeIDs []uint) {
	n.publish(map[string]interface{}{
		"type":      "metadata_refreshed",
		"site_type": siteType,
		"site_id":   siteID,
		"anime_ids": animeIDs,
	})
}

func (n *Notifier) publish(payload map[string]interface{}) {
	if n == nil || n.client == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.WithError(err).Warn("Failed to marshal notification payload")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := n.client.Publish(ctx, eventChannel, body).Err(); err != nil {
		n.logger.WithError(err).WithField("type", payload["type"]).Warn("Failed to publish notification")
	}
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Scardubu/FootballForecast-sub006/internal/types"
)

// FeatureCache keeps recently extracted bundles in redis for the HTTP layer.
// Caching is a collaborator concern: the engine itself never reads or writes
// here, and concurrent extractions for the same fixture stay correct without
// it.
type FeatureCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewFeatureCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *FeatureCache {
	return &FeatureCache{client: client, ttl: ttl, logger: logger}
}

func featureKey(fixtureID int64) string {
	return fmt.Sprintf("features:fixture:%d", fixtureID)
}

// Get returns the cached bundle for a fixture, or nil on miss. Cache errors
// degrade to a miss: the caller re-extracts.
func (c *FeatureCache) Get(ctx context.Context, fixtureID int64) *types.MatchFeatures {
	raw, err := c.client.Get(ctx, featureKey(fixtureID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).WithField("fixture_id", fixtureID).Warn("Feature cache read failed")
		}
		return nil
	}

	var features types.MatchFeatures
	if err := json.Unmarshal(raw, &features); err != nil {
		c.logger.WithError(err).WithField("fixture_id", fixtureID).Warn("Discarding malformed cached features")
		return nil
	}
	return &features
}

// Set stores a bundle with the configured TTL. Failures are logged and
// swallowed; the cache is best-effort.
func (c *FeatureCache) Set(ctx context.Context, features *types.MatchFeatures) {
	raw, err := json.Marshal(features)
	if err != nil {
		c.logger.WithError(err).WithField("fixture_id", features.FixtureID).Warn("Failed to marshal features for cache")
		return
	}
	if err := c.client.Set(ctx, featureKey(features.FixtureID), raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("fixture_id", features.FixtureID).Warn("Feature cache write failed")
	}
}

// Package cache stores computed league reports in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rotolab/roto-api/internal/models"
)

const keyPrefix = "roto:report:"

// DefaultTTL applies when no TTL is configured.
const DefaultTTL = 15 * time.Minute

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roto_report_cache_hits_total",
		Help: "Total number of report cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roto_report_cache_misses_total",
		Help: "Total number of report cache misses",
	})
)

// RedisClient is the subset of *redis.Client the cache needs
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ReportCache keeps JSON-encoded league reports with a TTL
type ReportCache struct {
	client RedisClient
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewReportCache(client RedisClient, ttl time.Duration, logger *zap.SugaredLogger) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ReportCache{client: client, ttl: ttl, logger: logger}
}

// LeagueKey is the key of the default-options report of a stored league.
func LeagueKey(leagueID string) string {
	return keyPrefix + "league:" + leagueID
}

// ContentKey derives a key from the league snapshot and options, so identical
// ad-hoc requests share one entry.
func ContentKey(league models.League, opts models.AnalysisOptions) (string, error) {
	payload, err := json.Marshal(struct {
		League  models.League          `json:"league"`
		Options models.AnalysisOptions `json:"options"`
	}{league, opts})
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return keyPrefix + "hash:" + hashBytes(payload), nil
}

func hashBytes(b []byte) string {
	h := sha256.New()
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached report. A miss is (nil, false, nil).
func (c *ReportCache) Get(ctx context.Context, key string) (*models.LeagueReport, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		cacheMisses.Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var report models.LeagueReport
	if err := json.Unmarshal(raw, &report); err != nil {
		// A corrupt entry is treated as a miss and removed.
		c.logger.Warnw("Dropping undecodable cached report", "key", key, "error", err)
		_ = c.client.Del(ctx, key).Err()
		cacheMisses.Inc()
		return nil, false, nil
	}
	cacheHits.Inc()
	return &report, true, nil
}

// Set stores a report under key for the configured TTL.
func (c *ReportCache) Set(ctx context.Context, key string, report *models.LeagueReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate removes the stored report of a league.
func (c *ReportCache) Invalidate(ctx context.Context, leagueID string) error {
	return c.client.Del(ctx, LeagueKey(leagueID)).Err()
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/booking-api/internal/model"
)

// SummaryCache shares computed day summaries across instances for the
// calendar-grid view. The TTL stays seconds-scale: stale availability in the
// booking path directly causes double-booking risk, so single-date slot lists
// are never cached at all.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSummaryCache(redisURL string, ttl time.Duration) (*SummaryCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &SummaryCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

func rangeKey(serviceID, doctorID, from, to string) string {
	return fmt.Sprintf("availability:%s:%s:%s:%s", serviceID, doctorID, from, to)
}

// Get returns the cached summary map for a range query, or nil on miss. Cache
// errors degrade to a miss; the caller recomputes.
func (c *SummaryCache) Get(ctx context.Context, serviceID, doctorID, from, to string) map[string]model.DaySummary {
	if c == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, rangeKey(serviceID, doctorID, from, to)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("summary cache read failed")
		}
		return nil
	}

	var summaries map[string]model.DaySummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		log.Warn().Err(err).Msg("summary cache entry corrupt")
		return nil
	}
	return summaries
}

// Set stores a computed summary map. Failures are logged and ignored.
func (c *SummaryCache) Set(ctx context.Context, serviceID, doctorID, from, to string, summaries map[string]model.DaySummary) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(summaries)
	if err != nil {
		log.Warn().Err(err).Msg("summary cache encode failed")
		return
	}
	if err := c.client.Set(ctx, rangeKey(serviceID, doctorID, from, to), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("summary cache write failed")
	}
}

// Close releases the underlying redis connection.
func (c *SummaryCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

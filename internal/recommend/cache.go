package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/freigent-ai/freigent/internal/models"
)

const cacheTTL = 15 * time.Minute

// CachedGenerator wraps a Generator with a Redis cache keyed by a hash
// of the profile and query. Cache failures are best-effort: a Redis
// error falls through to the inner generator.
type CachedGenerator struct {
	inner  Generator
	client *redis.Client
	logger zerolog.Logger
}

// NewCachedGenerator creates a caching wrapper around gen.
func NewCachedGenerator(ctx context.Context, gen Generator, redisURL string, logger zerolog.Logger) (*CachedGenerator, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &CachedGenerator{inner: gen, client: client, logger: logger}, nil
}

// Close closes the Redis connection.
func (c *CachedGenerator) Close() error {
	return c.client.Close()
}

// cacheKey derives a stable key from the profile contents and the query.
func cacheKey(profile *models.UserProfile, query string) string {
	data, _ := json.Marshal(profile)
	sum := sha256.Sum256(append(data, []byte("\x00"+query)...))
	return fmt.Sprintf("rec:%s", hex.EncodeToString(sum[:]))
}

// Generate returns a cached result when one exists, otherwise delegates
// to the inner generator and stores its result with a TTL.
func (c *CachedGenerator) Generate(ctx context.Context, profile *models.UserProfile, query string) models.RecommendationResult {
	key := cacheKey(profile, query)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached models.RecommendationResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached
		}
	} else if err != redis.Nil {
		c.logger.Warn().Err(err).Msg("recommendation cache read failed")
	}

	result := c.inner.Generate(ctx, profile, query)

	// Fallback results carry no products; caching them would pin a
	// transient failure for the whole TTL.
	if len(result.Products) == 0 {
		return result
	}

	if data, err := json.Marshal(result); err == nil {
		if err := c.client.Set(ctx, key, data, cacheTTL).Err(); err != nil {
			c.logger.Warn().Err(err).Msg("recommendation cache write failed")
		}
	}

	return result
}

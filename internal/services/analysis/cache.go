package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"sentinel/internal/domain/assessment"
	"sentinel/pkg/logger"
)

// CacheConfig contains configuration for analysis result caching
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// DefaultCacheConfig returns default configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: true,
		TTL:     1 * time.Hour,
	}
}

// cachedResult is the stored cache entry
type cachedResult struct {
	Model    string                        `json:"model"`
	Result   assessment.DocumentAssessment `json:"result"`
	CachedAt time.Time                     `json:"cached_at"`
}

// Cache memoizes document analysis results in Redis, keyed by the content
// hash and model. Re-analyzing an unchanged document skips the model call.
// All failures fail open; a broken cache degrades to uncached behavior.
type Cache struct {
	config CacheConfig
	rdb    *goredis.Client
	log    *logger.Logger
}

// NewCache creates the analysis cache.
func NewCache(config CacheConfig, rdb *goredis.Client, log *logger.Logger) *Cache {
	return &Cache{
		config: config,
		rdb:    rdb,
		log:    log.With("component", "analysis_cache"),
	}
}

func (c *Cache) key(model, text string) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("analysis:%s:%x", model, hash[:16])
}

// Get returns a cached assessment for the given content, if present.
func (c *Cache) Get(ctx context.Context, model, text string) (*assessment.DocumentAssessment, bool) {
	if !c.config.Enabled {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, c.key(model, text)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warnw("Cache read failed", "error", err)
		}
		return nil, false
	}

	var entry cachedResult
	if err := json.Unmarshal(data, &entry); err != nil {
		c.log.Warnw("Corrupt cache entry", "error", err)
		return nil, false
	}

	c.log.Debugw("Cache hit", "model", model, "cached_at", entry.CachedAt)
	result := entry.Result
	return &result, true
}

// Set stores an assessment for later reuse.
func (c *Cache) Set(ctx context.Context, model, text string, result *assessment.DocumentAssessment) {
	if !c.config.Enabled {
		return
	}

	entry := cachedResult{
		Model:    model,
		Result:   *result,
		CachedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, c.key(model, text), data, c.config.TTL).Err(); err != nil {
		c.log.Warnw("Cache write failed", "error", err)
	}
}

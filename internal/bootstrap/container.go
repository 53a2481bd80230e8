package bootstrap

import (
	"context"

	"go.uber.org/zap"

	"sentinel/internal/adapters/ai"
	airtableadapter "sentinel/internal/adapters/airtable"
	"sentinel/internal/adapters/config"
	redisclient "sentinel/internal/adapters/redis"
	"sentinel/internal/adapters/storage"
	"sentinel/internal/api"
	"sentinel/internal/api/health"
	"sentinel/internal/domain/document"
	"sentinel/internal/domain/vendor"
	"sentinel/internal/metrics"
	airtablerepo "sentinel/internal/repository/airtable"
	"sentinel/internal/services/analysis"
	"sentinel/internal/services/assessmentstore"
	"sentinel/internal/services/extraction"
	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

// Container holds all application dependencies and their lifecycle
// Components are organized in initialization order
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure
	Redis    *redisclient.Client
	Airtable *airtableadapter.Client
	Storage  storage.Store

	// Repositories
	Vendors   vendor.Repository
	Documents document.Repository

	// Services
	Extractor   *extraction.Extractor
	Analyzer    *analysis.Analyzer
	Synthesizer *analysis.Synthesizer
	Assessments *assessmentstore.Store

	// Application layer
	Audit  *zap.Logger
	Server *api.Server
}

// New builds the full dependency graph. Missing Airtable or Gemini
// credentials put the corresponding component into mock mode rather than
// failing startup.
func New(ctx context.Context, cfg *config.Config, tracker errors.Tracker, log *logger.Logger) (*Container, error) {
	c := &Container{
		Config:       cfg,
		Log:          log,
		ErrorTracker: tracker,
	}

	metrics.Init()

	// Redis is optional; it backs the distributed model rate limiter.
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, falling back to in-process rate limiting: %v", err)
		} else {
			c.Redis = redisClient
			log.Info("✓ Redis connected")
		}
	}

	var limiter ai.RateLimiter
	if c.Redis != nil {
		limiter = ai.NewRedisRateLimiter(c.Redis.Client(), "gemini", cfg.AI.ReqPerMinute, cfg.AI.Burst)
	} else {
		limiter = ai.NewTokenBucketLimiter(cfg.AI.ReqPerMinute, cfg.AI.Burst)
	}

	gemini, err := ai.NewGeminiClient(ctx, cfg.AI, limiter, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init model client")
	}
	var model ai.Client
	modelMode := "mock"
	if gemini != nil {
		model = gemini
		modelMode = cfg.AI.Model
		log.Infof("✓ Model client initialized (%s)", cfg.AI.Model)
	} else {
		log.Warn("GEMINI_API_KEY not set, analysis runs in mock mode")
	}

	c.Storage, err = storage.New(cfg.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init storage")
	}

	c.Airtable = airtableadapter.NewClient(cfg.Airtable)
	recordStoreMode := "airtable"
	if c.Airtable == nil {
		recordStoreMode = "mock"
		log.Warn("Airtable credentials not set, record store runs in mock mode")
	} else {
		log.Info("✓ Airtable client initialized")
	}
	c.Vendors = airtablerepo.NewVendorRepo(c.Airtable)
	c.Documents = airtablerepo.NewDocumentRepo(c.Airtable)

	c.Extractor = extraction.New(log)
	c.Analyzer = analysis.NewAnalyzer(model, log)
	if c.Redis != nil && model != nil {
		c.Analyzer.WithCache(analysis.NewCache(analysis.DefaultCacheConfig(), c.Redis.Client(), log))
		log.Info("✓ Analysis cache enabled")
	}
	c.Synthesizer = analysis.NewSynthesizer(model, c.Analyzer, log)

	c.Assessments, err = assessmentstore.New(cfg.Assessments.Path, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init assessment store")
	}

	if cfg.Audit.Enabled {
		audit, err := logger.NewAudit(cfg.Audit.Path)
		if err != nil {
			log.Warnf("Audit log disabled: %v", err)
		} else {
			c.Audit = audit
			log.Infof("✓ Audit log writing to %s", cfg.Audit.Path)
		}
	}

	healthHandler := health.New(log, cfg.Storage.Path, recordStoreMode, modelMode, c.Redis, cfg.App.Name, cfg.App.Version)
	handlers := api.NewHandlers(cfg, c.Vendors, c.Documents, c.Storage, c.Extractor, c.Analyzer, c.Synthesizer, c.Assessments, log)
	c.Server = api.NewServer(cfg, handlers, healthHandler, c.Audit, log)

	return c, nil
}

// Close releases held resources in reverse initialization order.
func (c *Container) Close() {
	if c.Audit != nil {
		_ = c.Audit.Sync()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warnf("Redis close failed: %v", err)
		}
	}
}

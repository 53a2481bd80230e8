package ai

import (
	"context"
	"time"

	"google.golang.org/genai"

	"sentinel/internal/adapters/config"
	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

// Client is the model gateway consumed by the analysis services.
// Implementations return the raw response text; parsing and validation are the
// caller's responsibility.
type Client interface {
	// Generate sends one prompt and returns the model's text response.
	// The schema constrains the response to strict JSON of the given shape.
	Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error)

	// Model returns the configured model identifier.
	Model() string
}

// GeminiClient implements Client against the Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter RateLimiter
	log     *logger.Logger
}

// NewGeminiClient creates a Gemini-backed model client.
// Returns nil (mock mode) when no API key is configured.
func NewGeminiClient(ctx context.Context, cfg config.AIConfig, limiter RateLimiter, log *logger.Logger) (*GeminiClient, error) {
	if !cfg.Configured() {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	if limiter == nil {
		limiter = NewNoOpLimiter()
	}

	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		limiter: limiter,
		log:     log.With("component", "gemini_client", "model", cfg.Model),
	}, nil
}

// Model returns the configured model identifier.
func (c *GeminiClient) Model() string { return c.model }

// Generate sends a prompt and returns the response text. The call is rate
// limited and bounded by the configured timeout; both failure modes surface as
// ErrModelFailure so callers can apply their degraded-result policy uniformly.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(errors.ErrModelFailure, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.2),
	}
	if schema != nil {
		genCfg.ResponseSchema = schema
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		c.log.Warnf("Model call failed after %s: %v", time.Since(start), err)
		return "", errors.Wrap(errors.ErrModelFailure, err.Error())
	}

	text := resp.Text()
	if text == "" {
		return "", errors.Wrap(errors.ErrModelFailure, "empty model response")
	}

	c.log.Debugf("Model call completed in %s (%d chars)", time.Since(start), len(text))
	return text, nil
}

package analysis

import (
	"context"
	"fmt"

	"sentinel/internal/adapters/ai"
	"sentinel/internal/domain/assessment"
	"sentinel/internal/security"
	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

// Analyzer produces a risk assessment for a single document.
// A nil model client switches it to deterministic mock results so the service
// can run without an API key.
type Analyzer struct {
	client    ai.Client
	validator *assessment.Validator
	cache     *Cache
	log       *logger.Logger
}

// NewAnalyzer creates a document analyzer. client may be nil for mock mode.
func NewAnalyzer(client ai.Client, log *logger.Logger) *Analyzer {
	return &Analyzer{
		client:    client,
		validator: assessment.NewValidator(),
		log:       log.With("component", "analyzer"),
	}
}

// WithCache enables result memoization for unchanged document content.
func (a *Analyzer) WithCache(cache *Cache) *Analyzer {
	a.cache = cache
	return a
}

// MockMode reports whether the analyzer runs without a model client.
func (a *Analyzer) MockMode() bool { return a.client == nil }

// AnalyzeDocument runs a single-document risk analysis.
//
// The text is sanitized before it reaches the model; suspicious content and
// invalid input abort the analysis. Model failures degrade to a conservative
// mid-range result instead of failing the request. Validation failures on the
// model's own output are returned as errors.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, vendorName, documentType, filename, text string) (*assessment.DocumentAssessment, error) {
	clean, err := security.Sanitize(text)
	if err != nil {
		return nil, err
	}

	if a.client == nil {
		a.log.Infow("No model configured, returning mock analysis", "filename", filename)
		return mockResult(filename, documentType), nil
	}

	if a.cache != nil {
		if cached, ok := a.cache.Get(ctx, a.client.Model(), clean); ok {
			cached.Filename = filename
			cached.DocumentType = documentType
			return cached, nil
		}
	}

	raw, err := a.client.Generate(ctx, documentPrompt(vendorName, documentType, clean), documentResultSchema)
	if err != nil {
		a.log.Warnw("Model call failed, returning degraded result", "filename", filename, "error", err)
		return degradedResult(filename, documentType, err), nil
	}

	parsed, err := parseDocumentResult(raw)
	if err != nil {
		a.log.Warnw("Model response unparseable, returning degraded result", "filename", filename, "error", err)
		return degradedResult(filename, documentType, err), nil
	}

	result := &assessment.DocumentAssessment{
		Filename:        filename,
		DocumentType:    documentType,
		RiskScore:       parsed.RiskScore,
		RiskLevel:       assessment.RiskLevel(parsed.RiskLevel),
		Findings:        parsed.Findings,
		Recommendations: parsed.Recommendations,
	}
	if result.Findings == nil {
		result.Findings = []string{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}

	if err := a.validator.ValidateDocumentResult(result); err != nil {
		return nil, errors.Wrapf(err, "model response for %s rejected", filename)
	}

	if a.cache != nil {
		a.cache.Set(ctx, a.client.Model(), clean, result)
	}
	return result, nil
}

// mockResult is the canned assessment used when no API key is configured.
func mockResult(filename, documentType string) *assessment.DocumentAssessment {
	return &assessment.DocumentAssessment{
		Filename:     filename,
		DocumentType: documentType,
		RiskScore:    75,
		RiskLevel:    assessment.RiskHigh,
		Findings: []string{
			"No SOC2 certification evidence found in document",
			"Data encryption practices are not described",
			"Incident response procedures are not documented",
		},
		Recommendations: []string{
			"Request a current SOC2 Type II report",
			"Verify encryption controls for data at rest and in transit",
			"Require a documented incident response plan",
		},
	}
}

// degradedResult stands in when the analysis fails. Mid-range score so the
// document is neither cleared nor blocked without human review; the single
// finding records what went wrong.
func degradedResult(filename, documentType string, cause error) *assessment.DocumentAssessment {
	return &assessment.DocumentAssessment{
		Filename:     filename,
		DocumentType: documentType,
		RiskScore:    50,
		RiskLevel:    assessment.RiskMedium,
		Findings: []string{
			fmt.Sprintf("Analysis error: %v", cause),
		},
		Recommendations: []string{
			"Retry the analysis",
			"Review the document manually",
		},
	}
}

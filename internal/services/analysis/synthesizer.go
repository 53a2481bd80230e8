package analysis

import (
	"context"
	"fmt"
	"time"

	"sentinel/internal/adapters/ai"
	"sentinel/internal/domain/assessment"
	"sentinel/internal/domain/document"
	"sentinel/internal/domain/vendor"
	"sentinel/pkg/logger"
)

// DocumentInput pairs a stored document with its extracted text for the
// cross-document synthesis. Text may be empty when extraction failed; the
// document still participates through its stored analysis if it has one.
type DocumentInput struct {
	Doc  document.Document
	Text string
}

// Synthesizer produces the vendor-level comprehensive assessment from all of
// a vendor's documents. The endpoint always returns a complete assessment:
// any synthesis failure falls back to a deterministic aggregate of the
// individual document scores.
type Synthesizer struct {
	client    ai.Client
	analyzer  *Analyzer
	validator *assessment.Validator
	log       *logger.Logger
}

// NewSynthesizer creates a synthesizer. client may be nil for mock mode.
func NewSynthesizer(client ai.Client, analyzer *Analyzer, log *logger.Logger) *Synthesizer {
	return &Synthesizer{
		client:    client,
		analyzer:  analyzer,
		validator: assessment.NewValidator(),
		log:       log.With("component", "synthesizer"),
	}
}

// Synthesize runs the comprehensive assessment for a vendor.
//
// Documents that already carry a completed analysis reuse it; the rest are
// analyzed from a bounded prefix of their text. A document whose individual
// analysis fails participates as a mid-range placeholder rather than sinking
// the whole synthesis.
func (s *Synthesizer) Synthesize(ctx context.Context, v vendor.Vendor, inputs []DocumentInput) (*assessment.ComprehensiveAssessment, error) {
	start := time.Now()

	individual := make([]assessment.DocumentAssessment, 0, len(inputs))
	excerpts := make([]string, 0, len(inputs))
	for _, in := range inputs {
		a := s.individualAssessment(ctx, v.Name, in)
		individual = append(individual, a)
		excerpts = append(excerpts, in.Text)
	}

	if len(individual) == 0 {
		s.log.Warnw("No documents to synthesize", "vendor_id", v.ID)
		return s.fallback(v, nil, start), nil
	}

	if s.client == nil {
		s.log.Infow("No model configured, returning aggregate assessment", "vendor_id", v.ID)
		return s.fallback(v, individual, start), nil
	}

	summaries := make([]string, len(individual))
	for i, a := range individual {
		summaries[i] = documentSummary(a, excerpts[i])
	}

	raw, err := s.client.Generate(ctx, synthesisPrompt(v.Name, summaries), comprehensiveResultSchema)
	if err != nil {
		s.log.Warnw("Synthesis model call failed, falling back to aggregate", "vendor_id", v.ID, "error", err)
		return s.fallback(v, individual, start), nil
	}

	parsed, err := parseComprehensiveResult(raw)
	if err != nil {
		s.log.Warnw("Synthesis response unparseable, falling back to aggregate", "vendor_id", v.ID, "error", err)
		return s.fallback(v, individual, start), nil
	}

	result := s.buildResult(v, parsed, individual, start)
	if err := s.validator.ValidateComprehensiveResult(result); err != nil {
		s.log.Warnw("Synthesis response rejected, falling back to aggregate", "vendor_id", v.ID, "error", err)
		return s.fallback(v, individual, start), nil
	}
	return result, nil
}

// individualAssessment reuses a stored analysis when present, otherwise runs
// a fresh one over a bounded prefix of the document text.
func (s *Synthesizer) individualAssessment(ctx context.Context, vendorName string, in DocumentInput) assessment.DocumentAssessment {
	if in.Doc.AnalysisStatus == document.StatusCompleted && in.Doc.RiskScore != nil {
		return assessment.DocumentAssessment{
			Filename:        in.Doc.Filename,
			DocumentType:    in.Doc.DocumentType,
			RiskScore:       *in.Doc.RiskScore,
			RiskLevel:       assessment.ParseRiskLevel(in.Doc.RiskLevel),
			Findings:        in.Doc.Findings,
			Recommendations: in.Doc.Recommendations,
		}
	}

	text := in.Text
	if len(text) > analysisPrefixLen {
		text = text[:analysisPrefixLen]
	}

	result, err := s.analyzer.AnalyzeDocument(ctx, vendorName, in.Doc.DocumentType, in.Doc.Filename, text)
	if err != nil {
		s.log.Warnw("Individual analysis failed during synthesis", "filename", in.Doc.Filename, "error", err)
		return *degradedResult(in.Doc.Filename, in.Doc.DocumentType, err)
	}
	return *result
}

// buildResult maps the parsed model response into the final assessment,
// re-deriving the decision from the score. The model's decision label is
// advisory only.
func (s *Synthesizer) buildResult(v vendor.Vendor, parsed *comprehensiveResult, individual []assessment.DocumentAssessment, start time.Time) *assessment.ComprehensiveAssessment {
	score := assessment.ClampScore(parsed.OverallRiskScore)
	derived := assessment.DeriveDecision(score, parsed.CriticalRiskUnmitigated)
	if label, ok := assessment.ParseDecision(parsed.Decision); ok && label != derived {
		s.log.Warnw("Model decision overridden by decision framework",
			"vendor_id", v.ID, "model_decision", label, "derived", derived, "score", score)
	}

	result := &assessment.ComprehensiveAssessment{
		VendorID:              v.ID,
		VendorName:            v.Name,
		OverallRiskScore:      score,
		OverallRiskLevel:      assessment.RiskLevel(parsed.OverallRiskLevel),
		Decision:              derived,
		DecisionJustification: parsed.DecisionJustification,
		DocumentsAnalyzed:     len(individual),
		IndividualAnalyses:    individual,
		ConsolidatedFindings:  parsed.ConsolidatedFindings,
		CrossDocumentInsights: parsed.CrossDocumentInsights,
		Contradictions:        parsed.Contradictions,
		Recommendations:       parsed.Recommendations,
		AnalysisDate:          time.Now().UTC().Format(time.RFC3339),
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}
	if result.ConsolidatedFindings == nil {
		result.ConsolidatedFindings = []string{}
	}
	if result.CrossDocumentInsights == nil {
		result.CrossDocumentInsights = []string{}
	}
	if result.Contradictions == nil {
		result.Contradictions = []string{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}
	return result
}

// fallback builds the deterministic aggregate used when synthesis is
// unavailable: the integer average of the individual scores, Medium below 70,
// always Conditional. With no individual analyses it defaults to a mid-range
// conditional result pending manual review.
func (s *Synthesizer) fallback(v vendor.Vendor, individual []assessment.DocumentAssessment, start time.Time) *assessment.ComprehensiveAssessment {
	result := &assessment.ComprehensiveAssessment{
		VendorID:              v.ID,
		VendorName:            v.Name,
		DocumentsAnalyzed:     len(individual),
		IndividualAnalyses:    individual,
		ConsolidatedFindings:  []string{},
		CrossDocumentInsights: []string{},
		Contradictions:        []string{},
		Recommendations:       []string{},
		AnalysisDate:          time.Now().UTC().Format(time.RFC3339),
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}
	if result.IndividualAnalyses == nil {
		result.IndividualAnalyses = []assessment.DocumentAssessment{}
	}

	if len(individual) == 0 {
		result.OverallRiskScore = 50
		result.OverallRiskLevel = assessment.RiskMedium
		result.Decision = assessment.DecisionConditional
		result.DecisionJustification = "No document analyses were available. Defaulting to a conditional recommendation pending manual review."
		return result
	}

	sum := 0
	for _, a := range individual {
		sum += a.RiskScore
		for i, f := range a.Findings {
			if i >= synthesisTopFindings {
				break
			}
			result.ConsolidatedFindings = append(result.ConsolidatedFindings, fmt.Sprintf("%s: %s", a.Filename, f))
		}
	}
	score := assessment.ClampScore(sum / len(individual))

	result.OverallRiskScore = score
	result.OverallRiskLevel = assessment.RiskMedium
	if score >= 70 {
		result.OverallRiskLevel = assessment.RiskHigh
	}
	// The aggregate carries no cross-document signal, so the decision stays
	// Conditional regardless of the average.
	result.Decision = assessment.DecisionConditional
	result.DecisionJustification = fmt.Sprintf(
		"Average risk score across %d documents is %d. Cross-document synthesis was unavailable, so this result is a per-document aggregate pending manual review.",
		len(individual), score)
	result.Recommendations = append(result.Recommendations, "Review individual document findings manually")
	return result
}

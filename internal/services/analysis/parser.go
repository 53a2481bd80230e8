package analysis

import (
	"encoding/json"
	"strings"

	"sentinel/pkg/errors"
)

// documentResult is the JSON shape the model returns for one document.
type documentResult struct {
	RiskScore       int      `json:"risk_score"`
	RiskLevel       string   `json:"risk_level"`
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
}

// comprehensiveResult is the JSON shape the model returns for the
// cross-document synthesis.
type comprehensiveResult struct {
	OverallRiskScore        int      `json:"overall_risk_score"`
	OverallRiskLevel        string   `json:"overall_risk_level"`
	Decision                string   `json:"decision"`
	DecisionJustification   string   `json:"decision_justification"`
	ConsolidatedFindings    []string `json:"consolidated_findings"`
	CrossDocumentInsights   []string `json:"cross_document_insights"`
	Contradictions          []string `json:"contradictions"`
	Recommendations         []string `json:"recommendations"`
	CriticalRiskUnmitigated bool     `json:"critical_risk_unmitigated"`
}

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one despite the response MIME type.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	return strings.TrimSpace(raw)
}

func parseDocumentResult(raw string) (*documentResult, error) {
	var result documentResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return nil, errors.Wrapf(errors.ErrModelFailure, "unparseable model response: %v", err)
	}
	return &result, nil
}

func parseComprehensiveResult(raw string) (*comprehensiveResult, error) {
	var result comprehensiveResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return nil, errors.Wrapf(errors.ErrModelFailure, "unparseable model response: %v", err)
	}
	return &result, nil
}

package assessment

import (
	"sentinel/internal/security"
	"sentinel/pkg/errors"
)

// Validator enforces the result schema on model output before it is trusted:
// list-length caps, re-application of the injection pattern check, and enum
// coercion. Overflow is an error, not a truncation, so a misbehaving model is
// surfaced rather than quietly trimmed.
type Validator struct{}

// NewValidator creates a result validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDocumentResult checks a single-document assessment produced from
// model output. The assessment is modified in place (score clamp, level
// coercion) and an error is returned when it cannot be trusted.
func (v *Validator) ValidateDocumentResult(a *DocumentAssessment) error {
	a.RiskScore = ClampScore(a.RiskScore)
	a.RiskLevel = ParseRiskLevel(string(a.RiskLevel))

	if err := v.checkList("findings", a.Findings, MaxFindings); err != nil {
		return err
	}
	if err := v.checkList("recommendations", a.Recommendations, MaxFindings); err != nil {
		return err
	}

	return nil
}

// ValidateComprehensiveResult checks a cross-document synthesis result.
func (v *Validator) ValidateComprehensiveResult(a *ComprehensiveAssessment) error {
	a.OverallRiskScore = ClampScore(a.OverallRiskScore)
	a.OverallRiskLevel = ParseRiskLevel(string(a.OverallRiskLevel))

	if len(a.DecisionJustification) > MaxJustificationLen {
		a.DecisionJustification = a.DecisionJustification[:MaxJustificationLen]
	}

	lists := []struct {
		field string
		items []string
	}{
		{"consolidated_findings", a.ConsolidatedFindings},
		{"cross_document_insights", a.CrossDocumentInsights},
		{"contradictions", a.Contradictions},
		{"recommendations", a.Recommendations},
	}
	for _, l := range lists {
		if err := v.checkList(l.field, l.items, MaxComprehensiveList); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) checkList(field string, items []string, max int) error {
	if len(items) > max {
		return errors.NewValidationError(field, "list exceeds maximum length", len(items))
	}
	if err := security.CheckModelOutput(items); err != nil {
		return err
	}
	return nil
}

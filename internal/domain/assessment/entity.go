package assessment

// RiskLevel is the coarse risk bucket derived from a 0-100 score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Decision is the Go/Conditional/No-Go recommendation for a vendor relationship.
type Decision string

const (
	DecisionGo          Decision = "Go"
	DecisionConditional Decision = "Conditional"
	DecisionNoGo        Decision = "No-Go"
)

// List caps. Overflow raises a validation error, never silent truncation.
const (
	MaxFindings          = 50
	MaxComprehensiveList = 100
	MaxJustificationLen  = 2000
)

// DocumentAssessment is the result of analyzing a single document.
// Immutable once returned by the analyzer.
type DocumentAssessment struct {
	Filename        string    `json:"filename,omitempty"`
	DocumentType    string    `json:"document_type,omitempty"`
	RiskScore       int       `json:"risk_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Findings        []string  `json:"findings"`
	Recommendations []string  `json:"recommendations"`
}

// ComprehensiveAssessment is the cross-document synthesis result for a vendor.
// Created once per synthesis call and not mutated afterward.
type ComprehensiveAssessment struct {
	VendorID              string               `json:"vendor_id"`
	VendorName            string               `json:"vendor_name"`
	OverallRiskScore      int                  `json:"overall_risk_score"`
	OverallRiskLevel      RiskLevel            `json:"overall_risk_level"`
	Decision              Decision             `json:"decision"`
	DecisionJustification string               `json:"decision_justification"`
	DocumentsAnalyzed     int                  `json:"documents_analyzed"`
	IndividualAnalyses    []DocumentAssessment `json:"individual_analyses"`
	ConsolidatedFindings  []string             `json:"consolidated_findings"`
	CrossDocumentInsights []string             `json:"cross_document_insights"`
	Contradictions        []string             `json:"contradictions"`
	Recommendations       []string             `json:"recommendations"`
	AnalysisDate          string               `json:"analysis_date"`
	ProcessingTimeSeconds float64              `json:"processing_time_seconds"`
}

// ClampScore bounds a risk score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ParseRiskLevel coerces a model-supplied level to one of the three allowed
// values, defaulting to Medium for anything unrecognized.
func ParseRiskLevel(s string) RiskLevel {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s)
	default:
		return RiskMedium
	}
}

// ParseDecision coerces a model-supplied decision label. The second return is
// false when the label is not one of the allowed values.
func ParseDecision(s string) (Decision, bool) {
	switch Decision(s) {
	case DecisionGo, DecisionConditional, DecisionNoGo:
		return Decision(s), true
	default:
		return DecisionConditional, false
	}
}

// DeriveDecision applies the decision framework to an overall risk score.
// The model's own decision label is advisory; callers re-derive the decision
// from the score and the critical-risk flag and override a disagreeing label.
//
// Thresholds: Go below 40, or below 60 when no unmitigated critical risk
// remains; No-Go above 70, or above 60 with an unmitigated critical risk;
// Conditional otherwise.
func DeriveDecision(score int, criticalUnmitigated bool) Decision {
	switch {
	case score > 70:
		return DecisionNoGo
	case criticalUnmitigated && score > 60:
		return DecisionNoGo
	case score < 40:
		return DecisionGo
	case score < 60 && !criticalUnmitigated:
		return DecisionGo
	default:
		return DecisionConditional
	}
}

// LevelForScore maps a score to the fallback risk level used when the model
// does not return a usable one: Medium below 70, High at 70 and above.
func LevelForScore(score int) RiskLevel {
	if score < 70 {
		return RiskMedium
	}
	return RiskHigh
}

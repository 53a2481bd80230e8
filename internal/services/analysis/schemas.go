package analysis

import "google.golang.org/genai"

// Response schemas passed to the model so it returns strict JSON.

var stringList = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

var documentResultSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"risk_score": {Type: genai.TypeInteger},
		"risk_level": {
			Type: genai.TypeString,
			Enum: []string{"Low", "Medium", "High"},
		},
		"findings":        stringList,
		"recommendations": stringList,
	},
	Required: []string{"risk_score", "risk_level", "findings", "recommendations"},
}

var comprehensiveResultSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"overall_risk_score": {Type: genai.TypeInteger},
		"overall_risk_level": {
			Type: genai.TypeString,
			Enum: []string{"Low", "Medium", "High"},
		},
		"decision": {
			Type: genai.TypeString,
			Enum: []string{"Go", "Conditional", "No-Go"},
		},
		"decision_justification":    {Type: genai.TypeString},
		"consolidated_findings":     stringList,
		"cross_document_insights":   stringList,
		"contradictions":            stringList,
		"recommendations":           stringList,
		"critical_risk_unmitigated": {Type: genai.TypeBoolean},
	},
	Required: []string{
		"overall_risk_score",
		"overall_risk_level",
		"decision",
		"decision_justification",
		"consolidated_findings",
		"recommendations",
	},
}
